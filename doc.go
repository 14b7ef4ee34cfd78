// Package codika structures business logic as small validated actions that
// share a key/value context and can be chained into pipelines.
//
// Core components include:
//   - Context: the mutable key/value record an action reads and writes, with
//     two reserved fields (success and error) managed by the framework
//   - Contract: the keys an action requires on entry and promises on exit
//   - Service: an action running one named method of a type embedding Base
//   - Organizer: an action running an ordered list of steps and merging
//     their results into one context
//
// Contract violations (*ActionableError, *ReservedKeyError) and errors
// returned by action bodies are returned as errors. A business failure is
// not an error: the body calls Context.Fail and the caller inspects
// Failure and ErrorValue on the returned context.
//
// Organizers deliberately keep running after a step fails. Every step is
// attempted, later steps still see the accumulated data, and the organizer
// reports the error of the first step that failed. Only an error returned
// by a step stops the pipeline early.
package codika
