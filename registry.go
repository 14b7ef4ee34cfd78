package codika

import (
	"fmt"
	"sort"

	"github.com/sasha-s/go-deadlock"
)

var (
	registryMu     deadlock.RWMutex
	actionRegistry = make(map[string]Action)
)

// RegisterAction adds action to the process-wide table under its name.
// It is meant to be called at startup, building the table once.
// It will panic if the name is empty or already registered.
func RegisterAction(action Action) {
	if action == nil || action.Name() == "" {
		panic("codika: cannot register an action without a name")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := actionRegistry[action.Name()]; exists {
		panic(fmt.Sprintf("action with name '%s' is already registered", action.Name()))
	}
	actionRegistry[action.Name()] = action
}

// LookupAction returns the registered action with the given name.
func LookupAction(name string) (Action, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	action, ok := actionRegistry[name]
	if !ok {
		return nil, fmt.Errorf("action with name '%s' not found in registry", name)
	}
	return action, nil
}

// NewStepFromRegistry builds a step from a registered action name.
func NewStepFromRegistry(name, method string) (Step, error) {
	action, err := LookupAction(name)
	if err != nil {
		return Step{}, err
	}
	return NewStep(action, method), nil
}

// RegisteredContracts returns the contract of every registered action,
// keyed by action name.
func RegisteredContracts() map[string]Contract {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make(map[string]Contract, len(actionRegistry))
	for name, action := range actionRegistry {
		out[name] = action.Contract()
	}
	return out
}

// RegisteredNames returns the registered action names, sorted.
func RegisteredNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(actionRegistry))
	for name := range actionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// unregisterAction removes name from the table. Used by tests.
func unregisterAction(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(actionRegistry, name)
}
