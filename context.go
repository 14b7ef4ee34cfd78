package codika

import (
	"fmt"
	"sort"
	"strings"

	"github.com/davidroman0O/codika/store"
)

const (
	// KeySuccess is the reserved field holding the success flag.
	KeySuccess = "success"
	// KeyError is the reserved field holding the failure payload.
	KeyError = "error"
)

// ReservedKeys lists the fields managed by the framework, in the order they
// are reported by ReservedKeyError.
var ReservedKeys = []string{KeySuccess, KeyError}

// NormalizeKey returns the canonical spelling of a context key: one leading
// ':' removed, so "success" and ":success" name the same field. Whitespace
// is part of the key.
func NormalizeKey(key string) string {
	return strings.TrimPrefix(key, ":")
}

// IsReservedKey reports whether key names a framework-managed field.
func IsReservedKey(key string) bool {
	key = NormalizeKey(key)
	return key == KeySuccess || key == KeyError
}

// Context is the key/value record threaded through an action invocation.
// Domain data lives in an ordered store; success and error are reserved and
// only change through Fail.
type Context struct {
	data   *store.KVStore
	failed bool
	reason any
}

// NewContext builds a successful context from params. Keys are normalized,
// nested maps and slices of maps included, and inserted in sorted order.
// Params carrying a reserved key are rejected with a *ReservedKeyError.
func NewContext(params Params) (*Context, error) {
	normalized := normalizeParams(params)

	var reserved []string
	for _, k := range ReservedKeys {
		if _, ok := normalized[k]; ok {
			reserved = append(reserved, k)
		}
	}
	if len(reserved) > 0 {
		return nil, &ReservedKeyError{Keys: reserved}
	}

	keys := make([]string, 0, len(normalized))
	for k := range normalized {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	c := &Context{data: store.NewKVStore()}
	for _, k := range keys {
		if err := c.data.Put(k, normalized[k]); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// normalizeParams normalizes keys recursively. When two spellings collide
// the one sorting last wins.
func normalizeParams(params Params) map[string]any {
	raw := make([]string, 0, len(params))
	for k := range params {
		raw = append(raw, k)
	}
	sort.Strings(raw)

	out := make(map[string]any, len(params))
	for _, k := range raw {
		out[NormalizeKey(k)] = normalizeValue(params[k])
	}
	return out
}

func normalizeValue(v any) any {
	switch nested := v.(type) {
	case Params:
		return Params(normalizeParams(nested))
	case map[string]any:
		return normalizeParams(nested)
	case []any:
		out := make([]any, len(nested))
		for i, item := range nested {
			out[i] = normalizeValue(item)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(nested))
		for i, item := range nested {
			out[i] = normalizeParams(item)
		}
		return out
	default:
		return v
	}
}

// Get returns the value stored under key. Reserved keys read the success
// flag and the failure payload.
func (c *Context) Get(key string) (any, bool) {
	key = NormalizeKey(key)
	switch key {
	case KeySuccess:
		return c.Success(), true
	case KeyError:
		return c.reason, true
	}
	return c.data.Lookup(key)
}

// Has reports whether the context can answer a read for key. Keys holding
// nil are present.
func (c *Context) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Set writes value under key, adding the key if it is new.
func (c *Context) Set(key string, value any) error {
	key = NormalizeKey(key)
	if IsReservedKey(key) {
		return &ReservedKeyError{Keys: []string{key}}
	}
	return c.data.Put(key, value)
}

// Delete removes a domain key and reports whether it was present.
func (c *Context) Delete(key string) bool {
	return c.data.Delete(NormalizeKey(key))
}

// Keys returns the domain keys in first-write order.
func (c *Context) Keys() []string {
	return c.data.ListKeys()
}

// Len returns the number of domain keys.
func (c *Context) Len() int {
	return c.data.Count()
}

// Success reports whether the context has not been failed.
func (c *Context) Success() bool {
	return !c.failed
}

// Failure reports whether Fail has been called.
func (c *Context) Failure() bool {
	return c.failed
}

// Fail marks the context as failed and records reason. Calling it again
// replaces the reason; the context never becomes successful again.
func (c *Context) Fail(reason any) {
	c.failed = true
	c.reason = reason
}

// ErrorValue returns the payload given to Fail, or nil.
func (c *Context) ErrorValue() any {
	return c.reason
}

// ToMap returns a shallow snapshot of the domain keys, reserved fields excluded.
func (c *Context) ToMap() Params {
	return Params(c.data.Snapshot())
}

// Schema returns the JSON schema of the value stored under key.
func (c *Context) Schema(key string) (any, error) {
	return c.data.GetTypeSchema(NormalizeKey(key))
}

// merge copies every domain key of other into c, overwriting existing keys.
func (c *Context) merge(other *Context) error {
	_, _, err := c.data.CopyFromWithOverwrite(other.data)
	return err
}

// Value reads key from c as a T.
func Value[T any](c *Context, key string) (T, error) {
	key = NormalizeKey(key)
	if IsReservedKey(key) {
		v, _ := c.Get(key)
		if t, ok := v.(T); ok {
			return t, nil
		}
		var zero T
		if v == nil {
			return zero, nil
		}
		return zero, fmt.Errorf("%w: wanted %T for %s, got %T", store.ErrTypeMismatch, zero, key, v)
	}
	return store.Get[T](c.data, key)
}

// ValueOr reads key from c as a T, returning fallback when the key is absent.
func ValueOr[T any](c *Context, key string, fallback T) (T, error) {
	key = NormalizeKey(key)
	if IsReservedKey(key) {
		return Value[T](c, key)
	}
	return store.GetOrDefault(c.data, key, fallback)
}
