package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"
)

var (
	// ErrNotFound is returned when a key is absent from the store.
	ErrNotFound = errors.New("key not found")
	// ErrTypeMismatch is returned when the stored value cannot be read as the requested type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrEmptyKey is returned for operations on the empty key.
	ErrEmptyKey = errors.New("key cannot be empty")
)

// entry keeps a value together with the concrete type it was stored with.
// typ is nil for nil values.
type entry struct {
	typ      reflect.Type
	typeKind reflect.Kind
	value    any
}

// KVStore is a threadsafe, type‑aware in‑memory store that remembers the
// order in which keys were first written.
type KVStore struct {
	mu    sync.RWMutex
	data  map[string]entry
	order []string
}

// NewKVStore constructs an empty store.
func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string]entry)}
}

func newEntry(value any) entry {
	if value == nil {
		return entry{typeKind: reflect.Invalid}
	}
	t := reflect.TypeOf(value)
	return entry{typ: t, typeKind: t.Kind(), value: value}
}

// Put stores any Go value under key, capturing its concrete type.
// Nil values are stored as present keys. Overwriting a key keeps its
// original position in the key order.
func (s *KVStore) Put(key string, value any) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	s.putLocked(key, newEntry(value))
	s.mu.Unlock()
	return nil
}

// putLocked writes e under key and reports whether the key already existed.
func (s *KVStore) putLocked(key string, e entry) bool {
	_, exists := s.data[key]
	if !exists {
		s.order = append(s.order, key)
	}
	s.data[key] = e
	return exists
}

// Lookup returns the raw value stored under key and whether the key exists.
func (s *KVStore) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	return e.value, ok
}

// Has reports whether key is present, regardless of its value.
func (s *KVStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data[key]
	return ok
}

// Get retrieves a value of type T for the given key.
func Get[T any](s *KVStore, key string) (T, error) {
	var zero T
	if key == "" {
		return zero, ErrEmptyKey
	}

	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	want := reflect.TypeOf((*T)(nil)).Elem()

	// A stored nil reads as the zero value of any nillable type.
	if e.typ == nil {
		switch want.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return zero, nil
		}
		return zero, fmt.Errorf("%w: wanted %v, got nil", ErrTypeMismatch, want)
	}

	if want.Kind() == reflect.Interface {
		if !e.typ.Implements(want) {
			return zero, fmt.Errorf("%w: wanted interface %v, got %v which doesn't implement it",
				ErrTypeMismatch, want, e.typ)
		}
	} else if e.typ != want {
		return zero, fmt.Errorf("%w: wanted %v (kind: %v), got %v (kind: %v)",
			ErrTypeMismatch, want, want.Kind(), e.typ, e.typeKind)
	}

	result, ok := e.value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T cannot be converted to %v", ErrTypeMismatch, e.value, want)
	}
	return result, nil
}

// GetOrDefault retrieves a value of type T for the given key, or
// defaultValue when the key is absent. Type mismatches are still reported.
func GetOrDefault[T any](s *KVStore, key string, defaultValue T) (T, error) {
	value, err := Get[T](s, key)
	if errors.Is(err, ErrNotFound) {
		return defaultValue, nil
	}
	return value, err
}

// Delete removes a key from the store.
func (s *KVStore) Delete(key string) bool {
	if key == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; !exists {
		return false
	}
	delete(s.data, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// ListKeys returns all stored keys in first-write order.
func (s *KVStore) ListKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Count returns the number of entries in the store.
func (s *KVStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// KeysByType returns all keys whose stored value has type T, in key order.
func KeysByType[T any](s *KVStore) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := reflect.TypeOf((*T)(nil)).Elem()
	keys := []string{}
	for _, k := range s.order {
		if s.data[k].typ == want {
			keys = append(keys, k)
		}
	}
	return keys
}

// Snapshot returns a shallow copy of every entry.
func (s *KVStore) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.data))
	for k, e := range s.data {
		out[k] = e.value
	}
	return out
}

// CopyFromWithOverwrite copies all entries from the source store into this store,
// overwriting any existing entries in the destination with the same keys.
// Values are shared, not cloned. New keys are appended in the source's order.
// Returns the number of entries copied and the number of entries overwritten.
func (s *KVStore) CopyFromWithOverwrite(source *KVStore) (copied int, overwritten int, err error) {
	if source == nil {
		return 0, 0, errors.New("source store is nil")
	}
	if source == s {
		return 0, s.Count(), nil
	}

	source.mu.RLock()
	defer source.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range source.order {
		if s.putLocked(key, source.data[key]) {
			overwritten++
		} else {
			copied++
		}
	}
	return copied, overwritten, nil
}

// GetTypeSchema returns a JSON Schema representation of the stored value's type.
func (s *KVStore) GetTypeSchema(key string) (any, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if e.typ == nil {
		return map[string]any{"type": "null"}, nil
	}
	return TypeToSchema(e.typ), nil
}

// TypeToSchema converts a reflect.Type to a JSON schema.
func TypeToSchema(t reflect.Type) any {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	reflector := jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	schema := reflector.ReflectFromType(t)

	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}

	var schemaMap map[string]any
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}

	if t.Kind() == reflect.Struct {
		if _, exists := schemaMap["type"]; !exists {
			schemaMap["type"] = "object"
		}
		if _, exists := schemaMap["properties"]; !exists {
			schemaMap["properties"] = map[string]any{}
		}
	}
	return schemaMap
}
