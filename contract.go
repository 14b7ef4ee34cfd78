package codika

// Contract is the immutable set of keys an action requires before its body
// runs and promises after it succeeds. Builders return new values, so a
// contract can be shared and extended without affecting its parent.
type Contract struct {
	required []string
	promised []string
}

// NewContract returns an empty contract.
func NewContract() Contract {
	return Contract{}
}

// Requires returns a copy of c with keys added to the required set.
func (c Contract) Requires(keys ...string) Contract {
	return Contract{
		required: appendKeys(c.required, keys),
		promised: clone(c.promised),
	}
}

// Promises returns a copy of c with keys added to the promised set.
func (c Contract) Promises(keys ...string) Contract {
	return Contract{
		required: clone(c.required),
		promised: appendKeys(c.promised, keys),
	}
}

// Extend returns a contract holding parent's keys followed by the keys of c
// that parent does not declare. This is how a child action builds on a
// parent's contract.
func (c Contract) Extend(parent Contract) Contract {
	return Contract{
		required: appendKeys(parent.required, c.required),
		promised: appendKeys(parent.promised, c.promised),
	}
}

// RequiredKeys returns the required keys in declaration order.
func (c Contract) RequiredKeys() []string {
	return clone(c.required)
}

// PromisedKeys returns the promised keys in declaration order.
func (c Contract) PromisedKeys() []string {
	return clone(c.promised)
}

// RequiresKey reports whether key is required.
func (c Contract) RequiresKey(key string) bool {
	return contains(c.required, NormalizeKey(key))
}

// PromisesKey reports whether key is promised.
func (c Contract) PromisesKey(key string) bool {
	return contains(c.promised, NormalizeKey(key))
}

// IsZero reports whether the contract declares no keys.
func (c Contract) IsZero() bool {
	return len(c.required) == 0 && len(c.promised) == 0
}

// MissingRequired returns the required keys ctx cannot answer, in
// declaration order.
func (c Contract) MissingRequired(ctx *Context) []string {
	return missingKeys(c.required, ctx)
}

// MissingPromised returns the promised keys ctx cannot answer, in
// declaration order.
func (c Contract) MissingPromised(ctx *Context) []string {
	return missingKeys(c.promised, ctx)
}

func missingKeys(keys []string, ctx *Context) []string {
	var missing []string
	for _, k := range keys {
		if !ctx.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// appendKeys returns a new slice with the normalized keys not already in base.
func appendKeys(base, keys []string) []string {
	out := clone(base)
	for _, k := range keys {
		k = NormalizeKey(k)
		if k == "" || contains(out, k) {
			continue
		}
		out = append(out, k)
	}
	return out
}

func clone(keys []string) []string {
	if len(keys) == 0 {
		return nil
	}
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
