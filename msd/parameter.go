package msd

// Position locates a character in the input stream.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

// Parameter is one #...; block decomposed into its components.
// The first component is the key, everything after it is a value.
// A Parameter is never mutated after the parser yields it.
type Parameter struct {
	// Components holds the key followed by the values, in input order.
	// Comments are stripped and escapes resolved.
	Components []string

	// Pos is the position of the '#' that opened the block.
	Pos Position
}

// Key returns the first component, the part immediately after the '#'.
// The second result is false only for a zero-component parameter, which
// the parser never produces.
func (p Parameter) Key() (string, bool) {
	if len(p.Components) == 0 {
		return "", false
	}
	return p.Components[0], true
}

// Value returns the first value, separated from the key by a ':'.
// Returns false if the block ended right after the key; callers usually
// treat that the same as a blank value.
func (p Parameter) Value() (string, bool) {
	return p.ValueAt(0)
}

// ValueAt returns the i-th value (zero-based, not counting the key).
func (p Parameter) ValueAt(i int) (string, bool) {
	if i < 0 || i+1 >= len(p.Components) {
		return "", false
	}
	return p.Components[i+1], true
}

// Values returns all components after the key. The returned slice
// aliases the parameter's components and must not be modified.
func (p Parameter) Values() []string {
	if len(p.Components) <= 1 {
		return nil
	}
	return p.Components[1:]
}
