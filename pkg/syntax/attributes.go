package syntax

import "iter"

// Value is an attribute value. A flag value represents a presence-only
// attribute such as `<input disabled>`.
type Value struct {
	Text string
	Flag bool
}

// String returns a string attribute value.
func String(text string) Value {
	return Value{Text: text}
}

// Flag returns a presence-only attribute value.
func Flag() Value {
	return Value{Flag: true}
}

// Attribute is a single name/value pair.
type Attribute struct {
	Name  string
	Value Value
}

// Attributes is an insertion-ordered attribute map.
//
// Set on an existing name overwrites the value but keeps the position at
// which the name was first seen. The zero value is ready to use.
type Attributes struct {
	entries []Attribute
	index   map[string]int
}

// NewAttributes returns an empty attribute map.
func NewAttributes() *Attributes {
	return &Attributes{}
}

// Set stores value under name.
func (a *Attributes) Set(name string, value Value) {
	if a.index == nil {
		a.index = make(map[string]int)
	}
	if i, ok := a.index[name]; ok {
		a.entries[i].Value = value
		return
	}
	a.index[name] = len(a.entries)
	a.entries = append(a.entries, Attribute{Name: name, Value: value})
}

// Get returns the value stored under name.
func (a *Attributes) Get(name string) (Value, bool) {
	if a == nil {
		return Value{}, false
	}
	i, ok := a.index[name]
	if !ok {
		return Value{}, false
	}
	return a.entries[i].Value, true
}

// Len returns the number of distinct names.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.entries)
}

// All iterates the attributes in insertion order.
func (a *Attributes) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if a == nil {
			return
		}
		for _, entry := range a.entries {
			if !yield(entry.Name, entry.Value) {
				return
			}
		}
	}
}

// Entries returns a copy of the attributes in insertion order.
func (a *Attributes) Entries() []Attribute {
	if a == nil || len(a.entries) == 0 {
		return nil
	}
	out := make([]Attribute, len(a.entries))
	copy(out, a.entries)
	return out
}
