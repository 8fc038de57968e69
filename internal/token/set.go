package token

import "strings"

// Set is the candidate-token-set: the external kinds acceptable in the
// host's current parse state.
type Set uint16

// NewSet builds a set from kinds.
func NewSet(kinds ...Kind) Set {
	var s Set
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// SetFromValid converts a tree-sitter style valid_symbols slice, indexed in
// ExternalKinds order, into a Set.
func SetFromValid(valid []bool) Set {
	var s Set
	for i, ok := range valid {
		if ok && i < len(ExternalKinds) {
			s = s.With(ExternalKinds[i])
		}
	}
	return s
}

// With returns s with k added.
func (s Set) With(k Kind) Set { return s | 1<<k }

// Without returns s with k removed.
func (s Set) Without(k Kind) Set { return s &^ (1 << k) }

// Has reports whether k is a candidate.
func (s Set) Has(k Kind) bool { return s&(1<<k) != 0 }

// Empty reports whether no kind is acceptable.
func (s Set) Empty() bool { return s == 0 }

func (s Set) String() string {
	parts := make([]string, 0, len(ExternalKinds))
	for _, k := range ExternalKinds {
		if s.Has(k) {
			parts = append(parts, k.String())
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}
