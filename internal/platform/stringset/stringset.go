// Package stringset implements set semantics on plain slices: every insert
// checks for existence first, so slices stored as JSON lists behave as sets.
package stringset

import "slices"

// Add appends v if absent. The bool reports whether s changed.
func Add[S ~[]E, E comparable](s S, v E) (S, bool) {
	if slices.Contains(s, v) {
		return s, false
	}
	return append(s, v), true
}

// Remove drops every occurrence of v.
func Remove[S ~[]E, E comparable](s S, v E) (S, bool) {
	if !slices.Contains(s, v) {
		return s, false
	}
	out := make(S, 0, len(s))
	for _, e := range s {
		if e != v {
			out = append(out, e)
		}
	}
	return out, true
}

// Union adds each of vs that is not present yet, preserving order.
func Union[S ~[]E, E comparable](s S, vs []E) (S, bool) {
	changed := false
	for _, v := range vs {
		var added bool
		s, added = Add(s, v)
		changed = changed || added
	}
	return s, changed
}

// Difference removes each of vs from s.
func Difference[S ~[]E, E comparable](s S, vs []E) (S, bool) {
	changed := false
	for _, v := range vs {
		var removed bool
		s, removed = Remove(s, v)
		changed = changed || removed
	}
	return s, changed
}

// Clone returns a copy that never aliases s. A nil input yields an empty, non-nil slice.
func Clone[S ~[]E, E any](s S) S {
	out := make(S, len(s))
	copy(out, s)
	return out
}
