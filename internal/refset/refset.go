// Package refset edits a profile's ordered reference image list. The set is
// client-local: edits accumulate here and are pushed to the service as a
// wholesale replace.
package refset

import "strings"

// Sanitize reduces a reference entry to its final path segment. References
// arrive from gallery paths on several platforms, so both separators count.
func Sanitize(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	if idx := strings.LastIndexAny(trimmed, "/\\"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	return strings.TrimSpace(trimmed)
}

// ParseText splits free-form reference text on newlines and commas,
// sanitizes each entry, drops empties, and de-duplicates preserving
// first-seen order.
func ParseText(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	seen := make(map[string]struct{}, len(fields))
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		name := Sanitize(field)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Set is an ordered collection of unique reference image names.
type Set struct {
	names []string
}

// New builds a set from existing names, sanitizing and de-duplicating them.
func New(names ...string) *Set {
	s := &Set{}
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Names returns a copy of the current ordering.
func (s *Set) Names() []string {
	cp := make([]string, len(s.names))
	copy(cp, s.names)
	return cp
}

// Len returns the number of references in the set.
func (s *Set) Len() int {
	return len(s.names)
}

// Add appends name if it is not already present. Returns true when the set
// changed.
func (s *Set) Add(name string) bool {
	sanitized := Sanitize(name)
	if sanitized == "" {
		return false
	}
	for _, existing := range s.names {
		if existing == sanitized {
			return false
		}
	}
	s.names = append(s.names, sanitized)
	return true
}

// Remove deletes every occurrence of name. Returns true when the set
// changed.
func (s *Set) Remove(name string) bool {
	sanitized := Sanitize(name)
	kept := s.names[:0]
	removed := false
	for _, existing := range s.names {
		if existing == sanitized {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	s.names = kept
	return removed
}

// MoveUp swaps the entry at index with its predecessor. Moving the first
// entry up is a no-op, not an error.
func (s *Set) MoveUp(index int) bool {
	return s.swap(index, index-1)
}

// MoveDown swaps the entry at index with its successor. Moving the last
// entry down is a no-op, not an error.
func (s *Set) MoveDown(index int) bool {
	return s.swap(index, index+1)
}

func (s *Set) swap(index, target int) bool {
	if index < 0 || index >= len(s.names) {
		return false
	}
	if target < 0 || target >= len(s.names) {
		return false
	}
	s.names[index], s.names[target] = s.names[target], s.names[index]
	return true
}

// ReplaceFromText atomically replaces the whole set with the entries parsed
// from text.
func (s *Set) ReplaceFromText(text string) {
	s.names = ParseText(text)
}

// MergeInbox appends any name not already present, preserving the current
// order. Repeated delivery of the same names is a no-op, so inbox producers
// may deliver at-least-once. Returns the number of names added.
func (s *Set) MergeInbox(names []string) int {
	added := 0
	for _, name := range names {
		if s.Add(name) {
			added++
		}
	}
	return added
}
