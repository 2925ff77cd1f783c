package tasks

import "strings"

// matchLocked resolves an identifier to a board index, or -1.
//
// Stages, first hit wins:
//  1. exact ID
//  2. case-insensitive exact title
//  3. case-insensitive title substring
//
// Within stages 2 and 3 the store's MatchPolicy breaks ties.
func (s *Store) matchLocked(identifier string) int {
	if idx := s.indexByIDLocked(identifier); idx >= 0 {
		return idx
	}

	needle := strings.ToLower(strings.TrimSpace(identifier))
	if needle == "" {
		return -1
	}

	if idx := s.findLocked(func(title string) bool { return title == needle }); idx >= 0 {
		return idx
	}
	return s.findLocked(func(title string) bool { return strings.Contains(title, needle) })
}

func (s *Store) indexByIDLocked(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// findLocked scans titles (lower-cased) in the order given by the policy.
func (s *Store) findLocked(match func(title string) bool) int {
	if s.policy == MatchRecent {
		for i := len(s.tasks) - 1; i >= 0; i-- {
			if match(strings.ToLower(s.tasks[i].Title)) {
				return i
			}
		}
		return -1
	}

	for i, t := range s.tasks {
		if match(strings.ToLower(t.Title)) {
			return i
		}
	}
	return -1
}
