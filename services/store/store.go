package store

import "time"

// Set maps a deal fingerprint to the time the deal was first announced.
// It is the in-memory working copy of the persisted seen set: loaded once
// at run start, marked during the run, saved once at run end.
type Set map[string]time.Time

// NewSet returns an empty seen set
func NewSet() Set {
	return make(Set)
}

// Contains reports whether the fingerprint has been announced before
func (s Set) Contains(fingerprint string) bool {
	_, ok := s[fingerprint]
	return ok
}

// Mark records a fingerprint with its first-seen time. Marking an already
// present fingerprint is a no-op, so the original first-seen time survives.
func (s Set) Mark(fingerprint string, firstSeen time.Time) {
	if _, ok := s[fingerprint]; ok {
		return
	}
	s[fingerprint] = firstSeen
}

// FirstSeen returns the recorded first-seen time for a fingerprint
func (s Set) FirstSeen(fingerprint string) (time.Time, bool) {
	ts, ok := s[fingerprint]
	return ts, ok
}

// Prune removes entries first seen longer than olderThan before now and
// returns how many were removed
func (s Set) Prune(olderThan time.Duration, now time.Time) int {
	cutoff := now.Add(-olderThan)
	removed := 0
	for fingerprint, ts := range s {
		if ts.Before(cutoff) {
			delete(s, fingerprint)
			removed++
		}
	}
	return removed
}

// Store persists the seen set between runs
type Store interface {
	// Load reads the persisted set. Loading never fails: a missing or
	// corrupt file yields an empty set and a logged warning.
	Load() Set

	// Save persists the full set atomically. Either the new set replaces
	// the old one or the previous state stays untouched.
	Save(s Set) error
}
