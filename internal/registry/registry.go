// Package registry tracks which screenshot identities have already been
// handled so each file is processed at most once per daemon lifetime.
package registry

import "path/filepath"

// Outcome is what happened to a seen identity. Besides the two sentinels,
// any other value is the text that resulted from processing (possibly ""
// for "processed, no text found").
type Outcome string

const (
	// OutcomePendingSeen marks files that existed at startup and were
	// never processed.
	OutcomePendingSeen Outcome = "pending-seen"

	// OutcomeSkipped marks files observed while detection was paused.
	OutcomeSkipped Outcome = "__SKIPPED__"
)

// Registry is the idempotent seen-set. Entries are never evicted; the map
// is bounded by the number of screenshots taken in a session. All access
// is confined to the dispatcher goroutine, so no locking is needed.
type Registry struct {
	entries map[string]Outcome
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]Outcome)}
}

// Identity resolves a screenshot path to its deduplication key: the
// symlink-resolved absolute path. Falls back to the absolute path when the
// symlink chain cannot be resolved.
func Identity(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// MarkGathered records identities that existed before live events started.
// Already-recorded identities keep their outcome.
func (r *Registry) MarkGathered(identities []string) {
	for _, id := range identities {
		if _, ok := r.entries[id]; !ok {
			r.entries[id] = OutcomePendingSeen
		}
	}
}

// Seen reports whether an identity has already been observed.
func (r *Registry) Seen(identity string) bool {
	_, ok := r.entries[identity]
	return ok
}

// Record stores the outcome for an identity, overwriting any previous one.
func (r *Registry) Record(identity string, outcome Outcome) {
	r.entries[identity] = outcome
}

// Outcome returns the recorded outcome for an identity.
func (r *Registry) Outcome(identity string) (Outcome, bool) {
	outcome, ok := r.entries[identity]
	return outcome, ok
}

// Len returns the number of tracked identities.
func (r *Registry) Len() int {
	return len(r.entries)
}
