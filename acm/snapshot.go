/*
snapshot.go - Immutable configuration snapshot

PURPOSE:
  A Snapshot bundles everything one calculation reads: rates, schemes,
  cost matrix, document wording and the edition stamp. Snapshots are never
  mutated after publication. An update builds a new snapshot and swaps the
  holder's pointer, so an in-flight calculation keeps the snapshot it
  loaded.

    holder.Store(snap)          // publish
    snap := holder.Load()       // once per calculation
    old := holder.Swap(next)    // admin update

SEE ALSO:
  - registry/registry.go: Builds and swaps snapshots on admin writes
  - eligibility/engine.go: Loads the snapshot once per call
*/
package acm

import "sync/atomic"

// Snapshot is one published configuration.
type Snapshot struct {
	Edition   Edition       `json:"edition"`
	Rates     RateTable     `json:"rates"`
	Schemes   SchemeTable   `json:"schemes"`
	Matrix    CostMatrix    `json:"matrix"`
	Documents DocumentTable `json:"documents"`
}

// Scheme returns the configuration of a scheme.
func (s *Snapshot) Scheme(id Scheme) (SchemeConfig, bool) {
	cfg, ok := s.Schemes[id]
	return cfg, ok
}

// WithRates returns a shallow copy using the given rate table.
func (s *Snapshot) WithRates(r RateTable) *Snapshot {
	next := *s
	next.Rates = r
	return &next
}

// WithDocuments returns a shallow copy using the given document table.
func (s *Snapshot) WithDocuments(d DocumentTable) *Snapshot {
	next := *s
	next.Documents = d
	return &next
}

// WithEdition returns a shallow copy using the given edition stamp.
func (s *Snapshot) WithEdition(e Edition) *Snapshot {
	next := *s
	next.Edition = e
	return &next
}

// SnapshotHolder publishes snapshots atomically.
type SnapshotHolder struct {
	ptr atomic.Pointer[Snapshot]
}

// NewSnapshotHolder returns a holder publishing snap.
func NewSnapshotHolder(snap *Snapshot) *SnapshotHolder {
	h := &SnapshotHolder{}
	h.ptr.Store(snap)
	return h
}

// Load returns the current snapshot, nil before the first Store.
func (h *SnapshotHolder) Load() *Snapshot { return h.ptr.Load() }

// Store publishes snap.
func (h *SnapshotHolder) Store(snap *Snapshot) { h.ptr.Store(snap) }

// Swap publishes snap and returns the previous snapshot.
func (h *SnapshotHolder) Swap(snap *Snapshot) *Snapshot { return h.ptr.Swap(snap) }
