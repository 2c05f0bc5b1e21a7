/*
registry.go - Live ACM configuration

PURPOSE:
  Owns the published snapshot. On start it loads the embedded baseline and
  overlays the newest stored revision of each kind. Every admin write is
  parsed and validated by the factory, appended to the revision history and
  only then published as a brand-new snapshot.

WRITE PATH:
  1. Parse + default + validate        (factory)
  2. Derive the next snapshot from the current one
  3. Persist the canonical JSON        (store.SaveRevision)
  4. Publish                           (holder.Swap)

  A rejected document never reaches the store, and a failed insert never
  reaches the holder. Writers are serialized; readers never block.

SEE ALSO:
  - acm/snapshot.go: Snapshot and SnapshotHolder
  - factory/acm.go: Parsing and validation
  - store/sqlite/sqlite.go: Revision history
*/
package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/warp/acm-engine/acm"
	"github.com/warp/acm-engine/factory"
	"github.com/warp/acm-engine/logging"
	"github.com/warp/acm-engine/store/sqlite"
)

// Reference document kinds accepted by MarkUploaded.
const (
	DocGuide = "guide"
	DocTable = "table"
)

// Registry publishes the live configuration.
type Registry struct {
	store   *sqlite.Store
	factory *factory.ConfigFactory
	holder  *acm.SnapshotHolder
	log     *logging.Logger

	mu sync.Mutex // serializes writers
}

// New creates a registry publishing into holder. Nothing is published
// until Load.
func New(store *sqlite.Store, holder *acm.SnapshotHolder, log *logging.Logger) *Registry {
	return &Registry{
		store:   store,
		factory: factory.New(),
		holder:  holder,
		log:     logging.Or(log),
	}
}

// Holder returns the holder the registry publishes into.
func (r *Registry) Holder() *acm.SnapshotHolder { return r.holder }

// Snapshot returns the published snapshot, nil before Load.
func (r *Registry) Snapshot() *acm.Snapshot { return r.holder.Load() }

// =============================================================================
// LOADING
// =============================================================================

// Load publishes the baseline overlaid with the latest stored revisions.
// A stored revision that no longer validates is skipped with an error log
// so the service still starts on the baseline value.
func (r *Registry) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := r.factory.Baseline()
	if err != nil {
		return err
	}

	if rev, err := r.latest(ctx, sqlite.RevisionRates); err != nil {
		return err
	} else if rev != nil {
		if rates, err := r.factory.ParseRates([]byte(rev.Body)); err != nil {
			r.log.Errorf("[Registry] Skipping rates revision %s: %v", rev.ID, err)
		} else {
			snap = snap.WithRates(rates)
		}
	}

	if rev, err := r.latest(ctx, sqlite.RevisionDocuments); err != nil {
		return err
	} else if rev != nil {
		if docs, err := r.factory.ParseDocuments([]byte(rev.Body)); err != nil {
			r.log.Errorf("[Registry] Skipping documents revision %s: %v", rev.ID, err)
		} else {
			snap = snap.WithDocuments(docs)
		}
	}

	if rev, err := r.latest(ctx, sqlite.RevisionEdition); err != nil {
		return err
	} else if rev != nil {
		if ed, err := r.factory.ParseEdition([]byte(rev.Body)); err != nil {
			r.log.Errorf("[Registry] Skipping edition revision %s: %v", rev.ID, err)
		} else {
			snap = snap.WithEdition(ed)
		}
	}

	r.holder.Store(snap)
	r.log.Infof("[Registry] Loaded %s", snap.Edition.Label())
	return nil
}

func (r *Registry) latest(ctx context.Context, kind sqlite.RevisionKind) (*sqlite.Revision, error) {
	rev, err := r.store.LatestRevision(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s revision: %w", kind, err)
	}
	return rev, nil
}

// =============================================================================
// WRITES
// =============================================================================

// ReplaceRates validates body as a rate table and publishes it.
func (r *Registry) ReplaceRates(ctx context.Context, body []byte, author string) (*acm.Snapshot, error) {
	rates, err := r.factory.ParseRates(body)
	if err != nil {
		return nil, err
	}
	return r.publish(ctx, sqlite.RevisionRates, rates, author, func(cur *acm.Snapshot) *acm.Snapshot {
		return cur.WithRates(rates)
	})
}

// ReplaceDocuments validates body as a document table and publishes it.
func (r *Registry) ReplaceDocuments(ctx context.Context, body []byte, author string) (*acm.Snapshot, error) {
	docs, err := r.factory.ParseDocuments(body)
	if err != nil {
		return nil, err
	}
	return r.publish(ctx, sqlite.RevisionDocuments, docs, author, func(cur *acm.Snapshot) *acm.Snapshot {
		return cur.WithDocuments(docs)
	})
}

// ReplaceEdition validates body as an edition stamp and publishes it.
// Upload timestamps absent from body are carried over from the current
// edition.
func (r *Registry) ReplaceEdition(ctx context.Context, body []byte, author string) (*acm.Snapshot, error) {
	ed, err := r.factory.ParseEdition(body)
	if err != nil {
		return nil, err
	}
	return r.publishEdition(ctx, author, func(cur acm.Edition) acm.Edition {
		if ed.GuideUploadedAt == nil {
			ed.GuideUploadedAt = cur.GuideUploadedAt
		}
		if ed.TableUploadedAt == nil {
			ed.TableUploadedAt = cur.TableUploadedAt
		}
		return ed
	})
}

// MarkUploaded stamps the upload time of a reference document onto the
// edition.
func (r *Registry) MarkUploaded(ctx context.Context, kind string, at time.Time) (*acm.Snapshot, error) {
	if kind != DocGuide && kind != DocTable {
		return nil, &acm.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown document %q", kind)}
	}
	at = at.UTC()
	return r.publishEdition(ctx, "upload", func(ed acm.Edition) acm.Edition {
		if kind == DocGuide {
			ed.GuideUploadedAt = &at
		} else {
			ed.TableUploadedAt = &at
		}
		return ed
	})
}

func (r *Registry) publishEdition(ctx context.Context, author string, next func(acm.Edition) acm.Edition) (*acm.Snapshot, error) {
	return r.publishWith(ctx, sqlite.RevisionEdition, author,
		func(cur *acm.Snapshot) (any, *acm.Snapshot) {
			ed := next(cur.Edition)
			return ed, cur.WithEdition(ed)
		})
}

func (r *Registry) publish(ctx context.Context, kind sqlite.RevisionKind, doc any, author string, next func(*acm.Snapshot) *acm.Snapshot) (*acm.Snapshot, error) {
	return r.publishWith(ctx, kind, author, func(cur *acm.Snapshot) (any, *acm.Snapshot) {
		return doc, next(cur)
	})
}

// publishWith derives the next snapshot and its stored document from the
// current snapshot under the writer lock, persists the document and swaps.
func (r *Registry) publishWith(ctx context.Context, kind sqlite.RevisionKind, author string, derive func(*acm.Snapshot) (any, *acm.Snapshot)) (*acm.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.holder.Load()
	if cur == nil {
		return nil, acm.ErrNoSnapshot
	}
	doc, next := derive(cur)

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	rev, err := r.store.SaveRevision(ctx, sqlite.Revision{Kind: kind, Body: string(body), Author: author})
	if err != nil {
		return nil, fmt.Errorf("save %s revision: %w", kind, err)
	}

	r.holder.Swap(next)
	r.log.Infof("[Registry] Published %s revision %s (%s)", kind, rev.ID, next.Edition.Label())
	return next, nil
}

// Revisions lists stored revisions newest first. An empty kind lists all.
func (r *Registry) Revisions(ctx context.Context, kind sqlite.RevisionKind, limit int) ([]sqlite.Revision, error) {
	return r.store.ListRevisions(ctx, kind, limit)
}
