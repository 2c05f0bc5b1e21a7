/*
Package eligibility computes the grant-claimable cost of a training event.

PURPOSE:
  Calculate maps an Input and a configuration Snapshot to an itemized
  Result. It is a pure function: no I/O, no logging, no shared state. The
  Engine wrapper reads the currently published snapshot exactly once per
  call, so a concurrent admin update never changes the tables halfway
  through a calculation.

CONTROL FLOW:
  1. validateInput      malformed input      -> *acm.ValidationError
  2. classify           derived predicates, computed once
  3. checkCap           hard participant cap -> *acm.BlockedError
  4. schemeChecks       staged advisory warnings
  5. scenarioFor        one handler per programme variant emits cost items
  6. assemble           totals, ordered warnings, document checklist

USAGE:
  engine := eligibility.New(holder)
  res, err := engine.Calculate(in)
  res, err = engine.Calculate(in, eligibility.WithRates(custom))

SEE ALSO:
  - scenarios.go: Per-variant handlers
  - components.go: Allowances shared by several handlers
  - fees.go: Course fee computations
  - checklist.go: Supporting-document checklist
*/
package eligibility

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/warp/acm-engine/acm"
)

// Engine evaluates inputs against the published snapshot.
type Engine struct {
	holder *acm.SnapshotHolder
}

// New creates an engine reading snapshots from holder.
func New(holder *acm.SnapshotHolder) *Engine {
	return &Engine{holder: holder}
}

// Option overrides part of the snapshot for one calculation.
type Option func(*options)

type options struct {
	rates *acm.RateTable
	docs  *acm.DocumentTable
}

// WithRates evaluates against the given rate table instead of the
// published one.
func WithRates(r acm.RateTable) Option {
	return func(o *options) { o.rates = &r }
}

// WithDocuments renders documents from the given table instead of the
// published one.
func WithDocuments(d acm.DocumentTable) Option {
	return func(o *options) { o.docs = &d }
}

// Calculate evaluates in against the current snapshot.
func (e *Engine) Calculate(in acm.Input, opts ...Option) (*acm.Result, error) {
	snap := e.holder.Load()
	if snap == nil {
		return nil, acm.ErrNoSnapshot
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.rates != nil {
		snap = snap.WithRates(*o.rates)
	}
	if o.docs != nil {
		snap = snap.WithDocuments(*o.docs)
	}
	return Calculate(snap, in)
}

// Snapshot returns the snapshot the next calculation would read.
func (e *Engine) Snapshot() *acm.Snapshot {
	return e.holder.Load()
}

// =============================================================================
// CALCULATION
// =============================================================================

// calc carries the state of one calculation.
type calc struct {
	in     acm.Input
	p      profile
	snap   *acm.Snapshot
	rates  *acm.RateTable
	scheme acm.SchemeConfig

	items       []acm.CostItem
	warn        warnings
	air         airTally
	airEntitled int
}

func (c *calc) emit(item acm.CostItem) {
	c.items = append(c.items, item)
}

// Calculate evaluates in against snap.
func Calculate(snap *acm.Snapshot, in acm.Input) (*acm.Result, error) {
	if snap == nil {
		return nil, acm.ErrNoSnapshot
	}
	if err := validateInput(in, &snap.Rates); err != nil {
		return nil, err
	}
	p := classify(in)
	if err := checkCap(in, p, &snap.Rates); err != nil {
		return nil, err
	}

	scheme, ok := snap.Scheme(in.Scheme)
	if !ok {
		return nil, &acm.ValidationError{Field: "scheme", Reason: "scheme is not configured"}
	}

	c := &calc{
		in:     in,
		p:      p,
		snap:   snap,
		rates:  &snap.Rates,
		scheme: scheme,
	}
	c.schemeChecks()
	c.complianceChecks()

	if err := scenarioFor(in.Variant).items(c); err != nil {
		return nil, err
	}
	return c.assemble(), nil
}

// assemble totals the items and appends the closing warnings.
func (c *calc) assemble() *acm.Result {
	total := decimal.Zero
	deficit := decimal.Zero
	for _, item := range c.items {
		if item.HasAmount() {
			total = total.Add(item.Amount.Decimal)
		}
		deficit = deficit.Add(item.Deficit)
	}

	if lo.SomeBy(c.items, func(i acm.CostItem) bool { return i.IsEstimate }) {
		c.estimateNote()
	}
	if c.p.AnyOverseas {
		c.warn.add(stageVariant, "Overseas training/seminar: %s financial assistance applies on course fee, daily allowance, and air ticket.",
			pct(c.rates.Overseas.AssistanceRate))
	}
	if c.p.Remote {
		c.warn.add(stageVariant, "ROT (Remote Online Training): Air ticket is NOT claimable. "+
			"Travel allowance IS claimable: at own premises for branch and other-employer trainees only, at an external venue for all trainees. "+
			"Chartered transport IS claimable at external venues.")
	}
	c.warn.add(stageAttendance, "Attendance must be at least 75%% of total training hours. Allowances are prorated by attendance.")
	if c.airEntitled > 0 && !c.p.Remote {
		c.warn.add(stageAttendance, "Air ticket (actual cost) must be supported by ticket stub / e-Ticket and travel agent invoice.")
	}

	items := c.items
	if items == nil {
		items = []acm.CostItem{}
	}
	return &acm.Result{
		Edition:           c.snap.Edition.Label(),
		Items:             items,
		TotalClaimable:    total,
		TotalDeficit:      deficit,
		AirTicketEntitled: c.airEntitled,
		Warnings:          c.warn.flatten(),
		Checklist:         c.checklist(),
	}
}

func (c *calc) estimateNote() {
	if c.p.Development {
		c.warn.add(stageEstimate, "Items marked as estimates use %s/pax as a proxy for the programme fee. Actual invoice determines final claimable amount.",
			rm(c.rates.DevEstimate))
		return
	}
	c.warn.add(stageEstimate, "Items marked as estimates use %s/pax/day as a proxy for \"as charged\" categories. Actual invoice determines final claimable amount.",
		rm(c.rates.AsChargedEstimate))
}
