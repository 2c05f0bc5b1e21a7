/*
Package factory converts JSON or YAML configuration into ACM tables.

PURPOSE:
  Rate tables, document tables and edition stamps arrive as documents
  (embedded baseline, admin upload, CLI --rates file). The factory parses
  them, fills defaults for fields older editions did not carry, and
  validates every value before a snapshot can be built from them.

FORMATS:
  JSON is detected by a leading '{'; anything else is decoded as YAML.
  YAML is converted to JSON before decoding, so decimal and integer-keyed
  fields follow the same rules in both formats.

    inhouse:
      full_day: 10500
      half_day: 6000
      prorate_threshold: 5
      ...

DEFAULTS:
  inhouse.cap_mode                          per_trainer
  elearning.max_table_hours                 7
  elearning.half_block_hours                4
  seminar.min_speakers_half_day / full_day  1 / 2
  development.min_months                    3
  development.days_per_month                30
  development.overseas_*_rate               0.5

USAGE:
  f := factory.New()
  rates, err := f.ParseRates(body)
  snap, err := f.Baseline()

SEE ALSO:
  - acm/rates.go: RateTable definition
  - acm/baseline: Embedded edition
  - registry/registry.go: Applies parsed tables to the live snapshot
*/
package factory

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/warp/acm-engine/acm"
	"github.com/warp/acm-engine/acm/baseline"
)

// ConfigFactory parses and validates ACM configuration documents.
type ConfigFactory struct{}

// New creates a configuration factory.
func New() *ConfigFactory {
	return &ConfigFactory{}
}

// =============================================================================
// DECODING
// =============================================================================

// Decode unmarshals a JSON or YAML document into out.
func Decode(data []byte, out any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &acm.ConfigError{Path: "$", Reason: "empty document"}
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return fmt.Errorf("%w: parse JSON: %v", acm.ErrInvalidConfig, err)
		}
		return nil
	}
	var doc any
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return fmt.Errorf("%w: parse YAML: %v", acm.ErrInvalidConfig, err)
	}
	body, err := json.Marshal(jsonCompatible(doc))
	if err != nil {
		return fmt.Errorf("%w: convert YAML: %v", acm.ErrInvalidConfig, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: parse YAML: %v", acm.ErrInvalidConfig, err)
	}
	return nil
}

// jsonCompatible rewrites YAML mappings with non-string keys (hour tables)
// into string-keyed maps.
func jsonCompatible(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = jsonCompatible(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = jsonCompatible(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = jsonCompatible(item)
		}
		return t
	}
	return v
}

// ParseRates decodes, defaults and validates a rate table.
func (f *ConfigFactory) ParseRates(data []byte) (acm.RateTable, error) {
	var rates acm.RateTable
	if err := Decode(data, &rates); err != nil {
		return acm.RateTable{}, err
	}
	ApplyRateDefaults(&rates)
	if err := ValidateRates(rates); err != nil {
		return acm.RateTable{}, err
	}
	return rates, nil
}

// ParseDocuments decodes and validates a document table.
func (f *ConfigFactory) ParseDocuments(data []byte) (acm.DocumentTable, error) {
	var docs acm.DocumentTable
	if err := Decode(data, &docs); err != nil {
		return acm.DocumentTable{}, err
	}
	if err := ValidateDocuments(docs); err != nil {
		return acm.DocumentTable{}, err
	}
	return docs, nil
}

// ParseEdition decodes and validates an edition stamp.
func (f *ConfigFactory) ParseEdition(data []byte) (acm.Edition, error) {
	var ed acm.Edition
	if err := Decode(data, &ed); err != nil {
		return acm.Edition{}, err
	}
	if ed.GuideEdition == "" {
		return acm.Edition{}, &acm.ConfigError{Path: "acm_guide_edition", Reason: "required"}
	}
	if ed.TableEdition == "" {
		return acm.Edition{}, &acm.ConfigError{Path: "acm_table_edition", Reason: "required"}
	}
	return ed, nil
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// Build assembles a snapshot around the default schemes and cost matrix.
func (f *ConfigFactory) Build(ed acm.Edition, rates acm.RateTable, docs acm.DocumentTable) (*acm.Snapshot, error) {
	matrix := acm.DefaultMatrix()
	if overlaps := matrix.Overlaps(); len(overlaps) > 0 {
		return nil, &acm.ConfigError{Path: "matrix", Reason: fmt.Sprintf("ambiguous rows: %v", overlaps)}
	}
	return &acm.Snapshot{
		Edition:   ed,
		Rates:     rates,
		Schemes:   acm.DefaultSchemes(),
		Matrix:    matrix,
		Documents: docs,
	}, nil
}

// Baseline builds the snapshot of the embedded edition.
func (f *ConfigFactory) Baseline() (*acm.Snapshot, error) {
	rates, err := f.ParseRates(baseline.Rates)
	if err != nil {
		return nil, fmt.Errorf("baseline rates: %w", err)
	}
	docs, err := f.ParseDocuments(baseline.Documents)
	if err != nil {
		return nil, fmt.Errorf("baseline documents: %w", err)
	}
	ed, err := f.ParseEdition(baseline.Edition)
	if err != nil {
		return nil, fmt.Errorf("baseline edition: %w", err)
	}
	return f.Build(ed, rates, docs)
}

// MustBaseline is Baseline for tests and presets; it panics on a broken
// embedded edition.
func MustBaseline() *acm.Snapshot {
	snap, err := New().Baseline()
	if err != nil {
		panic(err)
	}
	return snap
}

// =============================================================================
// DEFAULTS & VALIDATION
// =============================================================================

var half = decimal.NewFromFloat(0.5)

// ApplyRateDefaults fills fields that older editions did not carry.
func ApplyRateDefaults(r *acm.RateTable) {
	if r.InHouse.CapMode == "" {
		r.InHouse.CapMode = acm.CapPerTrainer
	}
	if r.ELearning.MaxTableHours == 0 {
		r.ELearning.MaxTableHours = 7
	}
	if r.ELearning.HalfBlockHours == 0 {
		r.ELearning.HalfBlockHours = 4
	}
	if r.Seminar.MinSpeakersHalfDay == 0 {
		r.Seminar.MinSpeakersHalfDay = 1
	}
	if r.Seminar.MinSpeakersFullDay == 0 {
		r.Seminar.MinSpeakersFullDay = 2
	}
	if r.Development.MinMonths == 0 {
		r.Development.MinMonths = 3
	}
	if r.Development.DaysPerMonth == 0 {
		r.Development.DaysPerMonth = 30
	}
	if r.Development.OverseasPostgradStudyRate.IsZero() {
		r.Development.OverseasPostgradStudyRate = half
	}
	if r.Development.OverseasFeeRate.IsZero() {
		r.Development.OverseasFeeRate = half
	}
}

// ValidateRates reports every rejected value of a rate table.
func ValidateRates(r acm.RateTable) error {
	v := &validator{}

	v.positive("inhouse.full_day", r.InHouse.FullDay)
	v.positive("inhouse.half_day", r.InHouse.HalfDay)
	v.atLeast("inhouse.prorate_threshold", r.InHouse.ProrateThreshold, 1)
	v.atLeast("inhouse.min_pax_f2f", r.InHouse.MinPaxF2F, 0)
	v.atLeast("inhouse.min_pax_rot", r.InHouse.MinPaxROT, 0)
	v.atLeast("inhouse.max_pax_soft", r.InHouse.MaxPaxSoft, 1)
	v.atLeast("inhouse.max_pax_tech", r.InHouse.MaxPaxTech, 1)
	if r.InHouse.CapMode != acm.CapPerTrainer && r.InHouse.CapMode != acm.CapFixed {
		v.fail("inhouse.cap_mode", fmt.Sprintf("unknown mode %q", r.InHouse.CapMode))
	}

	v.positive("public_training.full_day", r.Public.FullDay)
	v.positive("public_training.half_day", r.Public.HalfDay)
	v.atLeast("public_training.max_pax_per_employer", r.Public.MaxPaxPerEmployer, 1)

	v.atLeast("elearning.max_table_hours", r.ELearning.MaxTableHours, 1)
	v.atLeast("elearning.half_block_hours", r.ELearning.HalfBlockHours, 1)
	if r.ELearning.HalfBlockHours > r.ELearning.MaxTableHours {
		v.fail("elearning.half_block_hours", "exceeds max_table_hours")
	}
	for h := 1; h <= r.ELearning.MaxTableHours; h++ {
		rate, ok := r.ELearning.HourTable[h]
		if !ok {
			v.fail(fmt.Sprintf("elearning.hour_table.%d", h), "missing")
			continue
		}
		v.positive(fmt.Sprintf("elearning.hour_table.%d", h), rate)
	}

	v.nonNegative("overseas.daily_allowance", r.Overseas.DailyAllowance)
	v.atLeast("overseas.extra_days_max", r.Overseas.ExtraDaysMax, 0)
	v.fraction("overseas.assistance_rate", r.Overseas.AssistanceRate)

	a := r.Allowances
	v.nonNegative("allowances.internal_trainer_full", a.InternalTrainerFull)
	v.nonNegative("allowances.internal_trainer_half", a.InternalTrainerHalf)
	v.nonNegative("allowances.travel_under_100", a.TravelUnder100)
	v.nonNegative("allowances.travel_over_100", a.TravelOver100)
	v.nonNegative("allowances.meal_full", a.MealFull)
	v.nonNegative("allowances.meal_half", a.MealHalf)
	v.nonNegative("allowances.overseas_trainer", a.OverseasTrainer)
	v.nonNegative("allowances.consumable", a.Consumable)

	d := r.Development
	v.nonNegative("development.study_local", d.StudyLocal)
	v.nonNegative("development.study_overseas", d.StudyOverseas)
	v.nonNegative("development.thesis_masters", d.ThesisMasters)
	v.nonNegative("development.thesis_phd", d.ThesisPhD)
	v.atLeast("development.min_months", d.MinMonths, 1)
	v.atLeast("development.days_per_month", d.DaysPerMonth, 1)
	v.fraction("development.overseas_postgrad_study_rate", d.OverseasPostgradStudyRate)
	v.fraction("development.overseas_fee_rate", d.OverseasFeeRate)

	v.atLeast("seminar.min_pax_inhouse", r.Seminar.MinPaxInHouse, 0)
	v.atLeast("seminar.min_pax_public_per_tp", r.Seminar.MinPaxPublicPerTP, 0)
	v.atLeast("seminar.min_speakers_half_day", r.Seminar.MinSpeakersHalfDay, 0)
	v.atLeast("seminar.min_speakers_full_day", r.Seminar.MinSpeakersFullDay, 0)
	v.fraction("seminar.overseas_assistance", r.Seminar.OverseasAssistance)

	v.nonNegative("as_charged_estimate", r.AsChargedEstimate)
	v.nonNegative("dev_estimate", r.DevEstimate)
	v.atLeast("audit_risk_pax", r.AuditRiskPax, 0)

	return v.err()
}

// ValidateDocuments checks that every claim and checklist key has wording.
func ValidateDocuments(d acm.DocumentTable) error {
	v := &validator{}
	for _, key := range acm.ClaimDocs {
		if d.Claim[key] == "" {
			v.fail("claim_docs."+string(key), "missing")
		}
	}
	for _, key := range acm.GrantDocs {
		if d.Grant[key].Text == "" {
			v.fail("grant_checklist."+string(key), "missing")
		}
	}
	for scheme := range d.Schemes {
		if !scheme.Valid() {
			v.fail("grant_docs."+string(scheme), "unknown scheme")
		}
	}
	return v.err()
}

// validator accumulates ConfigErrors.
type validator struct {
	errs []error
}

func (v *validator) fail(path, reason string) {
	v.errs = append(v.errs, &acm.ConfigError{Path: path, Reason: reason})
}

func (v *validator) positive(path string, d decimal.Decimal) {
	if !d.IsPositive() {
		v.fail(path, "must be greater than zero")
	}
}

func (v *validator) nonNegative(path string, d decimal.Decimal) {
	if d.IsNegative() {
		v.fail(path, "must not be negative")
	}
}

func (v *validator) fraction(path string, d decimal.Decimal) {
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		v.fail(path, "must be between 0 and 1")
	}
}

func (v *validator) atLeast(path string, n, least int) {
	if n < least {
		v.fail(path, fmt.Sprintf("must be at least %d", least))
	}
}

func (v *validator) err() error {
	return errors.Join(v.errs...)
}
