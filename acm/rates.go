/*
rates.go - ACM rate table

PURPOSE:
  Named numeric constants (currency rates, percentages, thresholds, caps)
  grouped by cost category. The table is supplied externally (embedded
  baseline or an admin revision) and is read-only during a calculation.

JSON SHAPE:
  {
    "inhouse":         {"full_day": 10500, "half_day": 6000, ...},
    "public_training": {"full_day": 1750, ...},
    "elearning":       {"hour_table": {"1": 125, ..., "7": 875}, ...},
    "overseas":        {...},
    "allowances":      {...},
    "development":     {...},
    "seminar":         {...},
    "as_charged_estimate": 10000,
    "dev_estimate":        20000,
    "audit_risk_pax":      25
  }

SEE ALSO:
  - factory/acm.go: Parsing and validation of rate tables
  - baseline/rates.json: Built-in edition
*/
package acm

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CapMode selects how the in-house participant cap scales with trainers.
type CapMode string

const (
	CapPerTrainer CapMode = "per_trainer" // base cap x number of trainers
	CapFixed      CapMode = "fixed"       // base cap regardless of trainers
)

// InHouseRates covers in-house group rates and participant limits.
type InHouseRates struct {
	FullDay          decimal.Decimal `json:"full_day" yaml:"full_day"`
	HalfDay          decimal.Decimal `json:"half_day" yaml:"half_day"`
	ProrateThreshold int             `json:"prorate_threshold" yaml:"prorate_threshold"`
	MinPaxF2F        int             `json:"min_pax_f2f" yaml:"min_pax_f2f"`
	MinPaxROT        int             `json:"min_pax_rot" yaml:"min_pax_rot"`
	MaxPaxSoft       int             `json:"max_pax_soft" yaml:"max_pax_soft"`
	MaxPaxTech       int             `json:"max_pax_tech" yaml:"max_pax_tech"`
	CapMode          CapMode         `json:"cap_mode,omitempty" yaml:"cap_mode,omitempty"`
}

// PublicRates covers per-head public course rates.
type PublicRates struct {
	FullDay           decimal.Decimal `json:"full_day" yaml:"full_day"`
	HalfDay           decimal.Decimal `json:"half_day" yaml:"half_day"`
	MaxPaxPerEmployer int             `json:"max_pax_per_employer" yaml:"max_pax_per_employer"`
}

// ELearningRates maps programme hours to a per-head fee.
type ELearningRates struct {
	HourTable map[int]decimal.Decimal `json:"hour_table" yaml:"hour_table"`
	// MaxTableHours is the largest hour count priced directly (7).
	MaxTableHours int `json:"max_table_hours" yaml:"max_table_hours"`
	// HalfBlockHours is the largest remainder priced as a half-day block (4).
	HalfBlockHours int `json:"half_block_hours" yaml:"half_block_hours"`
}

// OverseasRates covers overseas training and seminars.
type OverseasRates struct {
	DailyAllowance decimal.Decimal `json:"daily_allowance" yaml:"daily_allowance"`
	ExtraDaysMax   int             `json:"extra_days_max" yaml:"extra_days_max"`
	AssistanceRate decimal.Decimal `json:"assistance_rate" yaml:"assistance_rate"`
}

// Allowances covers per-head and per-trainer daily allowances.
type Allowances struct {
	InternalTrainerFull decimal.Decimal `json:"internal_trainer_full" yaml:"internal_trainer_full"`
	InternalTrainerHalf decimal.Decimal `json:"internal_trainer_half" yaml:"internal_trainer_half"`
	TravelUnder100      decimal.Decimal `json:"travel_under_100" yaml:"travel_under_100"`
	TravelOver100       decimal.Decimal `json:"travel_over_100" yaml:"travel_over_100"`
	MealFull            decimal.Decimal `json:"meal_full" yaml:"meal_full"`
	MealHalf            decimal.Decimal `json:"meal_half" yaml:"meal_half"`
	OverseasTrainer     decimal.Decimal `json:"overseas_trainer" yaml:"overseas_trainer"`
	Consumable          decimal.Decimal `json:"consumable" yaml:"consumable"`
}

// DevelopmentRates covers monthly allowances for development programmes.
type DevelopmentRates struct {
	StudyLocal    decimal.Decimal `json:"study_local" yaml:"study_local"`
	StudyOverseas decimal.Decimal `json:"study_overseas" yaml:"study_overseas"`
	ThesisMasters decimal.Decimal `json:"thesis_masters" yaml:"thesis_masters"`
	ThesisPhD     decimal.Decimal `json:"thesis_phd" yaml:"thesis_phd"`
	MinMonths     int             `json:"min_months" yaml:"min_months"`
	DaysPerMonth  int             `json:"days_per_month" yaml:"days_per_month"`
	// OverseasPostgradStudyRate is the assistance share of study and thesis
	// allowances for overseas Masters/PhD (0.5).
	OverseasPostgradStudyRate decimal.Decimal `json:"overseas_postgrad_study_rate" yaml:"overseas_postgrad_study_rate"`
	// OverseasFeeRate is the course-fee assistance for overseas programmes
	// that are neither postgraduate nor at a private institution (0.5).
	OverseasFeeRate decimal.Decimal `json:"overseas_fee_rate" yaml:"overseas_fee_rate"`
}

// SeminarRates covers seminar and conference thresholds.
type SeminarRates struct {
	MinPaxInHouse      int             `json:"min_pax_inhouse" yaml:"min_pax_inhouse"`
	MinPaxPublicPerTP  int             `json:"min_pax_public_per_tp" yaml:"min_pax_public_per_tp"`
	MinSpeakersHalfDay int             `json:"min_speakers_half_day" yaml:"min_speakers_half_day"`
	MinSpeakersFullDay int             `json:"min_speakers_full_day" yaml:"min_speakers_full_day"`
	OverseasAssistance decimal.Decimal `json:"overseas_assistance" yaml:"overseas_assistance"`
}

// RateTable is one edition of ACM constants.
type RateTable struct {
	InHouse     InHouseRates     `json:"inhouse" yaml:"inhouse"`
	Public      PublicRates      `json:"public_training" yaml:"public_training"`
	ELearning   ELearningRates   `json:"elearning" yaml:"elearning"`
	Overseas    OverseasRates    `json:"overseas" yaml:"overseas"`
	Allowances  Allowances       `json:"allowances" yaml:"allowances"`
	Development DevelopmentRates `json:"development" yaml:"development"`
	Seminar     SeminarRates     `json:"seminar" yaml:"seminar"`

	AsChargedEstimate decimal.Decimal `json:"as_charged_estimate" yaml:"as_charged_estimate"`
	DevEstimate       decimal.Decimal `json:"dev_estimate" yaml:"dev_estimate"`
	AuditRiskPax      int             `json:"audit_risk_pax" yaml:"audit_risk_pax"`
}

// HourRate returns the e-learning fee for a directly priced hour count.
func (r *RateTable) HourRate(hours int) (decimal.Decimal, error) {
	rate, ok := r.ELearning.HourTable[hours]
	if !ok {
		return decimal.Zero, fmt.Errorf("no e-learning rate for %d hour(s)", hours)
	}
	return rate, nil
}

// Clone returns a deep copy, so a caller can edit a table without touching
// a published snapshot.
func (r RateTable) Clone() RateTable {
	hours := make(map[int]decimal.Decimal, len(r.ELearning.HourTable))
	for h, v := range r.ELearning.HourTable {
		hours[h] = v
	}
	r.ELearning.HourTable = hours
	return r
}
