/*
matrix.go - Cost matrix rows

PURPOSE:
  The cost matrix selects which cost components apply to a generic
  scenario. A row matches a (variant, venue, trainer) triple; an empty
  venue or trainer is a wildcard. At most one row may match any triple.

  Seminar, e-learning, overseas and development programmes are not
  matrix-driven; they have dedicated handlers in the eligibility package.

ROW FLAGS:
  CourseFee            course fee for non-internal trainers
  TrainerAllowance     daily allowance for internal trainers
  MealTrainees         host meal allowance at own premises
  MealIncludesTrainer  +1 meal head for an on-site internal trainer
  TravelTrainees       travel for branch and other-employer heads
  TravelHost           travel also for host heads
  AirTrainees          air for branch and other-employer heads
  AirHost              air also for host heads
  AirTrainer           +1 air for a travelling trainer
  CharteredTransport   chartered transport at external venues
  Consumable           flat consumable materials allowance
  OverseasTrainerDaily daily allowance per overseas trainer
  LicensedMaterials    licensed training materials may be claimed
  PublicPaxCap         cap per-head public fees at max_pax_per_employer
  CostSharing          multi-employer sharing, empty = scheme default

SEE ALSO:
  - schemes.go: CostSharing modes
  - eligibility/scenarios.go: Handler evaluating a row
*/
package acm

import (
	"fmt"

	"github.com/samber/lo"
)

// MatrixRow is one scenario of the cost matrix.
type MatrixRow struct {
	ID       string             `json:"id"`
	Variants []ProgrammeVariant `json:"variants"`
	Venue    Venue              `json:"venue,omitempty"`
	Trainer  TrainerType        `json:"trainer,omitempty"`
	Schemes  []Scheme           `json:"schemes"`

	CourseFee               bool        `json:"course_fee"`
	TrainerAllowance        bool        `json:"trainer_allowance"`
	MealTrainees            bool        `json:"meal_trainees"`
	MealIncludesTrainer     bool        `json:"meal_includes_trainer"`
	TravelTrainees          bool        `json:"travel_trainees"`
	TravelHost              bool        `json:"travel_host"`
	AirTrainees             bool        `json:"air_trainees"`
	AirHost                 bool        `json:"air_host"`
	AirTrainer              bool        `json:"air_trainer"`
	CharteredTransport      bool        `json:"chartered_transport"`
	Consumable              bool        `json:"consumable"`
	ConsumableOrganiserOnly bool        `json:"consumable_organiser_only"`
	OverseasTrainerDaily    bool        `json:"overseas_trainer_daily"`
	LicensedMaterials       bool        `json:"licensed_materials"`
	PublicPaxCap            bool        `json:"public_pax_cap"`
	CostSharing             CostSharing `json:"cost_sharing,omitempty"`
}

// Matches reports whether the row covers the triple.
func (r MatrixRow) Matches(v ProgrammeVariant, venue Venue, trainer TrainerType) bool {
	if !lo.Contains(r.Variants, v) {
		return false
	}
	if r.Venue != "" && r.Venue != venue {
		return false
	}
	if r.Trainer != "" && r.Trainer != trainer {
		return false
	}
	return true
}

// AllowsScheme reports whether the scenario is available under the scheme.
func (r MatrixRow) AllowsScheme(s Scheme) bool {
	return lo.Contains(r.Schemes, s)
}

// CostMatrix is the ordered set of scenario rows.
type CostMatrix []MatrixRow

// Lookup returns the unique row matching the triple.
func (m CostMatrix) Lookup(v ProgrammeVariant, venue Venue, trainer TrainerType) (MatrixRow, bool) {
	return lo.Find(m, func(r MatrixRow) bool { return r.Matches(v, venue, trainer) })
}

// Overlaps lists every triple matched by more than one row.
func (m CostMatrix) Overlaps() []string {
	var out []string
	for _, v := range Variants {
		for _, venue := range Venues {
			for _, t := range TrainerTypes {
				ids := lo.FilterMap(m, func(r MatrixRow, _ int) (string, bool) {
					return r.ID, r.Matches(v, venue, t)
				})
				if len(ids) > 1 {
					out = append(out, fmt.Sprintf("%s/%s/%s matched by %v", v, venue, t, ids))
				}
			}
		}
	}
	return out
}

// DefaultMatrix returns the cost matrix of the current edition.
func DefaultMatrix() CostMatrix {
	inHouse := []ProgrammeVariant{VariantInHouse, VariantROTInHouse, VariantCoachingMentoring}
	allSchemes := []Scheme{SchemeHCC, SchemeSBL, SchemeSLB}
	directSchemes := []Scheme{SchemeHCC, SchemeSBL}

	// own premises: host eats on site, only branch and other-employer staff travel
	own := func(id string, trainer TrainerType) MatrixRow {
		return MatrixRow{
			ID:                      id,
			Variants:                inHouse,
			Venue:                   VenueEmployerPremises,
			Trainer:                 trainer,
			Schemes:                 allSchemes,
			CourseFee:               true,
			MealTrainees:            true,
			TravelTrainees:          true,
			AirTrainees:             true,
			AirTrainer:              true,
			Consumable:              true,
			ConsumableOrganiserOnly: true,
			LicensedMaterials:       true,
		}
	}
	// external venue: everybody travels, no meal allowance
	hotel := func(id string, trainer TrainerType) MatrixRow {
		row := own(id, trainer)
		row.Venue = VenueExternalHotel
		row.MealTrainees = false
		row.TravelHost = true
		row.AirHost = true
		row.CharteredTransport = true
		return row
	}

	ownInternal := own("inhouse_own_internal", TrainerInternal)
	ownInternal.TrainerAllowance = true
	ownInternal.MealIncludesTrainer = true

	hotelInternal := hotel("inhouse_hotel_internal", TrainerInternal)
	hotelInternal.TrainerAllowance = true

	ownOverseas := own("inhouse_own_overseas", TrainerOverseas)
	ownOverseas.Schemes = directSchemes
	ownOverseas.ConsumableOrganiserOnly = false
	ownOverseas.OverseasTrainerDaily = true

	hotelOverseas := hotel("inhouse_hotel_overseas", TrainerOverseas)
	hotelOverseas.Schemes = directSchemes
	hotelOverseas.ConsumableOrganiserOnly = false
	hotelOverseas.OverseasTrainerDaily = true

	return CostMatrix{
		ownInternal,
		hotelInternal,
		own("inhouse_own_external", TrainerExternal),
		hotel("inhouse_hotel_external", TrainerExternal),
		ownOverseas,
		hotelOverseas,
		{
			ID:                 "public_local",
			Variants:           []ProgrammeVariant{VariantPublic, VariantROTPublic},
			Schemes:            directSchemes,
			CourseFee:          true,
			PublicPaxCap:       true,
			TravelTrainees:     true,
			TravelHost:         true,
			AirTrainees:        true,
			AirHost:            true,
			CharteredTransport: true,
		},
	}
}
