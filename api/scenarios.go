/*
scenarios.go - Canned training events for demos and smoke tests

PURPOSE:
  Provides pre-built training events that exercise each programme family.
  A client can list them, inspect the input, and calculate one against the
  published configuration without composing a request body.

AVAILABLE SCENARIOS:
  inhouse-basic            HCC in-house, external trainer, 10 pax
  internal-trainer         Internal trainer with far branch staff
  multi-employer           HCC in-house shared with another employer
  slb-joint                SLB joint training, group rate split
  public-course            Public course above the ceiling
  overseas-training        Overseas training at 50% assistance
  elearning-8h             E-learning priced by hour blocks
  development-masters      Full-time overseas Masters

USAGE VIA API:
  GET  /api/scenarios
  GET  /api/scenarios/slb-joint
  POST /api/scenarios/slb-joint/calculate

ADDING NEW SCENARIOS:
  Add an entry to 'scenarios' with its DTO and an input builder.

SEE ALSO:
  - handlers.go: Error mapping shared with /api/calculate
  - eligibility/engine.go: The calculation
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/warp/acm-engine/acm"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	input func() acm.Input
}

// baseEvent is a one-day HCC in-house course at the employer's premises.
func baseEvent(hostPax int) acm.Input {
	return acm.Input{
		Scheme:           acm.SchemeHCC,
		Variant:          acm.VariantInHouse,
		TrainerType:      acm.TrainerExternal,
		NumberOfTrainers: 1,
		Venue:            acm.VenueEmployerPremises,
		CourseCategory:   acm.CategoryGeneralNonTechnical,
		Duration:         acm.DurationFullDay,
		Days:             1,
		Host:             acm.Group{Label: "Host Company", Pax: hostPax},
	}
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "inhouse-basic",
			Name:        "In-House Basic",
			Description: "HCC in-house course, external trainer, 10 pax at own premises for one day",
			Category:    "inhouse",
		},
		input: func() acm.Input { return baseEvent(10) },
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "internal-trainer",
			Name:        "Internal Trainer",
			Description: "Internal trainer for 8 host staff and 2 branch staff travelling over 100km, two days",
			Category:    "inhouse",
		},
		input: func() acm.Input {
			in := baseEvent(8)
			in.TrainerType = acm.TrainerInternal
			in.Days = 2
			in.Branches = []acm.Group{{Label: "Penang Branch", Pax: 2, Distance: acm.DistanceFar}}
			return in
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "multi-employer",
			Name:        "Multi-Employer In-House",
			Description: "HCC in-house course shared with another employer, charged at the public rate",
			Category:    "inhouse",
		},
		input: func() acm.Input {
			in := baseEvent(4)
			in.Branches = []acm.Group{{Label: "Johor Branch", Pax: 2, Distance: acm.DistanceFar}}
			in.OtherEmployers = []acm.Group{{Label: "Beta Sdn Bhd", Pax: 3, Distance: acm.DistanceNear}}
			return in
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "slb-joint",
			Name:        "SLB Joint Training",
			Description: "Two employers share one group rate under SLB, split by headcount",
			Category:    "slb",
		},
		input: func() acm.Input {
			in := baseEvent(6)
			in.Scheme = acm.SchemeSLB
			in.OtherEmployers = []acm.Group{{Label: "Beta Sdn Bhd", Pax: 4}}
			return in
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "public-course",
			Name:        "Public Course",
			Description: "Public course quoted above the per-head ceiling, 5 pax",
			Category:    "public",
		},
		input: func() acm.Input {
			in := baseEvent(5)
			in.Variant = acm.VariantPublic
			in.ActualFeePerHead = decimal.NewFromInt(2000)
			return in
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "overseas-training",
			Name:        "Overseas Training",
			Description: "10 pax overseas for 3 days plus 2 travel days, no quotation yet",
			Category:    "overseas",
		},
		input: func() acm.Input {
			in := baseEvent(10)
			in.Variant = acm.VariantOverseas
			in.Days = 3
			in.ExtraDays = 2
			return in
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "elearning-8h",
			Name:        "E-Learning 8 Hours",
			Description: "Asynchronous e-learning, 8 hours, 3 pax",
			Category:    "elearning",
		},
		input: func() acm.Input {
			in := baseEvent(3)
			in.Variant = acm.VariantELearning
			in.ELearningHours = 8
			return in
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "development-masters",
			Name:        "Overseas Masters",
			Description: "Full-time overseas Masters programme, 2 pax, 6 months",
			Category:    "development",
		},
		input: func() acm.Input {
			in := baseEvent(2)
			in.Variant = acm.VariantDevelopment
			in.DevLevel = acm.DevMasters
			in.DevLocation = acm.DevOverseas
			in.DevMonths = 6
			in.DevFullTime = true
			return in
		},
	},
}

// Scenarios lists the canned events.
func Scenarios() []ScenarioDTO {
	return lo.Map(scenarios, func(s scenario, _ int) ScenarioDTO { return s.ScenarioDTO })
}

// ScenarioInput returns the input of a canned event.
func ScenarioInput(id string) (acm.Input, bool) {
	s, ok := lo.Find(scenarios, func(s scenario) bool { return s.ID == id })
	if !ok {
		return acm.Input{}, false
	}
	return s.input(), true
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns all canned events.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": Scenarios()})
}

// GetScenario returns one canned event's input.
// GET /api/scenarios/{id}
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	s, in, ok := findScenario(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenario": s, "input": in})
}

// CalculateScenario calculates one canned event.
// POST /api/scenarios/{id}/calculate
func (h *Handler) CalculateScenario(w http.ResponseWriter, r *http.Request) {
	s, in, ok := findScenario(w, r)
	if !ok {
		return
	}
	res, err := h.Engine.Calculate(in)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ScenarioResponse{
		Scenario:          s,
		CalculateResponse: CalculateResponse{Input: in, Result: res},
	})
}

func findScenario(w http.ResponseWriter, r *http.Request) (ScenarioDTO, acm.Input, bool) {
	id := chi.URLParam(r, "id")
	s, ok := lo.Find(scenarios, func(s scenario) bool { return s.ID == id })
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "Unknown scenario", nil)
		return ScenarioDTO{}, acm.Input{}, false
	}
	return s.ScenarioDTO, s.input(), true
}
