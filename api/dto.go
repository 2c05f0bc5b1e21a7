/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Request DTOs carry
  validator tags for structural checks (required fields, enumerations,
  non-negative counts); rule checks that need the rate table stay in the
  engine.

NAMING CONVENTION:
  - *DTO: Types returned to or accepted from clients
  - *Request: Request body types from clients
  - *Response: Response wrappers

VALIDATION:
  go-playground/validator reports fields by their JSON path
  ("host.pax", "branches[1].distance") so a client sees the same field
  names from both validation layers.

SEE ALSO:
  - handlers.go: Uses these types
  - acm/types.go: Engine input and result
*/
package api

import (
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/warp/acm-engine/acm"
	"github.com/warp/acm-engine/monitor"
)

// =============================================================================
// CALCULATION
// =============================================================================

// GroupDTO is one participant group of a calculation request.
type GroupDTO struct {
	Label    string `json:"label" validate:"max=120"`
	Pax      int    `json:"pax" validate:"gte=0"`
	Distance string `json:"distance" validate:"omitempty,oneof=under_100 over_100"`
}

func (g GroupDTO) toGroup() acm.Group {
	return acm.Group{Label: g.Label, Pax: g.Pax, Distance: acm.DistanceTier(g.Distance)}
}

// CalculateRequest describes one training engagement.
type CalculateRequest struct {
	Scheme           string `json:"scheme" validate:"required,oneof=hcc sbl slb"`
	Variant          string `json:"programme_variant" validate:"required,oneof=inhouse rot_inhouse coaching_mentoring rot_public public seminar_conference overseas_seminar elearning mobile_elearning overseas development"`
	TrainerType      string `json:"trainer_type" validate:"required,oneof=internal external overseas"`
	NumberOfTrainers int    `json:"number_of_trainers" validate:"gte=0,lte=100"`
	Venue            string `json:"venue" validate:"omitempty,oneof=employer_premises external_hotel"`
	CourseCategory   string `json:"course_category" validate:"omitempty,oneof=general general_non_technical general_technical focus_area industry_specific certification"`
	Duration         string `json:"duration" validate:"omitempty,oneof=full_day half_day"`
	Days             int    `json:"days" validate:"gte=0,lte=366"`
	ExtraDays        int    `json:"extra_days" validate:"gte=0"`
	ELearningHours   int    `json:"elearning_hours" validate:"gte=0"`
	NumberOfSpeakers int    `json:"number_of_speakers" validate:"gte=0"`

	TrainerFromBranch    bool            `json:"trainer_from_branch"`
	HasLicensedMaterials bool            `json:"has_licensed_materials"`
	LicensedMaterialCost decimal.Decimal `json:"licensed_material_cost"`
	ActualFeePerHead     decimal.Decimal `json:"actual_fee_per_head"`

	DevLevel              string `json:"development_level" validate:"omitempty,oneof=phd masters degree diploma skm"`
	DevLocation           string `json:"development_location" validate:"omitempty,oneof=local overseas"`
	DevMonths             int    `json:"development_months" validate:"gte=0"`
	DevFullTime           bool   `json:"development_full_time"`
	DevPrivateInstitution bool   `json:"development_private_institution"`

	Host           GroupDTO   `json:"host"`
	Branches       []GroupDTO `json:"branches" validate:"max=50,dive"`
	OtherEmployers []GroupDTO `json:"other_employers" validate:"max=50,dive"`

	// Rates optionally replaces the published rate table for this call.
	Rates json.RawMessage `json:"rates,omitempty"`
}

// ToInput converts the request to engine input with defaults applied.
func (r CalculateRequest) ToInput() acm.Input {
	in := acm.Input{
		Scheme:                acm.Scheme(r.Scheme),
		Variant:               acm.ProgrammeVariant(r.Variant),
		TrainerType:           acm.TrainerType(r.TrainerType),
		NumberOfTrainers:      r.NumberOfTrainers,
		Venue:                 acm.Venue(r.Venue),
		CourseCategory:        acm.CourseCategory(r.CourseCategory),
		Duration:              acm.Duration(r.Duration),
		Days:                  r.Days,
		ExtraDays:             r.ExtraDays,
		ELearningHours:        r.ELearningHours,
		NumberOfSpeakers:      r.NumberOfSpeakers,
		TrainerFromBranch:     r.TrainerFromBranch,
		HasLicensedMaterials:  r.HasLicensedMaterials,
		LicensedMaterialCost:  r.LicensedMaterialCost,
		ActualFeePerHead:      r.ActualFeePerHead,
		DevLevel:              acm.DevLevel(r.DevLevel),
		DevLocation:           acm.DevLocation(r.DevLocation),
		DevMonths:             r.DevMonths,
		DevFullTime:           r.DevFullTime,
		DevPrivateInstitution: r.DevPrivateInstitution,
		Host:                  r.Host.toGroup(),
	}
	for _, b := range r.Branches {
		in.Branches = append(in.Branches, b.toGroup())
	}
	for _, o := range r.OtherEmployers {
		in.OtherEmployers = append(in.OtherEmployers, o.toGroup())
	}
	return in.WithDefaults()
}

// CalculateResponse wraps a calculation result.
type CalculateResponse struct {
	Input  acm.Input   `json:"input"`
	Result *acm.Result `json:"result"`
}

// =============================================================================
// ADMIN
// =============================================================================

// LoginRequest is the admin login body.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// SuccessResponse acknowledges an admin write.
type SuccessResponse struct {
	Success  bool   `json:"success"`
	Edition  string `json:"edition,omitempty"`
	Filename string `json:"filename,omitempty"`
	SHA256   string `json:"sha256,omitempty"`
}

// VersionDTO is the published edition stamp.
type VersionDTO struct {
	acm.Edition
	Label string `json:"label"`
}

// RevisionDTO is one stored configuration revision.
type RevisionDTO struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Author    string          `json:"author,omitempty"`
	CreatedAt string          `json:"created_at"`
	Body      json.RawMessage `json:"body,omitempty"`
}

// MonitorStateDTO is what the monitor last saw of one document.
type MonitorStateDTO struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Hash        string `json:"hash,omitempty"`
	LastChecked string `json:"last_checked,omitempty"`
	LastChanged string `json:"last_changed,omitempty"`
	LastError   string `json:"last_error,omitempty"`
}

// MonitorRunResponse reports a manual check.
type MonitorRunResponse struct {
	CheckedAt string            `json:"checked_at"`
	States    []MonitorStateDTO `json:"states"`
	Alerts    []monitor.Alert   `json:"alerts"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a canned training event.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ScenarioResponse is a canned event with its calculation.
type ScenarioResponse struct {
	Scenario ScenarioDTO `json:"scenario"`
	CalculateResponse
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// FieldErrorDTO names one rejected input field.
type FieldErrorDTO struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// BlockedDTO explains a participant-cap violation.
type BlockedDTO struct {
	Category string `json:"category"`
	Cap      int    `json:"cap"`
	TotalPax int    `json:"total_pax"`
}
