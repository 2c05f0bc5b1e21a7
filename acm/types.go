/*
Package acm holds the data model of the Allowable Cost Matrix (ACM) engine.

PURPOSE:
  This package contains the types shared by the eligibility engine, the
  configuration registry and the HTTP surface: the training-event input,
  the cost items and result it produces, and the versioned configuration
  tables (rates, schemes, cost matrix, documents) it evaluates.

KEY CONCEPTS IN THIS FILE (types.go):
  - Enumerations: Scheme, ProgrammeVariant, TrainerType, Venue, ...
  - Group: a participant sub-group with a role (host, branch, other employer)
  - Input: one training engagement to evaluate
  - CostItem / Result: the engine output

DESIGN PRINCIPLES:
  1. Precision: all money is decimal.Decimal, rounded to whole units
  2. Closed sets: every enumeration has a Valid() check used by validation
  3. Roles over lists: host, branches and other employers are all Groups,
     billing rules switch on Group.Role

SEE ALSO:
  - rates.go: RateTable
  - matrix.go: Cost matrix rows
  - snapshot.go: Immutable configuration snapshot
  - eligibility/engine.go: The engine consuming these types
*/
package acm

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENUMERATIONS
// =============================================================================

// Scheme is a funding arrangement.
type Scheme string

const (
	SchemeHCC Scheme = "hcc" // direct payment to the training provider
	SchemeSBL Scheme = "sbl" // employer pays, then claims reimbursement
	SchemeSLB Scheme = "slb" // joint training across several employers
)

// Schemes lists every scheme in display order.
var Schemes = []Scheme{SchemeHCC, SchemeSBL, SchemeSLB}

func (s Scheme) Valid() bool { return lo.Contains(Schemes, s) }

// ProgrammeVariant is the type of training programme.
type ProgrammeVariant string

const (
	VariantInHouse           ProgrammeVariant = "inhouse"
	VariantROTInHouse        ProgrammeVariant = "rot_inhouse"
	VariantCoachingMentoring ProgrammeVariant = "coaching_mentoring"
	VariantROTPublic         ProgrammeVariant = "rot_public"
	VariantPublic            ProgrammeVariant = "public"
	VariantSeminar           ProgrammeVariant = "seminar_conference"
	VariantOverseasSeminar   ProgrammeVariant = "overseas_seminar"
	VariantELearning         ProgrammeVariant = "elearning"
	VariantMobileELearning   ProgrammeVariant = "mobile_elearning"
	VariantOverseas          ProgrammeVariant = "overseas"
	VariantDevelopment       ProgrammeVariant = "development"
)

// Variants lists every programme variant.
var Variants = []ProgrammeVariant{
	VariantInHouse, VariantROTInHouse, VariantCoachingMentoring,
	VariantROTPublic, VariantPublic, VariantSeminar, VariantOverseasSeminar,
	VariantELearning, VariantMobileELearning, VariantOverseas, VariantDevelopment,
}

func (v ProgrammeVariant) Valid() bool { return lo.Contains(Variants, v) }

var variantLabels = map[ProgrammeVariant]string{
	VariantInHouse:           "In-House",
	VariantROTInHouse:        "ROT (In-House)",
	VariantCoachingMentoring: "Coaching & Mentoring",
	VariantROTPublic:         "ROT (Public)",
	VariantPublic:            "Public",
	VariantSeminar:           "Seminar / Conference",
	VariantOverseasSeminar:   "Overseas Seminar / Conference",
	VariantELearning:         "E-Learning",
	VariantMobileELearning:   "Mobile E-Learning",
	VariantOverseas:          "Overseas Training",
	VariantDevelopment:       "Development Programme",
}

func (v ProgrammeVariant) Label() string {
	if l, ok := variantLabels[v]; ok {
		return l
	}
	return string(v)
}

// TrainerType identifies where the trainer comes from.
type TrainerType string

const (
	TrainerInternal TrainerType = "internal"
	TrainerExternal TrainerType = "external"
	TrainerOverseas TrainerType = "overseas"
)

var TrainerTypes = []TrainerType{TrainerInternal, TrainerExternal, TrainerOverseas}

func (t TrainerType) Valid() bool { return lo.Contains(TrainerTypes, t) }

// Venue is where face-to-face training takes place.
type Venue string

const (
	VenueEmployerPremises Venue = "employer_premises"
	VenueExternalHotel    Venue = "external_hotel"
)

var Venues = []Venue{VenueEmployerPremises, VenueExternalHotel}

func (v Venue) Valid() bool { return lo.Contains(Venues, v) }

// CourseCategory classifies the course content.
type CourseCategory string

const (
	CategoryGeneral             CourseCategory = "general" // legacy alias for non-technical
	CategoryGeneralNonTechnical CourseCategory = "general_non_technical"
	CategoryGeneralTechnical    CourseCategory = "general_technical"
	CategoryFocusArea           CourseCategory = "focus_area"
	CategoryIndustrySpecific    CourseCategory = "industry_specific"
	CategoryCertification       CourseCategory = "certification"
)

var CourseCategories = []CourseCategory{
	CategoryGeneral, CategoryGeneralNonTechnical, CategoryGeneralTechnical,
	CategoryFocusArea, CategoryIndustrySpecific, CategoryCertification,
}

func (c CourseCategory) Valid() bool { return lo.Contains(CourseCategories, c) }

// IsGeneral reports whether the category is billed at ACM rates.
func (c CourseCategory) IsGeneral() bool {
	return c == CategoryGeneral || c == CategoryGeneralNonTechnical || c == CategoryGeneralTechnical
}

// IsAsCharged reports whether the category is billed "as charged".
func (c CourseCategory) IsAsCharged() bool {
	return c == CategoryFocusArea || c == CategoryIndustrySpecific || c == CategoryCertification
}

// Label is the human-readable category name.
func (c CourseCategory) Label() string {
	switch c {
	case CategoryFocusArea:
		return "Focus Area Course"
	case CategoryIndustrySpecific:
		return "Industry Specific Course"
	case CategoryCertification:
		return "Professional Certification Course"
	case CategoryGeneralTechnical:
		return "General (Technical) Course"
	case CategoryGeneralNonTechnical, CategoryGeneral:
		return "General (Non-Technical) Course"
	}
	return string(c)
}

// Duration is the length of one training day.
type Duration string

const (
	DurationFullDay Duration = "full_day" // 7 hours or more
	DurationHalfDay Duration = "half_day" // 4 to 6 hours
)

func (d Duration) Valid() bool { return d == DurationFullDay || d == DurationHalfDay }

// DistanceTier is the travelling distance of a group to the venue.
type DistanceTier string

const (
	DistanceNear DistanceTier = "under_100"
	DistanceFar  DistanceTier = "over_100"
)

func (d DistanceTier) Valid() bool { return d == DistanceNear || d == DistanceFar }

// Label renders the tier the way claim forms do.
func (d DistanceTier) Label() string {
	if d == DistanceFar {
		return ">=100km"
	}
	return "<100km"
}

// DevLevel is the academic level of a development programme.
type DevLevel string

const (
	DevPhD     DevLevel = "phd"
	DevMasters DevLevel = "masters"
	DevDegree  DevLevel = "degree"
	DevDiploma DevLevel = "diploma"
	DevSKM     DevLevel = "skm"
)

var DevLevels = []DevLevel{DevPhD, DevMasters, DevDegree, DevDiploma, DevSKM}

func (l DevLevel) Valid() bool { return lo.Contains(DevLevels, l) }

// IsPostgraduate reports Masters or PhD level.
func (l DevLevel) IsPostgraduate() bool { return l == DevPhD || l == DevMasters }

func (l DevLevel) Label() string {
	switch l {
	case DevPhD:
		return "Doctoral / PhD"
	case DevMasters:
		return "Master's Programme"
	case DevDegree:
		return "Degree Programme"
	case DevDiploma:
		return "Diploma Programme"
	case DevSKM:
		return "Sijil Kemahiran Malaysia (SKM)"
	}
	return string(l)
}

// DevLocation is where a development programme is studied.
type DevLocation string

const (
	DevLocal    DevLocation = "local"
	DevOverseas DevLocation = "overseas"
)

func (l DevLocation) Valid() bool { return l == DevLocal || l == DevOverseas }

// =============================================================================
// PARTICIPANT GROUPS
// =============================================================================

// GroupRole determines how a participant group is billed.
type GroupRole string

const (
	RoleHost          GroupRole = "host"           // organizing employer, at the venue
	RoleBranch        GroupRole = "branch"         // same legal entity, travelling in
	RoleOtherEmployer GroupRole = "other_employer" // separate legal entity
)

// Group is one participant sub-group.
type Group struct {
	Role     GroupRole    `json:"role" yaml:"role"`
	Label    string       `json:"label" yaml:"label"`
	Pax      int          `json:"pax" yaml:"pax"`
	Distance DistanceTier `json:"distance" yaml:"distance"`
}

// DisplayLabel falls back to a role-specific label when none was given.
func (g Group) DisplayLabel() string {
	if g.Label != "" {
		return g.Label
	}
	switch g.Role {
	case RoleHost:
		return "Host Company"
	case RoleBranch:
		return "Branch"
	default:
		return "Participating Employer"
	}
}

// =============================================================================
// INPUT
// =============================================================================

// Input describes one training engagement.
type Input struct {
	Scheme           Scheme           `json:"scheme" yaml:"scheme"`
	Variant          ProgrammeVariant `json:"programme_variant" yaml:"programme_variant"`
	TrainerType      TrainerType      `json:"trainer_type" yaml:"trainer_type"`
	NumberOfTrainers int              `json:"number_of_trainers" yaml:"number_of_trainers"`
	Venue            Venue            `json:"venue" yaml:"venue"`
	CourseCategory   CourseCategory   `json:"course_category" yaml:"course_category"`
	Duration         Duration         `json:"duration" yaml:"duration"`
	Days             int              `json:"days" yaml:"days"`
	ExtraDays        int              `json:"extra_days" yaml:"extra_days"`
	ELearningHours   int              `json:"elearning_hours" yaml:"elearning_hours"`
	NumberOfSpeakers int              `json:"number_of_speakers" yaml:"number_of_speakers"`

	TrainerFromBranch    bool            `json:"trainer_from_branch" yaml:"trainer_from_branch"`
	HasLicensedMaterials bool            `json:"has_licensed_materials" yaml:"has_licensed_materials"`
	LicensedMaterialCost decimal.Decimal `json:"licensed_material_cost" yaml:"licensed_material_cost"`

	DevLevel              DevLevel    `json:"development_level" yaml:"development_level"`
	DevLocation           DevLocation `json:"development_location" yaml:"development_location"`
	DevMonths             int         `json:"development_months" yaml:"development_months"`
	DevFullTime           bool        `json:"development_full_time" yaml:"development_full_time"`
	DevPrivateInstitution bool        `json:"development_private_institution" yaml:"development_private_institution"`

	// ActualFeePerHead is the quoted fee per participant for the whole
	// programme. Zero means no quotation was supplied.
	ActualFeePerHead decimal.Decimal `json:"actual_fee_per_head" yaml:"actual_fee_per_head"`

	Host           Group   `json:"host" yaml:"host"`
	Branches       []Group `json:"branches" yaml:"branches"`
	OtherEmployers []Group `json:"other_employers" yaml:"other_employers"`
}

// HostGroup returns the host with its role set.
func (in Input) HostGroup() Group {
	host := in.Host
	host.Role = RoleHost
	return host
}

// Groups returns host, branches and other employers in billing order with
// roles normalized.
func (in Input) Groups() []Group {
	groups := make([]Group, 0, 1+len(in.Branches)+len(in.OtherEmployers))
	groups = append(groups, in.HostGroup())
	for _, b := range in.Branches {
		b.Role = RoleBranch
		groups = append(groups, b)
	}
	for _, o := range in.OtherEmployers {
		o.Role = RoleOtherEmployer
		groups = append(groups, o)
	}
	return groups
}

// WithDefaults fills fields a caller may leave empty: own premises, full
// day, general category, one trainer and a local degree for development.
func (in Input) WithDefaults() Input {
	if in.NumberOfTrainers == 0 {
		in.NumberOfTrainers = 1
	}
	if in.Venue == "" {
		in.Venue = VenueEmployerPremises
	}
	if in.Duration == "" {
		in.Duration = DurationFullDay
	}
	if in.CourseCategory == "" {
		in.CourseCategory = CategoryGeneral
	}
	if in.Variant == VariantDevelopment {
		if in.DevLevel == "" {
			in.DevLevel = DevDegree
		}
		if in.DevLocation == "" {
			in.DevLocation = DevLocal
		}
		if in.Days == 0 {
			in.Days = 1
		}
	}
	return in
}

// TotalPax is host + branches + other employers.
func (in Input) TotalPax() int {
	return lo.SumBy(in.Groups(), func(g Group) int { return g.Pax })
}

// =============================================================================
// OUTPUT
// =============================================================================

// ItemKind identifies a cost component.
type ItemKind string

const (
	ItemTrainerAllowance       ItemKind = "trainer_allowance"
	ItemCourseFee              ItemKind = "course_fee"
	ItemTravel                 ItemKind = "travel_allowance"
	ItemMeal                   ItemKind = "meal_allowance"
	ItemOverseasTrainerDaily   ItemKind = "overseas_trainer_daily"
	ItemAirTicket              ItemKind = "air_ticket"
	ItemCharteredTransport     ItemKind = "chartered_transport"
	ItemConsumable             ItemKind = "consumable_materials"
	ItemLicensedMaterials      ItemKind = "licensed_materials"
	ItemOverseasDailyAllowance ItemKind = "overseas_daily_allowance"
	ItemStudyAllowance         ItemKind = "study_allowance"
	ItemThesisAllowance        ItemKind = "thesis_allowance"
)

// GroupShare is one participant group's part of a cost item.
type GroupShare struct {
	Label  string          `json:"label"`
	Role   GroupRole       `json:"role,omitempty"`
	Pax    int             `json:"pax"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

// CostItem is one eligible cost component.
type CostItem struct {
	Kind  ItemKind `json:"kind"`
	Label string   `json:"label"`
	Note  string   `json:"note"`

	// Amount is invalid (null) when the item is claimed at actual cost with
	// no computed ceiling.
	Amount            decimal.NullDecimal `json:"amount"`
	EntitledHeadcount *int                `json:"entitled_headcount,omitempty"`
	Groups            []GroupShare        `json:"groups,omitempty"`
	IsEstimate        bool                `json:"is_estimate"`

	// Deficit is the part of the cost the employer funds itself: the excess
	// over the ACM ceiling or the co-payment under partial assistance.
	Deficit          decimal.Decimal `json:"deficit"`
	RequiredDocument string          `json:"required_document"`
}

// HasAmount reports whether the item contributes to the total.
func (c CostItem) HasAmount() bool { return c.Amount.Valid }

// DocRequirement is one entry of the supporting-document checklist.
type DocRequirement struct {
	Text     string   `json:"text"`
	SubItems []string `json:"sub_items,omitempty"`
}

// Checklist lists documents needed for the grant submission.
type Checklist struct {
	GrantSubmission []DocRequirement `json:"grant_submission"`
}

// Result is the outcome of one calculation.
type Result struct {
	Edition           string          `json:"edition"`
	Items             []CostItem      `json:"items"`
	TotalClaimable    decimal.Decimal `json:"total_claimable"`
	TotalDeficit      decimal.Decimal `json:"total_deficit"`
	AirTicketEntitled int             `json:"air_ticket_entitled"`
	Warnings          []string        `json:"warnings"`
	Checklist         Checklist       `json:"checklist"`
}

// Item returns the first item of the given kind.
func (r *Result) Item(kind ItemKind) (CostItem, bool) {
	return lo.Find(r.Items, func(c CostItem) bool { return c.Kind == kind })
}

// HasItem reports whether an item of the given kind was emitted.
func (r *Result) HasItem(kind ItemKind) bool {
	_, ok := r.Item(kind)
	return ok
}
