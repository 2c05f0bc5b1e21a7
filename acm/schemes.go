/*
schemes.go - Per-scheme configuration

PURPOSE:
  Each funding scheme permits a set of programme variants and trainer
  types, has a payment flow, and decides how course fees are shared when
  several employers train together.

SCHEMES:
  hcc: HRD Corp pays the training provider directly; accredited trainers.
  sbl: Employer pays then claims; non-registered providers allowed.
  slb: Joint in-house training; group rate split across all employers.

SEE ALSO:
  - matrix.go: Scenario rows also carry an allowed-scheme set
  - eligibility/validate.go: Scheme restriction warnings
*/
package acm

import "github.com/samber/lo"

// PaymentFlow describes who is paid by the grant body.
type PaymentFlow string

const (
	PaymentDirectToProvider PaymentFlow = "direct_to_tp"
	PaymentReimbursement    PaymentFlow = "reimbursement"
)

// TrainerRequirement describes trainer accreditation rules.
type TrainerRequirement string

const (
	TrainerAccredited           TrainerRequirement = "accredited"
	TrainerNonRegisteredAllowed TrainerRequirement = "non_registered_allowed"
	TrainerAnyRegistered        TrainerRequirement = "any"
)

// CostSharing is how an in-house group course fee is split across employers.
type CostSharing string

const (
	// SharingPublicRate bills each employer per head at the public rate when
	// other employers participate, else the in-house group rate.
	SharingPublicRate CostSharing = "public_rate_per_employer"
	// SharingGroupSplit divides the group rate by total heads and bills each
	// group pro-rata, whether or not other employers participate.
	SharingGroupSplit CostSharing = "group_rate_divided_by_total_pax"
)

// OtherEmployerPolicy governs separate legal entities joining the training.
type OtherEmployerPolicy string

const (
	OtherEmployersAllowed   OtherEmployerPolicy = "allowed"
	OtherEmployersRequired  OtherEmployerPolicy = "required"
	OtherEmployersForbidden OtherEmployerPolicy = "forbidden"
)

// SchemeConfig is the metadata of one scheme.
type SchemeConfig struct {
	Scheme                  Scheme              `json:"scheme"`
	Label                   string              `json:"label"`
	PaymentFlow             PaymentFlow         `json:"payment_flow"`
	TrainerRequirement      TrainerRequirement  `json:"trainer_requirement"`
	AllowedVariants         []ProgrammeVariant  `json:"allowed_variants"`
	AllowedTrainers         []TrainerType       `json:"allowed_trainers"`
	CostSharing             CostSharing         `json:"cost_sharing"`
	OtherEmployers          OtherEmployerPolicy `json:"other_employers"`
	ConsumableOrganiserOnly bool                `json:"consumable_organiser_only"`
}

func (c SchemeConfig) AllowsVariant(v ProgrammeVariant) bool {
	return lo.Contains(c.AllowedVariants, v)
}

func (c SchemeConfig) AllowsTrainer(t TrainerType) bool {
	return lo.Contains(c.AllowedTrainers, t)
}

// SchemeTable maps each scheme to its configuration.
type SchemeTable map[Scheme]SchemeConfig

// DefaultSchemes returns the scheme configuration of the current edition.
func DefaultSchemes() SchemeTable {
	openVariants := []ProgrammeVariant{
		VariantInHouse, VariantROTInHouse, VariantROTPublic, VariantPublic,
		VariantSeminar, VariantOverseasSeminar, VariantELearning, VariantOverseas,
		VariantDevelopment, VariantCoachingMentoring, VariantMobileELearning,
	}
	return SchemeTable{
		SchemeHCC: {
			Scheme:             SchemeHCC,
			Label:              "HRD Corp Claimable Courses (HCC)",
			PaymentFlow:        PaymentDirectToProvider,
			TrainerRequirement: TrainerAccredited,
			AllowedVariants:    openVariants,
			AllowedTrainers:    TrainerTypes,
			CostSharing:        SharingPublicRate,
			OtherEmployers:     OtherEmployersAllowed,
		},
		SchemeSBL: {
			Scheme:             SchemeSBL,
			Label:              "Skim Bantuan Latihan (SBL)",
			PaymentFlow:        PaymentReimbursement,
			TrainerRequirement: TrainerNonRegisteredAllowed,
			AllowedVariants:    openVariants,
			AllowedTrainers:    TrainerTypes,
			CostSharing:        SharingPublicRate,
			OtherEmployers:     OtherEmployersAllowed,
		},
		SchemeSLB: {
			Scheme:                  SchemeSLB,
			Label:                   "Skim Latihan Bersama (SLB)",
			PaymentFlow:             PaymentReimbursement,
			TrainerRequirement:      TrainerAnyRegistered,
			AllowedVariants:         []ProgrammeVariant{VariantInHouse, VariantROTInHouse, VariantCoachingMentoring},
			AllowedTrainers:         []TrainerType{TrainerInternal, TrainerExternal},
			CostSharing:             SharingGroupSplit,
			OtherEmployers:          OtherEmployersRequired,
			ConsumableOrganiserOnly: true,
		},
	}
}
