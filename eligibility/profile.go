package eligibility

import (
	"github.com/samber/lo"

	"github.com/warp/acm-engine/acm"
)

// profile holds the predicates derived from an input. It is computed once
// per calculation; handlers read it and never re-derive predicates.
type profile struct {
	InHouseFamily    bool // inhouse, rot_inhouse, coaching_mentoring
	RemoteInHouse    bool
	RemotePublic     bool
	Remote           bool
	PurePublic       bool
	LocalSeminar     bool
	OverseasSeminar  bool
	Seminar          bool
	ELearning        bool // elearning, mobile_elearning
	OverseasTraining bool
	AnyOverseas      bool
	Development      bool
	PublicFee        bool // public, rot_public, local seminar

	Hotel     bool
	HalfDay   bool
	General   bool
	Technical bool
	AsCharged bool

	HostPax   int
	BranchPax int
	OtherPax  int
	TotalPax  int
}

func classify(in acm.Input) profile {
	v := in.Variant
	p := profile{
		InHouseFamily:    v == acm.VariantInHouse || v == acm.VariantROTInHouse || v == acm.VariantCoachingMentoring,
		RemoteInHouse:    v == acm.VariantROTInHouse,
		RemotePublic:     v == acm.VariantROTPublic,
		PurePublic:       v == acm.VariantPublic,
		LocalSeminar:     v == acm.VariantSeminar,
		OverseasSeminar:  v == acm.VariantOverseasSeminar,
		ELearning:        v == acm.VariantELearning || v == acm.VariantMobileELearning,
		OverseasTraining: v == acm.VariantOverseas,
		Development:      v == acm.VariantDevelopment,

		Hotel:     in.Venue == acm.VenueExternalHotel,
		HalfDay:   in.Duration == acm.DurationHalfDay,
		General:   in.CourseCategory.IsGeneral(),
		Technical: in.CourseCategory == acm.CategoryGeneralTechnical,
		AsCharged: in.CourseCategory.IsAsCharged(),

		HostPax:   in.Host.Pax,
		BranchPax: lo.SumBy(in.Branches, func(g acm.Group) int { return g.Pax }),
		OtherPax:  lo.SumBy(in.OtherEmployers, func(g acm.Group) int { return g.Pax }),
	}
	p.Remote = p.RemoteInHouse || p.RemotePublic
	p.Seminar = p.LocalSeminar || p.OverseasSeminar
	p.AnyOverseas = p.OverseasTraining || p.OverseasSeminar
	p.PublicFee = p.PurePublic || p.RemotePublic || p.LocalSeminar
	p.TotalPax = p.HostPax + p.BranchPax + p.OtherPax
	return p
}
