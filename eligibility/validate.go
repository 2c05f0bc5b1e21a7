/*
validate.go - Input validation, hard caps and advisory checks

VALIDATION TIERS:
  1. validateInput     reject malformed input before anything else
  2. checkCap          block in-house general courses above the pax cap
  3. schemeChecks      warn when the scheme does not cover the event
  4. complianceChecks  warn about minimums and audit thresholds

  Tiers 1 and 2 abort the calculation. Tiers 3 and 4 only add warnings.
*/
package eligibility

import (
	"fmt"
	"strings"

	"github.com/warp/acm-engine/acm"
)

// =============================================================================
// INPUT VALIDATION
// =============================================================================

func invalid(field, format string, args ...any) error {
	return &acm.ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func validateInput(in acm.Input, r *acm.RateTable) error {
	switch {
	case !in.Scheme.Valid():
		return invalid("scheme", "unknown scheme %q", in.Scheme)
	case !in.Variant.Valid():
		return invalid("programme_variant", "unknown programme variant %q", in.Variant)
	case !in.TrainerType.Valid():
		return invalid("trainer_type", "unknown trainer type %q", in.TrainerType)
	case !in.Venue.Valid():
		return invalid("venue", "unknown venue %q", in.Venue)
	case !in.CourseCategory.Valid():
		return invalid("course_category", "unknown course category %q", in.CourseCategory)
	case !in.Duration.Valid():
		return invalid("duration", "unknown duration %q", in.Duration)
	case in.NumberOfTrainers < 1:
		return invalid("number_of_trainers", "must be at least 1, got %d", in.NumberOfTrainers)
	case in.Days < 1:
		return invalid("days", "must be at least 1, got %d", in.Days)
	case in.ExtraDays < 0 || in.ExtraDays > r.Overseas.ExtraDaysMax:
		return invalid("extra_days", "must be between 0 and %d, got %d", r.Overseas.ExtraDaysMax, in.ExtraDays)
	case in.NumberOfSpeakers < 0:
		return invalid("number_of_speakers", "must not be negative, got %d", in.NumberOfSpeakers)
	case in.ActualFeePerHead.IsNegative():
		return invalid("actual_fee_per_head", "must not be negative")
	case in.LicensedMaterialCost.IsNegative():
		return invalid("licensed_material_cost", "must not be negative")
	}

	switch in.Variant {
	case acm.VariantELearning, acm.VariantMobileELearning:
		if in.ELearningHours < 1 {
			return invalid("elearning_hours", "must be at least 1, got %d", in.ELearningHours)
		}
	case acm.VariantDevelopment:
		if !in.DevLevel.Valid() {
			return invalid("development_level", "unknown level %q", in.DevLevel)
		}
		if !in.DevLocation.Valid() {
			return invalid("development_location", "unknown location %q", in.DevLocation)
		}
		if in.DevMonths < 1 {
			return invalid("development_months", "must be at least 1, got %d", in.DevMonths)
		}
	}

	if err := validateGroup("host", in.Host); err != nil {
		return err
	}
	for i, g := range in.Branches {
		if err := validateGroup(fmt.Sprintf("branches[%d]", i), g); err != nil {
			return err
		}
	}
	for i, g := range in.OtherEmployers {
		if err := validateGroup(fmt.Sprintf("other_employers[%d]", i), g); err != nil {
			return err
		}
	}

	inHouse := in.Variant == acm.VariantInHouse || in.Variant == acm.VariantROTInHouse || in.Variant == acm.VariantCoachingMentoring
	if len(in.OtherEmployers) > 0 && !inHouse {
		return invalid("other_employers", "only in-house programmes accept other participating employers, got %s", in.Variant.Label())
	}
	return nil
}

func validateGroup(field string, g acm.Group) error {
	if g.Pax < 0 {
		return invalid(field+".pax", "must not be negative, got %d", g.Pax)
	}
	if g.Distance != "" && !g.Distance.Valid() {
		return invalid(field+".distance", "unknown distance tier %q", g.Distance)
	}
	return nil
}

// =============================================================================
// HARD CAP
// =============================================================================

// participantCap returns the in-house general-course pax cap.
func participantCap(in acm.Input, p profile, r *acm.RateTable) int {
	base := r.InHouse.MaxPaxSoft
	if p.Technical {
		base = r.InHouse.MaxPaxTech
	}
	if r.InHouse.CapMode == acm.CapFixed {
		return base
	}
	return base * in.NumberOfTrainers
}

func checkCap(in acm.Input, p profile, r *acm.RateTable) error {
	if !p.InHouseFamily || !p.General {
		return nil
	}
	limit := participantCap(in, p, r)
	if p.TotalPax > limit {
		return &acm.BlockedError{Category: in.CourseCategory, Cap: limit, TotalPax: p.TotalPax}
	}
	return nil
}

// =============================================================================
// ADVISORY CHECKS
// =============================================================================

func (c *calc) schemeChecks() {
	in, cfg := c.in, c.scheme
	name := strings.ToUpper(string(in.Scheme))

	if !cfg.AllowsVariant(in.Variant) {
		c.warn.add(stageScheme, "%s does not cover %s programmes. The selected programme is not claimable under %s.",
			cfg.Label, in.Variant.Label(), name)
	}
	if !cfg.AllowsTrainer(in.TrainerType) {
		c.warn.add(stageScheme, "%s does not support %s trainers. This trainer type is not applicable under %s.",
			cfg.Label, in.TrainerType, name)
	}
	if !c.p.InHouseFamily {
		return
	}
	switch {
	case cfg.OtherEmployers == acm.OtherEmployersRequired && len(in.OtherEmployers) == 0:
		c.warn.add(stageScheme, "%s requires a minimum of 2 participating employers. Add the other employers taking part in this joint training.",
			cfg.Label)
	case cfg.OtherEmployers == acm.OtherEmployersForbidden && len(in.OtherEmployers) > 0:
		c.warn.add(stageScheme, "%s does not accept other participating employers. Each employer must apply separately.",
			cfg.Label)
	}
}

func (c *calc) complianceChecks() {
	p, r := c.p, c.rates

	if p.InHouseFamily && p.TotalPax > r.AuditRiskPax {
		c.warn.add(stageCompliance, "Medium audit risk: Group size (%d pax) exceeds the standard threshold of %d pax. "+
			"Ensure trainer adequacy is documented. HRD Corp may request justification during audit.",
			p.TotalPax, r.AuditRiskPax)
	}
	if p.InHouseFamily && p.General && p.TotalPax < r.InHouse.ProrateThreshold {
		c.warn.add(stageCompliance, "Compliance note: Less than %d participants. Course fee and trainer allowance are prorated by ACM rules.",
			r.InHouse.ProrateThreshold)
	}
	if p.InHouseFamily && !p.Remote && p.TotalPax < r.InHouse.MinPaxF2F {
		c.warn.add(stageCompliance, "Minimum %d participants required for face-to-face in-house training. "+
			"Current group size (%d pax) does not meet the ACM eligibility threshold.",
			r.InHouse.MinPaxF2F, p.TotalPax)
	}
	if p.Remote && p.TotalPax < r.InHouse.MinPaxROT {
		c.warn.add(stageCompliance, "Minimum %d %s required for ROT (Remote Online Training).",
			r.InHouse.MinPaxROT, plural(r.InHouse.MinPaxROT, "participant", "participants"))
	}
	if p.Seminar {
		minSpeakers, kind := r.Seminar.MinSpeakersFullDay, "full-day"
		if p.HalfDay {
			minSpeakers, kind = r.Seminar.MinSpeakersHalfDay, "half-day"
		}
		if c.in.NumberOfSpeakers < minSpeakers {
			c.warn.add(stageCompliance, "Seminar / Conference requires a minimum of %d speaker(s) for a %s event. Current: %d speaker(s).",
				minSpeakers, kind, c.in.NumberOfSpeakers)
		}
	}
	if p.LocalSeminar {
		c.warn.add(stageCompliance, "Seminar / Conference eligibility requirement: The event must have a minimum of "+
			"%d total attendees (in-house) or %d attendees per Training Provider (public). "+
			"Verify that the event meets this threshold. HRD Corp may request attendance records during audit.",
			r.Seminar.MinPaxInHouse, r.Seminar.MinPaxPublicPerTP)
	}
	if c.in.CourseCategory == acm.CategoryFocusArea {
		c.warn.add(stageCompliance, "Focus Area Courses cover 9 key sectors: Industry 4.0, Green Technology & Renewable Energy, "+
			"Fintech, Smart Construction, Smart Farming, Aerospace, Blockchain, Micro-credential, Future Technology. "+
			"Costs are \"as charged\" and quoted on a per-pax basis, prorated by attendance completion.")
	}
}
