package eligibility_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/acm-engine/acm"
	"github.com/warp/acm-engine/eligibility"
)

// =============================================================================
// IN-HOUSE COURSE FEES
// =============================================================================

func TestInHouse_ProratesBelowThreshold(t *testing.T) {
	// GIVEN: An in-house course with fewer than 5 participants
	// WHEN: Calculating the course fee
	// THEN: fee(pax) = 10500 x pax / 5, and the flat rate from 5 pax upward

	snap := baseline(t)
	for pax, want := range map[int]int64{1: 2100, 2: 4200, 3: 6300, 4: 8400, 5: 10500, 7: 10500} {
		t.Run(fmt.Sprintf("%d pax", pax), func(t *testing.T) {
			res := calculate(t, snap, inHouse(pax))
			assertItemAmount(t, res, acm.ItemCourseFee, want)
		})
	}
}

func TestInHouse_ProrateWarning(t *testing.T) {
	res := calculate(t, baseline(t), inHouse(3))
	assert.Contains(t, res.Warnings[0], "Less than 5 participants")
}

func TestInHouse_InternalTrainer(t *testing.T) {
	// GIVEN: Internal trainer at own premises, 8 host staff and 2 branch staff
	//        from over 100km, 2 full days
	// WHEN: Calculating
	// THEN: Trainer allowance replaces the course fee, the trainer eats with
	//       the host, branch staff get an extra travel day

	in := inHouse(8)
	in.TrainerType = acm.TrainerInternal
	in.Days = 2
	in.Branches = []acm.Group{{Label: "Penang Branch", Pax: 2, Distance: acm.DistanceFar}}

	res := calculate(t, baseline(t), in)

	assert.False(t, res.HasItem(acm.ItemCourseFee))
	assertItemAmount(t, res, acm.ItemTrainerAllowance, 2800)
	assertItemAmount(t, res, acm.ItemMeal, 1800)
	meal := item(t, res, acm.ItemMeal)
	require.Len(t, meal.Groups, 1)
	assert.Equal(t, "Host Company + Internal Trainer", meal.Groups[0].Label)
	assert.Equal(t, 9, meal.Groups[0].Pax)
	assertAmount(t, 1800, meal.Groups[0].Amount)
	assertItemAmount(t, res, acm.ItemTravel, 3000)
	assert.Contains(t, item(t, res, acm.ItemTravel).Groups[0].Note, "+1 extra travel day")
	assert.Equal(t, 2, res.AirTicketEntitled)
	assertAmount(t, 7700, res.TotalClaimable)
	assert.NotContains(t, checklistTexts(res), "Invoice or quotation for course fees")
}

func TestInHouse_InternalTrainerFromBranch(t *testing.T) {
	// GIVEN: The internal trainer travels in from a branch
	// WHEN: Calculating
	// THEN: No meal bonus, one more air ticket

	in := inHouse(8)
	in.TrainerType = acm.TrainerInternal
	in.Days = 2
	in.TrainerFromBranch = true
	in.Branches = []acm.Group{{Pax: 2, Distance: acm.DistanceFar}}

	res := calculate(t, baseline(t), in)

	assertItemAmount(t, res, acm.ItemMeal, 1600)
	assert.Equal(t, 3, res.AirTicketEntitled)
	assert.Equal(t, 3, *item(t, res, acm.ItemAirTicket).EntitledHeadcount)
}

func TestInHouse_InternalTrainerProrated(t *testing.T) {
	in := inHouse(3)
	in.TrainerType = acm.TrainerInternal

	res := calculate(t, baseline(t), in)
	assertItemAmount(t, res, acm.ItemTrainerAllowance, 840)
}

func TestInHouse_ActualFeeAboveCeiling(t *testing.T) {
	// GIVEN: A quoted fee of RM1,200 per head for 10 pax
	// WHEN: Calculating against the RM10,500 group ceiling
	// THEN: HRD Corp pays the ceiling, the employer funds the excess

	in := inHouse(10)
	in.ActualFeePerHead = decimal.NewFromInt(1200)

	res := calculate(t, baseline(t), in)

	fee := item(t, res, acm.ItemCourseFee)
	assertAmount(t, 10500, fee.Amount.Decimal)
	assertAmount(t, 1500, fee.Deficit)
	assertAmount(t, 1500, res.TotalDeficit)
	assert.Contains(t, fee.Note, "ceiling applied")
}

func TestInHouse_ActualFeeWithinCeiling(t *testing.T) {
	in := inHouse(10)
	in.ActualFeePerHead = decimal.NewFromInt(800)

	res := calculate(t, baseline(t), in)

	fee := item(t, res, acm.ItemCourseFee)
	assertAmount(t, 8000, fee.Amount.Decimal)
	assertAmount(t, 0, fee.Deficit)
}

func TestInHouse_PublicRateWithOtherEmployers(t *testing.T) {
	// GIVEN: HCC in-house with a branch and another employer
	// WHEN: Calculating
	// THEN: Per-head public rate, host and branches billed as one unit

	in := inHouse(4)
	in.Branches = []acm.Group{{Pax: 2, Distance: acm.DistanceFar}}
	in.OtherEmployers = []acm.Group{{Label: "Beta Sdn Bhd", Pax: 3}}

	res := calculate(t, baseline(t), in)

	fee := item(t, res, acm.ItemCourseFee)
	assertAmount(t, 15750, fee.Amount.Decimal)
	require.Len(t, fee.Groups, 2)
	assert.Equal(t, "Host Company + Branches (4 + 2 pax)", fee.Groups[0].Label)
	assertAmount(t, 10500, fee.Groups[0].Amount)
	assert.Equal(t, "Beta Sdn Bhd", fee.Groups[1].Label)
	assertAmount(t, 5250, fee.Groups[1].Amount)

	assertItemAmount(t, res, acm.ItemMeal, 400)
	assertItemAmount(t, res, acm.ItemTravel, 2750)
	assert.Equal(t, 6, res.AirTicketEntitled)
	assertAmount(t, 19000, res.TotalClaimable)
	assert.Contains(t, checklistTexts(res), "Letter from the Host Company confirming the participation of other employers in the training")
}

func TestInHouse_AsChargedCategory(t *testing.T) {
	// GIVEN: A focus-area course, 3 pax, 2 days, no quotation
	// WHEN: Calculating
	// THEN: The per-head estimate is used and flagged

	in := inHouse(3)
	in.CourseCategory = acm.CategoryFocusArea
	in.Days = 2

	res := calculate(t, baseline(t), in)

	fee := item(t, res, acm.ItemCourseFee)
	assertAmount(t, 60000, fee.Amount.Decimal)
	assert.True(t, fee.IsEstimate)
	assertAmount(t, 60700, res.TotalClaimable)
	require.Len(t, res.Warnings, 3)
	assert.Contains(t, res.Warnings[0], "Focus Area Courses")
	assert.Contains(t, res.Warnings[1], "RM10,000/pax/day")
	assert.Contains(t, checklistTexts(res), "Acknowledgement Letter for Industry Specific or Focus Area courses (case-by-case basis)")
}

func TestInHouse_LicensedMaterials(t *testing.T) {
	// GIVEN: Licensed training materials without a cost
	// WHEN: Calculating
	// THEN: A null-amount item, a pre-approval warning and the LTM documents

	in := inHouse(10)
	in.HasLicensedMaterials = true

	res := calculate(t, baseline(t), in)

	ltm := item(t, res, acm.ItemLicensedMaterials)
	assert.False(t, ltm.HasAmount())
	assertAmount(t, 11600, res.TotalClaimable)
	assert.Contains(t, res.Warnings[0], "Licensed Training Materials (LTM)")
	docs := checklistTexts(res)
	assert.Contains(t, docs, "HRD Corp Special Approval Letter (REQUIRED, Licensed Training Materials selected)")
	assert.Contains(t, docs, "Licensed Training Materials (LTM), required documents:")

	in.LicensedMaterialCost = decimal.NewFromInt(2500)
	res = calculate(t, baseline(t), in)
	assertItemAmount(t, res, acm.ItemLicensedMaterials, 2500)
	assertAmount(t, 14100, res.TotalClaimable)
}

func TestInHouse_OverseasTrainer(t *testing.T) {
	in := inHouse(10)
	in.TrainerType = acm.TrainerOverseas
	in.NumberOfTrainers = 2
	in.Days = 3

	res := calculate(t, baseline(t), in)

	assertItemAmount(t, res, acm.ItemOverseasTrainerDaily, 3000)
	assert.Equal(t, 1, res.AirTicketEntitled)
}

// =============================================================================
// HARD CAP
// =============================================================================

func TestCap_Boundary(t *testing.T) {
	// GIVEN: General courses capped at 50 (25 technical) pax per trainer
	// WHEN: totalPax sits on and just above the cap
	// THEN: The cap itself passes, one more pax is blocked

	snap := baseline(t)
	cases := []struct {
		category acm.CourseCategory
		trainers int
		cap      int
	}{
		{acm.CategoryGeneralNonTechnical, 1, 50},
		{acm.CategoryGeneralNonTechnical, 2, 100},
		{acm.CategoryGeneral, 1, 50},
		{acm.CategoryGeneralTechnical, 1, 25},
		{acm.CategoryGeneralTechnical, 3, 75},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s x%d", tc.category, tc.trainers), func(t *testing.T) {
			in := inHouse(tc.cap)
			in.CourseCategory = tc.category
			in.NumberOfTrainers = tc.trainers

			_, err := eligibility.Calculate(snap, in)
			require.NoError(t, err)

			in.Host.Pax = tc.cap + 1
			res, err := eligibility.Calculate(snap, in)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, acm.IsBlocked(err))
			var blocked *acm.BlockedError
			require.ErrorAs(t, err, &blocked)
			assert.Equal(t, tc.cap, blocked.Cap)
			assert.Equal(t, tc.cap+1, blocked.TotalPax)
			assert.Equal(t, tc.category, blocked.Category)
		})
	}
}

func TestCap_CountsAllGroups(t *testing.T) {
	in := inHouse(30)
	in.Branches = []acm.Group{{Pax: 15}}
	in.OtherEmployers = []acm.Group{{Pax: 6}}

	_, err := eligibility.Calculate(baseline(t), in)
	assert.ErrorIs(t, err, acm.ErrBlocked)
}

func TestCap_FixedMode(t *testing.T) {
	// GIVEN: cap_mode fixed
	// WHEN: Two trainers run a 51 pax course
	// THEN: The base cap applies regardless of trainers

	snap := baseline(t)
	rates := snap.Rates.Clone()
	rates.InHouse.CapMode = acm.CapFixed

	in := inHouse(51)
	in.NumberOfTrainers = 2

	_, err := eligibility.Calculate(snap.WithRates(rates), in)
	var blocked *acm.BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, 50, blocked.Cap)
}

func TestCap_NotAppliedToAsChargedOrPublic(t *testing.T) {
	snap := baseline(t)

	focus := inHouse(80)
	focus.CourseCategory = acm.CategoryCertification
	_, err := eligibility.Calculate(snap, focus)
	assert.NoError(t, err)

	public := inHouse(80)
	public.Variant = acm.VariantPublic
	_, err = eligibility.Calculate(snap, public)
	assert.NoError(t, err)
}

// =============================================================================
// SLB JOINT TRAINING
// =============================================================================

func slbInput() acm.Input {
	in := inHouse(6)
	in.Scheme = acm.SchemeSLB
	in.OtherEmployers = []acm.Group{{Label: "Beta Sdn Bhd", Pax: 4}}
	return in
}

func TestSLB_GroupRateSplitPerEmployer(t *testing.T) {
	// GIVEN: SLB joint training, host 6 pax and another employer 4 pax
	// WHEN: Calculating
	// THEN: The group rate is divided by 10 pax and billed per employer

	res := calculate(t, baseline(t), slbInput())

	fee := item(t, res, acm.ItemCourseFee)
	assertAmount(t, 10500, fee.Amount.Decimal)
	require.Len(t, fee.Groups, 2)
	assertAmount(t, 6300, fee.Groups[0].Amount)
	assert.Equal(t, acm.RoleHost, fee.Groups[0].Role)
	assertAmount(t, 4200, fee.Groups[1].Amount)
	assert.Equal(t, acm.RoleOtherEmployer, fee.Groups[1].Role)

	assertItemAmount(t, res, acm.ItemMeal, 600)
	assertItemAmount(t, res, acm.ItemTravel, 1000)
	assert.Equal(t, 5, res.AirTicketEntitled)
	assertAmount(t, 12200, res.TotalClaimable)
	assert.Equal(t, "Official receipt and proof of payment", fee.RequiredDocument)
}

func TestSLB_WarningOrder(t *testing.T) {
	// GIVEN: SLB joint training
	// WHEN: Calculating
	// THEN: Cost-sharing explanations precede the attendance reminders

	res := calculate(t, baseline(t), slbInput())

	require.Len(t, res.Warnings, 5)
	assert.Contains(t, res.Warnings[0], "SLB cost sharing")
	assert.Contains(t, res.Warnings[1], "SLB consumable materials")
	assert.Contains(t, res.Warnings[2], "Participating employers")
	assert.Contains(t, res.Warnings[3], "Attendance must be at least 75%")
	assert.Contains(t, res.Warnings[4], "Air ticket (actual cost)")
}

func TestSLB_Checklist(t *testing.T) {
	res := calculate(t, baseline(t), slbInput())

	assert.Equal(t, []string{
		"Course content with training schedule, including date and time",
		"Trainer profile",
		"Invoice or quotation for course fees, ONE invoice per training course only",
		"Joint Training Letter from the organising employer, must include:",
		"HRD Corp Special Approval Letter (if any)",
		"Air Ticket: Ticket stub / e-Ticket evidence or receipt, and invoice from the travel agent",
		"Consumable Training Materials: No receipt needed if total is at most RM100. If total exceeds RM100, attach itemised quotation or invoice with price per item",
	}, checklistTexts(res))
	assert.Len(t, res.Checklist.GrantSubmission[3].SubItems, 7)
}

func TestSLB_SchemeRestrictions(t *testing.T) {
	snap := baseline(t)

	t.Run("single employer", func(t *testing.T) {
		in := slbInput()
		in.OtherEmployers = nil
		res := calculate(t, snap, in)
		assert.Contains(t, res.Warnings[0], "requires a minimum of 2 participating employers")
	})

	t.Run("overseas trainer", func(t *testing.T) {
		in := slbInput()
		in.TrainerType = acm.TrainerOverseas
		res := calculate(t, snap, in)
		assert.Contains(t, res.Warnings[0], "does not support overseas trainers")
		assert.True(t, res.HasItem(acm.ItemOverseasTrainerDaily))
	})

	t.Run("public programme", func(t *testing.T) {
		in := inHouse(5)
		in.Scheme = acm.SchemeSLB
		in.Variant = acm.VariantPublic
		res := calculate(t, snap, in)
		assert.Contains(t, res.Warnings[0], "does not cover Public programmes")
	})
}

// =============================================================================
// PUBLIC, SEMINAR, REMOTE
// =============================================================================

func publicInput(pax int) acm.Input {
	in := inHouse(pax)
	in.Variant = acm.VariantPublic
	return in
}

func TestPublic_DeficitAboveCeiling(t *testing.T) {
	// GIVEN: Public course, 5 pax quoted at RM2,000 against a RM1,750 ceiling
	// WHEN: Calculating
	// THEN: claim = ceiling x heads, deficit = (actual - ceiling) x heads

	in := publicInput(5)
	in.ActualFeePerHead = decimal.NewFromInt(2000)

	res := calculate(t, baseline(t), in)

	fee := item(t, res, acm.ItemCourseFee)
	assertAmount(t, 8750, fee.Amount.Decimal)
	assertAmount(t, 1250, fee.Deficit)
	assertItemAmount(t, res, acm.ItemTravel, 1250)
	assert.Equal(t, 5, res.AirTicketEntitled)
	assertAmount(t, 10000, res.TotalClaimable)
	assertAmount(t, 1250, res.TotalDeficit)
}

func TestPublic_PaxCapPerEmployer(t *testing.T) {
	// GIVEN: 12 pax on a public course
	// WHEN: Calculating
	// THEN: Only 9 pax are funded, the rest is warned as self-funded

	res := calculate(t, baseline(t), publicInput(12))

	fee := item(t, res, acm.ItemCourseFee)
	assertAmount(t, 15750, fee.Amount.Decimal)
	assert.Equal(t, 9, *fee.EntitledHeadcount)
	assert.Contains(t, res.Warnings[0], "Only 9 of 12 pax are eligible")
}

func TestPublic_CourseFeeWhateverTheTrainer(t *testing.T) {
	// GIVEN: Public, ROT public and seminar courses for 5 pax
	// WHEN: Calculating with an internal or an external trainer
	// THEN: The per-head course fee is claimed either way and no trainer
	//       allowance appears

	variants := []acm.ProgrammeVariant{acm.VariantPublic, acm.VariantROTPublic, acm.VariantSeminar}
	trainers := []acm.TrainerType{acm.TrainerInternal, acm.TrainerExternal}

	for _, v := range variants {
		for _, tt := range trainers {
			t.Run(string(v)+"/"+string(tt), func(t *testing.T) {
				in := publicInput(5)
				in.Variant = v
				in.TrainerType = tt

				res := calculate(t, baseline(t), in)

				assertItemAmount(t, res, acm.ItemCourseFee, 8750)
				assert.False(t, res.HasItem(acm.ItemTrainerAllowance))
				assertAmount(t, 10000, res.TotalClaimable)
			})
		}
	}
}

func TestMeal_UnlabelledHost(t *testing.T) {
	// GIVEN: In-house course, host given without a label
	// WHEN: Calculating with an external and then an internal trainer
	// THEN: The meal group is labelled as the host company

	in := inHouse(10)
	res := calculate(t, baseline(t), in)

	meal := item(t, res, acm.ItemMeal)
	require.Len(t, meal.Groups, 1)
	assert.Equal(t, "Host Company", meal.Groups[0].Label)
	assert.Equal(t, acm.RoleHost, meal.Groups[0].Role)
	assertAmount(t, 1000, meal.Groups[0].Amount)

	in.TrainerType = acm.TrainerInternal
	res = calculate(t, baseline(t), in)

	meal = item(t, res, acm.ItemMeal)
	assert.Equal(t, "Host Company + Internal Trainer", meal.Groups[0].Label)
	assertAmount(t, 1100, meal.Groups[0].Amount)
}

func TestSeminar_NoPaxCap(t *testing.T) {
	in := publicInput(12)
	in.Variant = acm.VariantSeminar
	in.NumberOfSpeakers = 2

	res := calculate(t, baseline(t), in)

	assertItemAmount(t, res, acm.ItemCourseFee, 21000)
	assertItemAmount(t, res, acm.ItemTravel, 3000)
	assert.Equal(t, 12, res.AirTicketEntitled)
	assert.Contains(t, res.Warnings[0], "minimum of 51 total attendees")
}

func TestSeminar_TooFewSpeakers(t *testing.T) {
	in := publicInput(60)
	in.Variant = acm.VariantSeminar
	in.NumberOfSpeakers = 1

	res := calculate(t, baseline(t), in)
	assert.Contains(t, res.Warnings[0], "minimum of 2 speaker(s) for a full-day event")

	in.Duration = acm.DurationHalfDay
	res = calculate(t, baseline(t), in)
	assert.NotContains(t, res.Warnings[0], "speaker")
	assertItemAmount(t, res, acm.ItemCourseFee, 60000)
}

func TestRemote_NeverEmitsAirTicket(t *testing.T) {
	// GIVEN: ROT variants whose groups would otherwise fly in
	// WHEN: Calculating
	// THEN: No air-ticket item, entitlement 0, ROT note and attendance report

	snap := baseline(t)

	rotInHouse := inHouse(10)
	rotInHouse.Variant = acm.VariantROTInHouse
	rotInHouse.Venue = acm.VenueExternalHotel
	rotInHouse.Branches = []acm.Group{{Pax: 5, Distance: acm.DistanceFar}}

	rotPublic := publicInput(5)
	rotPublic.Variant = acm.VariantROTPublic

	for name, in := range map[string]acm.Input{"rot_inhouse": rotInHouse, "rot_public": rotPublic} {
		t.Run(name, func(t *testing.T) {
			res := calculate(t, snap, in)
			assert.False(t, res.HasItem(acm.ItemAirTicket))
			assert.Equal(t, 0, res.AirTicketEntitled)
			assert.Contains(t, checklistTexts(res), "System Generated Attendance Report (mandatory for Remote Online Training)")

			assert.True(t, lo.SomeBy(res.Warnings, func(w string) bool {
				return strings.HasPrefix(w, "ROT (Remote Online Training)")
			}), "ROT note expected")
			for _, w := range res.Warnings {
				assert.NotContains(t, w, "ticket stub")
			}
		})
	}
}

func TestRemote_HotelClaimsTravelAndTransport(t *testing.T) {
	in := inHouse(10)
	in.Variant = acm.VariantROTInHouse
	in.Venue = acm.VenueExternalHotel
	in.Branches = []acm.Group{{Pax: 5, Distance: acm.DistanceFar}}

	res := calculate(t, baseline(t), in)

	assertItemAmount(t, res, acm.ItemTravel, 7500)
	assert.True(t, res.HasItem(acm.ItemCharteredTransport))
	assert.False(t, item(t, res, acm.ItemCharteredTransport).HasAmount())
	assert.False(t, res.HasItem(acm.ItemMeal))
}

// =============================================================================
// E-LEARNING
// =============================================================================

func TestELearning_HourBlocks(t *testing.T) {
	// GIVEN: E-learning programmes of various lengths
	// WHEN: Pricing one participant
	// THEN: Up to 7h from the table, then half-day (<=4h) and full-day blocks

	snap := baseline(t)
	for hours, want := range map[int]int64{
		1: 125, 4: 500, 7: 875, 8: 1375, 11: 1375, 12: 1750, 14: 1750, 15: 2250,
	} {
		t.Run(fmt.Sprintf("%dh", hours), func(t *testing.T) {
			in := inHouse(1)
			in.Variant = acm.VariantELearning
			in.ELearningHours = hours

			res := calculate(t, snap, in)
			assert.Equal(t, []acm.ItemKind{acm.ItemCourseFee}, kinds(res))
			assertItemAmount(t, res, acm.ItemCourseFee, want)
		})
	}
}

func TestELearning_MultipliesByHeads(t *testing.T) {
	in := inHouse(3)
	in.Variant = acm.VariantMobileELearning
	in.Venue = acm.VenueExternalHotel
	in.ELearningHours = 8
	in.Branches = []acm.Group{{Pax: 2, Distance: acm.DistanceFar}}

	res := calculate(t, baseline(t), in)

	assertItemAmount(t, res, acm.ItemCourseFee, 6875)
	assert.False(t, res.HasItem(acm.ItemAirTicket))
	assert.False(t, res.HasItem(acm.ItemCharteredTransport))
}

// =============================================================================
// OVERSEAS
// =============================================================================

func TestOverseasTraining(t *testing.T) {
	// GIVEN: Overseas training, 10 pax, 3 days plus 2 travel days, no quote
	// WHEN: Calculating
	// THEN: 9 heads assisted at 50% on fee and daily allowance

	in := inHouse(10)
	in.Variant = acm.VariantOverseas
	in.Days = 3
	in.ExtraDays = 2

	res := calculate(t, baseline(t), in)

	fee := item(t, res, acm.ItemCourseFee)
	assertAmount(t, 135000, fee.Amount.Decimal)
	assertAmount(t, 135000, fee.Deficit)
	assert.True(t, fee.IsEstimate)
	assertItemAmount(t, res, acm.ItemOverseasDailyAllowance, 33750)
	assert.Equal(t, 10, res.AirTicketEntitled)
	assert.Contains(t, item(t, res, acm.ItemAirTicket).Note, "50% assistance")
	assertAmount(t, 168750, res.TotalClaimable)

	require.Len(t, res.Warnings, 5)
	assert.Contains(t, res.Warnings[0], "Overseas training pax cap")
	assert.Contains(t, res.Warnings[1], "Items marked as estimates")
	assert.Contains(t, res.Warnings[2], "Overseas training/seminar")
	assert.Contains(t, res.Warnings[3], "Attendance")
	assert.Contains(t, res.Warnings[4], "Air ticket")
}

func TestOverseasSeminar_ActualFee(t *testing.T) {
	in := inHouse(12)
	in.Variant = acm.VariantOverseasSeminar
	in.NumberOfSpeakers = 2
	in.ActualFeePerHead = decimal.NewFromInt(4000)

	res := calculate(t, baseline(t), in)

	fee := item(t, res, acm.ItemCourseFee)
	assert.Equal(t, "Seminar / Conference Fee (Overseas)", fee.Label)
	assertAmount(t, 24000, fee.Amount.Decimal)
	assertAmount(t, 24000, fee.Deficit)
	assert.False(t, fee.IsEstimate)
	// no pax cap for seminars: 1500 x 12 x 1 x 50%
	assertItemAmount(t, res, acm.ItemOverseasDailyAllowance, 9000)
}

// =============================================================================
// DEVELOPMENT
// =============================================================================

func devInput(level acm.DevLevel, loc acm.DevLocation, months int) acm.Input {
	in := inHouse(2)
	in.Variant = acm.VariantDevelopment
	in.DevLevel = level
	in.DevLocation = loc
	in.DevMonths = months
	in.DevFullTime = true
	return in
}

func TestDevelopment_LocalDegree(t *testing.T) {
	res := calculate(t, baseline(t), devInput(acm.DevDegree, acm.DevLocal, 6))

	assert.Equal(t, []acm.ItemKind{acm.ItemCourseFee, acm.ItemConsumable, acm.ItemStudyAllowance}, kinds(res))
	fee := item(t, res, acm.ItemCourseFee)
	assertAmount(t, 40000, fee.Amount.Decimal)
	assert.True(t, fee.IsEstimate)
	assertItemAmount(t, res, acm.ItemStudyAllowance, 10800)
	assertAmount(t, 50900, res.TotalClaimable)
	assert.Contains(t, res.Warnings[0], "RM20,000/pax")
	assert.Equal(t, []string{
		"Complete course syllabus (if claiming by semester, attach syllabus for ALL semesters)",
		"Invoice or quotation for course fees",
		"Confirmation letter from college / university",
		"Consumable Training Materials: No receipt needed if total is at most RM100. If total exceeds RM100, attach itemised quotation or invoice with price per item",
	}, checklistTexts(res))
}

func TestDevelopment_OverseasMasters(t *testing.T) {
	// GIVEN: Full-time overseas Masters, 2 pax, 6 months
	// WHEN: Calculating
	// THEN: Full course fee, half study and thesis allowances, air at quotation

	res := calculate(t, baseline(t), devInput(acm.DevMasters, acm.DevOverseas, 6))

	assertItemAmount(t, res, acm.ItemCourseFee, 40000)
	assertItemAmount(t, res, acm.ItemStudyAllowance, 30000)
	assertItemAmount(t, res, acm.ItemThesisAllowance, 3600)
	air := item(t, res, acm.ItemAirTicket)
	assert.False(t, air.HasAmount())
	assert.Equal(t, 2, res.AirTicketEntitled)
	assertAmount(t, 73700, res.TotalClaimable)
}

func TestDevelopment_OverseasDegreeCoPayment(t *testing.T) {
	res := calculate(t, baseline(t), devInput(acm.DevDegree, acm.DevOverseas, 6))

	fee := item(t, res, acm.ItemCourseFee)
	assertAmount(t, 20000, fee.Amount.Decimal)
	assertAmount(t, 20000, fee.Deficit)
	assertItemAmount(t, res, acm.ItemStudyAllowance, 60000)
	assert.False(t, res.HasItem(acm.ItemThesisAllowance))

	in := devInput(acm.DevDegree, acm.DevOverseas, 6)
	in.DevPrivateInstitution = true
	res = calculate(t, baseline(t), in)
	assertItemAmount(t, res, acm.ItemCourseFee, 40000)
}

func TestDevelopment_ShortProgrammeWarned(t *testing.T) {
	in := devInput(acm.DevDiploma, acm.DevLocal, 2)
	in.DevFullTime = false

	res := calculate(t, baseline(t), in)

	assert.Contains(t, res.Warnings[0], "Minimum course duration for Development Programmes is 3 months (90 training days)")
	assert.False(t, res.HasItem(acm.ItemStudyAllowance))
}

func TestDevelopment_SBLRequiresMQA(t *testing.T) {
	in := devInput(acm.DevDegree, acm.DevLocal, 6)
	in.Scheme = acm.SchemeSBL

	res := calculate(t, baseline(t), in)
	assert.Contains(t, checklistTexts(res), "MQA Certificate for the course (programme must be MQA accredited, verify at https://www2.mqa.gov.my/mqr/)")
}
