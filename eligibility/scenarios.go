/*
scenarios.go - Per-variant handlers

PURPOSE:
  Every programme variant maps to exactly one scenario handler. The
  handler emits cost items in display order and adds the warnings that
  belong to its variant. Shared components live in components.go and
  fees.go.

DISPATCH:
  inhouse, rot_inhouse, coaching_mentoring, public, rot_public
      -> matrixScenario       flags of the matching cost-matrix row
  seminar_conference
      -> seminarScenario      public fee without pax cap
  overseas, overseas_seminar
      -> overseasScenario     assisted fee, daily allowance and airfare
  elearning, mobile_elearning
      -> elearningScenario    hour blocks only
  development
      -> developmentScenario  monthly allowances
*/
package eligibility

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/acm-engine/acm"
)

// scenario computes the cost items of one programme family.
type scenario interface {
	items(c *calc) error
}

func scenarioFor(v acm.ProgrammeVariant) scenario {
	switch v {
	case acm.VariantInHouse, acm.VariantROTInHouse, acm.VariantCoachingMentoring,
		acm.VariantPublic, acm.VariantROTPublic:
		return matrixScenario{}
	case acm.VariantSeminar:
		return seminarScenario{}
	case acm.VariantOverseas, acm.VariantOverseasSeminar:
		return overseasScenario{}
	case acm.VariantELearning, acm.VariantMobileELearning:
		return elearningScenario{}
	case acm.VariantDevelopment:
		return developmentScenario{}
	}
	return unknownScenario{variant: v}
}

type unknownScenario struct {
	variant acm.ProgrammeVariant
}

func (s unknownScenario) items(*calc) error {
	return fmt.Errorf("%w: programme variant %q", acm.ErrNoScenario, s.variant)
}

// =============================================================================
// MATRIX SCENARIOS
// =============================================================================

type matrixScenario struct{}

func (matrixScenario) items(c *calc) error {
	in, p := c.in, c.p
	row, ok := c.snap.Matrix.Lookup(in.Variant, in.Venue, in.TrainerType)
	if !ok {
		return fmt.Errorf("%w: %s / %s / %s", acm.ErrNoScenario, in.Variant, in.Venue, in.TrainerType)
	}
	if !row.AllowsScheme(in.Scheme) && c.scheme.AllowsVariant(in.Variant) && c.scheme.AllowsTrainer(in.TrainerType) {
		c.warn.add(stageScheme, "The %s scenario (%s) is not available under %s.", in.Variant.Label(), row.ID, c.scheme.Label)
	}

	internal := in.TrainerType == acm.TrainerInternal
	if row.TrainerAllowance && internal {
		c.trainerAllowance()
	}
	// An internal trainer replaces the in-house course fee with the trainer
	// allowance. Public courses bill the fee whoever trains.
	if row.CourseFee && (!p.InHouseFamily || !internal) {
		if p.InHouseFamily {
			c.inHouseCourseFee(row)
		} else {
			c.publicFee(row.PublicPaxCap)
		}
	}
	if row.MealTrainees {
		c.meal(row.MealIncludesTrainer && internal && !in.TrainerFromBranch && !p.Remote)
	}
	if row.TravelTrainees {
		c.travel(row.TravelHost)
	}
	if row.OverseasTrainerDaily && in.TrainerType == acm.TrainerOverseas {
		c.overseasTrainerDaily()
	}

	if row.AirTrainees {
		c.airHeads(row.AirHost)
	}
	if row.AirTrainer && p.InHouseFamily {
		c.airTrainer()
	}
	c.emitAir(false)

	if row.CharteredTransport && p.Hotel {
		c.chartered()
	}
	if row.Consumable {
		c.consumable(row.ConsumableOrganiserOnly && c.scheme.ConsumableOrganiserOnly)
	}
	if row.LicensedMaterials && in.HasLicensedMaterials {
		c.licensedMaterials()
	}

	if n := len(in.OtherEmployers); n > 0 {
		c.warn.add(stageCostSharing, "Participating employers: Travel allowance and air ticket for the %d other %s are itemised above. "+
			"Each participating employer claims its own share through its own HRD Corp grant application.",
			n, plural(n, "employer", "employers"))
	}
	return nil
}

// =============================================================================
// SEMINAR, OVERSEAS, E-LEARNING
// =============================================================================

type seminarScenario struct{}

func (seminarScenario) items(c *calc) error {
	c.publicFee(false)
	c.travel(true)
	c.airHeads(true)
	c.emitAir(false)
	if c.p.Hotel {
		c.chartered()
	}
	return nil
}

type overseasScenario struct{}

func (overseasScenario) items(c *calc) error {
	c.overseasFee()
	c.overseasDaily()
	c.airHeads(true)
	c.emitAir(true)
	if c.p.Hotel {
		c.chartered()
	}
	return nil
}

type elearningScenario struct{}

func (elearningScenario) items(c *calc) error {
	return c.elearningFee()
}

// =============================================================================
// DEVELOPMENT PROGRAMME
// =============================================================================

type developmentScenario struct{}

func (developmentScenario) items(c *calc) error {
	in, d := c.in, c.rates.Development
	overseas := in.DevLocation == acm.DevOverseas

	if in.DevMonths < d.MinMonths {
		c.warn.add(stageCompliance, "Minimum course duration for Development Programmes is %d months (%d training days). "+
			"Current input: %d month(s) = %d days, which does not meet the ACM eligibility threshold.",
			d.MinMonths, d.MinMonths*d.DaysPerMonth, in.DevMonths, in.DevMonths*d.DaysPerMonth)
	}

	c.developmentFee()
	c.consumable(false)
	if in.DevFullTime {
		c.studyAllowance()
		if in.DevLevel.IsPostgraduate() {
			c.thesisAllowance()
		}
	}
	switch {
	case overseas:
		c.developmentAir(fmt.Sprintf("As per quotation, %s financial assistance on airfare", pct(c.studyRate())))
	case c.p.Hotel && in.Host.Distance == acm.DistanceFar:
		c.developmentAir(fmt.Sprintf("%d trainee(s) at >=100km to institution, air ticket may be claimable (actual cost)", c.p.TotalPax))
	}
	if c.p.Hotel {
		c.chartered()
	}

	c.developmentNotes()
	return nil
}

// studyRate is the assistance share of study, thesis and airfare.
func (c *calc) studyRate() decimal.Decimal {
	if c.in.DevLocation == acm.DevOverseas && c.in.DevLevel.IsPostgraduate() {
		return c.rates.Development.OverseasPostgradStudyRate
	}
	return decimal.NewFromInt(1)
}

func (c *calc) studyAllowance() {
	d := c.rates.Development
	monthly := d.StudyLocal
	if c.in.DevLocation == acm.DevOverseas {
		monthly = d.StudyOverseas
	}
	rate := c.studyRate()
	amount := whole(monthly.Mul(dec(c.in.DevMonths)).Mul(dec(c.p.TotalPax)).Mul(rate))
	note := fmt.Sprintf("%s/month x %d month(s) x %d pax", rm(monthly), c.in.DevMonths, c.p.TotalPax)
	if rate.LessThan(decimal.NewFromInt(1)) {
		note += fmt.Sprintf(" x %s assistance", pct(rate))
	}
	item := amountItem(acm.ItemStudyAllowance, "Study Allowance", note, amount)
	item.RequiredDocument = c.claimDoc(acm.ClaimNone)
	c.emit(item)
}

func (c *calc) thesisAllowance() {
	d := c.rates.Development
	monthly := d.ThesisMasters
	if c.in.DevLevel == acm.DevPhD {
		monthly = d.ThesisPhD
	}
	rate := c.studyRate()
	amount := whole(monthly.Mul(dec(c.in.DevMonths)).Mul(dec(c.p.TotalPax)).Mul(rate))
	note := fmt.Sprintf("%s/month x %d month(s) x %d pax", rm(monthly), c.in.DevMonths, c.p.TotalPax)
	if rate.LessThan(decimal.NewFromInt(1)) {
		note += fmt.Sprintf(" x %s assistance", pct(rate))
	}
	item := amountItem(acm.ItemThesisAllowance, "Thesis Allowance", note, amount)
	item.RequiredDocument = c.claimDoc(acm.ClaimNone)
	c.emit(item)
}

// developmentAir emits the single air item of a development programme. It
// replaces the trainee tally of the other scenarios.
func (c *calc) developmentAir(note string) {
	n := c.p.TotalPax
	if n == 0 {
		return
	}
	item := actualCostItem(acm.ItemAirTicket, "Air Ticket", note)
	item.EntitledHeadcount = &n
	item.RequiredDocument = c.claimDoc(acm.ClaimAirTicket)
	c.emit(item)
	c.airEntitled = n
}

func (c *calc) developmentNotes() {
	in, d := c.in, c.rates.Development
	if in.DevLevel == acm.DevSKM {
		c.warn.add(stageVariant, "Sijil Kemahiran Malaysia (SKM) has 5 levels: SKM Level 1, SKM Level 2, SKM Level 3, "+
			"SKM Level 4, and SKM Level 5. Courses are offered by technical and vocational institutions "+
			"accredited by the Department of Skills Development (Jabatan Pembangunan Kemahiran, JPK), "+
			"Ministry of Human Resources.")
	}

	const feesBorne = "Course fees MUST be entirely borne by the employer. Employees must not pay any portion where HRD Corp assistance is available"
	switch in.Scheme {
	case acm.SchemeHCC:
		c.warn.add(stageVariant, "%s",
			bullets("HCC development programme notes:",
				"All modules must be registered with HRD Corp",
				"Can be claimed on a modular, semester, or whole duration basis",
				feesBorne))
	case acm.SchemeSBL:
		c.warn.add(stageVariant, "%s",
			bullets("SBL development programme notes:",
				"Course must be locally or overseas accredited",
				"Cross-check MQA accreditation at: https://www2.mqa.gov.my/mqr/",
				"Can be claimed on a modular, semester, or whole duration basis",
				feesBorne))
	}

	monthly := d.StudyLocal
	if in.DevLocation == acm.DevOverseas {
		monthly = d.StudyOverseas
	}
	c.warn.add(stageVariant, "%s",
		bullets("Development Programme key rules:",
			fmt.Sprintf("Minimum %d months (1 month = %d training days, minimum = %d days total)", d.MinMonths, d.DaysPerMonth, d.MinMonths*d.DaysPerMonth),
			"Can be claimed on modular, semester, or whole duration basis",
			"Course fees claimable as per quotation, including registration & examination fees",
			feesBorne,
			fmt.Sprintf("Study allowance (%s/month) is for full-time students only, prorated daily if the programme starts or ends mid-month", rm(monthly)),
			fmt.Sprintf("Overseas Masters/PhD: 100%% course fees, %s study allowance & airfare", pct(d.OverseasPostgradStudyRate)),
			"Overseas courses at private higher education institutions: 100% course fees",
			"Trainer is always external (institution staff)"))
}

func bullets(title string, lines ...string) string {
	var b strings.Builder
	b.WriteString(title)
	for _, l := range lines {
		b.WriteString("\n- ")
		b.WriteString(l)
	}
	return b.String()
}
