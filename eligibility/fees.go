/*
fees.go - Course fee computations

MODES:
  In-house general courses (non-internal trainer) pick one sharing mode:
    (a) group split   group rate prorated, divided by total pax, each
                      participant group billed for its own heads
    (b) public rate   other employers present: per-head public rate,
                      host + branches billed as one unit, each other
                      employer separately
    (c) group rate    flat in-house group rate, prorated below threshold
  "As charged" categories bill per head at the actual fee or an estimate.
  Public, e-learning, overseas and development fees have their own rules.

ACTUAL FEE:
  ActualFeePerHead is the quoted fee per participant for the whole
  programme. The claim is capped at the ACM ceiling; the excess is
  reported as a deficit funded by the employer.
*/
package eligibility

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/acm-engine/acm"
)

const deficitSuffix = "to be funded from employer's own budget"

func (c *calc) hasActual() bool {
	return c.in.ActualFeePerHead.IsPositive()
}

// courseFeeDoc is the claim document for course fees under the scheme.
func (c *calc) courseFeeDoc() string {
	if c.scheme.PaymentFlow == acm.PaymentDirectToProvider {
		return c.snap.Documents.ClaimText(acm.ClaimCourseFeeHCC)
	}
	return c.snap.Documents.ClaimText(acm.ClaimCourseFeeOther)
}

func (c *calc) groupRate() decimal.Decimal {
	if c.p.HalfDay {
		return c.rates.InHouse.HalfDay
	}
	return c.rates.InHouse.FullDay
}

func (c *calc) publicRate() decimal.Decimal {
	if c.p.HalfDay {
		return c.rates.Public.HalfDay
	}
	return c.rates.Public.FullDay
}

// prorate scales a group rate linearly below the prorate threshold.
func (c *calc) prorate(rate decimal.Decimal, pax int) decimal.Decimal {
	t := c.rates.InHouse.ProrateThreshold
	if pax >= t {
		return rate
	}
	return rate.Mul(dec(pax)).Div(dec(t))
}

func (c *calc) prorateNote(pax int) string {
	if pax < c.rates.InHouse.ProrateThreshold {
		return fmt.Sprintf(" (prorated, less than %d pax)", c.rates.InHouse.ProrateThreshold)
	}
	return ""
}

func courseFeeItem(label, note string, amount decimal.Decimal) acm.CostItem {
	return acm.CostItem{
		Kind:   acm.ItemCourseFee,
		Label:  label,
		Note:   note,
		Amount: decimal.NewNullDecimal(amount),
	}
}

// ceilingNote explains an actual fee against its ACM ceiling.
func ceilingNote(claim, deficit decimal.Decimal) string {
	if deficit.IsPositive() {
		return fmt.Sprintf(" ceiling applied, HRD Corp pays %s / Deficit %s %s", rm(claim), rm(deficit), deficitSuffix)
	}
	return fmt.Sprintf(" within ceiling, HRD Corp pays %s", rm(claim))
}

// =============================================================================
// IN-HOUSE FAMILY
// =============================================================================

// inHouseCourseFee emits the course fee of an in-house scenario with a
// non-internal trainer.
func (c *calc) inHouseCourseFee(row acm.MatrixRow) {
	if !c.p.General {
		c.asChargedFee()
		return
	}
	mode := row.CostSharing
	if mode == "" {
		mode = c.scheme.CostSharing
	}
	switch {
	case mode == acm.SharingGroupSplit:
		c.groupSplitFee()
	case len(c.in.OtherEmployers) > 0:
		c.publicRateFee()
	default:
		c.groupRateFee()
	}
}

// groupSplitFee is mode (a).
func (c *calc) groupSplitFee() {
	rate := c.groupRate()
	total := c.p.TotalPax
	days := dec(c.in.Days)
	item := courseFeeItem("Course Fee", "", decimal.Zero)
	item.RequiredDocument = c.courseFeeDoc()

	sum := decimal.Zero
	if c.hasActual() {
		actual := c.in.ActualFeePerHead
		ceiling := whole(c.prorate(rate, total).Mul(days))
		totalActual := whole(actual.Mul(dec(total)))
		claim := decimal.Min(totalActual, ceiling)
		deficit := decimal.Max(decimal.Zero, totalActual.Sub(ceiling))

		for _, g := range c.in.Groups() {
			if g.Pax <= 0 || total == 0 {
				continue
			}
			share := whole(claim.Mul(dec(g.Pax)).Div(dec(total)))
			sum = sum.Add(share)
			note := fmt.Sprintf("Actual %s/pax x %d pax", rm(actual), g.Pax)
			if deficit.IsPositive() {
				note += " [ACM ceiling applied]"
			}
			item.Groups = append(item.Groups, acm.GroupShare{Label: g.DisplayLabel(), Role: g.Role, Pax: g.Pax, Amount: share, Note: note})
		}
		item.Deficit = deficit
		item.Note = fmt.Sprintf("Actual %s/pax x %d pax = %s, ACM ceiling %s,", rm(actual), total, rm(totalActual), rm(ceiling)) +
			ceilingNote(claim, deficit) + " (shared proportionally per employer)"
	} else {
		perHead := c.prorate(rate, total)
		if total > 0 {
			perHead = perHead.Div(dec(total))
		}
		for _, g := range c.in.Groups() {
			if g.Pax <= 0 {
				continue
			}
			share := whole(perHead.Mul(dec(g.Pax)).Mul(days))
			sum = sum.Add(share)
			item.Groups = append(item.Groups, acm.GroupShare{
				Label: g.DisplayLabel(), Role: g.Role, Pax: g.Pax, Amount: share,
				Note: fmt.Sprintf("%s/day / %d pax x %d pax x %d day(s)", rm(rate), total, g.Pax, c.in.Days),
			})
		}
		item.Note = fmt.Sprintf("%s: group rate %s/day / %d pax = %s/pax/day%s (shared proportionally per employer)",
			strings.ToUpper(string(c.in.Scheme)), rm(rate), total, rm(whole(perHead)), c.prorateNote(total))
	}
	item.Amount = decimal.NewNullDecimal(sum)
	c.emit(item)

	perHead := rate
	if total > 0 {
		perHead = rate.Div(dec(total))
	}
	c.warn.add(stageCostSharing, "%s cost sharing: In-house group rate (%s/day) is divided equally across all %d participants = %s/pax/day. "+
		"Each employer pays only for their own participants.",
		strings.ToUpper(string(c.in.Scheme)), rm(rate), total, rm(whole(perHead)))
}

// publicRateFee is mode (b).
func (c *calc) publicRateFee() {
	sysRate := c.publicRate()
	ceiling := sysRate.Mul(dec(c.in.Days))
	claimPerHead, deficitPerHead := ceiling, decimal.Zero
	if c.hasActual() {
		claimPerHead = decimal.Min(c.in.ActualFeePerHead, ceiling)
		deficitPerHead = decimal.Max(decimal.Zero, c.in.ActualFeePerHead.Sub(ceiling))
	}
	ratePerDay := whole(claimPerHead.Div(dec(c.in.Days)))

	item := courseFeeItem("Course Fee", "", decimal.Zero)
	item.RequiredDocument = c.courseFeeDoc()

	addUnit := func(label string, role acm.GroupRole, pax int) {
		if pax <= 0 {
			return
		}
		share := whole(claimPerHead.Mul(dec(pax)))
		note := fmt.Sprintf("%s/pax/day x %d pax x %d day(s)", rm(ratePerDay), pax, c.in.Days)
		if deficitPerHead.IsPositive() {
			note += fmt.Sprintf(", HRD Corp pays %s / Deficit %s %s", rm(share), rm(whole(deficitPerHead.Mul(dec(pax)))), deficitSuffix)
		}
		item.Groups = append(item.Groups, acm.GroupShare{Label: label, Role: role, Pax: pax, Amount: share, Note: note})
	}

	hostLabel := c.in.HostGroup().DisplayLabel()
	if c.p.BranchPax > 0 {
		hostLabel = fmt.Sprintf("%s + Branches (%d + %d pax)", hostLabel, c.p.HostPax, c.p.BranchPax)
	}
	addUnit(hostLabel, acm.RoleHost, c.p.HostPax+c.p.BranchPax)
	for _, g := range c.in.OtherEmployers {
		addUnit(g.DisplayLabel(), acm.RoleOtherEmployer, g.Pax)
	}

	amount := whole(claimPerHead.Mul(dec(c.p.TotalPax)))
	item.Amount = decimal.NewNullDecimal(amount)
	item.Deficit = whole(deficitPerHead.Mul(dec(c.p.TotalPax)))
	if c.hasActual() {
		item.Note = fmt.Sprintf("Actual %s/pax, ACM ceiling %s/pax,", rm(c.in.ActualFeePerHead), rm(ceiling)) + ceilingNote(amount, item.Deficit)
	} else {
		item.Note = fmt.Sprintf("Public rate shared by %d companies (%s/pax/day)", 1+len(c.in.OtherEmployers), rm(sysRate))
	}
	c.emit(item)

	c.warn.add(stageCostSharing, "%d other %s involved: public rate (%s/pax/day) applied. "+
		"Cost is shared between the host company with its branches and each other employer based on pax.",
		len(c.in.OtherEmployers), plural(len(c.in.OtherEmployers), "employer", "employers"), rm(sysRate))
}

// groupRateFee is mode (c).
func (c *calc) groupRateFee() {
	rate := c.groupRate()
	total := c.p.TotalPax
	ceiling := whole(c.prorate(rate, total).Mul(dec(c.in.Days)))

	item := courseFeeItem("Course Fee", "", ceiling)
	item.RequiredDocument = c.courseFeeDoc()
	if c.hasActual() {
		totalActual := whole(c.in.ActualFeePerHead.Mul(dec(total)))
		claim := decimal.Min(totalActual, ceiling)
		item.Amount = decimal.NewNullDecimal(claim)
		item.Deficit = decimal.Max(decimal.Zero, totalActual.Sub(ceiling))
		item.Note = fmt.Sprintf("Actual %s/pax x %d pax = %s, ACM ceiling %s,", rm(c.in.ActualFeePerHead), total, rm(totalActual), rm(ceiling)) +
			ceilingNote(claim, item.Deficit)
	} else {
		item.Note = fmt.Sprintf("In-house group rate %s/group/day x %d day(s)%s", rm(rate), c.in.Days, c.prorateNote(total))
	}
	c.emit(item)
}

// asChargedFee bills focus-area, industry-specific and certification
// courses per head, per participant group.
func (c *calc) asChargedFee() {
	perHead := c.rates.AsChargedEstimate.Mul(dec(c.in.Days))
	if c.hasActual() {
		perHead = c.in.ActualFeePerHead
	}
	item := courseFeeItem("Course Fee", "", whole(perHead.Mul(dec(c.p.TotalPax))))
	item.RequiredDocument = c.courseFeeDoc()
	item.IsEstimate = !c.hasActual()

	for _, g := range c.in.Groups() {
		if g.Pax <= 0 {
			continue
		}
		note := fmt.Sprintf("Actual %s/pax x %d pax", rm(perHead), g.Pax)
		if item.IsEstimate {
			note = fmt.Sprintf("%s/pax/day x %d pax x %d day(s) (est.)", rm(c.rates.AsChargedEstimate), g.Pax, c.in.Days)
		}
		item.Groups = append(item.Groups, acm.GroupShare{
			Label: g.DisplayLabel(), Role: g.Role, Pax: g.Pax, Amount: whole(perHead.Mul(dec(g.Pax))), Note: note,
		})
	}
	if item.IsEstimate {
		item.Note = fmt.Sprintf("%s, estimated at %s/pax/day (actual invoice as charged)", c.in.CourseCategory.Label(), rm(c.rates.AsChargedEstimate))
	} else {
		item.Note = fmt.Sprintf("%s, actual %s/pax x %d pax", c.in.CourseCategory.Label(), rm(perHead), c.p.TotalPax)
	}
	c.emit(item)
}

// =============================================================================
// PUBLIC, E-LEARNING, OVERSEAS, DEVELOPMENT
// =============================================================================

// publicFee bills public, remote-public and local seminar courses per head
// per day. With capped set, eligible heads are limited to the per-employer
// maximum and the rest are self-funded.
func (c *calc) publicFee(capped bool) {
	if !c.p.General {
		c.asChargedFee()
		return
	}
	total := c.p.TotalPax
	eligible := total
	if capped {
		eligible = min(total, c.rates.Public.MaxPaxPerEmployer)
	}
	excess := total - eligible

	sysRate := c.publicRate()
	ceiling := sysRate.Mul(dec(c.in.Days))
	claimPerHead, deficitPerHead := ceiling, decimal.Zero
	if c.hasActual() {
		claimPerHead = decimal.Min(c.in.ActualFeePerHead, ceiling)
		deficitPerHead = decimal.Max(decimal.Zero, c.in.ActualFeePerHead.Sub(ceiling))
	}
	amount := whole(claimPerHead.Mul(dec(eligible)))

	item := courseFeeItem("Course Fee", "", amount)
	item.RequiredDocument = c.courseFeeDoc()
	item.Deficit = whole(deficitPerHead.Mul(dec(eligible)))
	item.EntitledHeadcount = &eligible
	if c.hasActual() {
		item.Note = fmt.Sprintf("Actual %s/pax, ACM ceiling %s/pax,", rm(c.in.ActualFeePerHead), rm(ceiling)) + ceilingNote(amount, item.Deficit)
	} else {
		item.Note = fmt.Sprintf("ACM rate: %s/pax/day x %d pax x %d day(s)", rm(sysRate), eligible, c.in.Days)
	}
	c.emit(item)

	if excess > 0 {
		c.warn.add(stageCompliance, "Pax cap applied: Only %d of %d pax are eligible for financial assistance "+
			"(maximum %d pax per employer for public/ROT training). The remaining %d pax must be self-funded by the employer.",
			eligible, total, c.rates.Public.MaxPaxPerEmployer, excess)
	}
}

// elearningFee prices programme hours: up to the table maximum directly,
// then each remaining block as a half-day block (at most half_block_hours)
// or a full block consuming up to the table maximum.
func (c *calc) elearningFee() error {
	e := c.rates.ELearning
	remaining := c.in.ELearningHours
	first := min(remaining, e.MaxTableHours)

	perHead, err := c.rates.HourRate(first)
	if err != nil {
		return err
	}
	blocks := []string{fmt.Sprintf("%dhr = %s", first, rm(perHead))}
	remaining -= first

	halfBlock, err := c.rates.HourRate(e.HalfBlockHours)
	if err != nil {
		return err
	}
	fullBlock, err := c.rates.HourRate(e.MaxTableHours)
	if err != nil {
		return err
	}
	for remaining > 0 {
		if remaining <= e.HalfBlockHours {
			perHead = perHead.Add(halfBlock)
			blocks = append(blocks, fmt.Sprintf("+%dhr [half-day block] = %s", remaining, rm(halfBlock)))
			remaining = 0
			continue
		}
		block := min(remaining, e.MaxTableHours)
		perHead = perHead.Add(fullBlock)
		blocks = append(blocks, fmt.Sprintf("+%dhr [full-day block] = %s", block, rm(fullBlock)))
		remaining -= block
	}

	item := courseFeeItem("Course Fee (E-Learning)",
		fmt.Sprintf("%s, %s/pax x %d pax", strings.Join(blocks, " | "), rm(perHead), c.p.TotalPax),
		whole(perHead.Mul(dec(c.p.TotalPax))))
	item.RequiredDocument = c.courseFeeDoc()
	c.emit(item)
	return nil
}

// overseasFee applies the co-assistance rate to the actual or estimated
// per-head fee. Overseas training caps eligible heads per employer;
// overseas seminars do not.
func (c *calc) overseasFee() {
	total := c.p.TotalPax
	eligible := total
	rate := c.rates.Seminar.OverseasAssistance
	label := "Seminar / Conference Fee (Overseas)"
	if c.p.OverseasTraining {
		eligible = min(total, c.rates.Public.MaxPaxPerEmployer)
		rate = c.rates.Overseas.AssistanceRate
		label = "Course Fee (Overseas)"
	}

	perHead := c.rates.AsChargedEstimate.Mul(dec(c.in.Days))
	if c.hasActual() {
		perHead = c.in.ActualFeePerHead
	}
	gross := whole(perHead.Mul(dec(eligible)))
	claim := whole(gross.Mul(rate))

	item := courseFeeItem(label, "", claim)
	item.RequiredDocument = c.courseFeeDoc()
	item.Deficit = gross.Sub(claim)
	item.IsEstimate = !c.hasActual()
	item.EntitledHeadcount = &eligible
	if c.hasActual() {
		item.Note = fmt.Sprintf("Actual %s/pax x %d pax = %s, %s assistance = %s / Co-payment %s %s",
			rm(perHead), eligible, rm(gross), pct(rate), rm(claim), rm(item.Deficit), deficitSuffix)
	} else {
		item.Note = fmt.Sprintf("As charged (est. %s/pax) x %d pax, %s assistance = %s / employer co-pays the remainder",
			rm(perHead), eligible, pct(rate), rm(claim))
	}
	c.emit(item)

	if excess := total - eligible; excess > 0 {
		c.warn.add(stageCompliance, "Overseas training pax cap: Only %d of %d pax are eligible for financial assistance "+
			"(maximum %d pax per employer). The remaining %d pax must be self-funded by the employer.",
			eligible, total, c.rates.Public.MaxPaxPerEmployer, excess)
	}
}

// developmentFeeRate is the course-fee assistance of a development
// programme: full for local study, overseas postgraduate study and overseas
// private institutions, otherwise the overseas fee rate.
func (c *calc) developmentFeeRate() (decimal.Decimal, string) {
	in := c.in
	one := decimal.NewFromInt(1)
	switch {
	case in.DevLocation == acm.DevLocal:
		return one, "100% (local)"
	case in.DevLevel.IsPostgraduate():
		return one, "100% (overseas Masters/PhD)"
	case in.DevPrivateInstitution:
		return one, "100% (overseas, private higher education institution)"
	}
	r := c.rates.Development.OverseasFeeRate
	return r, pct(r) + " (overseas)"
}

func (c *calc) developmentFee() {
	rate, rateNote := c.developmentFeeRate()
	perHead := c.rates.DevEstimate
	if c.hasActual() {
		perHead = c.in.ActualFeePerHead
	}
	gross := whole(perHead.Mul(dec(c.p.TotalPax)))
	claim := whole(gross.Mul(rate))

	item := courseFeeItem("Course Fee", "", claim)
	item.RequiredDocument = c.courseFeeDoc()
	item.IsEstimate = !c.hasActual()
	item.Deficit = gross.Sub(claim)

	var b strings.Builder
	b.WriteString(c.in.DevLevel.Label())
	if c.hasActual() {
		fmt.Fprintf(&b, ", actual %s/pax", rm(perHead))
	} else {
		fmt.Fprintf(&b, ", est. %s/pax", rm(perHead))
	}
	fmt.Fprintf(&b, " x %d pax x %s", c.p.TotalPax, rateNote)
	if c.in.DevLocation == acm.DevOverseas {
		b.WriteString(" (convert fees to RM at time of claim)")
	}
	b.WriteString(", includes registration & examination fees")
	if item.Deficit.IsPositive() {
		fmt.Fprintf(&b, " / Co-payment %s not covered by HRD Corp %s", rm(item.Deficit), deficitSuffix)
	}
	item.Note = b.String()
	c.emit(item)
}
