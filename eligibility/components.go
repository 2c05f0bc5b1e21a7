/*
components.go - Allowances shared by several scenario handlers

COMPONENTS:
  trainerAllowance      internal trainer day rate, prorated below threshold
  meal                  host heads at own premises (+1 on-site trainer)
  travel                distance-tiered, +1 day for far groups on full days
  overseasTrainerDaily  per overseas trainer per day
  overseasDaily         overseas programmes, assisted
  air                   headcount accumulation, emitted once
  chartered             as per quotation
  consumable            flat amount per engagement
  licensedMaterials     actual cost or as charged, pre-approval required

  Items with no computed ceiling (air ticket, chartered transport, licensed
  materials without a cost) carry a null amount and stay out of the total.
*/
package eligibility

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warp/acm-engine/acm"
)

func (c *calc) claimDoc(key acm.ClaimDoc) string {
	return c.snap.Documents.ClaimText(key)
}

func amountItem(kind acm.ItemKind, label, note string, amount decimal.Decimal) acm.CostItem {
	return acm.CostItem{Kind: kind, Label: label, Note: note, Amount: decimal.NewNullDecimal(amount)}
}

func actualCostItem(kind acm.ItemKind, label, note string) acm.CostItem {
	return acm.CostItem{Kind: kind, Label: label, Note: note}
}

// =============================================================================
// TRAINER AND TRAINEE ALLOWANCES
// =============================================================================

func (c *calc) trainerAllowance() {
	al := c.rates.Allowances
	rate := al.InternalTrainerFull
	if c.p.HalfDay {
		rate = al.InternalTrainerHalf
	}
	amount := whole(c.prorate(rate, c.p.TotalPax).Mul(dec(c.in.Days)))
	item := amountItem(acm.ItemTrainerAllowance, "Internal Trainer Allowance",
		fmt.Sprintf("%s/day/group x %d day(s)%s", rm(rate), c.in.Days, c.prorateNote(c.p.TotalPax)), amount)
	item.RequiredDocument = c.claimDoc(acm.ClaimNone)
	c.emit(item)
}

// meal pays host heads at own premises. With trainerBonus, an on-site
// internal trainer eats as one more head.
func (c *calc) meal(trainerBonus bool) {
	al := c.rates.Allowances
	rate := al.MealFull
	if c.p.HalfDay {
		rate = al.MealHalf
	}
	heads := c.p.HostPax
	if trainerBonus {
		heads++
	}
	if heads <= 0 {
		return
	}

	amount := whole(rate.Mul(dec(heads)).Mul(dec(c.in.Days)))
	label := c.in.HostGroup().DisplayLabel()
	note := fmt.Sprintf("%s/pax/day x %d pax", rm(rate), heads)
	if trainerBonus {
		label += " + Internal Trainer"
		note += fmt.Sprintf(" (%d staff + 1 trainer)", c.p.HostPax)
	}
	note += fmt.Sprintf(" x %d day(s)", c.in.Days)
	if c.p.HalfDay {
		note += " (half-day)"
	}

	itemNote := fmt.Sprintf("%s/pax/day, host company staff at employer premises", rm(rate))
	if c.p.HalfDay {
		itemNote += " (half-day rate)"
	}
	item := amountItem(acm.ItemMeal, "Meal Allowance", itemNote, amount)
	item.RequiredDocument = c.claimDoc(acm.ClaimNone)
	item.Groups = []acm.GroupShare{{Label: label, Role: acm.RoleHost, Pax: heads, Amount: amount, Note: note}}
	c.emit(item)
}

func (c *calc) travelRate(d acm.DistanceTier) decimal.Decimal {
	if d == acm.DistanceFar {
		return c.rates.Allowances.TravelOver100
	}
	return c.rates.Allowances.TravelUnder100
}

// travelDays adds one travel day for far groups on full-day programmes.
func (c *calc) travelDays(d acm.DistanceTier) int {
	if d == acm.DistanceFar && !c.p.HalfDay {
		return c.in.Days + 1
	}
	return c.in.Days
}

// travel pays branch and other-employer heads, and host heads with
// includeHost.
func (c *calc) travel(includeHost bool) {
	item := amountItem(acm.ItemTravel, "Travel Allowance", "Branch and participating employer staff travelling to the training venue", decimal.Zero)
	if includeHost {
		item.Note = "All participants travel to the training venue"
	}
	item.RequiredDocument = c.claimDoc(acm.ClaimNone)

	sum := decimal.Zero
	for _, g := range c.in.Groups() {
		if g.Pax <= 0 || (g.Role == acm.RoleHost && !includeHost) {
			continue
		}
		rate, days := c.travelRate(g.Distance), c.travelDays(g.Distance)
		share := whole(rate.Mul(dec(g.Pax)).Mul(dec(days)))
		sum = sum.Add(share)
		note := fmt.Sprintf("%s/pax/day x %d pax x %d day(s) (%s)", rm(rate), g.Pax, days, g.Distance.Label())
		if days > c.in.Days {
			note += " [+1 extra travel day for >=100km]"
		}
		item.Groups = append(item.Groups, acm.GroupShare{Label: g.DisplayLabel(), Role: g.Role, Pax: g.Pax, Amount: share, Note: note})
	}
	if sum.IsZero() {
		return
	}
	item.Amount = decimal.NewNullDecimal(sum)
	c.emit(item)
}

func (c *calc) overseasTrainerDaily() {
	rate := c.rates.Allowances.OverseasTrainer
	amount := whole(rate.Mul(dec(c.in.NumberOfTrainers)).Mul(dec(c.in.Days)))
	item := amountItem(acm.ItemOverseasTrainerDaily, "Overseas Trainer Daily Allowance",
		fmt.Sprintf("%s/trainer/day x %d trainer(s) x %d day(s)", rm(rate), c.in.NumberOfTrainers, c.in.Days), amount)
	item.RequiredDocument = c.claimDoc(acm.ClaimNone)
	c.emit(item)
}

// overseasDaily pays the daily allowance over training and travel days at
// the assistance rate. Overseas training caps eligible heads per employer.
func (c *calc) overseasDaily() {
	o := c.rates.Overseas
	heads := c.p.TotalPax
	if c.p.OverseasTraining {
		heads = min(heads, c.rates.Public.MaxPaxPerEmployer)
	}
	days := c.in.Days + c.in.ExtraDays
	amount := whole(o.DailyAllowance.Mul(dec(heads)).Mul(dec(days)).Mul(o.AssistanceRate))
	item := amountItem(acm.ItemOverseasDailyAllowance, "Overseas Daily Allowance",
		fmt.Sprintf("%s/pax/day x %d pax x %d day(s) (%d training + %d travel %s), %s assistance = %s",
			rm(o.DailyAllowance), heads, days, c.in.Days, c.in.ExtraDays, plural(c.in.ExtraDays, "day", "days"), pct(o.AssistanceRate), rm(amount)),
		amount)
	item.EntitledHeadcount = &heads
	item.RequiredDocument = c.claimDoc(acm.ClaimNone)
	c.emit(item)
}

// =============================================================================
// AIR TICKET
// =============================================================================

// airTally accumulates air-ticket heads across the handler.
type airTally struct {
	count int
	parts []string
}

func (a *airTally) add(label string, n int) {
	if n <= 0 {
		return
	}
	a.count += n
	a.parts = append(a.parts, fmt.Sprintf("%s: %d", label, n))
}

// airHeads counts branch and other-employer heads, plus host heads with
// includeHost.
func (c *calc) airHeads(includeHost bool) {
	for _, g := range c.in.Groups() {
		if g.Role == acm.RoleHost && !includeHost {
			continue
		}
		c.air.add(g.DisplayLabel(), g.Pax)
	}
}

// airTrainer adds the travelling trainer of an in-house programme.
func (c *calc) airTrainer() {
	travellers := c.p.BranchPax + c.p.OtherPax
	switch c.in.TrainerType {
	case acm.TrainerExternal:
		if c.p.Hotel || travellers > 0 {
			c.air.add("External trainer", 1)
		}
	case acm.TrainerOverseas:
		c.air.add("Overseas trainer", 1)
	case acm.TrainerInternal:
		if c.in.TrainerFromBranch {
			c.air.add("Internal trainer (from branch)", 1)
		}
	}
}

// emitAir turns the tally into one item. Remote and e-learning programmes
// never claim air tickets, whatever the tally.
func (c *calc) emitAir(assisted bool) {
	if c.air.count == 0 || c.p.Remote || c.p.ELearning {
		return
	}
	n := c.air.count
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s entitled, actual airfare cost", n, plural(n, "person", "persons"))
	if assisted {
		fmt.Fprintf(&b, " x %s assistance", pct(c.rates.Overseas.AssistanceRate))
	}
	fmt.Fprintf(&b, " (%s)", strings.Join(c.air.parts, ", "))

	item := actualCostItem(acm.ItemAirTicket, "Air Ticket", b.String())
	item.EntitledHeadcount = &n
	item.RequiredDocument = c.claimDoc(acm.ClaimAirTicket)
	c.emit(item)
	c.airEntitled = n
}

// =============================================================================
// ENGAGEMENT-LEVEL ITEMS
// =============================================================================

func (c *calc) chartered() {
	item := actualCostItem(acm.ItemCharteredTransport, "Chartered Transportation", "As per quotation")
	item.RequiredDocument = c.claimDoc(acm.ClaimTransport)
	c.emit(item)
}

// consumable pays the flat materials allowance once per engagement. With
// organiserOnly, only the organising employer may claim it.
func (c *calc) consumable(organiserOnly bool) {
	rate := c.rates.Allowances.Consumable
	note := fmt.Sprintf("%s/group (no receipt needed up to this amount)", rm(rate))
	if organiserOnly {
		note = fmt.Sprintf("%s/group, %s: only the organising employer may claim consumable materials",
			rm(rate), strings.ToUpper(string(c.in.Scheme)))
		c.warn.add(stageCostSharing, "%s consumable materials: Only the organising employer may claim consumable/printed materials. "+
			"Other participating employers are not entitled to claim this item.", strings.ToUpper(string(c.in.Scheme)))
	}
	item := amountItem(acm.ItemConsumable, "Consumable Training Materials", note, rate)
	item.RequiredDocument = c.claimDoc(acm.ClaimConsumable)
	c.emit(item)
}

func (c *calc) licensedMaterials() {
	item := actualCostItem(acm.ItemLicensedMaterials, "Licensed Training Materials",
		"As charged, requires HRD Corp Special Approval Letter prior to grant submission")
	if cost := c.in.LicensedMaterialCost; cost.IsPositive() {
		item.Amount = decimal.NewNullDecimal(whole(cost))
		item.Note = fmt.Sprintf("Actual cost %s, requires HRD Corp Special Approval Letter", rm(whole(cost)))
	}
	item.RequiredDocument = c.claimDoc(acm.ClaimLicensed)
	c.emit(item)

	c.warn.add(stageCompliance, "Licensed Training Materials (LTM): Pre-approval from HRD Corp is required. "+
		"Submit the Special Approval Letter together with your grant application. "+
		"LTM is only eligible for in-house training programmes.")
}
