package eligibility

import (
	"github.com/samber/lo"

	"github.com/warp/acm-engine/acm"
)

func (c *calc) hasItem(kind acm.ItemKind) bool {
	return lo.ContainsBy(c.items, func(i acm.CostItem) bool { return i.Kind == kind })
}

// checklist lists the grant-submission documents for the scheme, the
// programme and the items present in the result, in submission order.
func (c *calc) checklist() acm.Checklist {
	in, p, cfg := c.in, c.p, c.scheme
	var keys []acm.GrantDoc
	add := func(cond bool, key acm.GrantDoc) {
		if cond {
			keys = append(keys, key)
		}
	}

	if p.Development {
		keys = append(keys, acm.GrantCourseSyllabus)
	} else {
		keys = append(keys, acm.GrantCourseContent)
		if cfg.TrainerRequirement == acm.TrainerAccredited {
			keys = append(keys, acm.GrantAccreditedTrainer)
		} else {
			keys = append(keys, acm.GrantTrainerProfile)
		}
	}

	if c.hasItem(acm.ItemCourseFee) || p.Development {
		if cfg.CostSharing == acm.SharingGroupSplit {
			keys = append(keys, acm.GrantCourseFeeInvoiceOnce)
		} else {
			keys = append(keys, acm.GrantCourseFeeInvoice)
		}
	}
	if p.Development {
		keys = append(keys, acm.GrantDevConfirmation)
		add(in.Scheme == acm.SchemeSBL, acm.GrantMQACertificate)
	}

	add(len(in.OtherEmployers) > 0 && cfg.OtherEmployers == acm.OtherEmployersAllowed, acm.GrantHostConfirmation)
	add(in.Scheme == acm.SchemeSBL && in.TrainerType != acm.TrainerInternal && !p.Development, acm.GrantVendorAgreement)
	add(cfg.OtherEmployers == acm.OtherEmployersRequired, acm.GrantJointTrainingLetter)
	add(p.Remote, acm.GrantROTAttendanceReport)
	add(p.Hotel && !p.ELearning && !p.AnyOverseas, acm.GrantCharteredQuotation)

	if p.InHouseFamily {
		if in.HasLicensedMaterials {
			keys = append(keys, acm.GrantSpecialApprovalLTM)
		} else {
			keys = append(keys, acm.GrantSpecialApproval)
		}
	}
	add(p.AsCharged && !p.Development, acm.GrantAcknowledgementLetter)

	add(c.hasItem(acm.ItemAirTicket), acm.GrantAirTicket)
	add(c.hasItem(acm.ItemCharteredTransport), acm.GrantCharteredReceipt)
	add(c.hasItem(acm.ItemConsumable), acm.GrantConsumable)
	add(c.hasItem(acm.ItemLicensedMaterials), acm.GrantLicensedMaterials)

	docs := lo.Map(keys, func(k acm.GrantDoc, _ int) acm.DocRequirement {
		return c.snap.Documents.GrantEntry(k)
	})
	return acm.Checklist{GrantSubmission: docs}
}
