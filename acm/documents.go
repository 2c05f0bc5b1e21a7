/*
documents.go - Document requirements and edition stamp

PURPOSE:
  The document table holds the wording of every supporting document the
  engine can ask for: the per-item claim document, the entries of the
  grant-submission checklist, and the per-scheme summary lists. The edition
  stamp names the ACM guide and table editions the configuration encodes.

SEE ALSO:
  - eligibility/checklist.go: Assembles the checklist from these entries
  - baseline/documents.json: Built-in wording
*/
package acm

import (
	"fmt"
	"time"
)

// ClaimDoc keys the supporting document required per cost item at claim stage.
type ClaimDoc string

const (
	ClaimCourseFeeHCC   ClaimDoc = "course_fee_hcc"
	ClaimCourseFeeOther ClaimDoc = "course_fee_other"
	ClaimAirTicket      ClaimDoc = "air_ticket"
	ClaimTransport      ClaimDoc = "transport"
	ClaimConsumable     ClaimDoc = "consumable"
	ClaimLicensed       ClaimDoc = "licensed_materials"
	ClaimNone           ClaimDoc = "none"
)

// ClaimDocs lists every claim key a document table must define.
var ClaimDocs = []ClaimDoc{
	ClaimCourseFeeHCC, ClaimCourseFeeOther, ClaimAirTicket, ClaimTransport,
	ClaimConsumable, ClaimLicensed, ClaimNone,
}

// GrantDoc keys one entry of the grant-submission checklist.
type GrantDoc string

const (
	GrantCourseContent         GrantDoc = "course_content"
	GrantCourseSyllabus        GrantDoc = "course_syllabus"
	GrantTrainerProfile        GrantDoc = "trainer_profile"
	GrantAccreditedTrainer     GrantDoc = "trainer_profile_accredited"
	GrantCourseFeeInvoice      GrantDoc = "course_fee_invoice"
	GrantCourseFeeInvoiceOnce  GrantDoc = "course_fee_invoice_single"
	GrantDevConfirmation       GrantDoc = "development_confirmation"
	GrantMQACertificate        GrantDoc = "mqa_certificate"
	GrantHostConfirmation      GrantDoc = "host_confirmation_letter"
	GrantVendorAgreement       GrantDoc = "vendor_agreement"
	GrantJointTrainingLetter   GrantDoc = "joint_training_letter"
	GrantROTAttendanceReport   GrantDoc = "rot_attendance_report"
	GrantCharteredQuotation    GrantDoc = "chartered_quotation"
	GrantSpecialApproval       GrantDoc = "special_approval"
	GrantSpecialApprovalLTM    GrantDoc = "special_approval_ltm"
	GrantAcknowledgementLetter GrantDoc = "acknowledgement_letter"
	GrantAirTicket             GrantDoc = "air_ticket"
	GrantCharteredReceipt      GrantDoc = "chartered_receipt"
	GrantConsumable            GrantDoc = "consumable"
	GrantLicensedMaterials     GrantDoc = "licensed_materials"
)

// GrantDocs lists every checklist key a document table must define.
var GrantDocs = []GrantDoc{
	GrantCourseContent, GrantCourseSyllabus, GrantTrainerProfile, GrantAccreditedTrainer,
	GrantCourseFeeInvoice, GrantCourseFeeInvoiceOnce, GrantDevConfirmation, GrantMQACertificate,
	GrantHostConfirmation, GrantVendorAgreement, GrantJointTrainingLetter, GrantROTAttendanceReport,
	GrantCharteredQuotation, GrantSpecialApproval, GrantSpecialApprovalLTM, GrantAcknowledgementLetter,
	GrantAirTicket, GrantCharteredReceipt, GrantConsumable, GrantLicensedMaterials,
}

// DocumentTable is one edition of document wording.
type DocumentTable struct {
	Claim   map[ClaimDoc]string         `json:"claim_docs" yaml:"claim_docs"`
	Grant   map[GrantDoc]DocRequirement `json:"grant_checklist" yaml:"grant_checklist"`
	Schemes map[Scheme][]string         `json:"grant_docs" yaml:"grant_docs"`
}

// ClaimText returns the claim document wording, or the key itself when the
// table has no entry.
func (d *DocumentTable) ClaimText(key ClaimDoc) string {
	if text, ok := d.Claim[key]; ok {
		return text
	}
	return string(key)
}

// GrantEntry returns a checklist entry; unknown keys render as their name.
func (d *DocumentTable) GrantEntry(key GrantDoc) DocRequirement {
	if entry, ok := d.Grant[key]; ok {
		return entry
	}
	return DocRequirement{Text: string(key)}
}

// Edition is the human-readable version stamp of the configuration.
type Edition struct {
	GuideEdition    string     `json:"acm_guide_edition" yaml:"acm_guide_edition"`
	TableEdition    string     `json:"acm_table_edition" yaml:"acm_table_edition"`
	LastReviewed    string     `json:"last_reviewed,omitempty" yaml:"last_reviewed,omitempty"`
	GuideUploadedAt *time.Time `json:"guide_uploaded_at,omitempty" yaml:"guide_uploaded_at,omitempty"`
	TableUploadedAt *time.Time `json:"table_uploaded_at,omitempty" yaml:"table_uploaded_at,omitempty"`
}

// Label renders the stamp shown next to every result.
func (e Edition) Label() string {
	return fmt.Sprintf("ACM Table %s / ACM Guide %s", e.TableEdition, e.GuideEdition)
}
