package domain

// Threshold is one normalized financial-threshold row for a documentation
// category. IsApplicable is derived from the yes/no RequirementApplies field;
// a blank field counts as applicable.
type Threshold struct {
	GroupID            string   `json:"group_id"`
	Seq                int      `json:"seq"`
	RequirementApplies string   `json:"requirement_applies"`
	Op                 string   `json:"op"`
	Amount             *float64 `json:"amount"`
	Currency           string   `json:"currency"`
	Metric             string   `json:"metric"`
	MetricBasis        string   `json:"metric_basis"`
	Note               string   `json:"note"`
	IsApplicable       bool     `json:"is_applicable"`
	DocType            string   `json:"doc_type,omitempty"`
}

// DeadlineTerms is the deadline-bearing portion shared by deadlines, forms
// and notifications. Month is always 1-12 or nil. CalculatedDate is filled
// only by the tax-anchored resolution pass.
type DeadlineTerms struct {
	RequirementType string `json:"requirement_type"`
	DeadlineKind    string `json:"deadline_kind"`
	Month           *int   `json:"month"`
	Day             *int   `json:"day"`
	MonthName       string `json:"month_name"`
	EventAnchor     string `json:"event_anchor"`
	OffsetDays      *int   `json:"offset_days"`
	OffsetMonths    *int   `json:"offset_months"`
	Text            string `json:"text"`
	CalculatedDate  string `json:"calculated_date,omitempty"`
}

// Deadline is one normalized deadline row.
type Deadline struct {
	GroupID string `json:"group_id"`
	Seq     int    `json:"seq"`
	DeadlineTerms
	DocType string `json:"doc_type,omitempty"`
}

// Form is a deadline attached to a named TP form or disclosure.
type Form struct {
	Deadline
	Name             string `json:"name"`
	IncludedInReturn string `json:"included_in_return"`
}

// Notification is the per-country CbCR notification obligation. A country
// carries at most one; it stays nil entirely when the notification is neither
// required nor included in the tax return.
type Notification struct {
	Required      string `json:"required"`
	IncludedInCIT string `json:"included_in_cit"`
	Annual        string `json:"annual"`
	SingleFilerOK string `json:"single_filer_ok"`
	DeadlineTerms
}

// TaxDeadline is one corporate-income-tax filing deadline row. These records
// double as the anchor for deadlines expressed relative to the tax return.
type TaxDeadline struct {
	GroupID         string   `json:"group_id"`
	Seq             int      `json:"seq"`
	TaxpayerType    string   `json:"taxpayer_type"`
	ConditionMetric string   `json:"condition_metric"`
	ConditionOp     string   `json:"condition_op"`
	ConditionValue  *float64 `json:"condition_value"`
	DeadlineKind    string   `json:"deadline_kind"`
	Month           *int     `json:"month"`
	Day             *int     `json:"day"`
	MonthName       string   `json:"month_name"`
	OffsetMonths    *int     `json:"offset_months"`
	OffsetDays      *int     `json:"offset_days"`
	Text            string   `json:"text"`
}

// Country holds every compiled record for one jurisdiction. Identity is the
// canonical country name; lookups use its lowercased form.
type Country struct {
	Name         string        `json:"name"`
	ISO2         string        `json:"iso2,omitempty"`
	Region       string        `json:"region"`
	LFThresholds []Threshold   `json:"lf_tpd_thresholds"`
	LFDeadlines  []Deadline    `json:"lf_tpd_deadlines"`
	MFThresholds []Threshold   `json:"mf_thresholds"`
	MFDeadlines  []Deadline    `json:"mf_deadlines"`
	TPForms      []Form        `json:"tp_forms"`
	CbCR         *Notification `json:"cbcr"`
	CITDeadlines []TaxDeadline `json:"cit_deadlines"`
}

// NewCountry returns a Country with empty (non-nil) record groups so the
// compiled JSON always carries arrays, never null.
func NewCountry(name, iso2, region string) *Country {
	return &Country{
		Name:         name,
		ISO2:         iso2,
		Region:       region,
		LFThresholds: []Threshold{},
		LFDeadlines:  []Deadline{},
		MFThresholds: []Threshold{},
		MFDeadlines:  []Deadline{},
		TPForms:      []Form{},
		CITDeadlines: []TaxDeadline{},
	}
}

// Document is the compiled output for one run.
type Document struct {
	GeneratedAt string     `json:"generated_at"`
	ExcelSource string     `json:"excel_source"`
	FYE         string     `json:"fye"`
	Countries   []*Country `json:"countries"`
}
