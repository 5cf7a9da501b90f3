package compile

import (
	"strings"
	"time"

	"github.com/tpdash/tprules/internal/classify"
	"github.com/tpdash/tprules/internal/dates"
	"github.com/tpdash/tprules/internal/domain"
	"github.com/tpdash/tprules/internal/tabular"
)

// packThreshold normalizes one threshold row. A blank RequirementApplies
// counts as applicable.
func packThreshold(r tabular.Row) domain.Threshold {
	applies := r.Get("RequirementApplies")
	return domain.Threshold{
		GroupID:            r.Get("GroupID", "Group ID"),
		Seq:                intOrZero(tabular.AsInt(r.Get("Seq"))),
		RequirementApplies: applies,
		Op:                 r.Get("ThresholdOperator"),
		Amount:             tabular.AsFloat(r.Get("ThresholdAmount")),
		Currency:           r.Get("ThresholdCurrency"),
		Metric:             r.Get("ThresholdMetric"),
		MetricBasis:        r.Get("MetricBasisText"),
		Note:               r.Get("DisplayNote"),
		IsApplicable:       !tabular.IsNo(applies),
	}
}

// packTerms normalizes the deadline-bearing fields shared by deadlines,
// forms and notifications, and decorates them: a blank obligation class is
// classified from the display text (falling back to the category default),
// and a missing month is extracted from the text when a pattern matches.
func packTerms(r tabular.Row, defaultClass classify.Class, fye time.Time) domain.DeadlineTerms {
	text := r.Get("DisplayText", "Display Text")
	month := boundedMonth(tabular.AsInt(r.Get("Month")))
	if month == nil {
		if m, ok := dates.MonthFromText(text, fye); ok {
			month = &m
		}
	}
	return domain.DeadlineTerms{
		RequirementType: obligationClass(r.Get("RequirementType"), text, defaultClass),
		DeadlineKind:    r.Get("DeadlineKind", "Deadline Kind"),
		Month:           month,
		Day:             tabular.AsInt(r.Get("Day")),
		MonthName:       monthName(month),
		EventAnchor:     r.Get("EventAnchor"),
		OffsetDays:      tabular.AsInt(r.Get("OffsetDays", "Offset Days")),
		OffsetMonths:    tabular.AsInt(r.Get("OffsetMonths", "Offset Months")),
		Text:            text,
	}
}

func packDeadline(r tabular.Row, defaultClass classify.Class, fye time.Time) domain.Deadline {
	return domain.Deadline{
		GroupID:       r.Get("GroupID", "Group ID"),
		Seq:           intOrZero(tabular.AsInt(r.Get("Seq"))),
		DeadlineTerms: packTerms(r, defaultClass, fye),
	}
}

func packForm(r tabular.Row, fye time.Time) domain.Form {
	return domain.Form{
		Deadline:         packDeadline(r, classify.Hard, fye),
		Name:             r.Get("FormName", "Form Name"),
		IncludedInReturn: r.Get("IncludedInReturn"),
	}
}

// packNotification normalizes one CbCR row. Notifications folded into the
// tax return default to HARD, standalone ones to SOFT.
func packNotification(r tabular.Row, fye time.Time) domain.Notification {
	inCIT := r.Get("IncludedInCITReturn", "Inclusion in CIT Return", "Included in CIT")
	def := classify.Soft
	if tabular.IsYes(inCIT) {
		def = classify.Hard
	}
	return domain.Notification{
		Required:      r.Get("Required"),
		IncludedInCIT: inCIT,
		Annual:        r.Get("AnnualNotification", "Annual Submission Required", "Annual"),
		SingleFilerOK: r.Get("SingleFilerAllowed", "Single Filing Allowed", "Single filer allowed"),
		DeadlineTerms: packTerms(r, def, fye),
	}
}

// packTaxDeadline normalizes one corporate-tax filing-deadline row. The
// sheet spells several headers inconsistently and uses a literal N/A in the
// offset and condition columns.
func packTaxDeadline(r tabular.Row) domain.TaxDeadline {
	month := boundedMonth(tabular.AsInt(r.Get("Month")))
	return domain.TaxDeadline{
		GroupID:         r.Get("GroupID", "Group ID"),
		Seq:             intOrZero(tabular.AsInt(r.Get("Seq"))),
		TaxpayerType:    r.Get("TaxpayerType", "Taxpayer Type"),
		ConditionMetric: dropNA(r.Get("ConditionMetric", "Condition Metric")),
		ConditionOp:     dropNA(r.Get("ConditionOperator", "Condition Operator")),
		ConditionValue:  tabular.AsFloat(r.Get("ConditionValue", "Condition Value")),
		DeadlineKind:    r.Get("DeadlineKind", "Deadline Kind"),
		Month:           month,
		Day:             tabular.AsInt(r.Get("Day")),
		MonthName:       monthName(month),
		OffsetMonths:    tabular.AsInt(r.Get("OffsetMonths", "Offset Months")),
		OffsetDays:      tabular.AsInt(r.Get("OffsetDays", "Offset Days")),
		Text:            r.Get("DisplayText", "Display Text"),
	}
}

// obligationClass keeps explicit HARD/SOFT sheet values, classifies blank
// ones from the display text, and passes anything else (e.g. a literal N/A)
// through untouched.
func obligationClass(raw, text string, def classify.Class) string {
	switch strings.ToUpper(raw) {
	case string(classify.Hard):
		return string(classify.Hard)
	case string(classify.Soft):
		return string(classify.Soft)
	case "":
		return string(classify.Classify(text).Or(def))
	default:
		return raw
	}
}

// boundedMonth enforces the 1-12 invariant: out-of-range sheet values make
// the record undated instead of carrying a bogus month.
func boundedMonth(m *int) *int {
	if m == nil || *m < 1 || *m > 12 {
		return nil
	}
	return m
}

func monthName(m *int) string {
	if m == nil {
		return ""
	}
	return dates.MonthAbbr(*m)
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func dropNA(s string) string {
	if strings.EqualFold(s, "n/a") {
		return ""
	}
	return s
}
