package compile

import (
	"fmt"
	"strings"
	"time"

	"github.com/tpdash/tprules/internal/dates"
	"github.com/tpdash/tprules/internal/domain"
)

// taxAnchorMarkers are the deadline-kind / event-anchor vocabularies that
// signal a deadline defined relative to the corporate tax filing date.
var taxAnchorMarkers = []string{
	"RETURN_DUE_DATE", "TAX_RETURN", "CIT_RETURN",
	"CORPORATE_TAX", "WITH_RETURN", "FILING_DATE", "TAX_FILING",
}

// resolveTaxAnchor enriches a deadline whose anchor is the jurisdiction's
// tax filing deadline: it resolves the filing date for the given
// fiscal-year-end, applies the deadline's own offsets, and fills in the
// calculated date plus consistent month/day. Records that are not
// tax-anchored, or whose anchor cannot be resolved, pass through unchanged.
func resolveTaxAnchor(d *domain.DeadlineTerms, cit []domain.TaxDeadline, fye time.Time) {
	if fye.IsZero() || len(cit) == 0 || !isTaxAnchored(d) {
		return
	}

	// Only the first filing-deadline record (in sorted group order) anchors;
	// taxpayer-type variants are not disambiguated here.
	citDate, ok := taxFilingDate(cit[0], fye)
	if !ok {
		return
	}

	om := intOrZero(d.OffsetMonths)
	od := intOrZero(d.OffsetDays)
	calc := dates.AddOffset(citDate, om, od)

	d.CalculatedDate = calc.Format("2006-01-02")
	month, day := int(calc.Month()), calc.Day()
	d.Month, d.Day = &month, &day
	d.MonthName = dates.MonthAbbr(month)

	if d.Text == "" {
		if om == 0 && od == 0 {
			d.Text = fmt.Sprintf("Due with tax return (%s)", calc.Format("January 02, 2006"))
		} else {
			d.Text = fmt.Sprintf("%dm %dd after tax return (%s)", om, od, calc.Format("January 02, 2006"))
		}
	}
}

func isTaxAnchored(d *domain.DeadlineTerms) bool {
	kind := strings.ToUpper(d.DeadlineKind)
	anchor := strings.ToUpper(d.EventAnchor)
	for _, marker := range taxAnchorMarkers {
		if kind == marker || strings.Contains(anchor, marker) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(d.Text), "tax return")
}

// taxFilingDate resolves the absolute filing date for one tax-deadline
// record. Fixed dates fall in the calendar year after the fiscal-year-end;
// FYE-relative ones apply the record's offsets to the fiscal-year-end
// itself.
func taxFilingDate(cit domain.TaxDeadline, fye time.Time) (time.Time, bool) {
	switch strings.ToUpper(cit.DeadlineKind) {
	case "FIXED_DATE":
		if cit.Month == nil || cit.Day == nil {
			return time.Time{}, false
		}
		dt := time.Date(fye.Year()+1, time.Month(*cit.Month), *cit.Day, 0, 0, 0, 0, fye.Location())
		if int(dt.Month()) != *cit.Month || dt.Day() != *cit.Day {
			return time.Time{}, false // not a real calendar date (e.g. Feb 30)
		}
		return dt, true
	case "FYE_RELATIVE":
		return dates.AddOffset(fye, intOrZero(cit.OffsetMonths), intOrZero(cit.OffsetDays)), true
	}
	return time.Time{}, false
}
