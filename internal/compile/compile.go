// Package compile turns per-category rule tables into one normalized,
// deterministically ordered document per compilation run. Ingestion happens
// in two passes: every category is read into the shared country registry
// first, then deadlines anchored to the tax filing date are resolved, since
// that needs each country's tax deadlines fully populated.
package compile

import (
	"fmt"
	"sort"
	"time"

	"github.com/tpdash/tprules/internal/classify"
	"github.com/tpdash/tprules/internal/dates"
	"github.com/tpdash/tprules/internal/domain"
	"github.com/tpdash/tprules/internal/registry"
	"github.com/tpdash/tprules/internal/tabular"
)

// Input carries the parsed category tables. All tables except TaxDeadlines
// are required.
type Input struct {
	Source        string
	Countries     *tabular.Table
	LFThresholds  *tabular.Table
	LFDeadlines   *tabular.Table
	MFThresholds  *tabular.Table
	MFDeadlines   *tabular.Table
	Forms         *tabular.Table
	Notifications *tabular.Table
	TaxDeadlines  *tabular.Table // optional; nil degrades anchored resolution to a no-op
}

// Options configures one compilation run.
type Options struct {
	// FYE is the fiscal-year-end (YYYY-MM-DD) used for relative and
	// tax-anchored deadline resolution. Empty disables both.
	FYE   string
	Debug bool
}

// Diagnostics collects per-row problems absorbed during a run. They never
// affect the compiled output.
type Diagnostics struct {
	Unmatched     []string // jurisdiction tokens no pass could resolve
	MissingRegion []string // countries created without a region mapping
	Warnings      []string
}

// Doc types stamped on rows whose DocTypeNormalized cell is blank.
const (
	docTypeLF   = "LF"
	docTypeMF   = "MF"
	docTypeForm = "Fm"
)

// Compile runs the whole pipeline over one input set and returns the
// compiled document. Compiling the same input with the same FYE twice yields
// identical output except for the generation timestamp.
func Compile(in Input, opts Options) (*domain.Document, *Diagnostics, error) {
	for _, req := range []struct {
		name string
		t    *tabular.Table
	}{
		{"country/region mapping", in.Countries},
		{"local-file thresholds", in.LFThresholds},
		{"local-file deadlines", in.LFDeadlines},
		{"master-file thresholds", in.MFThresholds},
		{"master-file deadlines", in.MFDeadlines},
		{"forms/disclosures", in.Forms},
		{"notifications", in.Notifications},
	} {
		if req.t == nil {
			return nil, nil, fmt.Errorf("missing required table: %s", req.name)
		}
	}

	var fye time.Time
	if opts.FYE != "" {
		parsed, err := dates.ParseFYE(opts.FYE)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid fye %q: %w", opts.FYE, err)
		}
		fye = parsed
	}

	lookup, err := registry.BuildLookup(in.Countries)
	if err != nil {
		return nil, nil, err
	}

	c := &compiler{reg: registry.New(lookup), fye: fye, diags: &Diagnostics{}}

	// Pass 1: ingest every category into the registry.
	c.addThresholds(in.LFThresholds, docTypeLF, func(cn *domain.Country) *[]domain.Threshold { return &cn.LFThresholds })
	c.addDeadlines(in.LFDeadlines, docTypeLF, func(cn *domain.Country) *[]domain.Deadline { return &cn.LFDeadlines })
	c.addThresholds(in.MFThresholds, docTypeMF, func(cn *domain.Country) *[]domain.Threshold { return &cn.MFThresholds })
	c.addDeadlines(in.MFDeadlines, docTypeMF, func(cn *domain.Country) *[]domain.Deadline { return &cn.MFDeadlines })
	c.addForms(in.Forms)
	c.addNotifications(in.Notifications)
	c.addTaxDeadlines(in.TaxDeadlines)

	countries := c.reg.Countries()
	for _, cn := range countries {
		sortGroup(cn.LFThresholds, func(t domain.Threshold) (string, int) { return t.GroupID, t.Seq })
		sortGroup(cn.LFDeadlines, func(d domain.Deadline) (string, int) { return d.GroupID, d.Seq })
		sortGroup(cn.MFThresholds, func(t domain.Threshold) (string, int) { return t.GroupID, t.Seq })
		sortGroup(cn.MFDeadlines, func(d domain.Deadline) (string, int) { return d.GroupID, d.Seq })
		sortGroup(cn.TPForms, func(f domain.Form) (string, int) { return f.GroupID, f.Seq })
		sortGroup(cn.CITDeadlines, func(d domain.TaxDeadline) (string, int) { return d.GroupID, d.Seq })
	}

	// Pass 2: resolve tax-anchored deadlines. Runs after sorting so the
	// anchor record ("first" tax deadline) is deterministic.
	if !fye.IsZero() {
		for _, cn := range countries {
			if len(cn.CITDeadlines) == 0 {
				continue
			}
			for i := range cn.LFDeadlines {
				resolveTaxAnchor(&cn.LFDeadlines[i].DeadlineTerms, cn.CITDeadlines, fye)
			}
			for i := range cn.MFDeadlines {
				resolveTaxAnchor(&cn.MFDeadlines[i].DeadlineTerms, cn.CITDeadlines, fye)
			}
			for i := range cn.TPForms {
				resolveTaxAnchor(&cn.TPForms[i].DeadlineTerms, cn.CITDeadlines, fye)
			}
			if cn.CbCR != nil {
				resolveTaxAnchor(&cn.CbCR.DeadlineTerms, cn.CITDeadlines, fye)
			}
		}
	}

	c.diags.Unmatched = c.reg.Unmatched()
	c.diags.MissingRegion = c.reg.MissingRegion()

	doc := &domain.Document{
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
		ExcelSource: in.Source,
		FYE:         opts.FYE,
		Countries:   countries,
	}
	return doc, c.diags, nil
}

type compiler struct {
	reg   *registry.Registry
	fye   time.Time
	diags *Diagnostics
}

func (c *compiler) warnf(format string, args ...any) {
	c.diags.Warnings = append(c.diags.Warnings, fmt.Sprintf(format, args...))
}

func (c *compiler) addThresholds(t *tabular.Table, defaultDocType string, group func(*domain.Country) *[]domain.Threshold) {
	for _, r := range t.Rows() {
		cn := c.reg.Ensure(r.Get("Jurisdiction", "Country"))
		if cn == nil {
			continue
		}
		row := packThreshold(r)
		row.DocType = docTypeOr(r, defaultDocType)
		if !c.validThreshold(row, cn.Name) {
			continue
		}
		*group(cn) = append(*group(cn), row)
	}
}

// validThreshold flags applicable rows that carry an operator but no amount.
// Such half-populated rows are dropped rather than emitted.
func (c *compiler) validThreshold(row domain.Threshold, country string) bool {
	if tabular.IsYes(row.RequirementApplies) && row.Op != "" && row.Amount == nil {
		c.warnf("%s: threshold operator without amount in group %q", country, row.GroupID)
		return false
	}
	return true
}

func (c *compiler) addDeadlines(t *tabular.Table, defaultDocType string, group func(*domain.Country) *[]domain.Deadline) {
	for _, r := range t.Rows() {
		cn := c.reg.Ensure(r.Get("Jurisdiction", "Country"))
		if cn == nil {
			continue
		}
		row := packDeadline(r, classify.Hard, c.fye)
		row.DocType = docTypeOr(r, defaultDocType)
		*group(cn) = append(*group(cn), row)
	}
}

func (c *compiler) addForms(t *tabular.Table) {
	for _, r := range t.Rows() {
		cn := c.reg.Ensure(r.Get("Jurisdiction", "Country"))
		if cn == nil {
			continue
		}
		row := packForm(r, c.fye)
		row.DocType = docTypeOr(r, docTypeForm)
		cn.TPForms = append(cn.TPForms, row)
	}
}

// addNotifications keeps at most one CbCR record per country (the last row
// wins) and suppresses it entirely when the notification is neither required
// nor included in the tax return.
func (c *compiler) addNotifications(t *tabular.Table) {
	for _, r := range t.Rows() {
		cn := c.reg.Ensure(r.Get("Jurisdiction", "Country"))
		if cn == nil {
			continue
		}
		row := packNotification(r, c.fye)
		if !tabular.IsYes(row.Required) && !tabular.IsYes(row.IncludedInCIT) {
			continue
		}
		cn.CbCR = &row
	}
}

// addTaxDeadlines attaches corporate-tax deadlines to countries already
// referenced by other categories. Tax rows never create countries.
func (c *compiler) addTaxDeadlines(t *tabular.Table) {
	if t.Empty() {
		return
	}
	for _, r := range t.Rows() {
		token := r.Get("Jurisdiction (3-letter code)", "Jurisdiction", "Country")
		if token == "" {
			continue
		}
		cn := c.reg.Find(token)
		if cn == nil {
			c.warnf("tax deadline row for unknown jurisdiction %q", token)
			continue
		}
		cn.CITDeadlines = append(cn.CITDeadlines, packTaxDeadline(r))
	}
}

func docTypeOr(r tabular.Row, def string) string {
	if dt := r.Get("DocTypeNormalized", "DocType"); dt != "" {
		return dt
	}
	return def
}

// sortGroup orders records by group id, ties broken by sequence number, so
// output ordering never depends on source row order.
func sortGroup[T any](items []T, key func(T) (string, int)) {
	sort.SliceStable(items, func(i, j int) bool {
		gi, si := key(items[i])
		gj, sj := key(items[j])
		if gi != gj {
			return gi < gj
		}
		return si < sj
	})
}
