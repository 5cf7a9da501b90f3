// Package ingest reads the rules workbook into generic tables. It knows the
// workbook's sheet layout; everything downstream works on tabular data and
// never touches the file format.
package ingest

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tpdash/tprules/internal/compile"
	"github.com/tpdash/tprules/internal/tabular"
)

// Sheet names in the rules workbook (tabs 0..7).
const (
	SheetCountries    = "0. Iso Codes"
	SheetLFThresholds = "1.LFR Threshold"
	SheetLFDeadlines  = "2. LFR Deadlines"
	SheetMFThresholds = "3. MF_Thresholds"
	SheetMFDeadlines  = "4. MF_Deadlines"
	SheetForms        = "5. TPForms_deadlines"
	SheetCbCR         = "6. CBCR Notifications"
	SheetCIT          = "7. CIT Deadlines"
)

// Load opens a workbook and reads its category sheets. Sheets 0-6 are
// required; the CIT sheet is optional and its absence leaves the table nil.
func Load(path string) (compile.Input, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return compile.Input{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	present := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		present[name] = true
	}

	required := func(name string) (*tabular.Table, error) {
		if !present[name] {
			return nil, fmt.Errorf("missing required sheet: %s", name)
		}
		return readSheet(f, name)
	}

	in := compile.Input{Source: path}
	load := []struct {
		name string
		dst  **tabular.Table
	}{
		{SheetCountries, &in.Countries},
		{SheetLFThresholds, &in.LFThresholds},
		{SheetLFDeadlines, &in.LFDeadlines},
		{SheetMFThresholds, &in.MFThresholds},
		{SheetMFDeadlines, &in.MFDeadlines},
		{SheetForms, &in.Forms},
		{SheetCbCR, &in.Notifications},
	}
	for _, l := range load {
		t, err := required(l.name)
		if err != nil {
			return compile.Input{}, err
		}
		*l.dst = t
	}

	if present[SheetCIT] {
		t, err := readSheet(f, SheetCIT)
		if err != nil {
			return compile.Input{}, err
		}
		in.TaxDeadlines = t
	}

	return in, nil
}

// readSheet converts one sheet into a table. The first row is the header;
// header cells are whitespace-trimmed by the table itself.
func readSheet(f *excelize.File, name string) (*tabular.Table, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	if len(rows) == 0 {
		return tabular.New(name, nil), nil
	}
	t := tabular.New(name, rows[0])
	for _, cells := range rows[1:] {
		t.Append(cells)
	}
	return t, nil
}
