package ingest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))
	path := filepath.Join(t.TempDir(), "rules.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func allSheets() map[string][][]interface{} {
	sheets := map[string][][]interface{}{
		SheetCountries: {
			{"Country", "Code_3", "Region"},
			{"Germany", "DEU", "EMEA"},
		},
		SheetLFThresholds: {
			{"Jurisdiction", "GroupID", "Seq", "ThresholdAmount"},
			{"Germany", "G1", 1, 6000000},
		},
	}
	for _, name := range []string{SheetLFDeadlines, SheetMFThresholds, SheetMFDeadlines, SheetForms, SheetCbCR} {
		sheets[name] = [][]interface{}{{"Jurisdiction", "GroupID", "Seq", "DisplayText"}}
	}
	return sheets
}

func TestLoad(t *testing.T) {
	path := writeWorkbook(t, allSheets())

	in, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, in.Source)
	require.NotNil(t, in.Countries)
	assert.Equal(t, 1, in.Countries.Len())
	require.NotNil(t, in.LFThresholds)
	assert.Equal(t, 1, in.LFThresholds.Len())
	rows := in.LFThresholds.Rows()
	assert.Equal(t, "Germany", rows[0].Get("Jurisdiction"))
	assert.Equal(t, "6000000", rows[0].Get("ThresholdAmount"))
	assert.Nil(t, in.TaxDeadlines, "CIT sheet is optional")
}

func TestLoadWithCITSheet(t *testing.T) {
	sheets := allSheets()
	sheets[SheetCIT] = [][]interface{}{
		{"Jurisdiction (3-letter code)", "GroupID", "Seq", "DeadlineKind", "Month", "Day"},
		{"DEU", "C1", 1, "FIXED_DATE", 3, 31},
	}
	path := writeWorkbook(t, sheets)

	in, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, in.TaxDeadlines)
	assert.Equal(t, 1, in.TaxDeadlines.Len())
	assert.Equal(t, "DEU", in.TaxDeadlines.Rows()[0].Get("Jurisdiction (3-letter code)"))
}

func TestLoadMissingRequiredSheet(t *testing.T) {
	sheets := allSheets()
	delete(sheets, SheetCbCR)
	path := writeWorkbook(t, sheets)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), SheetCbCR)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
}
