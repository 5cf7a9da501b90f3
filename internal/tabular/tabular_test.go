package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindColumn(t *testing.T) {
	tbl := New("x", []string{" Jurisdiction ", "GroupID", "Financial Threshold(s)"})

	t.Run("exact case-insensitive", func(t *testing.T) {
		assert.Equal(t, "Jurisdiction", tbl.FindColumn("jurisdiction"))
		assert.Equal(t, "GroupID", tbl.FindColumn("groupid"))
	})

	t.Run("substring fallback", func(t *testing.T) {
		assert.Equal(t, "Financial Threshold(s)", tbl.FindColumn("Financial Threshold"))
	})

	t.Run("exact wins over substring", func(t *testing.T) {
		tbl := New("x", []string{"Country Name", "Country"})
		assert.Equal(t, "Country", tbl.FindColumn("Country"))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Equal(t, "", tbl.FindColumn("Region"))
	})
}

func TestRowGet(t *testing.T) {
	tbl := New("x", []string{"Jurisdiction", "Note"})
	tbl.Append([]string{"  Germany ", "nan"})
	tbl.Append([]string{"France"}) // short row

	rows := tbl.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Germany", rows[0].Get("Country", "Jurisdiction"))
	assert.Equal(t, "", rows[0].Get("Note"), "NaN placeholder cleans to empty")
	assert.Equal(t, "", rows[1].Get("Note"), "missing cell pads to empty")
	assert.Equal(t, "", rows[1].Get("NoSuchColumn"))
}

func TestSplitMulti(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"single item", []string{"single item"}},
		{"a | b; c", []string{"a", "b", "c"}},
		{"- first |  - second ", []string{"first", "second"}},
		{" ; | ", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitMulti(tt.in), "input %q", tt.in)
	}
}

func TestAsIntAsFloat(t *testing.T) {
	require.NotNil(t, AsInt("12"))
	assert.Equal(t, 12, *AsInt("12"))
	assert.Equal(t, 3, *AsInt("3.0"), "float spelling truncates")
	assert.Nil(t, AsInt(""))
	assert.Nil(t, AsInt("nan"))
	assert.Nil(t, AsInt("twelve"))

	require.NotNil(t, AsFloat("750000.5"))
	assert.Equal(t, 750000.5, *AsFloat("750000.5"))
	assert.Nil(t, AsFloat("N/A-ish"))
}

func TestYesNo(t *testing.T) {
	for _, v := range []string{"Yes", "y", "TRUE", "1"} {
		assert.True(t, IsYes(v), v)
	}
	for _, v := range []string{"No", "n", "N/A", "false", "0"} {
		assert.True(t, IsNo(v), v)
	}
	assert.False(t, IsYes(""))
	assert.False(t, IsNo(""))
}
