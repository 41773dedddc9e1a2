package pdfdoc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRendersPDF(t *testing.T) {
	doc := New(Portrait, DefaultLetterhead(""))
	doc.BillTo([]string{"Date: 13/08/2025", "Contract #: CON1467/25"})
	doc.Title("Sales Tax Invoice")
	columns := doc.SpreadColumns([]Column{{Header: "Description", Width: 3}, {Header: "Amount", Width: 1, Align: "R"}})
	doc.Table(columns, [][]string{{"Unskilled Labors", "467,998.96"}, {"Service Fee", "139,840"}})
	doc.LabelRow(columns, "TOTAL AMOUNT (PKR)", "727,875", true)

	out, err := doc.Bytes()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestSpreadColumnsFillsWidth(t *testing.T) {
	doc := New(Landscape, DefaultLetterhead("ACME"))
	columns := doc.SpreadColumns([]Column{{Width: 1}, {Width: 1}})
	assert.InDelta(t, doc.ContentWidth(), columns[0].Width+columns[1].Width, 1e-9)
}

func TestTruncateLongCells(t *testing.T) {
	doc := New(Portrait, DefaultLetterhead(""))
	long := "CUTTING WILD GRASS AND WEED REMOVAL AT KARAK BLOCK LOCATIONS FOR 3 YEARS"
	short := truncate(doc.PDF(), long, 30)
	assert.Less(t, len(short), len(long))
	assert.Contains(t, short, "...")
}
