package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tradewatch/src/models"
)

const sampleReport = `Filing ID #20019874

Clerk of the House of Representatives
Name: Hon. Nancy Pelosi
State/District: CA11

Transactions

Apple Inc. (AAPL) [ST]
P
06/13/2025 06/20/2025
$1,000,001 - $5,000,000
F S: New

Microsoft Corporation (MSFT) [ST]
S
05/02/2025 05/09/2025
$250,001 - $500,000
F S: New
`

func TestParseStandardReport(t *testing.T) {
	records := NewParser().Parse(sampleReport)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Nancy Pelosi", first.FilerName)
	assert.Equal(t, "CA11", first.StateDistrict)
	assert.Equal(t, models.OwnerUndetermined, first.Owner)
	assert.Equal(t, "Apple Inc. (AAPL) [ST]", first.Asset)
	assert.Equal(t, models.TxTypePurchase, first.TransactionType)
	assert.Equal(t, "06/13/2025", first.TransactionDate)
	assert.Equal(t, "06/20/2025", first.NotificationDate)
	assert.Equal(t, "$1000001 - $5000000", first.Amount, "commas removed from amount band")
	assert.True(t, first.HasParseableDates())

	second := records[1]
	assert.Equal(t, models.TxTypeSale, second.TransactionType)
	assert.Equal(t, "$250001 - $500000", second.Amount)

	// Every record carries the document's header metadata.
	for _, rec := range records {
		assert.Equal(t, "Nancy Pelosi", rec.FilerName)
		assert.Equal(t, "CA11", rec.StateDistrict)
	}
}

func TestParseMissingHeaderBecomesUnknown(t *testing.T) {
	text := `Some preamble without labels

Tesla Inc. [ST]
P
03/01/2025 03/04/2025
$1,001 - $15,000
F S: New
`
	records := NewParser().Parse(text)
	require.Len(t, records, 1)
	assert.Equal(t, models.UnknownField, records[0].FilerName)
	assert.Equal(t, models.UnknownField, records[0].StateDistrict)
	assert.NotEmpty(t, records[0].FilerName, "unknown is explicit, never an empty string")
}

func TestParseNoMarkersReturnsEmpty(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty document", text: ""},
		{name: "only whitespace", text: "\n\n   \n"},
		{name: "prose without trade markers", text: "Name: Hon. John Doe\nState/District: TX01\nNo transactions this period.\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Empty(t, NewParser().Parse(tc.text))
		})
	}
}

func TestParseTruncatedTrailingBlock(t *testing.T) {
	text := `Name: Hon. Nancy Pelosi
State/District: CA11

Apple Inc. (AAPL) [ST]
P
06/13/2025 06/20/2025
$1,000,001 - $5,000,000
F S: New

NVIDIA Corporation (NVDA) [ST]
P
`
	records := NewParser().Parse(text)

	// The incomplete trailing block is dropped; the earlier one survives.
	require.Len(t, records, 1)
	assert.Equal(t, "Apple Inc. (AAPL) [ST]", records[0].Asset)
}

func TestParseMarkerAsLastLine(t *testing.T) {
	text := "Name: Hon. Nancy Pelosi\nNVIDIA Corporation (NVDA) [ST]\n"
	assert.Empty(t, NewParser().Parse(text))
}

func TestParseRowPatternRecoversOwner(t *testing.T) {
	// The same trade appears as a tagged block and as a flat row; the row
	// pass must upgrade the block record's owner, not duplicate the trade.
	text := `Name: Hon. Jane Roe
State/District: NY03

Tesla Inc. [ST]
P
03/01/2025 03/04/2025
$1,001 - $15,000
F S: New

Spouse Tesla Inc. P 03/01/2025 03/04/2025 $1,001 - $15,000
`
	records := NewParser().Parse(text)
	require.Len(t, records, 1)
	assert.Equal(t, models.OwnerSpouse, records[0].Owner)
	assert.Equal(t, "Tesla Inc. [ST]", records[0].Asset)
}

func TestParseRowPatternAddsUnseenRows(t *testing.T) {
	text := `Name: Hon. Jane Roe
State/District: NY03

Self Microsoft Corp S 01/02/2025 01/05/2025 $15,001 - $50,000
`
	records := NewParser().Parse(text)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, models.OwnerSelf, rec.Owner)
	assert.Equal(t, "Microsoft Corp", rec.Asset)
	assert.Equal(t, models.TxTypeSale, rec.TransactionType)
	assert.Equal(t, "01/02/2025", rec.TransactionDate)
	assert.Equal(t, "01/05/2025", rec.NotificationDate)
	assert.Equal(t, "Jane Roe", rec.FilerName)
	assert.Equal(t, "NY03", rec.StateDistrict)
}

func TestParseMissingDateRetainedButFlagged(t *testing.T) {
	text := `Name: Hon. Jane Roe
State/District: NY03

Tesla Inc. [ST]
P
03/01/2025
$1,001 - $15,000
F S: New
`
	records := NewParser().Parse(text)
	require.Len(t, records, 1)
	assert.Equal(t, "03/01/2025", records[0].TransactionDate)
	assert.Empty(t, records[0].NotificationDate, "missing date is never fabricated")
	assert.False(t, records[0].HasParseableDates())
}

func TestHonorificOptional(t *testing.T) {
	text := "Name: Jane Roe\nState/District: NY03\n"
	records := NewParser().Parse(text)
	assert.Empty(t, records)

	lines := nonBlankLines(text)
	filerName, district := extractHeader(lines)
	assert.Equal(t, "Jane Roe", filerName)
	assert.Equal(t, "NY03", district)
}
