package document

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInputFixture(t *testing.T) BuildInput {
	t.Helper()

	items := quoteItems()
	totals, err := ComputeTotals(items, CalcFlags{DocumentTax: true})
	require.NoError(t, err)

	return BuildInput{
		Identity: Identity{
			Folio:     "COT-2025-100",
			Kind:      KindQuote,
			IssuedAt:  time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
			ExpiresAt: time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC),
		},
		Status:       "SENT",
		StatusLabel:  "Sent",
		CustomerName: "Ferreteria El Clavo",
		Reference:    "CCTV installation, 3 cameras",
		Currency:     "MXN",
		Items:        items,
		Totals:       totals,
		AdvancePaid:  dec("5000"),
	}
}

func TestBuild_InternalDocument(t *testing.T) {
	doc := Build(buildInputFixture(t))

	assert.Equal(t, "COT-2025-100", doc.Identity.Folio)
	assert.Len(t, doc.Lines, 2)
	assert.True(t, doc.Lines[0].UnitCost.Equal(dec("3800")))
	assert.True(t, doc.Totals.Profit.Equal(dec("4950")))
	assert.True(t, doc.BalanceDue.Equal(dec("16170")), "balance = %s", doc.BalanceDue)
}

func TestBuildPublic_SameNumbersAsInternal(t *testing.T) {
	in := buildInputFixture(t)
	internal := Build(in)
	public := BuildPublic(in)

	assert.Equal(t, internal.Identity.Folio, public.Folio)
	assert.True(t, internal.Totals.GrandTotal.Equal(public.GrandTotal))
	assert.True(t, internal.BalanceDue.Equal(public.BalanceDue))
	require.Len(t, public.Lines, len(internal.Lines))
	for i := range public.Lines {
		assert.True(t, internal.Lines[i].LineTotal.Equal(public.Lines[i].LineTotal))
	}
}

// The public projection must not contain cost, profit, or margin in
// any serialized form, regardless of field values.
func TestBuildPublic_NeverSerializesInternalFields(t *testing.T) {
	public := BuildPublic(buildInputFixture(t))

	raw, err := json.Marshal(public)
	require.NoError(t, err)

	payload := string(raw)
	assert.NotContains(t, payload, "unit_cost")
	assert.NotContains(t, payload, "profit")
	assert.NotContains(t, payload, "margin")
}

func TestResolveDates_Defaults(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	issued, expires := ResolveDates(now, nil, nil, QuoteValidityDays)
	assert.Equal(t, now, issued)
	assert.Equal(t, now.AddDate(0, 0, 30), expires)

	issued, expires = ResolveDates(now, nil, nil, PreviewValidityDays)
	assert.Equal(t, now, issued)
	assert.Equal(t, now.AddDate(0, 0, 15), expires)
}

func TestResolveDates_ExplicitValuesWin(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	issuedAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	expiresAt := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

	issued, expires := ResolveDates(now, &issuedAt, &expiresAt, QuoteValidityDays)
	assert.Equal(t, issuedAt, issued)
	assert.Equal(t, expiresAt, expires)

	// Explicit issue date moves the default expiry window with it.
	issued, expires = ResolveDates(now, &issuedAt, nil, QuoteValidityDays)
	assert.Equal(t, issuedAt, issued)
	assert.Equal(t, issuedAt.AddDate(0, 0, 30), expires)
}
