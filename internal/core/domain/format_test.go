package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// Rate tables store flat entries as bare numbers and structured entries as
// objects; the codec resolves the union so callers never type-sniff.
func TestRateValueCodec(t *testing.T) {
	var table map[string]RateValue
	raw := []byte(`{
        "London": 850,
        "Leeds": {"base_price": "400", "total_price": "360", "discount_pct": "10"}
    }`)
	require.NoError(t, json.Unmarshal(raw, &table))

	require.Equal(t, RateFlat, table["London"].Kind)
	require.Equal(t, "850", table["London"].Flat.String())

	require.Equal(t, RateStructured, table["Leeds"].Kind)
	require.Equal(t, "360", table["Leeds"].Structured.TotalPrice.String())
	require.Equal(t, "10", table["Leeds"].Structured.DiscountPct.String())

	out, err := json.Marshal(table)
	require.NoError(t, err)

	var back map[string]RateValue
	require.NoError(t, json.Unmarshal(out, &back))
	require.Equal(t, table["London"].Kind, back["London"].Kind)
	require.Equal(t, table["Leeds"].Kind, back["Leeds"].Kind)
}
