package inventory_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/mwhardin/probata/internal/asset"
	"github.com/mwhardin/probata/internal/importer/inventory"
)

func TestParser_Worksheet(t *testing.T) {
	csv := `Estate of Margaret Holt,Prepared 2024-02-01
Attorney,Dunn & Associates

Description,Type,Location,Estimated Value,Notes
Primary residence,Real Property,"Travis County, TX","$300,000.00",homestead
2019 Ford F-150,Vehicle,garage,"$28,500.00",
Checking account,Cash,First National,"$12,340.18",
Total,,,"$340,840.18",
`

	p := inventory.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 3)

	assert.Equal(t, asset.TypeRealProperty, params[0].Type)
	assert.Equal(t, "Primary residence", params[0].Description)
	assert.Equal(t, "Travis County, TX", params[0].Location)
	assert.Equal(t, int64(30_000_000), params[0].EstimatedValue)

	assert.Equal(t, asset.TypeVehicle, params[1].Type)
	assert.Equal(t, int64(2_850_000), params[1].EstimatedValue)

	assert.Equal(t, asset.TypeCash, params[2].Type)
	assert.Equal(t, int64(1_234_018), params[2].EstimatedValue)
}

func TestParser_Appraisal(t *testing.T) {
	csv := `Item,Category,Appraised Value
Lakeside cabin,real estate,"185,000.00"
Coin collection,collectibles,"4,250.00"
`

	p := inventory.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, asset.TypeRealProperty, params[0].Type)
	assert.Equal(t, int64(18_500_000), params[0].EstimatedValue)

	// Unrecognized category falls back to personal property.
	assert.Equal(t, asset.TypePersonalProperty, params[1].Type)
	assert.Equal(t, int64(425_000), params[1].EstimatedValue)
}

func TestParser_ScheduleInfersTypeFromDescription(t *testing.T) {
	csv := `Asset Description,Value
Savings account at Wells Fargo,"9,000.00"
Brokerage account,"55,000.00"
Wedding ring,"1,200.00"
`

	p := inventory.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 3)

	assert.Equal(t, asset.TypeCash, params[0].Type)
	assert.Equal(t, asset.TypeInvestment, params[1].Type)
	assert.Equal(t, asset.TypePersonalProperty, params[2].Type)
}

func TestParser_EuropeanAmounts(t *testing.T) {
	csv := `Asset Description,Value
Apartment in Lisbon,"250.000,00"
`

	p := inventory.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, int64(25_000_000), params[0].EstimatedValue)
}

func TestParser_SkipsBlankAndValuelessRows(t *testing.T) {
	csv := `Description,Type,Location,Estimated Value,Notes

Household furnishings,Personal Property,,"3,500.00",
See attached appraisal,Personal Property,,,
`

	p := inventory.NewParser()
	params, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "Household furnishings", params[0].Description)
}

func TestParser_MissingDescription(t *testing.T) {
	csv := `Asset Description,Value
,"1,000.00"
`

	p := inventory.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "missing description")
}

func TestParser_UnknownLayout(t *testing.T) {
	csv := `Foo,Bar
a,b
`

	p := inventory.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no matching inventory layout")
}

func TestParser_Windows1252Encoding(t *testing.T) {
	csv := "Item,Category,Appraised Value\nCafé sideboard,furniture,\"2,400.00\"\n"

	enc := charmap.Windows1252.NewEncoder()
	raw, err := enc.Bytes([]byte(csv))
	require.NoError(t, err)

	p := inventory.NewParser()
	params, err := p.Parse(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, params, 1)

	assert.Equal(t, "Café sideboard", params[0].Description)
	assert.Equal(t, int64(240_000), params[0].EstimatedValue)
}
