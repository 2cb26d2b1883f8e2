package rules_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhardin/probata/internal/fault"
	"github.com/mwhardin/probata/internal/rules"
)

func validRule(jurisdiction string) rules.Rule {
	return rules.Rule{
		Jurisdiction:              jurisdiction,
		SmallEstateThreshold:      7_500_000,
		InventoryDeadlineDays:     90,
		CreditorClaimPeriodDays:   120,
		FinalAccountDeadlineDays:  365,
		BondRequired:              true,
		IndependentAdministration: false,
	}
}

func TestNewTable(t *testing.T) {
	tests := []struct {
		name    string
		entries []rules.Rule
		wantErr bool
	}{
		{name: "Valid", entries: []rules.Rule{validRule("TX"), validRule("CA")}},
		{name: "Empty", entries: nil, wantErr: true},
		{
			name: "MissingJurisdiction",
			entries: []rules.Rule{func() rules.Rule {
				r := validRule("")
				return r
			}()},
			wantErr: true,
		},
		{
			name: "ZeroDeadline",
			entries: []rules.Rule{func() rules.Rule {
				r := validRule("TX")
				r.CreditorClaimPeriodDays = 0
				return r
			}()},
			wantErr: true,
		},
		{
			name: "NegativeThreshold",
			entries: []rules.Rule{func() rules.Rule {
				r := validRule("TX")
				r.SmallEstateThreshold = -1
				return r
			}()},
			wantErr: true,
		},
		{
			name:    "Duplicate",
			entries: []rules.Rule{validRule("TX"), validRule("tx ")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := rules.NewTable(tt.entries)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, fault.IsKind(err, fault.KindConfiguration))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, []string{"CA", "TX"}, table.Jurisdictions())
		})
	}
}

func TestTable_Lookup(t *testing.T) {
	table, err := rules.NewTable([]rules.Rule{validRule("TX")})
	require.NoError(t, err)

	// Lookup normalizes case and whitespace.
	r, err := table.Lookup(" tx ")
	require.NoError(t, err)
	assert.Equal(t, 90, r.InventoryDeadlineDays)

	_, err = table.Lookup("ZZ")
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindConfiguration))
}

func TestLoadYAML(t *testing.T) {
	doc := `
jurisdictions:
  - jurisdiction: TX
    small_estate_threshold_cents: 7500000
    inventory_deadline_days: 90
    creditor_claim_period_days: 120
    final_account_deadline_days: 365
    bond_required: false
    independent_administration: true
    procedures:
      - muniment_of_title
  - jurisdiction: CA
    small_estate_threshold_cents: 18445000
    inventory_deadline_days: 120
    creditor_claim_period_days: 120
    final_account_deadline_days: 365
    bond_required: true
`

	table, err := rules.LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)

	tx, err := table.Lookup("TX")
	require.NoError(t, err)
	assert.True(t, tx.IndependentAdministration)
	assert.Equal(t, []string{"muniment_of_title"}, tx.Procedures)

	ca, err := table.Lookup("CA")
	require.NoError(t, err)
	assert.True(t, ca.BondRequired)
	assert.Equal(t, int64(18_445_000), ca.SmallEstateThreshold)
}

func TestLoadYAML_UnknownField(t *testing.T) {
	doc := `
jurisdictions:
  - jurisdiction: TX
    small_estate_threshold_cents: 1
    inventory_deadline_days: 90
    creditor_claim_period_days: 120
    final_account_deadline_days: 365
    grace_days: 10
`

	_, err := rules.LoadYAML(strings.NewReader(doc))
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindConfiguration))
}

func TestLoadJSON(t *testing.T) {
	doc := `{
  "jurisdictions": [
    {
      "jurisdiction": "TX",
      "small_estate_threshold_cents": 7500000,
      "inventory_deadline_days": 90,
      "creditor_claim_period_days": 120,
      "final_account_deadline_days": 365
    }
  ]
}`

	table, err := rules.LoadJSON(strings.NewReader(doc))
	require.NoError(t, err)

	r, err := table.Lookup("TX")
	require.NoError(t, err)
	assert.Equal(t, 120, r.CreditorClaimPeriodDays)

	_, err = rules.LoadJSON(strings.NewReader(`{"jurisdictions": [`))
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindConfiguration))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "rules.yaml")
	doc := `
jurisdictions:
  - jurisdiction: TX
    small_estate_threshold_cents: 7500000
    inventory_deadline_days: 90
    creditor_claim_period_days: 120
    final_account_deadline_days: 365
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	table, err := rules.LoadFile(path)
	require.NoError(t, err)

	_, err = table.Lookup("TX")
	assert.NoError(t, err)

	_, err = rules.LoadFile(filepath.Join(dir, "rules.toml"))
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindConfiguration))

	_, err = rules.LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindConfiguration))
}
