package store_test

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhardin/probata/internal/asset"
	"github.com/mwhardin/probata/internal/estate"
	"github.com/mwhardin/probata/internal/rules"
	"github.com/mwhardin/probata/internal/workflow"
	"github.com/mwhardin/probata/internal/workflow/store"
)

func testTable(t *testing.T) *rules.Table {
	t.Helper()

	table, err := rules.NewTable([]rules.Rule{{
		Jurisdiction:             "TX",
		SmallEstateThreshold:     7_500_000,
		InventoryDeadlineDays:    90,
		CreditorClaimPeriodDays:  120,
		FinalAccountDeadlineDays: 365,
	}})
	require.NoError(t, err)

	return table
}

func TestStore_SaveAndLoad(t *testing.T) {
	table := testTable(t)

	eng, err := workflow.New(estate.CreateParams{
		DecedentName:   "Eleanor Vance",
		DateOfDeath:    time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Jurisdiction:   estate.Jurisdiction{State: "TX"},
		Representative: estate.Representative{Name: "Marcus Vance"},
	}, table)
	require.NoError(t, err)

	_, err = eng.Assets().AddAsset(asset.CreateParams{
		Type:           asset.TypeCash,
		Description:    "Checking account",
		EstimatedValue: 250_000,
	})
	require.NoError(t, err)

	s := store.New(filepath.Join(t.TempDir(), "snapshots"))

	path, err := s.Save(eng)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "Eleanor_Vance_"))
	assert.True(t, strings.HasSuffix(path, ".json"))

	restored, err := s.Load(path, table)
	require.NoError(t, err)
	assert.Equal(t, eng.Estate().ID, restored.Estate().ID)
	assert.Equal(t, 1, restored.Assets().Len())

	files, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestStore_List_EmptyDir(t *testing.T) {
	s := store.New(filepath.Join(t.TempDir(), "nonexistent"))

	files, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, files)
}
