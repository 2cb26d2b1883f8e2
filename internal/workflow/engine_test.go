package workflow_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhardin/probata/internal/asset"
	"github.com/mwhardin/probata/internal/creditor"
	"github.com/mwhardin/probata/internal/deadline"
	"github.com/mwhardin/probata/internal/distribution"
	"github.com/mwhardin/probata/internal/estate"
	"github.com/mwhardin/probata/internal/fault"
	"github.com/mwhardin/probata/internal/rules"
	"github.com/mwhardin/probata/internal/workflow"
)

func testTable(t *testing.T) *rules.Table {
	t.Helper()

	table, err := rules.NewTable([]rules.Rule{{
		Jurisdiction:              "TX",
		SmallEstateThreshold:      7_500_000,
		InventoryDeadlineDays:     90,
		CreditorClaimPeriodDays:   120,
		FinalAccountDeadlineDays:  365,
		BondRequired:              false,
		IndependentAdministration: true,
	}})
	require.NoError(t, err)

	return table
}

func testParams() estate.CreateParams {
	return estate.CreateParams{
		DecedentName:        "Eleanor Vance",
		DateOfDeath:         time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Jurisdiction:        estate.Jurisdiction{State: "TX", County: "Travis"},
		Representative:      estate.Representative{Name: "Marcus Vance"},
		EstimatedGrossValue: 45_000_000,
	}
}

func TestNew_UnknownJurisdiction(t *testing.T) {
	p := testParams()
	p.Jurisdiction.State = "ZZ"

	_, err := workflow.New(p, testTable(t))
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindConfiguration))
}

func TestEngine_Advance_OnlySuccessor(t *testing.T) {
	eng, err := workflow.New(testParams(), testTable(t))
	require.NoError(t, err)

	// Skipping ahead is reported as a failed check, not an error.
	tr, err := eng.Advance(estate.StatusInventoryFiled)
	require.NoError(t, err)
	assert.False(t, tr.OK)
	require.Len(t, tr.Failed, 1)
	assert.Equal(t, "not_next_status", tr.Failed[0].Code)

	// Moving backward is impossible for the same reason.
	tr, err = eng.Advance(estate.StatusIntake)
	require.NoError(t, err)
	assert.False(t, tr.OK)

	// Unknown statuses are caller errors.
	_, err = eng.Advance(estate.Status("probated"))
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindValidation))

	assert.Equal(t, estate.StatusIntake, eng.Estate().Status)
}

func TestEngine_Advance_PetitionRequiresRepresentative(t *testing.T) {
	p := testParams()
	p.Representative = estate.Representative{}

	eng, err := workflow.New(p, testTable(t))
	require.NoError(t, err)

	tr, err := eng.Advance(estate.StatusPetitionFiled)
	require.NoError(t, err)
	assert.False(t, tr.OK)
	require.Len(t, tr.Failed, 1)
	assert.Equal(t, "representative_missing", tr.Failed[0].Code)
}

func TestEngine_Advance_InventoryRequiresAssets(t *testing.T) {
	eng, err := workflow.New(testParams(), testTable(t))
	require.NoError(t, err)

	advance(t, eng, estate.StatusPetitionFiled)
	advance(t, eng, estate.StatusLettersIssued)

	tr, err := eng.Advance(estate.StatusInventoryFiled)
	require.NoError(t, err)
	assert.False(t, tr.OK)
	assert.Equal(t, "inventory_empty", tr.Failed[0].Code)

	_, err = eng.Assets().AddAsset(asset.CreateParams{
		Type:           asset.TypeRealProperty,
		Description:    "Family residence",
		EstimatedValue: 30_000_000,
	})
	require.NoError(t, err)

	advance(t, eng, estate.StatusInventoryFiled)
	assert.True(t, eng.Deadlines().Completed(deadline.TypeInventoryFiling))
}

func TestEngine_FullLifecycle(t *testing.T) {
	eng, err := workflow.New(testParams(), testTable(t))
	require.NoError(t, err)

	advance(t, eng, estate.StatusPetitionFiled)
	advance(t, eng, estate.StatusLettersIssued)

	_, err = eng.Assets().AddAsset(asset.CreateParams{
		Type:           asset.TypeCash,
		Description:    "Brokerage account",
		EstimatedValue: 50_000_000,
	})
	require.NoError(t, err)

	advance(t, eng, estate.StatusInventoryFiled)
	advance(t, eng, estate.StatusCreditorPeriodOpen)

	claim, err := eng.Claims().AddCreditor(creditor.CreateParams{
		Type:          creditor.TypeFuneral,
		Name:          "Oakwood Funeral Home",
		AmountClaimed: 900_000,
		Priority:      1,
	})
	require.NoError(t, err)

	// The claim period cannot close with an unadjudicated claim.
	tr, err := eng.Advance(estate.StatusCreditorPeriodClosed)
	require.NoError(t, err)
	assert.False(t, tr.OK)
	assert.Equal(t, "claims_pending", tr.Failed[0].Code)

	require.NoError(t, eng.Claims().ProcessClaim(claim.ID, 900_000))
	advance(t, eng, estate.StatusCreditorPeriodClosed)

	// Distributions cannot be approved without beneficiaries.
	tr, err = eng.Advance(estate.StatusDistributionsApproved)
	require.NoError(t, err)
	assert.False(t, tr.OK)
	assert.Equal(t, "no_beneficiaries", tr.Failed[0].Code)

	ben, err := eng.Distributions().AddBeneficiary(distribution.CreateParams{
		Name:  "Marcus Vance",
		Share: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	// Still not approvable: no fresh calculation yet.
	tr, err = eng.Advance(estate.StatusDistributionsApproved)
	require.NoError(t, err)
	assert.False(t, tr.OK)
	assert.Equal(t, "calculation_stale", tr.Failed[0].Code)

	res, err := eng.Distributions().Calculate()
	require.NoError(t, err)
	assert.Equal(t, int64(49_100_000), res.NetDistributable)
	require.NoError(t, eng.Distributions().Approve())

	advance(t, eng, estate.StatusDistributionsApproved)

	// The final account needs every allowed claim paid.
	tr, err = eng.Advance(estate.StatusFinalAccountFiled)
	require.NoError(t, err)
	assert.False(t, tr.OK)
	assert.Equal(t, "claims_unpaid", tr.Failed[0].Code)

	require.NoError(t, eng.Claims().MarkPaid(claim.ID))
	advance(t, eng, estate.StatusFinalAccountFiled)

	// Closing needs every distribution paid out.
	tr, err = eng.Advance(estate.StatusClosed)
	require.NoError(t, err)
	assert.False(t, tr.OK)
	assert.Equal(t, "distributions_outstanding", tr.Failed[0].Code)

	require.NoError(t, eng.Distributions().RecordPayment(ben.ID))
	advance(t, eng, estate.StatusClosed)

	// Terminal: nothing past closed.
	tr, err = eng.Advance(estate.StatusClosed)
	require.NoError(t, err)
	assert.False(t, tr.OK)
	assert.Equal(t, "terminal_status", tr.Failed[0].Code)

	// Every milestone was recorded on the way through.
	for _, s := range []estate.Status{
		estate.StatusPetitionFiled,
		estate.StatusLettersIssued,
		estate.StatusInventoryFiled,
		estate.StatusCreditorPeriodOpen,
		estate.StatusCreditorPeriodClosed,
		estate.StatusDistributionsApproved,
		estate.StatusFinalAccountFiled,
		estate.StatusClosed,
	} {
		assert.Contains(t, eng.Estate().Milestones, s)
	}
}

func TestEngine_Summary(t *testing.T) {
	eng, err := workflow.New(testParams(), testTable(t))
	require.NoError(t, err)

	_, err = eng.Assets().AddAsset(asset.CreateParams{
		Type:           asset.TypeCash,
		Description:    "Checking account",
		EstimatedValue: 2_000_000,
	})
	require.NoError(t, err)

	s := eng.Summary(30)
	assert.Equal(t, "Eleanor Vance", s.DecedentName)
	assert.Equal(t, "Travis, TX", s.Jurisdiction)
	assert.Equal(t, estate.StatusIntake, s.Status)
	assert.Equal(t, int64(2_000_000), s.Assets.NetValue)
	assert.True(t, s.SmallEstateEligible, "2,000,000 is under the 7,500,000 threshold")
	assert.True(t, s.IndependentAdministration)
	assert.False(t, s.BondRequired)
	assert.False(t, s.Distributions.Calculated)
	assert.Empty(t, s.Overdue, "fresh estates have no overdue deadlines")
}

func advance(t *testing.T, eng *workflow.Engine, target estate.Status) {
	t.Helper()

	tr, err := eng.Advance(target)
	require.NoError(t, err)
	require.True(t, tr.OK, "advance to %s failed: %+v", target, tr.Failed)
	require.Equal(t, target, eng.Estate().Status)
}
