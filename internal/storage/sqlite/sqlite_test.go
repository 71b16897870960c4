package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/splitproof/splitproof/internal/engine"
	"github.com/splitproof/splitproof/internal/models"
	"github.com/splitproof/splitproof/internal/money"
	"github.com/splitproof/splitproof/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestRun(t *testing.T, ownerID string) *models.Run {
	t.Helper()

	receipt, err := models.NewReceipt(
		[]models.ReceiptLine{{
			ID: "l1", Description: "Pizza",
			Quantity:  decimal.NewFromInt(1),
			UnitPrice: money.New(2000, "USD"),
			LineTotal: money.New(2000, "USD"),
		}},
		[]models.ChargeLine{{
			ID: "tax", Kind: models.ChargeTax,
			Value: money.New(200, "USD"), Basis: models.BasisFlat,
		}},
		money.New(2200, "USD"),
	)
	require.NoError(t, err)

	alloc := &models.Allocation{
		Participants: []models.Participant{
			{ID: "alice", DisplayName: "Alice"},
			{ID: "bob", DisplayName: "Bob"},
		},
		LineShares: map[string][]models.Share{
			"l1": models.EqualShares([]string{"alice", "bob"}),
		},
	}

	result, err := engine.Settle(receipt, alloc)
	require.NoError(t, err)

	return &models.Run{
		OwnerID:    ownerID,
		Receipt:    receipt,
		Allocation: alloc,
		Settlement: result.Settlement,
		Trace:      result.Trace,
		Verdict:    result.Validation,
		Warnings:   result.Warnings,
	}
}

func TestUserCRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	require.NoError(t, store.CreateUser(ctx, user))

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)
	require.Equal(t, "Alice", byEmail.DisplayName)

	byID, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, byID.Email)

	_, err = store.GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, storage.ErrNotFound)

	// Duplicate email is rejected by the unique constraint.
	dup := models.NewUser("alice@example.com", "Imposter", "hash2")
	require.Error(t, store.CreateUser(ctx, dup))
}

func TestRunRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := models.NewUser("owner@example.com", "Owner", "hash")
	require.NoError(t, store.CreateUser(ctx, owner))

	run := newTestRun(t, owner.ID)
	require.NoError(t, store.CreateRun(ctx, run))
	require.NotEmpty(t, run.ID)
	require.NotZero(t, run.CreatedAt)

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, owner.ID, got.OwnerID)
	require.Equal(t, run.Receipt.GrandTotal, got.Receipt.GrandTotal)
	require.Len(t, got.Settlement.Entries, 2)
	require.Equal(t, run.Settlement.Total(), got.Settlement.Total())
	require.Equal(t, run.Trace, got.Trace)
	require.True(t, got.Verdict.Valid)
}

func TestListRunsByOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := models.NewUser("owner@example.com", "Owner", "hash")
	other := models.NewUser("other@example.com", "Other", "hash")
	require.NoError(t, store.CreateUser(ctx, owner))
	require.NoError(t, store.CreateUser(ctx, other))

	first := newTestRun(t, owner.ID)
	first.CreatedAt = 100
	second := newTestRun(t, owner.ID)
	second.CreatedAt = 200
	foreign := newTestRun(t, other.ID)

	require.NoError(t, store.CreateRun(ctx, first))
	require.NoError(t, store.CreateRun(ctx, second))
	require.NoError(t, store.CreateRun(ctx, foreign))

	summaries, err := store.ListRunsByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, second.ID, summaries[0].ID, "newest run first")
	require.Equal(t, int64(2200), summaries[0].GrandTotal.Amount())
	require.Equal(t, 2, summaries[0].ParticipantCount)
	require.True(t, summaries[0].Valid)
}

func TestDeleteRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := models.NewUser("owner@example.com", "Owner", "hash")
	require.NoError(t, store.CreateUser(ctx, owner))

	run := newTestRun(t, owner.ID)
	require.NoError(t, store.CreateRun(ctx, run))

	require.NoError(t, store.DeleteRun(ctx, run.ID))

	_, err := store.GetRun(ctx, run.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.ErrorIs(t, store.DeleteRun(ctx, run.ID), storage.ErrNotFound)
}
