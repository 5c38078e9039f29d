//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kitty/internal/database"
	"github.com/MrJamesThe3rd/kitty/internal/database/databasetest"
	"github.com/MrJamesThe3rd/kitty/internal/membership"
	"github.com/MrJamesThe3rd/kitty/internal/membership/store"
)

func TestStore_TransferThenLeave(t *testing.T) {
	db := databasetest.New(t)
	ctx := context.Background()

	u1, m2 := uuid.New(), uuid.New()

	ledgerID := databasetest.InsertID(t, db, `INSERT INTO ledgers (name, owner_id) VALUES ('Flat', $1) RETURNING id`, u1)
	databasetest.Exec(t, db, `INSERT INTO ledger_members (ledger_id, user_id, role) VALUES ($1, $2, 'owner')`, ledgerID, u1)
	m2ID := databasetest.InsertID(t, db,
		`INSERT INTO ledger_members (ledger_id, user_id, role) VALUES ($1, $2, 'editor') RETURNING id`, ledgerID, m2)

	svc := membership.NewService(store.New(db))

	owner, err := svc.Transfer(ctx, ledgerID, u1, m2ID)
	require.NoError(t, err)
	assert.Equal(t, m2, owner.UserID)

	members, err := svc.List(ctx, ledgerID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, m2, members[0].UserID)
	assert.Equal(t, membership.RoleOwner, members[0].Role)

	var ownerID uuid.UUID
	require.NoError(t, db.QueryRow(`SELECT owner_id FROM ledgers WHERE id = $1`, ledgerID).Scan(&ownerID))
	assert.Equal(t, m2, ownerID)

	_, err = svc.RoleOf(ctx, ledgerID, u1)
	assert.ErrorIs(t, err, membership.ErrMemberNotFound)
}

func TestStore_SoleOwnerCannotBeDemoted(t *testing.T) {
	db := databasetest.New(t)
	ctx := context.Background()

	u1 := uuid.New()
	ledgerID := databasetest.InsertID(t, db, `INSERT INTO ledgers (name, owner_id) VALUES ('Solo', $1) RETURNING id`, u1)
	ownerID := databasetest.InsertID(t, db,
		`INSERT INTO ledger_members (ledger_id, user_id, role) VALUES ($1, $2, 'owner') RETURNING id`, ledgerID, u1)

	svc := membership.NewService(store.New(db))

	_, err := svc.ChangeRole(ctx, ledgerID, ownerID, membership.RoleViewer)
	require.ErrorIs(t, err, membership.ErrSoleOwner)

	role, err := svc.RoleOf(ctx, ledgerID, u1)
	require.NoError(t, err)
	assert.Equal(t, membership.RoleOwner, role)
}

func TestStore_ConcurrentPromotionsKeepOneOwner(t *testing.T) {
	db := databasetest.New(t)
	ctx := context.Background()

	u1 := uuid.New()
	ledgerID := databasetest.InsertID(t, db, `INSERT INTO ledgers (name, owner_id) VALUES ('Shared', $1) RETURNING id`, u1)
	databasetest.Exec(t, db, `INSERT INTO ledger_members (ledger_id, user_id, role) VALUES ($1, $2, 'owner')`, ledgerID, u1)

	var ids []int64
	for range 6 {
		ids = append(ids, databasetest.InsertID(t, db,
			`INSERT INTO ledger_members (ledger_id, user_id, role) VALUES ($1, $2, 'editor') RETURNING id`,
			ledgerID, uuid.New()))
	}

	svc := membership.NewService(store.New(db))

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.ChangeRole(ctx, ledgerID, id, membership.RoleOwner)
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	var owners int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM ledger_members WHERE ledger_id = $1 AND role = 'owner'`, ledgerID).Scan(&owners))
	assert.Equal(t, 1, owners)

	var pointerMatches bool
	require.NoError(t, db.QueryRow(`
		SELECT l.owner_id = m.user_id
		FROM ledgers l JOIN ledger_members m ON m.ledger_id = l.id AND m.role = 'owner'
		WHERE l.id = $1`, ledgerID).Scan(&pointerMatches))
	assert.True(t, pointerMatches)
}

func TestStore_SecondOwnerRejectedByIndex(t *testing.T) {
	db := databasetest.New(t)

	u1 := uuid.New()
	ledgerID := databasetest.InsertID(t, db, `INSERT INTO ledgers (name, owner_id) VALUES ('Guarded', $1) RETURNING id`, u1)
	databasetest.Exec(t, db, `INSERT INTO ledger_members (ledger_id, user_id, role) VALUES ($1, $2, 'owner')`, ledgerID, u1)

	_, err := db.Exec(`INSERT INTO ledger_members (ledger_id, user_id, role) VALUES ($1, $2, 'owner')`, ledgerID, uuid.New())
	assert.True(t, database.IsUniqueViolation(err, "ledger_members_single_owner"))
}

func TestStore_AddAndRemove(t *testing.T) {
	db := databasetest.New(t)
	ctx := context.Background()

	u1, u2 := uuid.New(), uuid.New()
	ledgerID := databasetest.InsertID(t, db, `INSERT INTO ledgers (name, owner_id) VALUES ('Trip', $1) RETURNING id`, u1)
	databasetest.Exec(t, db, `INSERT INTO ledger_members (ledger_id, user_id, role) VALUES ($1, $2, 'owner')`, ledgerID, u1)

	svc := membership.NewService(store.New(db))

	added, err := svc.Add(ctx, ledgerID, u2, membership.RoleViewer)
	require.NoError(t, err)
	assert.NotZero(t, added.ID)

	_, err = svc.Add(ctx, ledgerID, u2, membership.RoleEditor)
	require.ErrorIs(t, err, membership.ErrAlreadyMember)

	require.NoError(t, svc.Remove(ctx, ledgerID, added.ID))

	_, err = svc.Add(ctx, 9999, u2, membership.RoleViewer)
	require.ErrorIs(t, err, membership.ErrLedgerNotFound)
}
