package membership_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/kitty/internal/database"
	"github.com/MrJamesThe3rd/kitty/internal/membership"
)

const ledgerID = int64(3)

var (
	ownerUser  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	editorUser = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	viewerUser = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	newUser    = uuid.MustParse("44444444-4444-4444-4444-444444444444")
)

// household is U1 owner (id 1), M2 editor (id 2), M3 viewer (id 3).
func household() []*membership.Member {
	return []*membership.Member{
		{ID: 1, LedgerID: ledgerID, UserID: ownerUser, Role: membership.RoleOwner},
		{ID: 2, LedgerID: ledgerID, UserID: editorUser, Role: membership.RoleEditor},
		{ID: 3, LedgerID: ledgerID, UserID: viewerUser, Role: membership.RoleViewer},
	}
}

// open expects the begin, locked read and rollback every transition performs.
func open(m *membership.MockRepository, tx *membership.MockTx, members []*membership.Member) {
	m.EXPECT().Begin(gomock.Any(), ledgerID).Return(tx, nil)
	tx.EXPECT().Members(gomock.Any(), ledgerID).Return(members, nil)
	tx.EXPECT().Rollback().Return(nil)
}

func TestService_ChangeRole(t *testing.T) {
	type testCase struct {
		name      string
		memberID  int64
		role      membership.Role
		members   []*membership.Member
		setupMock func(tx *membership.MockTx)
		wantRole  membership.Role
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "DemoteSoleOwner",
			memberID: 1,
			role:     membership.RoleViewer,
			members: []*membership.Member{
				{ID: 1, LedgerID: ledgerID, UserID: ownerUser, Role: membership.RoleOwner},
			},
			wantErr: membership.ErrSoleOwner,
		},
		{
			name:     "PromoteSwapsOwner",
			memberID: 2,
			role:     membership.RoleOwner,
			members:  household(),
			setupMock: func(tx *membership.MockTx) {
				gomock.InOrder(
					tx.EXPECT().DemoteOwners(gomock.Any(), ledgerID, int64(2)).Return(nil),
					tx.EXPECT().SetLedgerOwner(gomock.Any(), ledgerID, editorUser).Return(nil),
					tx.EXPECT().SetRole(gomock.Any(), int64(2), membership.RoleOwner).Return(nil),
					tx.EXPECT().Commit().Return(nil),
				)
			},
			wantRole: membership.RoleOwner,
		},
		{
			name:     "DemoteOwnerWithLegacyCoOwner",
			memberID: 1,
			role:     membership.RoleEditor,
			members: []*membership.Member{
				{ID: 1, LedgerID: ledgerID, UserID: ownerUser, Role: membership.RoleOwner},
				{ID: 2, LedgerID: ledgerID, UserID: editorUser, Role: membership.RoleOwner},
			},
			setupMock: func(tx *membership.MockTx) {
				tx.EXPECT().SetRole(gomock.Any(), int64(1), membership.RoleEditor).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			},
			wantRole: membership.RoleEditor,
		},
		{
			name:     "EditorToViewer",
			memberID: 2,
			role:     membership.RoleViewer,
			members:  household(),
			setupMock: func(tx *membership.MockTx) {
				tx.EXPECT().SetRole(gomock.Any(), int64(2), membership.RoleViewer).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			},
			wantRole: membership.RoleViewer,
		},
		{
			name:     "SameRoleIsNoop",
			memberID: 3,
			role:     membership.RoleViewer,
			members:  household(),
			setupMock: func(tx *membership.MockTx) {
				tx.EXPECT().Commit().Return(nil)
			},
			wantRole: membership.RoleViewer,
		},
		{
			name:     "UnknownMember",
			memberID: 99,
			role:     membership.RoleEditor,
			members:  household(),
			wantErr:  membership.ErrMemberNotFound,
		},
		{
			name:     "StoreFailureAborts",
			memberID: 2,
			role:     membership.RoleOwner,
			members:  household(),
			setupMock: func(tx *membership.MockTx) {
				tx.EXPECT().DemoteOwners(gomock.Any(), ledgerID, int64(2)).Return(errors.New("connection reset"))
			},
			wantErr: database.ErrTxAborted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := membership.NewMockRepository(ctrl)
			tx := membership.NewMockTx(ctrl)

			open(repo, tx, tt.members)

			if tt.setupMock != nil {
				tt.setupMock(tx)
			}

			svc := membership.NewService(repo)
			got, err := svc.ChangeRole(context.Background(), ledgerID, tt.memberID, tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, got.Role)
		})
	}
}

func TestService_ChangeRole_InvalidRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := membership.NewService(membership.NewMockRepository(ctrl))

	_, err := svc.ChangeRole(context.Background(), ledgerID, 2, membership.Role("admin"))
	assert.ErrorIs(t, err, membership.ErrInvalidRole)
}

func TestService_Add(t *testing.T) {
	type testCase struct {
		name      string
		userID    uuid.UUID
		role      membership.Role
		setupMock func(tx *membership.MockTx)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "AddEditor",
			userID: newUser,
			role:   membership.RoleEditor,
			setupMock: func(tx *membership.MockTx) {
				tx.EXPECT().InsertMember(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, m *membership.Member) error {
						m.ID = 10
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name:   "AddOwnerDemotesCurrentOwner",
			userID: newUser,
			role:   membership.RoleOwner,
			setupMock: func(tx *membership.MockTx) {
				gomock.InOrder(
					tx.EXPECT().DemoteOwners(gomock.Any(), ledgerID, int64(0)).Return(nil),
					tx.EXPECT().SetLedgerOwner(gomock.Any(), ledgerID, newUser).Return(nil),
					tx.EXPECT().InsertMember(gomock.Any(), gomock.Any()).Return(nil),
					tx.EXPECT().Commit().Return(nil),
				)
			},
		},
		{
			name:    "AlreadyMember",
			userID:  viewerUser,
			role:    membership.RoleEditor,
			wantErr: membership.ErrAlreadyMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := membership.NewMockRepository(ctrl)
			tx := membership.NewMockTx(ctrl)

			open(repo, tx, household())

			if tt.setupMock != nil {
				tt.setupMock(tx)
			}

			svc := membership.NewService(repo)
			got, err := svc.Add(context.Background(), ledgerID, tt.userID, tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.userID, got.UserID)
			assert.Equal(t, tt.role, got.Role)
		})
	}
}

func TestService_Remove(t *testing.T) {
	type testCase struct {
		name      string
		memberID  int64
		setupMock func(tx *membership.MockTx)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "RemoveViewer",
			memberID: 3,
			setupMock: func(tx *membership.MockTx) {
				tx.EXPECT().DeleteMember(gomock.Any(), int64(3)).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name:     "OwnerCannotBeRemoved",
			memberID: 1,
			wantErr:  membership.ErrOwnerRemoval,
		},
		{
			name:     "UnknownMember",
			memberID: 42,
			wantErr:  membership.ErrMemberNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := membership.NewMockRepository(ctrl)
			tx := membership.NewMockTx(ctrl)

			open(repo, tx, household())

			if tt.setupMock != nil {
				tt.setupMock(tx)
			}

			err := membership.NewService(repo).Remove(context.Background(), ledgerID, tt.memberID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_Transfer(t *testing.T) {
	type testCase struct {
		name      string
		caller    uuid.UUID
		targetID  int64
		setupMock func(tx *membership.MockTx)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "TransferThenLeave",
			caller:   ownerUser,
			targetID: 2,
			setupMock: func(tx *membership.MockTx) {
				gomock.InOrder(
					tx.EXPECT().SetLedgerOwner(gomock.Any(), ledgerID, editorUser).Return(nil),
					tx.EXPECT().DemoteOwners(gomock.Any(), ledgerID, int64(2)).Return(nil),
					tx.EXPECT().SetRole(gomock.Any(), int64(2), membership.RoleOwner).Return(nil),
					tx.EXPECT().DeleteMember(gomock.Any(), int64(1)).Return(nil),
					tx.EXPECT().Commit().Return(nil),
				)
			},
		},
		{
			name:     "CallerNotOwner",
			caller:   editorUser,
			targetID: 3,
			wantErr:  membership.ErrNotOwner,
		},
		{
			name:     "CallerNotMember",
			caller:   newUser,
			targetID: 3,
			wantErr:  membership.ErrNotOwner,
		},
		{
			name:     "TargetMissing",
			caller:   ownerUser,
			targetID: 77,
			wantErr:  membership.ErrTargetNotFound,
		},
		{
			name:     "Self",
			caller:   ownerUser,
			targetID: 1,
			wantErr:  membership.ErrSelfTransfer,
		},
		{
			name:     "FailedLeaveRollsBackEverything",
			caller:   ownerUser,
			targetID: 2,
			setupMock: func(tx *membership.MockTx) {
				tx.EXPECT().SetLedgerOwner(gomock.Any(), ledgerID, editorUser).Return(nil)
				tx.EXPECT().DemoteOwners(gomock.Any(), ledgerID, int64(2)).Return(nil)
				tx.EXPECT().SetRole(gomock.Any(), int64(2), membership.RoleOwner).Return(nil)
				tx.EXPECT().DeleteMember(gomock.Any(), int64(1)).Return(errors.New("disk full"))
			},
			wantErr: database.ErrTxAborted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := membership.NewMockRepository(ctrl)
			tx := membership.NewMockTx(ctrl)

			open(repo, tx, household())

			if tt.setupMock != nil {
				tt.setupMock(tx)
			}

			got, err := membership.NewService(repo).Transfer(context.Background(), ledgerID, tt.caller, tt.targetID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, editorUser, got.UserID)
			assert.Equal(t, membership.RoleOwner, got.Role)
		})
	}
}

func TestService_Leave(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := membership.NewMockRepository(ctrl)
	tx := membership.NewMockTx(ctrl)
	svc := membership.NewService(repo)

	open(repo, tx, household())
	tx.EXPECT().DeleteMember(gomock.Any(), int64(2)).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	require.NoError(t, svc.Leave(context.Background(), ledgerID, editorUser))

	open(repo, tx, household())
	assert.ErrorIs(t, svc.Leave(context.Background(), ledgerID, ownerUser), membership.ErrOwnerRemoval)

	open(repo, tx, household())
	assert.ErrorIs(t, svc.Leave(context.Background(), ledgerID, newUser), membership.ErrMemberNotFound)
}

func TestService_LedgerMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := membership.NewMockRepository(ctrl)
	repo.EXPECT().Begin(gomock.Any(), ledgerID).Return(nil, membership.ErrLedgerNotFound)

	_, err := membership.NewService(repo).Add(context.Background(), ledgerID, newUser, membership.RoleViewer)
	assert.ErrorIs(t, err, membership.ErrLedgerNotFound)
	assert.NotErrorIs(t, err, database.ErrTxAborted)
}

func TestService_RoleOf(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := membership.NewMockRepository(ctrl)
	repo.EXPECT().FindMemberByUser(gomock.Any(), ledgerID, editorUser).
		Return(&membership.Member{ID: 2, Role: membership.RoleEditor}, nil)

	role, err := membership.NewService(repo).RoleOf(context.Background(), ledgerID, editorUser)
	require.NoError(t, err)
	assert.Equal(t, membership.RoleEditor, role)
}

func TestRole(t *testing.T) {
	_, err := membership.ParseRole("admin")
	assert.ErrorIs(t, err, membership.ErrInvalidRole)

	r, err := membership.ParseRole("editor")
	require.NoError(t, err)
	assert.True(t, r.CanEdit())
	assert.True(t, r.Satisfies(membership.RoleViewer))
	assert.False(t, r.Satisfies(membership.RoleOwner))
	assert.False(t, membership.RoleViewer.CanEdit())
	assert.True(t, membership.RoleOwner.Satisfies(membership.RoleEditor))
}
