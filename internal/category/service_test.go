package category_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/kitty/internal/category"
)

func TestService_Create(t *testing.T) {
	userID := uuid.New()

	type testCase struct {
		name      string
		inName    string
		inType    category.Type
		setupMock func(m *category.MockRepository)
		wantName  string
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			inName: "  Groceries ",
			inType: category.TypeExpense,
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().
					CreateCategory(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *category.Category) error {
						c.ID = 7
						return nil
					})
			},
			wantName: "Groceries",
		},
		{
			name:   "NormalisesDecomposedAccents",
			inName: "Cafe\u0301",
			inType: category.TypeExpense,
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantName: "Caf\u00e9",
		},
		{
			name:    "EmptyName",
			inName:  "   ",
			inType:  category.TypeIncome,
			wantErr: category.ErrInvalidName,
		},
		{
			name:    "BadType",
			inName:  "Salary",
			inType:  category.Type("transfer"),
			wantErr: category.ErrInvalidType,
		},
		{
			name:   "Duplicate",
			inName: "Rent",
			inType: category.TypeExpense,
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).Return(category.ErrDuplicate)
			},
			wantErr: category.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := category.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := category.NewService(repo)
			got, err := svc.Create(context.Background(), userID, tt.inName, tt.inType)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, userID, got.UserID)
			assert.Equal(t, tt.inType, got.Type)
		})
	}
}

func TestService_ListForLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := category.NewMockRepository(ctrl)
	svc := category.NewService(repo)

	ledgerID := int64(10)
	expense := category.TypeExpense

	repo.EXPECT().
		ListCategories(gomock.Any(), category.ListFilter{LedgerID: &ledgerID, Type: &expense}).
		Return([]*category.Category{{ID: 100}, {ID: 102}}, nil)

	got, err := svc.ListForLedger(context.Background(), ledgerID, &expense)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestService_Rename(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := category.NewMockRepository(ctrl)
	svc := category.NewService(repo)
	userID := uuid.New()

	repo.EXPECT().RenameCategory(gomock.Any(), int64(3), userID, "Food").Return(nil)
	repo.EXPECT().GetCategory(gomock.Any(), int64(3)).Return(&category.Category{ID: 3, Name: "Food"}, nil)

	got, err := svc.Rename(context.Background(), 3, userID, " Food ")
	require.NoError(t, err)
	assert.Equal(t, "Food", got.Name)

	_, err = svc.Rename(context.Background(), 3, userID, "")
	assert.ErrorIs(t, err, category.ErrInvalidName)
}

func TestService_Delete_InUse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := category.NewMockRepository(ctrl)
	svc := category.NewService(repo)
	userID := uuid.New()

	repo.EXPECT().DeleteCategory(gomock.Any(), int64(3), userID).Return(&category.InUseError{Count: 2})

	err := svc.Delete(context.Background(), 3, userID)

	var inUse *category.InUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, 2, inUse.Count)
}
