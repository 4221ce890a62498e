package settling

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/traffic-budget-api/infrastructure/repository"
	"github.com/vfg2006/traffic-budget-api/infrastructure/repository/mocks"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"go.uber.org/mock/gomock"
)

var saoPaulo = time.FixedZone("BRT", -3*60*60)

// decimalMatcher compara valores monetários pelo valor, ignorando a escala interna
type decimalMatcher struct {
	expected decimal.Decimal
}

func decimalEq(value string) gomock.Matcher {
	return decimalMatcher{expected: decimal.RequireFromString(value)}
}

func (m decimalMatcher) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.expected)
}

func (m decimalMatcher) String() string {
	return "is decimal equal to " + m.expected.String()
}

func TestService_Settle(t *testing.T) {
	now := time.Date(2024, 3, 10, 14, 0, 0, 0, saoPaulo)
	accountID := "act_1"

	tests := []struct {
		name            string
		client          domain.Client
		setup           func(repo *mocks.MockClientRepository)
		expectedBalance string
		expectedUpdated time.Time
		expectError     bool
	}{
		{
			name: "Três dias corridos - desconta 3x o gasto diário",
			client: domain.Client{
				ID:             "c1",
				CurrentBalance: decimal.NewFromInt(1000),
				DailySpend:     decimal.NewFromInt(100),
				LastUpdated:    now.AddDate(0, 0, -3),
			},
			setup: func(repo *mocks.MockClientRepository) {
				repo.EXPECT().
					UpdateBalance(gomock.Any(), "c1", decimalEq("700"), now).
					Return(nil)
			},
			expectedBalance: "700",
			expectedUpdated: now,
		},
		{
			name: "23:59 até 00:01 conta como um dia",
			client: domain.Client{
				ID:             "c2",
				CurrentBalance: decimal.NewFromInt(100),
				DailySpend:     decimal.NewFromInt(30),
				LastUpdated:    time.Date(2024, 3, 9, 23, 59, 0, 0, saoPaulo),
			},
			setup: func(repo *mocks.MockClientRepository) {
				repo.EXPECT().
					UpdateBalance(gomock.Any(), "c2", decimalEq("70"), gomock.Any()).
					Return(nil)
			},
			expectedBalance: "70",
			expectedUpdated: now,
		},
		{
			name: "Saldo pode ficar negativo",
			client: domain.Client{
				ID:             "c3",
				CurrentBalance: decimal.NewFromInt(50),
				DailySpend:     decimal.NewFromInt(45),
				LastUpdated:    now.AddDate(0, 0, -2),
			},
			setup: func(repo *mocks.MockClientRepository) {
				repo.EXPECT().
					UpdateBalance(gomock.Any(), "c3", decimalEq("-40"), now).
					Return(nil)
			},
			expectedBalance: "-40",
			expectedUpdated: now,
		},
		{
			name: "Mesmo dia - nada a fazer",
			client: domain.Client{
				ID:             "c4",
				CurrentBalance: decimal.NewFromInt(500),
				DailySpend:     decimal.NewFromInt(100),
				LastUpdated:    time.Date(2024, 3, 10, 0, 5, 0, 0, saoPaulo),
			},
			setup:           func(repo *mocks.MockClientRepository) {},
			expectedBalance: "500",
			expectedUpdated: time.Date(2024, 3, 10, 0, 5, 0, 0, saoPaulo),
		},
		{
			name: "Cliente sincronizado nunca é liquidado",
			client: domain.Client{
				ID:             "c5",
				CurrentBalance: decimal.NewFromInt(500),
				DailySpend:     decimal.NewFromInt(100),
				LastUpdated:    now.AddDate(0, 0, -10),
				MetaAccountID:  &accountID,
				IsSynced:       true,
			},
			setup:           func(repo *mocks.MockClientRepository) {},
			expectedBalance: "500",
			expectedUpdated: now.AddDate(0, 0, -10),
		},
		{
			name: "Falha ao gravar mantém o cliente inalterado",
			client: domain.Client{
				ID:             "c6",
				CurrentBalance: decimal.NewFromInt(300),
				DailySpend:     decimal.NewFromInt(100),
				LastUpdated:    now.AddDate(0, 0, -1),
			},
			setup: func(repo *mocks.MockClientRepository) {
				repo.EXPECT().
					UpdateBalance(gomock.Any(), "c6", decimalEq("200"), now).
					Return(errors.New("connection refused"))
			},
			expectedBalance: "300",
			expectedUpdated: now.AddDate(0, 0, -1),
			expectError:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockClientRepository(ctrl)
			tt.setup(repo)

			service := NewService(repo, saoPaulo)
			result, err := service.Settle(context.Background(), []domain.Client{tt.client}, now)

			if tt.expectError {
				var storeErr *StoreError
				require.ErrorAs(t, err, &storeErr)
				assert.Equal(t, tt.client.ID, storeErr.ClientID)
				assert.ErrorIs(t, err, ErrPersistBalance)
			} else {
				assert.NoError(t, err)
			}

			require.Len(t, result, 1)
			assert.True(t, decimal.RequireFromString(tt.expectedBalance).Equal(result[0].CurrentBalance),
				"saldo esperado %s, obtido %s", tt.expectedBalance, result[0].CurrentBalance)
			assert.True(t, tt.expectedUpdated.Equal(result[0].LastUpdated))
		})
	}
}

func TestService_Settle_IsIdempotentWithinTheSameDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockClientRepository(ctrl)

	now := time.Date(2024, 3, 10, 8, 0, 0, 0, saoPaulo)
	later := now.Add(6 * time.Hour)
	clients := []domain.Client{
		{
			ID:             "c1",
			CurrentBalance: decimal.NewFromInt(1000),
			DailySpend:     decimal.NewFromInt(100),
			LastUpdated:    now.AddDate(0, 0, -3),
		},
	}

	repo.EXPECT().UpdateBalance(gomock.Any(), "c1", decimalEq("700"), now).Return(nil).Times(1)

	service := NewService(repo, saoPaulo)

	first, err := service.Settle(context.Background(), clients, now)
	require.NoError(t, err)

	second, err := service.Settle(context.Background(), first, later)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestService_Settle_FailureDoesNotStopBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockClientRepository(ctrl)

	now := time.Date(2024, 3, 10, 8, 0, 0, 0, saoPaulo)
	clients := []domain.Client{
		{ID: "a", CurrentBalance: decimal.NewFromInt(100), DailySpend: decimal.NewFromInt(10), LastUpdated: now.AddDate(0, 0, -1)},
		{ID: "b", CurrentBalance: decimal.NewFromInt(100), DailySpend: decimal.NewFromInt(10), LastUpdated: now.AddDate(0, 0, -1)},
	}

	gomock.InOrder(
		repo.EXPECT().UpdateBalance(gomock.Any(), "a", gomock.Any(), now).Return(errors.New("timeout")),
		repo.EXPECT().UpdateBalance(gomock.Any(), "b", gomock.Any(), now).Return(nil),
	)

	result, err := NewService(repo, saoPaulo).Settle(context.Background(), clients, now)

	assert.Error(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(result[0].CurrentBalance))
	assert.True(t, decimal.NewFromInt(90).Equal(result[1].CurrentBalance))
	// A entrada não é alterada
	assert.True(t, decimal.NewFromInt(100).Equal(clients[1].CurrentBalance))
}

func TestStoreError_KeepsCause(t *testing.T) {
	err := NewStoreError("c9", fmt.Errorf("update: %w", repository.ErrNotFound))

	assert.ErrorIs(t, err, ErrPersistBalance)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, "client c9: error persisting client balance: update: record not found", err.Error())
}
