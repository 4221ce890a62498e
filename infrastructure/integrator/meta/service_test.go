package meta

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metadomain "github.com/vfg2006/traffic-budget-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-budget-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/traffic-budget-api/infrastructure/integrator/meta/metaclient/mocks"
	"github.com/vfg2006/traffic-budget-api/internal/config"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"go.uber.org/mock/gomock"
)

var creds = domain.MetaCredentials{AccessToken: "token"}

func TestMetaIntegrator_GetAdAccountBalance(t *testing.T) {
	tests := []struct {
		name            string
		amountRemaining string
		clientErr       error
		expected        decimal.Decimal
		expectError     bool
	}{
		{
			name:            "Converte centavos para reais",
			amountRemaining: "125050",
			expected:        decimal.RequireFromString("1250.50"),
		},
		{
			name:            "Saldo vazio vira zero",
			amountRemaining: "",
			expected:        decimal.Zero,
		},
		{
			name:            "Saldo inválido",
			amountRemaining: "abc",
			expectError:     true,
		},
		{
			name:        "Erro da API",
			clientErr:   errors.New("boom"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mocks.NewMockClient(ctrl)

			var account *metadomain.AdAccount
			if tt.clientErr == nil {
				account = &metadomain.AdAccount{ID: "act_1", AmountRemaining: tt.amountRemaining}
			}
			client.EXPECT().GetAdAccount(gomock.Any(), "act_1", "token").Return(account, tt.clientErr)

			balance, err := New(config.Meta{}, client).GetAdAccountBalance(context.Background(), "act_1", creds)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(balance), "esperado %s, obtido %s", tt.expected, balance)
		})
	}
}

func TestMetaIntegrator_ListAdAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	client.EXPECT().ListAdAccounts(gomock.Any(), "token").Return([]metadomain.AdAccount{
		{ID: "act_1", Name: "Nexus", AmountRemaining: "24000", Currency: "BRL", AccountStatus: 1},
		{ID: "act_2", Name: "Quebrada", AmountRemaining: "n/a", Currency: "BRL", AccountStatus: 1},
	}, nil)

	accounts, err := New(config.Meta{}, client).ListAdAccounts(context.Background(), creds)

	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "act_1", accounts[0].ID)
	assert.Equal(t, "Nexus", accounts[0].Name)
	assert.True(t, decimal.NewFromInt(240).Equal(accounts[0].Balance))
	assert.Equal(t, 1, accounts[0].Status)
}

func TestMetaIntegrator_ExchangeToken(t *testing.T) {
	t.Run("Sem credenciais do app usa o token informado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)

		token, err := New(config.Meta{}, client).ExchangeToken(context.Background(), "short")

		require.NoError(t, err)
		assert.Equal(t, "short", token)
	})

	t.Run("Com credenciais do app troca o token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockClient(ctrl)
		client.EXPECT().ExchangeToken(gomock.Any(), "short").Return(&metaclient.TokenResponse{AccessToken: "long"}, nil)

		token, err := New(config.Meta{AppID: "id", AppSecret: "secret"}, client).ExchangeToken(context.Background(), "short")

		require.NoError(t, err)
		assert.Equal(t, "long", token)
	})

	t.Run("Token vazio", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		_, err := New(config.Meta{}, mocks.NewMockClient(ctrl)).ExchangeToken(context.Background(), "")

		assert.ErrorIs(t, err, metaclient.ErrEmptyToken)
	})
}
