package meta

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/traffic-budget-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-budget-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/traffic-budget-api/internal/config"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"github.com/vfg2006/traffic-budget-api/pkg/utils"
)

type MetaIntegrator struct {
	cfg    config.Meta
	Client metaclient.Client
}

func New(cfg config.Meta, client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

func (s *MetaIntegrator) ListAdAccounts(ctx context.Context, credentials domain.MetaCredentials) ([]domain.AdAccount, error) {
	resp, err := s.Client.ListAdAccounts(ctx, credentials.AccessToken)
	if err != nil {
		logrus.WithError(err).Error("meta: failed to list ad accounts from API")
		return nil, err
	}

	accounts := make([]domain.AdAccount, 0, len(resp))
	for _, acc := range resp {
		account, err := FactoryAdAccount(acc)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"account_id": acc.ID,
				"error":      err.Error(),
			}).Warn("meta: ignoring ad account with invalid balance")
			continue
		}
		accounts = append(accounts, account)
	}

	logrus.WithField("accounts", len(accounts)).Debug("meta: successfully listed ad accounts")

	return accounts, nil
}

func (s *MetaIntegrator) GetAdAccountBalance(ctx context.Context, accountID string, credentials domain.MetaCredentials) (decimal.Decimal, error) {
	resp, err := s.Client.GetAdAccount(ctx, accountID, credentials.AccessToken)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Error("meta: failed to get ad account from API")
		return decimal.Zero, err
	}

	balance, err := utils.CentsToAmount(resp.AmountRemaining)
	if err != nil {
		return decimal.Zero, fmt.Errorf("saldo inválido para a conta %s: %w", accountID, err)
	}

	return balance, nil
}

// ExchangeToken troca o token do usuário por um de longa duração.
// Sem app id/secret configurados o token recebido é usado como está.
func (s *MetaIntegrator) ExchangeToken(ctx context.Context, accessToken string) (string, error) {
	if accessToken == "" {
		return "", metaclient.ErrEmptyToken
	}

	if !s.cfg.HasAppCredentials() {
		logrus.Warn("META_APP_ID/META_APP_SECRET não configurados, usando o token informado sem troca")
		return accessToken, nil
	}

	resp, err := s.Client.ExchangeToken(ctx, accessToken)
	if err != nil {
		return "", err
	}

	return resp.AccessToken, nil
}

func FactoryAdAccount(acc metadomain.AdAccount) (domain.AdAccount, error) {
	balance, err := utils.CentsToAmount(acc.AmountRemaining)
	if err != nil {
		return domain.AdAccount{}, err
	}

	return domain.AdAccount{
		ID:       acc.ID,
		Name:     acc.Name,
		Balance:  balance,
		Currency: acc.Currency,
		Status:   acc.AccountStatus,
	}, nil
}
