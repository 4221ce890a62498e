package syncing

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-budget-api/infrastructure/repository"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"github.com/vfg2006/traffic-budget-api/internal/metrics"
	"github.com/vfg2006/traffic-budget-api/internal/usecases/settling"
	"github.com/vfg2006/traffic-budget-api/pkg/log"
	"golang.org/x/sync/errgroup"
)

const defaultMaxConcurrent = 3

type Syncer interface {
	SyncAll(ctx context.Context, clients []domain.Client, credentials domain.MetaCredentials, now time.Time) ([]domain.Client, error)
	LinkAccount(ctx context.Context, client domain.Client, accountID string, credentials domain.MetaCredentials, now time.Time) (domain.Client, error)
	ListAdAccounts(ctx context.Context, credentials domain.MetaCredentials) ([]domain.AdAccount, error)
}

type Orchestrator struct {
	adsPlatform      AdsPlatform
	clientRepository repository.ClientRepository
	maxConcurrent    int
}

func NewOrchestrator(adsPlatform AdsPlatform, clientRepository repository.ClientRepository, maxConcurrent int) *Orchestrator {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}

	return &Orchestrator{
		adsPlatform:      adsPlatform,
		clientRepository: clientRepository,
		maxConcurrent:    maxConcurrent,
	}
}

// SyncAll atualiza o saldo dos clientes vinculados ao Meta.
// Cada goroutine escreve apenas no seu índice, então a ordem de saída é a da entrada.
func (o *Orchestrator) SyncAll(ctx context.Context, clients []domain.Client, credentials domain.MetaCredentials, now time.Time) ([]domain.Client, error) {
	synced := make([]domain.Client, len(clients))
	copy(synced, clients)

	if credentials.IsEmpty() {
		return synced, ErrMissingCredentials
	}

	errs := make([]error, len(clients))

	var g errgroup.Group
	g.SetLimit(o.maxConcurrent)

	for i, client := range clients {
		if !client.IsMetaSynced() {
			continue
		}

		i, client := i, client
		g.Go(func() error {
			updated, err := o.syncClient(ctx, client, credentials, now)
			if err != nil {
				errs[i] = err
				return nil
			}

			synced[i] = updated
			return nil
		})
	}

	_ = g.Wait()

	return synced, errors.Join(errs...)
}

func (o *Orchestrator) syncClient(ctx context.Context, client domain.Client, credentials domain.MetaCredentials, now time.Time) (domain.Client, error) {
	accountID := *client.MetaAccountID

	balance, err := o.adsPlatform.GetAdAccountBalance(ctx, accountID, credentials)
	if err != nil {
		log.FromContext(ctx).WithFields(logrus.Fields{
			"client_id":  client.ID,
			"account_id": accountID,
			"error":      err,
		}).Warn("Erro ao consultar saldo no Meta")

		metrics.BalanceSync(metrics.ResultError)
		return client, NewSyncError(ErrFetchBalance, client.ID, accountID, err)
	}

	if balance.Equal(client.CurrentBalance) {
		metrics.BalanceSync(metrics.ResultSkipped)
		return client, nil
	}

	if err := o.clientRepository.UpdateBalance(ctx, client.ID, balance, now); err != nil {
		log.FromContext(ctx).WithFields(logrus.Fields{
			"client_id":  client.ID,
			"account_id": accountID,
			"error":      err,
		}).Error("Erro ao gravar saldo sincronizado")

		metrics.BalanceSync(metrics.ResultError)
		return client, settling.NewStoreError(client.ID, err)
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"client_id":   client.ID,
		"account_id":  accountID,
		"old_balance": client.CurrentBalance.String(),
		"new_balance": balance.String(),
	}).Info("Saldo sincronizado com o Meta")

	metrics.BalanceSync(metrics.ResultSuccess)

	client.CurrentBalance = balance
	client.LastUpdated = now
	return client, nil
}

// LinkAccount vincula o cliente a uma conta do Meta e adota o saldo externo como oficial
func (o *Orchestrator) LinkAccount(ctx context.Context, client domain.Client, accountID string, credentials domain.MetaCredentials, now time.Time) (domain.Client, error) {
	if accountID == "" {
		return client, ErrAccountIDRequired
	}

	if credentials.IsEmpty() {
		return client, ErrMissingCredentials
	}

	balance, err := o.adsPlatform.GetAdAccountBalance(ctx, accountID, credentials)
	if err != nil {
		metrics.BalanceSync(metrics.ResultError)
		return client, NewSyncError(ErrFetchBalance, client.ID, accountID, err)
	}

	synced := true
	if err := o.clientRepository.UpdateClient(ctx, &domain.UpdateClientRequest{
		ID:             client.ID,
		CurrentBalance: &balance,
		LastUpdated:    &now,
		MetaAccountID:  &accountID,
		IsSynced:       &synced,
	}); err != nil {
		return client, settling.NewStoreError(client.ID, err)
	}

	metrics.BalanceSync(metrics.ResultSuccess)

	log.FromContext(ctx).WithFields(logrus.Fields{
		"client_id":  client.ID,
		"account_id": accountID,
		"balance":    balance.String(),
	}).Info("Cliente vinculado à conta do Meta")

	client.MetaAccountID = &accountID
	client.IsSynced = true
	client.CurrentBalance = balance
	client.LastUpdated = now
	return client, nil
}

func (o *Orchestrator) ListAdAccounts(ctx context.Context, credentials domain.MetaCredentials) ([]domain.AdAccount, error) {
	if credentials.IsEmpty() {
		return nil, ErrMissingCredentials
	}

	accounts, err := o.adsPlatform.ListAdAccounts(ctx, credentials)
	if err != nil {
		return nil, NewSyncError(ErrListAccounts, "", "", err)
	}

	return accounts, nil
}
