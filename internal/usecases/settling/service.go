package settling

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/traffic-budget-api/infrastructure/repository"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
	"github.com/vfg2006/traffic-budget-api/internal/metrics"
	"github.com/vfg2006/traffic-budget-api/pkg/log"
	"github.com/vfg2006/traffic-budget-api/pkg/utils"
)

type Settler interface {
	Settle(ctx context.Context, clients []domain.Client, now time.Time) ([]domain.Client, error)
}

type Service struct {
	clientRepository repository.ClientRepository
	location         *time.Location
}

func NewService(clientRepository repository.ClientRepository, location *time.Location) *Service {
	if location == nil {
		location = time.Local
	}

	return &Service{
		clientRepository: clientRepository,
		location:         location,
	}
}

// Settle desconta o gasto diário dos dias corridos desde a última atualização.
// Clientes sincronizados com o Meta são ignorados. Uma falha ao gravar mantém o
// cliente como estava e não interrompe os demais; as falhas voltam agregadas.
func (s *Service) Settle(ctx context.Context, clients []domain.Client, now time.Time) ([]domain.Client, error) {
	settled := make([]domain.Client, len(clients))
	copy(settled, clients)

	var errs []error
	for i, client := range clients {
		if client.IsSynced {
			continue
		}

		elapsed := utils.ElapsedCalendarDays(client.LastUpdated, now, s.location)
		if elapsed <= 0 {
			continue
		}

		deduction := client.DailySpend.Mul(decimal.NewFromInt(int64(elapsed)))
		newBalance := client.CurrentBalance.Sub(deduction)

		if err := s.clientRepository.UpdateBalance(ctx, client.ID, newBalance, now); err != nil {
			log.FromContext(ctx).WithFields(logrus.Fields{
				"client_id":    client.ID,
				"company":      client.Company,
				"elapsed_days": elapsed,
				"error":        err,
			}).Error("Erro ao gravar saldo liquidado")

			metrics.Settlement(metrics.ResultError)
			errs = append(errs, NewStoreError(client.ID, err))
			continue
		}

		settled[i].CurrentBalance = newBalance
		settled[i].LastUpdated = now
		metrics.Settlement(metrics.ResultSuccess)

		log.FromContext(ctx).WithFields(logrus.Fields{
			"client_id":    client.ID,
			"company":      client.Company,
			"elapsed_days": elapsed,
			"deduction":    deduction.String(),
			"new_balance":  newBalance.String(),
		}).Info("Saldo liquidado")
	}

	return settled, errors.Join(errs...)
}
