package syncing

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
)

// AdsPlatform consulta contas e saldos na plataforma de anúncios
type AdsPlatform interface {
	ListAdAccounts(ctx context.Context, credentials domain.MetaCredentials) ([]domain.AdAccount, error)
	GetAdAccountBalance(ctx context.Context, accountID string, credentials domain.MetaCredentials) (decimal.Decimal, error)
}
