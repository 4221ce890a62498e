package notifying

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

import (
	"context"

	"github.com/vfg2006/traffic-budget-api/internal/domain"
)

// Calendar cria os lembretes de reposição na agenda do gestor
type Calendar interface {
	CreateEvent(ctx context.Context, event domain.CalendarEvent) error
	Available() bool
}
