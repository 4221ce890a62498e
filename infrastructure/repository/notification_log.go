package repository

//go:generate mockgen -source=notification_log.go -destination=mocks/notification_log.go -package=mocks

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/traffic-budget-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
)

const notificationLogsTable = "notification_logs"

var notificationLogColumns = []string{
	"id", "client_id", "client_name", "type", "status", "message", "created_at",
}

type NotificationLogRepository interface {
	List(ctx context.Context, limit int) ([]domain.NotificationLog, error)
	ListSince(ctx context.Context, since time.Time) ([]domain.NotificationLog, error)
	Create(ctx context.Context, log *domain.NotificationLog) error
}

type notificationLogRepository struct {
	conn postgres.Queryer
}

func NewNotificationLogRepository(conn postgres.Queryer) NotificationLogRepository {
	return &notificationLogRepository{
		conn: conn,
	}
}

// List retorna os registros mais recentes primeiro
func (r *notificationLogRepository) List(ctx context.Context, limit int) ([]domain.NotificationLog, error) {
	queryBuilder := squirrel.
		Select(notificationLogColumns...).
		From(notificationLogsTable).
		OrderBy("created_at DESC")

	if limit > 0 {
		queryBuilder = queryBuilder.Limit(uint64(limit))
	}

	return r.query(ctx, queryBuilder)
}

func (r *notificationLogRepository) ListSince(ctx context.Context, since time.Time) ([]domain.NotificationLog, error) {
	queryBuilder := squirrel.
		Select(notificationLogColumns...).
		From(notificationLogsTable).
		Where(squirrel.GtOrEq{"created_at": since}).
		OrderBy("created_at DESC")

	return r.query(ctx, queryBuilder)
}

func (r *notificationLogRepository) query(ctx context.Context, queryBuilder squirrel.SelectBuilder) ([]domain.NotificationLog, error) {
	logsSQL, logsArgs, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.QueryContext(ctx, logsSQL, logsArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.NotificationLog, 0)
	for rows.Next() {
		var (
			entry     domain.NotificationLog
			logType   string
			logStatus string
		)

		if err := rows.Scan(
			&entry.ID,
			&entry.ClientID,
			&entry.ClientName,
			&logType,
			&logStatus,
			&entry.Message,
			&entry.Timestamp,
		); err != nil {
			return nil, err
		}

		entry.Type = domain.NotificationType(logType)
		entry.Status = domain.NotificationStatus(logStatus)
		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

func (r *notificationLogRepository) Create(ctx context.Context, log *domain.NotificationLog) error {
	logSQL, logArgs, err := squirrel.
		Insert(notificationLogsTable).
		Columns(notificationLogColumns...).
		Values(log.ID, log.ClientID, log.ClientName, string(log.Type), string(log.Status), log.Message, log.Timestamp).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.ExecContext(ctx, logSQL, logArgs...)
	return err
}
