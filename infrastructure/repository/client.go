package repository

//go:generate mockgen -source=client.go -destination=mocks/client.go -package=mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/traffic-budget-api/infrastructure/database/postgres"
	"github.com/vfg2006/traffic-budget-api/internal/domain"
)

const clientsTable = "clients"

var clientColumns = []string{
	"id", "name", "company", "platform", "current_balance", "daily_spend",
	"currency", "last_updated", "meta_account_id", "is_synced",
}

type ClientRepository interface {
	List(ctx context.Context) ([]domain.Client, error)
	GetByID(ctx context.Context, clientID string) (*domain.Client, error)
	Create(ctx context.Context, client *domain.Client) error
	UpdateBalance(ctx context.Context, clientID string, balance decimal.Decimal, at time.Time) error
	UpdateClient(ctx context.Context, request *domain.UpdateClientRequest) error
}

type clientRepository struct {
	conn postgres.Queryer
}

func NewClientRepository(conn postgres.Queryer) ClientRepository {
	return &clientRepository{
		conn: conn,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// clientRow espelha a tabela clients; a conversão para o domínio fica em toDomain
type clientRow struct {
	ID             string
	Name           string
	Company        string
	Platform       string
	CurrentBalance decimal.Decimal
	DailySpend     decimal.Decimal
	Currency       string
	LastUpdated    time.Time
	MetaAccountID  sql.NullString
	IsSynced       bool
}

func scanClient(row rowScanner) (*clientRow, error) {
	r := &clientRow{}
	if err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Company,
		&r.Platform,
		&r.CurrentBalance,
		&r.DailySpend,
		&r.Currency,
		&r.LastUpdated,
		&r.MetaAccountID,
		&r.IsSynced,
	); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *clientRow) toDomain() domain.Client {
	c := domain.Client{
		ID:             r.ID,
		Name:           r.Name,
		Company:        r.Company,
		Platform:       domain.Platform(r.Platform),
		CurrentBalance: r.CurrentBalance,
		DailySpend:     r.DailySpend,
		Currency:       r.Currency,
		LastUpdated:    r.LastUpdated,
		IsSynced:       r.IsSynced,
	}

	if r.MetaAccountID.Valid {
		accountID := r.MetaAccountID.String
		c.MetaAccountID = &accountID
	}

	return c
}

func fromDomainClient(c *domain.Client) []any {
	var metaAccountID sql.NullString
	if c.MetaAccountID != nil {
		metaAccountID = sql.NullString{String: *c.MetaAccountID, Valid: true}
	}

	return []any{
		c.ID, c.Name, c.Company, string(c.Platform), c.CurrentBalance, c.DailySpend,
		c.Currency, c.LastUpdated, metaAccountID, c.IsSynced,
	}
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	clientsSQL, clientsArgs, err := squirrel.
		Select(clientColumns...).
		From(clientsTable).
		OrderBy("created_at ASC", "id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.QueryContext(ctx, clientsSQL, clientsArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]domain.Client, 0)
	for rows.Next() {
		row, err := scanClient(rows)
		if err != nil {
			return nil, err
		}

		clients = append(clients, row.toDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *clientRepository) GetByID(ctx context.Context, clientID string) (*domain.Client, error) {
	clientSQL, clientArgs, err := squirrel.
		Select(clientColumns...).
		From(clientsTable).
		Where(squirrel.Eq{"id": clientID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row, err := scanClient(r.conn.QueryRowContext(ctx, clientSQL, clientArgs...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	client := row.toDomain()
	return &client, nil
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	clientSQL, clientArgs, err := squirrel.
		Insert(clientsTable).
		Columns(clientColumns...).
		Values(fromDomainClient(client)...).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn.ExecContext(ctx, clientSQL, clientArgs...)
	return err
}

func (r *clientRepository) UpdateBalance(ctx context.Context, clientID string, balance decimal.Decimal, at time.Time) error {
	balanceSQL, balanceArgs, err := squirrel.
		Update(clientsTable).
		Set("current_balance", balance).
		Set("last_updated", at).
		Where(squirrel.Eq{"id": clientID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.conn.ExecContext(ctx, balanceSQL, balanceArgs...)
	if err != nil {
		return err
	}

	return checkAffected(result)
}

func (r *clientRepository) UpdateClient(ctx context.Context, request *domain.UpdateClientRequest) error {
	queryBuilder := squirrel.
		Update(clientsTable).
		Where(squirrel.Eq{"id": request.ID})

	changed := false

	if request.CurrentBalance != nil {
		queryBuilder = queryBuilder.Set("current_balance", *request.CurrentBalance)
		changed = true
	}

	if request.LastUpdated != nil {
		queryBuilder = queryBuilder.Set("last_updated", *request.LastUpdated)
		changed = true
	}

	if request.MetaAccountID != nil {
		queryBuilder = queryBuilder.Set("meta_account_id", *request.MetaAccountID)
		changed = true
	}

	if request.IsSynced != nil {
		queryBuilder = queryBuilder.Set("is_synced", *request.IsSynced)
		changed = true
	}

	if !changed {
		return nil
	}

	clientSQL, clientArgs, err := queryBuilder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return err
	}

	result, err := r.conn.ExecContext(ctx, clientSQL, clientArgs...)
	if err != nil {
		return err
	}

	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
