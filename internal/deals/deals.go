// Package deals persists closed deals. The store is append-only from the
// application's point of view: records are never updated or deleted.
package deals

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DateLayout is the format of Deal.RecordedDate (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// Deal is one closed contract. Immutable once saved; ID is assigned by
// the store.
type Deal struct {
	ID             int64
	Client         string
	ContractType   string
	DurationMonths int
	ServiceSummary string
	TotalMonthly   float64
	SkyhawkRevenue float64
	AmazingRevenue float64
	OwningEntity   string
	RecordedDate   string
}

// Store defines deal persistence. The abstraction keeps the handlers and
// the report builder independent of the backing database.
type Store interface {
	// Append persists a new deal and returns the assigned id.
	Append(ctx context.Context, deal Deal) (int64, error)

	// FetchAll returns every recorded deal in insertion (id) order.
	// An empty portfolio is an empty slice, not an error.
	FetchAll(ctx context.Context) ([]Deal, error)
}

// SQLiteStore implements Store on a sqlite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore wraps an open database. The schema is managed by the
// goose migrations.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Append inserts the deal. RecordedDate is stamped with the current date
// when the caller leaves it empty.
func (s *SQLiteStore) Append(ctx context.Context, deal Deal) (int64, error) {
	if deal.DurationMonths < 1 {
		return 0, fmt.Errorf("duração em meses deve ser no mínimo 1, recebido %d", deal.DurationMonths)
	}
	if deal.TotalMonthly < 0 {
		return 0, fmt.Errorf("total mensal deve ser maior ou igual a 0")
	}

	if deal.RecordedDate == "" {
		deal.RecordedDate = s.now().Format(DateLayout)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO deals (
			client,
			contract_type,
			duration_months,
			service_summary,
			total_monthly,
			skyhawk_revenue,
			amazing_revenue,
			owning_entity,
			recorded_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		deal.Client,
		deal.ContractType,
		deal.DurationMonths,
		deal.ServiceSummary,
		deal.TotalMonthly,
		deal.SkyhawkRevenue,
		deal.AmazingRevenue,
		deal.OwningEntity,
		deal.RecordedDate,
	)
	if err != nil {
		return 0, fmt.Errorf("insert deal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read deal id: %w", err)
	}
	return id, nil
}

// FetchAll scans every deal in id order.
func (s *SQLiteStore) FetchAll(ctx context.Context) ([]Deal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id,
			client,
			contract_type,
			duration_months,
			service_summary,
			total_monthly,
			skyhawk_revenue,
			amazing_revenue,
			owning_entity,
			recorded_date
		FROM deals
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query deals: %w", err)
	}
	defer rows.Close()

	result := make([]Deal, 0)
	for rows.Next() {
		var d Deal
		if err := rows.Scan(
			&d.ID,
			&d.Client,
			&d.ContractType,
			&d.DurationMonths,
			&d.ServiceSummary,
			&d.TotalMonthly,
			&d.SkyhawkRevenue,
			&d.AmazingRevenue,
			&d.OwningEntity,
			&d.RecordedDate,
		); err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		result = append(result, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deals: %w", err)
	}

	return result, nil
}
