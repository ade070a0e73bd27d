package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/codevibe-de/offer-assistant/internal/core/domain"
)

// RiskTypeRepository reads the risk-type taxonomy. The pipeline only ever
// reads; the table is owned by another system.
type RiskTypeRepository struct {
	db *sql.DB
}

func NewRiskTypeRepository(db *sql.DB) *RiskTypeRepository {
	return &RiskTypeRepository{db: db}
}

// OpenDB opens a small bounded pool against the taxonomy store and verifies
// connectivity once. Callers may treat a failure as non-fatal: the service
// runs without taxonomy enrichment when the store is down.
func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// ListActive returns risk types whose own flag and whose owning product's
// flag are both active, ordered by code. The ordering is part of the prompt
// contract: identical taxonomy state must render identical prompts.
func (r *RiskTypeRepository) ListActive(ctx context.Context) ([]domain.RiskType, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT rt.code, rt.name
FROM risk_type rt
JOIN product p ON rt.product_id = p.id
WHERE rt.is_active = TRUE AND p.is_active = TRUE
ORDER BY rt.code
`)
	if err != nil {
		return nil, fmt.Errorf("query risk types: %w", err)
	}
	defer rows.Close()

	riskTypes := []domain.RiskType{}
	for rows.Next() {
		var rt domain.RiskType
		if err := rows.Scan(&rt.Code, &rt.Name); err != nil {
			return nil, fmt.Errorf("scan risk type: %w", err)
		}
		riskTypes = append(riskTypes, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate risk types: %w", err)
	}
	return riskTypes, nil
}
