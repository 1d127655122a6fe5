package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const calculationsSchema = `
CREATE TABLE IF NOT EXISTS calculations (
	id             BIGSERIAL PRIMARY KEY,
	user_id        BIGINT           NOT NULL,
	area           DOUBLE PRECISION NOT NULL,
	calculated_btu INTEGER          NOT NULL,
	result_count   INTEGER          NOT NULL,
	request_date   TIMESTAMPTZ      NOT NULL DEFAULT now()
)`

// PostgresRecorder stores calculations in the calculations table.
type PostgresRecorder struct {
	db *sqlx.DB
}

func NewPostgresRecorder(ctx context.Context, dsn string) (*PostgresRecorder, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.ExecContext(ctx, calculationsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &PostgresRecorder{db: db}, nil
}

func (r *PostgresRecorder) AppendCalculation(ctx context.Context, c Calculation) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO calculations (user_id, area, calculated_btu, result_count, request_date)
		VALUES (:user_id, :area, :calculated_btu, :result_count, :request_date)`, c)
	if err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) LoadCalculations(ctx context.Context) ([]Calculation, error) {
	var out []Calculation
	err := r.db.SelectContext(ctx, &out, `
		SELECT user_id, area, calculated_btu, result_count, request_date
		FROM calculations ORDER BY request_date, id`)
	if err != nil {
		return nil, fmt.Errorf("select calculations: %w", err)
	}
	return out, nil
}

func (r *PostgresRecorder) Close() error {
	return r.db.Close()
}
