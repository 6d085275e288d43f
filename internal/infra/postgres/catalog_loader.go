package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ar-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader loads subject levels stored as JSONB.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadSubject(ctx context.Context, subject domain.Subject) ([]domain.Level, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT levels FROM catalog_subjects WHERE subject=$1`, string(subject)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSubject, subject)
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	var levels []domain.Level
	if err := json.Unmarshal(raw, &levels); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return levels, nil
}

// SaveSubject upserts a subject's levels.
func (l *CatalogLoader) SaveSubject(ctx context.Context, subject domain.Subject, levels []domain.Level) error {
	raw, err := json.Marshal(levels)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	_, err = l.pool.Exec(ctx, `INSERT INTO catalog_subjects (subject, levels) VALUES ($1, $2::jsonb)
		ON CONFLICT (subject) DO UPDATE SET levels=EXCLUDED.levels`, string(subject), string(raw))
	if err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}
