package data

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// MaxExcerptLen bounds the stored text excerpt, in runes.
	MaxExcerptLen = 280

	insertPredictionSQL = `INSERT INTO prediction (
			id, created_at, source, title, excerpt, prediction, probability, threshold, fail_safe
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectPredictionSQL = `SELECT
			id, created_at, source, title, excerpt, prediction, probability, threshold, fail_safe
		FROM prediction
		ORDER BY created_at DESC, id DESC
		LIMIT ?`

	countPredictionSQL = `SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN prediction = 1 THEN 1 ELSE 0 END), 0)
		FROM prediction`
)

// Prediction is one recorded classification.
type Prediction struct {
	ID          string    `json:"id" yaml:"id"`
	CreatedAt   time.Time `json:"created_at" yaml:"createdAt"`
	Source      string    `json:"source" yaml:"source"`
	Title       string    `json:"title,omitempty" yaml:"title,omitempty"`
	Excerpt     string    `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Prediction  int       `json:"prediction" yaml:"prediction"`
	Probability float64   `json:"probability" yaml:"probability"`
	Threshold   float64   `json:"threshold" yaml:"threshold"`
	FailSafe    bool      `json:"fail_safe" yaml:"failSafe"`
}

// Summary aggregates recorded predictions.
type Summary struct {
	Total      int64 `json:"total" yaml:"total"`
	Fraudulent int64 `json:"fraudulent" yaml:"fraudulent"`
}

// SavePrediction inserts p, assigning an ID and timestamp when unset.
func (s *Store) SavePrediction(ctx context.Context, p *Prediction) error {
	if s == nil || s.db == nil {
		return ErrNotInitialized
	}
	if p == nil {
		return nil
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.Excerpt = truncate(p.Excerpt, MaxExcerptLen)

	if _, err := s.db.ExecContext(ctx, s.rebind(insertPredictionSQL),
		p.ID, p.CreatedAt.UnixMilli(), p.Source, p.Title, p.Excerpt,
		p.Prediction, p.Probability, p.Threshold, p.FailSafe,
	); err != nil {
		return fmt.Errorf("inserting prediction: %w", err)
	}
	return nil
}

// ListPredictions returns up to limit predictions, newest first.
func (s *Store) ListPredictions(ctx context.Context, limit int) ([]*Prediction, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotInitialized
	}
	if limit <= 0 {
		return nil, fmt.Errorf("invalid limit: %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(selectPredictionSQL), limit)
	if err != nil {
		return nil, fmt.Errorf("querying predictions: %w", err)
	}
	defer rows.Close()

	list := make([]*Prediction, 0)
	for rows.Next() {
		var (
			p  Prediction
			ms int64
		)
		if err := rows.Scan(&p.ID, &ms, &p.Source, &p.Title, &p.Excerpt,
			&p.Prediction, &p.Probability, &p.Threshold, &p.FailSafe); err != nil {
			return nil, fmt.Errorf("scanning prediction: %w", err)
		}
		p.CreatedAt = time.UnixMilli(ms).UTC()
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating predictions: %w", err)
	}
	return list, nil
}

// Summarize counts recorded and fraudulent predictions.
func (s *Store) Summarize(ctx context.Context) (*Summary, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotInitialized
	}
	var sum Summary
	if err := s.db.QueryRowContext(ctx, countPredictionSQL).Scan(&sum.Total, &sum.Fraudulent); err != nil {
		return nil, fmt.Errorf("counting predictions: %w", err)
	}
	return &sum, nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
