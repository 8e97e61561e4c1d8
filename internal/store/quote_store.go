package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vbonduro/installquote/internal/domain"
	"github.com/vbonduro/installquote/internal/pricing"
)

// QuoteRecord is one accepted breakdown for a location.
type QuoteRecord struct {
	ID          int64                    `json:"id"`
	LocationID  string                   `json:"locationId"`
	RequestHash string                   `json:"requestHash"`
	TotalFirst  float64                  `json:"totalFirst"`
	Breakdown   domain.EstimateBreakdown `json:"breakdown"`
	CreatedAt   time.Time                `json:"createdAt"`
}

type QuoteStore struct {
	db *sql.DB
}

func NewQuoteStore(db *sql.DB) *QuoteStore {
	return &QuoteStore{db: db}
}

// RequestHash is the hex SHA-256 of the request's JSON encoding.
func RequestHash(req pricing.Request) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Record stores b unless the latest record for the location was priced from
// the same request. It returns the id of the stored or matching record.
func (s *QuoteStore) Record(ctx context.Context, req pricing.Request, b domain.EstimateBreakdown) (int64, error) {
	hash, err := RequestHash(req)
	if err != nil {
		return 0, err
	}

	latest, err := s.Latest(ctx, b.LocationID)
	if err != nil {
		return 0, err
	}
	if latest != nil && latest.RequestHash == hash {
		return latest.ID, nil
	}

	doc, err := json.Marshal(b)
	if err != nil {
		return 0, fmt.Errorf("failed to encode breakdown: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO quotes (location_id, request_hash, total_first, breakdown) VALUES (?, ?, ?, ?)
	`, b.LocationID, hash, b.Summary.TotalFirst, string(doc))
	if err != nil {
		return 0, fmt.Errorf("failed to record quote: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

func (s *QuoteStore) Latest(ctx context.Context, locationID string) (*QuoteRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, location_id, request_hash, total_first, breakdown, created_at FROM quotes
		WHERE location_id = ? ORDER BY id DESC LIMIT 1
	`, locationID)

	rec, err := scanQuote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return rec, nil
}

// ListByLocation returns the location's quotes, newest first.
func (s *QuoteStore) ListByLocation(ctx context.Context, locationID string) ([]QuoteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, location_id, request_hash, total_first, breakdown, created_at FROM quotes
		WHERE location_id = ? ORDER BY id DESC
	`, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	var out []QuoteRecord
	for rows.Next() {
		rec, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		out = append(out, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quotes: %w", err)
	}

	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuote(sc scanner) (*QuoteRecord, error) {
	rec := &QuoteRecord{}
	var doc string
	if err := sc.Scan(&rec.ID, &rec.LocationID, &rec.RequestHash, &rec.TotalFirst, &doc, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(doc), &rec.Breakdown); err != nil {
		return nil, fmt.Errorf("failed to decode breakdown %d: %w", rec.ID, err)
	}
	return rec, nil
}
