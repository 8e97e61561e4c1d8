package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vbonduro/installquote/internal/domain"
)

type LocationStore struct {
	db *sql.DB
}

func NewLocationStore(db *sql.DB) *LocationStore {
	return &LocationStore{db: db}
}

// Save inserts or replaces the location document.
func (s *LocationStore) Save(ctx context.Context, loc domain.Location) error {
	doc, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("failed to encode location: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO locations (id, name, address, document) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			document = excluded.document,
			updated_at = CURRENT_TIMESTAMP
	`, loc.ID, loc.Name, loc.Address, string(doc))
	if err != nil {
		return fmt.Errorf("failed to save location: %w", err)
	}
	return nil
}

// SaveAll saves every location in one transaction.
func (s *LocationStore) SaveAll(ctx context.Context, locs []domain.Location) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, loc := range locs {
		doc, err := json.Marshal(loc)
		if err != nil {
			return fmt.Errorf("failed to encode location %s: %w", loc.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO locations (id, name, address, document) VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				address = excluded.address,
				document = excluded.document,
				updated_at = CURRENT_TIMESTAMP
		`, loc.ID, loc.Name, loc.Address, string(doc)); err != nil {
			return fmt.Errorf("failed to save location %s: %w", loc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit locations: %w", err)
	}
	return nil
}

func (s *LocationStore) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `
		SELECT document FROM locations WHERE id = ?
	`, id).Scan(&doc)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}

	loc := &domain.Location{}
	if err := json.Unmarshal([]byte(doc), loc); err != nil {
		return nil, fmt.Errorf("failed to decode location %s: %w", id, err)
	}
	return loc, nil
}

func (s *LocationStore) List(ctx context.Context) ([]domain.Location, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document FROM locations ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var locs []domain.Location
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		var loc domain.Location
		if err := json.Unmarshal([]byte(doc), &loc); err != nil {
			return nil, fmt.Errorf("failed to decode location %s: %w", id, err)
		}
		locs = append(locs, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locations: %w", err)
	}

	return locs, nil
}

// Delete removes the location and its recorded quotes.
func (s *LocationStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM locations WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("location %s: %w", id, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM quotes WHERE location_id = ?
	`, id); err != nil {
		return fmt.Errorf("failed to delete quotes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}
