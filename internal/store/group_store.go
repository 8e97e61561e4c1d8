package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vbonduro/installquote/internal/domain"
)

type GroupStore struct {
	db *sql.DB
}

func NewGroupStore(db *sql.DB) *GroupStore {
	return &GroupStore{db: db}
}

// ReplaceAll stores groups as the complete, ordered set of definitions.
func (s *GroupStore) ReplaceAll(ctx context.Context, groups []domain.HardwareGroup) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM hardware_groups`); err != nil {
		return fmt.Errorf("failed to clear hardware groups: %w", err)
	}

	for i, g := range groups {
		ids, err := json.Marshal(g.HardwareIDs)
		if err != nil {
			return fmt.Errorf("failed to encode hardware ids: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO hardware_groups (id, position, name, color, hardware_ids, collapsed)
			VALUES (?, ?, ?, ?, ?, ?)
		`, g.ID, i, g.Name, g.Color, string(ids), g.Collapsed); err != nil {
			return fmt.Errorf("failed to save hardware group %s: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit hardware groups: %w", err)
	}
	return nil
}

func (s *GroupStore) List(ctx context.Context) ([]domain.HardwareGroup, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, color, hardware_ids, collapsed FROM hardware_groups ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list hardware groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.HardwareGroup
	for rows.Next() {
		var g domain.HardwareGroup
		var ids string
		if err := rows.Scan(&g.ID, &g.Name, &g.Color, &ids, &g.Collapsed); err != nil {
			return nil, fmt.Errorf("failed to scan hardware group: %w", err)
		}
		if err := json.Unmarshal([]byte(ids), &g.HardwareIDs); err != nil {
			return nil, fmt.Errorf("failed to decode hardware ids for %s: %w", g.ID, err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hardware groups: %w", err)
	}

	return groups, nil
}
