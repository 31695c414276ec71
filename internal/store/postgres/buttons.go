package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
)

func (s *Store) ListButtons(ctx context.Context) ([]domain.Button, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, host, username, password FROM buttons`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list buttons: %w", err)
	}
	defer rows.Close()

	var buttons []domain.Button
	for rows.Next() {
		var b domain.Button
		if err := rows.Scan(&b.ID, &b.Host, &b.Username, &b.Password); err != nil {
			return nil, fmt.Errorf("postgres: scan button: %w", err)
		}
		buttons = append(buttons, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range buttons {
		plugIDs, err := s.buttonPlugIDs(ctx, buttons[i].ID)
		if err != nil {
			return nil, err
		}
		buttons[i].PlugIDs = plugIDs
	}
	return buttons, nil
}

func (s *Store) GetButton(ctx context.Context, id uuid.UUID) (*domain.Button, error) {
	var b domain.Button
	err := s.pool.QueryRow(ctx, `SELECT id, host, username, password FROM buttons WHERE id = $1`, id).
		Scan(&b.ID, &b.Host, &b.Username, &b.Password)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: get button: %w", err)
	}
	plugIDs, err := s.buttonPlugIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	b.PlugIDs = plugIDs
	return &b, nil
}

func (s *Store) buttonPlugIDs(ctx context.Context, buttonID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT plug_id FROM button_plugs WHERE button_id = $1 ORDER BY position
	`, buttonID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list button plugs: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scan button plug: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PutButton upserts the button row and replaces its button_plugs rows
// wholesale inside one transaction, preserving PlugIDs' order via position.
func (s *Store) PutButton(ctx context.Context, b domain.Button) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: put button: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO buttons (id, host, username, password)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET host = $2, username = $3, password = $4
	`, b.ID, b.Host, b.Username, b.Password)
	if err != nil {
		return fmt.Errorf("postgres: put button: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM button_plugs WHERE button_id = $1`, b.ID); err != nil {
		return fmt.Errorf("postgres: replace button plugs: %w", err)
	}
	for i, plugID := range b.PlugIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO button_plugs (button_id, plug_id, position) VALUES ($1, $2, $3)
		`, b.ID, plugID, i); err != nil {
			return fmt.Errorf("postgres: insert button plug: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: put button: commit: %w", err)
	}
	return nil
}

func (s *Store) DeleteButton(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: delete button: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM button_plugs WHERE button_id = $1`, id); err != nil {
		return fmt.Errorf("postgres: delete button plugs: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM buttons WHERE id = $1`, id); err != nil {
		return fmt.Errorf("postgres: delete button: %w", err)
	}
	return tx.Commit(ctx)
}
