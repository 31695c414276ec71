package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
)

func (s *Store) ListPlugs(ctx context.Context) ([]domain.Plug, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, room_id, name, host, username, password, scheduled FROM plugs`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list plugs: %w", err)
	}
	defer rows.Close()
	return scanPlugs(rows)
}

func (s *Store) PlugsForRoom(ctx context.Context, roomID uuid.UUID) ([]domain.Plug, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, room_id, name, host, username, password, scheduled
		FROM plugs WHERE room_id = $1
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list plugs for room: %w", err)
	}
	defer rows.Close()
	return scanPlugs(rows)
}

func (s *Store) GetPlug(ctx context.Context, id uuid.UUID) (*domain.Plug, error) {
	var p domain.Plug
	err := s.pool.QueryRow(ctx, `
		SELECT id, room_id, name, host, username, password, scheduled
		FROM plugs WHERE id = $1
	`, id).Scan(&p.ID, &p.RoomID, &p.Name, &p.Host, &p.Username, &p.Password, &p.Scheduled)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: get plug: %w", err)
	}
	return &p, nil
}

func (s *Store) PutPlug(ctx context.Context, p domain.Plug) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO plugs (id, room_id, name, host, username, password, scheduled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET room_id = $2, name = $3, host = $4, username = $5, password = $6, scheduled = $7
	`, p.ID, p.RoomID, p.Name, p.Host, p.Username, p.Password, p.Scheduled)
	if err != nil {
		return fmt.Errorf("postgres: put plug: %w", err)
	}
	return nil
}

func (s *Store) DeletePlug(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM plugs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete plug: %w", err)
	}
	return nil
}

func scanPlugs(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]domain.Plug, error) {
	var plugs []domain.Plug
	for rows.Next() {
		var p domain.Plug
		if err := rows.Scan(&p.ID, &p.RoomID, &p.Name, &p.Host, &p.Username, &p.Password, &p.Scheduled); err != nil {
			return nil, fmt.Errorf("postgres: scan plug: %w", err)
		}
		plugs = append(plugs, p)
	}
	return plugs, rows.Err()
}
