package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
)

func (s *Store) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, min_temp FROM rooms`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var r domain.Room
		if err := rows.Scan(&r.ID, &r.Name, &r.MinTemp); err != nil {
			return nil, fmt.Errorf("postgres: scan room: %w", err)
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

func (s *Store) GetRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	var r domain.Room
	err := s.pool.QueryRow(ctx, `SELECT id, name, min_temp FROM rooms WHERE id = $1`, id).
		Scan(&r.ID, &r.Name, &r.MinTemp)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: get room: %w", err)
	}
	return &r, nil
}

func (s *Store) PutRoom(ctx context.Context, r domain.Room) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO rooms (id, name, min_temp)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = $2, min_temp = $3
	`, r.ID, r.Name, r.MinTemp)
	if err != nil {
		return fmt.Errorf("postgres: put room: %w", err)
	}
	return nil
}

func (s *Store) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete room: %w", err)
	}
	return nil
}
