package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
)

func (s *Store) ListTempActions(ctx context.Context) ([]domain.TempAction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, room_ids, kind, target_temp, starts_at, expires_at FROM temp_actions
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list temp actions: %w", err)
	}
	defer rows.Close()

	var actions []domain.TempAction
	for rows.Next() {
		var a domain.TempAction
		var kind string
		if err := rows.Scan(&a.ID, &a.RoomIDs, &kind, &a.ActionType.TargetTemp, &a.StartsAt, &a.ExpiresAt); err != nil {
			return nil, fmt.Errorf("postgres: scan temp action: %w", err)
		}
		a.ActionType.Kind = domain.ActionKind(kind)
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func (s *Store) PutTempAction(ctx context.Context, a domain.TempAction) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO temp_actions (id, room_ids, kind, target_temp, starts_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET room_ids = $2, kind = $3, target_temp = $4, starts_at = $5, expires_at = $6
	`, a.ID, a.RoomIDs, string(a.ActionType.Kind), a.ActionType.TargetTemp, a.StartsAt, a.ExpiresAt)
	if err != nil {
		return fmt.Errorf("postgres: put temp action: %w", err)
	}
	return nil
}

func (s *Store) DeleteTempAction(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM temp_actions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete temp action: %w", err)
	}
	return nil
}
