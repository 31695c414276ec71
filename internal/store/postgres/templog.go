package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
)

func (s *Store) AppendTemperatureLog(ctx context.Context, l domain.TemperatureLog) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO temperature_logs (room_id, time, temp) VALUES ($1, $2, $3)
	`, l.RoomID, l.Time, l.Temp)
	if err != nil {
		return fmt.Errorf("postgres: append temperature log: %w", err)
	}
	return nil
}

func (s *Store) LatestTemperatureLog(ctx context.Context, roomID uuid.UUID) (*domain.TemperatureLog, error) {
	var l domain.TemperatureLog
	err := s.pool.QueryRow(ctx, `
		SELECT room_id, time, temp FROM temperature_logs
		WHERE room_id = $1 ORDER BY time DESC LIMIT 1
	`, roomID).Scan(&l.RoomID, &l.Time, &l.Temp)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: latest temperature log: %w", err)
	}
	return &l, nil
}

func (s *Store) LatestTemperatureLogs(ctx context.Context) (map[uuid.UUID]domain.TemperatureLog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (room_id) room_id, time, temp
		FROM temperature_logs
		ORDER BY room_id, time DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: latest temperature logs: %w", err)
	}
	defer rows.Close()

	out := map[uuid.UUID]domain.TemperatureLog{}
	for rows.Next() {
		var l domain.TemperatureLog
		if err := rows.Scan(&l.RoomID, &l.Time, &l.Temp); err != nil {
			return nil, fmt.Errorf("postgres: scan temperature log: %w", err)
		}
		out[l.RoomID] = l
	}
	return out, rows.Err()
}

func (s *Store) TemperatureLogsForRoom(ctx context.Context, roomID uuid.UUID, since time.Time) ([]domain.TemperatureLog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT room_id, time, temp FROM temperature_logs
		WHERE room_id = $1 AND time >= $2
		ORDER BY time
	`, roomID, since)
	if err != nil {
		return nil, fmt.Errorf("postgres: temperature logs for room: %w", err)
	}
	defer rows.Close()

	var logs []domain.TemperatureLog
	for rows.Next() {
		var l domain.TemperatureLog
		if err := rows.Scan(&l.RoomID, &l.Time, &l.Temp); err != nil {
			return nil, fmt.Errorf("postgres: scan temperature log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
