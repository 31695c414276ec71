package postgres

import (
	"context"
	"fmt"

	"github.com/madssf/smart-home/internal/domain"
)

func (s *Store) ListTempSensors(ctx context.Context) ([]domain.TempSensor, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, room_id, battery_level FROM temp_sensors`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list temp sensors: %w", err)
	}
	defer rows.Close()

	var sensors []domain.TempSensor
	for rows.Next() {
		var sensor domain.TempSensor
		if err := rows.Scan(&sensor.ID, &sensor.RoomID, &sensor.BatteryLevel); err != nil {
			return nil, fmt.Errorf("postgres: scan temp sensor: %w", err)
		}
		sensors = append(sensors, sensor)
	}
	return sensors, rows.Err()
}

func (s *Store) PutTempSensor(ctx context.Context, sensor domain.TempSensor) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO temp_sensors (id, room_id, battery_level)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET room_id = $2, battery_level = $3
	`, sensor.ID, sensor.RoomID, sensor.BatteryLevel)
	if err != nil {
		return fmt.Errorf("postgres: put temp sensor: %w", err)
	}
	return nil
}

func (s *Store) UpdateBatteryLevel(ctx context.Context, id string, level int) error {
	_, err := s.pool.Exec(ctx, `UPDATE temp_sensors SET battery_level = $2 WHERE id = $1`, id, level)
	if err != nil {
		return fmt.Errorf("postgres: update battery level: %w", err)
	}
	return nil
}

func (s *Store) DeleteTempSensor(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM temp_sensors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete temp sensor: %w", err)
	}
	return nil
}
