package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/madssf/smart-home/internal/domain"
)

func (s *Store) ListSchedules(ctx context.Context) ([]domain.Schedule, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, days FROM schedules`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []domain.Schedule
	for rows.Next() {
		sched, err := scanScheduleRow(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, sched)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range schedules {
		if err := s.fillScheduleChildren(ctx, &schedules[i]); err != nil {
			return nil, err
		}
	}
	return schedules, nil
}

func (s *Store) SchedulesForRoom(ctx context.Context, roomID uuid.UUID) ([]domain.Schedule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sc.id, sc.days FROM schedules sc
		JOIN schedule_rooms sr ON sr.schedule_id = sc.id
		WHERE sr.room_id = $1
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list schedules for room: %w", err)
	}
	defer rows.Close()

	var schedules []domain.Schedule
	for rows.Next() {
		sched, err := scanScheduleRow(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, sched)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range schedules {
		if err := s.fillScheduleChildren(ctx, &schedules[i]); err != nil {
			return nil, err
		}
	}
	return schedules, nil
}

func (s *Store) GetSchedule(ctx context.Context, id uuid.UUID) (*domain.Schedule, error) {
	var days []int16
	var schedID uuid.UUID
	err := s.pool.QueryRow(ctx, `SELECT id, days FROM schedules WHERE id = $1`, id).
		Scan(&schedID, &days)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: get schedule: %w", err)
	}
	sched := domain.Schedule{ID: schedID, Days: daysFromInts(days)}
	if err := s.fillScheduleChildren(ctx, &sched); err != nil {
		return nil, err
	}
	return &sched, nil
}

func scanScheduleRow(rows interface {
	Scan(...any) error
}) (domain.Schedule, error) {
	var sched domain.Schedule
	var days []int16
	if err := rows.Scan(&sched.ID, &days); err != nil {
		return domain.Schedule{}, fmt.Errorf("postgres: scan schedule: %w", err)
	}
	sched.Days = daysFromInts(days)
	return sched, nil
}

func (s *Store) fillScheduleChildren(ctx context.Context, sched *domain.Schedule) error {
	windowRows, err := s.pool.Query(ctx, `
		SELECT from_time, to_time FROM schedule_windows WHERE schedule_id = $1 ORDER BY position
	`, sched.ID)
	if err != nil {
		return fmt.Errorf("postgres: list schedule windows: %w", err)
	}
	defer windowRows.Close()
	for windowRows.Next() {
		var from, to pgtype.Time
		if err := windowRows.Scan(&from, &to); err != nil {
			return fmt.Errorf("postgres: scan schedule window: %w", err)
		}
		sched.Windows = append(sched.Windows, domain.Window{From: pgTimeToTime(from), To: pgTimeToTime(to)})
	}
	if err := windowRows.Err(); err != nil {
		return err
	}

	tempRows, err := s.pool.Query(ctx, `
		SELECT price_level, temp FROM schedule_temps WHERE schedule_id = $1
	`, sched.ID)
	if err != nil {
		return fmt.Errorf("postgres: list schedule temps: %w", err)
	}
	defer tempRows.Close()
	sched.Temps = map[domain.PriceLevel]float64{}
	for tempRows.Next() {
		var level int16
		var temp float64
		if err := tempRows.Scan(&level, &temp); err != nil {
			return fmt.Errorf("postgres: scan schedule temp: %w", err)
		}
		sched.Temps[domain.PriceLevel(level)] = temp
	}
	if err := tempRows.Err(); err != nil {
		return err
	}

	roomRows, err := s.pool.Query(ctx, `SELECT room_id FROM schedule_rooms WHERE schedule_id = $1`, sched.ID)
	if err != nil {
		return fmt.Errorf("postgres: list schedule rooms: %w", err)
	}
	defer roomRows.Close()
	for roomRows.Next() {
		var roomID uuid.UUID
		if err := roomRows.Scan(&roomID); err != nil {
			return fmt.Errorf("postgres: scan schedule room: %w", err)
		}
		sched.RoomIDs = append(sched.RoomIDs, roomID)
	}
	return roomRows.Err()
}

// PutSchedule upserts the schedule row and replaces every child table
// wholesale inside one transaction. This trades the original diff-based
// reconciliation (insert/delete only the rows that changed) for a simpler
// delete-all-then-reinsert; schedules are edited rarely enough that the
// extra churn on schedule_windows/schedule_temps/schedule_rooms is cheap.
func (s *Store) PutSchedule(ctx context.Context, sched domain.Schedule) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: put schedule: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO schedules (id, days)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET days = $2
	`, sched.ID, daysToInts(sched.Days))
	if err != nil {
		return fmt.Errorf("postgres: put schedule: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM schedule_windows WHERE schedule_id = $1`, sched.ID); err != nil {
		return fmt.Errorf("postgres: replace schedule windows: %w", err)
	}
	for i, w := range sched.Windows {
		if _, err := tx.Exec(ctx, `
			INSERT INTO schedule_windows (schedule_id, position, from_time, to_time) VALUES ($1, $2, $3, $4)
		`, sched.ID, i, timeToPGTime(w.From), timeToPGTime(w.To)); err != nil {
			return fmt.Errorf("postgres: insert schedule window: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM schedule_temps WHERE schedule_id = $1`, sched.ID); err != nil {
		return fmt.Errorf("postgres: replace schedule temps: %w", err)
	}
	for level, temp := range sched.Temps {
		if _, err := tx.Exec(ctx, `
			INSERT INTO schedule_temps (schedule_id, price_level, temp) VALUES ($1, $2, $3)
		`, sched.ID, int16(level), temp); err != nil {
			return fmt.Errorf("postgres: insert schedule temp: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM schedule_rooms WHERE schedule_id = $1`, sched.ID); err != nil {
		return fmt.Errorf("postgres: replace schedule rooms: %w", err)
	}
	for _, roomID := range sched.RoomIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO schedule_rooms (schedule_id, room_id) VALUES ($1, $2)
		`, sched.ID, roomID); err != nil {
			return fmt.Errorf("postgres: insert schedule room: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: put schedule: commit: %w", err)
	}
	return nil
}

func (s *Store) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: delete schedule: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"schedule_rooms", "schedule_temps", "schedule_windows"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE schedule_id = $1`, id); err != nil {
			return fmt.Errorf("postgres: delete schedule children: %w", err)
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM schedules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("postgres: delete schedule: %w", err)
	}
	return tx.Commit(ctx)
}

func daysFromInts(days []int16) map[time.Weekday]struct{} {
	out := make(map[time.Weekday]struct{}, len(days))
	for _, d := range days {
		out[time.Weekday(d)] = struct{}{}
	}
	return out
}

func daysToInts(days map[time.Weekday]struct{}) []int16 {
	out := make([]int16, 0, len(days))
	for d := range days {
		out = append(out, int16(d))
	}
	return out
}

// timeToPGTime and pgTimeToTime convert between a time-of-day (only the
// hour/minute/second of a time.Time matter, per domain.Window) and
// Postgres's `time` wire type, which pgx represents as microseconds since
// midnight rather than as time.Time.
func timeToPGTime(t time.Time) pgtype.Time {
	micros := int64(t.Hour())*int64(time.Hour/time.Microsecond) +
		int64(t.Minute())*int64(time.Minute/time.Microsecond) +
		int64(t.Second())*int64(time.Second/time.Microsecond)
	return pgtype.Time{Microseconds: micros, Valid: true}
}

func pgTimeToTime(pt pgtype.Time) time.Time {
	midnight := time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)
	return midnight.Add(time.Duration(pt.Microseconds) * time.Microsecond)
}
