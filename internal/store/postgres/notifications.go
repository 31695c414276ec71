package postgres

import (
	"context"
	"fmt"

	"github.com/madssf/smart-home/internal/domain"
)

func (s *Store) GetNotificationSettings(ctx context.Context) (*domain.NotificationSettings, error) {
	var n domain.NotificationSettings
	err := s.pool.QueryRow(ctx, `
		SELECT max_consumption, max_consumption_timeout_minutes, ntfy_topic
		FROM notification_settings WHERE id = true
	`).Scan(&n.MaxConsumption, &n.MaxConsumptionTimeoutMinutes, &n.NtfyTopic)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: get notification settings: %w", err)
	}
	return &n, nil
}

func (s *Store) PutNotificationSettings(ctx context.Context, n domain.NotificationSettings) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO notification_settings (id, max_consumption, max_consumption_timeout_minutes, ntfy_topic)
		VALUES (true, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET max_consumption = $1, max_consumption_timeout_minutes = $2, ntfy_topic = $3
	`, n.MaxConsumption, n.MaxConsumptionTimeoutMinutes, n.NtfyTopic)
	if err != nil {
		return fmt.Errorf("postgres: put notification settings: %w", err)
	}
	return nil
}
