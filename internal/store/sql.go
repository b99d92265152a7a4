package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Sarobii/microme/pkg/models"
)

// SQLStore implements Store on Postgres.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates a Postgres-backed store.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// EnsureSchema creates the service tables if they do not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS content_items (
			user_id TEXT NOT NULL,
			id TEXT NOT NULL,
			content TEXT NOT NULL,
			posted_at TIMESTAMPTZ NOT NULL,
			word_count INT NOT NULL,
			emoji_count INT NOT NULL,
			has_link BOOLEAN NOT NULL,
			has_media BOOLEAN NOT NULL,
			likes INT NOT NULL,
			comments INT NOT NULL,
			shares INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (user_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS persona_profiles (
			user_id TEXT NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS persona_profiles_user_created_idx
			ON persona_profiles (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS strategies (
			user_id TEXT NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS strategies_user_created_idx
			ON strategies (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS transparency_records (
			user_id TEXT NOT NULL,
			payload JSONB NOT NULL,
			user_reviewed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS transparency_records_user_created_idx
			ON transparency_records (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS simulation_results (
			user_id TEXT NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS simulation_results_user_created_idx
			ON simulation_results (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS user_settings (
			user_id TEXT PRIMARY KEY,
			allow_content_analysis BOOLEAN NOT NULL DEFAULT TRUE,
			allow_personality_analysis BOOLEAN NOT NULL DEFAULT TRUE,
			allow_strategy_generation BOOLEAN NOT NULL DEFAULT TRUE,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// ReplaceContentItems swaps the user's batch in one transaction. At most one
// active batch exists per user at any time.
func (s *SQLStore) ReplaceContentItems(ctx context.Context, userID string, items []models.ContentItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM content_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear content items: %w", err)
	}

	for _, item := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO content_items
				(user_id, id, content, posted_at, word_count, emoji_count, has_link, has_media, likes, comments, shares)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			userID, item.ID, item.Content, item.Timestamp,
			item.WordCount, item.EmojiCount, item.HasLink, item.HasMedia,
			item.Likes, item.Comments, item.Shares,
		)
		if err != nil {
			return fmt.Errorf("failed to insert content item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit content items: %w", err)
	}
	return nil
}

// ListContentItems returns the user's batch, most recent post first.
func (s *SQLStore) ListContentItems(ctx context.Context, userID string) ([]models.ContentItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, posted_at, word_count, emoji_count, has_link, has_media, likes, comments, shares
		FROM content_items
		WHERE user_id = $1
		ORDER BY posted_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query content items: %w", err)
	}
	defer rows.Close()

	items := []models.ContentItem{}
	for rows.Next() {
		var item models.ContentItem
		if err := rows.Scan(&item.ID, &item.Content, &item.Timestamp,
			&item.WordCount, &item.EmojiCount, &item.HasLink, &item.HasMedia,
			&item.Likes, &item.Comments, &item.Shares); err != nil {
			return nil, fmt.Errorf("failed to scan content item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLStore) savePayload(ctx context.Context, table, userID string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", table, err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (user_id, payload) VALUES ($1, $2)`, table)
	if _, err := s.db.ExecContext(ctx, query, userID, data); err != nil {
		return fmt.Errorf("failed to insert %s row: %w", table, err)
	}
	return nil
}

func (s *SQLStore) latestPayload(ctx context.Context, table, userID string, out interface{}) error {
	query := fmt.Sprintf(`
		SELECT payload FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, table)
	var data []byte
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&data)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query latest %s row: %w", table, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", table, err)
	}
	return nil
}

func (s *SQLStore) SavePersonaProfile(ctx context.Context, userID string, profile *models.PersonaProfile) error {
	return s.savePayload(ctx, "persona_profiles", userID, profile)
}

func (s *SQLStore) LatestPersonaProfile(ctx context.Context, userID string) (*models.PersonaProfile, error) {
	var profile models.PersonaProfile
	if err := s.latestPayload(ctx, "persona_profiles", userID, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *SQLStore) SaveStrategy(ctx context.Context, userID string, strategy *models.Strategy) error {
	return s.savePayload(ctx, "strategies", userID, strategy)
}

func (s *SQLStore) LatestStrategy(ctx context.Context, userID string) (*models.Strategy, error) {
	var strategy models.Strategy
	if err := s.latestPayload(ctx, "strategies", userID, &strategy); err != nil {
		return nil, err
	}
	return &strategy, nil
}

// SaveTransparencyRecord stores a record; user_reviewed lives in its own
// column so the review flip never rewrites the payload.
func (s *SQLStore) SaveTransparencyRecord(ctx context.Context, userID string, record *models.TransparencyRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal transparency payload: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transparency_records (user_id, payload, user_reviewed)
		VALUES ($1, $2, $3)`,
		userID, data, record.UserReviewed)
	if err != nil {
		return fmt.Errorf("failed to insert transparency record: %w", err)
	}
	return nil
}

func (s *SQLStore) LatestTransparencyRecord(ctx context.Context, userID string) (*models.TransparencyRecord, error) {
	var data []byte
	var reviewed bool
	err := s.db.QueryRowContext(ctx, `
		SELECT payload, user_reviewed FROM transparency_records
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, userID).Scan(&data, &reviewed)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest transparency record: %w", err)
	}
	var record models.TransparencyRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transparency payload: %w", err)
	}
	record.UserReviewed = reviewed
	return &record, nil
}

// MarkTransparencyReviewed flips user_reviewed on the latest record.
// Idempotent; once set the flag never reverts.
func (s *SQLStore) MarkTransparencyReviewed(ctx context.Context, userID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE transparency_records
		SET user_reviewed = TRUE
		WHERE user_id = $1
		  AND created_at = (
			SELECT MAX(created_at) FROM transparency_records WHERE user_id = $1
		  )`, userID)
	if err != nil {
		return fmt.Errorf("failed to mark transparency record reviewed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) SaveSimulationResult(ctx context.Context, userID string, result *models.SimulationResult) error {
	return s.savePayload(ctx, "simulation_results", userID, result)
}

func (s *SQLStore) LatestSimulationResult(ctx context.Context, userID string) (*models.SimulationResult, error) {
	var result models.SimulationResult
	if err := s.latestPayload(ctx, "simulation_results", userID, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUserSettings returns the user's toggles, defaulting to all-enabled when
// no row exists.
func (s *SQLStore) GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.QueryRowContext(ctx, `
		SELECT allow_content_analysis, allow_personality_analysis, allow_strategy_generation, updated_at
		FROM user_settings
		WHERE user_id = $1`, userID).Scan(
		&settings.AllowContentAnalysis,
		&settings.AllowPersonalityAnalysis,
		&settings.AllowStrategyGeneration,
		&settings.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		defaults := models.DefaultUserSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user settings: %w", err)
	}
	return &settings, nil
}

func (s *SQLStore) UpdateUserSettings(ctx context.Context, userID string, settings *models.UserSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings
			(user_id, allow_content_analysis, allow_personality_analysis, allow_strategy_generation, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE SET
			allow_content_analysis = EXCLUDED.allow_content_analysis,
			allow_personality_analysis = EXCLUDED.allow_personality_analysis,
			allow_strategy_generation = EXCLUDED.allow_strategy_generation,
			updated_at = now()`,
		userID, settings.AllowContentAnalysis, settings.AllowPersonalityAnalysis, settings.AllowStrategyGeneration)
	if err != nil {
		return fmt.Errorf("failed to upsert user settings: %w", err)
	}
	return nil
}
