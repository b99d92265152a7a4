package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Sarobii/microme/pkg/models"
)

func TestReplaceContentItemsDeletesThenInserts(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	s := NewSQLStore(db)
	items := []models.ContentItem{
		{ID: "run-0", Content: "hello world", Timestamp: time.Now(), WordCount: 2},
		{ID: "run-1", Content: "second post", Timestamp: time.Now(), WordCount: 2},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM content_items`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO content_items`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO content_items`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.ReplaceContentItems(context.Background(), "user-1", items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReplaceContentItemsRollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	s := NewSQLStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM content_items`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO content_items`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = s.ReplaceContentItems(context.Background(), "user-1", []models.ContentItem{{ID: "a"}})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLatestPersonaProfile(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	s := NewSQLStore(db)
	want := models.PersonaProfile{DataQuality: "high", ConfidenceScore: 0.7}
	payload, _ := json.Marshal(want)

	mock.ExpectQuery(`SELECT payload FROM persona_profiles`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := s.LatestPersonaProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DataQuality != "high" || got.ConfidenceScore != 0.7 {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestLatestPersonaProfileNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	s := NewSQLStore(db)
	mock.ExpectQuery(`SELECT payload FROM persona_profiles`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	_, err = s.LatestPersonaProfile(context.Background(), "user-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkTransparencyReviewed(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	s := NewSQLStore(db)
	mock.ExpectExec(`UPDATE transparency_records`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.MarkTransparencyReviewed(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMarkTransparencyReviewedNoRecord(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	s := NewSQLStore(db)
	mock.ExpectExec(`UPDATE transparency_records`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = s.MarkTransparencyReviewed(context.Background(), "user-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLatestTransparencyRecordOverlaysReviewedColumn(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	s := NewSQLStore(db)
	payload, _ := json.Marshal(models.TransparencyRecord{UserReviewed: false})

	mock.ExpectQuery(`SELECT payload, user_reviewed FROM transparency_records`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload", "user_reviewed"}).AddRow(payload, true))

	got, err := s.LatestTransparencyRecord(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.UserReviewed {
		t.Fatal("expected user_reviewed column to win over payload")
	}
}

func TestGetUserSettingsDefaultsWhenMissing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	s := NewSQLStore(db)
	mock.ExpectQuery(`SELECT allow_content_analysis`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"allow_content_analysis", "allow_personality_analysis", "allow_strategy_generation", "updated_at"}))

	settings, err := s.GetUserSettings(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !settings.AllowContentAnalysis || !settings.AllowPersonalityAnalysis || !settings.AllowStrategyGeneration {
		t.Fatalf("expected all-enabled defaults, got %+v", settings)
	}
}

func TestUpdateUserSettingsUpserts(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	s := NewSQLStore(db)
	mock.ExpectExec(`INSERT INTO user_settings`).
		WithArgs("user-1", true, false, true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = s.UpdateUserSettings(context.Background(), "user-1", &models.UserSettings{
		AllowContentAnalysis:     true,
		AllowPersonalityAnalysis: false,
		AllowStrategyGeneration:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
