package store

import (
	"context"
	"errors"

	"github.com/Sarobii/microme/pkg/models"
)

// ErrNotFound is returned when a user has no stored artifact of the
// requested kind.
var ErrNotFound = errors.New("not found")

// Store is the per-user artifact store. Content items are replaced
// wholesale; every other artifact is append-only with latest-wins reads.
type Store interface {
	ReplaceContentItems(ctx context.Context, userID string, items []models.ContentItem) error
	ListContentItems(ctx context.Context, userID string) ([]models.ContentItem, error)

	SavePersonaProfile(ctx context.Context, userID string, profile *models.PersonaProfile) error
	LatestPersonaProfile(ctx context.Context, userID string) (*models.PersonaProfile, error)

	SaveStrategy(ctx context.Context, userID string, strategy *models.Strategy) error
	LatestStrategy(ctx context.Context, userID string) (*models.Strategy, error)

	SaveTransparencyRecord(ctx context.Context, userID string, record *models.TransparencyRecord) error
	LatestTransparencyRecord(ctx context.Context, userID string) (*models.TransparencyRecord, error)
	MarkTransparencyReviewed(ctx context.Context, userID string) error

	SaveSimulationResult(ctx context.Context, userID string, result *models.SimulationResult) error
	LatestSimulationResult(ctx context.Context, userID string) (*models.SimulationResult, error)

	GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error)
	UpdateUserSettings(ctx context.Context, userID string, settings *models.UserSettings) error
}
