// Package transparency builds the explanation record describing what data
// was used and how each inference was made. It runs on every pipeline
// invocation regardless of upstream outcomes.
package transparency

import (
	"fmt"
	"time"

	"github.com/Sarobii/microme/pkg/models"
)

// Builder assembles transparency records.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build produces a fixed-shape record. profile and strategy may be nil when
// the corresponding stages have never produced output for this user.
func (b *Builder) Build(settings *models.UserSettings, profile *models.PersonaProfile, strategy *models.Strategy, now time.Time) *models.TransparencyRecord {
	if settings == nil {
		defaults := models.DefaultUserSettings()
		settings = &defaults
	}

	return &models.TransparencyRecord{
		DataSources:           dataSources(profile, strategy),
		InferenceExplanations: explanations(settings),
		PrivacyToggles:        toggleSnapshot(settings),
		OversightCheckpoints: []string{
			"Review your persona profile after each analysis run and delete it if it misrepresents you.",
			"Strategy suggestions are drafts for your judgment, never auto-published.",
			"Personality analysis can be disabled at any time; existing trait scores stop being produced immediately.",
			"Mark this record as reviewed once you have read it so the audit trail reflects your oversight.",
		},
		ComplianceNotes: []string{
			"All analysis runs only on post history you explicitly uploaded; no external accounts are crawled.",
			"Artifacts are stored per-user and are not shared with other users or third parties.",
			"You may request deletion of all stored artifacts; deletion removes content items, profiles, strategies, simulations, and these records.",
		},
		UserReviewed: false,
		GeneratedAt:  now,
	}
}

func dataSources(profile *models.PersonaProfile, strategy *models.Strategy) []string {
	sources := []string{
		"Uploaded post history: text content, timestamps, and per-post like/comment/share counts.",
		"Derived features computed at ingestion: word counts, emoji counts, link and media flags.",
	}
	if profile != nil {
		sources = append(sources, fmt.Sprintf("Persona profile from %s (data quality: %s).", profile.AnalyzedAt.Format("2006-01-02"), profile.DataQuality))
	} else {
		sources = append(sources, "No persona profile has been produced yet.")
	}
	if strategy != nil {
		sources = append(sources, fmt.Sprintf("Strategy generated from the profile dated %s.", strategy.BasedOnProfileTimestamp.Format("2006-01-02")))
	} else {
		sources = append(sources, "No strategy has been generated yet.")
	}
	return sources
}

func explanations(settings *models.UserSettings) map[string]string {
	personality := "Personality analysis is disabled, so no trait scores are computed from your posts."
	if settings.AllowPersonalityAnalysis {
		personality = "Trait scores start from a neutral baseline of 50 and move with weighted counts of trait-related keywords in your posts, clamped to a fixed range. They are keyword-frequency estimates, not psychological assessments."
	}
	return map[string]string{
		"ingestion":   "Each uploaded post is normalized once: words are counted by whitespace, emoji by Unicode range, and links/media by simple pattern checks. Nothing is inferred at this step.",
		"persona":     "Topics come from keyword frequency matched against three fixed categories; tone from fixed positive/negative word lists; cadence and engagement are plain arithmetic over timestamps and counts.",
		"personality": personality,
		"strategy":    "The weekly plan, drafts, and voice guide are filled from a fixed template using values from your persona profile. Every recommendation cites the profile value it is based on.",
		"simulation":  "What-if projections compare a parsed target posting frequency against your current cadence using fixed rules. They are qualitative scenarios, not predictions.",
	}
}

func toggleSnapshot(settings *models.UserSettings) []models.PrivacyToggleSnapshot {
	impact := func(enabled bool, on, off string) string {
		if enabled {
			return on
		}
		return off
	}
	return []models.PrivacyToggleSnapshot{
		{
			Name:    "allow_content_analysis",
			Enabled: settings.AllowContentAnalysis,
			Impact: impact(settings.AllowContentAnalysis,
				"Your post text is analyzed for topics, tone, and cadence.",
				"Post text is stored but not analyzed; persona profiles will not be produced."),
		},
		{
			Name:    "allow_personality_analysis",
			Enabled: settings.AllowPersonalityAnalysis,
			Impact: impact(settings.AllowPersonalityAnalysis,
				"Trait scores are estimated from keyword frequencies in your posts.",
				"No personality traits are computed or stored."),
		},
		{
			Name:    "allow_strategy_generation",
			Enabled: settings.AllowStrategyGeneration,
			Impact: impact(settings.AllowStrategyGeneration,
				"Content strategies are generated from your persona profile.",
				"No strategies are generated; existing ones remain readable."),
		},
	}
}
