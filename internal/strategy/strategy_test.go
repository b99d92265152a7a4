package strategy

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Sarobii/microme/pkg/models"
)

func testProfile() *models.PersonaProfile {
	return &models.PersonaProfile{
		TopicClusters: []models.TopicCluster{
			{Name: "technology", Keywords: []string{"software", "cloud"}, PostCount: 6},
			{Name: "professional-development", Keywords: []string{"career"}, PostCount: 2},
			{Name: "industry-insights", Keywords: []string{"market"}, PostCount: 1},
		},
		Tone: models.ToneProfile{Overall: "light", SentimentScore: 0.35},
		Cadence: models.CadenceProfile{
			PeakPostingHour: 9,
			PostsPerWeek:    3.5,
			DaysActive:      4,
		},
		Engagement: models.EngagementProfile{
			AvgLikes:       5.0,
			AvgComments:    1.4,
			AvgShares:      0.6,
			MediaTextDelta: 2.3,
		},
		DataQuality: "high",
		AnalyzedAt:  time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
	}
}

func TestGenerateRequiresProfile(t *testing.T) {
	g := NewGenerator()
	_, err := g.Generate(nil, "goal", time.Now())
	if !errors.Is(err, ErrNoProfile) {
		t.Fatalf("expected ErrNoProfile, got %v", err)
	}
}

func TestGenerateShape(t *testing.T) {
	g := NewGenerator()
	s, err := g.Generate(testProfile(), "", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Goal != DefaultGoal {
		t.Errorf("expected default goal, got %q", s.Goal)
	}
	if len(s.WeeklyPlan) != 4 {
		t.Fatalf("expected 4 plan days, got %d", len(s.WeeklyPlan))
	}
	wantDays := []string{"Monday", "Wednesday", "Friday", "Sunday"}
	for i, day := range s.WeeklyPlan {
		if day.Day != wantDays[i] {
			t.Errorf("plan slot %d: expected %s, got %s", i, wantDays[i], day.Day)
		}
	}
	if len(s.Drafts) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(s.Drafts))
	}
	if len(s.VoiceGuide) != 10 {
		t.Fatalf("expected 10 voice principles, got %d", len(s.VoiceGuide))
	}
	if !s.BasedOnProfileTimestamp.Equal(testProfile().AnalyzedAt) {
		t.Errorf("expected strategy to reference profile timestamp, got %v", s.BasedOnProfileTimestamp)
	}
}

func TestRationalesCiteProfileValues(t *testing.T) {
	g := NewGenerator()
	s, err := g.Generate(testProfile(), "build authority", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, day := range s.WeeklyPlan {
		if day.Rationale == "" {
			t.Errorf("plan slot %d has empty rationale", i)
		}
	}
	for i, p := range s.VoiceGuide {
		if p.Rationale == "" {
			t.Errorf("voice principle %d has empty rationale", i)
		}
	}

	// Top keyword comes from the highest post-count cluster.
	if !strings.Contains(s.Drafts[0].Rationale, "software") {
		t.Errorf("expected first draft rationale to cite top keyword, got %q", s.Drafts[0].Rationale)
	}
	if !strings.Contains(s.WeeklyPlan[1].Rationale, "light") {
		t.Errorf("expected tone label in rationale, got %q", s.WeeklyPlan[1].Rationale)
	}
	if !strings.Contains(s.WeeklyPlan[0].Rationale, "09:00") {
		t.Errorf("expected peak hour in rationale, got %q", s.WeeklyPlan[0].Rationale)
	}
	if !strings.Contains(s.WeeklyPlan[3].Rationale, "3.5") {
		t.Errorf("expected cadence number in rationale, got %q", s.WeeklyPlan[3].Rationale)
	}
	if !strings.Contains(s.Drafts[2].Rationale, "2.3") {
		t.Errorf("expected engagement delta in rationale, got %q", s.Drafts[2].Rationale)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	g := NewGenerator()
	now := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	a, err := g.Generate(testProfile(), "goal", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := g.Generate(testProfile(), "goal", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("expected identical output for identical profile and goal")
	}
}

func TestMediaFormatFollowsDelta(t *testing.T) {
	g := NewGenerator()
	p := testProfile()
	p.Engagement.MediaTextDelta = -1.5
	s, err := g.Generate(p, "goal", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.WeeklyPlan[0].Format != "text post" {
		t.Errorf("expected text format with negative delta, got %q", s.WeeklyPlan[0].Format)
	}
}
