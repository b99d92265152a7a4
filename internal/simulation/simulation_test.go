package simulation

import (
	"errors"
	"testing"
	"time"

	"github.com/Sarobii/microme/pkg/models"
)

func profileWithCadence(postsPerWeek float64, quality string) *models.PersonaProfile {
	return &models.PersonaProfile{
		Cadence:     models.CadenceProfile{PostsPerWeek: postsPerWeek},
		DataQuality: quality,
	}
}

func TestSimulateRequiresProfile(t *testing.T) {
	s := NewSimulator()
	_, err := s.Simulate(nil, "anything", time.Now())
	if !errors.Is(err, ErrNoProfile) {
		t.Fatalf("expected ErrNoProfile, got %v", err)
	}
}

func TestSimulateDefaultScenario(t *testing.T) {
	s := NewSimulator()
	result, err := s.Simulate(profileWithCadence(3, "high"), "", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Scenario != DefaultScenario {
		t.Errorf("expected default scenario, got %q", result.Scenario)
	}
	// "twice as often" doubles the current 3/week.
	if result.Interpretation.TargetPostsPerWeek != 6 {
		t.Errorf("expected target 6, got %v", result.Interpretation.TargetPostsPerWeek)
	}
}

func TestInterpretScenarios(t *testing.T) {
	cases := []struct {
		scenario     string
		current      float64
		wantTarget   float64
		wantCategory string
	}{
		{"post 5 times per week", 2, 5, "text"},
		{"publish 3 posts a week as threads", 2, 3, "thread"},
		{"post daily with video content", 2, 7, "video"},
		{"double my output", 2.5, 5, "text"},
		{"cut back to half with more photos", 4, 2, "image"},
		{"keep everything the same", 3, 3, "text"},
		{"pause for a month", 3, 0, "text"},
	}
	for _, tc := range cases {
		got := interpret(tc.scenario, tc.current)
		if got.TargetPostsPerWeek != tc.wantTarget {
			t.Errorf("%q: target = %v, want %v", tc.scenario, got.TargetPostsPerWeek, tc.wantTarget)
		}
		if got.ContentCategory != tc.wantCategory {
			t.Errorf("%q: category = %q, want %q", tc.scenario, got.ContentCategory, tc.wantCategory)
		}
	}
}

func TestEffectEstimatesDirectionAndMagnitude(t *testing.T) {
	s := NewSimulator()
	result, err := s.Simulate(profileWithCadence(2, "high"), "post 6 times per week", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := result.EffectEstimates
	if e.Reach.Direction != "up" || e.Reach.Magnitude != "significant" {
		t.Errorf("unexpected reach estimate: %+v", e.Reach)
	}
	if e.Authority.Direction != "up" || e.Authority.Magnitude != "moderate" {
		t.Errorf("expected authority one band below reach, got %+v", e.Authority)
	}
	if e.Replies.Direction != "up" {
		t.Errorf("unexpected replies estimate: %+v", e.Replies)
	}
	if e.Reach.Confidence != "medium" {
		t.Errorf("expected medium confidence for high data quality, got %q", e.Reach.Confidence)
	}
}

func TestWarmthTracksContentCategory(t *testing.T) {
	s := NewSimulator()
	result, err := s.Simulate(profileWithCadence(3, "low"), "same cadence but with video", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.EffectEstimates.Warmth.Direction != "up" {
		t.Errorf("expected warmth up for video, got %+v", result.EffectEstimates.Warmth)
	}
	if result.EffectEstimates.Reach.Direction != "neutral" {
		t.Errorf("expected neutral reach for unchanged cadence, got %+v", result.EffectEstimates.Reach)
	}
	if result.EffectEstimates.Warmth.Confidence != "low" {
		t.Errorf("expected low confidence for low data quality, got %q", result.EffectEstimates.Warmth.Confidence)
	}
}

func TestFixedTaxonomiesAndDisclaimer(t *testing.T) {
	s := NewSimulator()
	result, err := s.Simulate(profileWithCadence(2, "medium"), "post daily for 6 weeks", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Assumptions) != 4 {
		t.Errorf("expected 4 assumptions, got %d", len(result.Assumptions))
	}
	if len(result.Risks) != 3 {
		t.Errorf("expected 3 risks, got %d", len(result.Risks))
	}
	for _, r := range result.Risks {
		if r.Probability == "" || r.Impact == "" || r.Mitigation == "" {
			t.Errorf("risk %s missing bands or mitigation", r.Category)
		}
	}
	if result.ABTestPlan.DurationWeeks != 6 {
		t.Errorf("expected duration parsed from scenario, got %d", result.ABTestPlan.DurationWeeks)
	}
	if result.Disclaimer == "" {
		t.Error("expected fixed disclaimer")
	}
	// Raising 2/week to daily should flag sustainability as high probability.
	if result.Risks[0].Category != "sustainability" || result.Risks[0].Probability != "high" {
		t.Errorf("unexpected sustainability risk: %+v", result.Risks[0])
	}
}
