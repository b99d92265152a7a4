// Package simulation projects qualitative effects of a hypothetical
// content-behavior change. Scenario strings are parsed with substring and
// number heuristics; the output is a fixed-taxonomy what-if, not a forecast.
package simulation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Sarobii/microme/pkg/models"
)

// ErrNoProfile is returned when no persona profile exists to simulate against.
var ErrNoProfile = errors.New("no persona profile available")

// DefaultScenario is used when the caller supplies no scenario.
const DefaultScenario = "post twice as often for four weeks"

const disclaimer = "This is a simulation based on fixed heuristics over your historical cadence. It is not a prediction of actual performance."

var (
	perWeekPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:posts?|times?)?\s*(?:per|a|each)\s+week`)
	durationPattern = regexp.MustCompile(`(\d+)\s*weeks?`)
)

// Simulator produces simulation results from persona profiles.
type Simulator struct{}

func NewSimulator() *Simulator {
	return &Simulator{}
}

// Simulate parses the scenario against the profile's current cadence and
// builds the four effect estimates plus the fixed assumption/risk taxonomies.
func (s *Simulator) Simulate(profile *models.PersonaProfile, scenario string, now time.Time) (*models.SimulationResult, error) {
	if profile == nil {
		return nil, ErrNoProfile
	}
	if scenario == "" {
		scenario = DefaultScenario
	}

	current := profile.Cadence.PostsPerWeek
	if current <= 0 {
		current = 1
	}

	interpretation := interpret(scenario, current)
	estimates := estimate(interpretation, current, profile.DataQuality)

	return &models.SimulationResult{
		Scenario:        scenario,
		Interpretation:  interpretation,
		EffectEstimates: estimates,
		Assumptions: []string{
			"Audience composition: your current followers remain the primary audience over the simulated window.",
			"Content quality: per-post quality stays at your historical level despite the cadence change.",
			"Platform behavior: distribution mechanics do not change materially during the window.",
			"External events: no viral outliers or news cycles distort the comparison.",
		},
		Risks: risks(interpretation, current),
		ABTestPlan: models.ABTestPlan{
			Control:          "Keep your current cadence and mix for the baseline arm.",
			Treatment:        "Apply the simulated cadence and content category in the treatment arm.",
			DurationWeeks:    durationWeeks(scenario),
			PrimaryMetric:    "replies per post",
			SecondaryMetrics: []string{"reach per post", "follower growth rate", "share rate"},
			Checkpoints: []string{
				"End of week 1: confirm the treatment cadence is actually being sustained.",
				"Midpoint: compare reply and reach medians between arms.",
				"End of window: decide adopt/revert on the primary metric only.",
			},
		},
		Disclaimer:  disclaimer,
		GeneratedAt: now,
	}, nil
}

// interpret extracts a target posting frequency and content category from the
// scenario text.
func interpret(scenario string, current float64) models.ScenarioInterpretation {
	lower := strings.ToLower(scenario)

	target := current
	switch {
	case perWeekPattern.MatchString(lower):
		m := perWeekPattern.FindStringSubmatch(lower)
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			target = v
		}
	case strings.Contains(lower, "daily") || strings.Contains(lower, "every day"):
		target = 7
	case strings.Contains(lower, "twice") || strings.Contains(lower, "double"):
		target = current * 2
	case strings.Contains(lower, "half"):
		target = current * 0.5
	case strings.Contains(lower, "stop posting") || strings.Contains(lower, "pause"):
		target = 0
	}

	category := "text"
	switch {
	case strings.Contains(lower, "video"):
		category = "video"
	case strings.Contains(lower, "thread"):
		category = "thread"
	case strings.Contains(lower, "image") || strings.Contains(lower, "photo"):
		category = "image"
	}

	direction := "keeping"
	if target > current {
		direction = "raising"
	} else if target < current {
		direction = "lowering"
	}

	return models.ScenarioInterpretation{
		TargetPostsPerWeek: target,
		ContentCategory:    category,
		Summary:            direction + " posting frequency with " + category + " content",
	}
}

func durationWeeks(scenario string) int {
	if m := durationPattern.FindStringSubmatch(strings.ToLower(scenario)); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil && v > 0 {
			return v
		}
	}
	return 4
}

func direction(target, current float64) string {
	switch {
	case target > current:
		return "up"
	case target < current:
		return "down"
	default:
		return "neutral"
	}
}

func magnitude(target, current float64) string {
	ratio := target / current
	if ratio < 1 && ratio > 0 {
		ratio = 1 / ratio
	}
	if target == 0 {
		ratio = 3
	}
	switch {
	case ratio >= 2:
		return "significant"
	case ratio >= 1.3:
		return "moderate"
	default:
		return "minimal"
	}
}

func estimate(in models.ScenarioInterpretation, current float64, dataQuality string) models.EffectEstimates {
	confidence := "low"
	if dataQuality == "high" {
		confidence = "medium"
	}
	freqDirection := direction(in.TargetPostsPerWeek, current)
	freqMagnitude := magnitude(in.TargetPostsPerWeek, current)

	// Reach and authority track frequency directly. Warmth tracks the
	// content category; replies track whichever signal is stronger.
	warmthDirection := "neutral"
	warmthMagnitude := "minimal"
	if in.ContentCategory == "video" || in.ContentCategory == "image" {
		warmthDirection = "up"
		warmthMagnitude = "moderate"
	}

	repliesDirection := freqDirection
	repliesMagnitude := freqMagnitude
	if in.ContentCategory == "thread" {
		repliesDirection = "up"
		if repliesMagnitude == "minimal" {
			repliesMagnitude = "moderate"
		}
	}

	return models.EffectEstimates{
		Authority: models.EffectEstimate{
			Direction:  freqDirection,
			Magnitude:  stepDown(freqMagnitude),
			Confidence: confidence,
			Timeline:   "4-8 weeks",
		},
		Warmth: models.EffectEstimate{
			Direction:  warmthDirection,
			Magnitude:  warmthMagnitude,
			Confidence: confidence,
			Timeline:   "2-4 weeks",
		},
		Reach: models.EffectEstimate{
			Direction:  freqDirection,
			Magnitude:  freqMagnitude,
			Confidence: confidence,
			Timeline:   "1-2 weeks",
		},
		Replies: models.EffectEstimate{
			Direction:  repliesDirection,
			Magnitude:  repliesMagnitude,
			Confidence: confidence,
			Timeline:   "2-4 weeks",
		},
	}
}

// stepDown softens a magnitude by one band; authority shifts lag reach.
func stepDown(m string) string {
	switch m {
	case "significant":
		return "moderate"
	case "moderate":
		return "minimal"
	default:
		return "minimal"
	}
}

func risks(in models.ScenarioInterpretation, current float64) []models.Risk {
	sustainability := models.Risk{
		Category:    "sustainability",
		Probability: "low",
		Impact:      "medium",
		Mitigation:  "Batch-produce content ahead of the window so the cadence survives busy weeks.",
	}
	if in.TargetPostsPerWeek > current*1.5 {
		sustainability.Probability = "high"
	} else if in.TargetPostsPerWeek > current {
		sustainability.Probability = "medium"
	}

	return []models.Risk{
		sustainability,
		{
			Category:    "audience-fatigue",
			Probability: "medium",
			Impact:      "medium",
			Mitigation:  "Watch unfollow and mute rates weekly; revert if they exceed your baseline.",
		},
		{
			Category:    "quality-dilution",
			Probability: "medium",
			Impact:      "high",
			Mitigation:  "Hold a minimum bar per post; skip a slot rather than publish filler.",
		},
	}
}
