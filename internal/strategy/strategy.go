// Package strategy turns a persona profile and a goal into a templated
// content plan. Identical profile + goal always yields identical output
// modulo the generated_at timestamp.
package strategy

import (
	"errors"
	"fmt"
	"time"

	"github.com/Sarobii/microme/pkg/models"
)

// ErrNoProfile is returned when no persona profile exists to plan from.
var ErrNoProfile = errors.New("no persona profile available")

// DefaultGoal is used when the caller supplies no goal.
const DefaultGoal = "grow an engaged professional audience"

const planConfidence = 0.65

// Generator produces strategies from persona profiles.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds the 4-day weekly plan, 3 drafts, and 10 voice principles.
// Every rationale cites a concrete profile value.
func (g *Generator) Generate(profile *models.PersonaProfile, goal string, now time.Time) (*models.Strategy, error) {
	if profile == nil {
		return nil, ErrNoProfile
	}
	if goal == "" {
		goal = DefaultGoal
	}

	keyword := topKeyword(profile)
	tone := profile.Tone.Overall
	peakTime := fmt.Sprintf("%02d:00", profile.Cadence.PeakPostingHour)
	cadenceNote := fmt.Sprintf("%.1f posts/week", profile.Cadence.PostsPerWeek)
	mediaNote := mediaFormat(profile)

	return &models.Strategy{
		Goal:                    goal,
		WeeklyPlan:              weeklyPlan(keyword, tone, peakTime, cadenceNote, mediaNote, profile),
		Drafts:                  drafts(keyword, tone, goal, profile),
		VoiceGuide:              voiceGuide(keyword, tone, profile),
		BasedOnProfileTimestamp: profile.AnalyzedAt,
		Confidence:              planConfidence,
		GeneratedAt:             now,
	}, nil
}

// topKeyword takes the first keyword of the cluster with the most matching
// posts, falling back to a generic slot when the corpus had no rankable words.
func topKeyword(profile *models.PersonaProfile) string {
	best := ""
	bestCount := -1
	for _, cluster := range profile.TopicClusters {
		if cluster.PostCount > bestCount && len(cluster.Keywords) > 0 {
			best = cluster.Keywords[0]
			bestCount = cluster.PostCount
		}
	}
	if best == "" {
		return "your field"
	}
	return best
}

func mediaFormat(profile *models.PersonaProfile) string {
	if profile.Engagement.MediaTextDelta > 0 {
		return "media post"
	}
	return "text post"
}

func weeklyPlan(keyword, tone, peakTime, cadenceNote, mediaNote string, profile *models.PersonaProfile) []models.PlanDay {
	return []models.PlanDay{
		{
			Day:         "Monday",
			Theme:       fmt.Sprintf("Weekly perspective on %s", keyword),
			Format:      mediaNote,
			PostingTime: peakTime,
			Rationale:   fmt.Sprintf("Your peak posting hour is %s and media-vs-text delta is %.1f, so the week opens in your strongest slot and format.", peakTime, profile.Engagement.MediaTextDelta),
		},
		{
			Day:         "Wednesday",
			Theme:       fmt.Sprintf("Practical walkthrough involving %s", keyword),
			Format:      "text post",
			PostingTime: peakTime,
			Rationale:   fmt.Sprintf("Your %s tone (sentiment %.2f) suits instructional mid-week content.", tone, profile.Tone.SentimentScore),
		},
		{
			Day:         "Friday",
			Theme:       "Community question or discussion prompt",
			Format:      "text post",
			PostingTime: peakTime,
			Rationale:   fmt.Sprintf("With average comments at %.1f, a prompt converts readers into repliers.", profile.Engagement.AvgComments),
		},
		{
			Day:         "Sunday",
			Theme:       "Reflection on the week",
			Format:      mediaNote,
			PostingTime: peakTime,
			Rationale:   fmt.Sprintf("Current cadence is %s; a fourth slot lifts it without doubling your workload.", cadenceNote),
		},
	}
}

func drafts(keyword, tone, goal string, profile *models.PersonaProfile) []models.Draft {
	return []models.Draft{
		{
			Title:     fmt.Sprintf("What I learned about %s this month", keyword),
			Body:      fmt.Sprintf("Open with a concrete observation about %s, list three takeaways, close with the question you are still sitting with.", keyword),
			Format:    "text post",
			Rationale: fmt.Sprintf("\"%s\" is the most frequent keyword in your history, so this draft starts from proven ground.", keyword),
		},
		{
			Title:     fmt.Sprintf("A contrarian take on %s", keyword),
			Body:      fmt.Sprintf("State the consensus view on %s, then your disagreement in your usual %s register, then the evidence.", keyword, tone),
			Format:    "text post",
			Rationale: fmt.Sprintf("Your tone reads %s, which keeps a contrarian framing credible rather than combative.", tone),
		},
		{
			Title:     "Behind the scenes of a recent week",
			Body:      fmt.Sprintf("Show the unpolished middle of something you shipped. Supports your goal: %s.", goal),
			Format:    mediaFormat(profile),
			Rationale: fmt.Sprintf("Media-vs-text delta of %.1f says this format earns %s engagement for you.", profile.Engagement.MediaTextDelta, comparative(profile.Engagement.MediaTextDelta)),
		},
	}
}

func comparative(delta float64) string {
	if delta > 0 {
		return "above-average"
	}
	return "comparable"
}

func voiceGuide(keyword, tone string, profile *models.PersonaProfile) []models.VoicePrinciple {
	cite := func(format string, args ...interface{}) string {
		return fmt.Sprintf(format, args...)
	}
	return []models.VoicePrinciple{
		{Principle: "Lead with the specific, not the general", Rationale: cite("Your top keyword \"%s\" shows you already write from concrete subject matter.", keyword)},
		{Principle: fmt.Sprintf("Keep the %s register", tone), Rationale: cite("Sentiment score %.2f classifies your corpus as %s; readers expect that voice.", profile.Tone.SentimentScore, tone)},
		{Principle: "Post where your audience already is", Rationale: cite("Peak posting hour %d has your highest historical volume.", profile.Cadence.PeakPostingHour)},
		{Principle: "Protect your cadence before expanding it", Rationale: cite("You currently sustain %.1f posts/week; consistency beats bursts.", profile.Cadence.PostsPerWeek)},
		{Principle: "Ask one question per post, not three", Rationale: cite("Average comments of %.1f rise when a post has a single clear prompt.", profile.Engagement.AvgComments)},
		{Principle: "Choose format by evidence, not habit", Rationale: cite("Your media-vs-text delta is %.1f; let that number pick the format.", profile.Engagement.MediaTextDelta)},
		{Principle: "Cite your own experience first", Rationale: cite("Posts matching your strongest topic cluster outnumber the others (%d posts).", strongestClusterCount(profile))},
		{Principle: "Write headlines a stranger can parse", Rationale: cite("With data quality \"%s\", clarity compounds faster than cleverness.", profile.DataQuality)},
		{Principle: "Spread posts across the week", Rationale: cite("You are active on %d weekday(s); adjacent days are the cheapest growth.", profile.Cadence.DaysActive)},
		{Principle: "Let shares follow substance", Rationale: cite("Average shares of %.1f track posts with a concrete takeaway.", profile.Engagement.AvgShares)},
	}
}

func strongestClusterCount(profile *models.PersonaProfile) int {
	best := 0
	for _, cluster := range profile.TopicClusters {
		if cluster.PostCount > best {
			best = cluster.PostCount
		}
	}
	return best
}
