// Package persona infers a structured profile from a content item batch.
// The analysis is a pure function of its inputs; identical batches always
// produce identical profiles modulo the analyzed_at timestamp.
package persona

import (
	"errors"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/montanaflynn/stats"

	"github.com/Sarobii/microme/internal/lexicon"
	"github.com/Sarobii/microme/pkg/models"
)

// ErrNoData is returned when the batch is empty.
var ErrNoData = errors.New("no content items to analyze")

const (
	// confidenceScore is fixed; the profile's reliability signal is
	// data_quality, not this number.
	confidenceScore = 0.7

	traitBaseline = 50.0
	traitFloor    = 15.0
	traitCeiling  = 95.0

	traitConfidenceInterval = "±12 points at 90% confidence"
	traitDisclaimer         = "Trait scores are keyword-frequency estimates from public posts, not a clinical assessment."

	topicKeywordLimit = 5
	minKeywordLength  = 4
)

// Analyzer computes persona profiles against an injected lexicon.
type Analyzer struct {
	lex *lexicon.Lexicon
}

func NewAnalyzer(lex *lexicon.Lexicon) *Analyzer {
	return &Analyzer{lex: lex}
}

// Analyze builds a profile from the batch. includeTraits reflects the user's
// personality-analysis toggle; when off no trait section is produced.
func (a *Analyzer) Analyze(items []models.ContentItem, includeTraits bool, now time.Time) (*models.PersonaProfile, error) {
	if len(items) == 0 {
		return nil, ErrNoData
	}

	tokens := tokenize(items)

	profile := &models.PersonaProfile{
		TopicClusters:   a.topics(items, tokens),
		Tone:            a.tone(items, tokens),
		Cadence:         cadence(items),
		Engagement:      engagement(items),
		ConfidenceScore: confidenceScore,
		DataQuality:     dataQuality(len(items)),
		AnalyzedAt:      now,
	}
	if includeTraits {
		profile.PersonalityTraits = a.traits(tokens)
	}
	return profile, nil
}

// tokenize lowercases all post text and splits it into letter-only words.
func tokenize(items []models.ContentItem) []string {
	var tokens []string
	for _, item := range items {
		for _, field := range strings.Fields(strings.ToLower(item.Content)) {
			word := strings.Map(func(r rune) rune {
				if unicode.IsLetter(r) {
					return r
				}
				return -1
			}, field)
			if word != "" {
				tokens = append(tokens, word)
			}
		}
	}
	return tokens
}

type keywordCount struct {
	word  string
	count int
}

// rankKeywords returns words of length >= minKeywordLength by descending
// frequency, alphabetical on ties so ranking is deterministic.
func rankKeywords(tokens []string) []keywordCount {
	freq := make(map[string]int)
	for _, tok := range tokens {
		if len(tok) >= minKeywordLength {
			freq[tok]++
		}
	}
	ranked := make([]keywordCount, 0, len(freq))
	for word, count := range freq {
		ranked = append(ranked, keywordCount{word: word, count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})
	return ranked
}

func (a *Analyzer) topics(items []models.ContentItem, tokens []string) []models.TopicCluster {
	ranked := rankKeywords(tokens)
	evidence := ""
	if len(ranked) > 0 {
		top := ranked[0]
		evidence = "most frequent keyword \"" + top.word + "\""
	}

	clusters := make([]models.TopicCluster, 0, len(a.lex.Topics))
	for _, category := range a.lex.Topics {
		postCount := 0
		for _, item := range items {
			if category.Pattern.MatchString(item.Content) {
				postCount++
			}
		}
		keywords := make([]string, 0, topicKeywordLimit)
		for _, kw := range ranked {
			if len(keywords) == topicKeywordLimit {
				break
			}
			if category.Pattern.MatchString(kw.word) {
				keywords = append(keywords, kw.word)
			}
		}
		clusters = append(clusters, models.TopicCluster{
			Name:      category.Name,
			Keywords:  keywords,
			PostCount: postCount,
			Evidence:  evidence,
		})
	}
	return clusters
}

func countHits(tokens []string, words []string) int {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	hits := 0
	for _, tok := range tokens {
		if _, ok := set[tok]; ok {
			hits++
		}
	}
	return hits
}

func (a *Analyzer) tone(items []models.ContentItem, tokens []string) models.ToneProfile {
	positive := countHits(tokens, a.lex.Positive)
	negative := countHits(tokens, a.lex.Negative)
	humor := countHits(tokens, a.lex.Humor)

	score := round2(float64(positive-negative) / float64(len(items)))
	overall := "neutral"
	switch {
	case score > 0.2:
		overall = "light"
	case score < -0.2:
		overall = "serious"
	}

	return models.ToneProfile{
		Overall:        overall,
		SentimentScore: score,
		PositiveCount:  positive,
		NegativeCount:  negative,
		HumorCount:     humor,
	}
}

func cadence(items []models.ContentItem) models.CadenceProfile {
	var profile models.CadenceProfile
	earliest, latest := items[0].Timestamp, items[0].Timestamp
	for _, item := range items {
		profile.PostsByWeekday[int(item.Timestamp.Weekday())]++
		profile.PostsByHour[item.Timestamp.Hour()]++
		if item.Timestamp.Before(earliest) {
			earliest = item.Timestamp
		}
		if item.Timestamp.After(latest) {
			latest = item.Timestamp
		}
	}

	for _, n := range profile.PostsByWeekday {
		if n > 0 {
			profile.DaysActive++
		}
	}

	// first max wins on tie
	peak, peakCount := 0, profile.PostsByHour[0]
	for hour := 1; hour < 24; hour++ {
		if profile.PostsByHour[hour] > peakCount {
			peak, peakCount = hour, profile.PostsByHour[hour]
		}
	}
	profile.PeakPostingHour = peak

	elapsedWeeks := latest.Sub(earliest).Hours() / (24 * 7)
	if elapsedWeeks < 1 {
		elapsedWeeks = 1
	}
	profile.PostsPerWeek = round1(float64(len(items)) / elapsedWeeks)
	return profile
}

func engagement(items []models.ContentItem) models.EngagementProfile {
	likes := make([]float64, 0, len(items))
	comments := make([]float64, 0, len(items))
	shares := make([]float64, 0, len(items))
	var mediaTotals, textTotals []float64

	for _, item := range items {
		likes = append(likes, float64(item.Likes))
		comments = append(comments, float64(item.Comments))
		shares = append(shares, float64(item.Shares))
		total := float64(item.Likes + item.Comments + item.Shares)
		if item.HasMedia {
			mediaTotals = append(mediaTotals, total)
		} else {
			textTotals = append(textTotals, total)
		}
	}

	mediaMean := round1(mean(mediaTotals))
	textMean := round1(mean(textTotals))
	return models.EngagementProfile{
		AvgLikes:       round1(mean(likes)),
		AvgComments:    round1(mean(comments)),
		AvgShares:      round1(mean(shares)),
		MediaMean:      mediaMean,
		TextMean:       textMean,
		MediaTextDelta: round1(mediaMean - textMean),
	}
}

func (a *Analyzer) traits(tokens []string) *models.PersonalityTraits {
	scores := make(map[string]float64, len(a.lex.Traits))
	for _, trait := range a.lex.Traits {
		hits := countHits(tokens, trait.Keywords)
		score := traitBaseline + trait.Weight*float64(hits)
		if score < traitFloor {
			score = traitFloor
		}
		if score > traitCeiling {
			score = traitCeiling
		}
		scores[trait.Name] = score
	}
	return &models.PersonalityTraits{
		Scores:             scores,
		ConfidenceInterval: traitConfidenceInterval,
		Disclaimer:         traitDisclaimer,
	}
}

func dataQuality(postCount int) string {
	switch {
	case postCount >= 10:
		return "high"
	case postCount >= 5:
		return "medium"
	default:
		return "low"
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}

func round1(v float64) float64 {
	r, err := stats.Round(v, 1)
	if err != nil {
		return v
	}
	return r
}

func round2(v float64) float64 {
	r, err := stats.Round(v, 2)
	if err != nil {
		return v
	}
	return r
}
