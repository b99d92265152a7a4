// Package ingest normalizes raw posts into content items with derived
// features and replaces the user's stored batch.
package ingest

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/Sarobii/microme/pkg/logging"
	"github.com/Sarobii/microme/pkg/models"
)

// ContentReplacer is the slice of the store this stage writes through.
type ContentReplacer interface {
	ReplaceContentItems(ctx context.Context, userID string, items []models.ContentItem) error
}

var linkPattern = regexp.MustCompile(`https?://`)

// emojiRanges covers the Unicode blocks counted as emoji. Features are
// derived once here and never recomputed downstream.
var emojiRanges = [][2]rune{
	{0x1F300, 0x1F5FF},
	{0x1F600, 0x1F64F},
	{0x1F680, 0x1F6FF},
	{0x1F900, 0x1F9FF},
	{0x2600, 0x26FF},
	{0x2700, 0x27BF},
}

// Service runs feature extraction and batch replacement.
type Service struct {
	store  ContentReplacer
	logger logging.Logger
}

func NewService(st ContentReplacer, logger logging.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// Run normalizes the batch and replaces the user's content items. Missing ids
// are generated from the run id so they are unique within the run; missing
// timestamps default to the run clock.
func (s *Service) Run(ctx context.Context, userID, runID string, posts []models.RawPost, uploadSource string, now time.Time) ([]models.ContentItem, *models.IngestionSummary, error) {
	items := make([]models.ContentItem, 0, len(posts))
	for i, post := range posts {
		items = append(items, normalize(post, runID, i, now))
	}

	if err := s.store.ReplaceContentItems(ctx, userID, items); err != nil {
		return nil, nil, fmt.Errorf("failed to persist content batch: %w", err)
	}

	summary := summarize(items, uploadSource)
	s.logger.WithFields(logging.Fields{
		"user_id":     userID,
		"total_posts": summary.TotalPosts,
		"source":      uploadSource,
	}).Info("Content batch ingested")

	return items, summary, nil
}

func normalize(post models.RawPost, runID string, index int, now time.Time) models.ContentItem {
	id := post.ID
	if id == "" {
		id = fmt.Sprintf("%s-%d", runID, index)
	}
	ts := now
	if post.Timestamp != nil {
		ts = *post.Timestamp
	}
	return models.ContentItem{
		ID:         id,
		Content:    post.Content,
		Timestamp:  ts,
		WordCount:  len(strings.Fields(post.Content)),
		EmojiCount: countEmoji(post.Content),
		HasLink:    linkPattern.MatchString(post.Content),
		HasMedia:   post.MediaURL != "" || post.ImageURL != "" || post.VideoURL != "",
		Likes:      post.Likes,
		Comments:   post.Comments,
		Shares:     post.Shares,
	}
}

func countEmoji(text string) int {
	count := 0
	for _, r := range text {
		for _, rng := range emojiRanges {
			if r >= rng[0] && r <= rng[1] {
				count++
				break
			}
		}
	}
	return count
}

func summarize(items []models.ContentItem, uploadSource string) *models.IngestionSummary {
	summary := &models.IngestionSummary{
		TotalPosts:   len(items),
		UploadSource: uploadSource,
	}
	if len(items) == 0 {
		return summary
	}

	wordCounts := make([]float64, 0, len(items))
	earliest, latest := items[0].Timestamp, items[0].Timestamp
	for _, item := range items {
		wordCounts = append(wordCounts, float64(item.WordCount))
		summary.TotalEmojis += item.EmojiCount
		if item.HasLink {
			summary.PostsWithLinks++
		}
		if item.HasMedia {
			summary.PostsWithMedia++
		}
		summary.TotalLikes += item.Likes
		summary.TotalComments += item.Comments
		summary.TotalShares += item.Shares
		if item.Timestamp.Before(earliest) {
			earliest = item.Timestamp
		}
		if item.Timestamp.After(latest) {
			latest = item.Timestamp
		}
	}

	if mean, err := stats.Mean(wordCounts); err == nil {
		if rounded, err := stats.Round(mean, 1); err == nil {
			summary.AvgWordCount = rounded
		}
	}
	summary.DateRange = models.DateRange{Earliest: earliest, Latest: latest}
	return summary
}
