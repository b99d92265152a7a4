package models

import "time"

// RawPost is one post record supplied to the pipeline. Records arrive already
// parsed (CSV/manual/API upstream); only content is required.
type RawPost struct {
	ID        string     `json:"id,omitempty"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Likes     int        `json:"likes,omitempty"`
	Comments  int        `json:"comments,omitempty"`
	Shares    int        `json:"shares,omitempty"`
	MediaURL  string     `json:"media_url,omitempty"`
	ImageURL  string     `json:"image_url,omitempty"`
	VideoURL  string     `json:"video_url,omitempty"`
}

// ContentItem is a normalized post with derived features. Features are
// computed once at ingestion and never recomputed.
type ContentItem struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	WordCount  int       `json:"word_count"`
	EmojiCount int       `json:"emoji_count"`
	HasLink    bool      `json:"has_link"`
	HasMedia   bool      `json:"has_media"`
	Likes      int       `json:"likes"`
	Comments   int       `json:"comments"`
	Shares     int       `json:"shares"`
}

// DateRange spans the earliest and latest post timestamps in a batch.
type DateRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

// IngestionSummary describes one ingestion run's batch.
type IngestionSummary struct {
	TotalPosts     int       `json:"total_posts"`
	AvgWordCount   float64   `json:"avg_word_count"`
	TotalEmojis    int       `json:"total_emojis"`
	PostsWithLinks int       `json:"posts_with_links"`
	PostsWithMedia int       `json:"posts_with_media"`
	TotalLikes     int       `json:"total_likes"`
	TotalComments  int       `json:"total_comments"`
	TotalShares    int       `json:"total_shares"`
	DateRange      DateRange `json:"date_range"`
	UploadSource   string    `json:"upload_source,omitempty"`
}

// TopicCluster groups posts under a fixed named category.
type TopicCluster struct {
	Name      string   `json:"name"`
	Keywords  []string `json:"keywords"`
	PostCount int      `json:"post_count"`
	Evidence  string   `json:"evidence"`
}

// ToneProfile summarizes corpus sentiment.
type ToneProfile struct {
	Overall        string  `json:"overall"`
	SentimentScore float64 `json:"sentiment_score"`
	PositiveCount  int     `json:"positive_count"`
	NegativeCount  int     `json:"negative_count"`
	HumorCount     int     `json:"humor_count"`
}

// CadenceProfile summarizes posting rhythm. Weekday buckets are Sunday=0.
type CadenceProfile struct {
	PostsByWeekday  [7]int  `json:"posts_by_weekday"`
	PostsByHour     [24]int `json:"posts_by_hour"`
	DaysActive      int     `json:"days_active"`
	PeakPostingHour int     `json:"peak_posting_hour"`
	PostsPerWeek    float64 `json:"posts_per_week"`
}

// EngagementProfile holds per-metric means plus the media-vs-text split.
type EngagementProfile struct {
	AvgLikes       float64 `json:"avg_likes"`
	AvgComments    float64 `json:"avg_comments"`
	AvgShares      float64 `json:"avg_shares"`
	MediaMean      float64 `json:"media_engagement_mean"`
	TextMean       float64 `json:"text_engagement_mean"`
	MediaTextDelta float64 `json:"media_vs_text_delta"`
}

// PersonalityTraits carries lexicon-derived trait scores. Only produced when
// the user has opted in to personality analysis.
type PersonalityTraits struct {
	Scores             map[string]float64 `json:"scores"`
	ConfidenceInterval string             `json:"confidence_interval"`
	Disclaimer         string             `json:"disclaimer"`
}

// PersonaProfile is the persona inference output. Immutable once created;
// each run appends a new profile and readers take the most recent.
type PersonaProfile struct {
	TopicClusters     []TopicCluster     `json:"topic_clusters"`
	Tone              ToneProfile        `json:"tone"`
	Cadence           CadenceProfile     `json:"cadence"`
	Engagement        EngagementProfile  `json:"engagement"`
	PersonalityTraits *PersonalityTraits `json:"personality_traits,omitempty"`
	ConfidenceScore   float64            `json:"confidence_score"`
	DataQuality       string             `json:"data_quality"`
	AnalyzedAt        time.Time          `json:"analyzed_at"`
}

// PlanDay is one slot in the weekly posting plan.
type PlanDay struct {
	Day         string `json:"day"`
	Theme       string `json:"theme"`
	Format      string `json:"format"`
	PostingTime string `json:"posting_time"`
	Rationale   string `json:"rationale"`
}

// Draft is one suggested content piece.
type Draft struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Format    string `json:"format"`
	Rationale string `json:"rationale"`
}

// VoicePrinciple is one voice-guide entry with its supporting evidence.
type VoicePrinciple struct {
	Principle string `json:"principle"`
	Rationale string `json:"rationale"`
}

// Strategy is the templated content plan derived from a persona profile.
type Strategy struct {
	Goal                    string           `json:"goal"`
	WeeklyPlan              []PlanDay        `json:"weekly_plan"`
	Drafts                  []Draft          `json:"drafts"`
	VoiceGuide              []VoicePrinciple `json:"voice_guide"`
	BasedOnProfileTimestamp time.Time        `json:"based_on_profile_timestamp"`
	Confidence              float64          `json:"confidence"`
	GeneratedAt             time.Time        `json:"generated_at"`
}

// PrivacyToggleSnapshot captures one toggle's state and its impact text.
type PrivacyToggleSnapshot struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Impact  string `json:"impact"`
}

// TransparencyRecord explains what data was used and how inferences were
// made. Append-only; user_reviewed is the only mutable field (false→true).
type TransparencyRecord struct {
	DataSources           []string                `json:"data_sources"`
	InferenceExplanations map[string]string       `json:"inference_explanations"`
	PrivacyToggles        []PrivacyToggleSnapshot `json:"privacy_toggles_snapshot"`
	OversightCheckpoints  []string                `json:"oversight_checkpoints"`
	ComplianceNotes       []string                `json:"compliance_notes"`
	UserReviewed          bool                    `json:"user_reviewed"`
	GeneratedAt           time.Time               `json:"generated_at"`
}

// ScenarioInterpretation is the parsed reading of a what-if scenario string.
type ScenarioInterpretation struct {
	TargetPostsPerWeek float64 `json:"target_posts_per_week"`
	ContentCategory    string  `json:"content_category"`
	Summary            string  `json:"summary"`
}

// EffectEstimate is one qualitative projection.
type EffectEstimate struct {
	Direction  string `json:"direction"`
	Magnitude  string `json:"magnitude"`
	Confidence string `json:"confidence"`
	Timeline   string `json:"timeline"`
}

// EffectEstimates covers the four projected dimensions.
type EffectEstimates struct {
	Authority EffectEstimate `json:"authority"`
	Warmth    EffectEstimate `json:"warmth"`
	Reach     EffectEstimate `json:"reach"`
	Replies   EffectEstimate `json:"replies"`
}

// Risk is one entry in the simulation risk taxonomy.
type Risk struct {
	Category    string `json:"category"`
	Probability string `json:"probability"`
	Impact      string `json:"impact"`
	Mitigation  string `json:"mitigation"`
}

// ABTestPlan describes how to validate a simulated change empirically.
type ABTestPlan struct {
	Control          string   `json:"control"`
	Treatment        string   `json:"treatment"`
	DurationWeeks    int      `json:"duration_weeks"`
	PrimaryMetric    string   `json:"primary_metric"`
	SecondaryMetrics []string `json:"secondary_metrics"`
	Checkpoints      []string `json:"checkpoints"`
}

// SimulationResult is a qualitative what-if projection. Append-only.
type SimulationResult struct {
	Scenario        string                 `json:"scenario"`
	Interpretation  ScenarioInterpretation `json:"scenario_interpretation"`
	EffectEstimates EffectEstimates        `json:"effect_estimates"`
	Assumptions     []string               `json:"assumptions"`
	Risks           []Risk                 `json:"risks"`
	ABTestPlan      ABTestPlan             `json:"ab_test_plan"`
	Disclaimer      string                 `json:"disclaimer"`
	GeneratedAt     time.Time              `json:"generated_at"`
}

// UserSettings holds the three privacy toggles. Absent rows default to
// everything enabled.
type UserSettings struct {
	AllowContentAnalysis     bool      `json:"allow_content_analysis"`
	AllowPersonalityAnalysis bool      `json:"allow_personality_analysis"`
	AllowStrategyGeneration  bool      `json:"allow_strategy_generation"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// DefaultUserSettings returns the all-enabled defaults used when a user has
// never saved settings.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		AllowContentAnalysis:     true,
		AllowPersonalityAnalysis: true,
		AllowStrategyGeneration:  true,
	}
}
