// Package pipeline sequences the analytical stages for one run: ingestion,
// persona inference, strategy generation, transparency, and simulation.
// Execution is best-effort and sequential; a stage failure never aborts the
// remaining eligible stages.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Sarobii/microme/internal/ingest"
	"github.com/Sarobii/microme/internal/persona"
	"github.com/Sarobii/microme/internal/simulation"
	"github.com/Sarobii/microme/internal/store"
	"github.com/Sarobii/microme/internal/strategy"
	"github.com/Sarobii/microme/internal/transparency"
	"github.com/Sarobii/microme/pkg/logging"
	"github.com/Sarobii/microme/pkg/models"
)

// Request is one orchestrator invocation.
type Request struct {
	Posts        []models.RawPost `json:"posts,omitempty"`
	UploadSource string           `json:"upload_source,omitempty"`
	Goal         string           `json:"goal,omitempty"`
	Scenario     string           `json:"scenario,omitempty"`
}

// StageOutputs carries whatever each stage produced this run.
type StageOutputs struct {
	Ingestion    *models.IngestionSummary   `json:"ingestion,omitempty"`
	Persona      *models.PersonaProfile     `json:"persona,omitempty"`
	Strategy     *models.Strategy           `json:"strategy,omitempty"`
	Transparency *models.TransparencyRecord `json:"transparency,omitempty"`
	Simulation   *models.SimulationResult   `json:"simulation,omitempty"`
}

// Response is the aggregated run summary returned to the client.
type Response struct {
	Status         string       `json:"status"`
	StepsCompleted []string     `json:"steps_completed"`
	CompletionRate int          `json:"completion_rate"`
	Errors         []string     `json:"errors"`
	StageOutputs   StageOutputs `json:"stage_outputs"`
	NextActions    []string     `json:"next_actions"`
}

// Orchestrator wires the five stages to the store and runs them in order.
type Orchestrator struct {
	store        store.Store
	ingest       *ingest.Service
	analyzer     *persona.Analyzer
	generator    *strategy.Generator
	transparency *transparency.Builder
	simulator    *simulation.Simulator
	logger       logging.Logger
	clock        func() time.Time
}

func NewOrchestrator(st store.Store, ing *ingest.Service, an *persona.Analyzer, gen *strategy.Generator, tr *transparency.Builder, sim *simulation.Simulator, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		store:        st,
		ingest:       ing,
		analyzer:     an,
		generator:    gen,
		transparency: tr,
		simulator:    sim,
		logger:       logger,
		clock:        time.Now,
	}
}

// Run executes one best-effort pipeline invocation for the user. It never
// returns an error: every failure is folded into the response summary.
func (o *Orchestrator) Run(ctx context.Context, userID string, req Request) *Response {
	started := o.clock()
	now := started
	runID := uuid.New().String()

	results := map[string]StageResult{}
	for _, name := range stageOrder {
		results[name] = NotAttempted()
	}
	var errs []string
	fail := func(stage string, err error) {
		results[stage] = Failed(err)
		errs = append(errs, stage+": "+err.Error())
	}

	settings, err := o.store.GetUserSettings(ctx, userID)
	if err != nil {
		o.logger.WithError(err).WithField("user_id", userID).Warn("Failed to load user settings; using defaults")
		defaults := models.DefaultUserSettings()
		settings = &defaults
	}

	// Ingestion: only with a non-empty batch. On failure persona may still
	// run against whatever batch already exists.
	var batch []models.ContentItem
	batchFresh := false
	if len(req.Posts) > 0 {
		items, summary, err := o.ingest.Run(ctx, userID, runID, req.Posts, req.UploadSource, now)
		if err != nil {
			fail(StageIngestion, err)
		} else {
			results[StageIngestion] = Succeeded(summary)
			batch = items
			batchFresh = true
		}
	} else {
		results[StageIngestion] = Skipped("no posts supplied")
	}

	// Persona: runs after a successful or skipped ingestion, or after a
	// failed one when a prior batch exists. Its failure skips strategy and
	// simulation outright.
	var freshProfile *models.PersonaProfile
	personaFailed := false
	switch {
	case !settings.AllowContentAnalysis:
		results[StagePersona] = Skipped("content analysis disabled in settings")
	default:
		if !batchFresh {
			stored, err := o.store.ListContentItems(ctx, userID)
			if err != nil {
				fail(StagePersona, err)
				personaFailed = true
			} else {
				batch = stored
			}
		}
		if !personaFailed {
			if results[StageIngestion].Status == StatusFailed && len(batch) == 0 {
				results[StagePersona] = Skipped("no prior content batch available")
			} else {
				profile, err := o.analyzer.Analyze(batch, settings.AllowPersonalityAnalysis, now)
				if err != nil {
					fail(StagePersona, err)
					personaFailed = true
				} else if err := o.store.SavePersonaProfile(ctx, userID, profile); err != nil {
					fail(StagePersona, err)
					personaFailed = true
				} else {
					results[StagePersona] = Succeeded(profile)
					freshProfile = profile
				}
			}
		}
	}

	// Strategy: only from a profile produced this run.
	var freshStrategy *models.Strategy
	switch {
	case personaFailed:
		results[StageStrategy] = Skipped("persona inference failed")
	case freshProfile == nil:
		results[StageStrategy] = Skipped("no persona profile produced this run")
	case !settings.AllowStrategyGeneration:
		results[StageStrategy] = Skipped("strategy generation disabled in settings")
	default:
		s, err := o.generator.Generate(freshProfile, req.Goal, now)
		if err != nil {
			fail(StageStrategy, err)
		} else if err := o.store.SaveStrategy(ctx, userID, s); err != nil {
			fail(StageStrategy, err)
		} else {
			results[StageStrategy] = Succeeded(s)
			freshStrategy = s
		}
	}

	// Transparency: always attempted, regardless of everything above.
	latestProfile := freshProfile
	if latestProfile == nil {
		if p, err := o.store.LatestPersonaProfile(ctx, userID); err == nil {
			latestProfile = p
		}
	}
	latestStrategy := freshStrategy
	if latestStrategy == nil {
		if s, err := o.store.LatestStrategy(ctx, userID); err == nil {
			latestStrategy = s
		}
	}
	record := o.transparency.Build(settings, latestProfile, latestStrategy, now)
	if err := o.store.SaveTransparencyRecord(ctx, userID, record); err != nil {
		fail(StageTransparency, err)
	} else {
		results[StageTransparency] = Succeeded(record)
	}

	// Simulation: needs a profile, fresh or pre-existing, but never runs
	// when persona inference failed this run.
	switch {
	case personaFailed:
		results[StageSimulation] = Skipped("persona inference failed")
	case latestProfile == nil:
		results[StageSimulation] = Skipped("no persona profile available")
	default:
		result, err := o.simulator.Simulate(latestProfile, req.Scenario, now)
		if err != nil {
			fail(StageSimulation, err)
		} else if err := o.store.SaveSimulationResult(ctx, userID, result); err != nil {
			fail(StageSimulation, err)
		} else {
			results[StageSimulation] = Succeeded(result)
		}
	}

	resp := aggregate(results, errs)
	o.observe(resp, results, o.clock().Sub(started))
	o.logger.WithFields(logging.Fields{
		"user_id":         userID,
		"run_id":          runID,
		"status":          resp.Status,
		"completion_rate": resp.CompletionRate,
		"errors":          len(resp.Errors),
	}).Info("Pipeline run finished")
	return resp
}

// aggregate folds the five stage results into the run summary.
func aggregate(results map[string]StageResult, errs []string) *Response {
	resp := &Response{
		StepsCompleted: []string{},
		Errors:         errs,
		NextActions:    []string{},
	}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}

	produced := 0
	for _, name := range stageOrder {
		r := results[name]
		if !r.Produced() {
			continue
		}
		produced++
		resp.StepsCompleted = append(resp.StepsCompleted, name)
		switch name {
		case StageIngestion:
			resp.StageOutputs.Ingestion = r.Artifact.(*models.IngestionSummary)
		case StagePersona:
			resp.StageOutputs.Persona = r.Artifact.(*models.PersonaProfile)
		case StageStrategy:
			resp.StageOutputs.Strategy = r.Artifact.(*models.Strategy)
		case StageTransparency:
			resp.StageOutputs.Transparency = r.Artifact.(*models.TransparencyRecord)
		case StageSimulation:
			resp.StageOutputs.Simulation = r.Artifact.(*models.SimulationResult)
		}
	}
	resp.CompletionRate = produced * 20

	switch {
	case len(errs) == 0:
		resp.Status = "completed"
	case len(errs) <= 2:
		resp.Status = "partial"
	default:
		resp.Status = "failed"
	}

	resp.NextActions = nextActions(results)
	return resp
}

func nextActions(results map[string]StageResult) []string {
	actions := []string{}
	if results[StagePersona].Status == StatusFailed && errors.Is(results[StagePersona].Err, persona.ErrNoData) {
		actions = append(actions, "Upload your post history so a persona profile can be built.")
	}
	if results[StagePersona].Produced() {
		actions = append(actions, "Review your persona profile for accuracy.")
	}
	if results[StageStrategy].Produced() {
		actions = append(actions, "Pick one draft from your strategy and publish it this week.")
	}
	if results[StageTransparency].Produced() {
		actions = append(actions, "Read the transparency report and mark it as reviewed.")
	}
	if results[StageSimulation].Produced() {
		actions = append(actions, "Compare the simulation's A/B plan against your current cadence before changing anything.")
	}
	if len(actions) == 0 {
		actions = append(actions, "Retry the run once the reported errors are resolved.")
	}
	return actions
}

func (o *Orchestrator) observe(resp *Response, results map[string]StageResult, elapsed time.Duration) {
	runsTotal.WithLabelValues(resp.Status).Inc()
	runDuration.Observe(elapsed.Seconds())
	for _, name := range stageOrder {
		stageOutcomes.WithLabelValues(name, string(results[name].Status)).Inc()
	}
}
