package pipeline

// StageStatus is the outcome tag for one stage of a run.
type StageStatus string

const (
	StatusNotAttempted StageStatus = "not_attempted"
	StatusSkipped      StageStatus = "skipped"
	StatusFailed       StageStatus = "failed"
	StatusSucceeded    StageStatus = "succeeded"
)

// StageResult is the tagged outcome of one stage. Exactly one of Reason,
// Err, or Artifact is meaningful depending on Status. Aggregation over a run
// is a pure fold over five of these.
type StageResult struct {
	Status   StageStatus
	Reason   string
	Err      error
	Artifact interface{}
}

func NotAttempted() StageResult {
	return StageResult{Status: StatusNotAttempted}
}

func Skipped(reason string) StageResult {
	return StageResult{Status: StatusSkipped, Reason: reason}
}

func Failed(err error) StageResult {
	return StageResult{Status: StatusFailed, Err: err}
}

func Succeeded(artifact interface{}) StageResult {
	return StageResult{Status: StatusSucceeded, Artifact: artifact}
}

// Produced reports whether the stage left a new artifact.
func (r StageResult) Produced() bool {
	return r.Status == StatusSucceeded
}

// Stage names in canonical execution order.
const (
	StageIngestion    = "ingestion"
	StagePersona      = "persona"
	StageStrategy     = "strategy"
	StageTransparency = "transparency"
	StageSimulation   = "simulation"
)

var stageOrder = []string{StageIngestion, StagePersona, StageStrategy, StageTransparency, StageSimulation}
