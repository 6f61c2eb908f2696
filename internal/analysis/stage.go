package analysis

import (
	"time"

	"go.uber.org/zap"
)

// Stage is a step of the analysis pipeline.
type Stage string

// Stages in the order a successful analysis passes through them.
const (
	StageReceived      Stage = "RECEIVED"
	StageFileSaved     Stage = "FILE_SAVED"
	StageTextExtracted Stage = "TEXT_EXTRACTED"
	StageResumeParsed  Stage = "RESUME_PARSED"
	StageJobResolved   Stage = "JOB_RESOLVED"
	StageScored        Stage = "SCORED"
	StageResponded     Stage = "RESPONDED"
)

// tracker records stage transitions for one request.
type tracker struct {
	logger  *zap.Logger
	stages  []Stage
	started time.Time
	last    time.Time
}

func newTracker(logger *zap.Logger) *tracker {
	now := time.Now()
	t := &tracker{logger: logger, started: now, last: now}
	t.advance(StageReceived)
	return t
}

func (t *tracker) advance(s Stage) {
	now := time.Now()
	t.stages = append(t.stages, s)
	t.logger.Debug("analysis stage",
		zap.String("stage", string(s)),
		zap.Duration("step", now.Sub(t.last)),
	)
	t.last = now
}

func (t *tracker) current() Stage {
	return t.stages[len(t.stages)-1]
}

func (t *tracker) fail(err error) {
	t.logger.Warn("analysis failed",
		zap.String("stage", string(t.current())),
		zap.Duration("elapsed", time.Since(t.started)),
		zap.Error(err),
	)
}
