package metrics

import "time"

// ResultLabel enumerates per-reference resolution outcomes.
type ResultLabel string

const (
	ResultResolved ResultLabel = "resolved"
	ResultPending  ResultLabel = "pending"
	ResultFailed   ResultLabel = "failed"
)

// SaveOutcome enumerates editor save outcomes.
type SaveOutcome string

const (
	SaveSuccess   SaveOutcome = "success"
	SaveInvalid   SaveOutcome = "invalid"
	SaveFailed    SaveOutcome = "failed"
	SaveUnchanged SaveOutcome = "unchanged"
)

// Recorder defines observability hooks for composition, asset resolution and
// the editor. Implementations may forward to Prometheus; NoopRecorder is the
// default so callers never nil-check.
type Recorder interface {
	ObserveComposeDuration(d time.Duration)
	IncSectionRender(kind, style string)
	ObserveResolveBatch(size int, d time.Duration, success bool)
	IncResolveResult(result ResultLabel)
	IncUpload(success bool)
	IncSave(outcome SaveOutcome)
	IncPreviewPublish()
	SetPreviewClients(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveComposeDuration(time.Duration)         {}
func (NoopRecorder) IncSectionRender(string, string)              {}
func (NoopRecorder) ObserveResolveBatch(int, time.Duration, bool) {}
func (NoopRecorder) IncResolveResult(ResultLabel)                 {}
func (NoopRecorder) IncUpload(bool)                               {}
func (NoopRecorder) IncSave(SaveOutcome)                          {}
func (NoopRecorder) IncPreviewPublish()                           {}
func (NoopRecorder) SetPreviewClients(int)                        {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
