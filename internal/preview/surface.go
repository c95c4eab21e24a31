package preview

import (
	"log/slog"
	"sync"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// Fingerprint returns the content hash of a composed document.
func Fingerprint(doc string) string {
	return mdfp.CalculateFingerprintFromParts("", doc)
}

// Surface holds the document currently shown in the preview. Its content is
// only ever replaced whole, and only when the fingerprint changes.
type Surface struct {
	mu       sync.RWMutex
	doc      string
	hash     string
	hub      *Hub
	recorder metrics.Recorder
}

// NewSurface returns an empty surface broadcasting reloads on hub. A nil hub
// publishes silently.
func NewSurface(hub *Hub, recorder metrics.Recorder) *Surface {
	return &Surface{hub: hub, recorder: metrics.OrNoop(recorder)}
}

// Publish replaces the document when its fingerprint differs from the
// current one and tells clients to reload. It reports whether it replaced.
func (s *Surface) Publish(doc string) bool {
	hash := Fingerprint(doc)

	s.mu.Lock()
	if hash == s.hash {
		s.mu.Unlock()
		return false
	}
	s.doc = doc
	s.hash = hash
	// broadcast under the lock so reloads go out in publish order
	if s.hub != nil {
		s.hub.Broadcast(Event{Type: EventReload, Hash: hash})
	}
	s.mu.Unlock()

	s.recorder.IncPreviewPublish()
	slog.Debug("Published preview", logfields.Hash(hash), slog.Int("bytes", len(doc)))
	return true
}

// Document returns the current document and its fingerprint.
func (s *Surface) Document() (doc, hash string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc, s.hash
}
