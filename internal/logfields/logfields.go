package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySection      = "section"
	KeyStyle        = "style"
	KeyField        = "field"
	KeySubmissionID = "submission_id"
	KeyStorageID    = "storage_id"
	KeyHash         = "hash"
	KeyPath         = "path"
	KeyCount        = "count"
	KeyClients      = "clients"
	KeyDurationMS   = "duration_ms"
	KeyRequestID    = "request_id"
	KeyMethod       = "method"
	KeyStatus       = "status"
	KeyUserAgent    = "user_agent"
	KeyRemoteAddr   = "remote_addr"
	KeyError        = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Section(s string) slog.Attr       { return slog.String(KeySection, s) }
func Style(id string) slog.Attr        { return slog.String(KeyStyle, id) }
func Field(f string) slog.Attr         { return slog.String(KeyField, f) }
func SubmissionID(id string) slog.Attr { return slog.String(KeySubmissionID, id) }
func StorageID(id string) slog.Attr    { return slog.String(KeyStorageID, id) }
func Hash(h string) slog.Attr          { return slog.String(KeyHash, h) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Clients(n int) slog.Attr          { return slog.Int(KeyClients, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr    { return slog.String(KeyRemoteAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
