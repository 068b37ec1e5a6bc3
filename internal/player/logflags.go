package player

import "sync/atomic"

var traceLogEnabled atomic.Bool

// SetTraceLoggingEnabled turns verbose libVLC file logging on or off. It must
// be called before VLCEngine.Init to take effect.
func SetTraceLoggingEnabled(enabled bool) {
	traceLogEnabled.Store(enabled)
}
