package dplog

import "log/slog"

// CompileStart logs the beginning of a CompilationSession.Compile call.
func CompileStart(sourceID string) {
	L().Info("compile start", slog.String("source", sourceID))
}

// CompileEnd logs the outcome of a CompilationSession.Compile call.
func CompileEnd(sourceID string, success bool, errCount, warnCount int) {
	L().Info("compile end",
		slog.String("source", sourceID),
		slog.Bool("success", success),
		slog.Int("errors", errCount),
		slog.Int("warnings", warnCount),
	)
}

// CacheHit logs a GetCachedCompileResult hit.
func CacheHit(sourceID string) {
	L().Debug("cache hit", slog.String("source", sourceID))
}

// CacheMiss logs a GetCachedCompileResult miss.
func CacheMiss(sourceID string) {
	L().Debug("cache miss", slog.String("source", sourceID))
}

// Cancelled logs a compile aborted by context cancellation.
func Cancelled(sourceID string, cause error) {
	L().Warn("compile cancelled", slog.String("source", sourceID), slog.String("cause", cause.Error()))
}

// ResolveFailure logs a resolver error encountered while fetching a source.
func ResolveFailure(sourceID string, err error) {
	L().Error("resolve failed", slog.String("source", sourceID), slog.String("error", err.Error()))
}
