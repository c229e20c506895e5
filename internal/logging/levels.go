package logging

import (
	"go.uber.org/zap/zapcore"
)

// TraceLevel sits one below Debug (-2; Debug is -1). It carries the
// ultra-verbose output: per-line dedup decisions, similarity scores of
// candidate pairs, function entry/exit. Almost always filtered out in
// production.
const TraceLevel = zapcore.Level(-2)

// LevelFromString parses a level name, accepting "trace" on top of
// the names zapcore knows.
func LevelFromString(level string) (zapcore.Level, error) {
	if level == "trace" {
		return TraceLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, err
	}
	return l, nil
}
