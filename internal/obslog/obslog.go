// Package obslog wraps github.com/rs/zerolog into a structured trace
// logger with per-site, per-generation, check-failure and error events.
// The CLI is its only caller: it decides the minimum level and writer, and
// logs driver-level errors plus one summary event after a GA search. The
// repair driver and the genetic search loop do not log.
package obslog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is a thin value type around zerolog.Logger, kept distinct so
// callers depend on this package's surface rather than zerolog directly.
type Logger struct {
	z zerolog.Logger
}

// New returns a Logger writing level-and-above events to w as
// human-readable console output. A nil w defaults to os.Stderr.
func New(w io.Writer, level zerolog.Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return Logger{z: zerolog.New(console).Level(level).With().Timestamp().Logger()}
}

// Nop returns a Logger that discards every event, for callers (tests,
// library use) that don't want driver/GA trace output.
func Nop() Logger {
	return Logger{z: zerolog.Nop()}
}

// Site logs one repair-site visit: which span got a hole, how many fits
// the oracle offered for it.
func (l Logger) Site(span string, fitCount int) {
	l.z.Debug().Str("site", span).Int("fits", fitCount).Msg("repair site")
}

// Generation logs one GA generation's outcome: population size, winners
// found so far, best fitness seen this generation.
func (l Logger) Generation(n int, populationSize int, winners int, bestFitness float64) {
	l.z.Info().
		Int("generation", n).
		Int("population", populationSize).
		Int("winners", winners).
		Float64("best_fitness", bestFitness).
		Msg("generation complete")
}

// CheckFailure logs a sandboxed check's non-pass verdict at debug level,
// since a normal search run produces many of these and they aren't
// actionable on their own.
func (l Logger) CheckFailure(candidate string, kind string) {
	l.z.Debug().Str("candidate", candidate).Str("verdict", kind).Msg("check did not pass")
}

// Error logs a fatal driver-level error (an oracle call failing, not a
// candidate failing its checks).
func (l Logger) Error(err error, msg string) {
	l.z.Error().Err(err).Msg(msg)
}
