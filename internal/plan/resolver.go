package plan

import (
	"context"

	"github.com/markdg/habit-hub/internal/storage"
)

// Source tells where the session's active program came from.
type Source string

const (
	SourceRemote  Source = "remote"
	SourceDefault Source = "default"
)

// Resolution is the outcome of the one-shot plan lookup performed at startup.
// It seeds the Service; after that the program only changes when a new plan
// is published.
type Resolution struct {
	Program WeeklyProgram
	Source  Source
}

type Logger interface {
	Printf(format string, v ...any)
}

// Resolve attempts a single fetch of the stored active plan. Any failure
// (transport error, no active plan, malformed payload) falls back to the
// compiled-in default silently; the cause is only logged. There is no retry:
// the fallback holds until a plan is published.
func Resolve(ctx context.Context, plans storage.PlansStorage, logger Logger) Resolution {
	fallback := Resolution{Program: Default(), Source: SourceDefault}

	stored, found, err := plans.GetActivePlan(ctx)
	if err != nil {
		logf(logger, "WARN plan: active plan fetch failed, using default: %v", err)
		return fallback
	}
	if !found {
		logf(logger, "INFO plan: no active plan stored, using default %q", DefaultName)
		return fallback
	}

	program, err := ParseProgram(stored.Name, stored.PlanData)
	if err != nil {
		logf(logger, "WARN plan: stored plan %q is malformed, using default: %v", stored.Name, err)
		return fallback
	}

	logf(logger, "INFO plan: resolved active plan %q", program.Name)
	return Resolution{Program: program, Source: SourceRemote}
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
