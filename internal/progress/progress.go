package progress

import (
	"context"
	"log/slog"
)

// Event describes how far a batch run has got.
type Event struct {
	Done  int    `json:"done"`
	Total int    `json:"total"`
	Title string `json:"title,omitempty"`
	// Final is set once, after every record has been written.
	Final bool `json:"final"`
}

// Reporter surfaces batch progress to an operator.
type Reporter interface {
	Report(ctx context.Context, ev Event)
}

// LogReporter writes progress through slog.
type LogReporter struct {
	log *slog.Logger
}

func NewLogReporter(log *slog.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) Report(_ context.Context, ev Event) {
	if ev.Final {
		r.log.Info("all exercises embedded", "total", ev.Total)
		return
	}
	r.log.Info("embedded", "done", ev.Done, "total", ev.Total, "title", ev.Title)
}

type multi []Reporter

// Multi fans every event out to each reporter in order.
func Multi(reporters ...Reporter) Reporter {
	return multi(reporters)
}

func (m multi) Report(ctx context.Context, ev Event) {
	for _, r := range m {
		r.Report(ctx, ev)
	}
}
