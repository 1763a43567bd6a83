package progress

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const DefaultSubject = "exercises.embed.progress"

// Publisher is the part of *nats.Conn the reporter needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

var _ Publisher = (*nats.Conn)(nil)

// NATSReporter publishes each event as JSON on a subject. Publish failures are
// logged and never abort the run.
type NATSReporter struct {
	log     *slog.Logger
	pub     Publisher
	subject string
}

// NewNATSReporter constructs a reporter publishing on subject.
func NewNATSReporter(log *slog.Logger, pub Publisher, subject string) *NATSReporter {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSReporter{log: log, pub: pub, subject: subject}
}

func (r *NATSReporter) Report(_ context.Context, ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		r.log.Error("failed to encode progress event", "err", err)
		return
	}
	if err := r.pub.Publish(r.subject, body); err != nil {
		r.log.Warn("failed to publish progress event", "subject", r.subject, "done", ev.Done, "err", err)
	}
}
