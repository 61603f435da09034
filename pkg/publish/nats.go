package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/pkg/model"
)

const (
	SubjectRegistered   = "racereplay.session.registered"
	SubjectUnregistered = "racereplay.session.unregistered"
)

// SnapshotSubject returns the subject snapshots of a session are published on
func SnapshotSubject(session string) string {
	return fmt.Sprintf("racereplay.%s.snapshot", session)
}

// Connect opens a connection which keeps reconnecting until closed
func Connect(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}
	return conn, nil
}

// Conn is the part of *nats.Conn used for publishing
type Conn interface {
	Publish(subj string, data []byte) error
	Flush() error
}

type (
	NatsPublisher struct {
		conn    Conn
		session string
		subject string
		l       *log.Logger
	}
	NatsOption func(*NatsPublisher)
)

// WithSubject overrides the default snapshot subject of the session
func WithSubject(subject string) NatsOption {
	return func(n *NatsPublisher) {
		n.subject = subject
	}
}

func WithLogger(l *log.Logger) NatsOption {
	return func(n *NatsPublisher) {
		n.l = l
	}
}

// NewNatsPublisher announces the session and publishes snapshots as JSON.
// The connection is owned by the caller.
func NewNatsPublisher(conn Conn, session string, opts ...NatsOption) (*NatsPublisher, error) {
	ret := &NatsPublisher{
		conn:    conn,
		session: session,
		subject: SnapshotSubject(session),
		l:       log.Default().Named("nats"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	data, err := json.Marshal(map[string]string{"session": session, "subject": ret.subject})
	if err != nil {
		return nil, err
	}
	if err := conn.Publish(SubjectRegistered, data); err != nil {
		return nil, fmt.Errorf("register session: %w", err)
	}
	ret.l.Info("session registered",
		log.String("session", session), log.String("subject", ret.subject))
	return ret, nil
}

func (n *NatsPublisher) Subject() string {
	return n.subject
}

func (n *NatsPublisher) Publish(_ context.Context, snap *model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}

// Close unregisters the session and flushes pending messages
func (n *NatsPublisher) Close() error {
	if err := n.conn.Publish(SubjectUnregistered, []byte(n.session)); err != nil {
		n.l.Warn("could not unregister session", log.ErrorField(err))
	}
	return n.conn.Flush()
}
