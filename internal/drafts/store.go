package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/stockline/herdctl/internal/logger"
)

const (
	draftBucket = "herdctl_drafts"
	auditStream = "herdctl_audit"

	// Abandoned drafts expire; nobody resumes a registration from last
	// quarter.
	draftTTL = 14 * 24 * time.Hour

	auditRetention = 90 * 24 * time.Hour
)

// SubmissionEvent is one audit record of a completed wizard submission.
type SubmissionEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Farm      string         `json:"farm"`
	Wizard    string         `json:"wizard"`
	UserID    string         `json:"user_id"`
	Entity    map[string]any `json:"entity,omitempty"`
}

// Store holds wizard drafts in a JetStream KV bucket and appends
// submission events to an audit stream, all backed by an embedded NATS
// server under the herdctl data directory.
type Store struct {
	ns *server.Server
	nc *nats.Conn
	js jetstream.JetStream
	kv jetstream.KeyValue
}

// Open starts the embedded server and ensures the bucket and stream
// exist.
func Open(ctx context.Context, dataDir string) (*Store, error) {
	ns, err := startEmbedded(dataDir)
	if err != nil {
		return nil, fmt.Errorf("starting draft store: %w", err)
	}
	nc, js, err := connectInProcess(ns)
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("connecting to draft store: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  draftBucket,
		Storage: jetstream.FileStorage,
		TTL:     draftTTL,
	})
	if err != nil {
		_ = shutdown(nc, ns)
		return nil, fmt.Errorf("creating draft bucket: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     auditStream,
		Subjects: []string{"herd.>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   auditRetention,
	})
	if err != nil {
		_ = shutdown(nc, ns)
		return nil, fmt.Errorf("creating audit stream: %w", err)
	}

	return &Store{ns: ns, nc: nc, js: js, kv: kv}, nil
}

// draftKey builds the KV key for one farm's draft of one wizard kind.
// One draft per (farm, wizard): starting a new registration of the same
// kind overwrites the old draft.
func draftKey(farm, wizard string) string {
	return fmt.Sprintf("%s.%s", farm, wizard)
}

// Save stores a record snapshot as the current draft.
func (s *Store) Save(ctx context.Context, farm, wizard string, snapshot []byte) error {
	if _, err := s.kv.Put(ctx, draftKey(farm, wizard), snapshot); err != nil {
		return fmt.Errorf("saving %s draft: %w", wizard, err)
	}
	logger.Debug("Saved %s draft for farm %s (%d bytes)", wizard, farm, len(snapshot))
	return nil
}

// Load returns the current draft snapshot, or nil when none exists.
func (s *Store) Load(ctx context.Context, farm, wizard string) ([]byte, error) {
	entry, err := s.kv.Get(ctx, draftKey(farm, wizard))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading %s draft: %w", wizard, err)
	}
	return entry.Value(), nil
}

// Clear removes the draft after a successful submission or an explicit
// discard.
func (s *Store) Clear(ctx context.Context, farm, wizard string) error {
	err := s.kv.Delete(ctx, draftKey(farm, wizard))
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("clearing %s draft: %w", wizard, err)
	}
	return nil
}

// RecordSubmission appends a submission event to the audit stream.
// Subject: herd.{farm}.{wizard}.submitted.
func (s *Store) RecordSubmission(ctx context.Context, event SubmissionEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding submission event: %w", err)
	}
	subject := fmt.Sprintf("herd.%s.%s.submitted", event.Farm, event.Wizard)
	if _, err := s.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publishing submission event: %w", err)
	}
	logger.Debug("Recorded submission event on %s", subject)
	return nil
}

// Close shuts down the embedded server.
func (s *Store) Close() error {
	return shutdown(s.nc, s.ns)
}
