package audit

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Outcome summarizes one session's audit writes. Counts reflect what
// actually happened at each sink, not what was attempted.
type Outcome struct {
	RemoteAttempted   bool     `json:"remoteAttempted"`
	RemoteSucceeded   int      `json:"remoteSucceeded"`
	RemoteFailedDrugs []string `json:"remoteFailedDrugs,omitempty"`
	LocalWritten      int      `json:"localWritten"`

	// Failed line positions. Drug names can repeat within a basket,
	// so status stamping keys on the index.
	remoteFailed map[int]bool
}

// Observer receives per-write signals for monitoring.
type Observer interface {
	RecordRemoteAudit(ok bool)
	RecordLocalAudit()
	RecordProbeFailure()
}

type noopObserver struct{}

func (noopObserver) RecordRemoteAudit(bool) {}
func (noopObserver) RecordLocalAudit()      {}
func (noopObserver) RecordProbeFailure()    {}

// Service writes each session's records to both sinks. The remote
// registry is best effort: one probe decides whether it is tried at
// all, individual write failures are independent, and the local log is
// written unconditionally afterwards. Nothing here fails the print.
type Service struct {
	remote       RemoteSink
	local        LocalSink
	probeTimeout time.Duration
	logger       *slog.Logger
	observer     Observer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

func WithProbeTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.probeTimeout = d
		}
	}
}

// NewService builds the dual-sink writer. remote may be nil when no
// registry is configured; the local sink is required.
func NewService(remote RemoteSink, local LocalSink, opts ...Option) *Service {
	s := &Service{
		remote:       remote,
		local:        local,
		probeTimeout: 3 * time.Second,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer:     noopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasRemote reports whether a registry is configured at all.
func (s *Service) HasRemote() bool {
	return s.remote != nil
}

// WriteAll records a finished print session at both sinks. It never
// returns an error; failures are logged and reflected in the Outcome.
func (s *Service) WriteAll(ctx context.Context, sessionID string, records []Record) Outcome {
	var out Outcome
	if len(records) == 0 {
		return out
	}

	s.WriteRemote(ctx, records, &out)
	s.WriteLocal(ctx, sessionID, records, &out)

	s.logger.InfoContext(ctx, "audit session recorded",
		"session_id", sessionID,
		"remote_attempted", out.RemoteAttempted,
		"remote_succeeded", out.RemoteSucceeded,
		"local_written", out.LocalWritten)
	return out
}

// WriteRemote probes the registry once and, if it answers, writes every
// record concurrently. Individual failures do not stop the others.
func (s *Service) WriteRemote(ctx context.Context, records []Record, out *Outcome) {
	if s.remote == nil || len(records) == 0 {
		return
	}
	if !s.probe(ctx) {
		return
	}
	out.RemoteAttempted = true

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for i, record := range records {
		i, record := i, record
		g.Go(func() error {
			err := s.remote.Write(gctx, record.registryPayload())

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.observer.RecordRemoteAudit(false)
				out.RemoteFailedDrugs = append(out.RemoteFailedDrugs, record.DrugName)
				if out.remoteFailed == nil {
					out.remoteFailed = make(map[int]bool)
				}
				out.remoteFailed[i] = true
				s.logger.WarnContext(ctx, "remote audit write failed",
					"drug", record.DrugName, "error", err)
				return nil
			}
			s.observer.RecordRemoteAudit(true)
			out.RemoteSucceeded++
			return nil
		})
	}

	// Goroutines always return nil so one failed write cannot cancel
	// its siblings through the group context.
	_ = g.Wait()
}

// WriteLocal appends every record to the on-box log. This runs whether
// or not the registry was reached; each local copy is stamped with the
// session ID and whether its registry write went through.
func (s *Service) WriteLocal(ctx context.Context, sessionID string, records []Record, out *Outcome) {
	for i, record := range records {
		record.SessionID = sessionID
		record.Status = StatusLocalOnly
		if out.RemoteAttempted && !out.remoteFailed[i] {
			record.Status = StatusSynced
		}
		if err := s.local.Append(ctx, RecordKey(sessionID, i), record); err != nil {
			s.logger.ErrorContext(ctx, "local audit write failed",
				"drug", record.DrugName, "error", err)
			continue
		}
		s.observer.RecordLocalAudit()
		out.LocalWritten++
	}
}

// Records reads back the local log.
func (s *Service) Records(ctx context.Context) ([]Record, error) {
	return s.local.List(ctx)
}

// PurgeLocal empties the local log after the registry has been
// reconciled by hand.
func (s *Service) PurgeLocal(ctx context.Context) error {
	return s.local.Purge(ctx)
}

func (s *Service) probe(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, s.probeTimeout)
	defer cancel()

	if err := s.remote.Probe(probeCtx); err != nil {
		s.observer.RecordProbeFailure()
		s.logger.WarnContext(ctx, "registry unreachable, writing local only", "error", err)
		return false
	}
	return true
}
