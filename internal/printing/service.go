package printing

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"medilabel/internal/audit"
	"medilabel/internal/basket"
	"medilabel/internal/patient"
	"medilabel/internal/session"
	dErrors "medilabel/pkg/domain-errors"
	"medilabel/pkg/requestcontext"
)

// Result reports what a finished session produced. Document is the
// rendered label page for the caller's print dialog.
type Result struct {
	SessionID      string        `json:"sessionId"`
	State          State         `json:"state"`
	LabelsRendered int           `json:"labelsRendered"`
	Document       string        `json:"document,omitempty"`
	Audit          audit.Outcome `json:"audit"`
}

// Observer receives session-level signals for monitoring.
type Observer interface {
	RecordPrintSession(state string)
	RecordLabels(n int)
}

type noopObserver struct{}

func (noopObserver) RecordPrintSession(string) {}
func (noopObserver) RecordLabels(int)          {}

// Basket is the slice of the queue the pipeline drives. Production
// wiring passes the basket service so its line gauge drops to zero
// when a print empties the queue.
type Basket interface {
	List(ctx context.Context) ([]basket.Line, error)
	Clear(ctx context.Context) error
}

// Service runs the print pipeline: validate the basket, render every
// label, write the audit records, then clear the queue. Audit failures
// never fail the session; only validation and rendering can.
type Service struct {
	basket    Basket
	session   *session.Context
	audit     *audit.Service
	surface   Surface
	printedBy string
	logger    *slog.Logger
	observer  Observer
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

// NewService wires the pipeline. printedBy is the attribution used when
// no operator name is available on the session.
func NewService(queue Basket, sess *session.Context, auditSvc *audit.Service, surface Surface, printedBy string, opts ...Option) *Service {
	s := &Service{
		basket:    queue,
		session:   sess,
		audit:     auditSvc,
		surface:   surface,
		printedBy: printedBy,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer:  noopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Print runs one session. copies is how many labels each basket line
// gets; one audit record per line is written regardless of copies.
func (s *Service) Print(ctx context.Context, copies int) (Result, error) {
	sess := NewSession()
	result := Result{SessionID: sess.ID}

	fail := func(err error) (Result, error) {
		_ = sess.To(StateFailed)
		result.State = sess.State()
		s.observer.RecordPrintSession(string(StateFailed))
		return result, err
	}

	_ = sess.To(StateValidating)

	if copies < 1 {
		return fail(dErrors.Newf(dErrors.CodeValidation, "label copies must be at least 1, got %d", copies))
	}

	p, ok := s.session.Patient()
	if !ok {
		return fail(dErrors.New(dErrors.CodePrecondition, "select a patient before printing"))
	}

	lines, err := s.basket.List(ctx)
	if err != nil {
		return fail(dErrors.Wrap(err, dErrors.CodeStore, "read basket"))
	}
	if len(lines) == 0 {
		return fail(dErrors.New(dErrors.CodePrecondition, "the basket is empty"))
	}

	if missing := missingExpiry(lines); len(missing) > 0 {
		return fail(dErrors.Newf(dErrors.CodeValidation,
			"missing expiry dates: %s", strings.Join(missing, ", ")))
	}

	op, ok := s.session.Operator()
	if !ok {
		return fail(dErrors.New(dErrors.CodePrecondition, "log in before printing"))
	}

	printedBy := op.FullName
	if printedBy == "" {
		printedBy = s.printedBy
	}
	now := requestcontext.Now(ctx)

	if err := sess.To(StateRendering); err != nil {
		return fail(dErrors.Wrap(err, dErrors.CodeInternal, "advance print session"))
	}
	docs := BuildDocuments(lines, p, printedBy, now, copies)
	document, err := s.surface.Print(ctx, sess.ID, docs)
	if err != nil {
		s.logger.ErrorContext(ctx, "label rendering failed", "session_id", sess.ID, "error", err)
		return fail(dErrors.Wrap(err, dErrors.CodeRenderFailed, "render labels"))
	}
	result.Document = document
	result.LabelsRendered = len(docs)
	s.observer.RecordLabels(len(docs))

	records := buildRecords(lines, p, printedBy, now, copies)
	if s.audit.HasRemote() {
		_ = sess.To(StateAuditingRemote)
		s.audit.WriteRemote(ctx, records, &result.Audit)
	}
	_ = sess.To(StateAuditingLocal)
	s.audit.WriteLocal(ctx, sess.ID, records, &result.Audit)

	_ = sess.To(StateClearing)
	if err := s.basket.Clear(ctx); err != nil {
		// Labels are printed and audited at this point; a stuck queue
		// is visible to the operator and safe to clear by hand.
		s.logger.ErrorContext(ctx, "basket clear failed after print", "session_id", sess.ID, "error", err)
	}

	_ = sess.To(StateDone)
	result.State = sess.State()
	s.observer.RecordPrintSession(string(StateDone))
	s.logger.InfoContext(ctx, "print session finished",
		"session_id", sess.ID,
		"labels", result.LabelsRendered,
		"lines", len(lines),
		"remote_succeeded", result.Audit.RemoteSucceeded,
		"local_written", result.Audit.LocalWritten)
	return result, nil
}

func missingExpiry(lines []basket.Line) []string {
	var missing []string
	for _, line := range lines {
		if !line.HasExpiry() {
			missing = append(missing, line.DrugName)
		}
	}
	return missing
}

func buildRecords(lines []basket.Line, p patient.Patient, printedBy string, now time.Time, copies int) []audit.Record {
	records := make([]audit.Record, 0, len(lines))
	for _, line := range lines {
		records = append(records, audit.Record{
			PatientID:   p.PatientID,
			PatientYear: p.Year,
			PatientName: p.PatientName,
			DrugName:    line.DrugName,
			Instruction: line.Instruction,
			PrintedBy:   printedBy,
			PrintedAt:   now,
			ExpiryDate:  line.ExpiryDate(),
			Quantity:    copies,
		})
	}
	return records
}
