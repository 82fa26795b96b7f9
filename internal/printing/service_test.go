package printing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"medilabel/internal/audit"
	"medilabel/internal/basket"
	"medilabel/internal/catalog"
	"medilabel/internal/operator"
	"medilabel/internal/patient"
	"medilabel/internal/session"
	dErrors "medilabel/pkg/domain-errors"
)

// =============================================================================
// Print Pipeline Test Suite
// =============================================================================
// Justification for unit tests: the pipeline's precondition ordering,
// the render-before-audit guarantee, and the absorbed audit failures
// are the contract of the whole system and need direct coverage.

type fakeSurface struct {
	mu      sync.Mutex
	err     error
	printed [][]LabelDocument
}

func (f *fakeSurface) Print(_ context.Context, _ string, docs []LabelDocument) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.printed = append(f.printed, docs)
	return "<html>labels</html>", nil
}

type fakeRemote struct {
	mu        sync.Mutex
	probeErr  error
	failDrugs map[string]bool
	written   []audit.Record
}

func (f *fakeRemote) Probe(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probeErr
}

func (f *fakeRemote) Write(_ context.Context, record audit.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDrugs[record.DrugName] {
		return errors.New("registry rejected record")
	}
	f.written = append(f.written, record)
	return nil
}

type fakeLocal struct {
	mu      sync.Mutex
	records []audit.Record
}

func (f *fakeLocal) Append(_ context.Context, _ []byte, record audit.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return nil
}

func (f *fakeLocal) List(context.Context) ([]audit.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]audit.Record(nil), f.records...), nil
}

func (f *fakeLocal) Purge(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = nil
	return nil
}

type PrintServiceSuite struct {
	suite.Suite
	store   *basket.InMemoryStore
	sess    *session.Context
	remote  *fakeRemote
	local   *fakeLocal
	surface *fakeSurface
	service *Service
}

func TestPrintServiceSuite(t *testing.T) {
	suite.Run(t, new(PrintServiceSuite))
}

func (s *PrintServiceSuite) SetupTest() {
	s.store = basket.NewInMemoryStore()
	s.sess = session.New()
	s.remote = &fakeRemote{failDrugs: map[string]bool{}}
	s.local = &fakeLocal{}
	s.surface = &fakeSurface{}
	auditSvc := audit.NewService(s.remote, s.local)
	s.service = NewService(s.store, s.sess, auditSvc, s.surface, "Dr Mahmoud")
}

func (s *PrintServiceSuite) ready() {
	s.sess.SetPatient(patient.Patient{PatientID: 144, Year: 2026, PatientName: "Ahmed Samir"})
	s.sess.SetOperator(operator.Operator{FullName: "Dr Sara Hassan"})
}

func (s *PrintServiceSuite) addLine(id, drug string, withExpiry bool) {
	line := basket.Line{ID: id, DrugName: drug, Instruction: "قرص كل ٨ ساعات"}
	if withExpiry {
		line.ExpiryMonth = "03"
		line.ExpiryYear = "27"
	}
	s.Require().NoError(s.store.Add(context.Background(), line))
}

// =============================================================================
// Happy Path
// =============================================================================

func (s *PrintServiceSuite) TestPrintHappyPath() {
	ctx := context.Background()
	s.ready()
	s.addLine("a", "Paracetamol 500mg", true)
	s.addLine("b", "Amoxicillin", true)

	result, err := s.service.Print(ctx, 3)
	s.Require().NoError(err)

	s.Equal(StateDone, result.State)
	s.Equal(6, result.LabelsRendered) // 2 lines x 3 copies
	s.NotEmpty(result.Document)

	// one audit record per line regardless of copies
	s.True(result.Audit.RemoteAttempted)
	s.Equal(2, result.Audit.RemoteSucceeded)
	s.Equal(2, result.Audit.LocalWritten)
	s.Len(s.remote.written, 2)
	s.Len(s.local.records, 2)
	s.Equal("Dr Sara Hassan", s.local.records[0].PrintedBy)

	// basket cleared last
	lines, err := s.store.List(ctx)
	s.NoError(err)
	s.Empty(lines)
}

func (s *PrintServiceSuite) TestPrintFallsBackToDefaultAttribution() {
	ctx := context.Background()
	s.ready()
	s.sess.SetOperator(operator.Operator{FullName: ""})
	s.addLine("a", "Paracetamol 500mg", true)

	_, err := s.service.Print(ctx, 1)
	s.Require().NoError(err)
	s.Equal("Dr Mahmoud", s.local.records[0].PrintedBy)
}

// =============================================================================
// Preconditions
// =============================================================================

func (s *PrintServiceSuite) TestPrintPreconditions() {
	ctx := context.Background()

	s.Run("copies below one fails validation", func() {
		s.ready()
		s.addLine("a", "Paracetamol 500mg", true)

		result, err := s.service.Print(ctx, 0)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal(StateFailed, result.State)
	})

	s.Run("no patient selected", func() {
		s.SetupTest()
		s.sess.SetOperator(operator.Operator{FullName: "Dr Sara Hassan"})
		s.addLine("a", "Paracetamol 500mg", true)

		_, err := s.service.Print(ctx, 1)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodePrecondition))
		s.Contains(err.Error(), "patient")
	})

	s.Run("empty basket", func() {
		s.SetupTest()
		s.ready()

		_, err := s.service.Print(ctx, 1)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodePrecondition))
		s.Contains(err.Error(), "empty")
	})

	s.Run("missing expiry names the offending drugs", func() {
		s.SetupTest()
		s.ready()
		s.addLine("a", "Paracetamol 500mg", true)
		s.addLine("b", "Amoxicillin", false)
		s.addLine("c", "Ibuprofen", false)

		_, err := s.service.Print(ctx, 1)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "missing expiry dates")
		s.Contains(err.Error(), "Amoxicillin")
		s.Contains(err.Error(), "Ibuprofen")
		s.NotContains(err.Error(), "Paracetamol")
	})

	s.Run("no operator logged in", func() {
		s.SetupTest()
		s.sess.SetPatient(patient.Patient{PatientID: 144, Year: 2026, PatientName: "Ahmed Samir"})
		s.addLine("a", "Paracetamol 500mg", true)

		_, err := s.service.Print(ctx, 1)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodePrecondition))
		s.Contains(err.Error(), "log in")
	})

	s.Run("failed session leaves the basket intact", func() {
		s.SetupTest()
		s.ready()
		s.addLine("a", "Paracetamol 500mg", false)

		_, err := s.service.Print(ctx, 1)
		s.Error(err)

		lines, listErr := s.store.List(ctx)
		s.NoError(listErr)
		s.Len(lines, 1)
		s.Empty(s.local.records)
	})
}

// =============================================================================
// Render Failures
// =============================================================================

type recordingGauge struct{ last int }

func (g *recordingGauge) SetBasketLines(n int) { g.last = n }

func (s *PrintServiceSuite) TestPrintResetsBasketGauge() {
	ctx := context.Background()
	s.ready()

	gauge := &recordingGauge{}
	queue := basket.NewService(s.store, catalog.NewInMemoryStore(), s.sess,
		basket.WithLineGauge(gauge))
	svc := NewService(queue, s.sess, audit.NewService(nil, s.local), s.surface, "Dr Mahmoud")

	line, err := queue.Add(ctx, "Paracetamol 500mg", "")
	s.Require().NoError(err)
	_, err = queue.SetExpiryMonth(ctx, line.ID, "03")
	s.Require().NoError(err)
	_, err = queue.SetExpiryYear(ctx, line.ID, "27")
	s.Require().NoError(err)
	s.Require().Equal(1, gauge.last)

	_, err = svc.Print(ctx, 1)
	s.Require().NoError(err)
	s.Equal(0, gauge.last)
}

func (s *PrintServiceSuite) TestRenderFailureAbortsBeforeAudit() {
	ctx := context.Background()
	s.ready()
	s.addLine("a", "Paracetamol 500mg", true)
	s.surface.err = errors.New("printer on fire")

	result, err := s.service.Print(ctx, 1)
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeRenderFailed))
	s.Equal(StateFailed, result.State)

	// no audit on either sink, basket untouched
	s.Empty(s.remote.written)
	s.Empty(s.local.records)
	lines, listErr := s.store.List(ctx)
	s.NoError(listErr)
	s.Len(lines, 1)
}

// =============================================================================
// Audit Degradation
// =============================================================================

func (s *PrintServiceSuite) TestAuditFailuresNeverFailThePrint() {
	ctx := context.Background()

	s.Run("registry down prints local only", func() {
		s.ready()
		s.addLine("a", "Paracetamol 500mg", true)
		s.remote.probeErr = errors.New("registry down")

		result, err := s.service.Print(ctx, 2)
		s.Require().NoError(err)

		s.Equal(StateDone, result.State)
		s.False(result.Audit.RemoteAttempted)
		s.Empty(s.remote.written)
		s.Equal(1, result.Audit.LocalWritten)
	})

	s.Run("partial remote failure still finishes", func() {
		s.SetupTest()
		s.ready()
		s.addLine("a", "Paracetamol 500mg", true)
		s.addLine("b", "Amoxicillin", true)
		s.remote.failDrugs["Amoxicillin"] = true

		result, err := s.service.Print(ctx, 1)
		s.Require().NoError(err)

		s.Equal(StateDone, result.State)
		s.Equal(1, result.Audit.RemoteSucceeded)
		s.ElementsMatch([]string{"Amoxicillin"}, result.Audit.RemoteFailedDrugs)
		s.Equal(2, result.Audit.LocalWritten)
	})
}

// =============================================================================
// Session State Machine
// =============================================================================

func TestSessionTransitions(t *testing.T) {
	s := NewSession()
	if s.State() != StateIdle {
		t.Fatalf("new session state = %s, want idle", s.State())
	}
	for _, next := range []State{StateValidating, StateRendering, StateAuditingRemote, StateAuditingLocal, StateClearing, StateDone} {
		if err := s.To(next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
	if err := s.To(StateValidating); err == nil {
		t.Fatal("expected done -> validating to be rejected")
	}
}

func TestSessionSkipsRemoteAudit(t *testing.T) {
	s := NewSession()
	for _, next := range []State{StateValidating, StateRendering, StateAuditingLocal} {
		if err := s.To(next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
}
