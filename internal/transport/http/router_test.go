package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"medilabel/internal/audit"
	"medilabel/internal/basket"
	"medilabel/internal/catalog"
	"medilabel/internal/operator"
	"medilabel/internal/patient"
	"medilabel/internal/printing"
	"medilabel/internal/session"
)

// =============================================================================
// HTTP Transport Test Suite
// =============================================================================
// The suite drives the whole stack through the router with in-memory
// stores, the way the counter UI does: log in, pick a patient, build
// the basket, print.

type memRegistry struct {
	mu      sync.Mutex
	records []audit.Record
}

func (m *memRegistry) Append(_ context.Context, record audit.Record) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return int64(len(m.records)), nil
}

func (m *memRegistry) List(context.Context) ([]audit.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]audit.Record(nil), m.records...), nil
}

type memSurface struct {
	mu   sync.Mutex
	docs []printing.LabelDocument
}

func (m *memSurface) Print(_ context.Context, _ string, docs []printing.LabelDocument) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, docs...)
	return "<html>labels</html>", nil
}

type TransportSuite struct {
	suite.Suite
	server   *httptest.Server
	sess     *session.Context
	local    *localMem
	registry *memRegistry
	surface  *memSurface
}

// localMem duplicates the local sink contract for this package's tests.
type localMem struct {
	mu      sync.Mutex
	keys    []string
	records map[string]audit.Record
}

func newLocalMem() *localMem {
	return &localMem{records: map[string]audit.Record{}}
}

func (l *localMem) Append(_ context.Context, key []byte, record audit.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = append(l.keys, string(key))
	l.records[string(key)] = record
	return nil
}

func (l *localMem) List(context.Context) ([]audit.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	keys := append([]string(nil), l.keys...)
	sort.Strings(keys)
	out := make([]audit.Record, 0, len(keys))
	for _, k := range keys {
		out = append(out, l.records[k])
	}
	return out, nil
}

func (l *localMem) Purge(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = nil
	l.records = map[string]audit.Record{}
	return nil
}

func TestTransportSuite(t *testing.T) {
	suite.Run(t, new(TransportSuite))
}

func (s *TransportSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.sess = session.New()
	s.local = newLocalMem()
	s.registry = &memRegistry{}
	s.surface = &memSurface{}

	cat := catalog.NewInMemoryStore(
		catalog.Medication{DrugName: "Paracetamol 500mg", Instruction: "قرص كل ٨ ساعات", Barcode: "622100011"},
		catalog.Medication{DrugName: "Amoxicillin 250mg", Instruction: "كبسولة كل ١٢ ساعة"},
	)
	patients := patient.NewInMemoryDirectory(
		patient.Patient{PatientID: 144, Year: 2026, PatientName: "Ahmed Samir", NationalID: "29901011234567"},
	)
	operators := operator.NewInMemoryStore(
		operator.Operator{ID: 1, Username: "sara", Password: "s3cret", FullName: "Dr Sara Hassan", AccessLevel: "admin", IsActive: true},
	)

	basketStore := basket.NewInMemoryStore()
	basketSvc := basket.NewService(basketStore, cat, s.sess)
	auditSvc := audit.NewService(nil, s.local)
	printSvc := printing.NewService(basketSvc, s.sess, auditSvc, s.surface, "Dr Mahmoud")

	router := NewRouter(Deps{
		Logger:   logger,
		Session:  s.sess,
		Catalog:  NewCatalogHandler(cat, logger),
		Patients: NewPatientHandler(patients, s.sess, logger, nil),
		Auth:     NewAuthHandler(operator.NewService(operators), s.sess, basketSvc, logger, nil),
		Basket:   NewBasketHandler(basketSvc, logger),
		Print:    NewPrintHandler(printSvc, logger),
		Audit:    NewAuditHandler(auditSvc, s.registry, logger),
	})
	s.server = httptest.NewServer(router)
}

func (s *TransportSuite) TearDownTest() {
	s.server.Close()
}

func (s *TransportSuite) do(method, path string, body any) *http.Response {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *TransportSuite) decode(resp *http.Response, into any) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(into))
}

// =============================================================================
// Health and Catalog
// =============================================================================

func (s *TransportSuite) TestHealth() {
	resp := s.do(http.MethodGet, "/api/health", nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	var body map[string]string
	s.decode(resp, &body)
	s.Equal("ok", body["status"])
}

func (s *TransportSuite) TestMedications() {
	s.Run("list returns the catalog", func() {
		resp := s.do(http.MethodGet, "/api/medications", nil)
		s.Equal(http.StatusOK, resp.StatusCode)

		var body struct {
			Medications []catalog.Medication `json:"medications"`
		}
		s.decode(resp, &body)
		s.Len(body.Medications, 2)
	})

	s.Run("unknown drug is 404", func() {
		resp := s.do(http.MethodGet, "/api/medications/Nothing", nil)
		resp.Body.Close()
		s.Equal(http.StatusNotFound, resp.StatusCode)
	})
}

// =============================================================================
// Full Counter Flow
// =============================================================================

func (s *TransportSuite) TestFullPrintFlow() {
	// log in
	resp := s.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "sara", "password": "s3cret"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// select the patient
	resp = s.do(http.MethodGet, "/api/patients/search?patientId=144&year=2026", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var p patient.Patient
	s.decode(resp, &p)
	s.Equal("Ahmed Samir", p.PatientName)

	// queue two medications
	var first basket.Line
	resp = s.do(http.MethodPost, "/api/basket/add", map[string]string{"drugName": "Paracetamol 500mg"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.decode(resp, &first)

	var second basket.Line
	resp = s.do(http.MethodPost, "/api/basket/add",
		map[string]string{"drugName": "Amoxicillin 250mg", "instructionText": "كبسولة كل ١٢ ساعة"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	s.decode(resp, &second)
	s.Equal("كبسولة كل ١٢ ساعة", second.Instruction)

	// printing now is blocked: no expiry dates yet
	resp = s.do(http.MethodPost, "/api/print", map[string]int{"quantity": 1})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	var errBody map[string]string
	s.decode(resp, &errBody)
	s.Contains(errBody["error_description"], "Paracetamol 500mg")

	// set both expiry dates
	resp = s.do(http.MethodPut, "/api/basket/"+first.ID+"/expiry", map[string]string{"month": "3", "year": "27"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var updated basket.Line
	s.decode(resp, &updated)
	s.Equal("03", updated.ExpiryMonth)

	resp = s.do(http.MethodPut, "/api/basket/"+second.ID+"/expiry", map[string]string{"month": "11", "year": "26"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// print two copies of each label
	resp = s.do(http.MethodPost, "/api/print", map[string]int{"quantity": 2})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var result printing.Result
	s.decode(resp, &result)
	s.Equal(printing.StateDone, result.State)
	s.Equal(4, result.LabelsRendered)
	s.Contains(result.Document, "labels")
	s.Equal(2, result.Audit.LocalWritten)
	s.False(result.Audit.RemoteAttempted) // no registry configured
	s.Len(s.surface.docs, 4)

	// basket is cleared
	resp = s.do(http.MethodGet, "/api/basket", nil)
	var lines struct {
		Lines []basket.Line `json:"lines"`
	}
	s.decode(resp, &lines)
	s.Empty(lines.Lines)

	// the local audit log holds one record per line, printed by the operator
	resp = s.do(http.MethodGet, "/api/audit/logs", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var logs struct {
		Records []audit.Record `json:"records"`
	}
	s.decode(resp, &logs)
	s.Len(logs.Records, 2)
	s.Equal("Dr Sara Hassan", logs.Records[0].PrintedBy)
}

// =============================================================================
// Guard Rails
// =============================================================================

func (s *TransportSuite) TestGuards() {
	s.Run("basket add without patient is 409", func() {
		resp := s.do(http.MethodPost, "/api/basket/add", map[string]string{"drugName": "Paracetamol 500mg"})
		resp.Body.Close()
		s.Equal(http.StatusConflict, resp.StatusCode)
	})

	s.Run("wrong password is 401", func() {
		resp := s.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "sara", "password": "nope"})
		resp.Body.Close()
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	s.Run("unknown patient is 404", func() {
		resp := s.do(http.MethodGet, "/api/patients/search?patientId=999&year=2020", nil)
		resp.Body.Close()
		s.Equal(http.StatusNotFound, resp.StatusCode)
	})

	s.Run("audit log requires a logged-in operator", func() {
		resp := s.do(http.MethodGet, "/api/audit/logs", nil)
		resp.Body.Close()
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	s.Run("print with zero quantity is 400", func() {
		resp := s.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "sara", "password": "s3cret"})
		s.Require().Equal(http.StatusOK, resp.StatusCode)
		resp.Body.Close()
		resp = s.do(http.MethodGet, "/api/patients/search?patientId=144&year=2026", nil)
		s.Require().Equal(http.StatusOK, resp.StatusCode)
		resp.Body.Close()
		resp = s.do(http.MethodPost, "/api/basket/add", map[string]string{"drugName": "Paracetamol 500mg"})
		s.Require().Equal(http.StatusCreated, resp.StatusCode)
		resp.Body.Close()

		resp = s.do(http.MethodPost, "/api/print", map[string]int{"quantity": 0})
		resp.Body.Close()
		s.Equal(http.StatusBadRequest, resp.StatusCode)
	})

	s.Run("logout clears patient and basket", func() {
		resp := s.do(http.MethodPost, "/api/auth/logout", nil)
		resp.Body.Close()
		s.Equal(http.StatusNoContent, resp.StatusCode)

		_, loggedIn := s.sess.Operator()
		s.False(loggedIn)
		_, selected := s.sess.Patient()
		s.False(selected)

		resp = s.do(http.MethodGet, "/api/basket", nil)
		var lines struct {
			Lines []basket.Line `json:"lines"`
		}
		s.decode(resp, &lines)
		s.Empty(lines.Lines)
	})
}

// =============================================================================
// Registry Ingestion
// =============================================================================

func (s *TransportSuite) TestRegistryIngest() {
	record := audit.Record{
		PatientID:   7,
		PatientYear: 2025,
		PatientName: "Mona Fathy",
		DrugName:    "Insulin",
		PrintedBy:   "Dr Mahmoud",
	}

	resp := s.do(http.MethodPost, "/api/audit", record)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var created struct {
		AuditID int64 `json:"auditId"`
	}
	s.decode(resp, &created)
	s.Equal(int64(1), created.AuditID)

	resp = s.do(http.MethodGet, "/api/audit/registry", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var body struct {
		Records []audit.Record `json:"records"`
	}
	s.decode(resp, &body)
	s.Require().Len(body.Records, 1)
	s.Equal("Insulin", body.Records[0].DrugName)

	s.Run("record without drug name fails validation", func() {
		resp := s.do(http.MethodPost, "/api/audit", audit.Record{PatientName: "X"})
		resp.Body.Close()
		s.Equal(http.StatusBadRequest, resp.StatusCode)
	})
}
