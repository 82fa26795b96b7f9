package basket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"medilabel/internal/catalog"
	"medilabel/internal/session"
	dErrors "medilabel/pkg/domain-errors"
	"medilabel/pkg/platform/sentinel"
)

// Service builds the print queue. A patient must be selected before any
// line can be added. Expiry month and year are set independently; the
// derived expiry date exists only once both components are present.
type Service struct {
	store   Store
	catalog catalog.Store
	session *session.Context
	logger  *slog.Logger
	gauge   LineGauge
}

// LineGauge receives the queue depth after every mutation.
type LineGauge interface {
	SetBasketLines(n int)
}

type noopGauge struct{}

func (noopGauge) SetBasketLines(int) {}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithLineGauge(g LineGauge) Option {
	return func(s *Service) {
		if g != nil {
			s.gauge = g
		}
	}
}

func NewService(store Store, cat catalog.Store, sess *session.Context, opts ...Option) *Service {
	s := &Service{
		store:   store,
		catalog: cat,
		session: sess,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		gauge:   noopGauge{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add queues a medication. An explicit instruction wins; otherwise the
// catalog supplies one, and a drug the catalog does not know gets the
// default. Free-typed drug names are how the original counter works.
func (s *Service) Add(ctx context.Context, drugName, instructionText string) (Line, error) {
	if drugName == "" {
		return Line{}, dErrors.New(dErrors.CodeValidation, "drug name is required")
	}
	if _, ok := s.session.Patient(); !ok {
		return Line{}, dErrors.New(dErrors.CodePrecondition, "select a patient before adding medications")
	}

	instruction := instructionText
	if instruction == "" {
		med, err := s.catalog.FindMedication(ctx, drugName)
		switch {
		case err == nil:
			instruction = med.Instruction
		case errors.Is(err, sentinel.ErrNotFound):
			instruction = catalog.DefaultInstruction
		default:
			return Line{}, dErrors.Wrap(err, dErrors.CodeStore, "look up medication")
		}
	}

	line := Line{
		ID:          uuid.NewString(),
		DrugName:    drugName,
		Instruction: instruction,
	}
	if err := s.store.Add(ctx, line); err != nil {
		return Line{}, dErrors.Wrap(err, dErrors.CodeStore, "queue basket line")
	}

	s.updateGauge(ctx)
	s.logger.InfoContext(ctx, "basket line added", "drug", line.DrugName, "line_id", line.ID)
	return line, nil
}

func (s *Service) List(ctx context.Context) ([]Line, error) {
	lines, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStore, "list basket")
	}
	return lines, nil
}

// SetExpiryMonth updates the expiry month of one line. An empty month
// clears the component; otherwise it is normalized to two digits.
func (s *Service) SetExpiryMonth(ctx context.Context, id, month string) (Line, error) {
	if month != "" {
		m, err := strconv.Atoi(month)
		if err != nil || m < 1 || m > 12 {
			return Line{}, dErrors.Newf(dErrors.CodeValidation, "expiry month %q must be between 1 and 12", month)
		}
		month = fmt.Sprintf("%02d", m)
	}
	return s.applyExpiry(ctx, id, func() error {
		return s.store.SetExpiryMonth(ctx, id, month)
	})
}

// SetExpiryYear updates the expiry year of one line. An empty year
// clears the component; otherwise it is a two digit year.
func (s *Service) SetExpiryYear(ctx context.Context, id, year string) (Line, error) {
	if year != "" {
		y, err := strconv.Atoi(year)
		if err != nil || y < 0 || y > 99 {
			return Line{}, dErrors.Newf(dErrors.CodeValidation, "expiry year %q must be a two digit year", year)
		}
		year = fmt.Sprintf("%02d", y)
	}
	return s.applyExpiry(ctx, id, func() error {
		return s.store.SetExpiryYear(ctx, id, year)
	})
}

func (s *Service) applyExpiry(ctx context.Context, id string, update func() error) (Line, error) {
	if err := update(); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Line{}, dErrors.Newf(dErrors.CodeNotFound, "basket line %s does not exist", id)
		}
		return Line{}, dErrors.Wrap(err, dErrors.CodeStore, "set expiry")
	}
	line, err := s.store.Get(ctx, id)
	if err != nil {
		return Line{}, dErrors.Wrap(err, dErrors.CodeStore, "reload basket line")
	}
	s.logger.InfoContext(ctx, "expiry set", "line_id", id, "expiry", line.ExpiryDate())
	return line, nil
}

// Remove drops a line from the queue. Removing an ID that is already
// gone is not an error.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStore, "remove basket line")
	}
	s.updateGauge(ctx)
	return nil
}

func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeStore, "clear basket")
	}
	s.gauge.SetBasketLines(0)
	return nil
}

func (s *Service) updateGauge(ctx context.Context) {
	lines, err := s.store.List(ctx)
	if err != nil {
		return
	}
	s.gauge.SetBasketLines(len(lines))
}
