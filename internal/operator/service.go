package operator

import (
	"context"
	"errors"
	"io"
	"log/slog"

	dErrors "medilabel/pkg/domain-errors"
	"medilabel/pkg/platform/sentinel"
)

// Service authenticates operators against the account store.
//
// Credentials are compared as stored. The account records carry plain
// passwords today; swapping in a hash comparison only touches Login.
type Service struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login returns the matching operator or CodeUnauthorized. Unknown
// usernames and wrong passwords produce the same error.
func (s *Service) Login(ctx context.Context, username, password string) (Operator, error) {
	if username == "" || password == "" {
		return Operator{}, dErrors.New(dErrors.CodeValidation, "username and password are required")
	}

	op, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "login rejected: unknown username", "username", username)
			return Operator{}, dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")
		}
		return Operator{}, dErrors.Wrap(err, dErrors.CodeStore, "look up operator")
	}

	if !op.IsActive {
		s.logger.WarnContext(ctx, "login rejected: inactive account", "username", username)
		return Operator{}, dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")
	}
	if op.Password != password {
		s.logger.WarnContext(ctx, "login rejected: wrong password", "username", username)
		return Operator{}, dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")
	}

	s.logger.InfoContext(ctx, "operator logged in", "username", username, "access_level", op.AccessLevel)
	return op, nil
}
