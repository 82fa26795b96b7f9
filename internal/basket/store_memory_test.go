package basket

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"medilabel/pkg/platform/sentinel"
)

// =============================================================================
// In-Memory Basket Store Test Suite
// =============================================================================

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func (s *InMemoryStoreSuite) TestListPreservesInsertionOrder() {
	ctx := context.Background()

	for _, name := range []string{"Paracetamol", "Amoxicillin", "Ibuprofen"} {
		s.Require().NoError(s.store.Add(ctx, Line{ID: name, DrugName: name}))
	}

	lines, err := s.store.List(ctx)
	s.NoError(err)
	s.Len(lines, 3)
	s.Equal("Paracetamol", lines[0].DrugName)
	s.Equal("Amoxicillin", lines[1].DrugName)
	s.Equal("Ibuprofen", lines[2].DrugName)
}

func (s *InMemoryStoreSuite) TestRemoveKeepsOrderOfRemaining() {
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		s.Require().NoError(s.store.Add(ctx, Line{ID: id, DrugName: id}))
	}
	s.Require().NoError(s.store.Remove(ctx, "b"))
	s.Require().NoError(s.store.Remove(ctx, "b")) // idempotent

	lines, err := s.store.List(ctx)
	s.NoError(err)
	s.Len(lines, 2)
	s.Equal("a", lines[0].ID)
	s.Equal("c", lines[1].ID)
}

func (s *InMemoryStoreSuite) TestSetExpiry() {
	ctx := context.Background()

	s.Run("components compose into the derived date", func() {
		s.Require().NoError(s.store.Add(ctx, Line{ID: "x", DrugName: "Aspirin"}))

		s.Require().NoError(s.store.SetExpiryMonth(ctx, "x", "03"))
		line, err := s.store.Get(ctx, "x")
		s.NoError(err)
		s.Empty(line.ExpiryDate())
		s.False(line.HasExpiry())

		s.Require().NoError(s.store.SetExpiryYear(ctx, "x", "27"))
		line, err = s.store.Get(ctx, "x")
		s.NoError(err)
		s.Equal("03/27", line.ExpiryDate())
		s.True(line.HasExpiry())
	})

	s.Run("clearing one component clears the derived date", func() {
		s.Require().NoError(s.store.SetExpiryMonth(ctx, "x", ""))

		line, err := s.store.Get(ctx, "x")
		s.NoError(err)
		s.Empty(line.ExpiryDate())
		s.Equal("27", line.ExpiryYear)
	})

	s.Run("unknown line returns not found", func() {
		err := s.store.SetExpiryMonth(ctx, "missing", "03")
		s.ErrorIs(err, sentinel.ErrNotFound)
		err = s.store.SetExpiryYear(ctx, "missing", "27")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestDuplicateIDConflicts() {
	ctx := context.Background()

	s.Require().NoError(s.store.Add(ctx, Line{ID: "dup"}))
	err := s.store.Add(ctx, Line{ID: "dup"})
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *InMemoryStoreSuite) TestClear() {
	ctx := context.Background()

	s.Require().NoError(s.store.Add(ctx, Line{ID: "a"}))
	s.Require().NoError(s.store.Clear(ctx))

	lines, err := s.store.List(ctx)
	s.NoError(err)
	s.Empty(lines)
}
