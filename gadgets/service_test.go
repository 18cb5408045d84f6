package gadgets_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jrsteele09/go-gadget-server/gadgets"
	fakegadgetrepo "github.com/jrsteele09/go-gadget-server/gadgets/repofake"
	apperrors "github.com/jrsteele09/go-gadget-server/internal/errors"
	"github.com/jrsteele09/go-gadget-server/internal/utils"
	"github.com/stretchr/testify/require"
)

// sequenceNames hands out codenames in order.
type sequenceNames struct {
	names []string
	err   error
	seen  [][]string
}

func (s *sequenceNames) Generate(_ context.Context, existing []string) (string, error) {
	s.seen = append(s.seen, existing)
	if s.err != nil {
		return "", s.err
	}
	if len(s.names) == 0 {
		return "", nil
	}
	name := s.names[0]
	s.names = s.names[1:]
	return name, nil
}

// brokenRepo fails every write.
type brokenRepo struct {
	*fakegadgetrepo.FakeGadgetRepo
}

func (brokenRepo) Create(context.Context, *gadgets.Gadget) error { return errors.New("disk full") }
func (brokenRepo) Update(context.Context, *gadgets.Gadget) error { return errors.New("disk full") }

type testFixture struct {
	repo    *fakegadgetrepo.FakeGadgetRepo
	names   *sequenceNames
	now     time.Time
	service *gadgets.Service
}

func setupTestFixture(t *testing.T, names ...string) *testFixture {
	t.Helper()

	f := &testFixture{
		repo:  fakegadgetrepo.NewFakeGadgetRepo(),
		names: &sequenceNames{names: names},
		now:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	svc, err := gadgets.NewService(f.repo, f.names,
		gadgets.WithNowTime(func() time.Time { return f.now }),
		gadgets.WithProbability(func() int { return 42 }),
	)
	require.NoError(t, err)
	f.service = svc
	return f
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := gadgets.NewService(nil, &sequenceNames{})
	require.Error(t, err)
	_, err = gadgets.NewService(fakegadgetrepo.NewFakeGadgetRepo(), nil)
	require.Error(t, err)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("new gadget is available and named", func(t *testing.T) {
		f := setupTestFixture(t, "Silent Falcon", "Iron Owl")

		g, err := f.service.Create(ctx)
		require.NoError(t, err)
		require.Equal(t, "Silent Falcon", g.Name)
		require.Equal(t, gadgets.StatusAvailable, g.Status)
		require.Nil(t, g.DecommissionedOn)

		_, err = f.service.Create(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"Silent Falcon"}, f.names.seen[1])
	})

	t.Run("empty codename", func(t *testing.T) {
		f := setupTestFixture(t)

		_, err := f.service.Create(ctx)
		require.ErrorIs(t, err, gadgets.ErrEmptyCodename)
		require.Equal(t, apperrors.KindCreationFailed, apperrors.KindOf(err))
		require.Equal(t, "Codename could not be generated", apperrors.Message(err))
	})

	t.Run("generator failure", func(t *testing.T) {
		f := setupTestFixture(t)
		f.names.err = errors.New("quota exceeded")

		_, err := f.service.Create(ctx)
		require.ErrorIs(t, err, apperrors.ErrCreationFailed)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, err := gadgets.NewService(brokenRepo{fakegadgetrepo.NewFakeGadgetRepo()}, &sequenceNames{names: []string{"Iron Owl"}})
		require.NoError(t, err)

		_, err = svc.Create(ctx)
		require.ErrorIs(t, err, apperrors.ErrCreationFailed)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("empty inventory", func(t *testing.T) {
		f := setupTestFixture(t)
		_, err := f.service.List(ctx, "")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
		require.Equal(t, "No gadgets found in the inventory!", apperrors.Message(err))
	})

	f := setupTestFixture(t, "Silent Falcon", "Iron Owl")
	first, err := f.service.Create(ctx)
	require.NoError(t, err)
	_, err = f.service.Create(ctx)
	require.NoError(t, err)
	_, err = f.service.Decommission(ctx, first.ID)
	require.NoError(t, err)

	t.Run("all with probability", func(t *testing.T) {
		list, err := f.service.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, list, 2)
		for _, l := range list {
			require.Equal(t, 42, l.SuccessProbability)
		}
	})

	t.Run("filtered", func(t *testing.T) {
		list, err := f.service.List(ctx, "decommissioned")
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, first.ID, list[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := f.service.List(ctx, "DESTROYED")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
		require.Equal(t, "No gadgets with status DESTROYED found in the inventory!", apperrors.Message(err))
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := f.service.List(ctx, "LOST")
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestListDestroyed(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, "Silent Falcon", "Iron Owl")

	doomed, err := f.service.Create(ctx)
	require.NoError(t, err)
	survivor, err := f.service.Create(ctx)
	require.NoError(t, err)

	_, err = f.service.SelfDestruct(ctx, doomed.ID, "abc123")
	require.NoError(t, err)

	list, err := f.service.List(ctx, "DESTROYED")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, doomed.ID, list[0].ID)
	require.Equal(t, gadgets.StatusDestroyed, list[0].Status)

	list, err = f.service.List(ctx, "AVAILABLE")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, survivor.ID, list[0].ID)
}

func TestListProbabilityInRange(t *testing.T) {
	ctx := context.Background()
	repo := fakegadgetrepo.NewFakeGadgetRepo()
	svc, err := gadgets.NewService(repo, &sequenceNames{names: []string{"Silent Falcon"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx)
	require.NoError(t, err)

	for range 50 {
		list, err := svc.List(ctx, "")
		require.NoError(t, err)
		require.GreaterOrEqual(t, list[0].SuccessProbability, 0)
		require.LessOrEqual(t, list[0].SuccessProbability, 100)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, "Silent Falcon")
	g, err := f.service.Create(ctx)
	require.NoError(t, err)

	t.Run("missing id", func(t *testing.T) {
		_, err := f.service.Update(ctx, gadgets.UpdateRequest{NewName: utils.Ptr("x")})
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.service.Update(ctx, gadgets.UpdateRequest{ID: "missing"})
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("name only keeps status", func(t *testing.T) {
		updated, err := f.service.Update(ctx, gadgets.UpdateRequest{ID: g.ID, NewName: utils.Ptr("Brass Heron")})
		require.NoError(t, err)
		require.Equal(t, "Brass Heron", updated.Name)
		require.Equal(t, gadgets.StatusAvailable, updated.Status)
	})

	t.Run("status only keeps name", func(t *testing.T) {
		updated, err := f.service.Update(ctx, gadgets.UpdateRequest{ID: g.ID, NewStatus: utils.Ptr("DEPLOYED")})
		require.NoError(t, err)
		require.Equal(t, "Brass Heron", updated.Name)
		require.Equal(t, gadgets.StatusDeployed, updated.Status)

		stored, err := f.repo.Get(ctx, g.ID)
		require.NoError(t, err)
		require.Equal(t, gadgets.StatusDeployed, stored.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := f.service.Update(ctx, gadgets.UpdateRequest{ID: g.ID, NewStatus: utils.Ptr("LOST")})
		require.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("illegal transition", func(t *testing.T) {
		_, err := f.service.SelfDestruct(ctx, g.ID, "any")
		require.NoError(t, err)

		_, err = f.service.Update(ctx, gadgets.UpdateRequest{ID: g.ID, NewStatus: utils.Ptr("AVAILABLE")})
		require.ErrorIs(t, err, gadgets.ErrInvalidTransition)
	})

	t.Run("write failure", func(t *testing.T) {
		repo := fakegadgetrepo.NewFakeGadgetRepo()
		existing := &gadgets.Gadget{Name: "Iron Owl", Status: gadgets.StatusAvailable}
		require.NoError(t, repo.Create(ctx, existing))

		svc, err := gadgets.NewService(brokenRepo{repo}, &sequenceNames{})
		require.NoError(t, err)
		_, err = svc.Update(ctx, gadgets.UpdateRequest{ID: existing.ID, NewName: utils.Ptr("x")})
		require.ErrorIs(t, err, apperrors.ErrUpdateFailed)
	})
}

func TestDecommission(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, "Silent Falcon")
	g, err := f.service.Create(ctx)
	require.NoError(t, err)

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.service.Decommission(ctx, "missing")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("stamps time", func(t *testing.T) {
		d, err := f.service.Decommission(ctx, g.ID)
		require.NoError(t, err)
		require.Equal(t, gadgets.StatusDecommissioned, d.Status)
		require.Equal(t, f.now, *d.DecommissionedOn)
	})

	t.Run("repeat re-stamps and stays decommissioned", func(t *testing.T) {
		f.now = f.now.Add(time.Hour)
		d, err := f.service.Decommission(ctx, g.ID)
		require.NoError(t, err)
		require.Equal(t, gadgets.StatusDecommissioned, d.Status)
		require.Equal(t, f.now, *d.DecommissionedOn)
	})

	t.Run("destroyed gadgets stay destroyed", func(t *testing.T) {
		_, err := f.service.SelfDestruct(ctx, g.ID, "boom")
		require.NoError(t, err)
		_, err = f.service.Decommission(ctx, g.ID)
		require.ErrorIs(t, err, gadgets.ErrInvalidTransition)
	})
}

func TestSelfDestruct(t *testing.T) {
	ctx := context.Background()
	f := setupTestFixture(t, "Silent Falcon")
	g, err := f.service.Create(ctx)
	require.NoError(t, err)

	t.Run("unknown id is reported before missing code", func(t *testing.T) {
		_, err := f.service.SelfDestruct(ctx, "missing", "")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("missing code", func(t *testing.T) {
		_, err := f.service.SelfDestruct(ctx, g.ID, "")
		require.ErrorIs(t, err, apperrors.ErrValidation)
		require.Equal(t, "Confirmation code required!", apperrors.Message(err))
	})

	t.Run("any non-empty code is accepted", func(t *testing.T) {
		d, err := f.service.SelfDestruct(ctx, g.ID, "definitely-not-checked")
		require.NoError(t, err)
		require.Equal(t, gadgets.StatusDestroyed, d.Status)
		require.NotNil(t, d.DecommissionedOn)
	})

	t.Run("repeat is allowed", func(t *testing.T) {
		d, err := f.service.SelfDestruct(ctx, g.ID, "again")
		require.NoError(t, err)
		require.Equal(t, gadgets.StatusDestroyed, d.Status)
	})
}
