package store_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/routerisk/routerisk/model"
	"github.com/routerisk/routerisk/store"
)

func open(t *testing.T) *store.DirStore {
	t.Helper()
	s, err := store.Open(t.TempDir(), nil)
	require.NoError(t, err)
	return s
}

func TestCreateAndGet(t *testing.T) {
	s := open(t)
	route := &model.Route{Name: "HYD-VJA", FromCode: "HYD1", ToCode: "VJA2"}
	require.NoError(t, s.Create(route))
	require.NotEmpty(t, route.ID)
	require.Equal(t, model.StatusPending, route.Status)

	got, err := s.Get(route.ID)
	require.NoError(t, err)
	require.Equal(t, "HYD-VJA", got.Name)
	require.Equal(t, "VJA2", got.ToCode)
}

func TestGetMissing(t *testing.T) {
	s := open(t)
	_, err := s.Get("000000000000000000000000")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListNewestFirstPaged(t *testing.T) {
	s := open(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		route := &model.Route{
			Name:      fmt.Sprintf("route-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, s.Create(route))
	}

	page, total, err := s.List(0, 2)
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, page, 2)
	require.Equal(t, "route-4", page[0].Name)
	require.Equal(t, "route-3", page[1].Name)

	page, total, err = s.List(4, 10)
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, page, 1)
	require.Equal(t, "route-0", page[0].Name)

	page, _, err = s.List(99, 10)
	require.NoError(t, err)
	require.Empty(t, page)
}

func TestUpdate(t *testing.T) {
	s := open(t)
	route := &model.Route{Name: "before"}
	require.NoError(t, s.Create(route))

	route.Name = "after"
	route.Status = model.StatusCompleted
	require.NoError(t, s.Update(route))

	got, err := s.Get(route.ID)
	require.NoError(t, err)
	require.Equal(t, "after", got.Name)
	require.Equal(t, model.StatusCompleted, got.Status)

	missing := &model.Route{ID: "ffffffffffffffffffffffff"}
	require.ErrorIs(t, s.Update(missing), store.ErrNotFound)
}

func TestDeleteRemovesAnalysis(t *testing.T) {
	s := open(t)
	route := &model.Route{Name: "doomed"}
	require.NoError(t, s.Create(route))
	require.NoError(t, s.SaveAnalysis(&model.Analysis{RouteID: route.ID}))

	require.NoError(t, s.Delete(route.ID))

	_, err := s.Get(route.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Analysis(route.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.Delete(route.ID), store.ErrNotFound)
}

func TestAnalysisRoundTrip(t *testing.T) {
	s := open(t)
	a := &model.Analysis{
		RouteID: store.NewID(),
		SharpTurns: []model.SharpTurn{
			{AngleDeg: 95.5, Direction: "right", RiskScore: 8},
		},
	}
	require.NoError(t, s.SaveAnalysis(a))
	require.False(t, a.GeneratedAt.IsZero())

	got, err := s.Analysis(a.RouteID)
	require.NoError(t, err)
	require.Len(t, got.SharpTurns, 1)
	require.Equal(t, "right", got.SharpTurns[0].Direction)

	require.Error(t, s.SaveAnalysis(&model.Analysis{}))
}

func TestNewIDShapeAndUniqueness(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := store.NewID()
		require.Len(t, id, 24)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestErrNotFoundWrapping(t *testing.T) {
	s := open(t)
	_, err := s.Get("nope")
	require.True(t, errors.Is(err, store.ErrNotFound))
	require.Contains(t, err.Error(), "nope")
}
