// Package store persists routes and their analyses as JSON documents on
// disk, one file per record.
package store

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/routerisk/routerisk/model"
)

// ErrNotFound is returned when no record exists for the given ID.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence boundary for routes and analyses.
type Store interface {
	Create(route *model.Route) error
	Get(id string) (*model.Route, error)
	List(offset, limit int) ([]*model.Route, int, error)
	Update(route *model.Route) error
	Delete(id string) error

	SaveAnalysis(a *model.Analysis) error
	Analysis(routeID string) (*model.Analysis, error)
}

// DirStore keeps each route under routes/<id>.json and each analysis under
// analysis/<routeID>.json in its base directory.
type DirStore struct {
	base string
	log  *slog.Logger
}

var _ Store = (*DirStore)(nil)

// Open creates the storage directories if needed and returns a store rooted
// at base.
func Open(base string, log *slog.Logger) (*DirStore, error) {
	if log == nil {
		log = slog.Default()
	}
	for _, sub := range []string{"routes", "analysis"} {
		if err := os.MkdirAll(filepath.Join(base, sub), 0o755); err != nil {
			return nil, fmt.Errorf("store: init %s: %w", sub, err)
		}
	}
	return &DirStore{base: base, log: log}, nil
}

// NewID returns a random 24-hex-character identifier.
func NewID() string {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

func (s *DirStore) routePath(id string) string {
	return filepath.Join(s.base, "routes", id+".json")
}

func (s *DirStore) analysisPath(routeID string) string {
	return filepath.Join(s.base, "analysis", routeID+".json")
}

// Create assigns an ID and timestamps if missing and writes the route.
func (s *DirStore) Create(route *model.Route) error {
	if route.ID == "" {
		route.ID = NewID()
	}
	now := time.Now().UTC()
	if route.CreatedAt.IsZero() {
		route.CreatedAt = now
	}
	route.UpdatedAt = now
	if route.Status == "" {
		route.Status = model.StatusPending
	}
	if err := writeJSON(s.routePath(route.ID), route); err != nil {
		return err
	}
	s.log.Info("route created", "id", route.ID, "name", route.Name)
	return nil
}

// Get loads one route by ID.
func (s *DirStore) Get(id string) (*model.Route, error) {
	var route model.Route
	if err := readJSON(s.routePath(id), &route); err != nil {
		return nil, err
	}
	return &route, nil
}

// List returns a newest-first page of routes and the total count.
func (s *DirStore) List(offset, limit int) ([]*model.Route, int, error) {
	entries, err := os.ReadDir(filepath.Join(s.base, "routes"))
	if err != nil {
		return nil, 0, fmt.Errorf("store: list routes: %w", err)
	}

	var routes []*model.Route
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		var route model.Route
		if err := readJSON(filepath.Join(s.base, "routes", e.Name()), &route); err != nil {
			s.log.Warn("skipping unreadable route file", "file", e.Name(), "err", err)
			continue
		}
		routes = append(routes, &route)
	}
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].CreatedAt.After(routes[j].CreatedAt)
	})

	total := len(routes)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return nil, total, nil
	}
	routes = routes[offset:]
	if limit > 0 && limit < len(routes) {
		routes = routes[:limit]
	}
	return routes, total, nil
}

// Update rewrites an existing route, refreshing its UpdatedAt stamp.
func (s *DirStore) Update(route *model.Route) error {
	if _, err := os.Stat(s.routePath(route.ID)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("store: update %s: %w", route.ID, ErrNotFound)
		}
		return fmt.Errorf("store: update %s: %w", route.ID, err)
	}
	route.UpdatedAt = time.Now().UTC()
	return writeJSON(s.routePath(route.ID), route)
}

// Delete removes a route and any analysis stored for it.
func (s *DirStore) Delete(id string) error {
	if err := os.Remove(s.routePath(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("store: delete %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	// Analysis is derived data; its absence is not an error.
	_ = os.Remove(s.analysisPath(id))
	s.log.Info("route deleted", "id", id)
	return nil
}

// SaveAnalysis stores the derived analysis for a route, stamping GeneratedAt.
func (s *DirStore) SaveAnalysis(a *model.Analysis) error {
	if a.RouteID == "" {
		return errors.New("store: analysis has no route id")
	}
	if a.GeneratedAt.IsZero() {
		a.GeneratedAt = time.Now().UTC()
	}
	return writeJSON(s.analysisPath(a.RouteID), a)
}

// Analysis loads the stored analysis for a route.
func (s *DirStore) Analysis(routeID string) (*model.Analysis, error) {
	var a model.Analysis
	if err := readJSON(s.analysisPath(routeID), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// writeJSON writes via a temp file and rename so readers never observe a
// partially written record.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("store: commit %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("store: read %s: %w", filepath.Base(path), ErrNotFound)
		}
		return fmt.Errorf("store: read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("store: decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
