// Package routefile reads the operator-supplied input files: the route list
// CSV and the per-route coordinate files.
package routefile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/routerisk/routerisk/model"
)

// ErrNoCoordinateColumns is returned when a coordinate file has no
// recognizable latitude or longitude column.
var ErrNoCoordinateColumns = errors.New("routefile: latitude or longitude column not found")

// ListEntry is one row of the route list CSV.
type ListEntry struct {
	BUCode       string
	RowLabel     string
	CustomerName string
	Location     string
}

// Column headings are matched case-insensitively after trimming.
var (
	latColumns  = []string{"latitude", "lat"}
	lngColumns  = []string{"longitude", "lng", "lon"}
	stepColumns = []string{"step_id", "step id", "stepid"}
)

// ParseRouteList reads the route list CSV. Expected headings are "BU Code",
// "Row Labels", "Customer Name", and "Location"; missing columns come back
// empty rather than failing the whole import.
func ParseRouteList(r io.Reader) ([]ListEntry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("routefile: read header: %w", err)
	}
	idx := headerIndex(header)
	bu := columnAt(idx, "bu code")
	label := columnAt(idx, "row labels")
	customer := columnAt(idx, "customer name")
	location := columnAt(idx, "location")

	var entries []ListEntry
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("routefile: read row: %w", err)
		}
		e := ListEntry{
			BUCode:       field(rec, bu),
			RowLabel:     field(rec, label),
			CustomerName: field(rec, customer),
			Location:     field(rec, location),
		}
		if e.BUCode == "" && e.RowLabel == "" {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ParseCoordinates reads a coordinate CSV, tolerating the column name
// variants the field teams actually produce, and returns waypoints sorted by
// step when a step column exists.
func ParseCoordinates(r io.Reader) ([]model.Coordinate, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("routefile: read header: %w", err)
	}
	idx := headerIndex(header)
	lat := firstColumn(idx, latColumns)
	lng := firstColumn(idx, lngColumns)
	step := firstColumn(idx, stepColumns)
	if lat < 0 || lng < 0 {
		return nil, ErrNoCoordinateColumns
	}

	var coords []model.Coordinate
	row := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("routefile: read row: %w", err)
		}
		row++

		latV, latErr := strconv.ParseFloat(field(rec, lat), 64)
		lngV, lngErr := strconv.ParseFloat(field(rec, lng), 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		c := model.Coordinate{Latitude: latV, Longitude: lngV, StepID: row}
		if step >= 0 {
			if s, err := strconv.Atoi(strings.TrimSpace(field(rec, step))); err == nil {
				c.StepID = s
			}
		}
		coords = append(coords, c)
	}

	if step >= 0 {
		sort.SliceStable(coords, func(i, j int) bool {
			return coords[i].StepID < coords[j].StepID
		})
	}
	return coords, nil
}

// FindCoordinateFile locates the coordinate file for one route list entry.
// Field teams name these files inconsistently, so several patterns are tried
// in order of preference.
func FindCoordinateFile(dir, buCode, rowLabel string) (string, bool) {
	padded := rowLabel
	if len(padded) < 10 {
		padded = strings.Repeat("0", 10-len(padded)) + rowLabel
	}
	candidates := []string{
		buCode + "_" + rowLabel + ".csv",
		buCode + "_00" + rowLabel + ".csv",
		buCode + "_0" + rowLabel + ".csv",
		buCode + "_" + padded + ".csv",
		rowLabel + ".csv",
	}
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

func firstColumn(idx map[string]int, names []string) int {
	for _, name := range names {
		if i, ok := idx[name]; ok {
			return i
		}
	}
	return -1
}

func columnAt(idx map[string]int, name string) int {
	if i, ok := idx[name]; ok {
		return i
	}
	return -1
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
