// Package mapimg fetches slippy-map tiles for route waypoints and composes
// them into the strip images embedded in reports.
package mapimg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/routerisk/routerisk/model"
)

const tileSize = 256

// Tile identifies one slippy-map tile.
type Tile struct {
	Zoom, X, Y int
}

// TileAt returns the tile containing the coordinate at the given zoom.
func TileAt(c model.Coordinate, zoom int) Tile {
	n := math.Exp2(float64(zoom))
	latRad := c.Latitude * math.Pi / 180
	x := int((c.Longitude + 180) / 360 * n)
	y := int((1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n)

	max := int(n) - 1
	return Tile{Zoom: zoom, X: clamp(x, 0, max), Y: clamp(y, 0, max)}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Fetcher downloads tiles over HTTP with an on-disk cache.
type Fetcher struct {
	baseURL   string // e.g. https://tile.openstreetmap.org
	cacheDir  string
	client    *http.Client
	userAgent string
	log       *slog.Logger
}

// NewFetcher returns a tile fetcher caching under cacheDir. Tile servers
// require an identifying user agent, so one is always sent.
func NewFetcher(baseURL, cacheDir string, log *slog.Logger) *Fetcher {
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{
		baseURL:   baseURL,
		cacheDir:  cacheDir,
		client:    &http.Client{Timeout: 15 * time.Second},
		userAgent: "routerisk/1.0 (route risk assessment reports)",
		log:       log,
	}
}

// Fetch returns the tile image, from cache when possible.
func (f *Fetcher) Fetch(ctx context.Context, t Tile) (image.Image, error) {
	cachePath := filepath.Join(f.cacheDir,
		fmt.Sprintf("%d", t.Zoom), fmt.Sprintf("%d_%d.png", t.X, t.Y))
	if img, err := readPNG(cachePath); err == nil {
		return img, nil
	}

	url := fmt.Sprintf("%s/%d/%d/%d.png", f.baseURL, t.Zoom, t.X, t.Y)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("mapimg: build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapimg: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mapimg: fetch %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("mapimg: read tile: %w", err)
	}
	if err := f.cache(cachePath, data); err != nil {
		f.log.Warn("tile cache write failed", "tile", t, "err", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mapimg: decode tile: %w", err)
	}
	return img, nil
}

func (f *Fetcher) cache(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readPNG(path string) (image.Image, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return png.Decode(fh)
}

// Composite scales each image to cell pixels square and lays them out in a
// single horizontal strip.
func Composite(images []image.Image, cell int) image.Image {
	if len(images) == 0 || cell <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	out := image.NewRGBA(image.Rect(0, 0, cell*len(images), cell))
	for i, img := range images {
		dst := image.Rect(i*cell, 0, (i+1)*cell, cell)
		xdraw.CatmullRom.Scale(out, dst, img, img.Bounds(), xdraw.Src, nil)
	}
	return out
}

// Stack scales each image to cell pixels square and lays them out in a
// single vertical column, for portrait-format report pages.
func Stack(images []image.Image, cell int) image.Image {
	if len(images) == 0 || cell <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	out := image.NewRGBA(image.Rect(0, 0, cell, cell*len(images)))
	for i, img := range images {
		dst := image.Rect(0, i*cell, cell, (i+1)*cell)
		xdraw.CatmullRom.Scale(out, dst, img, img.Bounds(), xdraw.Src, nil)
	}
	return out
}

// RouteStrip fetches tiles for up to maxTiles evenly spaced waypoints and
// composes them into one strip. Waypoints mapping to the same tile collapse
// to one fetch.
func (f *Fetcher) RouteStrip(ctx context.Context, points []model.Coordinate, zoom, maxTiles int) (image.Image, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("mapimg: no waypoints")
	}
	if maxTiles <= 0 {
		maxTiles = 4
	}

	var tiles []Tile
	seen := map[Tile]bool{}
	step := float64(len(points)-1) / float64(maxTiles-1)
	if len(points) == 1 || maxTiles == 1 {
		step = 0
	}
	for i := 0; i < maxTiles; i++ {
		idx := int(math.Round(float64(i) * step))
		if idx >= len(points) {
			idx = len(points) - 1
		}
		t := TileAt(points[idx], zoom)
		if !seen[t] {
			seen[t] = true
			tiles = append(tiles, t)
		}
	}

	var images []image.Image
	for _, t := range tiles {
		img, err := f.Fetch(ctx, t)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return Composite(images, tileSize), nil
}
