// Package config loads application settings from a TOML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Report holds settings for PDF generation.
type Report struct {
	Letterhead  string `toml:"letterhead"`    // optional stationery PDF
	LiveMapBase string `toml:"live_map_base"` // base URL for map links
	OutputDir   string `toml:"output_dir"`
}

// Tiles holds settings for map imagery.
type Tiles struct {
	Server   string `toml:"server"`
	CacheDir string `toml:"cache_dir"`
	Zoom     int    `toml:"zoom"`
	MaxTiles int    `toml:"max_tiles"`
}

// Config is the application configuration.
type Config struct {
	DataDir      string `toml:"data_dir"`
	RouteDataDir string `toml:"route_data_dir"` // coordinate files from field teams
	MaxRoutes    int    `toml:"max_routes"`     // per-import cap

	Report Report `toml:"report"`
	Tiles  Tiles  `toml:"tiles"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir:      "data",
		RouteDataDir: "route_data",
		MaxRoutes:    500,
		Report: Report{
			LiveMapBase: "https://www.openstreetmap.org",
			OutputDir:   "reports",
		},
		Tiles: Tiles{
			Server:   "https://tile.openstreetmap.org",
			CacheDir: "tile_cache",
			Zoom:     12,
			MaxTiles: 4,
		},
	}
}

// Load reads path when it exists, layers it over the defaults, then applies
// ROUTERISK_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.DataDir, "ROUTERISK_DATA_DIR")
	setString(&cfg.RouteDataDir, "ROUTERISK_ROUTE_DATA_DIR")
	setInt(&cfg.MaxRoutes, "ROUTERISK_MAX_ROUTES")
	setString(&cfg.Report.Letterhead, "ROUTERISK_LETTERHEAD")
	setString(&cfg.Report.LiveMapBase, "ROUTERISK_LIVE_MAP_BASE")
	setString(&cfg.Report.OutputDir, "ROUTERISK_OUTPUT_DIR")
	setString(&cfg.Tiles.Server, "ROUTERISK_TILE_SERVER")
	setString(&cfg.Tiles.CacheDir, "ROUTERISK_TILE_CACHE_DIR")
	setInt(&cfg.Tiles.Zoom, "ROUTERISK_TILE_ZOOM")
	setInt(&cfg.Tiles.MaxTiles, "ROUTERISK_TILE_MAX_TILES")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
