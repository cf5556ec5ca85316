// Command routerisk imports transport routes, analyzes their driving
// hazards, and renders route risk assessment PDFs.
//
// # Installation
//
//	go install github.com/routerisk/routerisk/cmd/routerisk@latest
//
// # Usage
//
//	routerisk import -list routes.csv        import the route list and coordinates
//	routerisk list                           show stored routes, newest first
//	routerisk analyze -id <route-id>         derive hazards and risk scores
//	routerisk report -id <route-id>          render the assessment PDF
//
// Configuration is read from routerisk.toml (override with -config) and
// ROUTERISK_* environment variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/routerisk/routerisk/config"
	"github.com/routerisk/routerisk/mapimg"
	"github.com/routerisk/routerisk/model"
	"github.com/routerisk/routerisk/pdfsurface"
	"github.com/routerisk/routerisk/report"
	"github.com/routerisk/routerisk/risk"
	"github.com/routerisk/routerisk/routefile"
	"github.com/routerisk/routerisk/store"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "routerisk: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}
	cmd, rest := args[0], args[1:]

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	cfgPath := fs.String("config", "routerisk.toml", "configuration file")
	listPath := fs.String("list", "", "route list CSV (import)")
	routeID := fs.String("id", "", "route id (analyze, report)")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DataDir, log)
	if err != nil {
		return err
	}

	switch cmd {
	case "import":
		if *listPath == "" {
			return fmt.Errorf("import: -list is required")
		}
		return runImport(st, cfg, log, *listPath)
	case "list":
		return runList(st)
	case "analyze":
		if *routeID == "" {
			return fmt.Errorf("analyze: -id is required")
		}
		return runAnalyze(st, log, *routeID)
	case "report":
		if *routeID == "" {
			return fmt.Errorf("report: -id is required")
		}
		return runReport(st, cfg, log, *routeID)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: routerisk <command> [flags]

commands:
  import   import the route list CSV and matching coordinate files
  list     show stored routes
  analyze  derive hazards and risk scores for a route
  report   render the assessment PDF for an analyzed route`)
}

func runImport(st store.Store, cfg config.Config, log *slog.Logger, listPath string) error {
	fh, err := os.Open(listPath)
	if err != nil {
		return err
	}
	defer fh.Close()

	entries, err := routefile.ParseRouteList(fh)
	if err != nil {
		return err
	}
	if cfg.MaxRoutes > 0 && len(entries) > cfg.MaxRoutes {
		log.Warn("route list truncated", "entries", len(entries), "max", cfg.MaxRoutes)
		entries = entries[:cfg.MaxRoutes]
	}

	imported := 0
	for _, e := range entries {
		route := &model.Route{
			Name:         e.BUCode + "-" + e.RowLabel,
			FromCode:     e.BUCode,
			ToCode:       e.RowLabel,
			CustomerName: e.CustomerName,
			Location:     e.Location,
		}

		path, ok := routefile.FindCoordinateFile(cfg.RouteDataDir, e.BUCode, e.RowLabel)
		if !ok {
			route.Status = model.StatusFailed
			route.ProcessingErrors = append(route.ProcessingErrors, "coordinate file not found")
		} else {
			cf, err := os.Open(path)
			if err != nil {
				return err
			}
			coords, perr := routefile.ParseCoordinates(cf)
			cf.Close()
			if perr != nil {
				route.Status = model.StatusFailed
				route.ProcessingErrors = append(route.ProcessingErrors, perr.Error())
			} else {
				route.Points = coords
			}
		}

		if err := st.Create(route); err != nil {
			return err
		}
		imported++
	}
	log.Info("import finished", "routes", imported)
	return nil
}

func runList(st store.Store) error {
	routes, total, err := st.List(0, 0)
	if err != nil {
		return err
	}
	fmt.Printf("%d route(s)\n", total)
	for _, r := range routes {
		fmt.Printf("%s  %-20s  %-10s  %s %.1f\n",
			r.ID, r.Name, r.Status, r.Risk.Level, r.Risk.Overall)
	}
	return nil
}

func runAnalyze(st store.Store, log *slog.Logger, id string) error {
	route, err := st.Get(id)
	if err != nil {
		return err
	}
	if len(route.Points) < 3 {
		return fmt.Errorf("route %s has too few waypoints to analyze", id)
	}

	route.Status = model.StatusProcessing
	if err := st.Update(route); err != nil {
		return err
	}

	a := &model.Analysis{RouteID: route.ID}
	a.SharpTurns = risk.AnalyzeSharpTurns(route.Points)
	a.BlindSpots = risk.IdentifyBlindSpots(route.Points)
	a.AccidentAreas = risk.IdentifyAccidentProne(a.SharpTurns, a.BlindSpots)

	total := 0.0
	for i := 1; i < len(route.Points); i++ {
		total += risk.Distance(route.Points[i-1], route.Points[i])
	}
	route.TotalKm = total

	route.Risk = risk.ScoreRoute(a)
	route.Status = model.StatusCompleted

	if err := st.SaveAnalysis(a); err != nil {
		return err
	}
	if err := st.Update(route); err != nil {
		return err
	}
	log.Info("route analyzed",
		"id", route.ID,
		"sharpTurns", len(a.SharpTurns),
		"blindSpots", len(a.BlindSpots),
		"level", route.Risk.Level)
	return nil
}

func runReport(st store.Store, cfg config.Config, log *slog.Logger, id string) error {
	route, err := st.Get(id)
	if err != nil {
		return err
	}
	a, err := st.Analysis(id)
	if err != nil {
		return err
	}

	var strip image.Image
	if len(route.Points) > 0 {
		fetcher := mapimg.NewFetcher(cfg.Tiles.Server, cfg.Tiles.CacheDir, log)
		strip, err = fetcher.RouteStrip(context.Background(), route.Points, cfg.Tiles.Zoom, cfg.Tiles.MaxTiles)
		if err != nil {
			// The report is still useful without imagery.
			log.Warn("map imagery unavailable", "err", err)
			strip = nil
		}
	}

	var opts []pdfsurface.Option
	if cfg.Report.Letterhead != "" {
		opts = append(opts, pdfsurface.WithLetterhead(cfg.Report.Letterhead))
	}
	surf := pdfsurface.New(opts...)

	builder := report.New(surf,
		report.WithLiveMapBase(cfg.Report.LiveMapBase),
		report.WithLogger(log))
	if err := builder.Build(route, a, strip); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Report.OutputDir, 0o755); err != nil {
		return err
	}
	outPath := filepath.Join(cfg.Report.OutputDir, route.ID+".pdf")
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := surf.Output(out); err != nil {
		return err
	}

	route.PDFGenerated = true
	route.PDFPath = outPath
	if err := st.Update(route); err != nil {
		return err
	}
	log.Info("report written", "path", outPath)
	return nil
}
