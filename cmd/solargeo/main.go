package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cjeanneret/solargeo/internal/config"
	"github.com/cjeanneret/solargeo/internal/debug"
	"github.com/cjeanneret/solargeo/internal/logic/geometry"
	"github.com/cjeanneret/solargeo/internal/logic/report"
	"github.com/cjeanneret/solargeo/internal/logic/solar"
	"github.com/cjeanneret/solargeo/internal/metrics"
	"github.com/cjeanneret/solargeo/internal/web"
)

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start web server on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	latitude := flag.Float64("latitude", 0, "override latitude in degrees (-90..90)")
	date := flag.String("date", "", "override date (YYYY-MM-DD)")
	solarTime := flag.Float64("time", 0, "override local solar time in hours (0..24)")
	printScene := flag.Bool("scene", false, "print the 3D scene as JSON instead of the results table")
	flag.Parse()

	// Zero is a valid latitude and solar time, so record which flags were given.
	var o cliOverrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "latitude":
			o.LatitudeDeg = latitude
		case "time":
			o.LocalSolarTimeH = solarTime
		case "date":
			o.Date = *date
		}
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	if err := config.ValidateConfigPath(*cfgPath); err != nil {
		log.Fatalf("invalid config path: %v", err)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	if err := validateCLIOverrides(o); err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}
	applyOverrides(cfg, o)

	// Initialize debug system
	fileCfg := debug.FileConfig{}
	if cfg.Defaults.LogFile != "" {
		fileCfg = debug.DefaultFileConfig(cfg.Defaults.LogFile)
	}
	if err := debug.InitWithFile(cfg.Defaults.DebugLevel, fileCfg); err != nil {
		log.Fatalf("init logging failed: %v", err)
	}
	defer debug.Sync()
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)
	debug.Value("Location", cfg.Location.Name)
	debug.Value("Link live angles", cfg.LinkLiveAngles())
	debug.Angle("Panel tilt β", cfg.PanelTilt())
	debug.Angle("Panel azimuth", cfg.PanelAzimuth())

	if port := webPort.port(); port > 0 {
		webAddr := fmt.Sprintf(":%d", port)
		broadcaster := web.NewStatusBroadcaster()
		debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(broadcaster)))

		m, err := metrics.New(prometheus.NewRegistry())
		if err != nil {
			log.Fatalf("init metrics failed: %v", err)
		}
		compute, scene := newCalculator(cfg)
		formDefaults := web.FormConfig{
			LocationName:    cfg.Location.Name,
			LatitudeDeg:     cfg.Location.LatitudeDeg,
			Date:            cfg.DateString(time.Now()),
			LocalSolarTimeH: cfg.Defaults.LocalSolarTimeHours,
			TimeStepH:       0.25,
		}
		srv := web.NewServer(webAddr, broadcaster, compute, scene, formDefaults, m)
		if err := srv.Run(ctx); err != nil {
			log.Fatalf("web server: %v", err)
		}
		return
	}

	if err := runOnce(ctx, cfg, time.Now(), os.Stdout, *printScene); err != nil {
		log.Fatalf("computation failed: %v", err)
	}
}

// newCalculator builds the web callbacks over the loaded configuration.
func newCalculator(cfg *config.Config) (web.ComputeFunc, web.SceneFunc) {
	panel := report.Panel{TiltDeg: cfg.Panel.TiltDeg, AzimuthDeg: cfg.Panel.AzimuthDeg}
	params := cfg.SceneParams()
	link := cfg.LinkLiveAngles()

	compute := func(ctx context.Context, g solar.GeoTime) (report.Result, error) {
		if err := ctx.Err(); err != nil {
			return report.Result{}, err
		}
		logInputs(g)
		res := report.Evaluate(g, panel, params, link)
		logAngles(res.Angles)
		return res, nil
	}
	scene := func(ctx context.Context) geometry.SceneGeometry {
		return geometry.Build(params)
	}
	return compute, scene
}

// runOnce computes the configured inputs and writes the table, or the scene as JSON.
func runOnce(ctx context.Context, cfg *config.Config, now time.Time, out io.Writer, printScene bool) error {
	g, err := solar.NewGeoTime(cfg.Location.LatitudeDeg, cfg.Date(now), cfg.Defaults.LocalSolarTimeHours)
	if err != nil {
		return fmt.Errorf("inputs: %w", err)
	}

	compute, _ := newCalculator(cfg)
	res, err := compute(ctx, g)
	if err != nil {
		return err
	}

	if printScene {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Scene)
	}

	fmt.Fprintf(out, "Latitude %.2f°, %s, local solar time %.2f h\n\n", res.LatitudeDeg, res.Date, res.LocalSolarTimeH)
	if err := report.Render(out, res.Table); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	fmt.Fprintln(out)
	for _, n := range res.Notes {
		fmt.Fprintf(out, "* %s\n", n)
	}
	return nil
}

func logInputs(g solar.GeoTime) {
	debug.Section("Solar position")
	debug.Value("Latitude", g.LatitudeDeg())
	debug.Value("Date", g.Date().Format(config.DateLayout))
	debug.Value("Local solar time", g.LocalSolarTime())
}

func logAngles(a report.Angles) {
	debug.Step(1, fmt.Sprintf("Day of year n = %d", a.DayOfYear))
	debug.Step(2, fmt.Sprintf("Declination δ = %.4f°", a.DeclinationDeg))
	debug.Step(3, fmt.Sprintf("Hour angle ω = %.4f°", a.HourAngleDeg))
	debug.Step(4, fmt.Sprintf("Elevation h = %.4f°", a.ElevationDeg))
	debug.Step(5, fmt.Sprintf("Azimuth a_s = %.4f°", a.AzimuthDeg))
	debug.Info("h=%.2f° ψz=%.2f° a_s=%.2f°", a.ElevationDeg, a.ZenithDeg, a.AzimuthDeg)
}

// cliOverrides holds the inputs given on the command line. Nil pointers and an empty
// date mean "use config default".
type cliOverrides struct {
	LatitudeDeg     *float64
	Date            string
	LocalSolarTimeH *float64
}

// validateCLIOverrides checks that the given CLI overrides are within valid ranges.
func validateCLIOverrides(o cliOverrides) error {
	if o.LatitudeDeg != nil {
		v := *o.LatitudeDeg
		if math.IsNaN(v) || math.IsInf(v, 0) || v < -90 || v > 90 {
			return fmt.Errorf("latitude must be between -90 and 90, got %g", v)
		}
	}
	if o.LocalSolarTimeH != nil {
		v := *o.LocalSolarTimeH
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 24 {
			return fmt.Errorf("time must be between 0 and 24, got %g", v)
		}
	}
	if o.Date != "" {
		if _, err := time.Parse(config.DateLayout, o.Date); err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
		}
	}
	return nil
}

// applyOverrides mutates cfg with the given overrides.
func applyOverrides(cfg *config.Config, o cliOverrides) {
	if o.LatitudeDeg != nil {
		cfg.Location.LatitudeDeg = *o.LatitudeDeg
	}
	if o.LocalSolarTimeH != nil {
		cfg.Defaults.LocalSolarTimeHours = *o.LocalSolarTimeH
	}
	if o.Date != "" {
		cfg.Defaults.Date = o.Date
	}
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }
