package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cjeanneret/solargeo/internal/logic/geometry"
)

// MaxConfigFileBytes caps the size of a configuration file read by Load.
const MaxConfigFileBytes = 1 << 20

// DateLayout is the layout of dates in the configuration, CLI flags and the web form.
const DateLayout = time.DateOnly

// LocationConfig is the observer's location.
type LocationConfig struct {
	Name        string  `yaml:"name"`         // free label, e.g. "Amberg"
	LatitudeDeg float64 `yaml:"latitude_deg"` // geographic latitude, north positive (-90..90)
}

// PanelConfig describes the fixed PV module reported in the results table.
type PanelConfig struct {
	TiltDeg    float64 `yaml:"tilt_deg"`    // β, 0 = horizontal
	AzimuthDeg float64 `yaml:"azimuth_deg"` // clockwise from north, 180 = south
}

// IllustrationConfig holds the angles of the 3D diagram. They are illustrative and are not
// derived from the computed sun position unless LinkLiveAngles is set.
type IllustrationConfig struct {
	SunElevationDeg float64 `yaml:"sun_elevation_deg"`
	SunAzimuthDeg   float64 `yaml:"sun_azimuth_deg"`
	PanelTiltDeg    float64 `yaml:"panel_tilt_deg"`
	PanelAzimuthDeg float64 `yaml:"panel_azimuth_deg"`
	LinkLiveAngles  bool    `yaml:"link_live_angles"` // draw the computed sun instead of the fixed one
}

// SceneConfig holds the diagram dimensions (scene units).
type SceneConfig struct {
	SunDistance      float64 `yaml:"sun_distance"`
	SunRadius        float64 `yaml:"sun_radius"`
	SunResolution    int     `yaml:"sun_resolution"`
	PanelWidth       float64 `yaml:"panel_width"`
	PanelHeight      float64 `yaml:"panel_height"`
	ArcSegments      int     `yaml:"arc_segments"`
	GroundHalfExtent float64 `yaml:"ground_half_extent"`
	GroundDivisions  int     `yaml:"ground_divisions"`
}

// DefaultsConfig contains the initial form values and runtime settings.
type DefaultsConfig struct {
	Date                string  `yaml:"date"`                   // YYYY-MM-DD, empty = today
	LocalSolarTimeHours float64 `yaml:"local_solar_time_hours"` // 0..24, 12 = solar noon
	DebugLevel          int     `yaml:"debug_level"`            // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	LogFile             string  `yaml:"log_file"`               // optional rotated log file
}

// Config aggregates all application configuration.
type Config struct {
	Location     LocationConfig     `yaml:"location"`
	Panel        PanelConfig        `yaml:"panel"`
	Illustration IllustrationConfig `yaml:"illustration"`
	Scene        SceneConfig        `yaml:"scene"`
	Defaults     DefaultsConfig     `yaml:"defaults"`
}

// Default returns the built-in configuration. Load starts from it, so keys missing from
// the file keep these values.
func Default() *Config {
	p := geometry.DefaultParams()
	return &Config{
		Location: LocationConfig{Name: "Amberg", LatitudeDeg: 49.44},
		Panel:    PanelConfig{TiltDeg: 22.3, AzimuthDeg: 180},
		Illustration: IllustrationConfig{
			SunElevationDeg: p.SunElevationDeg,
			SunAzimuthDeg:   p.SunAzimuthDeg,
			PanelTiltDeg:    p.PanelTiltDeg,
			PanelAzimuthDeg: p.PanelAzimuthDeg,
		},
		Scene: SceneConfig{
			SunDistance:      p.SunDistance,
			SunRadius:        p.SunRadius,
			SunResolution:    p.SunResolution,
			PanelWidth:       p.PanelWidth,
			PanelHeight:      p.PanelHeight,
			ArcSegments:      p.ArcSegments,
			GroundHalfExtent: p.GroundHalfExtent,
			GroundDivisions:  p.GroundDivisions,
		},
		Defaults: DefaultsConfig{LocalSolarTimeHours: 12},
	}
}

// ValidateConfigPath checks that path names a .yaml file directly inside a
// "configs" directory and contains no traversal.
func ValidateConfigPath(path string) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("config path %q must not contain '..'", path)
		}
	}
	clean := filepath.Clean(path)
	if filepath.Ext(clean) != ".yaml" {
		return fmt.Errorf("config path %q must have a .yaml extension", path)
	}
	abs, err := filepath.Abs(clean)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if filepath.Base(filepath.Dir(abs)) != "configs" {
		return fmt.Errorf("config path %q must be inside a configs/ directory", path)
	}
	return nil
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > MaxConfigFileBytes {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), MaxConfigFileBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if !inRange(c.Location.LatitudeDeg, -90, 90) {
		return fmt.Errorf("location.latitude_deg must be between -90 and 90, got %.2f", c.Location.LatitudeDeg)
	}
	if !inRange(c.Panel.TiltDeg, 0, 180) {
		return fmt.Errorf("panel.tilt_deg must be between 0 and 180, got %.2f", c.Panel.TiltDeg)
	}
	if !inRange(c.Panel.AzimuthDeg, 0, 360) {
		return fmt.Errorf("panel.azimuth_deg must be between 0 and 360, got %.2f", c.Panel.AzimuthDeg)
	}

	il := c.Illustration
	if !inRange(il.SunElevationDeg, -90, 90) {
		return fmt.Errorf("illustration.sun_elevation_deg must be between -90 and 90, got %.2f", il.SunElevationDeg)
	}
	if !inRange(il.SunAzimuthDeg, 0, 360) {
		return fmt.Errorf("illustration.sun_azimuth_deg must be between 0 and 360, got %.2f", il.SunAzimuthDeg)
	}
	if !inRange(il.PanelTiltDeg, 0, 180) {
		return fmt.Errorf("illustration.panel_tilt_deg must be between 0 and 180, got %.2f", il.PanelTiltDeg)
	}
	if !inRange(il.PanelAzimuthDeg, 0, 360) {
		return fmt.Errorf("illustration.panel_azimuth_deg must be between 0 and 360, got %.2f", il.PanelAzimuthDeg)
	}

	s := c.Scene
	for name, v := range map[string]float64{
		"sun_distance":       s.SunDistance,
		"sun_radius":         s.SunRadius,
		"panel_width":        s.PanelWidth,
		"panel_height":       s.PanelHeight,
		"ground_half_extent": s.GroundHalfExtent,
	} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("scene.%s must be > 0, got %.2f", name, v)
		}
	}
	if s.SunResolution < 2 {
		return fmt.Errorf("scene.sun_resolution must be >= 2, got %d", s.SunResolution)
	}
	if s.GroundDivisions < 2 {
		return fmt.Errorf("scene.ground_divisions must be >= 2, got %d", s.GroundDivisions)
	}
	if s.ArcSegments < 1 {
		return fmt.Errorf("scene.arc_segments must be >= 1, got %d", s.ArcSegments)
	}

	if !inRange(c.Defaults.LocalSolarTimeHours, 0, 24) {
		return fmt.Errorf("defaults.local_solar_time_hours must be between 0 and 24, got %.2f", c.Defaults.LocalSolarTimeHours)
	}
	if c.Defaults.DebugLevel < 0 || c.Defaults.DebugLevel > 4 {
		return fmt.Errorf("defaults.debug_level must be between 0 and 4, got %d", c.Defaults.DebugLevel)
	}
	if c.Defaults.Date != "" {
		if _, err := time.Parse(DateLayout, c.Defaults.Date); err != nil {
			return fmt.Errorf("defaults.date: %w", err)
		}
	}
	return nil
}

// Date returns the configured default date, or the current day when none is set.
func (c *Config) Date(now time.Time) time.Time {
	if c.Defaults.Date != "" {
		if d, err := time.Parse(DateLayout, c.Defaults.Date); err == nil {
			return d
		}
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateString returns Date formatted with DateLayout.
func (c *Config) DateString(now time.Time) string {
	return c.Date(now).Format(DateLayout)
}

// PanelTilt returns the table panel tilt in radians.
func (c *Config) PanelTilt() float64 {
	return c.Panel.TiltDeg * math.Pi / 180.0
}

// PanelAzimuth returns the table panel azimuth in radians.
func (c *Config) PanelAzimuth() float64 {
	return c.Panel.AzimuthDeg * math.Pi / 180.0
}

// SceneParams returns the diagram parameters built from the illustration and scene sections.
func (c *Config) SceneParams() geometry.Params {
	p := geometry.DefaultParams()
	p.SunElevationDeg = c.Illustration.SunElevationDeg
	p.SunAzimuthDeg = c.Illustration.SunAzimuthDeg
	p.PanelTiltDeg = c.Illustration.PanelTiltDeg
	p.PanelAzimuthDeg = c.Illustration.PanelAzimuthDeg
	p.SunDistance = c.Scene.SunDistance
	p.SunRadius = c.Scene.SunRadius
	p.SunResolution = c.Scene.SunResolution
	p.PanelWidth = c.Scene.PanelWidth
	p.PanelHeight = c.Scene.PanelHeight
	p.ArcSegments = c.Scene.ArcSegments
	p.GroundHalfExtent = c.Scene.GroundHalfExtent
	p.GroundDivisions = c.Scene.GroundDivisions
	return p
}

// LinkLiveAngles reports whether the diagram should follow the computed sun position.
func (c *Config) LinkLiveAngles() bool {
	return c.Illustration.LinkLiveAngles
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}
