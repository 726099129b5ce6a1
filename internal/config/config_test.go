package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------- ValidateConfigPath ----------

func TestValidateConfigPath_Valid(t *testing.T) {
	// Create a real configs/ directory so filepath.Abs resolves correctly.
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "default.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ValidateConfigPath(path); err != nil {
		t.Errorf("expected valid path, got error: %v", err)
	}
}

func TestValidateConfigPath_PathTraversal(t *testing.T) {
	cases := []string{
		"../../etc/passwd",
		"configs/../../../etc/shadow",
	}
	for _, path := range cases {
		if err := ValidateConfigPath(path); err == nil {
			t.Errorf("expected error for traversal path %q, got nil", path)
		}
	}
}

func TestValidateConfigPath_WrongExtension(t *testing.T) {
	cases := []string{
		"configs/default.json",
		"configs/default.yml",
		"configs/default.txt",
		"configs/default",
	}
	for _, path := range cases {
		if err := ValidateConfigPath(path); err == nil {
			t.Errorf("expected error for extension in %q, got nil", path)
		}
	}
}

func TestValidateConfigPath_NotInConfigsDir(t *testing.T) {
	cases := []string{
		"other/default.yaml",
		"default.yaml",
		"/tmp/default.yaml",
	}
	for _, path := range cases {
		if err := ValidateConfigPath(path); err == nil {
			t.Errorf("expected error for path outside configs/ %q, got nil", path)
		}
	}
}

func TestValidateConfigPath_EmptyPath(t *testing.T) {
	if err := ValidateConfigPath(""); err == nil {
		t.Error("expected error for empty path, got nil")
	}
}

func TestValidateConfigPath_VeryLongPath(t *testing.T) {
	long := "configs/" + strings.Repeat("a", 1000) + ".yaml"
	// Should not panic; error or success is OS-dependent, but must not crash.
	_ = ValidateConfigPath(long)
}

func TestValidateConfigPath_SpecialChars(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name    string
		wantErr bool
	}{
		{"con fig.yaml", false},
		{"café.yaml", false},
	}
	for _, tc := range cases {
		path := filepath.Join(cfgDir, tc.name)
		err := ValidateConfigPath(path)
		if tc.wantErr && err == nil {
			t.Errorf("expected error for %q, got nil", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("unexpected error for %q: %v", tc.name, err)
		}
	}
}

func TestValidateConfigPath_DoubleTraversal(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	// Try to escape via ../../configs/ok.yaml; filepath.Clean resolves this
	// and the parent must still be "configs".
	path := filepath.Join(cfgDir, "../../configs/ok.yaml")
	err := ValidateConfigPath(path)
	// After Clean the parent may or may not be "configs" depending on resolution.
	// The important thing is it either succeeds with a valid parent or fails.
	_ = err
}

// ---------- Load ----------

// writeConfig creates a temporary configs/ dir with the given YAML content and returns the path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
location:
  name: "Amberg"
  latitude_deg: 49.44
panel:
  tilt_deg: 22.3
  azimuth_deg: 180
illustration:
  sun_elevation_deg: 35
  sun_azimuth_deg: 150
  panel_tilt_deg: 30
  panel_azimuth_deg: 180
  link_live_angles: true
scene:
  sun_distance: 3.0
  sun_radius: 0.3
  sun_resolution: 25
  panel_width: 0.8
  panel_height: 1.6
  arc_segments: 40
  ground_half_extent: 1.0
  ground_divisions: 10
defaults:
  date: "2025-06-21"
  local_solar_time_hours: 12
  debug_level: 2
  log_file: ""
`

func TestLoad_ValidFullConfig(t *testing.T) {
	path := writeConfig(t, validYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Location.Name != "Amberg" {
		t.Errorf("location.name = %q, want %q", cfg.Location.Name, "Amberg")
	}
	if cfg.Location.LatitudeDeg != 49.44 {
		t.Errorf("location.latitude_deg = %v, want 49.44", cfg.Location.LatitudeDeg)
	}
	if cfg.Panel.TiltDeg != 22.3 {
		t.Errorf("panel.tilt_deg = %v, want 22.3", cfg.Panel.TiltDeg)
	}
	if !cfg.Illustration.LinkLiveAngles {
		t.Error("illustration.link_live_angles should be true")
	}
	if cfg.Scene.SunResolution != 25 {
		t.Errorf("scene.sun_resolution = %d, want 25", cfg.Scene.SunResolution)
	}
	if cfg.Defaults.DebugLevel != 2 {
		t.Errorf("defaults.debug_level = %d, want 2", cfg.Defaults.DebugLevel)
	}
	if got := cfg.DateString(time.Now()); got != "2025-06-21" {
		t.Errorf("DateString() = %q, want 2025-06-21", got)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	path := writeConfig(t, "location:\n  latitude_deg: 10\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Location.LatitudeDeg != 10 {
		t.Errorf("latitude_deg = %v, want 10", cfg.Location.LatitudeDeg)
	}
	if cfg.Panel.TiltDeg != 22.3 || cfg.Panel.AzimuthDeg != 180 {
		t.Errorf("panel default = %+v, want tilt 22.3 azimuth 180", cfg.Panel)
	}
	if cfg.Illustration.SunElevationDeg != 35 || cfg.Illustration.SunAzimuthDeg != 150 {
		t.Errorf("illustration default = %+v", cfg.Illustration)
	}
	if cfg.Illustration.LinkLiveAngles {
		t.Error("link_live_angles should default to false")
	}
	if cfg.Defaults.LocalSolarTimeHours != 12 {
		t.Errorf("local_solar_time_hours default = %v, want 12", cfg.Defaults.LocalSolarTimeHours)
	}
	if cfg.Scene.GroundDivisions != 10 {
		t.Errorf("ground_divisions default = %d, want 10", cfg.Scene.GroundDivisions)
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Location.LatitudeDeg != 49.44 {
		t.Errorf("latitude_deg = %v, want 49.44", cfg.Location.LatitudeDeg)
	}
}

func TestLoad_ExplicitZeroesKept(t *testing.T) {
	// The equator and a north-facing panel are legitimate zero values.
	yaml := `
location:
  latitude_deg: 0
panel:
  tilt_deg: 0
  azimuth_deg: 0
defaults:
  local_solar_time_hours: 0
`
	path := writeConfig(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Location.LatitudeDeg != 0 || cfg.Panel.AzimuthDeg != 0 || cfg.Defaults.LocalSolarTimeHours != 0 {
		t.Errorf("explicit zero values were overwritten: %+v", cfg)
	}
}

func TestLoad_OutOfRange(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"latitude_high", "location:\n  latitude_deg: " + formatFloat(90.5)},
		{"latitude_low", "location:\n  latitude_deg: " + formatFloat(-91)},
		{"latitude_nan", "location:\n  latitude_deg: .nan"},
		{"panel_tilt", "panel:\n  tilt_deg: " + formatFloat(181)},
		{"panel_azimuth", "panel:\n  azimuth_deg: " + formatFloat(-1)},
		{"illustration_elevation", "illustration:\n  sun_elevation_deg: " + formatFloat(95)},
		{"illustration_azimuth", "illustration:\n  sun_azimuth_deg: " + formatFloat(400)},
		{"illustration_tilt", "illustration:\n  panel_tilt_deg: " + formatFloat(-5)},
		{"scene_distance", "scene:\n  sun_distance: 0"},
		{"scene_radius", "scene:\n  sun_radius: " + formatFloat(-0.3)},
		{"scene_resolution", "scene:\n  sun_resolution: 1"},
		{"scene_divisions", "scene:\n  ground_divisions: 1"},
		{"scene_segments", "scene:\n  arc_segments: 0"},
		{"solar_time", "defaults:\n  local_solar_time_hours: " + formatFloat(24.5)},
		{"debug_level", "defaults:\n  debug_level: 5"},
		{"date", "defaults:\n  date: \"21/06/2025\""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.yaml)
			if _, err := Load(path); err == nil {
				t.Errorf("expected error for %s, got nil", tc.name)
			}
		})
	}
}

func TestLoad_FileTooLarge(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "big.yaml")
	data := make([]byte, MaxConfigFileBytes+1)
	for i := range data {
		data[i] = '#'
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for oversized config file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "{{{{invalid yaml!!!!")
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestLoad_UnknownFields(t *testing.T) {
	yaml := `
location:
  latitude_deg: 45
unknown_section:
  foo: bar
`
	path := writeConfig(t, yaml)
	_, err := Load(path)
	if err != nil {
		t.Errorf("unknown fields should be ignored, got error: %v", err)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "nonexistent.yaml")
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for nonexistent file, got nil")
	}
}

// ---------- Helper methods ----------

func TestConfig_Date(t *testing.T) {
	now := time.Date(2025, time.March, 3, 17, 45, 0, 0, time.FixedZone("X", 3600))

	cfg := Default()
	want := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	if got := cfg.Date(now); !got.Equal(want) {
		t.Errorf("Date() without config = %v, want %v", got, want)
	}

	cfg.Defaults.Date = "2024-12-31"
	if got := cfg.DateString(now); got != "2024-12-31" {
		t.Errorf("DateString() = %q, want 2024-12-31", got)
	}
}

func TestConfig_PanelRadians(t *testing.T) {
	cfg := &Config{Panel: PanelConfig{TiltDeg: 90, AzimuthDeg: 180}}
	if got := cfg.PanelTilt(); math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("PanelTilt() = %v, want pi/2", got)
	}
	if got := cfg.PanelAzimuth(); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("PanelAzimuth() = %v, want pi", got)
	}
}

func TestConfig_SceneParams(t *testing.T) {
	cfg := Default()
	cfg.Illustration.SunElevationDeg = 20
	cfg.Scene.PanelWidth = 1.2
	cfg.Scene.ArcSegments = 12

	p := cfg.SceneParams()
	if p.SunElevationDeg != 20 {
		t.Errorf("SunElevationDeg = %v, want 20", p.SunElevationDeg)
	}
	if p.PanelWidth != 1.2 {
		t.Errorf("PanelWidth = %v, want 1.2", p.PanelWidth)
	}
	if p.ArcSegments != 12 {
		t.Errorf("ArcSegments = %d, want 12", p.ArcSegments)
	}
	if p.ElevationArcRadius != 0.45 {
		t.Errorf("ElevationArcRadius = %v, want 0.45", p.ElevationArcRadius)
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() is invalid: %v", err)
	}
}

// formatFloat is a test helper for embedding floats into YAML strings.
func formatFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
