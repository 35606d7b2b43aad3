package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/msalah0e/strainscope/internal/camera"
	"github.com/msalah0e/strainscope/internal/layout"
	"github.com/msalah0e/strainscope/internal/scene"
)

// Config holds strainscope configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Camera CameraConfig `toml:"camera"`
	Rotate RotateConfig `toml:"rotate"`
	Scene  SceneConfig  `toml:"scene"`
	UI     UIConfig     `toml:"ui"`
	Log    LogConfig    `toml:"log"`
}

// LayoutConfig controls the 3D placement of strains.
type LayoutConfig struct {
	BaseYear        int     `toml:"base_year"`
	WidthPerYear    float64 `toml:"width_per_year"`
	RadiusIncrement float64 `toml:"radius_increment"`
}

// CameraConfig controls the initial camera and the focus rig.
type CameraConfig struct {
	Offset     [3]float64 `toml:"offset"`
	FollowRate float64    `toml:"follow_rate"`
	FOV        float64    `toml:"fov"`
	Distance   float64    `toml:"distance"`
	Polar      float64    `toml:"polar"`
}

// RotateConfig controls idle auto-rotation.
type RotateConfig struct {
	Enabled    bool    `toml:"enabled"`
	Speed      float64 `toml:"speed"` // radians per tick
	MinAzimuth float64 `toml:"min_azimuth"`
	MaxAzimuth float64 `toml:"max_azimuth"`
	Epsilon    float64 `toml:"epsilon"`
}

// SceneConfig controls what the renderer draws.
type SceneConfig struct {
	FPS          int `toml:"fps"`
	RingInterval int `toml:"ring_interval"`
	Stars        int `toml:"stars"`
}

// UIConfig controls display options.
type UIConfig struct {
	Emoji bool `toml:"emoji"`
	Color bool `toml:"color"`
}

// LogConfig controls the debug log file.
type LogConfig struct {
	Enabled bool   `toml:"enabled"`
	Level   string `toml:"level"`
	File    string `toml:"file"` // empty means StateDir()/strainscope.log
}

// Default returns the default configuration.
func Default() *Config {
	lp := layout.DefaultParams()
	return &Config{
		Layout: LayoutConfig{
			BaseYear:        lp.BaseYear,
			WidthPerYear:    lp.WidthPerYear,
			RadiusIncrement: lp.RadiusIncrement,
		},
		Camera: CameraConfig{
			Offset:     [3]float64{0, 6, 18},
			FollowRate: 3.0,
			FOV:        60,
			Distance:   60,
			Polar:      1.1,
		},
		Rotate: RotateConfig{
			Enabled:    true,
			Speed:      0.004,
			MinAzimuth: -0.8,
			MaxAzimuth: 0.8,
			Epsilon:    0.001,
		},
		Scene: SceneConfig{FPS: 30, RingInterval: 10, Stars: 120},
		UI:    UIConfig{Emoji: true, Color: true},
		Log:   LogConfig{Enabled: false, Level: "info"},
	}
}

// LayoutParams converts the [layout] section.
func (c *Config) LayoutParams() layout.Params {
	return layout.Params{
		BaseYear:        c.Layout.BaseYear,
		WidthPerYear:    c.Layout.WidthPerYear,
		RadiusIncrement: c.Layout.RadiusIncrement,
	}
}

// Rig converts the [camera] section into the focus rig.
func (c *Config) Rig() camera.Rig {
	o := c.Camera.Offset
	return camera.Rig{Offset: layout.Vec3{X: o[0], Y: o[1], Z: o[2]}, Rate: c.Camera.FollowRate}
}

// AutoRotate converts the [rotate] section.
func (c *Config) AutoRotate() *camera.AutoRotate {
	r := c.Rotate
	return camera.NewAutoRotate(r.Speed, r.MinAzimuth, r.MaxAzimuth, r.Epsilon)
}

// SceneOptions converts the [scene] section.
func (c *Config) SceneOptions() scene.Options {
	opts := scene.DefaultOptions()
	opts.RingInterval = c.Scene.RingInterval
	opts.Stars = c.Scene.Stars
	return opts
}

// Validate reports settings the explorer cannot run with.
func (c *Config) Validate() error {
	if err := c.LayoutParams().Validate(); err != nil {
		return fmt.Errorf("[layout]: %w", err)
	}
	if c.Scene.FPS <= 0 || c.Scene.FPS > 240 {
		return fmt.Errorf("[scene]: fps must be between 1 and 240, got %d", c.Scene.FPS)
	}
	if c.Camera.FollowRate <= 0 {
		return fmt.Errorf("[camera]: follow_rate must be positive, got %v", c.Camera.FollowRate)
	}
	return nil
}

// ConfigDir returns the strainscope config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "strainscope")
}

// StateDir returns the directory for the activity log and debug log.
func StateDir() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "strainscope")
}

// LineageDir is where user dataset overlays live.
func LineageDir() string {
	return filepath.Join(ConfigDir(), "lineage")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// ProjectFile is the per-directory override file name.
const ProjectFile = ".strainscope.toml"

// Load reads the user config and then the nearest project file above the
// working directory. Keys a file leaves out keep their earlier values; a
// missing or broken file is skipped.
func Load() *Config {
	cfg := Default()
	for _, path := range []string{Path(), findProjectConfig()} {
		if path == "" {
			continue
		}
		_ = overlay(cfg, path)
	}
	return cfg
}

// LoadFile reads the config at path on top of the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := overlay(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overlay(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// decode into a copy so a half-parsed file leaves cfg untouched
	next := *cfg
	if err := toml.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	*cfg = next
	return nil
}

// findProjectConfig walks up from the working directory looking for
// ProjectFile.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, ProjectFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	if _, err := os.Stat(Path()); err == nil {
		return nil
	}
	return Save(Default())
}
