// Package config loads go-armview configuration from YAML with environment
// overrides. Every field has a sensible default so the viewer runs with no
// config file at all.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "500ms" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration for the viewer.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Robot     RobotConfig     `yaml:"robot"`
	Arm       ArmConfig       `yaml:"arm"`
	Camera    CameraConfig    `yaml:"camera"`
	Animation AnimationConfig `yaml:"animation"`
	Render    RenderConfig    `yaml:"render"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig configures the web presentation server.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// RobotConfig configures the XML-RPC transport to the robot server.
// Credentials are taken from ROBOT_USER / ROBOT_PASS, never from the file.
type RobotConfig struct {
	Endpoint       string   `yaml:"endpoint"`
	RequestTimeout Duration `yaml:"request_timeout"`
}

// ArmConfig holds the kinematic dimensions of the rendered arm, in
// robot-defined units.
type ArmConfig struct {
	BaseHeight  float64 `yaml:"base_height"`
	LowerLen    float64 `yaml:"lower_len"`
	UpperLen    float64 `yaml:"upper_len"`
	EffectorLen float64 `yaml:"effector_len"`
}

// CameraConfig holds orbit camera defaults and limits. Angles in degrees
// for readability; the render package works in radians.
type CameraConfig struct {
	YawDeg      float64 `yaml:"yaw_deg"`
	PitchDeg    float64 `yaml:"pitch_deg"`
	Distance    float64 `yaml:"distance"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
	RotateSens  float64 `yaml:"rotate_sensitivity"`
	ZoomSens    float64 `yaml:"zoom_sensitivity"`
}

// AnimationConfig tunes pose interpolation. Duration is fixed per move
// regardless of distance.
type AnimationConfig struct {
	Duration Duration `yaml:"duration"`
	Epsilon  float64  `yaml:"epsilon"`
}

// RenderConfig configures the frame loop and the projected viewport.
type RenderConfig struct {
	FPS    int     `yaml:"fps"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	FOVDeg float64 `yaml:"fov_deg"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration. Arm dimensions and camera
// limits match the robot server's published model.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8090"},
		Robot: RobotConfig{
			Endpoint:       "http://127.0.0.1:8000/RPC2",
			RequestTimeout: Duration(10 * time.Second),
		},
		Arm: ArmConfig{
			BaseHeight:  2.0,
			LowerLen:    6.0,
			UpperLen:    5.5,
			EffectorLen: 1.8,
		},
		Camera: CameraConfig{
			YawDeg:      45,
			PitchDeg:    -20,
			Distance:    25.0,
			MinDistance: 8.0,
			MaxDistance: 50.0,
			RotateSens:  0.5,
			ZoomSens:    1.0,
		},
		Animation: AnimationConfig{
			Duration: Duration(500 * time.Millisecond),
			Epsilon:  1e-3,
		},
		Render: RenderConfig{
			FPS:    60,
			Width:  1200,
			Height: 800,
			FOVDeg: 60,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load returns the configuration from path layered over the defaults, then
// applies environment overrides. An empty path skips the file entirely; a
// missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides select fields from ARMVIEW_* variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("ARMVIEW_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("ARMVIEW_ENDPOINT"); v != "" {
		c.Robot.Endpoint = v
	}
	if v := os.Getenv("ARMVIEW_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ARMVIEW_FPS"); v != "" {
		if fps, err := strconv.Atoi(v); err == nil {
			c.Render.FPS = fps
		}
	}
}

// Validate rejects configurations the viewer cannot run with.
func (c *Config) Validate() error {
	if c.Arm.LowerLen <= 0 || c.Arm.UpperLen <= 0 || c.Arm.EffectorLen <= 0 || c.Arm.BaseHeight < 0 {
		return fmt.Errorf("arm dimensions must be positive (got %+v)", c.Arm)
	}
	if c.Camera.MinDistance <= 0 || c.Camera.MaxDistance <= c.Camera.MinDistance {
		return fmt.Errorf("camera distance limits invalid: min=%v max=%v",
			c.Camera.MinDistance, c.Camera.MaxDistance)
	}
	if c.Animation.Duration <= 0 {
		return fmt.Errorf("animation duration must be positive, got %v", c.Animation.Duration.Std())
	}
	if c.Animation.Epsilon < 0 {
		return fmt.Errorf("animation epsilon must be non-negative, got %v", c.Animation.Epsilon)
	}
	if c.Render.FPS <= 0 {
		return fmt.Errorf("render fps must be positive, got %d", c.Render.FPS)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("viewport size invalid: %dx%d", c.Render.Width, c.Render.Height)
	}
	return nil
}

// Credentials returns the robot login from the environment.
// The server expects them on every call, so the transport keeps them.
func Credentials() (user, pass string) {
	return os.Getenv("ROBOT_USER"), os.Getenv("ROBOT_PASS")
}
