package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"drive/internal/sim"
)

// EnvPrefix namespaces environment overrides, e.g. DRIVE_WORLD_SEED=7.
const EnvPrefix = "DRIVE"

// DefaultName is the config file looked up in the working directory when no path is given.
const DefaultName = "drive"

type PhysicsConfig struct {
	MaxSpeed     float64 `mapstructure:"maxSpeed" yaml:"maxSpeed"`
	Acceleration float64 `mapstructure:"acceleration" yaml:"acceleration"`
	Deceleration float64 `mapstructure:"deceleration" yaml:"deceleration"`
	TurnSpeed    float64 `mapstructure:"turnSpeed" yaml:"turnSpeed"`
	Pushback     float64 `mapstructure:"pushback" yaml:"pushback"`
	Restitution  float64 `mapstructure:"restitution" yaml:"restitution"`
}

type CameraConfig struct {
	Distance  float64 `mapstructure:"distance" yaml:"distance"`
	Height    float64 `mapstructure:"height" yaml:"height"`
	Smoothing float64 `mapstructure:"smoothing" yaml:"smoothing"`
	FOV       float64 `mapstructure:"fov" yaml:"fov"`
}

type WorldConfig struct {
	Seed       uint64  `mapstructure:"seed" yaml:"seed"` // 0 = from clock
	Rocks      int     `mapstructure:"rocks" yaml:"rocks"`
	Trees      int     `mapstructure:"trees" yaml:"trees"`
	Extent     float64 `mapstructure:"extent" yaml:"extent"`
	Clearing   float64 `mapstructure:"clearing" yaml:"clearing"`
	ClearShift float64 `mapstructure:"clearShift" yaml:"clearShift"`
}

type WindowConfig struct {
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
	Title  string `mapstructure:"title" yaml:"title"`
	VSync  bool   `mapstructure:"vsync" yaml:"vsync"`
}

type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled" yaml:"enabled"`
	Volume  float64 `mapstructure:"volume" yaml:"volume"`
}

type TermConfig struct {
	FPS       int     `mapstructure:"fps" yaml:"fps"`
	KeyHoldMs int     `mapstructure:"keyHoldMs" yaml:"keyHoldMs"` // must outlast the terminal's auto-repeat delay
	Scale     float64 `mapstructure:"scale" yaml:"scale"`         // world units per column
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

type Config struct {
	Physics PhysicsConfig `mapstructure:"physics" yaml:"physics"`
	Camera  CameraConfig  `mapstructure:"camera" yaml:"camera"`
	World   WorldConfig   `mapstructure:"world" yaml:"world"`
	Window  WindowConfig  `mapstructure:"window" yaml:"window"`
	Audio   AudioConfig   `mapstructure:"audio" yaml:"audio"`
	Term    TermConfig    `mapstructure:"term" yaml:"term"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Physics: PhysicsConfig{
			MaxSpeed:     sim.DefaultMaxSpeed,
			Acceleration: sim.DefaultAcceleration,
			Deceleration: sim.DefaultDeceleration,
			TurnSpeed:    sim.DefaultTurnSpeed,
			Pushback:     sim.DefaultPushback,
			Restitution:  sim.DefaultRestitution,
		},
		Camera: CameraConfig{
			Distance:  sim.DefaultCameraDistance,
			Height:    sim.DefaultCameraHeight,
			Smoothing: sim.DefaultCameraSmoothing,
			FOV:       sim.DefaultFOV,
		},
		World: WorldConfig{
			Rocks:      sim.DefaultRocks,
			Trees:      sim.DefaultTrees,
			Extent:     sim.DefaultExtent,
			Clearing:   sim.DefaultClearing,
			ClearShift: sim.DefaultClearShift,
		},
		Window: WindowConfig{Width: 1280, Height: 720, Title: "Procedural Drive", VSync: true},
		Audio:  AudioConfig{Enabled: true, Volume: 0.5},
		Term:   TermConfig{FPS: 60, KeyHoldMs: 500, Scale: 2},
		Log:    LogConfig{Level: "info"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("physics.maxSpeed", d.Physics.MaxSpeed)
	v.SetDefault("physics.acceleration", d.Physics.Acceleration)
	v.SetDefault("physics.deceleration", d.Physics.Deceleration)
	v.SetDefault("physics.turnSpeed", d.Physics.TurnSpeed)
	v.SetDefault("physics.pushback", d.Physics.Pushback)
	v.SetDefault("physics.restitution", d.Physics.Restitution)

	v.SetDefault("camera.distance", d.Camera.Distance)
	v.SetDefault("camera.height", d.Camera.Height)
	v.SetDefault("camera.smoothing", d.Camera.Smoothing)
	v.SetDefault("camera.fov", d.Camera.FOV)

	v.SetDefault("world.seed", d.World.Seed)
	v.SetDefault("world.rocks", d.World.Rocks)
	v.SetDefault("world.trees", d.World.Trees)
	v.SetDefault("world.extent", d.World.Extent)
	v.SetDefault("world.clearing", d.World.Clearing)
	v.SetDefault("world.clearShift", d.World.ClearShift)

	v.SetDefault("window.width", d.Window.Width)
	v.SetDefault("window.height", d.Window.Height)
	v.SetDefault("window.title", d.Window.Title)
	v.SetDefault("window.vsync", d.Window.VSync)

	v.SetDefault("audio.enabled", d.Audio.Enabled)
	v.SetDefault("audio.volume", d.Audio.Volume)

	v.SetDefault("term.fps", d.Term.FPS)
	v.SetDefault("term.keyHoldMs", d.Term.KeyHoldMs)
	v.SetDefault("term.scale", d.Term.Scale)

	v.SetDefault("log.level", d.Log.Level)
}

// Load reads defaults, then the YAML file, then DRIVE_* environment variables.
// An empty path looks for drive.yaml in the working directory and tolerates its absence;
// an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values that break the driving model's invariants.
func (c *Config) Validate() error {
	var errs []error
	p := c.Physics
	if p.MaxSpeed <= 0 {
		errs = append(errs, fmt.Errorf("physics.maxSpeed must be positive, got %v", p.MaxSpeed))
	}
	if p.Acceleration <= 0 {
		errs = append(errs, fmt.Errorf("physics.acceleration must be positive, got %v", p.Acceleration))
	}
	if p.Deceleration <= 0 || p.Deceleration >= 1 {
		errs = append(errs, fmt.Errorf("physics.deceleration must be in (0,1), got %v", p.Deceleration))
	}
	// Above 1 a bounce out of full reverse would exceed the forward limit.
	if p.Restitution < 0 || p.Restitution > 1 {
		errs = append(errs, fmt.Errorf("physics.restitution must be in [0,1], got %v", p.Restitution))
	}
	if p.Pushback < 0 {
		errs = append(errs, fmt.Errorf("physics.pushback must not be negative, got %v", p.Pushback))
	}
	if c.Camera.Smoothing <= 0 || c.Camera.Smoothing > 1 {
		errs = append(errs, fmt.Errorf("camera.smoothing must be in (0,1], got %v", c.Camera.Smoothing))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov must be in (0,180), got %v", c.Camera.FOV))
	}
	if c.World.Rocks < 0 || c.World.Trees < 0 {
		errs = append(errs, fmt.Errorf("world.rocks and world.trees must not be negative"))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Term.KeyHoldMs <= 0 {
		errs = append(errs, fmt.Errorf("term.keyHoldMs must be positive, got %d", c.Term.KeyHoldMs))
	}
	if c.Term.FPS <= 0 {
		errs = append(errs, fmt.Errorf("term.fps must be positive, got %d", c.Term.FPS))
	}
	return errors.Join(errs...)
}

// Params maps the physics and camera sections onto the simulation tunables.
func (c *Config) Params() sim.Params {
	return sim.Params{
		MaxSpeed:        c.Physics.MaxSpeed,
		Acceleration:    c.Physics.Acceleration,
		Deceleration:    c.Physics.Deceleration,
		TurnSpeed:       c.Physics.TurnSpeed,
		Pushback:        c.Physics.Pushback,
		Restitution:     c.Physics.Restitution,
		CameraDistance:  c.Camera.Distance,
		CameraHeight:    c.Camera.Height,
		CameraSmoothing: c.Camera.Smoothing,
	}
}

// EnvOptions maps the world section; a zero seed is replaced by a clock seed.
func (c *Config) EnvOptions() sim.EnvOptions {
	seed := c.World.Seed
	if seed == 0 {
		seed = sim.ClockSeed()
	}
	return sim.EnvOptions{
		Seed:       seed,
		Rocks:      c.World.Rocks,
		Trees:      c.World.Trees,
		Extent:     c.World.Extent,
		Clearing:   c.World.Clearing,
		ClearShift: c.World.ClearShift,
	}
}

// WriteDefault renders the built-in configuration as YAML.
func WriteDefault(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Default()); err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	return enc.Close()
}
