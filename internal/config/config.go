// Package config loads the layered pointer/keyboard settings and named
// profile bundles (SPEC_FULL.md's ambient-stack configuration section)
// via github.com/spf13/viper, grounded on the kiosk404-echoryn pack's
// viper.BindPFlags/cobra.OnInitialize config-file pattern
// (internal/echoctl/cmd/cmd.go). The CLI overwrites selected fields of the
// loaded Config with its flag values after Load returns, so those flags
// win over file values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/d-biehl/platynui/pkg/keyboard"
	"github.com/d-biehl/platynui/pkg/pointer"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

// PointerSettings is the file/flag-friendly mirror of pointer.Settings:
// durations as plain strings or nanosecond integers (viper/mapstructure
// handle both), Mode as a name instead of an enum, ScrollStep/
// DoubleClickSize flattened to scalar fields so no custom decode hook is
// needed for uivalue's value types.
type PointerSettings struct {
	Mode                string        `mapstructure:"mode"`
	StepsPerPixel       float64       `mapstructure:"steps_per_pixel"`
	AfterMoveDelay      time.Duration `mapstructure:"after_move_delay"`
	AfterInputDelay     time.Duration `mapstructure:"after_input_delay"`
	PressReleaseDelay   time.Duration `mapstructure:"press_release_delay"`
	AfterClickDelay     time.Duration `mapstructure:"after_click_delay"`
	MultiClickDelay     time.Duration `mapstructure:"multi_click_delay"`
	DoubleClickTime     time.Duration `mapstructure:"double_click_time"`
	DoubleClickWidth    float64       `mapstructure:"double_click_width"`
	DoubleClickHeight   float64       `mapstructure:"double_click_height"`
	EnsureMovePosition  bool          `mapstructure:"ensure_move_position"`
	EnsureMoveThreshold float64       `mapstructure:"ensure_move_threshold"`
	EnsureMoveTimeout   time.Duration `mapstructure:"ensure_move_timeout"`
	ScrollStepX         float64       `mapstructure:"scroll_step_x"`
	ScrollStepY         float64       `mapstructure:"scroll_step_y"`
	ScrollDelay         time.Duration `mapstructure:"scroll_delay"`
	OvershootAmplitude  float64       `mapstructure:"overshoot_amplitude"`
	OvershootSteps      int           `mapstructure:"overshoot_steps"`
	BezierAmplitude     float64       `mapstructure:"bezier_amplitude"`
	JitterAmplitude     float64       `mapstructure:"jitter_amplitude"`
	JitterFrequency     float64       `mapstructure:"jitter_frequency"`
}

// PointerProfile is a named PointerSettings bundle, loaded into
// pointer.Engine.Profiles at startup.
type PointerProfile struct {
	Name     string          `mapstructure:"name"`
	Settings PointerSettings `mapstructure:"settings"`
}

// KeyboardSettings mirrors keyboard.Settings for file/flag loading.
type KeyboardSettings struct {
	PressDelay         time.Duration `mapstructure:"press_delay"`
	ReleaseDelay       time.Duration `mapstructure:"release_delay"`
	BetweenKeysDelay   time.Duration `mapstructure:"between_keys_delay"`
	ChordPressDelay    time.Duration `mapstructure:"chord_press_delay"`
	ChordReleaseDelay  time.Duration `mapstructure:"chord_release_delay"`
	AfterSequenceDelay time.Duration `mapstructure:"after_sequence_delay"`
	AfterTextDelay     time.Duration `mapstructure:"after_text_delay"`
}

// KeyboardProfile is a named KeyboardSettings bundle.
type KeyboardProfile struct {
	Name     string           `mapstructure:"name"`
	Settings KeyboardSettings `mapstructure:"settings"`
}

// Config is the fully-resolved, file+flag+env merged configuration tree.
type Config struct {
	Provider string `mapstructure:"provider"`
	LogLevel string `mapstructure:"log_level"`
	NoColor  bool   `mapstructure:"no_color"`

	Pointer               PointerSettings  `mapstructure:"pointer"`
	PointerActiveProfile  string           `mapstructure:"pointer_active_profile"`
	PointerProfiles       []PointerProfile `mapstructure:"pointer_profiles"`

	Keyboard              KeyboardSettings  `mapstructure:"keyboard"`
	KeyboardActiveProfile string            `mapstructure:"keyboard_active_profile"`
	KeyboardProfiles      []KeyboardProfile `mapstructure:"keyboard_profiles"`
}

// Default returns a Config seeded from pointer.DefaultSettings and
// keyboard.DefaultSettings, the same baseline the engines use when no
// configuration file is present at all.
func Default() *Config {
	return &Config{
		Provider: "mock",
		LogLevel: "info",
		Pointer:  fromPointerSettings(pointer.DefaultSettings()),
		Keyboard: fromKeyboardSettings(keyboard.DefaultSettings()),
	}
}

// Load builds a viper instance rooted at configPath (or the conventional
// "platynui" search path if configPath is empty), reads environment
// variables under the PLATYNUI_ prefix, and unmarshals the merged result
// over Default(). A missing config file is not an error — Default()'s
// values simply stand, matching the teacher's flag-default fallback.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PLATYNUI")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("platynui")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/platynui")
		v.AddConfigPath("/etc/platynui")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: reading config: %w", err)
		}
	}

	cfg := Default()
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	)
	if err := v.Unmarshal(cfg, viper.DecodeHook(decodeHook)); err != nil {
		return nil, fmt.Errorf("config: decoding config: %w", err)
	}
	return cfg, nil
}

// BindFlags binds a pflag.FlagSet onto v (the kiosk404-echoryn cmd.go's
// viper.BindPFlags(cmds.PersistentFlags()) pattern). Load creates its own
// viper instance, so flags bound here do not affect what Load returns.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	return v.BindPFlags(flags)
}

func parseMode(name string) pointer.Mode {
	switch name {
	case "direct":
		return pointer.Direct
	case "bezier":
		return pointer.Bezier
	case "overshoot":
		return pointer.Overshoot
	case "jitter":
		return pointer.Jitter
	default:
		return pointer.Linear
	}
}

func toPointerSettings(s PointerSettings) pointer.Settings {
	return pointer.Settings{
		Mode:                parseMode(s.Mode),
		StepsPerPixel:       s.StepsPerPixel,
		AfterMoveDelay:      s.AfterMoveDelay,
		AfterInputDelay:     s.AfterInputDelay,
		PressReleaseDelay:   s.PressReleaseDelay,
		AfterClickDelay:     s.AfterClickDelay,
		MultiClickDelay:     s.MultiClickDelay,
		DoubleClickTime:     s.DoubleClickTime,
		DoubleClickSize:     uivalue.Size{Width: s.DoubleClickWidth, Height: s.DoubleClickHeight},
		EnsureMovePosition:  s.EnsureMovePosition,
		EnsureMoveThreshold: s.EnsureMoveThreshold,
		EnsureMoveTimeout:   s.EnsureMoveTimeout,
		ScrollStep:          uivalue.Point{X: s.ScrollStepX, Y: s.ScrollStepY},
		ScrollDelay:         s.ScrollDelay,
		OvershootAmplitude:  s.OvershootAmplitude,
		OvershootSteps:      s.OvershootSteps,
		BezierAmplitude:     s.BezierAmplitude,
		JitterAmplitude:     s.JitterAmplitude,
		JitterFrequency:     s.JitterFrequency,
	}
}

func fromPointerSettings(s pointer.Settings) PointerSettings {
	return PointerSettings{
		Mode:                s.Mode.String(),
		StepsPerPixel:       s.StepsPerPixel,
		AfterMoveDelay:      s.AfterMoveDelay,
		AfterInputDelay:     s.AfterInputDelay,
		PressReleaseDelay:   s.PressReleaseDelay,
		AfterClickDelay:     s.AfterClickDelay,
		MultiClickDelay:     s.MultiClickDelay,
		DoubleClickTime:     s.DoubleClickTime,
		DoubleClickWidth:    s.DoubleClickSize.Width,
		DoubleClickHeight:   s.DoubleClickSize.Height,
		EnsureMovePosition:  s.EnsureMovePosition,
		EnsureMoveThreshold: s.EnsureMoveThreshold,
		EnsureMoveTimeout:   s.EnsureMoveTimeout,
		ScrollStepX:         s.ScrollStep.X,
		ScrollStepY:         s.ScrollStep.Y,
		ScrollDelay:         s.ScrollDelay,
		OvershootAmplitude:  s.OvershootAmplitude,
		OvershootSteps:      s.OvershootSteps,
		BezierAmplitude:     s.BezierAmplitude,
		JitterAmplitude:     s.JitterAmplitude,
		JitterFrequency:     s.JitterFrequency,
	}
}

func toKeyboardSettings(s KeyboardSettings) keyboard.Settings {
	return keyboard.Settings{
		PressDelay:         s.PressDelay,
		ReleaseDelay:       s.ReleaseDelay,
		BetweenKeysDelay:   s.BetweenKeysDelay,
		ChordPressDelay:    s.ChordPressDelay,
		ChordReleaseDelay:  s.ChordReleaseDelay,
		AfterSequenceDelay: s.AfterSequenceDelay,
		AfterTextDelay:     s.AfterTextDelay,
	}
}

func fromKeyboardSettings(s keyboard.Settings) KeyboardSettings {
	return KeyboardSettings{
		PressDelay:         s.PressDelay,
		ReleaseDelay:       s.ReleaseDelay,
		BetweenKeysDelay:   s.BetweenKeysDelay,
		ChordPressDelay:    s.ChordPressDelay,
		ChordReleaseDelay:  s.ChordReleaseDelay,
		AfterSequenceDelay: s.AfterSequenceDelay,
		AfterTextDelay:     s.AfterTextDelay,
	}
}

// ApplyPointer installs cfg's base settings and named profiles onto eng,
// then activates PointerActiveProfile if set.
func ApplyPointer(cfg *Config, eng *pointer.Engine) {
	eng.Settings = toPointerSettings(cfg.Pointer)
	for _, p := range cfg.PointerProfiles {
		eng.RegisterProfile(pointer.Profile{Name: p.Name, Settings: toPointerSettings(p.Settings)})
	}
	if cfg.PointerActiveProfile != "" {
		eng.UseProfile(cfg.PointerActiveProfile)
	}
}

// ApplyKeyboard installs cfg's base settings and named profiles onto eng,
// then activates KeyboardActiveProfile if set.
func ApplyKeyboard(cfg *Config, eng *keyboard.Engine) {
	eng.Settings = toKeyboardSettings(cfg.Keyboard)
	for _, p := range cfg.KeyboardProfiles {
		eng.RegisterProfile(keyboard.Profile{Name: p.Name, Settings: toKeyboardSettings(p.Settings)})
	}
	if cfg.KeyboardActiveProfile != "" {
		eng.UseProfile(cfg.KeyboardActiveProfile)
	}
}
