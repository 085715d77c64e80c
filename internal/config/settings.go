package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Mode is the accessibility mode selected by the player.
type Mode string

const (
	ModeAudioFirst  Mode = "audio-first"
	ModeVisualFirst Mode = "visual-first"
	ModeMulti       Mode = "multi-sensory"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAudioFirst, ModeVisualFirst, ModeMulti:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q (want %s, %s or %s)", s, ModeAudioFirst, ModeVisualFirst, ModeMulti)
}

// Channels reports which feedback channels a mode activates.
func (m Mode) Channels() map[Channel]bool {
	switch m {
	case ModeAudioFirst:
		return map[Channel]bool{
			ChannelAudio: true, ChannelHaptic: true,
			ChannelDecoyAudio: true, ChannelDecoyHaptic: true,
		}
	case ModeVisualFirst:
		return map[Channel]bool{
			ChannelHaptic: true, ChannelDecoyHaptic: true, ChannelVisual: true,
		}
	default:
		return map[Channel]bool{
			ChannelAudio: true, ChannelHaptic: true,
			ChannelDecoyAudio: true, ChannelDecoyHaptic: true, ChannelVisual: true,
		}
	}
}

// Narrates reports whether spoken narration belongs to the mode.
func (m Mode) Narrates() bool {
	return m != ModeVisualFirst
}

// Settings are runtime options read from the environment and overridden by flags.
type Settings struct {
	Mode         string `env:"SEEKER_MODE" envDefault:"multi-sensory"`
	Level        int    `env:"SEEKER_LEVEL" envDefault:"1"`
	Narration    bool   `env:"SEEKER_NARRATION" envDefault:"true"`
	Voice        string `env:"SEEKER_VOICE"`
	Locale       string `env:"SEEKER_LOCALE" envDefault:"en-US"`
	HapticDevice string `env:"SEEKER_HAPTIC_DEVICE"`
	Demo         bool   `env:"SEEKER_DEMO"`
	Seed         int64  `env:"SEEKER_SEED"`
	LogLevel     string `env:"SEEKER_LOG_LEVEL" envDefault:"info"`
	LogFile      string `env:"SEEKER_LOG_FILE"`
}

// LoadSettings parses Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// Validate checks cross-field constraints.
func (s Settings) Validate() error {
	if _, err := ParseMode(s.Mode); err != nil {
		return err
	}
	if s.Level < MinLevel || s.Level > MaxLevel {
		return fmt.Errorf("level %d out of range %d-%d", s.Level, MinLevel, MaxLevel)
	}
	return nil
}
