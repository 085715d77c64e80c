package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"seeker.klederson.com/internal/app"
	"seeker.klederson.com/internal/audio"
	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/haptic"
	"seeker.klederson.com/internal/log"
	"seeker.klederson.com/internal/platform"
	"seeker.klederson.com/internal/speech"
)

var flagNoNarration bool

func main() {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "seeker",
		Short: "Seeker - find hidden objects by sound, touch and glow",
		Long: `Seeker is a hidden-object game for the terminal. Each level hides one
object in the arena; move the cursor and follow the feedback to find it.

Proximity is reported on several channels at once: a looping tone that
swells as you close in, vibration on a Bluetooth wearable, a glow around
the cursor, and spoken warmer/colder hints. Decoys appear on later levels.

Every option can also be set through SEEKER_* environment variables.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(settings)
		},
	}

	f := rootCmd.Flags()
	f.StringVar(&settings.Mode, "mode", settings.Mode, "Accessibility mode: audio-first, visual-first or multi-sensory")
	f.IntVar(&settings.Level, "level", settings.Level, "Level to start at (1-5)")
	f.StringVar(&settings.Voice, "voice", settings.Voice, "Narration voice name")
	f.StringVar(&settings.Locale, "locale", settings.Locale, "Preferred narration locale")
	f.BoolVar(&flagNoNarration, "no-narration", false, "Disable spoken narration")
	f.StringVar(&settings.HapticDevice, "haptic-device", settings.HapticDevice, `Bluetooth wearable MAC or name fragment ("any" for the first one found)`)
	f.BoolVar(&settings.Demo, "demo", settings.Demo, "Let the demo pilot move the cursor")
	f.Int64Var(&settings.Seed, "seed", settings.Seed, "Random seed for decoys and facts (0 picks one)")
	f.StringVar(&settings.LogLevel, "log-level", settings.LogLevel, "Log level: debug, info, warn or error")
	f.StringVar(&settings.LogFile, "log-file", settings.LogFile, "Write logs to this file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(s config.Settings) error {
	if flagNoNarration {
		s.Narration = false
	}
	if err := s.Validate(); err != nil {
		return err
	}
	mode, _ := config.ParseMode(s.Mode)
	if s.Seed == 0 {
		s.Seed = time.Now().UnixNano()
	}

	w, closer, err := log.OpenFile(s.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}
	log.Init(s.LogLevel, w)
	log.Info("starting", "mode", mode, "level", s.Level, "seed", s.Seed)

	var caps platform.Capabilities

	spk := audio.NewSpeaker()
	if err := spk.Initialize(); err != nil {
		log.Warn("audio unavailable", "err", err)
	} else {
		caps.Audio = spk
		defer spk.Close()
	}

	var voice platform.Voice
	if es, err := speech.NewEspeak(); err != nil {
		log.Warn("speech unavailable", "err", err)
	} else {
		caps.Speech = es
		voice, _ = speech.SelectVoice(es.Voices(), speech.Preferences{
			Name:   s.Voice,
			Locale: language.Make(s.Locale),
		})
		log.Info("voice selected", "voice", voice.Name, "language", voice.Language)
	}

	var wearable *haptic.Wearable
	if s.HapticDevice != "" {
		device := s.HapticDevice
		if device == "any" {
			device = ""
		}
		fmt.Fprintln(os.Stderr, "Scanning for a haptic wearable...")
		wearable, err = haptic.Connect(context.Background(), haptic.Options{Device: device})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Haptic feedback disabled: %v\n", err)
			if !errors.Is(err, platform.ErrUnsupported) {
				return err
			}
		} else {
			caps.Haptics = wearable
			defer wearable.Close()
		}
	}

	caps, has := caps.Normalize()
	opts := app.Options{
		Level:     s.Level,
		Mode:      mode,
		Narration: s.Narration,
		Demo:      s.Demo,
		Seed:      s.Seed,
		Voice:     voice,
		Caps:      caps,
		Has:       has,
	}
	if wearable != nil {
		opts.Wearable = wearable.Name()
	}

	model := app.New(opts)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithFPS(config.TargetFPS),
	)
	model.Attach(p)

	_, err = p.Run()
	model.Shutdown()
	return err
}
