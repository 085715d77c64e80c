package config

import "time"

const (
	// Arena geometry (logical units per terminal cell)
	UnitsPerCol = 10.0
	UnitsPerRow = 20.0 // Terminal chars are ~2:1 tall
	ArenaPad    = 40.0 // Decoys never spawn closer than this to an edge

	// Levels
	MinLevel = 1
	MaxLevel = 5

	// Decoy placement
	DecoyAttempts       = 20
	DecoyMinSeparation  = 70.0  // Between two decoys
	DecoyTargetSepEasy  = 150.0 // From the target, levels <= 3
	DecoyTargetSepHard  = 100.0 // From the target, levels 4-5
	DecoyRadiusMin      = 40.0
	DecoyRadiusMax      = 100.0
	DecoyColorJitterMin = 30
	DecoyColorJitterMax = 80

	// Feedback
	SignificantChange  = 0.1 // Primary audio rate-limit bypass
	DecoyActivation    = 0.3 // Decoy channels stay silent below this
	DecoyAudioMinLevel = 3
	DecoyHapticLevel   = 4
	HapticStrongBand   = 0.8
	HapticMediumBand   = 0.5
	HapticCurve        = 1.8
	HapticStrongMax    = 120 * time.Millisecond
	HapticStrongBase   = 40 * time.Millisecond
	HapticMediumFirst  = 30 * time.Millisecond
	HapticMediumGap    = 60 * time.Millisecond
	HapticMediumSecond = 40 * time.Millisecond
	HapticWeak         = 15 * time.Millisecond
	HapticScanTimeout  = 8 * time.Second
	DecoyToneBase      = 330.0 // Hz
	DecoyToneSpan      = 330.0 // Hz added at full decoy proximity
	DecoyToneLength    = 120 * time.Millisecond
	DecoyToneVolume    = 0.25 // Peak one-shot volume, below any loop volume at full proximity
	GlowCurve          = 0.8

	// Continuous audio
	LoopInitialVolume = 0.1
	LoopVolumeFloor   = 0.1
	LoopVolumeSpan    = 0.9
	LoopVolumeCurve   = 1.5
	LoopVolumeEpsilon = 0.05
	AmbientKey        = "ambient"
	AmbientVolume     = 0.15

	// Narration
	SpeechGrace      = 2 * time.Second // Dedup memory survives this long after an utterance ends
	SpeechPerWord    = 400 * time.Millisecond
	SpeechMinimum    = 2500 * time.Millisecond
	DefaultLocale    = "en-US"
	NarrationEnabled = true

	// Discovery
	FoundSoundDelay  = 300 * time.Millisecond
	FoundToneVolume  = 0.8
	FoundToneLength  = 400 * time.Millisecond
	CountdownTicks   = 5
	CountdownPeriod  = time.Second
	DiscoveryBase    = 20.0
	DiscoveryPerStep = 3.0
	DiscoveryFloor   = 5.0

	// Arena display
	PulsePeriod = 1500 * time.Millisecond // Glow breathing cycle
	GlowCells   = 6                       // Glow halo radius around the cursor in cells
	TargetFPS   = 30                      // Target frames per second
	HistorySize = 120                     // Proximity samples kept for the sparkline
	HistoryStep = 100 * time.Millisecond  // Spacing of sparkline samples

	// Demo mode
	DemoStep   = 250 * time.Millisecond
	DemoStride = 35.0            // Logical units per demo step
	DemoWobble = 0.6             // Radians of heading noise
	DemoPause  = 2 * time.Second // Pilot idles this long after a level starts

	// App
	AppName    = "SEEKER"
	AppVersion = "1.0"
)
