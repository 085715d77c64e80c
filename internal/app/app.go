package app

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"seeker.klederson.com/internal/arena"
	"seeker.klederson.com/internal/audio"
	"seeker.klederson.com/internal/clock"
	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/discovery"
	"seeker.klederson.com/internal/game"
	"seeker.klederson.com/internal/log"
	"seeker.klederson.com/internal/platform"
	"seeker.klederson.com/internal/proximity"
	"seeker.klederson.com/internal/speech"
	"seeker.klederson.com/internal/ui"
)

// Options configure the game model.
type Options struct {
	Level     int
	Mode      config.Mode
	Narration bool
	Demo      bool
	Seed      int64
	Voice     platform.Voice
	Wearable  string // connected haptic device, empty when none

	Caps platform.Capabilities // normalized
	Has  platform.Has

	// Clock drives level timers. Nil selects a clock whose callbacks run
	// inside the event loop; Attach must then be called before Run.
	Clock clock.Clock
}

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	send      func(tea.Msg)
	clk       clock.Clock
	audio     *audio.Manager
	announcer *speech.Announcer
	session   *game.Session
	pulse     *arena.Pulse
	history   *ProximityRing
	pilot     *Pilot
	sampledAt time.Time
	done      []int // levels whose completion is not yet handled
	demoGen   int
}

// Model is the root Bubble Tea model of the game.
type Model struct {
	width  int
	height int

	level int
	demo  bool
	opts  Options

	shared *shared
}

// New creates the model. The first level starts once the terminal size is
// known.
func New(opts Options) Model {
	opts.Caps, _ = opts.Caps.Normalize()
	if opts.Mode == "" {
		opts.Mode = config.ModeMulti
	}
	sh := &shared{
		history: NewProximityRing(config.HistorySize),
		pilot:   NewPilot(opts.Seed),
	}
	sh.clk = opts.Clock
	if sh.clk == nil {
		sh.clk = clock.NewLoop(sh.post)
	}
	sh.pulse = arena.NewPulse(sh.clk.Now())
	sh.audio = audio.NewManager(opts.Caps.Audio)
	sh.announcer = speech.NewAnnouncer(opts.Caps.Speech, sh.clk, opts.Voice)
	sh.session = game.New(game.Deps{
		Clock:      sh.clk,
		Audio:      sh.audio,
		Haptics:    opts.Caps.Haptics,
		Announcer:  sh.announcer,
		Mode:       opts.Mode,
		Narration:  opts.Narration,
		Seed:       opts.Seed,
		OnComplete: func(level int) { sh.done = append(sh.done, level) },
	})

	return Model{
		level:  config.ClampLevel(opts.Level),
		demo:   opts.Demo,
		opts:   opts,
		shared: sh,
	}
}

// Attach routes timer callbacks through p. Must be called before p.Run().
func (m *Model) Attach(p *tea.Program) {
	m.shared.send = p.Send
}

// post hands a timer callback to the event loop.
func (sh *shared) post(f func()) {
	if sh.send == nil {
		log.Warn("timer fired before the program was attached")
		return
	}
	sh.send(timerMsg(f))
}

// Shutdown releases every timer, sound and utterance. Call it once after
// the program exits.
func (m Model) Shutdown() {
	m.shared.session.Teardown()
	m.shared.announcer.Close()
	m.shared.audio.Wait()
}

// Session exposes the level being played.
func (m Model) Session() *game.Session {
	return m.shared.session
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.demo {
		cmds = append(cmds, demoCmd(m.shared.demoGen))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fitArena()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		// Arena cells start inside the panel border, below the menu bar.
		m.step(arena.CellCenter(msg.X-1, msg.Y-2))
		return m, m.completions()

	case TickMsg:
		now := m.shared.clk.Now()
		m.shared.pulse.Update(now)
		m.step(m.shared.session.Cursor())
		if now.Sub(m.shared.sampledAt) >= config.HistoryStep {
			m.shared.sampledAt = now
			m.shared.history.Push(m.shared.session.Samples().Visual)
		}
		return m, tea.Batch(tickCmd(), m.completions())

	case DemoStepMsg:
		if !m.demo || msg.Gen != m.shared.demoGen {
			return m, nil
		}
		s := m.shared.session
		if s.State() == discovery.Searching {
			m.step(m.shared.pilot.Step(m.shared.clk.Now(), s.Cursor(), s.Target().Pos))
		}
		return m, tea.Batch(demoCmd(msg.Gen), m.completions())

	case timerMsg:
		msg()
		return m, m.completions()

	case LevelDoneMsg:
		if msg.Level != m.shared.session.Level() {
			return m, nil
		}
		next := msg.Level + 1
		if next > config.MaxLevel {
			next = config.MinLevel
		}
		m.startLevel(next)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.shared.session
	cur := s.Cursor()

	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		m.step(proximity.Point{X: cur.X, Y: cur.Y - config.UnitsPerRow})
	case "down", "j":
		m.step(proximity.Point{X: cur.X, Y: cur.Y + config.UnitsPerRow})
	case "left", "h":
		m.step(proximity.Point{X: cur.X - config.UnitsPerCol, Y: cur.Y})
	case "right", "l":
		m.step(proximity.Point{X: cur.X + config.UnitsPerCol, Y: cur.Y})

	case "enter", " ":
		s.Confirm()

	case "esc", "c":
		s.Close()

	case "n", "N":
		m.startLevel(m.level%config.MaxLevel + 1)

	case "p", "P":
		prev := m.level - 1
		if prev < config.MinLevel {
			prev = config.MaxLevel
		}
		m.startLevel(prev)

	case "d", "D":
		m.demo = !m.demo
		m.shared.demoGen++
		if m.demo {
			m.shared.pilot.Rest(m.shared.clk.Now())
			return m, demoCmd(m.shared.demoGen)
		}
	}

	return m, m.completions()
}

// fitArena starts the first level or rescales the current one to the
// arena size implied by the terminal.
func (m *Model) fitArena() {
	w, h := m.arenaCells()
	bounds := arena.BoundsFor(w, h)
	s := m.shared.session
	if s.Bounds().W == 0 {
		m.startLevel(m.level)
		return
	}
	s.Resize(bounds)
}

func (m *Model) startLevel(level int) {
	w, h := m.arenaCells()
	m.level = config.ClampLevel(level)
	m.shared.done = nil
	m.shared.history.Reset()
	m.shared.pilot.Rest(m.shared.clk.Now())
	m.shared.session.StartLevel(m.level, arena.BoundsFor(w, h))
}

// step runs one session tick at p.
func (m *Model) step(p proximity.Point) {
	if m.shared.session.Bounds().W == 0 {
		return
	}
	m.shared.session.Update(p, m.shared.clk.Now())
}

// completions turns pending level completions into a message.
func (m *Model) completions() tea.Cmd {
	if len(m.shared.done) == 0 {
		return nil
	}
	level := m.shared.done[len(m.shared.done)-1]
	m.shared.done = nil
	return func() tea.Msg { return LevelDoneMsg{Level: level} }
}

// layout returns the panel sizes for the current terminal.
func (m Model) layout() (arenaW, listW, bodyH int) {
	bodyH = m.height - 2
	if bodyH < 5 {
		bodyH = 5
	}
	arenaW = m.width * 3 / 4
	if arenaW < 30 {
		arenaW = 30
	}
	listW = m.width - arenaW
	if listW < 15 {
		listW = 15
		arenaW = m.width - listW
	}
	return arenaW, listW, bodyH
}

// arenaCells is the drawable arena inside the panel border, above the
// legend line.
func (m Model) arenaCells() (int, int) {
	arenaW, _, bodyH := m.layout()
	return max(5, arenaW-4), max(3, bodyH-3)
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing " + config.AppName + "..."
	}
	s := m.shared.session
	arenaW, listW, bodyH := m.layout()
	innerW, innerH := m.arenaCells()
	found := s.State() != discovery.Searching

	menuBar := ui.RenderMenuBar(m.width, m.level, m.opts.Mode, m.demo)

	content := arena.Render(innerW, innerH, arena.Scene{
		Cursor:   s.Cursor(),
		Visual:   s.Visual(),
		Pulse:    m.shared.pulse,
		Revealed: m.revealed(found),
	})
	arenaPanel := ui.RenderArenaPanel(arenaW, bodyH, content, arena.RenderLegend(innerW), found)

	var sidePanel string
	if found {
		sidePanel = ui.RenderFoundPanel(ui.Found{
			Item:      s.Target().Item.Name,
			Fact:      s.Fact(),
			State:     s.State().String(),
			Countdown: s.Countdown(),
		}, listW, bodyH)
	} else {
		sidePanel = ui.RenderSidePanel(m.panel(), listW, bodyH)
	}

	voice := ""
	if m.opts.Has.Speech {
		voice = m.shared.announcer.Voice().Name
	}
	statusBar := ui.RenderStatusBar(m.width, ui.Status{
		State:     s.State().String(),
		Proximity: s.Visual().Proximity,
		Decoys:    len(s.Decoys()),
		Has:       m.opts.Has,
		Voice:     voice,
		Wearable:  m.opts.Wearable,
	})

	return ui.ComposeLayout(menuBar, arenaPanel, sidePanel, statusBar)
}

// revealed marks the target and decoys once the target is found.
func (m Model) revealed(found bool) []arena.Mark {
	if !found {
		return nil
	}
	s := m.shared.session
	marks := make([]arena.Mark, 0, len(s.Decoys())+1)
	for _, d := range s.Decoys() {
		marks = append(marks, arena.Mark{Pos: d.Pos, Color: d.Color, Glyph: 'x'})
	}
	t := s.Target()
	return append(marks, arena.Mark{Pos: t.Pos, Color: t.Item.Color, Glyph: '*'})
}

func (m Model) panel() ui.Panel {
	s := m.shared.session
	samples := s.Samples()
	v := s.Visual()

	var decoyAudio, decoyHaptic float64
	decoys := make([]ui.DecoyRow, 0, len(samples.Decoys))
	for _, d := range samples.Decoys {
		decoyAudio = math.Max(decoyAudio, d.Audio)
		decoyHaptic = math.Max(decoyHaptic, d.Haptic)
		decoys = append(decoys, ui.DecoyRow{ID: d.ID, Proximity: math.Max(d.Visual, math.Max(d.Audio, d.Haptic))})
	}

	prox := map[config.Channel]float64{
		config.ChannelAudio:       samples.Audio,
		config.ChannelHaptic:      samples.Haptic,
		config.ChannelDecoyAudio:  decoyAudio,
		config.ChannelDecoyHaptic: decoyHaptic,
		config.ChannelVisual:      samples.Visual,
	}
	channels := make([]ui.ChannelRow, 0, len(prox))
	for _, ch := range []config.Channel{
		config.ChannelAudio, config.ChannelHaptic, config.ChannelDecoyAudio,
		config.ChannelDecoyHaptic, config.ChannelVisual,
	} {
		channels = append(channels, ui.ChannelRow{
			Channel:   ch,
			Enabled:   s.Enabled(ch),
			Proximity: prox[ch],
			Fired:     v.FiredOn(ch),
		})
	}

	return ui.Panel{
		Level:    s.Level(),
		Item:     s.Target().Item.Name,
		Band:     s.Band().String(),
		Channels: channels,
		Decoys:   decoys,
		History:  m.shared.history.Values(),
		Peak:     m.shared.history.Peak(),
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func demoCmd(gen int) tea.Cmd {
	return tea.Tick(config.DemoStep, func(time.Time) tea.Msg {
		return DemoStepMsg{Gen: gen}
	})
}
