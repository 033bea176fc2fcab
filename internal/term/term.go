package term

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"drive/internal/config"
	"drive/internal/geom"
	"drive/internal/sim"
)

// Car footprint in car space, for drawing.
const (
	carHalfWidth = 1.5
	carRear      = -2.5
	carNose      = 2.6
)

// collisionFlashFrames is how long the HUD highlights a hit.
const collisionFlashFrames = 20

var (
	styleGround = tcell.StyleDefault.Background(rgb(sim.Palette.Ground)).Foreground(tcell.ColorDarkGreen)
	styleRock   = tcell.StyleDefault.Background(rgb(sim.Palette.Ground)).Foreground(rgb(sim.Palette.Rock))
	styleTrunk  = tcell.StyleDefault.Background(rgb(sim.Palette.Ground)).Foreground(rgb(sim.Palette.Trunk))
	styleCanopy = tcell.StyleDefault.Background(rgb(sim.Palette.Ground)).Foreground(rgb(sim.Palette.Canopy))
	styleCar    = tcell.StyleDefault.Background(rgb(sim.Palette.Body)).Foreground(tcell.ColorWhite).Bold(true)
	styleHUD    = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleHit    = tcell.StyleDefault.Background(tcell.ColorDarkRed).Foreground(tcell.ColorWhite).Bold(true)
)

func rgb(c geom.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// keyFor translates a terminal key event into a driving key.
func keyFor(ev *tcell.EventKey) (sim.Key, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return sim.KeyUp, true
	case tcell.KeyDown:
		return sim.KeyDown, true
	case tcell.KeyLeft:
		return sim.KeyLeft, true
	case tcell.KeyRight:
		return sim.KeyRight, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return sim.KeyW, true
		case 'a', 'A':
			return sim.KeyA, true
		case 's', 'S':
			return sim.KeyS, true
		case 'd', 'D':
			return sim.KeyD, true
		}
	}
	return 0, false
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// holdTimer emulates key release. Terminals only report presses and auto-repeat,
// so a key counts as held until its window passes without another event.
type holdTimer struct {
	window time.Duration
	until  map[sim.Key]time.Time
}

func newHoldTimer(window time.Duration) *holdTimer {
	return &holdTimer{window: window, until: make(map[sim.Key]time.Time)}
}

func (h *holdTimer) press(k sim.Key, now time.Time) {
	h.until[k] = now.Add(h.window)
}

// apply writes the held set for now into in.
func (h *holdTimer) apply(in *sim.Input, now time.Time) {
	in.Reset()
	for k, t := range h.until {
		if now.Before(t) {
			in.Set(k, true)
		} else {
			delete(h.until, k)
		}
	}
}

// Frontend is the top-down terminal view of a driving session.
type Frontend struct {
	screen tcell.Screen
	log    zerolog.Logger
	scale  float64

	env   *sim.Environment
	state sim.State
	input *sim.Input
	hold  *holdTimer
	bus   *sim.EventBus

	collisions int
	lastHit    sim.ObstacleKind
	flash      int
}

// NewFrontend builds the environment and wires the session to screen.
// The screen must already be initialised.
func NewFrontend(screen tcell.Screen, cfg *config.Config, logger zerolog.Logger) *Frontend {
	opts := cfg.EnvOptions()
	env := sim.BuildEnvironment(opts)
	logger.Info().Uint64("seed", opts.Seed).Int("obstacles", env.Obstacles.Len()).Msg("environment built")

	f := &Frontend{
		screen: screen,
		log:    logger,
		scale:  cfg.Term.Scale,
		env:    env,
		state:  sim.NewState(env, cfg.Params()),
		input:  &sim.Input{},
		hold:   newHoldTimer(time.Duration(cfg.Term.KeyHoldMs) * time.Millisecond),
		bus:    sim.NewEventBus(),
	}
	if f.scale <= 0 {
		f.scale = 1
	}
	f.bus.Subscribe(sim.EventCollision, func(e sim.Event) {
		f.collisions++
		f.lastHit = e.Kind
		f.flash = collisionFlashFrames
		f.log.Debug().Stringer("kind", e.Kind).Float64("speed", e.Speed).Msg("collision")
	})
	return f
}

// State returns the current simulation state.
func (f *Frontend) State() sim.State { return f.state }

// Collisions returns the number of collision frames so far.
func (f *Frontend) Collisions() int { return f.collisions }

// Handle processes one terminal event and reports whether to quit.
func (f *Frontend) Handle(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			return true
		}
		if k, ok := keyFor(ev); ok {
			f.hold.press(k, now)
		}
	case *tcell.EventResize:
		f.screen.Sync()
	}
	return false
}

// Tick advances one frame.
func (f *Frontend) Tick(now time.Time) {
	f.hold.apply(f.input, now)
	var report sim.FrameReport
	f.state, report = sim.Step(f.state, f.input)
	f.bus.Publish(f.state, report)
	if f.flash > 0 {
		f.flash--
	}
}

// Draw renders the scene and the HUD line.
func (f *Frontend) Draw() {
	f.screen.Clear()
	cols, rows := f.screen.Size()
	if cols <= 0 || rows <= 1 {
		f.screen.Show()
		return
	}
	view := View{Cols: cols, Rows: rows - 1, Center: f.state.Vehicle.Position, Scale: f.scale}

	for row := 0; row < view.Rows; row++ {
		for col := 0; col < view.Cols; col++ {
			f.screen.SetContent(col, row, ' ', nil, styleGround)
		}
	}
	f.drawObstacles(view)
	f.drawCar(view)
	f.drawHUD(cols, rows-1)
	f.screen.Show()
}

func (f *Frontend) drawObstacles(view View) {
	// Rocks and trunks first so canopies cover them, as seen from above.
	order := [...]sim.ObstacleKind{sim.ObstacleRock, sim.ObstacleTrunk, sim.ObstacleCanopy}
	for _, kind := range order {
		glyph, style := obstacleLook(kind)
		for i := 0; i < f.env.Obstacles.Len(); i++ {
			o := f.env.Obstacles.At(i)
			if o.Kind != kind {
				continue
			}
			// Max x is the leftmost column and max z the top row.
			c0, r0 := view.Cell(o.Box.Max[0], o.Box.Max[2])
			c1, r1 := view.Cell(o.Box.Min[0], o.Box.Min[2])
			for row := max(r0, 0); row <= min(r1, view.Rows-1); row++ {
				for col := max(c0, 0); col <= min(c1, view.Cols-1); col++ {
					f.screen.SetContent(col, row, glyph, nil, style)
				}
			}
		}
	}
}

func obstacleLook(kind sim.ObstacleKind) (rune, tcell.Style) {
	switch kind {
	case sim.ObstacleRock:
		return '#', styleRock
	case sim.ObstacleTrunk:
		return 'o', styleTrunk
	default:
		return '^', styleCanopy
	}
}

// drawCar fills every cell whose centre lies inside the rotated car footprint.
func (f *Frontend) drawCar(view View) {
	v := f.state.Vehicle
	toCar := mgl64.HomogRotate3DY(-v.Yaw)
	reach := int(math.Ceil(carNose/view.Scale)) + 1
	cc, cr := view.Cell(v.Position[0], v.Position[2])
	for row := cr - reach; row <= cr+reach; row++ {
		for col := cc - reach; col <= cc+reach; col++ {
			if !view.Contains(col, row) {
				continue
			}
			x, z := view.World(col, row)
			local := mgl64.TransformCoordinate(mgl64.Vec3{x - v.Position[0], 0, z - v.Position[2]}, toCar)
			if math.Abs(local[0]) <= carHalfWidth && local[2] >= carRear && local[2] <= carNose {
				f.screen.SetContent(col, row, ' ', nil, styleCar)
			}
		}
	}
	if view.Contains(cc, cr) {
		f.screen.SetContent(cc, cr, headingGlyph(v.Yaw), nil, styleCar)
	}
}

func (f *Frontend) drawHUD(cols, row int) {
	v := f.state.Vehicle
	heading := math.Mod(mgl64.RadToDeg(v.Yaw), 360)
	if heading < 0 {
		heading += 360
	}
	text := fmt.Sprintf(" speed %+.2f  heading %3.0f  pos %.1f,%.1f  hits %d  | WASD/arrows drive, q quits",
		v.Speed, heading, v.Position[0], v.Position[2], f.collisions)
	style := styleHUD
	if f.flash > 0 {
		style = styleHit
		text = fmt.Sprintf(" HIT %s!%s", f.lastHit, text)
	}
	col := 0
	for _, r := range text {
		if col >= cols {
			break
		}
		f.screen.SetContent(col, row, r, nil, style)
		col++
	}
	for ; col < cols; col++ {
		f.screen.SetContent(col, row, ' ', nil, style)
	}
}

// Run drives a session on screen until quit or ctx is done. Events are read
// on a goroutine and handed to the frame loop, which owns all state.
func (f *Frontend) Run(ctx context.Context, fps int) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	f.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if f.Handle(ev, time.Now()) {
				return nil
			}
		case now := <-ticker.C:
			f.Tick(now)
			f.Draw()
		}
	}
}

// Run opens the terminal and plays until the user quits.
func Run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	f := NewFrontend(screen, cfg, logger)
	err = f.Run(ctx, cfg.Term.FPS)
	logger.Info().Uint64("frames", f.state.Frame).Int("collisions", f.collisions).Msg("session ended")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
