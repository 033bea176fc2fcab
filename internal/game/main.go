package game

import (
	"fmt"
	"math"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rs/zerolog/log"

	"drive/internal/config"
	"drive/internal/sim"
)

// RunDesktop opens the window and drives the simulation once per display refresh
// until the window is closed or Escape is pressed.
func RunDesktop(cfg *config.Config) error {
	runtime.LockOSThread()

	window, err := initWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	log.Info().Str("gl", gl.GoStr(gl.GetString(gl.VERSION))).Msg("context ready")

	if cfg.Audio.Enabled {
		if err := InitAudio(cfg.Audio.Volume); err != nil {
			log.Warn().Err(err).Msg("audio init failed (continuing without sound)")
		} else {
			go StartEngine()
			defer CloseAudio()
		}
	}

	opts := cfg.EnvOptions()
	env := sim.BuildEnvironment(opts)
	log.Info().
		Uint64("seed", opts.Seed).
		Int("rocks", opts.Rocks).
		Int("trees", opts.Trees).
		Int("obstacles", env.Obstacles.Len()).
		Msg("environment built")

	rend, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()
	rend.LoadEnvironment(env)

	state := sim.NewState(env, cfg.Params())
	input := &sim.Input{}
	bindInput(window, input)

	vp := NewViewport(window.GetFramebufferSize())
	vp.Lens.FOV = cfg.Camera.FOV

	bus := sim.NewEventBus()
	collisions := 0
	bus.Subscribe(sim.EventCollision, func(e sim.Event) {
		collisions++
		log.Debug().
			Stringer("kind", e.Kind).
			Int("obstacle", e.Obstacle).
			Float64("speed", e.Speed).
			Msg("collision")
		PlayImpact(math.Abs(e.Speed) / state.Params.MaxSpeed)
	})
	bus.Subscribe(sim.EventResize, func(e sim.Event) {
		vp.Resize(e.Width, e.Height)
		log.Debug().Int("width", e.Width).Int("height", e.Height).Msg("framebuffer resized")
	})
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		bus.Emit(sim.Event{Type: sim.EventResize, Width: w, Height: h})
	})

	statsAt := glfw.GetTime()
	frames := 0
	for !window.ShouldClose() {
		glfw.PollEvents()
		if !vp.Visible() {
			// Minimised: nothing advances until the window comes back.
			glfw.WaitEvents()
			continue
		}

		var report sim.FrameReport
		state, report = sim.Step(state, input)
		bus.Publish(state, report)
		SetEngineLevel(math.Abs(state.Vehicle.Speed) / state.Params.MaxSpeed)

		rend.BeginFrame(vp)
		rend.Draw(state, vp)
		window.SwapBuffers()

		frames++
		if now := glfw.GetTime(); now-statsAt >= StatsInterval {
			pos := state.Vehicle.Position
			log.Debug().
				Float64("fps", float64(frames)/(now-statsAt)).
				Float64("x", pos[0]).
				Float64("z", pos[2]).
				Float64("speed", state.Vehicle.Speed).
				Int("collisions", collisions).
				Msg("frame stats")
			statsAt = now
			frames = 0
		}
	}

	log.Info().Uint64("frames", state.Frame).Int("collisions", collisions).Msg("session ended")
	return nil
}
