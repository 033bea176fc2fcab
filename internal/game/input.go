package game

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"drive/internal/sim"
)

var keyBindings = map[glfw.Key]sim.Key{
	glfw.KeyW:     sim.KeyW,
	glfw.KeyA:     sim.KeyA,
	glfw.KeyS:     sim.KeyS,
	glfw.KeyD:     sim.KeyD,
	glfw.KeyUp:    sim.KeyUp,
	glfw.KeyDown:  sim.KeyDown,
	glfw.KeyLeft:  sim.KeyLeft,
	glfw.KeyRight: sim.KeyRight,
}

// applyKey folds one GLFW key event into the held-key set.
// Repeat counts as held; unbound keys are ignored.
func applyKey(in *sim.Input, key glfw.Key, action glfw.Action) {
	k, ok := keyBindings[key]
	if !ok {
		return
	}
	switch action {
	case glfw.Press, glfw.Repeat:
		in.Set(k, true)
	case glfw.Release:
		in.Set(k, false)
	}
}

// bindInput routes key events into in. Escape closes the window.
// Losing focus drops every key, since the release would never arrive.
func bindInput(window *glfw.Window, in *sim.Input) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
			return
		}
		applyKey(in, key, action)
	})
	window.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if !focused {
			in.Reset()
		}
	})
}
