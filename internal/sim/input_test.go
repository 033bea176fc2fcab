package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputAliasesShareAnAction(t *testing.T) {
	in := &Input{}
	in.Set(KeyW, true)
	in.Set(KeyUp, true)
	assert.True(t, in.Forward())

	// Releasing one alias leaves the other holding the action.
	in.Set(KeyW, false)
	assert.True(t, in.Forward())
	in.Set(KeyUp, false)
	assert.False(t, in.Forward())

	in.Set(KeyLeft, true)
	in.Set(KeyD, true)
	in.Set(KeyDown, true)
	assert.True(t, in.Left())
	assert.True(t, in.Right())
	assert.True(t, in.Backward())

	in.Reset()
	assert.False(t, in.Left() || in.Right() || in.Backward() || in.Forward())
}

func TestInputIgnoresUnknownKeys(t *testing.T) {
	in := &Input{}
	in.Set(Key(-1), true)
	in.Set(keyCount, true)
	assert.False(t, in.Held(keyCount))
	assert.Equal(t, "unknown", keyCount.String())
	assert.Equal(t, "ArrowLeft", KeyLeft.String())
}

func TestLensResize(t *testing.T) {
	l := NewLens(1280, 720)
	assert.InDelta(t, 1280.0/720.0, l.Aspect, 1e-12)

	l.Resize(0, 0)
	assert.InDelta(t, 1280.0/720.0, l.Aspect, 1e-12)

	l.Resize(600, 600)
	assert.Equal(t, 1.0, l.Aspect)
	assert.NotEqual(t, NewLens(800, 600).Projection(), l.Projection())
}

func TestEventBusPublishesCollisions(t *testing.T) {
	bus := NewEventBus()
	var got []Event
	bus.Subscribe(EventCollision, func(e Event) { got = append(got, e) })

	s := openField()
	bus.Publish(s, FrameReport{Obstacle: -1})
	assert.Empty(t, got)

	bus.Publish(s, FrameReport{Collided: true, Obstacle: 3, Kind: ObstacleCanopy, ImpactSpeed: 0.4})
	if assert.Len(t, got, 1) {
		assert.Equal(t, 3, got[0].Obstacle)
		assert.Equal(t, ObstacleCanopy, got[0].Kind)
		assert.Equal(t, 0.4, got[0].Speed)
		assert.Equal(t, "canopy", got[0].Kind.String())
	}
}
