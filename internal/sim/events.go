package sim

import "github.com/go-gl/mathgl/mgl64"

type EventType int

const (
	EventCollision EventType = iota
	EventResize
)

type Event struct {
	Type     EventType
	Position mgl64.Vec3
	Speed    float64 // speed before the response
	Obstacle int     // index into the obstacle set
	Kind     ObstacleKind
	Width    int
	Height   int
}

type EventHandler func(Event)

// EventBus fans frame outcomes out to frontend concerns (sound, logs, HUD)
// without them reaching into simulation state.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}

// Publish emits the events implied by a frame report.
func (eb *EventBus) Publish(s State, r FrameReport) {
	if !r.Collided {
		return
	}
	eb.Emit(Event{
		Type:     EventCollision,
		Position: s.Vehicle.Position,
		Speed:    r.ImpactSpeed,
		Obstacle: r.Obstacle,
		Kind:     r.Kind,
	})
}
