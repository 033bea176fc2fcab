package sim

// Key identifies one of the host keys the demo listens to.
type Key int

const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	keyCount
)

var keyNames = [keyCount]string{"w", "a", "s", "d", "ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight"}

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// Input is the last-known pressed state of every tracked key.
// Hosts mutate it only through Set; the frame loop samples it once per frame.
type Input struct {
	held [keyCount]bool
}

// Set records a press or release. Unknown keys are ignored.
func (in *Input) Set(k Key, pressed bool) {
	if k < 0 || k >= keyCount {
		return
	}
	in.held[k] = pressed
}

// Held reports whether a single key is down.
func (in *Input) Held(k Key) bool {
	if k < 0 || k >= keyCount {
		return false
	}
	return in.held[k]
}

// Reset releases every key, e.g. when the window loses focus.
func (in *Input) Reset() {
	in.held = [keyCount]bool{}
}

func (in *Input) Forward() bool  { return in.held[KeyW] || in.held[KeyUp] }
func (in *Input) Backward() bool { return in.held[KeyS] || in.held[KeyDown] }
func (in *Input) Left() bool     { return in.held[KeyA] || in.held[KeyLeft] }
func (in *Input) Right() bool    { return in.held[KeyD] || in.held[KeyRight] }
