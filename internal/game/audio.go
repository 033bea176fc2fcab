package game

import (
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
)

// Engine hum tuning.
const (
	engineIdleHz  = 42.0
	engineRangeHz = 110.0 // added at full throttle
	engineGlide   = 0.0008
	engineGain    = 0.22
)

// AudioSystem owns the oto context, the looping engine voice and the volume.
type AudioSystem struct {
	ctx    *oto.Context
	ready  chan struct{}
	volume float64

	engineLevel atomic.Uint64 // float64 bits, 0..1

	mu     sync.Mutex
	engine oto.Player
	closed bool

	activeImpacts atomic.Int32
}

var globalAudio *AudioSystem

// InitAudio opens the output device. Playback starts once the device is ready.
func InitAudio(volume float64) error {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, oto.FormatFloat32LE)
	if err != nil {
		return err
	}
	globalAudio = &AudioSystem{ctx: ctx, ready: ready, volume: clampF(volume, 0, 1)}
	return nil
}

func audioReady() bool {
	if globalAudio == nil {
		return false
	}
	select {
	case <-globalAudio.ready:
		return true
	default:
		return false
	}
}

// StartEngine begins the looping engine hum. It blocks until the device is ready
// and does nothing if CloseAudio ran in the meantime.
func StartEngine() {
	a := globalAudio
	if a == nil {
		return
	}
	<-a.ready
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	p := a.ctx.NewPlayer(&engineReader{level: &a.engineLevel})
	p.SetVolume(a.volume)
	p.Play()
	a.engine = p
}

// SetEngineLevel sets the hum pitch from 0 (idle) to 1 (top speed).
// Safe to call from the frame loop while the player goroutine reads it.
func SetEngineLevel(level float64) {
	if globalAudio == nil {
		return
	}
	globalAudio.engineLevel.Store(math.Float64bits(clampF(level, 0, 1)))
}

// PlayImpact plays a thud whose weight follows the impact speed (0..1 of top speed).
func PlayImpact(strength float64) {
	if !audioReady() || strength <= 0 {
		return
	}
	// More than two overlapping thuds only adds clipping.
	if globalAudio.activeImpacts.Load() >= 2 {
		return
	}
	globalAudio.activeImpacts.Add(1)
	samples := genImpact(clampF(strength, 0, 1))
	go func() {
		defer globalAudio.activeImpacts.Add(-1)
		reader := &soundReader{data: samples}
		player := globalAudio.ctx.NewPlayer(reader)
		player.SetVolume(globalAudio.volume)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}

// CloseAudio stops the engine voice and keeps a pending StartEngine from creating one.
func CloseAudio() {
	a := globalAudio
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.engine != nil {
		a.engine.Close()
		a.engine = nil
	}
}

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// engineReader synthesises the hum forever. Pitch glides toward the target level
// so speed changes never click.
type engineReader struct {
	level *atomic.Uint64
	cur   float64
	phase float64
	sub   float64
	seed  uint64
	lp    float64
}

func (e *engineReader) Read(p []byte) (int, error) {
	frames := len(p) / 8
	target := math.Float64frombits(e.level.Load())
	for i := 0; i < frames; i++ {
		e.cur += (target - e.cur) * engineGlide
		freq := engineIdleHz + engineRangeHz*e.cur
		e.phase += freq / SampleRate
		e.phase -= math.Floor(e.phase)
		e.sub += freq * 0.5 / SampleRate
		e.sub -= math.Floor(e.sub)

		// Two-stroke-ish pulse plus a sub octave and a little filtered rumble.
		s := softSquare(e.phase)*0.5 + math.Sin(2*math.Pi*e.sub)*0.35
		e.lp = e.lp*0.97 + lcg(&e.seed)*0.03
		s += e.lp * (0.4 + e.cur)
		putStereoF32(p, i, softSat(s*engineGain*(0.6+0.4*e.cur)))
	}
	return frames * 8, nil
}

// genImpact: low FM thump with a noise crunch on top.
func genImpact(strength float64) []byte {
	dur := 0.18 + 0.17*strength
	n := int(dur * SampleRate)
	buf := makeBuf(n)
	seed := uint64(0xB0D1)
	lp := 0.0
	base := 70 - 20*strength
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.01, 0.25, 0.3, 0.6)
		thump := fm(t, base*(1-0.4*p), 0.5, 2.0*env) * math.Exp(-p*6)
		lp = lp*0.8 + lcg(&seed)*0.2
		crunch := lp * math.Exp(-p*18) * (0.3 + 0.5*strength)
		putStereoF32(buf, i, softSat((thump*0.8+crunch)*env*(0.5+0.5*strength)))
	}
	return buf
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}

// softSat applies gentle saturation, no harsh clipping.
func softSat(x float64) float64 { return math.Tanh(x) }

// adsr returns an envelope at normalized progress [0,1].
// attack/decay/release are fractions of the total duration.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

// fm returns an FM-synthesized sample.
func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

func softSquare(phase float64) float64 {
	return math.Tanh(4 * math.Sin(2*math.Pi*phase))
}

// lcg advances an LCG seed and returns a noise sample in [-1,1].
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

// makeBuf allocates a stereo float32 buffer for n samples.
func makeBuf(n int) []byte { return make([]byte, n*8) }

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
