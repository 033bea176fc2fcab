package game

import (
	"encoding/binary"
	"math"
	"sync/atomic"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drive/internal/geom"
	"drive/internal/sim"
)

func TestApplyKey(t *testing.T) {
	in := &sim.Input{}
	applyKey(in, glfw.KeyUp, glfw.Press)
	assert.True(t, in.Forward())
	applyKey(in, glfw.KeyUp, glfw.Repeat)
	assert.True(t, in.Forward())
	applyKey(in, glfw.KeyUp, glfw.Release)
	assert.False(t, in.Forward())

	applyKey(in, glfw.KeySpace, glfw.Press)
	applyKey(in, glfw.KeyA, glfw.Press)
	assert.True(t, in.Left())
	assert.False(t, in.Right() || in.Backward())
}

func TestKeyBindingsCoverEveryDrivingKey(t *testing.T) {
	seen := map[sim.Key]bool{}
	for _, k := range keyBindings {
		seen[k] = true
	}
	assert.Len(t, seen, 8)
}

func TestBakePartAppliesWorldTransform(t *testing.T) {
	part := geom.NewPart("box", geom.NewBox(2, 2, 2), geom.Material{Color: geom.Hex(0xff0000), Emissive: 0.5, Opacity: 0.7}).At(10, 0, 0)
	out := bakePart(nil, part, mgl64.Translate3D(0, 5, 0))
	require.Len(t, out, 36*vertexFloats)

	for i := 0; i < len(out); i += vertexFloats {
		v := out[i : i+vertexFloats]
		assert.InDelta(t, 10, v[0], 1.0+1e-6)
		assert.InDelta(t, 5, v[1], 1.0+1e-6)
		n := math.Sqrt(float64(v[3]*v[3] + v[4]*v[4] + v[5]*v[5]))
		assert.InDelta(t, 1, n, 1e-5)
		assert.Equal(t, float32(1), v[6])
		assert.Equal(t, float32(0), v[7])
		assert.Equal(t, float32(0.5), v[9])
		assert.Equal(t, float32(0.7), v[10])
	}
}

func TestBakeEnvironmentIncludesGroundAndScenery(t *testing.T) {
	opts := sim.DefaultEnvOptions()
	opts.Seed = 3
	opts.Rocks, opts.Trees = 2, 3
	env := sim.BuildEnvironment(opts)

	tris := 0
	count := func(p *geom.Part, _ mgl64.Mat4) {
		if p.Mesh != nil {
			tris += p.Mesh.Triangles()
		}
	}
	env.Ground.Walk(mgl64.Ident4(), count)
	for _, p := range env.Scenery {
		p.Walk(mgl64.Ident4(), count)
	}
	assert.Len(t, bakeEnvironment(env), tris*3*vertexFloats)
}

func TestViewportIgnoresMinimise(t *testing.T) {
	vp := NewViewport(1280, 720)
	vp.Resize(0, 0)
	assert.False(t, vp.Visible())
	assert.InDelta(t, 1280.0/720.0, vp.Lens.Aspect, 1e-12)

	vp.Resize(800, 800)
	assert.True(t, vp.Visible())
	assert.Equal(t, 1.0, vp.Lens.Aspect)
}

func TestMat32(t *testing.T) {
	m := mgl64.Translate3D(1, 2, 3)
	got := mat32(m)
	assert.Equal(t, float32(1), got[12])
	assert.Equal(t, float32(3), got[14])
}

func TestCubeSmokeTest(t *testing.T) {
	assert.Len(t, cubeVertices(), 36*3)

	cube := geom.NewPart("cube", nil, geom.Material{})
	for i := 0; i < 100; i++ {
		spinCube(cube)
	}
	assert.InDelta(t, 1.0, cube.Rotation[0], 1e-9)
	assert.InDelta(t, 1.0, cube.Rotation[1], 1e-9)
	assert.Zero(t, cube.Rotation[2])
}

func samples(buf []byte) []float32 {
	out := make([]float32, 0, len(buf)/4)
	for i := 0; i+4 <= len(buf); i += 4 {
		out = append(out, math.Float32frombits(binary.LittleEndian.Uint32(buf[i:])))
	}
	return out
}

func TestImpactIsBoundedAndScalesWithStrength(t *testing.T) {
	soft := genImpact(0.1)
	hard := genImpact(1)
	assert.Greater(t, len(hard), len(soft))
	assert.Zero(t, len(hard)%8)

	peak := func(buf []byte) float64 {
		p := 0.0
		for _, s := range samples(buf) {
			require.LessOrEqual(t, math.Abs(float64(s)), 1.0)
			p = math.Max(p, math.Abs(float64(s)))
		}
		return p
	}
	assert.Greater(t, peak(hard), peak(soft))
}

func TestEngineReaderStreamsWholeFrames(t *testing.T) {
	var level atomic.Uint64
	level.Store(math.Float64bits(1))
	r := &engineReader{level: &level}

	buf := make([]byte, 8*1000+5)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 8*1000, n)
	for _, s := range samples(buf[:n]) {
		assert.LessOrEqual(t, math.Abs(float64(s)), 1.0)
	}
	// Pitch glides rather than jumping to the target.
	assert.Greater(t, r.cur, 0.0)
	assert.Less(t, r.cur, 1.0)
}

func TestAudioCallsAreSafeWithoutDevice(t *testing.T) {
	globalAudio = nil
	assert.NotPanics(t, func() {
		SetEngineLevel(0.5)
		PlayImpact(1)
		CloseAudio()
	})
}

func TestCloseBeforeDeviceReadyStartsNoEngine(t *testing.T) {
	// No oto context: creating a player here would panic.
	a := &AudioSystem{ready: make(chan struct{})}
	globalAudio = a
	t.Cleanup(func() { globalAudio = nil })

	done := make(chan struct{})
	go func() {
		defer close(done)
		StartEngine()
	}()

	CloseAudio()
	close(a.ready)
	<-done

	a.mu.Lock()
	defer a.mu.Unlock()
	assert.True(t, a.closed)
	assert.Nil(t, a.engine)
}
