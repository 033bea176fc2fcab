package game

// Scene lighting.
const (
	AmbientIntensity = 0.6
	SunIntensity     = 0.8
	SunX             = 100.0
	SunY             = 100.0
	SunZ             = 50.0
)

// Linear fog, in eye-space distance.
const (
	FogNear = 10.0
	FogFar  = 150.0
)

// Smoke-test cube.
const (
	CubeSpin    = 0.01 // rad per frame, x and y
	CubeCameraZ = 5.0
)

// Debug frame statistics are logged this often.
const StatsInterval = 5.0 // seconds

// Interleaved vertex layout: position, normal, colour, emissive, alpha.
const vertexFloats = 3 + 3 + 3 + 2
