package sim

// Vehicle physics, per frame.
const (
	DefaultMaxSpeed     = 0.5
	DefaultAcceleration = 0.05
	DefaultDeceleration = 0.94 // coast multiplier
	DefaultTurnSpeed    = 0.04 // rad
)

// Collision response.
const (
	DefaultPushback    = 1.5 // position kick, multiples of speed
	DefaultRestitution = 0.7
)

// Follow camera.
const (
	DefaultCameraDistance  = 8.0
	DefaultCameraHeight    = 5.0
	DefaultCameraSmoothing = 0.1
)

// Camera lens and spawn pose.
const (
	DefaultFOV   = 75.0 // degrees, vertical
	CameraNear   = 0.1
	CameraFar    = 1000.0
	CameraSpawnX = 0.0
	CameraSpawnY = 5.0
	CameraSpawnZ = 15.0
)

// Environment layout.
const (
	GroundSize        = 500.0
	DefaultRocks      = 50
	DefaultTrees      = 100
	DefaultExtent     = 400.0 // scatter square side, centred on origin
	DefaultClearing   = 30.0  // trees closer than this on an axis get shifted
	DefaultClearShift = 60.0
	RockRadius        = 3.0
	RockDetail        = 1
	RockScaleMin      = 0.5
	RockScaleMax      = 2.5
)

// Broadphase index.
const (
	QuadCapacity = 16
	QuadMaxDepth = 8
)
