package sim

import "drive/internal/geom"

var Palette = struct {
	Sky       geom.RGB
	Ground    geom.RGB
	Rock      geom.RGB
	Trunk     geom.RGB
	Canopy    geom.RGB
	Body      geom.RGB
	Cab       geom.RGB
	Glass     geom.RGB
	Tyre      geom.RGB
	Hub       geom.RGB
	Headlight geom.RGB
	Plate     geom.RGB
	CubeBG    geom.RGB
	CubeFace  geom.RGB
}{
	Sky:       geom.Hex(0x87CEEB),
	Ground:    geom.Hex(0x3D9970),
	Rock:      geom.Hex(0x888888),
	Trunk:     geom.Hex(0x8B4513),
	Canopy:    geom.Hex(0x2ECC40),
	Body:      geom.Hex(0xFF4136),
	Cab:       geom.Hex(0x222222),
	Glass:     geom.Hex(0x87CEEB),
	Tyre:      geom.Hex(0x111111),
	Hub:       geom.Hex(0xAAAAAA),
	Headlight: geom.Hex(0xFFFFAA),
	Plate:     geom.Hex(0xFFFFFF),
	CubeBG:    geom.Hex(0x0000FF),
	CubeFace:  geom.Hex(0xFF0000),
}
