package geom

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

// Hex builds a colour from a 0xRRGGBB literal.
func Hex(v uint32) RGB {
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Floats returns the colour as normalised float32 channels for GL uniforms and vertex data.
func (c RGB) Floats() (float32, float32, float32) {
	return float32(c.R) / 255.0, float32(c.G) / 255.0, float32(c.B) / 255.0
}

// Material is the flat-shaded surface description of a part.
type Material struct {
	Color    RGB
	Emissive float32 // 0..1, added on top of lighting
	Opacity  float32 // 1 = opaque
}

// Solid returns an opaque, non-emissive material.
func Solid(c RGB) Material {
	return Material{Color: c, Opacity: 1}
}
