// Package heatfield is the CPU reference of the heat-field fragment shader.
//
// The GLSL program in package shader is generated from the same Params and
// Ramp values, so the two evaluate the same function. The reference is used
// for software snapshots and to check the shape of the field in tests.
package heatfield

// Params holds the constants of the heat field. DefaultParams returns the
// values the landing page ships with.
type Params struct {
	// Zoom scales both the surface coordinate and the mouse position.
	Zoom float64

	// Glow is the additive hot-spot under the pointer.
	GlowRadius   float64
	GlowStrength float64

	// Press warps the lookup position toward the pointer.
	PressRadius   float64
	PressStrength float64

	// fbm shape
	Octaves    int
	Lacunarity float64
	Gain       float64

	// Weights of the base heat and the two wave terms.
	HeatWeight  float64
	WaveWeights [2]float64

	// finalHeat = finalHeat*Scale + Bias
	Scale float64
	Bias  float64

	// Paper grain: smooth noise, hash noise and a biased smooth noise, each
	// sampled at its own frequency of the surface uv.
	GrainFrequencies [3]float64
	GrainWeights     [3]float64
}

func DefaultParams() Params {
	return Params{
		Zoom:             0.10,
		GlowRadius:       0.4,
		GlowStrength:     0.95,
		PressRadius:      0.7,
		PressStrength:    0.6,
		Octaves:          4,
		Lacunarity:       2.0,
		Gain:             0.5,
		HeatWeight:       0.6,
		WaveWeights:      [2]float64{0.2, 0.2},
		Scale:            0.65,
		Bias:             -0.12,
		GrainFrequencies: [3]float64{1000, 2000, 1500},
		GrainWeights:     [3]float64{0.05, 0.04, 0.035},
	}
}
