// Package particle implements the particle simulation core: emission
// sampling, the struct-of-arrays particle state with its GPU mirrors, the
// fixed-timestep physics loop, and the multi-system manager.
package particle

// Shape selects the emission volume geometry.
type Shape string

// Emission shapes.
const (
	ShapePoint    Shape = "point"
	ShapeCube     Shape = "cube"
	ShapeSphere   Shape = "sphere"
	ShapeSquare   Shape = "square"
	ShapeCircle   Shape = "circle"
	ShapeCylinder Shape = "cylinder"
)

// RotationMode selects how per-particle billboard rotation is assigned.
type RotationMode string

// Rotation modes.
const (
	RotationNone   RotationMode = "none"
	RotationFixed  RotationMode = "fixed"
	RotationRandom RotationMode = "random"
)

// BoundsEpsilon is the minimum gap kept between every inner/outer and
// min/max pair. Edits that would violate a pair nudge the other bound.
const BoundsEpsilon = 0.01

// LifetimeJitter is the relative spread applied to the base lifetime when
// a particle spawns: lifetime = base * (1 ± LifetimeJitter).
const LifetimeJitter = 0.2

// EmissionConfig is the full set of tunables for one particle system.
// All fields carry typed defaults applied by DefaultConfig; the UI edits
// paired bounds through the Set methods so the outer > inner invariant
// holds after every edit.
type EmissionConfig struct {
	// Shape and extents
	Shape             Shape   `json:"shape"`
	OuterLength       float32 `json:"outerLength"`       // cube outer edge length
	InnerLength       float32 `json:"innerLength"`       // cube shell inner extent (0 = solid)
	OuterRadius       float32 `json:"outerRadius"`       // sphere / cylinder cross-section
	InnerRadius       float32 `json:"innerRadius"`       // sphere / cylinder shell (0 = solid)
	SquareSize        float32 `json:"squareSize"`        // square outer edge length
	SquareInnerSize   float32 `json:"squareInnerSize"`   // square shell inner extent (0 = solid)
	CircleOuterRadius float32 `json:"circleOuterRadius"` // circle outer radius
	CircleInnerRadius float32 `json:"circleInnerRadius"` // circle shell inner radius (0 = solid)
	CylinderHeight    float32 `json:"cylinderHeight"`    // cylinder extent along Y

	// Spatial transform, applied after sampling: Euler rotation X then Y
	// then Z in degrees, then translation.
	RotationX    float32 `json:"rotationX"`
	RotationY    float32 `json:"rotationY"`
	RotationZ    float32 `json:"rotationZ"`
	TranslationX float32 `json:"translationX"`
	TranslationY float32 `json:"translationY"`
	TranslationZ float32 `json:"translationZ"`

	// Emission
	BurstMode        bool    `json:"burstMode"`
	ParticleCount    int     `json:"particleCount"`    // burst quota
	EmissionRate     float32 `json:"emissionRate"`     // particles per second (continuous)
	EmissionDuration float32 `json:"emissionDuration"` // seconds (continuous)
	Lifetime         float32 `json:"lifetime"`         // base particle lifetime, seconds

	// Velocity
	Speed              float32 `json:"speed"`
	RandomSpeed        bool    `json:"randomSpeed"`
	MinSpeed           float32 `json:"minSpeed"`
	MaxSpeed           float32 `json:"maxSpeed"`
	TangentialVelocity bool    `json:"tangentialVelocity"` // circle/cylinder only
	OverrideX          bool    `json:"overrideX"`
	OverrideY          bool    `json:"overrideY"`
	OverrideZ          bool    `json:"overrideZ"`
	VelocityX          float32 `json:"velocityX"`
	VelocityY          float32 `json:"velocityY"`
	VelocityZ          float32 `json:"velocityZ"`

	// Appearance
	Fade            bool         `json:"fade"`
	Size            float32      `json:"size"`
	RandomSize      bool         `json:"randomSize"`
	MinSize         float32      `json:"minSize"`
	MaxSize         float32      `json:"maxSize"`
	AspectRatio     float32      `json:"aspectRatio"`
	RotationMode    RotationMode `json:"rotationMode"`
	MinRotation     float32      `json:"minRotation"`
	MaxRotation     float32      `json:"maxRotation"`
	ColorTransition bool         `json:"colorTransition"`
	Color           [3]float32   `json:"color"`
	StartColor      [3]float32   `json:"startColor"`
	EndColor        [3]float32   `json:"endColor"`
	Opacity         float32      `json:"opacity"`
	Textured        bool         `json:"textured"`
	TexturePath     string       `json:"texturePath"`
	BloomIntensity  float32      `json:"bloomIntensity"`

	// Physics
	Gravity           float32 `json:"gravity"`
	Damping           float32 `json:"damping"`    // reserved, not consumed by the kernel
	Turbulence        float32 `json:"turbulence"` // reserved, not consumed by the kernel
	AttractorStrength float32 `json:"attractorStrength"`
	AttractorX        float32 `json:"attractorX"`
	AttractorY        float32 `json:"attractorY"`
	AttractorZ        float32 `json:"attractorZ"`
}

// DefaultConfig returns a config with every field at its default.
func DefaultConfig() *EmissionConfig {
	return &EmissionConfig{
		Shape:             ShapePoint,
		OuterLength:       1,
		InnerLength:       0,
		OuterRadius:       1,
		InnerRadius:       0,
		SquareSize:        1,
		SquareInnerSize:   0,
		CircleOuterRadius: 1,
		CircleInnerRadius: 0,
		CylinderHeight:    1,

		BurstMode:        false,
		ParticleCount:    500,
		EmissionRate:     100,
		EmissionDuration: 5,
		Lifetime:         2,

		Speed:    2,
		MinSpeed: 1,
		MaxSpeed: 3,

		Fade:           true,
		Size:           0.1,
		MinSize:        0.05,
		MaxSize:        0.2,
		AspectRatio:    1,
		RotationMode:   RotationNone,
		MinRotation:    0,
		MaxRotation:    360,
		Color:          [3]float32{1, 1, 1},
		StartColor:     [3]float32{1, 1, 1},
		EndColor:       [3]float32{1, 0.2, 0.2},
		Opacity:        1,
		BloomIntensity: 1,
	}
}

// Clone returns a deep copy of the config. EmissionConfig holds no
// reference types beyond the fixed-size color arrays, so a value copy is a
// deep copy; kept as a method so call sites stay honest if that changes.
func (c *EmissionConfig) Clone() *EmissionConfig {
	out := *c
	return &out
}

// pair edit methods: setting one bound nudges the other so that
// outer > inner (or max > min) by at least BoundsEpsilon. Violations are
// corrected silently, never reported as errors.

// SetOuterLength sets the cube outer edge, pushing the inner extent down
// if needed.
func (c *EmissionConfig) SetOuterLength(v float32) {
	c.OuterLength = v
	if c.InnerLength > v-BoundsEpsilon {
		c.InnerLength = v - BoundsEpsilon
	}
	if c.InnerLength < 0 {
		c.InnerLength = 0
		if c.OuterLength < BoundsEpsilon {
			c.OuterLength = BoundsEpsilon
		}
	}
}

// SetInnerLength sets the cube shell inner extent, pushing the outer edge
// up if needed.
func (c *EmissionConfig) SetInnerLength(v float32) {
	if v < 0 {
		v = 0
	}
	c.InnerLength = v
	if c.OuterLength < v+BoundsEpsilon {
		c.OuterLength = v + BoundsEpsilon
	}
}

// SetOuterRadius sets the sphere/cylinder outer radius.
func (c *EmissionConfig) SetOuterRadius(v float32) {
	c.OuterRadius = v
	if c.InnerRadius > v-BoundsEpsilon {
		c.InnerRadius = v - BoundsEpsilon
	}
	if c.InnerRadius < 0 {
		c.InnerRadius = 0
		if c.OuterRadius < BoundsEpsilon {
			c.OuterRadius = BoundsEpsilon
		}
	}
}

// SetInnerRadius sets the sphere/cylinder shell inner radius.
func (c *EmissionConfig) SetInnerRadius(v float32) {
	if v < 0 {
		v = 0
	}
	c.InnerRadius = v
	if c.OuterRadius < v+BoundsEpsilon {
		c.OuterRadius = v + BoundsEpsilon
	}
}

// SetSquareSize sets the square outer edge length.
func (c *EmissionConfig) SetSquareSize(v float32) {
	c.SquareSize = v
	if c.SquareInnerSize > v-BoundsEpsilon {
		c.SquareInnerSize = v - BoundsEpsilon
	}
	if c.SquareInnerSize < 0 {
		c.SquareInnerSize = 0
		if c.SquareSize < BoundsEpsilon {
			c.SquareSize = BoundsEpsilon
		}
	}
}

// SetSquareInnerSize sets the square shell inner extent.
func (c *EmissionConfig) SetSquareInnerSize(v float32) {
	if v < 0 {
		v = 0
	}
	c.SquareInnerSize = v
	if c.SquareSize < v+BoundsEpsilon {
		c.SquareSize = v + BoundsEpsilon
	}
}

// SetCircleOuterRadius sets the circle outer radius.
func (c *EmissionConfig) SetCircleOuterRadius(v float32) {
	c.CircleOuterRadius = v
	if c.CircleInnerRadius > v-BoundsEpsilon {
		c.CircleInnerRadius = v - BoundsEpsilon
	}
	if c.CircleInnerRadius < 0 {
		c.CircleInnerRadius = 0
		if c.CircleOuterRadius < BoundsEpsilon {
			c.CircleOuterRadius = BoundsEpsilon
		}
	}
}

// SetCircleInnerRadius sets the circle shell inner radius.
func (c *EmissionConfig) SetCircleInnerRadius(v float32) {
	if v < 0 {
		v = 0
	}
	c.CircleInnerRadius = v
	if c.CircleOuterRadius < v+BoundsEpsilon {
		c.CircleOuterRadius = v + BoundsEpsilon
	}
}

// SetMinSpeed sets the random-speed lower bound.
func (c *EmissionConfig) SetMinSpeed(v float32) {
	c.MinSpeed = v
	if c.MaxSpeed < v+BoundsEpsilon {
		c.MaxSpeed = v + BoundsEpsilon
	}
}

// SetMaxSpeed sets the random-speed upper bound.
func (c *EmissionConfig) SetMaxSpeed(v float32) {
	c.MaxSpeed = v
	if c.MinSpeed > v-BoundsEpsilon {
		c.MinSpeed = v - BoundsEpsilon
	}
}

// SetMinSize sets the random-size lower bound.
func (c *EmissionConfig) SetMinSize(v float32) {
	c.MinSize = v
	if c.MaxSize < v+BoundsEpsilon {
		c.MaxSize = v + BoundsEpsilon
	}
}

// SetMaxSize sets the random-size upper bound.
func (c *EmissionConfig) SetMaxSize(v float32) {
	c.MaxSize = v
	if c.MinSize > v-BoundsEpsilon {
		c.MinSize = v - BoundsEpsilon
	}
}

// SetMinRotation sets the random-rotation lower bound (degrees).
func (c *EmissionConfig) SetMinRotation(v float32) {
	c.MinRotation = v
	if c.MaxRotation < v+BoundsEpsilon {
		c.MaxRotation = v + BoundsEpsilon
	}
}

// SetMaxRotation sets the random-rotation upper bound (degrees).
func (c *EmissionConfig) SetMaxRotation(v float32) {
	c.MaxRotation = v
	if c.MinRotation > v-BoundsEpsilon {
		c.MinRotation = v - BoundsEpsilon
	}
}

// Normalize re-establishes every pair invariant in place. Used after
// deserializing a config from an external document.
func (c *EmissionConfig) Normalize() {
	c.SetInnerLength(c.InnerLength)
	c.SetInnerRadius(c.InnerRadius)
	c.SetSquareInnerSize(c.SquareInnerSize)
	c.SetCircleInnerRadius(c.CircleInnerRadius)
	c.SetMinSpeed(c.MinSpeed)
	c.SetMinSize(c.MinSize)
	c.SetMinRotation(c.MinRotation)
	if c.Shape == "" {
		c.Shape = ShapePoint
	}
	if c.RotationMode == "" {
		c.RotationMode = RotationNone
	}
}
