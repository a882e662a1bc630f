package graphics

import (
	"fmt"
	"image/color"
)

// Vector and matrix types matching the shader-side uniform types
type (
	Vec2  [2]float32
	Vec3  [3]float32
	Vec4  [4]float32
	IVec2 [2]int32
	IVec3 [3]int32
	IVec4 [4]int32
	// Matrices are stored column-major
	Mat2 [4]float32
	Mat3 [9]float32
	Mat4 [16]float32
)

// RGBA is a normalized color uniform
type RGBA struct {
	R, G, B, A float32
}

// NewRGBA creates a color from normalized components
func NewRGBA(r, g, b, a float32) RGBA {
	return RGBA{R: r, G: g, B: b, A: a}
}

// RGBAFromColor converts any color.Color into a normalized uniform color
func RGBAFromColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	return RGBA{
		R: float32(r) / 0xffff,
		G: float32(g) / 0xffff,
		B: float32(b) / 0xffff,
		A: float32(a) / 0xffff,
	}
}

// Vec4 returns the color as a four component vector
func (c RGBA) Vec4() Vec4 {
	return Vec4{c.R, c.G, c.B, c.A}
}

// Identity4 returns the 4x4 identity matrix
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Value is the closed set of types a uniform can hold
type Value interface {
	float32 | int32 |
		Vec2 | Vec3 | Vec4 |
		IVec2 | IVec3 | IVec4 |
		Mat2 | Mat3 | Mat4 |
		RGBA
}

// Kind identifies the value type of a uniform
type Kind int

const (
	KindInvalid Kind = iota
	KindFloat
	KindInt
	KindVec2
	KindVec3
	KindVec4
	KindIVec2
	KindIVec3
	KindIVec4
	KindMat2
	KindMat3
	KindMat4
	KindRGBA
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindFloat:   "float",
	KindInt:     "int",
	KindVec2:    "vec2",
	KindVec3:    "vec3",
	KindVec4:    "vec4",
	KindIVec2:   "ivec2",
	KindIVec3:   "ivec3",
	KindIVec4:   "ivec4",
	KindMat2:    "mat2",
	KindMat3:    "mat3",
	KindMat4:    "mat4",
	KindRGBA:    "rgba",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the kind for a type name such as "vec4" or "rgba"
func ParseKind(name string) (Kind, bool) {
	for kind, kindName := range kindNames {
		if kind != KindInvalid && kindName == name {
			return kind, true
		}
	}
	return KindInvalid, false
}

// KindOf reports the kind of a dynamic value
func KindOf(v any) Kind {
	switch v.(type) {
	case float32:
		return KindFloat
	case int32:
		return KindInt
	case Vec2:
		return KindVec2
	case Vec3:
		return KindVec3
	case Vec4:
		return KindVec4
	case IVec2:
		return KindIVec2
	case IVec3:
		return KindIVec3
	case IVec4:
		return KindIVec4
	case Mat2:
		return KindMat2
	case Mat3:
		return KindMat3
	case Mat4:
		return KindMat4
	case RGBA:
		return KindRGBA
	}
	return KindInvalid
}

// FromFloats builds a value of the given kind from a flat list of numbers.
// Integer kinds truncate.
func FromFloats(kind Kind, values []float64) (any, error) {
	want := kind.Components()
	if want == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, kind)
	}
	if len(values) != want {
		return nil, fmt.Errorf("%s needs %d components, got %d", kind, want, len(values))
	}

	f := func(i int) float32 { return float32(values[i]) }
	n := func(i int) int32 { return int32(values[i]) }

	switch kind {
	case KindFloat:
		return f(0), nil
	case KindInt:
		return n(0), nil
	case KindVec2:
		return Vec2{f(0), f(1)}, nil
	case KindVec3:
		return Vec3{f(0), f(1), f(2)}, nil
	case KindVec4:
		return Vec4{f(0), f(1), f(2), f(3)}, nil
	case KindIVec2:
		return IVec2{n(0), n(1)}, nil
	case KindIVec3:
		return IVec3{n(0), n(1), n(2)}, nil
	case KindIVec4:
		return IVec4{n(0), n(1), n(2), n(3)}, nil
	case KindRGBA:
		return RGBA{f(0), f(1), f(2), f(3)}, nil
	case KindMat2:
		var m Mat2
		for i := range m {
			m[i] = f(i)
		}
		return m, nil
	case KindMat3:
		var m Mat3
		for i := range m {
			m[i] = f(i)
		}
		return m, nil
	case KindMat4:
		var m Mat4
		for i := range m {
			m[i] = f(i)
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, kind)
}

// Components returns the number of scalar components of the kind
func (k Kind) Components() int {
	switch k {
	case KindFloat, KindInt:
		return 1
	case KindVec2, KindIVec2:
		return 2
	case KindVec3, KindIVec3:
		return 3
	case KindVec4, KindIVec4, KindRGBA, KindMat2:
		return 4
	case KindMat3:
		return 9
	case KindMat4:
		return 16
	}
	return 0
}
