package graphics

import "fmt"

// Location is a backend-assigned binding handle for a uniform
type Location int32

// InvalidLocation marks a uniform the backend does not know about
const InvalidLocation Location = -1

// LocationResolver looks up binding locations by uniform name
type LocationResolver interface {
	UniformLocation(name string) Location
}

// Uploader pushes a uniform value to a binding location
type Uploader interface {
	SetUniform(loc Location, value any) error
}

// Backend is a rendering backend that can both resolve and upload uniforms
type Backend interface {
	LocationResolver
	Uploader
}

// Uniform is a single named shader parameter holding a value of one fixed kind
type Uniform interface {
	Name() string
	Kind() Kind
	Location() Location
	// Set replaces the value. The value must be of the uniform's kind.
	Set(v any) error
	// Get returns the current value
	Get() any
	// Use uploads the value at the current location
	Use(u Uploader) error
	// Clone returns an independent copy
	Clone() Uniform

	updateLocation(loc Location)
}

// typedUniform is the Uniform variant for one concrete value type
type typedUniform[T Value] struct {
	name string
	loc  Location
	val  T
}

func newUniform[T Value](name string, val T) *typedUniform[T] {
	return &typedUniform[T]{
		name: name,
		loc:  InvalidLocation,
		val:  val,
	}
}

// narrow converts Go's default numeric types to the uniform scalar types
func narrow(v any) any {
	switch val := v.(type) {
	case float64:
		return float32(val)
	case int:
		return int32(val)
	}
	return v
}

// newUniformFromValue picks the typed variant matching the runtime type of v
func newUniformFromValue(name string, v any) (Uniform, error) {
	switch val := narrow(v).(type) {
	case float32:
		return newUniform(name, val), nil
	case int32:
		return newUniform(name, val), nil
	case Vec2:
		return newUniform(name, val), nil
	case Vec3:
		return newUniform(name, val), nil
	case Vec4:
		return newUniform(name, val), nil
	case IVec2:
		return newUniform(name, val), nil
	case IVec3:
		return newUniform(name, val), nil
	case IVec4:
		return newUniform(name, val), nil
	case Mat2:
		return newUniform(name, val), nil
	case Mat3:
		return newUniform(name, val), nil
	case Mat4:
		return newUniform(name, val), nil
	case RGBA:
		return newUniform(name, val), nil
	}
	return nil, fmt.Errorf("%w: %T for %q", ErrUnsupportedType, v, name)
}

func (u *typedUniform[T]) Name() string {
	return u.name
}

func (u *typedUniform[T]) Kind() Kind {
	return KindOf(u.val)
}

func (u *typedUniform[T]) Location() Location {
	return u.loc
}

func (u *typedUniform[T]) updateLocation(loc Location) {
	u.loc = loc
}

func (u *typedUniform[T]) Set(v any) error {
	val, ok := v.(T)
	if !ok {
		return fmt.Errorf("%w: %q holds %s, got %T", ErrTypeMismatch, u.name, u.Kind(), v)
	}
	u.val = val
	return nil
}

func (u *typedUniform[T]) Get() any {
	return u.val
}

func (u *typedUniform[T]) Use(up Uploader) error {
	if err := up.SetUniform(u.loc, u.val); err != nil {
		return fmt.Errorf("failed to upload %q: %w", u.name, err)
	}
	return nil
}

func (u *typedUniform[T]) Clone() Uniform {
	clone := *u
	return &clone
}
