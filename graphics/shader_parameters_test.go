package graphics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upload struct {
	loc   Location
	value any
}

// recordingBackend resolves names from a fixed table and records every upload
type recordingBackend struct {
	locations map[string]Location
	uploads   []upload
	failAt    Location
}

func newRecordingBackend(locations map[string]Location) *recordingBackend {
	return &recordingBackend{locations: locations, failAt: -100}
}

func (b *recordingBackend) UniformLocation(name string) Location {
	if loc, ok := b.locations[name]; ok {
		return loc
	}
	return InvalidLocation
}

func (b *recordingBackend) SetUniform(loc Location, value any) error {
	b.uploads = append(b.uploads, upload{loc: loc, value: value})
	if loc == b.failAt {
		return errors.New("backend rejected upload")
	}
	return nil
}

func TestShaderParameters_AddThenGet(t *testing.T) {
	s := NewShaderParameters()

	require.NoError(t, Add(s, "color", NewRGBA(1, 0, 0, 1)))
	require.NoError(t, Add(s, "time", float32(2.5)))
	require.NoError(t, Add(s, "frame", int32(7)))
	require.NoError(t, Add(s, "mvp", Identity4()))

	color, err := Get[RGBA](s, "color")
	require.NoError(t, err)
	assert.Equal(t, NewRGBA(1, 0, 0, 1), color)

	time, err := Get[float32](s, "time")
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), time)

	frame, err := Get[int32](s, "frame")
	require.NoError(t, err)
	assert.Equal(t, int32(7), frame)

	mvp, err := Get[Mat4](s, "mvp")
	require.NoError(t, err)
	assert.Equal(t, Identity4(), mvp)

	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []string{"color", "frame", "mvp", "time"}, s.Names())
}

func TestShaderParameters_AddDuplicateKeepsFirst(t *testing.T) {
	s := NewShaderParameters()

	require.NoError(t, Add(s, "scale", float32(1)))
	err := Add(s, "scale", float32(2))
	assert.ErrorIs(t, err, ErrDuplicateParameter)

	err = Add(s, "scale", Vec2{1, 2})
	assert.ErrorIs(t, err, ErrDuplicateParameter)

	scale, err := Get[float32](s, "scale")
	require.NoError(t, err)
	assert.Equal(t, float32(1), scale)
}

func TestShaderParameters_SetMissing(t *testing.T) {
	s := NewShaderParameters()
	require.NoError(t, Add(s, "color", NewRGBA(1, 0, 0, 1)))

	err := Set(s, "missing", int32(5))
	assert.ErrorIs(t, err, ErrParameterNotFound)

	assert.Equal(t, 1, s.Len())
	assert.False(t, s.Has("missing"))
}

func TestShaderParameters_SetUpdatesValue(t *testing.T) {
	s := NewShaderParameters()
	require.NoError(t, Add(s, "offset", Vec2{0, 0}))

	require.NoError(t, Set(s, "offset", Vec2{3, 4}))

	offset, err := Get[Vec2](s, "offset")
	require.NoError(t, err)
	assert.Equal(t, Vec2{3, 4}, offset)
}

func TestShaderParameters_TypeMismatch(t *testing.T) {
	s := NewShaderParameters()
	require.NoError(t, Add(s, "tint", Vec4{1, 1, 1, 1}))

	err := Set(s, "tint", NewRGBA(0, 0, 0, 1))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	err = s.SetValue("tint", "red")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = Get[float32](s, "tint")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	tint, err := Get[Vec4](s, "tint")
	require.NoError(t, err)
	assert.Equal(t, Vec4{1, 1, 1, 1}, tint, "failed sets must not change the value")
}

func TestShaderParameters_GetMissing(t *testing.T) {
	s := NewShaderParameters()

	_, err := Get[float32](s, "nothing")
	assert.ErrorIs(t, err, ErrParameterNotFound)
}

func TestShaderParameters_DynamicValues(t *testing.T) {
	s := NewShaderParameters()

	require.NoError(t, s.AddValue("speed", 1.5))
	require.NoError(t, s.AddValue("count", 3))
	assert.ErrorIs(t, s.AddValue("label", "text"), ErrUnsupportedType)

	speed, err := Get[float32](s, "speed")
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), speed)

	require.NoError(t, s.SetValue("count", 9))
	count, err := Get[int32](s, "count")
	require.NoError(t, err)
	assert.Equal(t, int32(9), count)

	assert.ErrorIs(t, s.SetValue("count", 1.0), ErrTypeMismatch)
}

func TestShaderParameters_ZeroValueUsable(t *testing.T) {
	var s ShaderParameters

	require.NoError(t, Add(&s, "time", float32(0)))
	assert.True(t, s.Has("time"))
}

func TestShaderParameters_Remove(t *testing.T) {
	s := NewShaderParameters()
	require.NoError(t, Add(s, "time", float32(0)))

	assert.True(t, s.Remove("time"))
	assert.False(t, s.Remove("time"))
	assert.Equal(t, 0, s.Len())
}

func TestShaderParameters_CloneIsDeep(t *testing.T) {
	original := NewShaderParameters()
	require.NoError(t, Add(original, "color", NewRGBA(1, 0, 0, 1)))
	require.NoError(t, Add(original, "time", float32(1)))
	original.UpdateParameters(newRecordingBackend(map[string]Location{"color": 0, "time": 1}))

	clone := original.Clone()
	require.NoError(t, Set(clone, "color", NewRGBA(0, 1, 0, 1)))
	require.NoError(t, Add(clone, "extra", int32(1)))
	clone.UpdateParameters(newRecordingBackend(map[string]Location{"color": 5}))

	color, err := Get[RGBA](original, "color")
	require.NoError(t, err)
	assert.Equal(t, NewRGBA(1, 0, 0, 1), color)
	assert.False(t, original.Has("extra"))

	uniform, ok := original.Lookup("color")
	require.True(t, ok)
	assert.Equal(t, Location(0), uniform.Location())

	cloned, ok := clone.Lookup("color")
	require.True(t, ok)
	assert.Equal(t, Location(5), cloned.Location())
}

func TestShaderParameters_CopyFrom(t *testing.T) {
	src := NewShaderParameters()
	require.NoError(t, Add(src, "time", float32(1)))

	dst := NewShaderParameters()
	require.NoError(t, Add(dst, "stale", int32(1)))

	dst.CopyFrom(src)
	assert.Equal(t, []string{"time"}, dst.Names())

	require.NoError(t, Set(dst, "time", float32(9)))
	time, err := Get[float32](src, "time")
	require.NoError(t, err)
	assert.Equal(t, float32(1), time)

	dst.CopyFrom(dst)
	assert.Equal(t, 1, dst.Len())
}

func TestShaderParameters_NewParametersAreUnbound(t *testing.T) {
	s := NewShaderParameters()
	require.NoError(t, Add(s, "time", float32(0)))

	uniform, ok := s.Lookup("time")
	require.True(t, ok)
	assert.Equal(t, InvalidLocation, uniform.Location())
	assert.Equal(t, KindFloat, uniform.Kind())
	assert.Equal(t, "time", uniform.Name())
}

func TestShaderParameters_UpdateThenUse(t *testing.T) {
	s := NewShaderParameters()
	require.NoError(t, Add(s, "color", NewRGBA(1, 0, 0, 1)))
	require.NoError(t, Add(s, "time", float32(0.5)))
	require.NoError(t, Add(s, "unused", int32(3)))

	first := newRecordingBackend(map[string]Location{"color": 1, "time": 2})
	s.UpdateParameters(first)

	relinked := newRecordingBackend(map[string]Location{"color": 4, "time": 3, "unused": 7})
	s.UpdateParameters(relinked)

	require.NoError(t, s.Use(relinked))

	require.Len(t, relinked.uploads, 3, "one upload per parameter")
	assert.Equal(t, []upload{
		{loc: 4, value: NewRGBA(1, 0, 0, 1)},
		{loc: 3, value: float32(0.5)},
		{loc: 7, value: int32(3)},
	}, relinked.uploads)
	assert.Empty(t, first.uploads)
}

func TestShaderParameters_UseUploadsUnresolvedAtInvalidLocation(t *testing.T) {
	s := NewShaderParameters()
	require.NoError(t, Add(s, "ghost", float32(1)))

	backend := newRecordingBackend(nil)
	s.UpdateParameters(backend)
	require.NoError(t, s.Use(backend))

	require.Len(t, backend.uploads, 1)
	assert.Equal(t, InvalidLocation, backend.uploads[0].loc)
}

func TestShaderParameters_UseAttemptsEveryParameter(t *testing.T) {
	s := NewShaderParameters()
	require.NoError(t, Add(s, "a", float32(1)))
	require.NoError(t, Add(s, "b", float32(2)))
	require.NoError(t, Add(s, "c", float32(3)))

	backend := newRecordingBackend(map[string]Location{"a": 0, "b": 1, "c": 2})
	backend.failAt = 1
	s.UpdateParameters(backend)

	err := s.Use(backend)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"b"`)
	assert.Len(t, backend.uploads, 3)
}
