package graphics

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRGBAFromColor(t *testing.T) {
	c := RGBAFromColor(color.RGBA{R: 255, G: 0, B: 0, A: 255})
	assert.Equal(t, NewRGBA(1, 0, 0, 1), c)
	assert.Equal(t, Vec4{1, 0, 0, 1}, c.Vec4())
}

func TestParseKind(t *testing.T) {
	kind, ok := ParseKind("vec3")
	require.True(t, ok)
	assert.Equal(t, KindVec3, kind)

	_, ok = ParseKind("invalid")
	assert.False(t, ok)

	_, ok = ParseKind("sampler2D")
	assert.False(t, ok)
}

func TestFromFloats(t *testing.T) {
	tests := []struct {
		kind   Kind
		values []float64
		want   any
	}{
		{KindFloat, []float64{0.5}, float32(0.5)},
		{KindInt, []float64{3.9}, int32(3)},
		{KindVec2, []float64{1, 2}, Vec2{1, 2}},
		{KindIVec3, []float64{1, 2, 3}, IVec3{1, 2, 3}},
		{KindRGBA, []float64{1, 0, 0, 1}, NewRGBA(1, 0, 0, 1)},
		{KindMat2, []float64{1, 0, 0, 1}, Mat2{1, 0, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got, err := FromFloats(tt.kind, tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.kind, KindOf(got))
		})
	}
}

func TestFromFloats_WrongLength(t *testing.T) {
	_, err := FromFloats(KindVec4, []float64{1, 2})
	assert.Error(t, err)

	_, err = FromFloats(KindInvalid, nil)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
