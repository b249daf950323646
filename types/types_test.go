package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptorRepr(t *testing.T) {
	assert.Equal(t, "int", Scalar(KindInt).Repr())
	assert.Equal(t, "int32", ScalarOf(KindInt, 4).Repr())
	assert.Equal(t, "float64", ScalarOf(KindFloat, 8).Repr())
	assert.Equal(t, "float[2D,F]", Array(KindFloat, 2, OrderF).Repr())
	assert.Equal(t, "bool[1D]", Array(KindBool, 1, OrderNone).Repr())
}

func TestDefaultPrecision(t *testing.T) {
	assert.True(t, Scalar(KindFloat).HasDefaultPrecision())
	assert.False(t, ScalarOf(KindFloat, 8).HasDefaultPrecision())

	// the default width and an explicit width of the same kind are distinct
	// precisions as far as casting is concerned
	assert.True(t, RequiresCast(Scalar(KindFloat), ScalarOf(KindFloat, 8)))
}

func TestRequiresCast(t *testing.T) {
	assert.False(t, RequiresCast(Scalar(KindInt), Scalar(KindInt)))
	assert.True(t, RequiresCast(Scalar(KindInt), Scalar(KindFloat)))
	assert.True(t, RequiresCast(ScalarOf(KindInt, 4), ScalarOf(KindInt, 8)))

	// rank and order never participate in the cast decision
	assert.False(t, RequiresCast(Array(KindInt, 2, OrderC), Array(KindInt, 1, OrderF)))
	assert.False(t, RequiresCast(Array(KindInt, 2, OrderC), Scalar(KindInt)))
}

func TestIsScalar(t *testing.T) {
	assert.True(t, Scalar(KindInt).IsScalar())
	assert.False(t, Array(KindInt, 1, OrderNone).IsScalar())
}
