package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCanonicalizesNegativeSize(t *testing.T) {
	b := New(Vec3{X: 5}, Vec3{X: -3})
	assert.Equal(t, Vec3{X: 2}, b.Origin)
	assert.Equal(t, Vec3{X: 3}, b.Size)
}

func TestEmptyBoxesAreAllEqual(t *testing.T) {
	a := Empty
	b := AABB{Origin: NaV, Size: Vec3{1, 2, 3}} // malformed but still "empty" by origin
	assert.True(t, a.Equal(b))
}

func TestUnionAssociative(t *testing.T) {
	a := New(Vec3{0, 0, 0}, Vec3{1, 1, 1})
	b := New(Vec3{2, 2, 2}, Vec3{1, 1, 1})
	c := New(Vec3{-1, -1, -1}, Vec3{1, 1, 1})

	left := Union(Union(a, b), c)
	right := Union(a, Union(b, c))
	assert.True(t, left.Equal(right))
}

func TestIntersectWithSelfUnion(t *testing.T) {
	a := New(Vec3{0, 0, 0}, Vec3{1, 1, 1})
	b := New(Vec3{2, 2, 2}, Vec3{1, 1, 1})
	assert.True(t, Intersect(a, Union(a, b)).Equal(a))
}

func TestIntersectEmptyWhenDisjoint(t *testing.T) {
	a := New(Vec3{0, 0, 0}, Vec3{1, 1, 1})
	b := New(Vec3{5, 5, 5}, Vec3{1, 1, 1})
	assert.True(t, Intersect(a, b).IsEmpty())
}

func TestBoundPointsEmpty(t *testing.T) {
	b, err := BoundPoints(nil)
	require.NoError(t, err)
	assert.True(t, b.IsEmpty())
}

func TestBoundPointsRejectsNaV(t *testing.T) {
	_, err := BoundPoints([]Vec3{{0, 0, 0}, NaV})
	assert.ErrorIs(t, err, ErrUnderspecifiedPoint)
}

func TestBoundPointsSpansAllPoints(t *testing.T) {
	pts := []Vec3{{1, -2, 0}, {-1, 5, 3}, {0, 0, -4}}
	b, err := BoundPoints(pts)
	require.NoError(t, err)
	assert.Equal(t, Vec3{-1, -2, -4}, b.Min())
	assert.Equal(t, Vec3{1, 5, 3}, b.Max())
}

func TestContains(t *testing.T) {
	b := New(Vec3{0, 0, 0}, Vec3{2, 2, 2})
	assert.True(t, b.Contains(Vec3{1, 1, 1}))
	assert.True(t, b.Contains(Vec3{0, 0, 0}))
	assert.True(t, b.Contains(Vec3{2, 2, 2}))
	assert.False(t, b.Contains(Vec3{3, 0, 0}))
	assert.False(t, Empty.Contains(Vec3{0, 0, 0}))
}
