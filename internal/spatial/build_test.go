package spatial

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEmpty(t *testing.T) {
	tree := Build[int](nil, Empty)
	assert.Equal(t, 0, tree.ItemCount())

	_, err := tree.Root()
	assert.ErrorIs(t, err, ErrEmptyTree)

	compacted := tree.Compress()
	assert.Equal(t, 0, compacted.ItemCount())
}

func TestBuildSingleLeaf(t *testing.T) {
	bound := New(Vec3{0, 0, 0}, Vec3{0, 0, 0})
	tree := Build([]WithPos[int]{{Value: 42, Pos: Vec3{0, 0, 0}}}, bound)

	root, err := tree.Root()
	require.NoError(t, err)
	assert.True(t, root.IsLeaf())
	assert.Equal(t, 0, root.Arity())

	items := root.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 42, items[0].Value)
}

func TestBuildEightOctants(t *testing.T) {
	bound := New(Vec3{0, 0, 0}, Vec3{2, 2, 2})
	var items []WithPos[int]
	id := 0
	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			for c := 0; c < 2; c++ {
				items = append(items, WithPos[int]{
					Value: id,
					Pos:   Vec3{X: 0.5 + float64(a), Y: 0.5 + float64(b), Z: 0.5 + float64(c)},
				})
				id++
			}
		}
	}

	tree := Build(items, bound)
	Validate(tree)

	root, err := tree.Root()
	require.NoError(t, err)
	assert.False(t, root.IsLeaf())

	children := root.Children()
	require.Len(t, children, 8)
	for _, c := range children {
		assert.True(t, c.IsLeaf())
	}
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, valuesOf(root.Items()))
}

func TestBuildDuplicatePositions(t *testing.T) {
	bound := New(Vec3{0, 0, 0}, Vec3{1, 1, 1})
	var items []WithPos[int]
	for k := 0; k < 16; k++ {
		items = append(items, WithPos[int]{Value: k, Pos: Vec3{0.5, 0.5, 0.5}})
	}

	tree := Build(items, bound)
	Validate(tree)

	root, err := tree.Root()
	require.NoError(t, err)
	assert.False(t, root.IsLeaf())

	children := root.Children()
	require.Len(t, children, 16)
	for _, c := range children {
		assert.True(t, c.IsLeaf())
	}
	assert.ElementsMatch(t, allInts(16), valuesOf(root.Items()))
}

// multiLevelFixture returns twenty points placed by hand, octant digit by
// octant digit, against bound [0,16)^3 so the resulting tree is known in
// advance: seven children at the root, of which five are internal and
// fan out to ten children at the next layer, three of which are in turn
// internal and fan out to ten children at the layer after that, one of
// which is internal and fans out to two leaves at the final layer. This
// exercises a genuinely multi-level, non-degenerate shape the way the
// single eight-octant and sixteen-duplicate fixtures above do not.
func multiLevelFixture() []WithPos[int] {
	pts := []Vec3{
		{4, 4, 4},
		{4, 4, 12},
		{2, 10, 2},
		{6, 10, 2},
		{2, 10, 10},
		{5, 9, 9},
		{7, 9, 9},
		{10, 2, 2},
		{13, 1, 1},
		{15, 1, 1},
		{10, 2, 10},
		{13, 1, 9},
		{13, 1, 11},
		{13, 3, 9},
		{13, 3, 11},
		{15, 1, 9},
		{14.5, 0.5, 10.5},
		{15.5, 0.5, 10.5},
		{10, 10, 2},
		{14, 10, 2},
	}
	items := make([]WithPos[int], len(pts))
	for i, p := range pts {
		items[i] = WithPos[int]{Value: i, Pos: p}
	}
	return items
}

// widthsByDepth walks n and every descendant, counting how many nodes
// (leaf or internal) sit at each distance from the root.
func widthsByDepth[T any](n Node[T], depth int, widths map[int]int) {
	widths[depth]++
	if n.IsLeaf() {
		return
	}
	for _, c := range n.Children() {
		widthsByDepth(c, depth+1, widths)
	}
}

func TestBuildTwentyPointsMultiLevel(t *testing.T) {
	bound := New(Vec3{0, 0, 0}, Vec3{16, 16, 16})
	items := multiLevelFixture()

	tree := Build(items, bound)
	Validate(tree)
	assert.Equal(t, 20, tree.ItemCount())

	root, err := tree.Root()
	require.NoError(t, err)
	assert.ElementsMatch(t, allInts(20), valuesOf(root.Items()))

	widths := map[int]int{}
	widthsByDepth[int](root, 0, widths)

	assert.Equal(t, 1, widths[0], "root")
	assert.Equal(t, 7, widths[1], "layer 1 width")
	assert.Equal(t, 10, widths[2], "layer 2 width")
	assert.Equal(t, 10, widths[3], "layer 3 width")
	assert.Equal(t, 2, widths[4], "layer 4 width")
	assert.Empty(t, widths[5], "no nodes past layer 4")

	height := 0
	for d := range widths {
		if d > height {
			height = d
		}
	}
	assert.Equal(t, 4, height, "deepest layer index, i.e. height 5 counting the root")
}

func TestBuildRandomCloudInvariantsAndCompaction(t *testing.T) {
	for _, n := range []int{10, 100, 1000, 10000} {
		r := rand.New(rand.NewSource(int64(n)))
		bound := New(Vec3{0, 0, 0}, Vec3{1, 1, 1})

		items := make([]WithPos[int], n)
		for i := 0; i < n; i++ {
			items[i] = WithPos[int]{Value: i, Pos: Vec3{r.Float64(), r.Float64(), r.Float64()}}
		}

		tree := Build(items, bound)
		Validate(tree)
		assert.Equal(t, n, tree.ItemCount())

		root, err := tree.Root()
		require.NoError(t, err)
		assert.ElementsMatch(t, allInts(n), valuesOf(root.Items()), "n=%d", n)

		compacted := tree.Compress()
		Validate(compacted)
		assert.Equal(t, n, compacted.ItemCount())
		croot, err := compacted.Root()
		require.NoError(t, err)
		assert.ElementsMatch(t, allInts(n), valuesOf(croot.Items()), "n=%d", n)

		again := compacted.Compress()
		assert.Same(t, compacted, again, "compress must be idempotent on an already-compact tree")
	}
}

func valuesOf(items []Item[int]) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Value
	}
	return out
}

func allInts(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
