package collage

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photogrid/grid"
)

// scripted 依次返回预设的值（对 n 取模）。
type scripted struct {
	values []int
	pos    int
}

func (s *scripted) IntN(n int) int {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v % n
}

func TestDefaultTable(t *testing.T) {
	require.NoError(t, DefaultTable.Validate())
	lo, hi := DefaultTable.Bounds()
	assert.Equal(t, 3, lo)
	assert.Equal(t, 12, hi)

	l, err := DefaultTable.Lookup(5)
	require.NoError(t, err)
	assert.Equal(t, Layout{Cols: 3, Rows: 2}, l)

	_, err = DefaultTable.Lookup(13)
	assert.Error(t, err)
	_, err = DefaultTable.Lookup(2)
	assert.Error(t, err)
}

func TestParseTable(t *testing.T) {
	tbl, err := ParseTable(map[string][]int{"2": {2, 1}, "13": {5, 3}})
	require.NoError(t, err)
	merged := DefaultTable.Merge(tbl)
	assert.Equal(t, Layout{Cols: 2, Rows: 1}, merged[2])
	assert.Equal(t, Layout{Cols: 5, Rows: 3}, merged[13])
	assert.Equal(t, DefaultTable[7], merged[7])
	_, ok := DefaultTable[13]
	assert.False(t, ok, "merge must not modify the receiver")

	_, err = ParseTable(map[string][]int{"7": {2, 2}})
	assert.Error(t, err, "4 cells cannot hold 7 images")
	_, err = ParseTable(map[string][]int{"x": {2, 2}})
	assert.Error(t, err)
	_, err = ParseTable(map[string][]int{"3": {2}})
	assert.Error(t, err)
}

func TestPlace_Distinct(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, n := range DefaultTable.Counts() {
		l := DefaultTable[n]
		for range 50 {
			locs, err := Place(n, l, rng)
			require.NoError(t, err)
			require.Len(t, locs, n)
			seen := map[grid.Point]bool{}
			for _, loc := range locs {
				assert.False(t, seen[loc], "duplicate %v", loc)
				seen[loc] = true
				assert.True(t, loc.X >= 0 && loc.X < l.Cols && loc.Y >= 0 && loc.Y < l.Rows)
			}
		}
	}
}

func TestPlace_RejectsTaken(t *testing.T) {
	// 2x2 网格：第二次抽到 (0,0) 被拒绝后取 (1,1)
	rng := &scripted{values: []int{0, 0, 0, 0, 1, 1, 1, 0}}
	locs, err := Place(3, Layout{Cols: 2, Rows: 2}, rng)
	require.NoError(t, err)
	assert.Equal(t, []grid.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 0}}, locs)
}

func TestPlace_TooMany(t *testing.T) {
	_, err := Place(5, Layout{Cols: 2, Rows: 2}, rand.New(rand.NewPCG(1, 1)))
	assert.Error(t, err)
}

func TestBoard_Geometry(t *testing.T) {
	opts := DefaultOptions()
	b := NewBoard(Layout{Cols: 3, Rows: 2}, grid.NewSize(400, 300), opts)
	// 400*1.025 在浮点下略小于 410
	assert.Equal(t, grid.NewSize(409, 307), b.Cell)
	assert.Equal(t, grid.NewSize(40, 30), b.Border)
	assert.Equal(t, grid.NewSize(3*409+3*40, 2*307+3*30), b.Size())

	origin := b.Origin(Placement{Location: grid.NewPoint(1, 0), Jitter: grid.NewPoint(-1, 0)})
	assert.Equal(t, grid.NewPoint(409+40-1, 30), origin)
}

func TestBoard_ArrangeFiveImages(t *testing.T) {
	opts := DefaultOptions()
	opts.Offset = 0.05 // 让位移足够大以便观察
	b := NewBoard(DefaultTable[5], grid.NewSize(400, 300), opts)
	require.Equal(t, Layout{Cols: 3, Rows: 2}, b.Layout)

	rng := rand.New(rand.NewPCG(42, 7))
	sawJitter := false
	for range 200 {
		placements, err := b.Arrange(5, opts, rng)
		require.NoError(t, err)
		require.Len(t, placements, 5)
		seen := map[grid.Point]bool{}
		for i, p := range placements {
			assert.Equal(t, i, p.Index)
			assert.False(t, seen[p.Location])
			seen[p.Location] = true
			assert.GreaterOrEqual(t, p.Angle, -opts.MaxRotation)
			assert.LessOrEqual(t, p.Angle, opts.MaxRotation)
			if b.Pinned(p.Location) {
				assert.Equal(t, grid.Point{}, p.Jitter, "edge item %v must not drift", p.Location)
				continue
			}
			assert.LessOrEqual(t, p.Jitter.X, 0)
			assert.LessOrEqual(t, p.Jitter.Y, 0)
			assert.GreaterOrEqual(t, p.Jitter.X, -int(float64(b.Cell.Width)*opts.Offset))
			assert.GreaterOrEqual(t, p.Jitter.Y, -int(float64(b.Cell.Height)*opts.Offset))
			if p.Jitter != (grid.Point{}) {
				sawJitter = true
			}
		}
	}
	assert.True(t, sawJitter)
}

func TestBoard_ArrangeDeterministic(t *testing.T) {
	opts := DefaultOptions()
	b := NewBoard(DefaultTable[9], grid.NewSize(100, 100), opts)
	first, err := b.Arrange(9, opts, rand.New(rand.NewPCG(5, 5)))
	require.NoError(t, err)
	second, err := b.Arrange(9, opts, rand.New(rand.NewPCG(5, 5)))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestOptions_Validate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())
	opts := DefaultOptions()
	opts.MaxRotation = 200
	assert.Error(t, opts.Validate())
	opts = DefaultOptions()
	opts.Spacing = -0.1
	assert.Error(t, opts.Validate())
}
