// Package collage 计算软木板拼贴的随机布局：每张照片占据粗网格中的一个
// 不重复位置，并带有随机旋转和少量位移。
package collage

import (
	"fmt"
	"slices"
	"strconv"

	"photogrid/grid"
)

// Layout 是粗网格的列数和行数。
type Layout struct {
	Cols int
	Rows int
}

// Cells 返回粗网格的格子数。
func (l Layout) Cells() int {
	return l.Cols * l.Rows
}

func (l Layout) String() string {
	return fmt.Sprintf("%dx%d", l.Cols, l.Rows)
}

// Table 按照片数量查找粗网格。
type Table map[int]Layout

// DefaultTable 支持 3 到 12 张照片。
var DefaultTable = Table{
	3:  {2, 2},
	4:  {2, 2},
	5:  {3, 2},
	6:  {3, 2},
	7:  {3, 3},
	8:  {3, 3},
	9:  {3, 3},
	10: {4, 3},
	11: {4, 3},
	12: {4, 3},
}

// Lookup 返回 n 张照片对应的粗网格。
func (t Table) Lookup(n int) (Layout, error) {
	l, ok := t[n]
	if !ok {
		lo, hi := t.Bounds()
		return Layout{}, fmt.Errorf("no layout for %d images (supported: %d to %d)", n, lo, hi)
	}
	return l, nil
}

// Bounds 返回表中最小和最大的照片数量。
func (t Table) Bounds() (lo, hi int) {
	counts := t.Counts()
	if len(counts) == 0 {
		return 0, 0
	}
	return counts[0], counts[len(counts)-1]
}

// Counts 按升序返回表中所有照片数量。
func (t Table) Counts() []int {
	counts := make([]int, 0, len(t))
	for n := range t {
		counts = append(counts, n)
	}
	slices.Sort(counts)
	return counts
}

// Validate 确保每个条目都能容纳对应数量的照片，否则拒绝采样不会终止。
func (t Table) Validate() error {
	for _, n := range t.Counts() {
		l := t[n]
		if n < 1 || l.Cols < 1 || l.Rows < 1 {
			return fmt.Errorf("layout %d: %s is not a valid grid", n, l)
		}
		if l.Cells() < n {
			return fmt.Errorf("layout %d: %s has only %d cells", n, l, l.Cells())
		}
	}
	return nil
}

// Merge 返回以 override 覆盖后的新表，接收者不变。
func (t Table) Merge(override Table) Table {
	merged := make(Table, len(t)+len(override))
	for n, l := range t {
		merged[n] = l
	}
	for n, l := range override {
		merged[n] = l
	}
	return merged
}

// ParseTable 解析配置文件中的布局表，键为照片数量，值为 [列, 行]。
func ParseTable(raw map[string][]int) (Table, error) {
	t := make(Table, len(raw))
	for key, dims := range raw {
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("layout key %q: %w", key, err)
		}
		if len(dims) != 2 {
			return nil, fmt.Errorf("layout %d: want [cols, rows], got %v", n, dims)
		}
		t[n] = Layout{Cols: dims[0], Rows: dims[1]}
	}
	return t, t.Validate()
}

// Rand 是布局使用的随机数来源，*rand.Rand (math/rand/v2) 满足该接口。
type Rand interface {
	IntN(n int) int
}

// randInt 返回 [lo, hi] 闭区间内的均匀随机整数。
func randInt(rng Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}

// Place 依次为 n 张照片在粗网格中抽取互不相同的位置（拒绝采样）。
// 只需要位置时使用；Arrange 还要为每张照片交错抽取角度和抖动，因此直接调用 pick。
func Place(n int, l Layout, rng Rand) ([]grid.Point, error) {
	if n > l.Cells() {
		return nil, fmt.Errorf("cannot place %d images into a %s grid", n, l)
	}
	taken := make(map[grid.Point]bool, n)
	locations := make([]grid.Point, 0, n)
	for range n {
		locations = append(locations, pick(l, taken, rng))
	}
	return locations, nil
}

// pick 反复抽取均匀随机坐标直到遇到未被占用的位置，并将其标记为已占用。
// 调用方需保证网格中仍有空位。
func pick(l Layout, taken map[grid.Point]bool, rng Rand) grid.Point {
	loc := grid.NewPoint(rng.IntN(l.Cols), rng.IntN(l.Rows))
	for taken[loc] {
		loc = grid.NewPoint(rng.IntN(l.Cols), rng.IntN(l.Rows))
	}
	taken[loc] = true
	return loc
}
