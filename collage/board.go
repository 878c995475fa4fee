package collage

import (
	"fmt"

	"photogrid/grid"
)

// Options 控制照片的间距、阴影、旋转和随机位移，比例均相对于格子尺寸。
type Options struct {
	Spacing     float64 // 格子比最大照片大出的比例
	Shadow      float64 // 阴影相对照片的偏移
	Offset      float64 // 最大随机位移
	MaxRotation int     // 最大旋转角度（度）
	Border      float64 // 背景四周额外留出的边框
}

// DefaultOptions 返回软木板的默认参数。
func DefaultOptions() Options {
	return Options{
		Spacing:     0.025,
		Shadow:      0.025,
		Offset:      0.003,
		MaxRotation: 15,
		Border:      0.1,
	}
}

// Validate 检查参数范围。
func (o Options) Validate() error {
	if o.Spacing < 0 || o.Shadow < 0 || o.Offset < 0 || o.Border < 0 {
		return fmt.Errorf("collage proportions must not be negative")
	}
	if o.MaxRotation < 0 || o.MaxRotation > 180 {
		return fmt.Errorf("max rotation must be within [0, 180] (given %d)", o.MaxRotation)
	}
	return nil
}

// Board 是软木板的几何布局。
type Board struct {
	Layout Layout
	Cell   grid.Size
	Border grid.Size
}

// NewBoard 以最大照片尺寸加上间距作为格子尺寸。
func NewBoard(l Layout, largest grid.Size, opts Options) Board {
	cell := largest.Scale(1 + opts.Spacing)
	return Board{
		Layout: l,
		Cell:   cell,
		Border: cell.Scale(opts.Border),
	}
}

// Size 返回画布尺寸：粗网格加上三倍边框。
func (b Board) Size() grid.Size {
	return grid.Size{
		Width:  b.Layout.Cols*b.Cell.Width + 3*b.Border.Width,
		Height: b.Layout.Rows*b.Cell.Height + 3*b.Border.Height,
	}
}

// Origin 返回照片在画布上的左上角位置。
func (b Board) Origin(p Placement) grid.Point {
	return grid.Point{
		X: p.Location.X*b.Cell.Width + b.Border.Width,
		Y: p.Location.Y*b.Cell.Height + b.Border.Height,
	}.Add(p.Jitter)
}

// Placement 是一张照片的布局结果。
type Placement struct {
	Index    int
	Location grid.Point // 粗网格坐标 (col, row)
	Angle    int        // 逆时针旋转角度
	Jitter   grid.Point // 非正的像素位移
}

// Pinned 判断照片是否位于最后一行或最后一列。
func (b Board) Pinned(loc grid.Point) bool {
	return loc.X == b.Layout.Cols-1 || loc.Y == b.Layout.Rows-1
}

// Arrange 为 n 张照片生成布局。随机数的消耗顺序为：位置、角度、x 位移、y 位移。
// 位于最后一行或最后一列的照片不施加位移，以免超出画布。
func (b Board) Arrange(n int, opts Options, rng Rand) ([]Placement, error) {
	if n > b.Layout.Cells() {
		return nil, fmt.Errorf("cannot place %d images into a %s grid", n, b.Layout)
	}
	maxX := int(float64(b.Cell.Width) * opts.Offset)
	maxY := int(float64(b.Cell.Height) * opts.Offset)

	taken := make(map[grid.Point]bool, n)
	placements := make([]Placement, 0, n)
	for i := range n {
		loc := pick(b.Layout, taken, rng)
		p := Placement{
			Index:    i,
			Location: loc,
			Angle:    randInt(rng, -opts.MaxRotation, opts.MaxRotation),
		}
		jitter := grid.NewPoint(randInt(rng, -maxX, 0), randInt(rng, -maxY, 0))
		if !b.Pinned(loc) {
			p.Jitter = jitter
		}
		placements = append(placements, p)
	}
	return placements, nil
}
