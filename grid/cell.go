package grid

import (
	"errors"
	"fmt"
)

// Margins 是画布四周的留白（像素）。
type Margins struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// UniformMargins 返回四边相同的留白。
func UniformMargins(m int) Margins {
	return Margins{Left: m, Top: m, Right: m, Bottom: m}
}

// Sheet 描述一张联系表的几何布局：网格、格子尺寸、留白和格间距。
type Sheet struct {
	Shape   Shape   `json:"grid"`
	Cell    Size    `json:"cell"`
	Margins Margins `json:"margins"`
	Padding int     `json:"padding"`
}

// Cell 是网格中的一个格子，Index 为行优先的序号。
type Cell struct {
	Index int
	Row   int
	Col   int
	Box   Rect
}

// 画布尺寸上限：单边不超过 JPEG 的 65535，总像素不超过 2^28（NRGBA 约 1 GiB）。
const (
	MaxCanvasSide   = 65535
	MaxCanvasPixels = 1 << 28
)

// ErrCanvasTooLarge 表示布局得到的画布超出尺寸上限。
var ErrCanvasTooLarge = errors.New("canvas too large")

// Validate 检查布局参数以及画布是否在尺寸上限之内。
func (s Sheet) Validate() error {
	if s.Shape.Rows < 1 || s.Shape.Cols < 1 {
		return fmt.Errorf("grid must have at least one row and column (given %s)", s.Shape)
	}
	if s.Cell.IsEmpty() {
		return fmt.Errorf("cell size must be greater than 0 (given %s)", s.Cell)
	}
	m := s.Margins
	if m.Left < 0 || m.Top < 0 || m.Right < 0 || m.Bottom < 0 || s.Padding < 0 {
		return errors.New("margins and padding must not be negative")
	}
	// 先逐项限制输入，保证 Size() 的乘法不会溢出
	for _, v := range []int{s.Shape.Rows, s.Shape.Cols, s.Cell.Width, s.Cell.Height, m.Left, m.Top, m.Right, m.Bottom, s.Padding} {
		if v > MaxCanvasSide {
			return fmt.Errorf("%w: %s grid of %s cells", ErrCanvasTooLarge, s.Shape, s.Cell)
		}
	}
	size := s.Size()
	if size.Width > MaxCanvasSide || size.Height > MaxCanvasSide || size.Area() > MaxCanvasPixels {
		return fmt.Errorf("%w: %s exceeds %dx%d or %d pixels", ErrCanvasTooLarge, size, MaxCanvasSide, MaxCanvasSide, MaxCanvasPixels)
	}
	return nil
}

// CellBox 返回第 row 行 col 列的格子在画布上的像素区域。
func (s Sheet) CellBox(row, col int) Rect {
	left := s.Margins.Left + col*(s.Cell.Width+s.Padding)
	top := s.Margins.Top + row*(s.Cell.Height+s.Padding)
	return NewRect(left, top, s.Cell.Width, s.Cell.Height)
}

// Size 返回画布的总尺寸。
func (s Sheet) Size() Size {
	cols, rows := s.Shape.Cols, s.Shape.Rows
	return Size{
		Width:  cols*s.Cell.Width + s.Margins.Left + s.Margins.Right + (cols-1)*s.Padding,
		Height: rows*s.Cell.Height + s.Margins.Top + s.Margins.Bottom + (rows-1)*s.Padding,
	}
}

// Cells 按行优先顺序返回所有格子。
func (s Sheet) Cells() []Cell {
	cells := make([]Cell, 0, s.Shape.Cells())
	for row := 0; row < s.Shape.Rows; row++ {
		for col := 0; col < s.Shape.Cols; col++ {
			cells = append(cells, Cell{
				Index: len(cells),
				Row:   row,
				Col:   col,
				Box:   s.CellBox(row, col),
			})
		}
	}
	return cells
}
