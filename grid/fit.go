package grid

import "fmt"

// Fit 是一张图片放入格子的结果：缩放后的尺寸和在画布上的左上角位置。
type Fit struct {
	Size   Size
	Offset Point
}

// Rect 返回图片在画布上占据的区域。
func (f Fit) Rect() Rect {
	return Rect{Point: f.Offset, Size: f.Size}
}

// FitInside 等比缩放 src 使其恰好放入 cell（不裁剪），并在有余量的轴上居中。
// 缩放系数由相对格子溢出更多的那条边决定，因此至少有一条边与格子相等。
func FitInside(src Size, cell Rect) (Fit, error) {
	if src.IsEmpty() {
		return Fit{}, fmt.Errorf("source size must be greater than 0 (given %s)", src)
	}
	if cell.Size.IsEmpty() {
		return Fit{}, fmt.Errorf("cell size must be greater than 0 (given %s)", cell.Size)
	}
	var scaled Size
	// 比较 src.H/cell.H 与 src.W/cell.W，用交叉相乘避免浮点误差
	if src.Height*cell.Width > src.Width*cell.Height {
		scaled = Size{Width: src.Width * cell.Height / src.Height, Height: cell.Height}
	} else {
		scaled = Size{Width: cell.Width, Height: src.Height * cell.Width / src.Width}
	}
	// 极端比例下短边可能被截断为 0
	scaled.Width = max(scaled.Width, 1)
	scaled.Height = max(scaled.Height, 1)

	offset := cell.Point
	if scaled.Width < cell.Width {
		offset.X += (cell.Width - scaled.Width) / 2
	}
	if scaled.Height < cell.Height {
		offset.Y += (cell.Height - scaled.Height) / 2
	}
	return Fit{Size: scaled, Offset: offset}, nil
}
