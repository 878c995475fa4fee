package grid

import (
	"fmt"
	"image"
)

// Point 描述了二维空间中的一个位置。
type Point struct {
	// X 是在水平 x 轴上的位置。
	X int `json:"x"`
	// Y 是在垂直 y 轴上的位置。
	Y int `json:"y"`
}

// NewPoint 初始化一个具有指定坐标的新点。
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add 返回按指定偏移量移动后的点。
func (p Point) Add(offset Point) Point {
	return Point{X: p.X + offset.X, Y: p.Y + offset.Y}
}

// Image 转换为标准库的 image.Point。
func (p Point) Image() image.Point {
	return image.Pt(p.X, p.Y)
}

// Size 描述了二维空间中实体的尺寸。
type Size struct {
	// Width 是在水平 x 轴上的尺寸。
	Width int `json:"w"`
	// Height 是在垂直 y 轴上的尺寸。
	Height int `json:"h"`
}

// NewSize 创建具有指定尺寸的新尺寸对象。
func NewSize(width, height int) Size {
	return Size{Width: width, Height: height}
}

// SizeOf 返回图像边界的尺寸。
func SizeOf(r image.Rectangle) Size {
	return Size{Width: r.Dx(), Height: r.Dy()}
}

// String 返回尺寸的字符串表示形式。
func (sz Size) String() string {
	return fmt.Sprintf("%dx%d", sz.Width, sz.Height)
}

// Area 返回总面积（宽度 * 高度）。
func (sz Size) Area() int {
	return sz.Width * sz.Height
}

// IsEmpty 测试宽度或高度是否小于1。
func (sz Size) IsEmpty() bool {
	return sz.Width <= 0 || sz.Height <= 0
}

// Scale 按比例缩放两条边，结果向下取整。
func (sz Size) Scale(f float64) Size {
	return Size{Width: int(float64(sz.Width) * f), Height: int(float64(sz.Height) * f)}
}

// Rect 描述了二维空间中的一个位置（左上角）和尺寸。
type Rect struct {
	Point
	Size
}

// NewRect 初始化一个使用指定点和尺寸值的新矩形。
func NewRect(x, y, w, h int) Rect {
	return Rect{
		Point: Point{X: x, Y: y},
		Size:  Size{Width: w, Height: h},
	}
}

// NewRectLTRB 初始化一个使用指定左/上/右/下值的新矩形。
func NewRectLTRB(l, t, r, b int) Rect {
	return Rect{
		Point: Point{X: l, Y: t},
		Size:  Size{Width: r - l, Height: b - t},
	}
}

// String 返回描述矩形的字符串。
func (r Rect) String() string {
	return fmt.Sprintf("[%v, %v, %v, %v]", r.Left(), r.Top(), r.Right(), r.Bottom())
}

// Left 返回矩形左边缘在 x 轴上的坐标。
func (r Rect) Left() int {
	return r.X
}

// Top 返回矩形上边缘在 y 轴上的坐标。
func (r Rect) Top() int {
	return r.Y
}

// Right 返回矩形右边缘在 x 轴上的坐标。
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom 返回矩形下边缘在 y 轴上的坐标。
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// ContainsRect 测试指定的矩形是否包含在当前接收者的边界内。
func (r Rect) ContainsRect(rect Rect) bool {
	return r.X <= rect.X &&
		rect.X+rect.Width <= r.X+r.Width &&
		r.Y <= rect.Y &&
		rect.Y+rect.Height <= r.Y+r.Height
}

// Intersects 测试接收者是否与指定的矩形有任何重叠。
func (r Rect) Intersects(rect Rect) bool {
	return rect.X < r.X+r.Width &&
		r.X < rect.X+rect.Width &&
		rect.Y < r.Y+r.Height &&
		r.Y < rect.Y+rect.Height
}

// Image 转换为标准库的 image.Rectangle。
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.Left(), r.Top(), r.Right(), r.Bottom())
}
