package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Ratio 是网格的宽高比，按 h:w 书写（与胶片规格的习惯一致）。
// 零值 Free 表示不固定比例，由求解器自行消除空格。
type Ratio struct {
	H int `json:"h"`
	W int `json:"w"`
}

var (
	Free    = Ratio{}
	Square  = Ratio{H: 1, W: 1}
	Classic = Ratio{H: 2, W: 3} // 小画幅
	Digital = Ratio{H: 3, W: 4} // APS-C
)

// ErrInvalidRatio 表示比例的某一分量不是正整数或超出 MaxRatioComponent。
var ErrInvalidRatio = errors.New("aspect ratio components must be positive integers")

// MaxRatioComponent 是约分后比例分量的上限。
const MaxRatioComponent = 1 << 16

var presets = map[string]Ratio{
	"free":    Free,
	"square":  Square,
	"classic": Classic,
	"digital": Digital,
}

// IsFree 判断是否为自由比例。
func (r Ratio) IsFree() bool {
	return r == Free
}

// Validate 检查比例是否可用于网格搜索。
func (r Ratio) Validate() error {
	if r.IsFree() {
		return nil
	}
	if r.H <= 0 || r.W <= 0 {
		return fmt.Errorf("%w (given %d:%d)", ErrInvalidRatio, r.H, r.W)
	}
	if r.H > MaxRatioComponent || r.W > MaxRatioComponent {
		return fmt.Errorf("%w, at most %d (given %d:%d)", ErrInvalidRatio, MaxRatioComponent, r.H, r.W)
	}
	return nil
}

// Reduce 返回约分后的比例，例如 6:8 -> 3:4。自由比例原样返回。
func (r Ratio) Reduce() Ratio {
	if r.H <= 0 || r.W <= 0 {
		return r
	}
	g := gcd(r.H, r.W)
	return Ratio{H: r.H / g, W: r.W / g}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func (r Ratio) String() string {
	if r.IsFree() {
		return "free"
	}
	return fmt.Sprintf("%d:%d", r.H, r.W)
}

// ParseRatio 解析预设名称（square, classic, digital, free）
// 或形如 "3:4" 的自定义比例。自定义比例会先约分。
func ParseRatio(s string) (Ratio, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if r, ok := presets[name]; ok {
		return r, nil
	}
	h, w, ok := strings.Cut(name, ":")
	if !ok {
		return Free, fmt.Errorf("unknown aspect ratio %q (want square, classic, digital, free or H:W)", s)
	}
	rh, err := strconv.Atoi(h)
	if err != nil {
		return Free, fmt.Errorf("aspect ratio %q: %w", s, err)
	}
	rw, err := strconv.Atoi(w)
	if err != nil {
		return Free, fmt.Errorf("aspect ratio %q: %w", s, err)
	}
	r := Ratio{H: rh, W: rw}.Reduce()
	if r.IsFree() {
		return Free, fmt.Errorf("%w (given %q)", ErrInvalidRatio, s)
	}
	if err := r.Validate(); err != nil {
		return Free, err
	}
	return r, nil
}
