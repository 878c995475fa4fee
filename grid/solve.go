package grid

import (
	"errors"
	"fmt"
	"math"
)

// ErrRatioMismatch 表示搜索得到的网格比例与请求的比例不一致。
// 对合法输入不应出现，出现即说明求解器有缺陷。
var ErrRatioMismatch = errors.New("grid aspect ratio does not match the requested ratio")

// ErrGridOverflow 表示在该比例下容纳 n 个元素的网格超出 int 范围。
var ErrGridOverflow = errors.New("grid size overflows")

// Shape 是网格的行列数。
type Shape struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Cells 返回网格的格子总数。
func (s Shape) Cells() int {
	return s.Rows * s.Cols
}

// Free 返回放入 n 个元素后剩余的空格数。
func (s Shape) Free(n int) int {
	return max(s.Cells()-n, 0)
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Cols, s.Rows)
}

// Solution 是求解结果。Seed 是按比例搜索得到的初始网格，
// Optimized 表示是否已用因数分解结果替换了 Seed。
type Solution struct {
	Shape
	Seed      Shape
	Ratio     Ratio
	Optimized bool
}

// Search 按固定比例查找能容纳 n 个元素的最小网格：
// 从 i=1 开始递增，直到 n <= (i*h)*(i*w)。
func Search(n int, r Ratio) (Shape, error) {
	if r.IsFree() {
		r = Square
	}
	if err := r.Validate(); err != nil {
		return Shape{}, err
	}
	if n < 0 {
		return Shape{}, fmt.Errorf("item count must not be negative (given %d)", n)
	}
	var shape Shape
	for i := 1; ; i++ {
		rows, cols := i*r.H, i*r.W
		if rows > math.MaxInt/cols {
			return Shape{}, fmt.Errorf("%w: %d items at %s", ErrGridOverflow, n, r)
		}
		if n <= rows*cols {
			shape = Shape{Rows: rows, Cols: cols}
			break
		}
	}
	if shape.Cols*r.H != shape.Rows*r.W {
		return Shape{}, fmt.Errorf("%w: %s vs %s", ErrRatioMismatch, shape, r)
	}
	return shape, nil
}

// Solve 为 n 个元素计算网格。固定比例时直接返回 Search 的结果；
// 自由比例时以正方形网格为初始值，若有空格则尝试 Optimize，
// 无法优化（0、1 或质数）时保留初始网格。
func Solve(n int, r Ratio) (Solution, error) {
	seed, err := Search(n, r)
	if err != nil {
		return Solution{}, err
	}
	sol := Solution{Shape: seed, Seed: seed, Ratio: r}
	if r.IsFree() && seed.Cells() > n {
		if shape, ok := Optimize(n); ok {
			sol.Shape = shape
			sol.Optimized = true
		}
	}
	return sol, nil
}

// Optimize 查找没有空格的网格：在 n 的非平凡因数（去掉 1 和 n）中
// 取中位数（偶数个时取偏下的一个）作为行数。0、1 和质数没有解。
func Optimize(n int) (Shape, bool) {
	if n < 2 {
		return Shape{}, false
	}
	divs := Divisors(n)
	if len(divs) <= 2 {
		return Shape{}, false
	}
	inner := divs[1 : len(divs)-1]
	rows := inner[(len(inner)-1)/2]
	return Shape{Rows: rows, Cols: n / rows}, true
}

// Divisors 按升序返回 n 的全部因数。
func Divisors(n int) []int {
	if n < 1 {
		return nil
	}
	var low, high []int
	for i := 1; i*i <= n; i++ {
		if n%i != 0 {
			continue
		}
		low = append(low, i)
		if j := n / i; j != i {
			high = append(high, j)
		}
	}
	for i := len(high) - 1; i >= 0; i-- {
		low = append(low, high[i])
	}
	return low
}

// IsPrime 判断 n 是否为质数。
func IsPrime(n int) bool {
	return n >= 2 && len(Divisors(n)) == 2
}
