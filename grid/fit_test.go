package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitInside_Landscape(t *testing.T) {
	cell := NewRect(10, 20, 200, 200)
	fit, err := FitInside(NewSize(400, 300), cell)
	require.NoError(t, err)
	assert.Equal(t, NewSize(200, 150), fit.Size)
	assert.Equal(t, NewPoint(10, 20+25), fit.Offset)
}

func TestFitInside_Portrait(t *testing.T) {
	cell := NewRect(0, 0, 200, 200)
	fit, err := FitInside(NewSize(300, 600), cell)
	require.NoError(t, err)
	assert.Equal(t, NewSize(100, 200), fit.Size)
	assert.Equal(t, NewPoint(50, 0), fit.Offset)
}

func TestFitInside_Upscale(t *testing.T) {
	fit, err := FitInside(NewSize(20, 10), NewRect(0, 0, 200, 200))
	require.NoError(t, err)
	assert.Equal(t, NewSize(200, 100), fit.Size)
}

func TestFitInside_Bounds(t *testing.T) {
	cells := []Size{{200, 200}, {160, 90}, {33, 77}, {1, 500}}
	for _, cs := range cells {
		cell := Rect{Point: NewPoint(7, 3), Size: cs}
		for w := 1; w <= 60; w += 7 {
			for h := 1; h <= 60; h += 5 {
				fit, err := FitInside(NewSize(w*13, h*11), cell)
				require.NoError(t, err)
				assert.LessOrEqual(t, fit.Size.Width, cs.Width)
				assert.LessOrEqual(t, fit.Size.Height, cs.Height)
				assert.True(t, fit.Size.Width == cs.Width || fit.Size.Height == cs.Height,
					"src %dx%d cell %s -> %s", w*13, h*11, cs, fit.Size)
				assert.True(t, cell.ContainsRect(fit.Rect()))
			}
		}
	}
}

func TestFitInside_Invalid(t *testing.T) {
	_, err := FitInside(NewSize(0, 10), NewRect(0, 0, 10, 10))
	assert.Error(t, err)
	_, err = FitInside(NewSize(10, 10), NewRect(0, 0, 0, 10))
	assert.Error(t, err)
}
