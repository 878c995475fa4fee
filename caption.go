package main

import (
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"photogrid/grid"
)

const captionGap = 2 // 文字与缩略图之间的间隙

var captionFace font.Face = basicfont.Face7x13

// captionBand 返回一行标注文字所需的高度（含上下间隙）。
func captionBand() int {
	return captionFace.Metrics().Height.Ceil() + 2*captionGap
}

// captionText 取文件名作为标注，超出宽度时以 "..." 截断。
func captionText(path string, width int) string {
	text := filepath.Base(path)
	limit := fixed.I(width)
	if font.MeasureString(captionFace, text) <= limit {
		return text
	}
	const ellipsis = "..."
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if font.MeasureString(captionFace, candidate) <= limit {
			return candidate
		}
	}
	return ""
}

// drawCaption 在格子下方居中绘制标注。
func drawCaption(dst draw.Image, text string, cell grid.Rect) {
	if strings.TrimSpace(text) == "" {
		return
	}
	advance := font.MeasureString(captionFace, text).Ceil()
	x := cell.Left() + (cell.Width-advance)/2
	y := cell.Bottom() + captionGap + captionFace.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.NRGBA{R: 64, G: 64, B: 64, A: 255}),
		Face: captionFace,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
