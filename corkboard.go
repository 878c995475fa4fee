package main

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"photogrid/collage"
	"photogrid/grid"
)

var (
	corkColor   = color.NRGBA{R: 181, G: 137, B: 94, A: 255}
	shadowColor = color.NRGBA{R: 0, G: 0, B: 0, A: 64}
)

// resolveSource 为没有扩展名的参数补上 .jpg，并确认文件存在。
func resolveSource(arg string) (string, error) {
	path := arg
	if filepath.Ext(path) == "" {
		path += ".jpg"
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", wrapFault(CodeFileNotFound, err, "file %s does not exist", path)
	}
	if info.IsDir() {
		return "", newFault(CodeFileNotFound, "%s is a directory", path)
	}
	return path, nil
}

// runCorkboard 将 3 到 12 张照片随机钉在软木板上。任何一张无法读取都会中止。
func runCorkboard(ctx context.Context, cfg BoardConfig, args []string) error {
	logger := loggerFromContext(ctx)
	if err := cfg.Validate(); err != nil {
		return err
	}
	table, err := cfg.Table()
	if err != nil {
		return err
	}
	layout, err := table.Lookup(len(args))
	if err != nil {
		return wrapFault(CodeInvalidConfig, err, "corkboard")
	}

	st := newStage(logger)
	photos := make([]image.Image, 0, len(args))
	var largest grid.Size
	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			return err
		}
		path, err := resolveSource(arg)
		if err != nil {
			return err
		}
		img, err := loadImage(path)
		if err != nil {
			return err
		}
		if cfg.Thumb > 0 {
			img, err = shrinkToBox(img, cfg.Thumb)
			if err != nil {
				return wrapFault(CodeDecode, err, "scale %s", path)
			}
		}
		size := grid.SizeOf(img.Bounds())
		largest = grid.NewSize(max(largest.Width, size.Width), max(largest.Height, size.Height))
		photos = append(photos, img)
	}
	st.done("照片加载完成", "count", len(photos), "largest", largest)

	opts := cfg.Options()
	board := collage.NewBoard(layout, largest, opts)
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int64()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1))
	logger.Info("软木板布局", "layout", layout, "cell", board.Cell, "size", board.Size(), "seed", seed)

	placements, err := board.Arrange(len(photos), opts, rng)
	if err != nil {
		return wrapFault(CodeInternal, err, "arrange corkboard")
	}

	st = newStage(logger)
	canvas, err := corkBackground(board.Size(), cfg.Background)
	if err != nil {
		return err
	}
	for _, p := range placements {
		photo := preparePhoto(photos[p.Index], board.Cell, float64(p.Angle), opts.Shadow)
		origin := board.Origin(p)
		logger.Debug("放置照片", "file", args[p.Index], "location", p.Location, "angle", p.Angle, "origin", origin)
		draw.Draw(canvas, photo.Bounds().Add(origin.Image()), photo, photo.Bounds().Min, draw.Over)
	}
	st.done("软木板合成完成")

	if err := saveImage(canvas, cfg.Output, cfg.Quality); err != nil {
		return err
	}
	logger.Info("软木板已保存", "file", cfg.Output)
	return nil
}

// shrinkToBox 将大于 box 的照片等比缩小到 box×box 之内。
func shrinkToBox(img image.Image, box int) (image.Image, error) {
	size := grid.SizeOf(img.Bounds())
	if size.Width <= box && size.Height <= box {
		return img, nil
	}
	fit, err := grid.FitInside(size, grid.NewRect(0, 0, box, box))
	if err != nil {
		return nil, err
	}
	return imaging.Resize(img, fit.Size.Width, fit.Size.Height, imaging.Lanczos), nil
}

// corkBackground 平铺纹理图片作为背景，未指定纹理时使用纯色。
func corkBackground(size grid.Size, texture string) (*image.NRGBA, error) {
	canvas := imaging.New(size.Width, size.Height, corkColor)
	if texture == "" {
		return canvas, nil
	}
	tile, err := imaging.Open(texture)
	if err != nil {
		return nil, wrapFault(CodeInvalidConfig, err, "could not load background resource %s", texture)
	}
	tb := tile.Bounds()
	if tb.Empty() {
		return nil, newFault(CodeInvalidConfig, "background resource %s is empty", texture)
	}
	for x := 0; x < size.Width; x += tb.Dx() {
		for y := 0; y < size.Height; y += tb.Dy() {
			draw.Draw(canvas, image.Rect(x, y, x+tb.Dx(), y+tb.Dy()), tile, tb.Min, draw.Src)
		}
	}
	return canvas, nil
}

// preparePhoto 把照片居中放进一个 cell 大小的透明画布，加上投影后旋转（画布随之扩展）。
func preparePhoto(photo image.Image, cell grid.Size, angle, shadow float64) *image.NRGBA {
	result := imaging.New(cell.Width, cell.Height, color.NRGBA{R: 255, G: 255, B: 255, A: 0})
	size := grid.SizeOf(photo.Bounds())
	ox := (cell.Width - size.Width) / 2
	oy := (cell.Height - size.Height) / 2
	sx := ox + int(float64(size.Width)*shadow)
	sy := oy + int(float64(size.Height)*shadow)
	draw.Draw(result, image.Rect(ox, oy, sx+size.Width, sy+size.Height), image.NewUniform(shadowColor), image.Point{}, draw.Src)
	result = imaging.Paste(result, photo, image.Pt(ox, oy))
	if angle == 0 {
		return result
	}
	return imaging.Rotate(result, angle, color.Transparent)
}
