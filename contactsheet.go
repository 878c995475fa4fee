package main

import (
	"context"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"photogrid/grid"
)

var sheetBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// runContactSheet 扫描目录并生成联系表。
func runContactSheet(ctx context.Context, cfg SheetConfig, dir string) error {
	logger := loggerFromContext(ctx)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Debug("联系表配置", cfg.describe()...)

	st := newStage(logger)
	paths, err := scanImages(dir, cfg.Recursive, cfg.Output)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return newFault(CodeFileNotFound, "no image files found in %s", dir)
	}
	paths = sortImages(ctx, paths, cfg.Sort)
	st.done("找到图片文件", "count", len(paths), "dir", dir)
	logger.Debug("图片顺序", "files", describeImages(paths))

	sheet, sol, err := cfg.Layout(len(paths))
	if err != nil {
		return err
	}
	logLayout(ctx, sheet, sol, len(paths))

	canvas, entries, err := composeSheet(ctx, cfg, sheet, paths)
	if err != nil {
		return err
	}

	st = newStage(logger)
	if err := saveImage(canvas, cfg.Output, 0); err != nil {
		return err
	}
	st.done("联系表已保存", "file", cfg.Output, "size", grid.SizeOf(canvas.Bounds()))

	if cfg.Manifest != "" {
		m := newManifest(sheet, sol, cfg.Output, cfg.Manifest, entries)
		if err := writeManifest(m, cfg.Manifest); err != nil {
			return err
		}
		logger.Info("元数据已保存", "file", cfg.Manifest)
	}
	return nil
}

// logLayout 输出网格决策以及空格情况。
func logLayout(ctx context.Context, sheet grid.Sheet, sol grid.Solution, n int) {
	logger := loggerFromContext(ctx)
	logger.Info("网格尺寸", "ratio", sol.Ratio, "grid", sol.Seed, "images", n)
	free := sol.Seed.Free(n)
	if free > sol.Seed.Cols {
		logger.Warn("有多余的空格，可以增加图片或使用 free 比例", "free", free)
	}
	if free > 0 {
		logger.Debug("空格分布", "emptyRows", free/sol.Seed.Cols, "emptyInLastRow", free%sol.Seed.Cols)
	}
	if sol.Ratio.IsFree() && free > 0 {
		if sol.Optimized {
			logger.Info("free 比例：网格已优化", "grid", sol.Shape)
		} else {
			logger.Info("free 比例：没有可用的优化（0、1 或质数）", "images", n)
		}
	}
	logger.Info("联系表尺寸", "size", sheet.Size(), "cell", sheet.Cell, "padding", sheet.Padding)
}

// composeSheet 将图片按行优先顺序逐格粘贴到画布上。
// 无法读取的图片对应的格子留空；Strict 模式下立即返回错误。
func composeSheet(ctx context.Context, cfg SheetConfig, sheet grid.Sheet, paths []string) (*image.NRGBA, []Entry, error) {
	logger := loggerFromContext(ctx)
	cells := sheet.Cells()[:len(paths)]

	st := newStage(logger)
	var thumbs []thumbnail
	if !cfg.Strict {
		thumbs = loadThumbnails(ctx, paths, cells, cfg.Trim, cfg.Workers)
		st.done("缩略图处理完成", "count", len(thumbs))
		st = newStage(logger)
	}

	size := sheet.Size()
	canvas := imaging.New(size.Width, size.Height, sheetBackground)
	entries := make([]Entry, 0, len(cells))
	skipped := 0
	for i, cell := range cells {
		var t thumbnail
		if cfg.Strict {
			// 严格模式下逐张处理，在第一张失败时停止
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			t = makeThumbnail(paths[i], cell, cfg.Trim)
		} else {
			t = thumbs[i]
		}
		entry := Entry{
			Filename: t.Path,
			Index:    t.Cell.Index,
			Row:      t.Cell.Row,
			Col:      t.Cell.Col,
			Cell:     regionOf(t.Cell.Box),
		}
		if t.Err != nil {
			// 取消优先于解码错误，保证以 130 退出
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			if cfg.Strict {
				return nil, nil, t.Err
			}
			logger.Warn("无法读取图片，跳过该格", "file", t.Path, "cell", t.Cell.Index, "err", t.Err)
			entry.Skipped = true
			entry.Error = t.Err.Error()
			entries = append(entries, entry)
			skipped++
			continue
		}
		dst := t.Fit.Rect().Image()
		draw.Draw(canvas, dst, t.Image, t.Image.Bounds().Min, draw.Over)
		if cfg.Captions {
			drawCaption(canvas, captionText(t.Path, t.Cell.Box.Width), t.Cell.Box)
		}
		entry.Placed = regionOf(t.Fit.Rect())
		entries = append(entries, entry)
	}
	st.done("画布合成完成", "placed", len(entries)-skipped, "skipped", skipped)
	return canvas, entries, nil
}
