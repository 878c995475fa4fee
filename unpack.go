package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// unpack 根据元数据从联系表中切出每张缩略图，保存为 PNG。
func unpack(ctx context.Context, manifestPath, outputDir string) (int, error) {
	logger := loggerFromContext(ctx)
	st := newStage(logger)

	m, err := readManifest(manifestPath)
	if err != nil {
		return 0, err
	}
	sheetPath := m.Sheet
	if !filepath.IsAbs(sheetPath) {
		sheetPath = filepath.Join(filepath.Dir(manifestPath), sheetPath)
	}
	sheet, err := loadImage(sheetPath)
	if err != nil {
		return 0, err
	}
	if got := sheet.Bounds(); got.Dx() != m.TotalSize.Width || got.Dy() != m.TotalSize.Height {
		return 0, newFault(CodeDecode, "sheet %s is %dx%d, manifest says %s", sheetPath, got.Dx(), got.Dy(), m.TotalSize)
	}

	count := 0
	for _, e := range m.Entries {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if e.Skipped || e.Placed.W <= 0 || e.Placed.H <= 0 {
			continue
		}
		thumb := imaging.Crop(sheet, e.Placed.Rect().Image())
		base := strings.TrimSuffix(filepath.Base(e.Filename), filepath.Ext(e.Filename))
		outputPath := filepath.Join(outputDir, fmt.Sprintf("%03d_%s.png", e.Index, base))
		if err := saveImage(thumb, outputPath, 0); err != nil {
			return count, err
		}
		count++
	}
	st.done("联系表解包完成", "count", count, "dir", outputDir)
	return count, nil
}
