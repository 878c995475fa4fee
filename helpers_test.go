package main

import (
	"context"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return withLogger(context.Background(), newLogger(io.Discard, log.DebugLevel))
}

// writeImage 生成纯色测试图片，格式由扩展名决定。
func writeImage(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, imaging.Save(imaging.New(w, h, c), path))
}

func writeGarbage(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("definitely not an image"), 0644))
}

func openImage(t *testing.T, path string) image.Image {
	t.Helper()
	img, err := imaging.Open(path)
	require.NoError(t, err)
	return img
}

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)
