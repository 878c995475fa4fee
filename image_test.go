package main

import (
	"image"
	"image/color"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photogrid/grid"
)

func TestScanImages(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), 4, 4, red)
	writeImage(t, filepath.Join(dir, "B.JPG"), 4, 4, red)
	writeImage(t, filepath.Join(dir, "sub", "c.gif"), 4, 4, red)
	writeImage(t, filepath.Join(dir, "out.png"), 4, 4, red)
	writeGarbage(t, filepath.Join(dir, "notes.txt"))

	paths, err := scanImages(dir, true, filepath.Join(dir, "out.png"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "B.JPG"),
		filepath.Join(dir, "sub", "c.gif"),
	}, paths)

	paths, err = scanImages(dir, false)
	require.NoError(t, err)
	assert.Len(t, paths, 3)

	_, err = scanImages(filepath.Join(dir, "missing"), true)
	assert.True(t, hasCode(err, CodeFileNotFound))
}

func TestSortImages_Natural(t *testing.T) {
	paths := []string{"img10.png", "img2.png", "img1.png"}
	sorted := sortImages(testContext(), paths, sortByName)
	assert.Equal(t, []string{"img1.png", "img2.png", "img10.png"}, sorted)
	assert.Equal(t, "img10.png", paths[0], "input must not be reordered")
}

func TestSortImages_TimeWithoutExif(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"p10.png", "p9.png"} {
		writeImage(t, filepath.Join(dir, name), 2, 2, red)
	}
	sorted := sortImages(testContext(), []string{filepath.Join(dir, "p10.png"), filepath.Join(dir, "p9.png")}, sortByTime)
	assert.Equal(t, []string{filepath.Join(dir, "p9.png"), filepath.Join(dir, "p10.png")}, sorted)
}

func TestGetImageBBox(t *testing.T) {
	img := imaging.New(20, 10, color.NRGBA{})
	img = imaging.Paste(img, imaging.New(5, 3, red), image.Pt(4, 2))
	assert.Equal(t, image.Rect(4, 2, 9, 5), GetImageBBox(img, 0))

	sub := img.SubImage(image.Rect(2, 1, 20, 10))
	assert.Equal(t, image.Rect(4, 2, 9, 5), GetImageBBox(sub, 0))

	empty := imaging.New(6, 6, color.NRGBA{})
	assert.Equal(t, empty.Bounds(), GetImageBBox(empty, 0))
}

func TestMakeThumbnail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wide.png")
	writeImage(t, path, 80, 40, green)
	cell := grid.Cell{Box: grid.NewRect(10, 10, 40, 40)}

	th := makeThumbnail(path, cell, false)
	require.NoError(t, th.Err)
	assert.Equal(t, grid.NewSize(40, 20), th.Fit.Size)
	assert.Equal(t, grid.NewPoint(10, 20), th.Fit.Offset)
	assert.Equal(t, image.Rect(0, 0, 40, 20), th.Image.Bounds())

	bad := filepath.Join(dir, "bad.png")
	writeGarbage(t, bad)
	th = makeThumbnail(bad, cell, false)
	assert.True(t, hasCode(th.Err, CodeDecode))

	th = makeThumbnail(filepath.Join(dir, "missing.png"), cell, false)
	assert.True(t, hasCode(th.Err, CodeFileNotFound))
}

func TestMakeThumbnail_Trim(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprite.png")
	img := imaging.New(100, 100, color.NRGBA{})
	img = imaging.Paste(img, imaging.New(50, 25, blue), image.Pt(10, 10))
	require.NoError(t, imaging.Save(img, path))

	th := makeThumbnail(path, grid.Cell{Box: grid.NewRect(0, 0, 40, 40)}, true)
	require.NoError(t, th.Err)
	assert.Equal(t, grid.NewSize(40, 20), th.Fit.Size)
}

func TestParallel(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 64} {
		var hits [101]int32
		var total atomic.Int64
		Parallel(0, len(hits), workers, func(i int) {
			atomic.AddInt32(&hits[i], 1)
			total.Add(int64(i))
		})
		for i, h := range hits {
			assert.Equal(t, int32(1), h, "workers=%d index=%d", workers, i)
		}
		assert.Equal(t, int64(100*101/2), total.Load())
	}
}

func TestSaveImage_UnknownFormat(t *testing.T) {
	err := saveImage(imaging.New(2, 2, red), filepath.Join(t.TempDir(), "out.xyz"), 0)
	assert.True(t, hasCode(err, CodeInvalidConfig))
}

func TestCaptionText(t *testing.T) {
	assert.Equal(t, "a.png", captionText("/x/y/a.png", 200))

	long := captionText("/x/a-very-long-file-name-for-a-thumbnail.png", 70)
	assert.Contains(t, long, "...")
	assert.LessOrEqual(t, len(long)*7, 70)

	assert.Equal(t, "", captionText("abcdef.png", 5))
}

func TestFault(t *testing.T) {
	cause := assert.AnError
	err := wrapFault(CodeDecode, cause, "decode %s", "x.png")
	assert.ErrorIs(t, err, cause)
	assert.True(t, hasCode(err, CodeDecode))
	assert.False(t, hasCode(err, CodeInternal))
	assert.Contains(t, err.Error(), "DECODE_FAILED: decode x.png")
	assert.Equal(t, "INVALID_CONFIG: bad", newFault(CodeInvalidConfig, "bad").Error())
}
