package main

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/maruel/natural"
	"github.com/rwcarlsen/goexif/exif"

	"photogrid/grid"
)

const (
	sortByName = "name"
	sortByTime = "time"
)

// imageSuffixes 是扫描目录时识别的图片扩展名。
var imageSuffixes = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff"}

func isImageFile(name string) bool {
	return slices.Contains(imageSuffixes, strings.ToLower(filepath.Ext(name)))
}

// scanImages 查找目录中的图片文件，exclude 中的路径（通常是输出文件本身）会被跳过。
func scanImages(dir string, recursive bool, exclude ...string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, wrapFault(CodeFileNotFound, err, "input directory %s", dir)
	}
	if !info.IsDir() {
		return nil, newFault(CodeInvalidConfig, "%s is not a directory", dir)
	}
	skip := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		if abs, err := filepath.Abs(p); err == nil {
			skip[abs] = true
		}
	}
	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !isImageFile(d.Name()) {
			return nil
		}
		if abs, err := filepath.Abs(path); err == nil && skip[abs] {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, wrapFault(CodeFileNotFound, err, "scan %s", dir)
	}
	return paths, nil
}

// sortImages 按文件名自然顺序或拍摄时间（新的在前）排序。
// 没有EXIF拍摄时间的图片按文件名排在最后。
func sortImages(ctx context.Context, paths []string, order string) []string {
	logger := loggerFromContext(ctx)
	sorted := slices.Clone(paths)
	sort.Sort(natural.StringSlice(sorted))
	if order != sortByTime {
		return sorted
	}
	taken := make(map[string]time.Time, len(sorted))
	var dated, undated []string
	for _, p := range sorted {
		if t, ok := captureTime(p); ok {
			taken[p] = t
			dated = append(dated, p)
			continue
		}
		logger.Debug("没有拍摄时间", "file", p)
		undated = append(undated, p)
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return taken[dated[i]].After(taken[dated[j]])
	})
	if len(undated) > 0 {
		logger.Warn("部分图片没有EXIF拍摄时间，按文件名排在最后", "count", len(undated))
	}
	return append(dated, undated...)
}

// captureTime 读取EXIF中的拍摄时间。
func captureTime(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()
	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, false
	}
	t, err := x.DateTime()
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// loadImage 打开并解码图片，按EXIF方向自动旋转。
func loadImage(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, wrapFault(CodeFileNotFound, err, "open %s", path)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, wrapFault(CodeDecode, err, "decode %s", path)
	}
	return img, nil
}

// GetImageBBox 返回图像中 alpha 大于阈值的像素的边界，完全透明时返回整个图像边界。
func GetImageBBox(img image.Image, alphaThreshold uint8) image.Rectangle {
	bounds := img.Bounds()
	if bounds.Empty() {
		return image.Rectangle{}
	}
	src := imaging.Clone(img) // 统一为 NRGBA，原点移到 (0,0)
	minX, minY := src.Rect.Max.X, src.Rect.Max.Y
	maxX, maxY := -1, -1
	for y := 0; y < src.Rect.Dy(); y++ {
		i := src.PixOffset(0, y)
		for x := 0; x < src.Rect.Dx(); x++ {
			if src.Pix[i+3] > alphaThreshold {
				minX, maxX = min(minX, x), max(maxX, x)
				minY, maxY = min(minY, y), max(maxY, y)
			}
			i += 4
		}
	}
	if maxX < 0 {
		return bounds
	}
	return image.Rect(minX, minY, maxX+1, maxY+1).Add(bounds.Min)
}

// thumbnail 是一个格子的处理结果。
type thumbnail struct {
	Path  string
	Cell  grid.Cell
	Fit   grid.Fit
	Image *image.NRGBA
	Err   error
}

// makeThumbnail 解码图片并缩放到格子内。
func makeThumbnail(path string, cell grid.Cell, trim bool) thumbnail {
	t := thumbnail{Path: path, Cell: cell}
	img, err := loadImage(path)
	if err != nil {
		t.Err = err
		return t
	}
	if trim {
		if box := GetImageBBox(img, 0); box != img.Bounds() {
			img = imaging.Crop(img, box)
		}
	}
	t.Fit, err = grid.FitInside(grid.SizeOf(img.Bounds()), cell.Box)
	if err != nil {
		t.Err = wrapFault(CodeDecode, err, "fit %s", path)
		return t
	}
	t.Image = imaging.Resize(img, t.Fit.Size.Width, t.Fit.Size.Height, imaging.Lanczos)
	return t
}

// loadThumbnails 并行生成缩略图。结果按下标存放，与完成顺序无关。
// ctx 取消后尚未开始的图片不再处理。
func loadThumbnails(ctx context.Context, paths []string, cells []grid.Cell, trim bool, workers int) []thumbnail {
	thumbs := make([]thumbnail, len(paths))
	Parallel(0, len(paths), workers, func(i int) {
		if err := ctx.Err(); err != nil {
			thumbs[i] = thumbnail{Path: paths[i], Cell: cells[i], Err: err}
			return
		}
		thumbs[i] = makeThumbnail(paths[i], cells[i], trim)
	})
	return thumbs
}

// Parallel 将 [start, end) 分批交给最多 workers 个 goroutine 执行，workers<=0 时使用CPU核心数。
func Parallel(start, end, workers int, fn func(i int)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if end-start <= 1 || workers == 1 {
		for i := start; i < end; i++ {
			fn(i)
		}
		return
	}
	batchSize := (end - start + workers - 1) / workers
	var wg sync.WaitGroup
	for from := start; from < end; from += batchSize {
		to := min(from+batchSize, end)
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			for j := from; j < to; j++ {
				fn(j)
			}
		}(from, to)
	}
	wg.Wait()
}

// saveImage 按扩展名选择格式编码并写入文件。
func saveImage(img image.Image, path string, quality int) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return wrapFault(CodeInvalidConfig, err, "output %s", path)
	}
	if err := checkOutputDir(path); err != nil {
		return wrapFault(CodeEncode, err, "output %s", path)
	}
	file, err := os.Create(path)
	if err != nil {
		return wrapFault(CodeEncode, err, "create %s", path)
	}
	var opts []imaging.EncodeOption
	if quality > 0 {
		opts = append(opts, imaging.JPEGQuality(quality))
	}
	if err := imaging.Encode(file, img, format, opts...); err != nil {
		file.Close()
		return wrapFault(CodeEncode, err, "encode %s", path)
	}
	if err := file.Close(); err != nil {
		return wrapFault(CodeEncode, err, "write %s", path)
	}
	return nil
}

func describeImages(paths []string) string {
	if len(paths) <= 3 {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s, %s ... %s", paths[0], paths[1], paths[len(paths)-1])
}
