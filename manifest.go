package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"photogrid/grid"
)

const VERSION = "0.2.0"

// Region 是画布上的一块像素区域。
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func regionOf(r grid.Rect) Region {
	return Region{X: r.X, Y: r.Y, W: r.Width, H: r.Height}
}

// Rect 转回网格矩形。
func (r Region) Rect() grid.Rect {
	return grid.NewRect(r.X, r.Y, r.W, r.H)
}

// Entry 记录一张图片在联系表中的位置。
type Entry struct {
	Filename string `json:"filename"`
	Index    int    `json:"index"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Cell     Region `json:"cell"`
	Placed   Region `json:"placed"`
	Skipped  bool   `json:"skipped,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Manifest 是联系表的JSON元数据。
type Manifest struct {
	Meta struct {
		Version   string `json:"version"`
		Timestamp string `json:"timestamp"`
	} `json:"meta"`
	Sheet     string       `json:"sheet"`
	TotalSize grid.Size    `json:"totalSize"`
	Grid      grid.Shape   `json:"grid"`
	Ratio     string       `json:"ratio"`
	Optimized bool         `json:"optimized"`
	Cell      grid.Size    `json:"cell"`
	Padding   int          `json:"padding"`
	Margins   grid.Margins `json:"margins"`
	Entries   []Entry      `json:"entries"`
}

// newManifest 根据布局和放置结果生成元数据，sheetPath 记录为相对清单文件的路径。
func newManifest(sheet grid.Sheet, sol grid.Solution, sheetPath, manifestPath string, entries []Entry) Manifest {
	m := Manifest{
		Sheet:     relativeTo(filepath.Dir(manifestPath), sheetPath),
		TotalSize: sheet.Size(),
		Grid:      sheet.Shape,
		Ratio:     sol.Ratio.String(),
		Optimized: sol.Optimized,
		Cell:      sheet.Cell,
		Padding:   sheet.Padding,
		Margins:   sheet.Margins,
		Entries:   entries,
	}
	m.Meta.Version = VERSION
	m.Meta.Timestamp = time.Now().Format("2006-01-02 15:04:05")
	return m
}

func relativeTo(base, path string) string {
	absBase, err1 := filepath.Abs(base)
	absPath, err2 := filepath.Abs(path)
	if err1 != nil || err2 != nil {
		return path
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return path
	}
	return rel
}

// writeManifest 将元数据写入JSON文件。
func writeManifest(m Manifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return wrapFault(CodeEncode, err, "encode manifest")
	}
	if err := checkOutputDir(path); err != nil {
		return wrapFault(CodeEncode, err, "manifest %s", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return wrapFault(CodeEncode, err, "write manifest %s", path)
	}
	return nil
}

// readManifest 读取JSON元数据。
func readManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, wrapFault(CodeFileNotFound, err, "read manifest %s", path)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, wrapFault(CodeDecode, err, "parse manifest %s", path)
	}
	return m, nil
}
