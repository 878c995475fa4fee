package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"photogrid/collage"
	"photogrid/grid"
)

// Config 是一次运行的全部配置。构造完成后按值传递，不再修改。
type Config struct {
	ContactSheet SheetConfig `toml:"contactsheet" yaml:"contactsheet"`
	Corkboard    BoardConfig `toml:"corkboard" yaml:"corkboard"`
}

// SheetConfig 是联系表的配置。
type SheetConfig struct {
	Ratio     string `toml:"ratio" yaml:"ratio"`         // 宽高比 (square, classic, digital, free, H:W)
	Thumb     int    `toml:"thumb" yaml:"thumb"`         // 缩略图宽度
	Output    string `toml:"output" yaml:"output"`       // 输出文件
	Sort      string `toml:"sort" yaml:"sort"`           // 排序方式 (name, time)
	Recursive bool   `toml:"recursive" yaml:"recursive"` // 是否递归扫描子目录
	Trim      bool   `toml:"trim" yaml:"trim"`           // 是否修剪透明边缘
	Captions  bool   `toml:"captions" yaml:"captions"`   // 是否在缩略图下方标注文件名
	Strict    bool   `toml:"strict" yaml:"strict"`       // 遇到无法读取的图片时是否中止
	Manifest  string `toml:"manifest" yaml:"manifest"`   // JSON元数据输出路径，空表示不输出
	Workers   int    `toml:"workers" yaml:"workers"`     // 解码并发数，0 表示CPU核心数
}

// BoardConfig 是软木板拼贴的配置。
type BoardConfig struct {
	Output      string           `toml:"output" yaml:"output"`
	Thumb       int              `toml:"thumb" yaml:"thumb"` // 照片先缩放到的最大边长，0 表示保持原尺寸
	Background  string           `toml:"background" yaml:"background"`
	Seed        int64            `toml:"seed" yaml:"seed"` // 0 表示随机
	Quality     int              `toml:"quality" yaml:"quality"`
	MaxRotation int              `toml:"max_rotation" yaml:"max_rotation"`
	Spacing     float64          `toml:"spacing" yaml:"spacing"`
	Shadow      float64          `toml:"shadow" yaml:"shadow"`
	Offset      float64          `toml:"offset" yaml:"offset"`
	Border      float64          `toml:"border" yaml:"border"`
	Layouts     map[string][]int `toml:"layouts" yaml:"layouts"` // 照片数量 -> [列, 行]
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	opts := collage.DefaultOptions()
	return Config{
		ContactSheet: SheetConfig{
			Ratio:     "digital",
			Thumb:     200,
			Output:    "contactsheet.png",
			Sort:      sortByName,
			Recursive: true,
		},
		Corkboard: BoardConfig{
			Output:      "corkboard.jpg",
			Quality:     90,
			MaxRotation: opts.MaxRotation,
			Spacing:     opts.Spacing,
			Shadow:      opts.Shadow,
			Offset:      opts.Offset,
			Border:      opts.Border,
		},
	}
}

// Validate 检查联系表配置。
func (c SheetConfig) Validate() error {
	if _, err := grid.ParseRatio(c.Ratio); err != nil {
		return wrapFault(CodeInvalidConfig, err, "invalid --ratio")
	}
	if c.Thumb <= 0 {
		return newFault(CodeInvalidConfig, "thumbnail size must be greater than 0 (given %d)", c.Thumb)
	}
	if c.Sort != sortByName && c.Sort != sortByTime {
		return newFault(CodeInvalidConfig, "unknown sort order %q (want %s or %s)", c.Sort, sortByName, sortByTime)
	}
	if c.Workers < 0 {
		return newFault(CodeInvalidConfig, "workers must not be negative (given %d)", c.Workers)
	}
	if c.Output == "" {
		return newFault(CodeInvalidConfig, "output file must not be empty")
	}
	return nil
}

// Layout 根据图片数量计算联系表的几何布局。
// 格间距为缩略图宽度的 1/8，四周留白为格间距的一半；开启标注时为文字预留一行。
func (c SheetConfig) Layout(n int) (grid.Sheet, grid.Solution, error) {
	ratio, err := grid.ParseRatio(c.Ratio)
	if err != nil {
		return grid.Sheet{}, grid.Solution{}, wrapFault(CodeInvalidConfig, err, "invalid --ratio")
	}
	sol, err := grid.Solve(n, ratio)
	if errors.Is(err, grid.ErrGridOverflow) {
		return grid.Sheet{}, grid.Solution{}, wrapFault(CodeInvalidConfig, err, "ratio %s cannot hold %d images", ratio, n)
	}
	if err != nil {
		return grid.Sheet{}, grid.Solution{}, wrapFault(CodeInternal, err, "grid solver failed for %d images", n)
	}
	padding := c.Thumb / 8
	margin := padding / 2
	sheet := grid.Sheet{
		Shape:   sol.Shape,
		Cell:    grid.NewSize(c.Thumb, c.Thumb),
		Margins: grid.UniformMargins(margin),
		Padding: padding,
	}
	if c.Captions {
		band := captionBand()
		sheet.Padding = max(sheet.Padding, band)
		sheet.Margins.Bottom = max(sheet.Margins.Bottom, band)
	}
	if err := sheet.Validate(); err != nil {
		return grid.Sheet{}, grid.Solution{}, wrapFault(CodeInvalidConfig, err, "invalid sheet geometry")
	}
	return sheet, sol, nil
}

// Options 转换为拼贴布局参数。
func (c BoardConfig) Options() collage.Options {
	return collage.Options{
		Spacing:     c.Spacing,
		Shadow:      c.Shadow,
		Offset:      c.Offset,
		MaxRotation: c.MaxRotation,
		Border:      c.Border,
	}
}

// Table 返回合并了配置覆盖项的布局表。
func (c BoardConfig) Table() (collage.Table, error) {
	if len(c.Layouts) == 0 {
		return collage.DefaultTable, nil
	}
	override, err := collage.ParseTable(c.Layouts)
	if err != nil {
		return nil, wrapFault(CodeInvalidConfig, err, "invalid corkboard layouts")
	}
	return collage.DefaultTable.Merge(override), nil
}

// Validate 检查软木板配置。
func (c BoardConfig) Validate() error {
	if err := c.Options().Validate(); err != nil {
		return wrapFault(CodeInvalidConfig, err, "invalid corkboard options")
	}
	if _, err := c.Table(); err != nil {
		return err
	}
	if c.Thumb < 0 {
		return newFault(CodeInvalidConfig, "thumbnail size must not be negative (given %d)", c.Thumb)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return newFault(CodeInvalidConfig, "jpeg quality must be within [1, 100] (given %d)", c.Quality)
	}
	if c.Output == "" {
		return newFault(CodeInvalidConfig, "output file must not be empty")
	}
	return nil
}

// decodeConfigFile 按扩展名解析 TOML 或 YAML 配置文件到 dst，未知字段视为错误。
func decodeConfigFile(path string, dst *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.DecodeFile(path, dst)
		if err != nil {
			return wrapFault(CodeInvalidConfig, err, "read config %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return newFault(CodeInvalidConfig, "config %s: unknown keys %v", path, undecoded)
		}
		return nil
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return wrapFault(CodeInvalidConfig, err, "read config %s", path)
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(dst); err != nil {
			return wrapFault(CodeInvalidConfig, err, "read config %s", path)
		}
		return nil
	default:
		return newFault(CodeInvalidConfig, "config %s: unsupported format (want .toml, .yaml or .yml)", path)
	}
}

// applyConfigFile 读取配置文件，命令行中显式给出的参数优先于文件中的值。
// 命令行参数直接绑定在 dst 的字段上，因此先记下它们，读完文件后再写回。
func applyConfigFile(cmd *cobra.Command, path string, dst *Config) error {
	if path == "" {
		return nil
	}
	changed := map[string]string{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})
	if err := decodeConfigFile(path, dst); err != nil {
		return err
	}
	for name, value := range changed {
		if err := cmd.Flags().Set(name, value); err != nil {
			return wrapFault(CodeInvalidConfig, err, "flag --%s", name)
		}
	}
	return nil
}

// describe 以便于日志输出的形式列出配置。
func (c SheetConfig) describe() []any {
	return []any{"ratio", c.Ratio, "thumb", c.Thumb, "sort", c.Sort, "captions", c.Captions, "strict", c.Strict}
}

func checkOutputDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return nil
}
