package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"photogrid/collage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stderr).ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd 构建命令树。日志写入 logOut。
func newRootCmd(logOut io.Writer) *cobra.Command {
	var (
		verbose    bool
		configPath string
	)
	cfg := DefaultConfig()

	root := &cobra.Command{
		Use:           "photogrid",
		Short:         "将照片合成为联系表或软木板拼贴",
		Version:       VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(logOut, level)))
			return applyConfigFile(cmd, configPath, &cfg)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件 (.toml, .yaml)")

	root.AddCommand(newContactSheetCmd(&cfg))
	root.AddCommand(newCorkboardCmd(&cfg))
	root.AddCommand(newUnpackCmd())
	return root
}

func newContactSheetCmd(cfg *Config) *cobra.Command {
	sc := &cfg.ContactSheet
	cmd := &cobra.Command{
		Use:   "contactsheet [目录]",
		Short: "为目录中的所有图片生成联系表",
		Long: `为目录中的所有图片生成联系表。

宽高比 (h:w) 可以是 square (1:1)、classic (2:3)、digital (3:4)、
自定义的 H:W，或者 free：自动寻找没有空格的网格。`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runContactSheet(cmd.Context(), *sc, dir)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&sc.Ratio, "ratio", "r", sc.Ratio, "联系表宽高比 (square, classic, digital, free, H:W)")
	f.IntVarP(&sc.Thumb, "thumb", "s", sc.Thumb, "缩略图宽度（像素）")
	f.StringVarP(&sc.Output, "output", "o", sc.Output, "输出文件")
	f.StringVar(&sc.Sort, "sort", sc.Sort, "排序方式 (name, time)")
	f.BoolVar(&sc.Recursive, "recursive", sc.Recursive, "递归扫描子目录")
	f.BoolVar(&sc.Trim, "trim", sc.Trim, "修剪透明边缘")
	f.BoolVar(&sc.Captions, "captions", sc.Captions, "在缩略图下方标注文件名")
	f.BoolVar(&sc.Strict, "strict", sc.Strict, "遇到无法读取的图片时中止")
	f.StringVar(&sc.Manifest, "manifest", sc.Manifest, "JSON元数据输出路径")
	f.IntVar(&sc.Workers, "workers", sc.Workers, "解码并发数 (0 表示CPU核心数)")
	return cmd
}

func newCorkboardCmd(cfg *Config) *cobra.Command {
	bc := &cfg.Corkboard
	lo, hi := collage.DefaultTable.Bounds()
	cmd := &cobra.Command{
		Use:   "corkboard 图片1 图片2 图片3 ...",
		Short: "把照片随机钉在软木板上",
		Long: fmt.Sprintf(`把照片随机钉在软木板上。

默认支持 %d 到 %d 张照片，可在配置文件的 [corkboard.layouts] 中扩展。
没有扩展名的参数按 .jpg 处理。`, lo, hi),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCorkboard(cmd.Context(), *bc, args)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&bc.Output, "output", "o", bc.Output, "输出文件")
	f.IntVarP(&bc.Thumb, "thumb", "s", bc.Thumb, "照片最大边长 (0 表示保持原尺寸)")
	f.StringVar(&bc.Background, "background", bc.Background, "可平铺的背景纹理图片")
	f.Int64Var(&bc.Seed, "seed", bc.Seed, "随机种子 (0 表示随机)")
	f.IntVar(&bc.Quality, "quality", bc.Quality, "JPEG质量")
	f.IntVar(&bc.MaxRotation, "max-rotation", bc.MaxRotation, "最大旋转角度")
	return cmd
}

func newUnpackCmd() *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "unpack 元数据.json",
		Short: "根据元数据把联系表拆回单张缩略图",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := unpack(cmd.Context(), args[0], outputDir)
			return err
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "unpacked", "输出目录")
	return cmd
}
