package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/bytefield/config"
	"github.com/ByLCY/bytefield/dsl"
	"github.com/ByLCY/bytefield/layout"
	"github.com/ByLCY/bytefield/renderer"
	canvasrenderer "github.com/ByLCY/bytefield/renderer/canvas"
	textrenderer "github.com/ByLCY/bytefield/renderer/text"
)

var renderFlags struct {
	input        string
	output       string
	format       string
	debug        string
	data         string
	bytesPerLine int
	offset       int
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a .bytefield description",
	Long:  `Parse a .bytefield description file and write its diagrams as text, PDF or SVG.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, used, err := config.Resolve(configPath, filepath.Dir(renderFlags.input))
		if err != nil {
			return err
		}
		if used != "" {
			logger.Debug("loaded config", zap.String("path", used))
		}

		format := cfg.Render.Format
		if cmd.Flags().Changed("format") {
			format = renderFlags.format
		}
		if err := config.ValidateFormat(format); err != nil {
			return err
		}

		opts := layout.BuildOptions{Defaults: cfg.Settings()}
		if cmd.Flags().Changed("bytes-per-line") {
			opts.Overrides.BytesPerLine = &renderFlags.bytesPerLine
		}
		if cmd.Flags().Changed("offset") {
			opts.Overrides.Offset = &renderFlags.offset
		}

		var data any
		if renderFlags.data != "" {
			if err := json.Unmarshal([]byte(renderFlags.data), &data); err != nil {
				return fmt.Errorf("解析 data JSON 失败: %w", err)
			}
		}

		r := newRenderer(format, cfg)
		if err := run(renderFlags.input, renderFlags.output, renderFlags.debug, data, opts, r, cmd.OutOrStdout()); err != nil {
			return err
		}
		if renderFlags.output != "" {
			color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "已生成 %s\n", renderFlags.output)
		}
		return nil
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.input, "in", "i", "", "描述文件路径")
	f.StringVarP(&renderFlags.output, "out", "o", "", "输出路径（text 格式可省略，输出到标准输出）")
	f.StringVarP(&renderFlags.format, "format", "f", config.FormatText, "输出格式：text | pdf | svg")
	f.StringVar(&renderFlags.debug, "debug", "", "布局调试 JSON 输出路径")
	f.StringVar(&renderFlags.data, "data", "", "绑定到标签 ${...} 的 JSON 数据")
	f.IntVarP(&renderFlags.bytesPerLine, "bytes-per-line", "w", layout.DefaultBytesPerLine, "每行最多字节数（覆盖配置与描述文件）")
	f.IntVar(&renderFlags.offset, "offset", layout.DefaultOffset, "起始字节偏移（覆盖配置与描述文件）")
	_ = renderCmd.MarkFlagRequired("in")
}

// newRenderer 根据输出格式选择渲染器。
func newRenderer(format string, cfg config.Config) renderer.Renderer {
	if format == config.FormatText {
		return textrenderer.NewRenderer()
	}
	return canvasrenderer.NewRenderer(canvasrenderer.Options{
		Format:      format,
		CellWidth:   cfg.Canvas.CellWidth,
		CellHeight:  cfg.Canvas.CellHeight,
		FontSize:    cfg.Canvas.FontSize,
		StrokeWidth: cfg.Canvas.StrokeWidth,
		Margin:      cfg.Canvas.Margin,
		Font:        canvasrenderer.Resource{Path: cfg.Canvas.Font},
	})
}

// run 串联解析、布局与渲染；outputPath 为空时写到 stdout（仅限文本）。
func run(inputPath, outputPath, debugPath string, data any, opts layout.BuildOptions, r renderer.Renderer, stdout io.Writer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开描述文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.ParseFile(inputPath, file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	result, err := layout.Build(doc, data, opts)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return err
		}
	}

	out, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	return writeOutput(out, outputPath, r, stdout)
}

func writeOutput(out []byte, outputPath string, r renderer.Renderer, stdout io.Writer) error {
	if outputPath == "" {
		if _, ok := r.(*textrenderer.Renderer); !ok {
			return fmt.Errorf("二进制格式需要通过 --out 指定输出文件")
		}
		_, err := stdout.Write(out)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
