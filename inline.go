package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/bytefield/config"
	"github.com/ByLCY/bytefield/diagram"
	"github.com/ByLCY/bytefield/layout"
	textrenderer "github.com/ByLCY/bytefield/renderer/text"
)

var inlineFlags struct {
	bytesPerLine int
	offset       int
}

var inlineCmd = &cobra.Command{
	Use:     "inline LABEL:LEN...",
	Short:   "Render fields given on the command line as text",
	Example: `  bytefield inline Version:1 Flags:1 Length:2 -w 8`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := config.Resolve(configPath, ".")
		if err != nil {
			return err
		}
		settings := cfg.Settings()
		if cmd.Flags().Changed("bytes-per-line") {
			settings.BytesPerLine = inlineFlags.bytesPerLine
		}
		if cmd.Flags().Changed("offset") {
			settings.Offset = inlineFlags.offset
		}

		d, err := parseInlineFields(args)
		if err != nil {
			return err
		}
		rec, err := layout.BuildDiagram("inline", d, settings)
		if err != nil {
			return err
		}
		return textrenderer.NewRenderer().Write(cmd.OutOrStdout(), &layout.Result{Records: []layout.Record{rec}})
	},
}

func init() {
	inlineCmd.Flags().IntVarP(&inlineFlags.bytesPerLine, "bytes-per-line", "w", layout.DefaultBytesPerLine, "每行最多字节数")
	inlineCmd.Flags().IntVar(&inlineFlags.offset, "offset", layout.DefaultOffset, "起始字节偏移")
}

// parseInlineFields 解析 LABEL:LEN 参数；标签本身可以包含冒号，以最后一个为准。
func parseInlineFields(args []string) (*diagram.Diagram, error) {
	d := diagram.New()
	for _, arg := range args {
		i := strings.LastIndexByte(arg, ':')
		if i < 0 {
			return nil, fmt.Errorf("参数 %q 缺少 :LEN", arg)
		}
		n, err := strconv.Atoi(arg[i+1:])
		if err != nil {
			return nil, fmt.Errorf("参数 %q 的长度无效: %w", arg, err)
		}
		if err := d.AddField(arg[:i], n).Err(); err != nil {
			return nil, err
		}
	}
	return d, nil
}
