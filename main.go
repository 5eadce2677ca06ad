package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ByLCY/bytefield/diagram"
	"github.com/ByLCY/bytefield/layout"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var (
	configPath string
	verbose    bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "bytefield",
	Short:         "Render byte field diagrams",
	Long:          `bytefield draws box tables showing how named fixed-length fields lay out in a binary record.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(verbose)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
	},
}

// setupLogging 在 --verbose 时安装开发模式 logger，否则保持 no-op。
func setupLogging(verbose bool) error {
	if !verbose {
		return nil
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	logger = l
	diagram.SetLogger(l)
	layout.SetLogger(l)
	return nil
}

func main() {
	rootCmd.Version = Version
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(inlineCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径（默认向上查找 bytefield.toml）")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
