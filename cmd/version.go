package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/nsxzhou1114/blog-article-api/internal/config"
	"github.com/spf13/cobra"
)

var (
	// 这些变量在编译时通过 -ldflags 设置
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// versionCmd 版本信息命令
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Long:  `显示构建信息，以及配置中的API版本与存储驱动`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configPath)
		if err != nil {
			cfg = nil
		}
		showVersion(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// showVersion 输出构建信息，配置可用时附带服务信息
func showVersion(w io.Writer, cfg *config.Config) {
	name := "blog-api"
	if cfg != nil && cfg.App.Name != "" {
		name = cfg.App.Name
	}
	fmt.Fprintf(w, "%s %s (%s)\n", name, Version, GitCommit)
	fmt.Fprintf(w, "  构建时间: %s\n", BuildTime)
	fmt.Fprintf(w, "  运行时: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if cfg == nil {
		fmt.Fprintln(w, "  配置: 未加载")
		return
	}
	fmt.Fprintf(w, "  API版本: %s\n", cfg.App.Version)
	fmt.Fprintf(w, "  存储驱动: %s\n", cfg.Storage.Driver)
	fmt.Fprintf(w, "  文章接口: /api/articles\n")
}
