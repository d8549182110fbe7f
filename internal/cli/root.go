// Package cli 命令行入口：serve 启动服务，migrate 迁移表结构，patrol 执行一次巡检。
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	envFlag    string
	configFlag string
)

var rootCmd = &cobra.Command{
	Use:   "hostpatrol",
	Short: "服务器巡检服务",
	Long: `通过 SSH 巡检服务器资源与进程，按阈值评估后生成报告并推送 webhook 通知。

不带子命令时等同于 hostpatrol serve。`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCommand()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "dev", "环境配置 (dev, prod, test等)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "配置文件路径，默认为 ./resources/{env}.yaml")
}

// Execute 执行根命令
func Execute() error {
	return rootCmd.Execute()
}

// configPath 未指定 --config 时使用工作目录下的 resources/{env}.yaml
func configPath(env, configFile string) (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("获取当前文件位置失败: %w", err)
	}
	return filepath.Join(wd, "resources", env+".yaml"), nil
}
