package main

import (
	"context"
	"fmt"
	"os"

	"jansta/common/config"
	"jansta/common/log"
	"jansta/common/metrics"
	"jansta/gate/app"

	"github.com/spf13/cobra"
)

// 加载配置 -> 启动监控 -> 启动 HTTP 网关

var (
	configFile string
	logLevel   string
	replayFile string
)

var rootCmd = &cobra.Command{
	Use:   "jansta",
	Short: "jansta 麻将计分",
	Long:  `jansta 麻将计分：会话、半庄、局记录的计分服务`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 网关",
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.Load(configFile, func(next *config.Config) {
			log.SetLevel(next.Log.Level)
			log.Info("配置已更新, 默认规则: %+v", next.DefaultRules)
		}); err != nil {
			log.Fatal("文件配置发生错误：%v", err)
		}
		level := config.Conf.Log.Level
		if logLevel != "" {
			level = logLevel
		}
		if err := log.InitLog(config.Conf.AppName, level, config.Conf.Log.Path); err != nil {
			log.Fatal("日志初始化失败: %v", err)
		}
		log.Info("配置文件: %+v", *config.Conf)

		if config.Conf.MetricPort > 0 {
			go func() {
				log.Info("启动监控..., URL: http://localhost:%d/debug/statsviz/", config.Conf.MetricPort)
				if err := metrics.Serve(fmt.Sprintf("0.0.0.0:%d", config.Conf.MetricPort)); err != nil {
					log.Error("监控服务退出: %v", err)
				}
			}()
		}

		if err := app.Run(context.Background()); err != nil {
			log.Error("发生异常: %v", err)
			os.Exit(-1)
		}
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "离线重放导出的半庄文件",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.ReplayFile(replayFile, cmd.OutOrStdout())
	},
}

func init() {
	serveCmd.Flags().StringVar(&configFile, "resource", "resource/application.yml", "resource file")
	serveCmd.Flags().StringVar(&logLevel, "logLevel", "", "覆盖配置文件中的日志级别")
	replayCmd.Flags().StringVar(&replayFile, "file", "", "半庄 JSON 文件")
	_ = replayCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(serveCmd, replayCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen: %v", err)
		os.Exit(1)
	}
}
