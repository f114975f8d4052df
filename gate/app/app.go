package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jansta/common/config"
	"jansta/common/http"
	"jansta/common/log"
	"jansta/core/container"
	"jansta/gate/api"
)

// Run 启动 HTTP 网关，收到退出信号或 ctx 取消后优雅关闭
func Run(ctx context.Context) error {
	gc := container.NewGateContainer(config.Conf)
	if gc == nil {
		return fmt.Errorf("gate 容器初始化失败")
	}
	defer func() {
		if err := gc.Close(); err != nil {
			log.Error("容器关闭失败: %v", err)
		}
	}()

	mode := "release"
	if config.Conf.Log.Level == "debug" {
		mode = "debug"
	}
	server := http.NewHttpServer(
		http.WithPort(config.Conf.HttpPort),
		http.WithMode(mode),
		http.WithCorsOrigins(config.Conf.CorsOrigins...),
	)
	api.RegisterRoutes(server, api.NewHandler(gc.SessionService))

	errCh := make(chan error, 1)
	go func() {
		log.Info("启动 HTTP 服务器，端口: %d, 存储: %s", server.GetPort(), config.Conf.Node.Storage)
		errCh <- server.Start()
	}()

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP 服务器关闭失败: %v", err)
		} else {
			log.Info("HTTP 服务器已优雅关闭")
		}
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	defer signal.Stop(c)
	for {
		select {
		case <-ctx.Done():
			stop()
			return nil
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("HTTP 服务器启动失败: %w", err)
			}
			return nil
		case s := <-c:
			switch s {
			case syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT:
				stop()
				log.Info("中断信号，服务停止")
				return nil
			case syscall.SIGHUP:
				stop()
				log.Info("挂起信号，服务停止")
				return nil
			default:
				return nil
			}
		}
	}
}
