package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/donghwunline/wellkorea-erp-sub008/internal/api"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/config"
	"github.com/donghwunline/wellkorea-erp-sub008/internal/container"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long: `Start the WellKorea ERP API server.
The server listens on the configured host and port and provides
REST API interfaces for approval workflow and document management.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. 加载配置
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// 2. 初始化容器
		ctr, err := container.NewContainer(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()

		// 3. 初始化链路追踪（可选）
		if cfg.Tracing.Enabled {
			if err := api.InitTracing("wellkorea-erp", cfg.Tracing.JaegerEndpoint); err != nil {
				return fmt.Errorf("failed to initialize tracing: %w", err)
			}
		}

		// 4. 启动后台组件
		go ctr.Hub().Run()
		ctr.MetricsCollector().Start()

		// 配置热加载: 仅日志级别支持运行时调整
		if configPath != "" {
			watcher := config.NewWatcher(cfg, configPath, ctr.Logger())
			watcher.OnChange(func(next *config.Config) {
				if level, err := logrus.ParseLevel(next.Log.Level); err == nil {
					ctr.Logger().SetLevel(level)
				}
			})
			if err := watcher.Start(); err != nil {
				ctr.Logger().WithError(err).Warn("config watcher disabled")
			} else {
				defer watcher.Stop()
			}
		}

		// 5. 设置路由
		router := api.SetupRoutes(ctr.Controllers(), ctr.Hub(), ctr.TokenValidator(), ctr.DB(), &api.RouterOptions{
			CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
			RateLimitRPS:       cfg.RateLimit.RPS,
			RateLimitBurst:     cfg.RateLimit.Burst,
			EnableTracing:      cfg.Tracing.Enabled,
		})

		// 自定义 NoRoute 处理器,返回 JSON 格式的 404
		// 必须在所有业务路由注册之后设置,确保未匹配的路由返回 JSON 而不是 HTML
		router.NoRoute(func(c *gin.Context) {
			api.Error(c, http.StatusNotFound, "route not found", "the requested route does not exist")
		})

		// 6. 启动服务器
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:    addr,
			Handler: router,
		}

		// 启动服务器（在 goroutine 中）
		go func() {
			log.Printf("Server starting on %s", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()

		// 等待中断信号
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down server...")

		// 优雅关闭
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}

		if cfg.Tracing.Enabled {
			if err := api.ShutdownTracing(ctx); err != nil {
				log.Printf("Failed to shutdown tracing: %v", err)
			}
		}

		log.Println("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// 服务器配置标志
	serverCmd.Flags().String("config", "", "Config file path (default: config.yaml)")
	serverCmd.Flags().String("host", "0.0.0.0", "Server host")
	serverCmd.Flags().Int("port", 8080, "Server port")
}

// LoadConfig 加载配置
func LoadConfig(configPath string) (*config.Config, error) {
	return config.Load(configPath)
}
