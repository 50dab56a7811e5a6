package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blues/arbigrants/internal/config"
	"github.com/blues/arbigrants/internal/database"
	"github.com/blues/arbigrants/internal/llama"
	"github.com/blues/arbigrants/internal/logger"
	"github.com/blues/arbigrants/internal/logic"
	"github.com/blues/arbigrants/internal/router"
	"github.com/blues/arbigrants/internal/scheduler"
	"github.com/blues/arbigrants/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "arbigrants-server",
		Short:         "Arbigrants project submission service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default: ./config.yaml)")

	root.AddCommand(serveCmd(), migrateCmd(), sweepCmd())

	if err := root.Execute(); err != nil {
		logger.Fatal("%v", err)
	}
}

// loadConfig 加载配置并初始化日志
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the submission HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			// 初始化数据库
			db, err := database.Init(cfg.Database, true)
			if err != nil {
				return err
			}

			// 初始化对象存储
			store, err := storage.New(cfg.Storage)
			if err != nil {
				return err
			}

			submissionLogic := logic.NewSubmissionLogic(db, store, llama.NewClient(cfg.Llama.BaseURL, cfg.Llama.Timeout))

			// 设置Gin模式
			if cfg.Server.Mode == gin.ReleaseMode {
				gin.SetMode(gin.ReleaseMode)
			}

			// 启动定时任务
			tasks, err := scheduler.Start(store, cfg)
			if err != nil {
				return err
			}
			defer tasks.Stop()

			srv := &http.Server{
				Addr:    ":" + cfg.Server.Port,
				Handler: router.Setup(submissionLogic, cfg),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Server starting on port %s", cfg.Server.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the warehouse tables",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if _, err := database.Init(cfg.Database, true); err != nil {
				return err
			}
			logger.Info("Database migrated")
			return nil
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete staged logo uploads older than storage.staging_ttl",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, err := storage.New(cfg.Storage)
			if err != nil {
				return err
			}

			deleted, err := scheduler.NewStagedUploadJob(store, cfg).Sweep(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("Deleted %d staged uploads", deleted)
			return nil
		},
	}
}
