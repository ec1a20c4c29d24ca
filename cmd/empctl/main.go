// empctl 员工目录运维命令行：执行迁移、创建管理员、导出员工表
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yog-Raj-sharma/employee-details/config"
	"github.com/yog-Raj-sharma/employee-details/internal/bootstrap"
	"github.com/yog-Raj-sharma/employee-details/internal/service"
	"github.com/yog-Raj-sharma/employee-details/pkg/database"
	"github.com/yog-Raj-sharma/employee-details/pkg/jwt"
	applogger "github.com/yog-Raj-sharma/employee-details/pkg/logger"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "empctl",
		Short:        "员工目录运维工具",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("读取 .env 失败: %w", err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("EMPDIR_CONFIG"), "配置文件路径")

	root.AddCommand(newMigrateCmd(), newAdminCmd(), newExportCmd())
	return root
}

// env 命令执行所需的配置、日志与存储
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *bootstrap.Store
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	store, err := bootstrap.OpenStore(connectCtx, cfg, applogger.IsDebug(&cfg.Log), logger)
	if err != nil {
		logger.Sync()
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, store: store}, nil
}

func (e *env) close() {
	e.store.Close()
	e.logger.Sync()
}

// ── migrate ──

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移（MongoDB 下创建唯一索引）",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema 已就绪\n", e.cfg.Database.Driver)
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "回滚 PostgreSQL 迁移",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSQL(func(db *sql.DB, logger *zap.Logger) error {
				return database.RollbackMigrations(db, steps, logger)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "回滚的版本数")

	version := &cobra.Command{
		Use:   "version",
		Short: "查看当前 PostgreSQL schema 版本",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSQL(func(db *sql.DB, _ *zap.Logger) error {
				v, dirty, err := database.MigrationVersion(db)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", v, dirty)
				return nil
			})
		},
	}

	migrateCmd.AddCommand(down, version)
	return migrateCmd
}

// withSQL 打开不执行迁移的 PostgreSQL 连接并运行 fn
func withSQL(fn func(db *sql.DB, logger *zap.Logger) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer logger.Sync()

	db, err := bootstrap.OpenSQL(cfg, applogger.IsDebug(&cfg.Log), logger)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db, logger)
}

// ── admin ──

func newAdminCmd() *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "管理员账号",
	}

	var email, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "创建管理员",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("EMPDIR_ADMIN_PASSWORD")
			}
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			svc := service.NewAdminService(e.store.Repo, jwt.NewManager(&e.cfg.Auth), e.logger)
			a, err := svc.CreateAdmin(cmd.Context(), email, password)
			switch {
			case errors.Is(err, service.ErrAdminExists):
				return fmt.Errorf("管理员 %s 已存在", email)
			case errors.Is(err, service.ErrInvalidAdmin):
				return fmt.Errorf("邮箱格式不正确或密码长度不在 8-72 之间")
			case err != nil:
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "管理员已创建: %s (%s)\n", a.Email, a.AdminID)
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "管理员邮箱")
	create.Flags().StringVar(&password, "password", "", "登录密码（也可通过 EMPDIR_ADMIN_PASSWORD 提供）")
	create.MarkFlagRequired("email")

	admin.AddCommand(create)
	return admin
}

// ── export ──

func newExportCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出全部员工为 xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()

			buf, filename, err := service.NewExportService(e.store.Repo, e.logger).ExportEmployees(cmd.Context())
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, filename)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("写入文件失败: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "输出目录")
	return cmd
}
