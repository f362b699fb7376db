// @title Carevo 后端 API
// @version 1.0
// @description Carevo 职业规划平台的后端服务。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"carevo_backend/internal/app"
	"carevo_backend/internal/config"
	"carevo_backend/pkg/logger"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	configDir    string
	forceMigrate bool
)

var rootCmd = &cobra.Command{
	Use:   "carevo",
	Short: "Carevo career guidance backend",
	// 不带子命令时等同于 serve
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the database schema, seed careers and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg.ForceMigrate = true
		cfg.MigrateOnly = true

		if _, err := app.NewApp(cfg, configDir); err != nil {
			return err
		}
		defer logger.Log.Sync()

		log.Println("数据库迁移完成，退出程序")
		return nil
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ForceMigrate = forceMigrate

	application, err := app.NewApp(cfg, configDir)
	if err != nil {
		return err
	}
	defer logger.Log.Sync()

	return application.Run()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "directory containing config.yaml")
	rootCmd.Flags().BoolVar(&forceMigrate, "migrate", false, "force schema migration on start (even in release mode)")
	serveCmd.Flags().BoolVar(&forceMigrate, "migrate", false, "force schema migration on start (even in release mode)")

	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
