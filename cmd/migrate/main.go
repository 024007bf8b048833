package main

import (
	"fmt"
	"os"
	"time"

	"github.com/damoang/angple-notes/internal/config"
	"github.com/damoang/angple-notes/internal/domain"
	"github.com/damoang/angple-notes/internal/migration"
	pkglogger "github.com/damoang/angple-notes/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Schema bootstrap for the notes database",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		pkglogger.InitStructured("development", "angple-notes-migrate")
		if verbose {
			pkglogger.SetLevel("debug")
		}
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Create the users and notes tables and their indexes if absent",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		start := time.Now()
		if err := migration.Run(db); err != nil {
			return err
		}
		pkglogger.Info("Schema ready in %s", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report which tables and indexes exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		m := db.Migrator()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "users table:         %v\n", m.HasTable(&domain.User{}))
		fmt.Fprintf(out, "notes table:         %v\n", m.HasTable(&domain.Note{}))
		fmt.Fprintf(out, "idx_user_archived:   %v\n", m.HasIndex(&domain.Note{}, "idx_user_archived"))
		fmt.Fprintf(out, "%-20s %v\n", migration.FulltextIndexName+":", m.HasIndex(&domain.Note{}, migration.FulltextIndexName))
		return nil
	},
}

func openDB() (*gorm.DB, error) {
	config.LoadDotEnv(".")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logLevel := gormlogger.Warn
	if verbose {
		logLevel = gormlogger.Info
	}
	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s:%d/%s: %w", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, err)
	}
	return db, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.local.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose SQL logging")
	rootCmd.AddCommand(upCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
