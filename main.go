package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/leadmap/leadmap/config"
	"github.com/leadmap/leadmap/database"
	"github.com/leadmap/leadmap/logger"
	"github.com/leadmap/leadmap/web"
	"github.com/leadmap/leadmap/web/service"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// loadConfig reads .env and the optional TOML file, then sets up logging.
func loadConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := config.LoadFile(config.GetConfigFile()); err != nil {
		return err
	}
	level, err := logger.ParseLevel(config.GetLogLevel())
	if err != nil {
		return err
	}
	logger.InitLogger(level)
	return nil
}

func openDB() error {
	return database.Open(config.GetDatabaseConfig())
}

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	if err := loadConfig(); err != nil {
		log.Fatal(err)
	}
	if err := openDB(); err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close database err:", err)
		}
		logger.CloseLogger()
	}()

	server := web.NewServer()
	if err := server.Start(); err != nil {
		logger.Error("start server err:", err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("received SIGHUP, restarting web server")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			if err := config.LoadFile(config.GetConfigFile()); err != nil {
				logger.Warning("reload config err:", err)
			}
			server = web.NewServer()
			if err := server.Start(); err != nil {
				logger.Error("restart server err:", err)
				return
			}
		default:
			logger.Info("received", sig, "shutting down")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func migrateDb() {
	if err := loadConfig(); err != nil {
		fmt.Println(err)
		return
	}
	if err := openDB(); err != nil {
		fmt.Println("migrate failed:", err)
		return
	}
	defer database.CloseDB()

	ids, err := database.AppliedMigrations()
	if err != nil {
		fmt.Println("read migrations failed:", err)
		return
	}
	fmt.Println("database is up to date, applied migrations:")
	for _, id := range ids {
		fmt.Println(" ", id)
	}
}

func listUsers() {
	if err := loadConfig(); err != nil {
		fmt.Println(err)
		return
	}
	if err := openDB(); err != nil {
		fmt.Println(err)
		return
	}
	defer database.CloseDB()

	userService := service.UserService{}
	users, err := userService.ListUsers(context.Background())
	if err != nil {
		fmt.Println("list users failed:", err)
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tCREATED")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\n", u.Id, u.Username, u.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	w.Flush()
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   config.GetName(),
		Short: "Shared lead map with daily lead counts and area reservations",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Run: func(cmd *cobra.Command, args []string) {
			migrateDb()
		},
	}

	var usersCmd = &cobra.Command{
		Use:   "users",
		Short: "List registered accounts",
		Run: func(cmd *cobra.Command, args []string) {
			listUsers()
		},
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.GetVersion())
		},
	}

	rootCmd.AddCommand(runCmd, migrateCmd, usersCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
