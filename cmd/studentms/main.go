package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"studentms/internal/client"
	"studentms/internal/config"
	"studentms/internal/log_service"
	"studentms/internal/render"
	"studentms/internal/server"
	"studentms/internal/session"
	"studentms/internal/store"
	"studentms/internal/store/sqlite"
)

func main() {
	var configPath string
	var serverOnly bool
	flag.StringVar(&configPath, "config", "studentms.yaml", "Config file path")
	flag.BoolVar(&serverOnly, "server", false, "Run only the server, no console")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	st, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	if err := seedAdmin(context.Background(), st); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	// Headless runs log structured to stderr; with the console attached
	// the server logs to a file so the prompt stays readable.
	var ls log_service.LogService
	if serverOnly {
		ls = log_service.NewZapLogService("server", cfg.Log.Level)
	} else {
		fileLS, err := log_service.NewLocalDiscLogService(cfg.Log.Dir, "server")
		if err != nil {
			log.Fatalf("Failed to create log service: %v", err)
		}
		ls = fileLS
	}

	srv := server.New(cfg.Addr(), st, ls)
	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Printf("Server listening on %s", srv.Addr())

	if serverOnly {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
	} else {
		runConsole(srv.Addr())
	}

	log.Println("Shutting down...")
	if err := srv.Stop(); err != nil {
		log.Printf("Error stopping server: %v", err)
	}
}

// seedAdmin creates the default admin account on an empty database so
// a fresh install is usable. Password hashing matches the server's
// login check.
func seedAdmin(ctx context.Context, st store.Store) error {
	users, err := st.AllUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}
	log.Println("Empty database, creating default admin account (admin/admin123)")
	return st.CreateUser(ctx, &store.User{
		Username:     "admin",
		PasswordHash: server.HashPassword("admin123"),
		Role:         string(session.RoleAdmin),
		Name:         "Administrator",
	})
}

func runConsole(addr string) {
	c := client.New(addr)
	if err := c.Connect(); err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer c.Close()

	console := render.NewConsoleRenderer(c, os.Stdin, os.Stdout)
	if err := console.Run(context.Background()); err != nil {
		log.Printf("Console exited: %v", err)
	}
}
