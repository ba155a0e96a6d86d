package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tempo/internal/backend"
)

func main() {
	addr := flag.String("addr", ":8712", "listen address")
	dbPath := flag.String("db", "tempo.db", "sqlite database path")
	seed := flag.Bool("seed", false, "insert sample tasks into an empty database")
	flag.Parse()

	storage, err := backend.NewStorage(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer storage.Close()

	if *seed {
		if err := backend.Seed(storage); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	server := backend.NewServer(storage)
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	fmt.Printf("tempod listening on %s (db: %s)\n", *addr, *dbPath)
	fmt.Println("Press Ctrl+C to stop")

	select {
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)
	case err := <-errChan:
		fmt.Printf("Server error: %v\n", err)
	}

	fmt.Println("Shutting down...")
	if err := httpServer.Close(); err != nil {
		fmt.Printf("Error stopping server: %v\n", err)
	}
}
