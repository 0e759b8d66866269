package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/shopadmin/internal/mockapi"
)

func main() {
	addr := getEnv("MOCKAPI_ADDR", ":8080")
	secret := getEnv("MOCKAPI_SECRET", "local-development-secret")

	server := &http.Server{
		Addr:    addr,
		Handler: mockapi.NewServer(secret).Router(),
	}

	go func() {
		logrus.Infof("[MockAPI] Listening on %s", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logrus.Fatalf("[MockAPI] Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logrus.Info("[MockAPI] Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.Warnf("[MockAPI] Shutdown error: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
