package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joelkehle/protocol-check/internal/httpapi"
	"github.com/joelkehle/protocol-check/internal/rulecfg"
	"github.com/joelkehle/protocol-check/internal/telemetry"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	rulesPath := flag.String("rules", "", "Optional YAML rules file (defaults to the built-in table)")
	flag.Parse()

	if port := os.Getenv("PORT"); port != "" {
		*addr = ":" + port
	}

	reg, err := rulecfg.Load(*rulesPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTelemetry, err := telemetry.Setup(ctx, "protocol-check-server")
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewServer(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	log.Printf("protocol-check-server listening on %s (rule sections=%d)", *addr, len(reg.Sections))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("protocol-check-server stopped")
}
