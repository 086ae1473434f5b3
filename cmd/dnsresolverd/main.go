package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pellham/dnsresolver/internal/dns/common/log"
	"github.com/pellham/dnsresolver/internal/dns/config"
	"github.com/pellham/dnsresolver/internal/dns/listener"
	"github.com/pellham/dnsresolver/internal/dns/resolver"
	"github.com/pellham/dnsresolver/internal/dns/rootservers"
	"github.com/pellham/dnsresolver/internal/dns/transport"
)

const (
	version = "0.1.0-dev"
	appName = "dnsresolverd"

	defaultShutdownTimeout = 10 * time.Second
)

// Application holds all the wired components of the DNS resolver daemon.
type Application struct {
	listener *listener.Listener
}

func main() {
	bindAddr := flag.String("bind-addr", "", "address to bind the UDP listener (required), e.g. :5353")
	noRecursive := flag.Bool("no-recursive", false, "force single-shot mode: return the first upstream response as-is")
	flag.Parse()

	if *bindAddr == "" {
		fmt.Fprintln(os.Stderr, "dnsresolverd: --bind-addr is required")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":   version,
		"env":       cfg.Env,
		"log_level": cfg.LogLevel,
		"bind_addr": *bindAddr,
		"recursive": !*noRecursive,
	}, "starting dnsresolverd")

	app := buildApplication(cfg, *bindAddr, !*noRecursive)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err.Error()}, "dnsresolverd failed")
	}

	log.Info(nil, "dnsresolverd stopped gracefully")
}

// buildApplication wires the transport, resolver, and listener layers.
func buildApplication(cfg *config.AppConfig, bindAddr string, recursive bool) *Application {
	logger := log.GetLogger()

	r := resolver.New(resolver.Options{
		Transport:              transport.NewUDPTransport(),
		Logger:                 logger,
		RootServers:            rootservers.All,
		Recursive:              recursive,
		MaxReferrals:           cfg.MaxReferrals,
		MaxGlueRecursionDepth:  cfg.MaxGlueRecursionDepth,
		UpstreamQueryTimeout:   cfg.UpstreamQueryTimeout,
		TotalResolutionTimeout: cfg.TotalResolutionTimeout,
	})

	l := listener.New(bindAddr, r, logger, recursive)

	return &Application{listener: l}
}

// Run starts the listener and blocks until ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	if err := app.listener.Start(ctx); err != nil {
		return fmt.Errorf("failed to start listener: %w", err)
	}

	<-ctx.Done()

	log.Info(nil, "shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		if err := app.listener.Stop(); err != nil {
			log.Warn(map[string]any{"error": err.Error()}, "error during listener shutdown")
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownCtx.Done():
		return fmt.Errorf("shutdown timed out after %s", defaultShutdownTimeout)
	}
}
