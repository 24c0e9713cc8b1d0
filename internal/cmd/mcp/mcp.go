// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/nikoko107/mcp-datagouv-ign/internal/cache"
	"github.com/nikoko107/mcp-datagouv-ign/internal/platform/config"
	"github.com/nikoko107/mcp-datagouv-ign/internal/platform/otel"
	"github.com/nikoko107/mcp-datagouv-ign/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	HTTPAddr  string `env:"DATAGOUV_MCP_HTTP_ADDR" envDefault:"localhost:8081"`
	Transport string `env:"DATAGOUV_MCP_TRANSPORT" envDefault:"stdio"`
	Cache     cache.Config
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.Cache.Dir, "cache-dir", cfg.Cache.Dir, "Response cache directory")
	fs.DurationVar(&cfg.Cache.TTL, "cache-ttl", cfg.Cache.TTL, "Response cache retention")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP server.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "mcp")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	return service.Run(ctx, service.Config{
		Transport: service.TransportKind(cfg.Transport),
		HTTPAddr:  cfg.HTTPAddr,
		Cache:     cfg.Cache,
	})
}
