// Package service hosts the MCP server: it wires the upstream API clients,
// the response cache and the geoprocessing runner, and registers every tool.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nikoko107/mcp-datagouv-ign/internal/adresse"
	"github.com/nikoko107/mcp-datagouv-ign/internal/cache"
	"github.com/nikoko107/mcp-datagouv-ign/internal/datagouv"
	"github.com/nikoko107/mcp-datagouv-ign/internal/geoapi"
	"github.com/nikoko107/mcp-datagouv-ign/internal/geopf"
	"github.com/nikoko107/mcp-datagouv-ign/internal/geoproc"
	"github.com/nikoko107/mcp-datagouv-ign/internal/platform/httpclient"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "french-opendata-mcp"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP serves MCP over an HTTP endpoint.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	HTTPAddr  string // HTTP server address (e.g. "localhost:8081"), used by the HTTP transport.
	Cache     cache.Config
}

// Server hosts the MCP server over a set of upstream clients and the
// response cache.
type Server struct {
	mcpServer *mcp.Server
	cache     *cache.Cache
}

// New creates a configured MCP server with every tool registered.
func New(cfg Config) (*Server, error) {
	store, err := cache.Open(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("open response cache: %w", err)
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	http := httpclient.New(0)
	datagouvClient := datagouv.New(http)
	adresseClient := adresse.New(http)
	geoapiClient := geoapi.New(http)
	geopfClient := geopf.New(http)
	runner := geoproc.NewRunner(0)

	registerDatasetTools(mcpServer, datagouvClient, store)
	registerGeocodingTools(mcpServer, adresseClient, store)
	registerAdminTools(mcpServer, geoapiClient, store)
	registerLayerTools(mcpServer, geopfClient, store)
	registerNavigationTools(mcpServer, geopfClient, store)
	registerAltimetryTools(mcpServer, geopfClient, store)
	registerGeoprocTools(mcpServer, runner, store)
	registerCacheTools(mcpServer, store)

	return &Server{mcpServer: mcpServer, cache: store}, nil
}

// Run creates and serves the MCP server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, cfg, &mcp.StdioTransport{})
	case TransportHTTP:
		return runWithHTTPTransport(ctx, cfg)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runWithTransport creates a server and serves it over the provided transport.
func runWithTransport(ctx context.Context, cfg Config, transport mcp.Transport) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.serveWithTransport(ctx, transport)
}

// runWithHTTPTransport creates a server and serves it over HTTP transport.
func runWithHTTPTransport(ctx context.Context, cfg Config) error {
	// Default to localhost-only binding.
	httpAddr := cfg.HTTPAddr
	if httpAddr == "" {
		httpAddr = "localhost:8081"
	}

	server, err := New(cfg)
	if err != nil {
		return err
	}
	defer server.Close()

	httpTransport := NewHTTPTransportWithServer(httpAddr, server.mcpServer)
	return httpTransport.Start(ctx)
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// Close releases the response cache held by the server.
func (s *Server) Close() error {
	if s == nil || s.cache == nil {
		return nil
	}
	if err := s.cache.Close(); err != nil {
		return err
	}
	s.cache = nil
	return nil
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close response cache: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close response cache: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
