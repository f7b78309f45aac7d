package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/RustyRoad/rusty-refactor-sub001/internal/config"
	"github.com/RustyRoad/rusty-refactor-sub001/internal/convert"
	"github.com/RustyRoad/rusty-refactor-sub001/internal/navigator"
	"github.com/RustyRoad/rusty-refactor-sub001/internal/region"
	"github.com/RustyRoad/rusty-refactor-sub001/internal/session"
	"github.com/RustyRoad/rusty-refactor-sub001/internal/symbols"
)

// Server wires the extraction engine to an editor host over MCP stdio.
type Server struct {
	workspaceRoot string
	resolver      *region.Resolver
	nav           *navigator.Navigator
	registry      *session.Registry
	mcp           *server.MCPServer
}

// NewServer builds the full engine for one workspace and registers its
// tools. The conversion checker's capability is probed here, once.
func NewServer(cfg *config.Config, workspaceRoot string) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	checker := convert.NewBinaryChecker(cfg.Analyzer.Binary, time.Duration(cfg.Analyzer.TimeoutSeconds)*time.Second)
	if !checker.Available() {
		log.Printf("[mcp] native analyzer absent; conversion checks disabled")
	}

	nav, err := navigator.New(navigator.NewOSLister(workspaceRoot), checker, navigator.Options{
		WorkspaceRoot:   workspaceRoot,
		SourceRoot:      cfg.SourceRoot,
		ModuleExtension: cfg.ModuleExtension,
		ConventionMode:  cfg.ConventionMode,
		IgnorePatterns:  cfg.Ignore,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create navigator: %w", err)
	}

	resolver := region.NewResolver(symbols.NewIndex())
	registry := session.NewRegistry(nav, nav.ModuleExtension(), nav.SourceRoot())

	mcpServer := server.NewMCPServer(
		"rusty-refactor",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &Server{
		workspaceRoot: workspaceRoot,
		resolver:      resolver,
		nav:           nav,
		registry:      registry,
		mcp:           mcpServer,
	}

	AddResolveRegionTool(mcpServer, resolver, workspaceRoot)
	AddListDirectoryTool(mcpServer, nav)
	AddTargetSessionTools(mcpServer, registry)

	return s, nil
}

// Serve starts the MCP server and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[mcp] serving on stdio (workspace %s)", s.workspaceRoot)
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("[mcp] received shutdown signal, stopping gracefully")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disposes every live session so no host awaits forever.
func (s *Server) Close() error {
	s.registry.Close()
	return nil
}
