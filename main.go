// Command labyrinth loads, validates, and plays labyrinth maps.
//
// It supports four commands:
//  1. "play" (default) – load a map file, validate it, optionally apply one
//     move, and print the resulting map to stdout
//  2. "validate" – report on one or more map files
//  3. "serve" – run the HTTP server exposing REST API, WebSocket, and an
//     /mcp HTTP endpoint
//  4. "mcp" – run an MCP stdio server backed by an internal HTTP API
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/labgrid/labyrinth/api"
	"github.com/labgrid/labyrinth/game/engine"
	"github.com/labgrid/labyrinth/game/maps"
	"github.com/labgrid/labyrinth/game/service"
	"github.com/labgrid/labyrinth/game/session"
	mcptransport "github.com/labgrid/labyrinth/transport/mcp"
	"github.com/labgrid/labyrinth/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Labyrinth Game"
)

// getMapsDirDefault returns the default map library directory.
// It first honors the MAPS_DIR environment variable, then falls back to "maps".
func getMapsDirDefault() string {
	if mapsDir := os.Getenv("MAPS_DIR"); mapsDir != "" {
		return mapsDir
	}
	return "maps"
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
		}
	}

	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintf(cmd.Writer, "%s version %s\n", AppName, cmd.Version)
	}

	cmd := &cli.Command{
		Name:           "labyrinth",
		Usage:          "load, validate, and play labyrinth maps",
		Version:        Version,
		DefaultCommand: "play",
		Commands: []*cli.Command{
			playCommand(),
			validateCommand(),
			serveCommand(),
			mcpCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// playCommand loads a map, validates it, applies an optional move, and
// prints the result.
func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "load a map, place or move a player, print the map",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "map",
				Aliases:  []string{"m"},
				Usage:    "path to the map file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "player",
				Aliases:  []string{"p"},
				Usage:    "player token, a single digit 0-9",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "move",
				Aliases: []string{"d"},
				Usage:   "optional move direction: up, down, left, or right",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			grid, err := engine.LoadFile(cmd.String("map"))
			if err != nil {
				return cli.Exit(err, 1)
			}

			eng, err := engine.NewEngine(grid, cmd.String("player"))
			if err != nil {
				return cli.Exit(err, 1)
			}

			if direction := cmd.String("move"); direction != "" {
				if err := eng.Move(direction); err != nil {
					return cli.Exit(err, 1)
				}
			}

			fmt.Fprint(cmd.Writer, eng.Render())
			return nil
		},
	}
}

// validateCommand reports on each map file argument.
func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "validate one or more map files",
		ArgsUsage: "FILE...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				return cli.Exit("validate: at least one map file is required", 1)
			}

			failed := false
			for _, path := range files {
				grid, err := engine.LoadFile(path)
				if err != nil {
					fmt.Fprintf(cmd.Writer, "%s: INVALID: %v\n", path, err)
					failed = true
					continue
				}
				if err := grid.ValidateConnectivity(); err != nil {
					fmt.Fprintf(cmd.Writer, "%s: INVALID: %v (regions: %d)\n",
						path, err, grid.CountRegions())
					failed = true
					continue
				}
				fmt.Fprintf(cmd.Writer, "%s: OK (%dx%d, %d open cells)\n",
					path, grid.Rows(), grid.Cols(), grid.CountOpen())
			}

			if failed {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// serveCommand runs the HTTP server with REST API, WebSocket hub, and an
// /mcp proxy endpoint.
func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server (REST, WebSocket, MCP endpoint)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Value: "localhost",
				Usage: "HTTP server host",
			},
			&cli.IntFlag{
				Name:  "port",
				Value: 8080,
				Usage: "HTTP server port",
			},
			&cli.StringFlag{
				Name:  "maps-dir",
				Value: getMapsDirDefault(),
				Usage: "directory containing the map library",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("debug") {
				logrus.SetLevel(logrus.DebugLevel)
			}

			gameService, err := initializeServices(cmd.String("maps-dir"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("failed to initialize services: %v", err), 1)
			}

			return runHTTPServer(gameService, cmd.String("host"), int(cmd.Int("port")))
		},
	}
}

// mcpCommand runs the MCP stdio server.
func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "run an MCP stdio server backed by an internal HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "maps-dir",
				Value: getMapsDirDefault(),
				Usage: "directory containing the map library",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			gameService, err := initializeServices(cmd.String("maps-dir"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("failed to initialize services: %v", err), 1)
			}

			return runStdioMCPWithInternalServer(gameService)
		},
	}
}

// initializeServices wires the map manager, session persistence, session
// manager, and game service.
func initializeServices(mapsDir string) (service.GameService, error) {
	mapManager, err := maps.NewManager(mapsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create map manager: %w", err)
	}

	persistence, err := session.NewFilePersistence("sessions")
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)

	if err := sessionManager.LoadPersistedSessions(); err != nil {
		logrus.WithError(err).Warn("failed to load persisted sessions")
	}

	return service.NewGameService(sessionManager, mapManager), nil
}

// runHTTPServer starts the HTTP server and blocks until a shutdown signal.
func runHTTPServer(gameService service.GameService, host string, port int) error {
	hub := websocket.NewHub()
	go hub.Run()

	apiServer := api.NewServer(gameService, hub)

	addr := fmt.Sprintf("%s:%d", host, port)
	baseURL := fmt.Sprintf("http://%s", addr)
	mcpClient := mcptransport.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHTTPHandler(mcpClient))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", addr).Info("HTTP server listening")
		logrus.Infof("REST API: http://%s/api", addr)
		logrus.Infof("WebSocket: ws://%s/ws?session=<session_id>", addr)
		logrus.Infof("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logrus.WithField("signal", sig).Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logrus.Info("server stopped")
	return nil
}

// mcpHTTPHandler mounts the MCP server's message handler on an HTTP endpoint.
func mcpHTTPHandler(mcpClient *mcptransport.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runStdioMCPWithInternalServer runs the MCP stdio server. It reuses an
// external API at http://localhost:8080 when one is up, otherwise starts a
// minimal internal HTTP API on a random loopback port.
func runStdioMCPWithInternalServer(gameService service.GameService) error {
	var baseURL string

	externalURL := "http://localhost:8080"
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/sessions")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		logrus.WithField("url", externalURL).Info("using external API server for MCP")
		baseURL = externalURL
	} else {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := listener.Addr().String()
		logrus.WithField("addr", internalAddr).Info("starting internal HTTP server for MCP stdio")

		hub := websocket.NewHub()
		go hub.Run()

		apiServer := api.NewServer(gameService, hub)
		httpServer := &http.Server{Handler: apiServer}

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				logrus.WithError(err).Error("internal HTTP server error")
			}
		}()

		// Give the listener goroutine a moment before the first tool call.
		time.Sleep(100 * time.Millisecond)

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcptransport.NewClient(baseURL)

	logrus.Info("MCP stdio server ready")
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server: %w", err)
	}
	return nil
}
