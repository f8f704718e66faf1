// CLAUDE:SUMMARY Entry point for the digest service — chi JSON API, SQLite via dbopen, optional MCP stdio transport.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/digest"
	"github.com/hazyhaar/digest/dbopen"
	"github.com/hazyhaar/digest/internal/store"
)

func main() {
	mcpTransport := env("MCP_TRANSPORT", "")
	logLevel := env("LOG_LEVEL", "info")

	// Logging. In MCP stdio mode, stdout carries the protocol, so logs
	// go to stderr.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logOut := os.Stdout
	if mcpTransport == "stdio" {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration: YAML file if given, env overrides on top.
	cfg := digest.DefaultConfig()
	if path := os.Getenv("CONFIG"); path != "" {
		var err error
		cfg, err = digest.LoadConfig(path)
		if err != nil {
			slog.Error("config", "error", err)
			os.Exit(1)
		}
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Listen = ":" + v
	}
	if v := os.Getenv("LLM_ENDPOINT"); v != "" {
		cfg.LLM.Endpoint = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}

	db, err := dbopen.Open(cfg.DBPath, dbopen.WithMkdirAll(), dbopen.WithSchema(store.Schema))
	if err != nil {
		slog.Error("open db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	svc, err := digest.New(db, cfg, logger)
	if err != nil {
		slog.Error("service", "error", err)
		os.Exit(1)
	}

	if mcpTransport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "digest",
			Version: "1.0.0",
		}, nil)
		svc.RegisterMCP(mcpSrv)
		slog.Info("MCP stdio starting")
		if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			slog.Error("MCP stdio", "error", err)
			os.Exit(1)
		}
		return
	}

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Post("/api/submit", func(w http.ResponseWriter, r *http.Request) {
		var req digest.IngestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, 400, err)
			return
		}
		res, err := svc.Ingest(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, 201, res)
	})

	r.Route("/api/urls/{id}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathID(r)
			if err != nil {
				writeError(w, 400, err)
				return
			}
			rec, err := svc.GetURL(r.Context(), id)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, 200, rec)
		})
		r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathID(r)
			if err != nil {
				writeError(w, 400, err)
				return
			}
			if err := svc.DeleteURL(r.Context(), id); err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, 200, map[string]int64{"deleted": id})
		})
		r.Get("/summaries", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathID(r)
			if err != nil {
				writeError(w, 400, err)
				return
			}
			list, err := svc.ListSummaries(r.Context(), id, queryInt(r, "limit", 0))
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, 200, list)
		})
		r.Post("/summaries", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathID(r)
			if err != nil {
				writeError(w, 400, err)
				return
			}
			var req struct {
				Format string `json:"format"`
				Model  string `json:"model"`
			}
			if r.ContentLength > 0 {
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					writeError(w, 400, err)
					return
				}
			}
			rec, err := svc.Resummarize(r.Context(), id, req.Format, req.Model)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			writeJSON(w, 201, rec)
		})
	})

	r.Get("/api/recent", func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.RecentURLs(r.Context(), queryInt(r, "limit", 0))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, 200, entries)
	})

	r.Get("/api/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		scope := digest.SearchScope(r.URL.Query().Get("scope"))
		res, err := svc.Search(r.Context(), q, scope, queryInt(r, "limit", 0))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, 200, res)
	})

	r.Get("/api/fetch-log", func(w http.ResponseWriter, r *http.Request) {
		url := r.URL.Query().Get("url")
		if url == "" {
			writeError(w, 400, errors.New("url parameter is required"))
			return
		}
		entries, err := svc.FetchHistory(r.Context(), url, queryInt(r, "limit", 0))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, 200, entries)
	})

	r.Get("/api/search-log", func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.SearchHistory(r.Context(), queryInt(r, "limit", 0))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, 200, entries)
	})

	r.Get("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.GetStats(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, 200, stats)
	})

	// HTTP server.
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// --- Helpers ---

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// writeServiceError maps service sentinels to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, digest.ErrNotFound):
		writeError(w, 404, err)
	case errors.Is(err, digest.ErrInvalidURL),
		errors.Is(err, digest.ErrInvalidFormat),
		errors.Is(err, digest.ErrInvalidQuery):
		writeError(w, 400, err)
	case errors.Is(err, digest.ErrSummarization):
		writeError(w, 502, err)
	default:
		writeError(w, 500, err)
	}
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
