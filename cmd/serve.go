package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/analyst-cli/internal/catalog"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve saved reports and the model catalog over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		models := &catalogHolder{cat: catalog.New(nil, nil, nil)}
		rt, err := connectRuntime(ctx, cfg)
		if err != nil {
			zap.L().Warn("model runtime unavailable, serving reports only", zap.Error(err))
			empty := catalog.New(nil, nil, nil)
			empty.Warning = err.Error()
			models.set(empty)
		} else {
			models.set(refreshCatalog(ctx, cfg, rt))
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(cfg.ReportsDir, models.get),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.String("reports_dir", cfg.ReportsDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

type catalogHolder struct {
	mu  sync.RWMutex
	cat *catalog.Catalog
}

func (h *catalogHolder) get() *catalog.Catalog {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cat
}

func (h *catalogHolder) set(c *catalog.Catalog) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cat = c
}

// reportEntry describes one saved report file.
type reportEntry struct {
	Name     string    `json:"name"`
	Format   string    `json:"format"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	URL      string    `json:"url"`
}

func newRouter(reportsDir string, models func() *catalog.Catalog) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newModelsView(models()))
	})

	r.Get("/api/reports", func(w http.ResponseWriter, r *http.Request) {
		entries, err := listReports(reportsDir)
		if err != nil {
			zap.L().Error("list reports", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not list reports"})
			return
		}
		writeJSON(w, http.StatusOK, entries)
	})

	r.Get("/reports/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "report not found"})
			return
		}
		path := filepath.Join(reportsDir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "report not found"})
			return
		}
		http.ServeFile(w, r, path)
	})

	return r
}

// listReports returns the report files in dir, newest first. A missing
// directory has no reports.
func listReports(dir string) ([]reportEntry, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []reportEntry{}, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "read reports dir")
	}

	out := []reportEntry{}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, reportEntry{
			Name:     e.Name(),
			Format:   strings.TrimPrefix(filepath.Ext(e.Name()), "."),
			Size:     info.Size(),
			Modified: info.ModTime().UTC(),
			URL:      "/reports/" + e.Name(),
		})
	}
	slices.SortStableFunc(out, func(a, b reportEntry) int {
		if c := b.Modified.Compare(a.Modified); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
