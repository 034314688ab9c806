// Package server serves the latest monitor scan over HTTP: the observations
// as JSON, a per-filter summary table and the flux plot as PNG.
package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sparc4-pipeline/sparc4-plots/internal/export"
	"github.com/sparc4-pipeline/sparc4-plots/internal/monitor"
	"github.com/sparc4-pipeline/sparc4-plots/internal/render"
)

// Server holds the most recent scan and its rendered plot.
type Server struct {
	style render.Style

	mu      sync.RWMutex
	series  monitor.Series
	png     []byte
	updated time.Time
}

func New(style render.Style) *Server {
	return &Server{style: style}
}

// Update replaces the served series and re-renders the plot. It has the
// signature of a monitor.Watch callback.
func (s *Server) Update(series monitor.Series) error {
	fig, err := monitor.Plot(series, s.style)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := fig.Encode(&buf, "png"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.series = series
	s.png = buf.Bytes()
	s.updated = time.Now().UTC()
	slog.Debug("monitor series updated", "observations", series.Len())
	return nil
}

func (s *Server) snapshot() (monitor.Series, []byte, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.series, s.png, s.updated
}

type observation struct {
	Filter  string    `json:"filter"`
	Path    string    `json:"path"`
	Time    time.Time `json:"time"`
	JD      float64   `json:"jd"`
	LST     float64   `json:"lst_hours"`
	MaxFlux float64   `json:"max_flux"`
}

func toJSON(obs []monitor.Observation) []observation {
	out := make([]observation, len(obs))
	for i, o := range obs {
		out[i] = observation{o.Filter, o.Path, o.Time, o.JD, o.LST, o.MaxFlux}
	}
	return out
}

// Router builds the gin engine with every route.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	v1.GET("/series", func(c *gin.Context) {
		series, _, updated := s.snapshot()
		c.JSON(http.StatusOK, gin.H{
			"updated":      updated,
			"filters":      series.Filters,
			"observations": toJSON(series.All()),
		})
	})
	v1.GET("/series/:filter", func(c *gin.Context) {
		series, _, _ := s.snapshot()
		obs, ok := series.ByFilter[c.Param("filter")]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown filter"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"observations": toJSON(obs)})
	})
	v1.GET("/summary", func(c *gin.Context) {
		series, _, _ := s.snapshot()
		var buf bytes.Buffer
		if err := export.ObservationTable(&buf, series); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
	})
	v1.GET("/plot.png", func(c *gin.Context) {
		_, png, _ := s.snapshot()
		if png == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no scan yet"})
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	})
	return r
}

// Run listens on addr until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
