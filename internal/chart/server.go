package chart

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tapyruslabs/chaintools/internal/logger"
	"github.com/tapyruslabs/chaintools/internal/models"
)

// Server serves the chart for one distribution snapshot until shut
// down. It stands in for the desktop plot window of a typical
// analysis tool: interactive, local, nothing written to disk.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer creates a chart server for dist listening on addr.
func NewServer(addr string, dist *models.FeeDistribution, log *logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(log), recovery(log))

	router.GET("/", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		if err := Render(dist, c.Writer); err != nil {
			log.Error("chart render failed", map[string]string{"error": err.Error()})
		}
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		log: log,
	}
}

// Serve blocks serving the chart until Shutdown is called.
func (s *Server) Serve() error {
	s.log.Info("serving chart", map[string]string{
		"url": "http://" + s.httpServer.Addr + "/",
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
