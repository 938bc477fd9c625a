package stream

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/san-kum/liquidchain/internal/config"
	"github.com/san-kum/liquidchain/internal/storage"
)

var startTime = time.Now()

const version = "0.3.0"

// NewRouter mounts the health check, the run catalogue and the frame stream.
func NewRouter(hub *Hub, store *storage.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "liquidchain",
			"version": version,
			"uptime":  time.Since(startTime).String(),
			"clients": hub.ClientCount(),
		})
	})

	api := r.Group("/api/v1")
	api.GET("/presets", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"presets": config.ListPresets()})
	})
	api.GET("/runs", func(c *gin.Context) {
		runs, err := store.List()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"runs": runs})
	})
	api.GET("/runs/:id", func(c *gin.Context) {
		meta, err := store.Load(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusOK, meta)
	})
	api.GET("/stream", hub.HandleWebSocket)

	return r
}

// Serve runs the hub, the driver and the HTTP server until ctx ends.
func Serve(ctx context.Context, addr string, hub *Hub, driver *Driver, store *storage.Store) error {
	srv := &http.Server{Addr: addr, Handler: NewRouter(hub, store)}

	go hub.Run(ctx)
	go driver.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		log.Printf("[serve] listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Printf("[serve] stopped")
	return nil
}
