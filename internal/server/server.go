// Package server is the admin HTTP surface of the bridge daemon: health,
// readiness, prometheus metrics and a live view of the protocol session.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/openpower/hiobridge/internal/hiomap"
	"github.com/openpower/hiobridge/internal/observability"
)

// Admin serves the operator-facing HTTP endpoints.
type Admin struct {
	addr    string
	started time.Time
	session *hiomap.Session
	router  *gin.Engine
}

func New(addr string, corsOrigins []string, session *hiomap.Session) *Admin {
	observability.RegisterMetrics()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware())
	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: corsOrigins,
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	a := &Admin{
		addr:    addr,
		started: time.Now(),
		session: session,
		router:  r,
	}
	a.registerRoutes()
	return a
}

func (a *Admin) registerRoutes() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(a.started).String(),
		})
	})

	a.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":  true,
			"uptime": time.Since(a.started).String(),
		})
	})

	a.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.router.GET("/events", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"events":        a.session.EventMask(),
			"last_sequence": a.session.LastSequence(),
		})
	})
}

// Router exposes the engine for handler tests.
func (a *Admin) Router() *gin.Engine {
	return a.router
}

// Serve runs the admin server until ctx is done.
func (a *Admin) Serve(ctx context.Context) error {
	srv := &http.Server{Addr: a.addr, Handler: a.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
