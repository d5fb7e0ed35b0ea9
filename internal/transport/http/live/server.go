package livehttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ocobot/internal/logger"
	"ocobot/internal/trader"

	"github.com/gin-gonic/gin"
)

// Server exposes a read-only view of the running position: a health probe
// and the current state snapshot. It never mutates the trader.
type Server struct {
	addr   string
	router *gin.Engine
}

type ServerConfig struct {
	Addr   string
	Trader *trader.Trader
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Trader == nil {
		return nil, errors.New("live http server requires a trader")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9991"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/live")
	api.GET("/state", stateHandler(cfg.Trader))

	return &Server{addr: cfg.Addr, router: router}, nil
}

func stateHandler(t *trader.Trader) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := t.Intent()
		c.JSON(http.StatusOK, gin.H{
			"symbol": in.Symbol,
			"intent": gin.H{
				"amount":           in.Amount,
				"buy_price":        in.BuyPrice,
				"trigger_price":    in.TriggerPrice,
				"stop_price":       in.StopPrice,
				"limit_price":      in.LimitPrice,
				"target_price":     in.TargetPrice,
				"cancel_price":     in.CancelPrice,
				"scale_out_amount": in.ScaleOutAmount,
				"entry_configured": in.EntryConfigured,
			},
			"state": t.Snapshot(),
		})
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		c.Next()
		logger.Debugf("HTTP %s %s status=%d dur=%s", method, path, c.Writer.Status(), time.Since(start))
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
