package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ocobot/internal/config"
	"ocobot/internal/gateway/binance"
	"ocobot/internal/gateway/exchange"
	"ocobot/internal/logger"
	"ocobot/internal/store/eventlog"
	"ocobot/internal/trader"
	livehttp "ocobot/internal/transport/http/live"

	"golang.org/x/sync/errgroup"
)

// App assembles the gateway, the trading actor and the supporting surfaces
// for one run, and supervises them until the position reaches a terminal
// outcome.
type App struct {
	cfg    *config.Config
	source *binance.Source
	trader *trader.Trader
	server *livehttp.Server
}

// New validates the configured intent against the exchange's symbol filters
// and builds the run. Validation happens here, before any order is placed.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: config is nil")
	}

	source := binance.New(binance.Config{
		APIKey:      cfg.Binance.APIKey,
		APISecret:   cfg.Binance.APISecret,
		RESTBaseURL: cfg.Binance.RESTBaseURL,
		HTTPTimeout: time.Duration(cfg.Binance.TimeoutSeconds) * time.Second,
	})

	filters, err := source.SymbolFilters(ctx, cfg.Trade.Pair)
	if err != nil {
		return nil, fmt.Errorf("app: fetch symbol filters: %w", err)
	}
	logger.Infof("app: %s filters step=%s minQty=%s tick=%s minNotional=%s",
		cfg.Trade.Pair, filters.StepSize, filters.MinQty, filters.TickSize, filters.MinNotional)

	intent, err := trader.BuildIntent(cfg.Trade, filters)
	if err != nil {
		return nil, fmt.Errorf("app: invalid trade intent: %w", err)
	}

	var store trader.EventStore
	if cfg.App.EventLogPath != "" {
		store, err = eventlog.New(cfg.App.EventLogPath)
		if err != nil {
			return nil, fmt.Errorf("app: open event log: %w", err)
		}
	}

	t := trader.New(source, store, intent)

	var server *livehttp.Server
	if cfg.App.HTTPAddr != "" {
		server, err = livehttp.NewServer(livehttp.ServerConfig{Addr: cfg.App.HTTPAddr, Trader: t})
		if err != nil {
			return nil, fmt.Errorf("app: build http server: %w", err)
		}
	}

	return &App{cfg: cfg, source: source, trader: t, server: server}, nil
}

// Run drives the trade to completion. It returns nil when the position
// closed normally (target, stop, entry cancel or nothing to do) and the
// fatal error otherwise.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.trader.Start()
	defer a.trader.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for {
			select {
			case sig := <-sigCh:
				// Open orders stay on the exchange; interrupting the process
				// does not withdraw them.
				logger.Warnf("app: received %s, shutting down with orders left in place", sig)
				cancel()
			case <-ctx.Done():
				return
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	symbol := a.cfg.Trade.Pair
	g.Go(func() error {
		err := a.source.SubscribeTrades(gctx, symbol, func(tick exchange.TradeTick) {
			a.postPriceUpdate(tick)
		})
		return supervised("trade stream", gctx, err)
	})

	g.Go(func() error {
		err := a.source.SubscribeOrderUpdates(gctx, func(u exchange.OrderUpdate) {
			a.postOrderStatus(u)
		})
		return supervised("user data stream", gctx, err)
	})

	if a.server != nil {
		g.Go(func() error {
			logger.Infof("app: live http listening on %s", a.server.Addr())
			return supervised("http server", gctx, a.server.Start(gctx))
		})
	}

	g.Go(func() error {
		select {
		case <-a.trader.Done():
			cancel()
			return a.trader.Outcome().Err
		case <-gctx.Done():
			return nil
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}

	select {
	case <-a.trader.Done():
		o := a.trader.Outcome()
		logger.Infof("app: run finished with outcome %s", o.Kind)
		return o.Err
	default:
		return nil
	}
}

func (a *App) postPriceUpdate(tick exchange.TradeTick) {
	err := a.trader.Send(trader.NewEvent(trader.EvtPriceUpdate, tick.Symbol, trader.PriceUpdatePayload{
		Symbol: tick.Symbol,
		Price:  tick.Price,
	}))
	if err != nil {
		logger.Debugf("app: drop price tick: %v", err)
	}
}

func (a *App) postOrderStatus(u exchange.OrderUpdate) {
	err := a.trader.Send(trader.NewEvent(trader.EvtOrderStatus, u.Symbol, trader.OrderStatusPayload{
		Symbol:          u.Symbol,
		OrderID:         u.OrderID,
		Side:            u.Side,
		OrderType:       u.Kind,
		Status:          u.Status,
		Price:           u.Price,
		Quantity:        u.Quantity,
		CommissionAsset: u.CommissionAsset,
		RejectReason:    u.RejectReason,
	}))
	if err != nil {
		logger.Warnf("app: drop order status push: %v", err)
	}
}

// supervised turns the expected shutdown paths into nil so errgroup only
// propagates genuine failures.
func supervised(name string, ctx context.Context, err error) error {
	if err == nil || errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}
