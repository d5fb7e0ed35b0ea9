package binance

import (
	"context"
	"fmt"
	"time"

	"ocobot/internal/gateway/exchange"
	"ocobot/internal/logger"
	"ocobot/internal/pkg/convert"

	gobinance "github.com/adshao/go-binance/v2"
)

// SubscribeTrades delivers trade-price ticks for one symbol until ctx is
// cancelled or the websocket fails. Stream failure is returned to the caller
// rather than retried: the order state machine treats a dead feed as fatal.
func (s *Source) SubscribeTrades(ctx context.Context, symbol string, callback func(exchange.TradeTick)) error {
	errCh := make(chan error, 1)
	handler := func(event *gobinance.WsTradeEvent) {
		if event == nil {
			return
		}
		callback(exchange.TradeTick{
			Symbol: event.Symbol,
			Price:  convert.ParseDecimal(event.Price),
			At:     time.UnixMilli(event.Time),
		})
	}
	errHandler := func(err error) {
		select {
		case errCh <- err:
		default:
		}
	}
	doneC, stopC, err := gobinance.WsTradeServe(symbol, handler, errHandler)
	if err != nil {
		return fmt.Errorf("trade stream connect for %s: %w", symbol, err)
	}
	logger.Debugf("binance: trade stream open for %s", symbol)
	select {
	case <-ctx.Done():
		close(stopC)
		<-doneC
		return ctx.Err()
	case err := <-errCh:
		close(stopC)
		return fmt.Errorf("trade stream for %s: %w", symbol, err)
	case <-doneC:
		return fmt.Errorf("trade stream for %s closed unexpectedly", symbol)
	}
}

// SubscribeOrderUpdates delivers execution reports from the user-data
// stream. The listen key is kept alive on the SDK's 30 minute cadence.
func (s *Source) SubscribeOrderUpdates(ctx context.Context, callback func(exchange.OrderUpdate)) error {
	listenKey, err := s.client.NewStartUserStreamService().Do(ctx)
	if err != nil {
		return fmt.Errorf("start user stream: %w", err)
	}

	keepCtx, stopKeepalive := context.WithCancel(ctx)
	defer stopKeepalive()
	go s.keepAlive(keepCtx, listenKey)

	errCh := make(chan error, 1)
	handler := func(event *gobinance.WsUserDataEvent) {
		if event == nil || event.Event != gobinance.UserDataEventTypeExecutionReport {
			return
		}
		u := event.OrderUpdate
		callback(exchange.OrderUpdate{
			Symbol:          u.Symbol,
			OrderID:         u.Id,
			Side:            u.Side,
			Kind:            u.Type,
			Status:          u.Status,
			Price:           convert.ParseDecimal(u.Price),
			Quantity:        convert.ParseDecimal(u.Volume),
			CommissionAsset: u.FeeAsset,
			RejectReason:    u.RejectReason,
		})
	}
	errHandler := func(err error) {
		select {
		case errCh <- err:
		default:
		}
	}
	doneC, stopC, err := gobinance.WsUserDataServe(listenKey, handler, errHandler)
	if err != nil {
		return fmt.Errorf("user stream connect: %w", err)
	}
	logger.Debugf("binance: user data stream open")
	select {
	case <-ctx.Done():
		close(stopC)
		<-doneC
		return ctx.Err()
	case err := <-errCh:
		close(stopC)
		return fmt.Errorf("user stream: %w", err)
	case <-doneC:
		return fmt.Errorf("user stream closed unexpectedly")
	}
}

func (s *Source) keepAlive(ctx context.Context, listenKey string) {
	ticker := time.NewTicker(s.cfg.KeepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.client.NewKeepaliveUserStreamService().ListenKey(listenKey).Do(ctx); err != nil {
				logger.Warnf("binance: user stream keepalive failed: %v", err)
			}
		}
	}
}
