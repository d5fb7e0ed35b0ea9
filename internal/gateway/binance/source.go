// Package binance implements the exchange gateway on the go-binance spot SDK.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"ocobot/internal/gateway/exchange"
	"ocobot/internal/pkg/convert"

	gobinance "github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Source implements exchange.Exchange plus the two stream subscriber
// interfaces against Binance spot.
type Source struct {
	cfg    Config
	client *gobinance.Client
}

func New(cfg Config) *Source {
	final := cfg.withDefaults()
	client := gobinance.NewClient(final.APIKey, final.APISecret)
	client.BaseURL = final.RESTBaseURL
	client.HTTPClient = &http.Client{Timeout: final.HTTPTimeout}
	return &Source{cfg: final, client: client}
}

func (s *Source) Name() string { return "binance" }

// SymbolFilters fetches the symbol's trading constraints from exchangeInfo.
// go-binance exposes the filter list as raw maps keyed by filterType, so the
// values are picked out with gjson after a round-trip through JSON.
func (s *Source) SymbolFilters(ctx context.Context, symbol string) (exchange.SymbolFilters, error) {
	var out exchange.SymbolFilters
	info, err := s.client.NewExchangeInfoService().Symbol(symbol).Do(ctx)
	if err != nil {
		return out, fmt.Errorf("exchange info for %s: %w", symbol, err)
	}
	for _, sym := range info.Symbols {
		if sym.Symbol != symbol {
			continue
		}
		raw, err := json.Marshal(sym.Filters)
		if err != nil {
			return out, fmt.Errorf("encode filters for %s: %w", symbol, err)
		}
		filters := gjson.ParseBytes(raw)
		lot := filterByType(filters, "LOT_SIZE")
		out.StepSize = convert.ParseDecimal(lot.Get("stepSize").String())
		out.MinQty = convert.ParseDecimal(lot.Get("minQty").String())
		price := filterByType(filters, "PRICE_FILTER")
		out.TickSize = convert.ParseDecimal(price.Get("tickSize").String())
		out.MinPrice = convert.ParseDecimal(price.Get("minPrice").String())
		// Binance renamed MIN_NOTIONAL to NOTIONAL; accept both.
		notional := filterByType(filters, "NOTIONAL")
		if !notional.Exists() {
			notional = filterByType(filters, "MIN_NOTIONAL")
		}
		out.MinNotional = convert.ParseDecimal(notional.Get("minNotional").String())
		return out, nil
	}
	return out, fmt.Errorf("symbol %s not found in exchange info", symbol)
}

func filterByType(filters gjson.Result, filterType string) gjson.Result {
	var found gjson.Result
	filters.ForEach(func(_, f gjson.Result) bool {
		if f.Get("filterType").String() == filterType {
			found = f
			return false
		}
		return true
	})
	return found
}

func (s *Source) Price(ctx context.Context, symbol string) (decimal.Decimal, error) {
	prices, err := s.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price for %s: %w", symbol, err)
	}
	for _, p := range prices {
		if p.Symbol == symbol {
			return convert.ParseDecimal(p.Price), nil
		}
	}
	return decimal.Zero, fmt.Errorf("no price returned for %s", symbol)
}

func (s *Source) PlaceOrder(ctx context.Context, req exchange.OrderRequest) (*exchange.OrderResult, error) {
	svc := s.client.NewCreateOrderService().
		Symbol(req.Symbol).
		Side(gobinance.SideType(req.Side)).
		Type(gobinance.OrderType(req.Kind)).
		Quantity(req.Quantity.String()).
		NewOrderRespType(gobinance.NewOrderRespTypeFULL)
	if req.Kind != exchange.OrderKindMarket {
		svc = svc.TimeInForce(gobinance.TimeInForceTypeGTC).Price(req.Price.String())
	}
	if req.Kind == exchange.OrderKindStopLossLimit {
		svc = svc.StopPrice(req.StopPrice.String())
	}
	resp, err := svc.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("place %s %s %s: %w", req.Side, req.Kind, req.Symbol, err)
	}
	out := &exchange.OrderResult{
		OrderID: resp.OrderID,
		Status:  string(resp.Status),
	}
	for _, f := range resp.Fills {
		if f == nil {
			continue
		}
		out.Fills = append(out.Fills, exchange.Fill{
			Price:           convert.ParseDecimal(f.Price),
			Quantity:        convert.ParseDecimal(f.Quantity),
			Commission:      convert.ParseDecimal(f.Commission),
			CommissionAsset: strings.TrimSpace(f.CommissionAsset),
		})
	}
	return out, nil
}

func (s *Source) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	_, err := s.client.NewCancelOrderService().Symbol(symbol).OrderID(orderID).Do(ctx)
	if err != nil {
		return fmt.Errorf("cancel order %d on %s: %w", orderID, symbol, err)
	}
	return nil
}
