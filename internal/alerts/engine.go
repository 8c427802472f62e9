// Package alerts keeps per-product target prices and reports which price
// tiers of a proposal have reached them.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/joseph-ayodele/sourcing-assistant/constants"
	"github.com/joseph-ayodele/sourcing-assistant/internal/calc"
	"github.com/joseph-ayodele/sourcing-assistant/internal/common"
	"github.com/joseph-ayodele/sourcing-assistant/internal/entity"
	"github.com/joseph-ayodele/sourcing-assistant/internal/repository"
)

// Set maps product name -> tier quantity -> threshold unit price.
// A product never maps to an empty threshold map.
type Set map[string]map[int]float64

// Notification is a tier whose current price is at or under its threshold.
type Notification struct {
	Quantity  int
	Threshold float64
	Price     float64
	Message   string
}

type Engine struct {
	store  repository.StateStore
	logger *slog.Logger

	mu     sync.RWMutex
	alerts Set
}

func NewEngine(store repository.StateStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, logger: logger, alerts: Set{}}
}

// Load reads the persisted set once. A corrupt payload is logged and replaced
// by an empty set; the returned error is informational.
func (e *Engine) Load(ctx context.Context) error {
	raw, ok, err := e.store.Get(ctx, constants.PriceAlertsKey)
	if err != nil {
		e.logger.Error("alerts.load.failed", "error", err)
		return common.NewPersistenceError("load price alerts", err)
	}
	if !ok {
		return nil
	}

	var loaded Set
	if err := json.Unmarshal(raw, &loaded); err != nil {
		e.logger.Warn("alerts.load.corrupt", "bytes", len(raw), "error", err)
		e.mu.Lock()
		e.alerts = Set{}
		e.mu.Unlock()
		return common.NewPersistenceError("price alerts were corrupt and have been reset", err)
	}

	clean := Set{}
	for product, tiers := range loaded {
		for qty, price := range tiers {
			if price > 0 {
				if clean[product] == nil {
					clean[product] = map[int]float64{}
				}
				clean[product][qty] = price
			}
		}
	}

	e.mu.Lock()
	e.alerts = clean
	e.mu.Unlock()
	e.logger.Debug("alerts.load.ok", "products", len(clean))
	return nil
}

// SetAlert stores a threshold for one tier. A price that is not a positive
// finite number removes it instead.
func (e *Engine) SetAlert(ctx context.Context, product string, qty int, price float64) error {
	if product == "" {
		return common.NewValidationError("product name is required to set a price alert")
	}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return e.DeleteAlert(ctx, product, qty)
	}

	e.mu.Lock()
	if e.alerts[product] == nil {
		e.alerts[product] = map[int]float64{}
	}
	e.alerts[product][qty] = price
	e.mu.Unlock()

	e.logger.Info("alerts.set", "product", product, "quantity", qty, "threshold", price)
	return e.persist(ctx)
}

// DeleteAlert removes one tier's threshold and prunes the product when empty.
func (e *Engine) DeleteAlert(ctx context.Context, product string, qty int) error {
	if product == "" {
		return common.NewValidationError("product name is required to delete a price alert")
	}

	e.mu.Lock()
	if tiers, ok := e.alerts[product]; ok {
		delete(tiers, qty)
		if len(tiers) == 0 {
			delete(e.alerts, product)
		}
	}
	e.mu.Unlock()

	e.logger.Info("alerts.delete", "product", product, "quantity", qty)
	return e.persist(ctx)
}

// For returns a copy of one product's thresholds.
func (e *Engine) For(product string) map[int]float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[int]float64, len(e.alerts[product]))
	for q, p := range e.alerts[product] {
		out[q] = p
	}
	return out
}

// Products lists products with at least one alert, sorted by name.
func (e *Engine) Products() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.alerts))
	for p := range e.alerts {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Evaluate reports the tiers of p that have hit a stored threshold, in tier
// order. It reads state only and returns the same result for the same inputs.
func (e *Engine) Evaluate(p entity.Proposal) []Notification {
	if p.ProductName == "" {
		return nil
	}
	thresholds := e.For(p.ProductName.String())
	if len(thresholds) == 0 {
		return nil
	}

	var out []Notification
	for _, tier := range p.DDPPriceTiers {
		threshold, ok := thresholds[tier.Qty()]
		if !ok {
			continue
		}
		price := tier.PricePerUnit.Float()
		if price <= threshold {
			out = append(out, Notification{
				Quantity:  tier.Qty(),
				Threshold: threshold,
				Price:     price,
				Message: fmt.Sprintf("Price for %s units has hit your target of %s! Current price: %s.",
					calc.FormatQty(tier.Qty()), calc.FormatUSD(threshold), calc.FormatUSD(price)),
			})
		}
	}
	return out
}

// persist rewrites the whole set. In-memory state is kept when the write fails.
func (e *Engine) persist(ctx context.Context) error {
	e.mu.RLock()
	raw, err := json.Marshal(e.alerts)
	e.mu.RUnlock()
	if err != nil {
		return common.NewPersistenceError("encode price alerts", err)
	}
	if err := e.store.Put(ctx, constants.PriceAlertsKey, raw); err != nil {
		e.logger.Error("alerts.save.failed", "error", err)
		return common.NewPersistenceError("save price alerts", err)
	}
	return nil
}
