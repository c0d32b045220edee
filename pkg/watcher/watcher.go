package watcher

import (
	"context"
	"io"
	"sync"

	"evmscan/pkg/metrics"
	"evmscan/pkg/models"
	"evmscan/pkg/network"
	"evmscan/pkg/route"
	"evmscan/pkg/scan"

	"github.com/charmbracelet/log"
)

// DataSource defines the interface for fetching explorer data.
type DataSource interface {
	FetchBalance(ctx context.Context, n network.Network, address string) (string, error)
	FetchTransactions(ctx context.Context, n network.Network, address string) ([]models.Transaction, error)
	FetchTransactionDetail(ctx context.Context, n network.Network, hash string) (*models.TransactionDetail, error)
}

// RealDataSource implements DataSource using the scan clients.
type RealDataSource struct {
	clients scan.Clients
}

func NewRealDataSource(clients scan.Clients) *RealDataSource {
	return &RealDataSource{clients: clients}
}

func (d *RealDataSource) FetchBalance(ctx context.Context, n network.Network, address string) (string, error) {
	c, err := d.clients.For(n)
	if err != nil {
		return "", err
	}
	return c.FetchBalance(ctx, address)
}

func (d *RealDataSource) FetchTransactions(ctx context.Context, n network.Network, address string) ([]models.Transaction, error) {
	c, err := d.clients.For(n)
	if err != nil {
		return nil, err
	}
	return c.FetchTransactions(ctx, address)
}

func (d *RealDataSource) FetchTransactionDetail(ctx context.Context, n network.Network, hash string) (*models.TransactionDetail, error) {
	c, err := d.clients.For(n)
	if err != nil {
		return nil, err
	}
	return c.FetchTransactionDetail(ctx, hash)
}

// Watcher runs the fetches for the current route and broadcasts their results.
// Every Navigate starts a new generation; results of older generations are dropped.
type Watcher struct {
	dataSource DataSource
	logger     *log.Logger

	subscribers []Subscriber
	generation  uint64
	current     route.Route
	cancel      context.CancelFunc
	mu          sync.RWMutex
	wg          sync.WaitGroup
}

// NewWatcher creates a new Watcher instance.
func NewWatcher(ds DataSource, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Watcher{
		dataSource: ds,
		logger:     logger,
	}
}

// Subscribe adds a new subscriber and returns a channel to receive events.
func (w *Watcher) Subscribe() Subscriber {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch := make(Subscriber, 100)
	w.subscribers = append(w.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber.
func (w *Watcher) Unsubscribe(ch Subscriber) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, sub := range w.subscribers {
		if sub == ch {
			w.subscribers = append(w.subscribers[:i], w.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Current returns the active route and its generation.
func (w *Watcher) Current() (route.Route, uint64) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current, w.generation
}

// IsCurrent reports whether gen is still the active generation.
func (w *Watcher) IsCurrent(gen uint64) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return gen == w.generation
}

func (w *Watcher) notify(event Event) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if event.Generation != w.generation {
		metrics.StaleEventsDropped.Inc()
		w.logger.Debug("dropping stale result", "type", event.Type, "route", event.Route, "generation", event.Generation)
		return
	}
	for _, sub := range w.subscribers {
		select {
		case sub <- event:
		default:
			w.logger.Warn("subscriber full, dropping event", "type", event.Type)
		}
	}
}

// Navigate cancels in-flight fetches, starts a new generation for r and
// launches the fetches r needs. The landing route fetches nothing.
func (w *Watcher) Navigate(parent context.Context, r route.Route) uint64 {
	ctx, cancel := context.WithCancel(parent)

	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	w.generation++
	gen := w.generation
	w.current = r
	w.cancel = cancel
	ds := w.dataSource
	w.mu.Unlock()

	w.logger.Info("navigate", "route", r.Path(), "generation", gen)
	w.notify(Event{Type: EventNavigated, Generation: gen, Route: r})

	switch r.Kind {
	case route.Address:
		w.wg.Add(2)
		go func() {
			defer w.wg.Done()
			wei, err := ds.FetchBalance(ctx, r.Network, r.Address)
			w.notify(Event{Type: EventBalanceUpdated, Generation: gen, Route: r, Data: BalanceData{Wei: wei, Err: err}})
		}()
		go func() {
			defer w.wg.Done()
			txs, err := ds.FetchTransactions(ctx, r.Network, r.Address)
			w.notify(Event{Type: EventTransactionsUpdated, Generation: gen, Route: r, Data: TransactionsData{Transactions: txs, Err: err}})
		}()
	case route.Transaction:
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			d, err := ds.FetchTransactionDetail(ctx, r.Network, r.Hash)
			w.notify(Event{Type: EventDetailUpdated, Generation: gen, Route: r, Data: DetailData{Detail: d, Err: err}})
		}()
	default:
		cancel()
	}
	return gen
}

// Stop cancels in-flight fetches and waits for them to return.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	w.generation++
	w.mu.Unlock()
	w.wg.Wait()
}

// Wait blocks until all launched fetches have returned.
func (w *Watcher) Wait() {
	w.wg.Wait()
}
