package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/alimikegami/point-of-sales/inventory-dashboard/internal/domain"
)

const alertsKey = "alerts"

// AlertMonitor serves the low-stock list and notifies about products entering it.
type AlertMonitor struct {
	source   AlertSource
	notifier Notifier
	timeout  time.Duration

	sfGroup singleflight.Group

	mu sync.Mutex
	// known holds the ids seen in the last successful poll.
	known map[int64]struct{}
}

func CreateAlertMonitor(source AlertSource, notifier Notifier, timeout time.Duration) *AlertMonitor {
	return &AlertMonitor{
		source:   source,
		notifier: notifier,
		timeout:  timeout,
		known:    map[int64]struct{}{},
	}
}

// Current fetches the low-stock products. Concurrent callers share one request, which
// runs detached from any single caller so one cancellation does not fail the others.
func (m *AlertMonitor) Current(ctx context.Context) ([]domain.Product, error) {
	ch := m.sfGroup.DoChan(alertsKey, func() (interface{}, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
		defer cancel()

		return m.source.GetAlerts(sharedCtx)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	products := res.Val.([]domain.Product)
	out := make([]domain.Product, len(products))
	copy(out, products)

	return out, nil
}

// Poll fetches the alerts and notifies about the ones missing from the previous poll. A
// failed notification is retried on the next poll.
func (m *AlertMonitor) Poll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	products, err := m.Current(ctx)
	if err != nil {
		return err
	}

	current := make(map[int64]struct{}, len(products))
	var entered []domain.Product
	for _, p := range products {
		current[p.ID] = struct{}{}
		if _, ok := m.known[p.ID]; !ok {
			entered = append(entered, p)
		}
	}

	if len(entered) > 0 {
		if err := m.notifier.Notify(ctx, entered); err != nil {
			return err
		}
	}

	m.known = current

	return nil
}

// PollAlerts is the scheduled form of Poll.
func (m *AlertMonitor) PollAlerts() {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if err := m.Poll(ctx); err != nil {
		log.Error().Err(err).Str("component", "PollAlerts").Msg("")
	}
}
