// Package dashboard runs the log poller and the orchestration submitter on
// one actor system and fans their events out to the render layers.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog/log"
	poller "idea-dashboard/internal/agents/poller/actor"
	pollerHandler "idea-dashboard/internal/agents/poller/handler"
	submitter "idea-dashboard/internal/agents/submitter/actor"
	submitterHandler "idea-dashboard/internal/agents/submitter/handler"
	"idea-dashboard/pkg/messages"
	"idea-dashboard/pkg/models"
	"sync"
	"time"
)

const (
	subscriberBuffer = 64
	requestTimeout   = 5 * time.Second
)

var ErrNotStarted = errors.New("dashboard not started")

type Option func(*Dashboard)

// WithInterval overrides the poll period. Used by tests.
func WithInterval(d time.Duration) Option {
	return func(db *Dashboard) {
		db.interval = d
	}
}

type Dashboard struct {
	system   *actor.ActorSystem
	roster   models.Roster
	interval time.Duration
	fetch    *pollerHandler.Handler
	send     *submitterHandler.Handler

	poller    *actor.PID
	submitter *actor.PID
	cancel    context.CancelFunc
	ticker    sync.WaitGroup
	stopOnce  sync.Once

	mu      sync.Mutex
	subs    map[int]chan messages.Event
	nextSub int
	closed  bool
}

func New(fetcher pollerHandler.LogFetcher, orchestrator submitterHandler.Orchestrator, roster models.Roster, opts ...Option) *Dashboard {
	d := &Dashboard{
		system:   actor.NewActorSystem(),
		roster:   roster,
		interval: models.PollInterval,
		fetch:    pollerHandler.New(fetcher, models.LogWindow),
		send:     submitterHandler.New(orchestrator),
		subs:     map[int]chan messages.Event{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dashboard) Roster() models.Roster {
	return d.roster
}

// Start spawns the actors, which runs the first poll cycle right away, and
// starts the fixed-period timer. Ticks are not aligned with cycle
// completion, so cycles may overlap.
func (d *Dashboard) Start(ctx context.Context) {
	root := d.system.Root
	d.poller = root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return poller.New(d.fetch, d.roster, poller.WithHook(d.publish))
	}))
	d.submitter = root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return submitter.New(d.send, d.poller, submitter.WithHook(d.publish))
	}))

	ctx, d.cancel = context.WithCancel(ctx)
	d.ticker.Add(1)
	go func() {
		defer d.ticker.Done()
		t := time.NewTicker(d.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				root.Send(d.poller, messages.PollTick{})
			}
		}
	}()
	log.Info().Int("agents", len(d.roster)).Dur("interval", d.interval).Msg("dashboard started")
}

// Stop clears the timer, stops both actors (cancelling in-flight requests)
// and closes every subscription.
func (d *Dashboard) Stop() {
	d.stopOnce.Do(func() {
		if d.cancel == nil {
			return
		}
		d.cancel()
		d.ticker.Wait()

		root := d.system.Root
		for _, pid := range []*actor.PID{d.submitter, d.poller} {
			if err := root.StopFuture(pid).Wait(); err != nil {
				log.Warn().Err(err).Str("pid", pid.GetId()).Msg("actor did not stop cleanly")
			}
		}

		d.mu.Lock()
		d.closed = true
		for id, ch := range d.subs {
			close(ch)
			delete(d.subs, id)
		}
		d.mu.Unlock()
		log.Info().Msg("dashboard stopped")
	})
}

// Subscribe returns a channel of events and a function that ends the
// subscription.
func (d *Dashboard) Subscribe() (<-chan messages.Event, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch := make(chan messages.Event, subscriberBuffer)
	if d.closed {
		close(ch)
		return ch, func() {}
	}
	id := d.nextSub
	d.nextSub++
	d.subs[id] = ch
	return ch, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if c, ok := d.subs[id]; ok {
			close(c)
			delete(d.subs, id)
		}
	}
}

// publish runs inside the actors' Receive and must not block.
func (d *Dashboard) publish(ev messages.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, ch := range d.subs {
		select {
		case ch <- ev:
		default:
			log.Warn().Int("subscriber", id).Str("event", ev.EventType()).Msg("subscriber is full, dropping event")
		}
	}
}

// Submit validates the idea and hands it to the submitter.
func (d *Dashboard) Submit(idea string) error {
	trimmed, err := models.ValidateIdea(idea)
	if err != nil {
		return err
	}
	if d.submitter == nil {
		return ErrNotStarted
	}
	d.system.Root.Send(d.submitter, messages.Submit{Idea: trimmed})
	return nil
}

// Refresh asks for one poll cycle outside the timer schedule.
func (d *Dashboard) Refresh() error {
	if d.poller == nil {
		return ErrNotStarted
	}
	d.system.Root.Send(d.poller, messages.Refresh{Reason: "manual"})
	return nil
}

func (d *Dashboard) Snapshot() (models.PollerState, error) {
	if d.poller == nil {
		return models.PollerState{}, ErrNotStarted
	}
	res, err := d.system.Root.RequestFuture(d.poller, messages.GetSnapshot{}, requestTimeout).Result()
	if err != nil {
		return models.PollerState{}, fmt.Errorf("poller: %w", err)
	}
	st, ok := res.(models.PollerState)
	if !ok {
		return models.PollerState{}, fmt.Errorf("poller: unexpected reply %T", res)
	}
	return st, nil
}

func (d *Dashboard) Status() (models.Status, error) {
	if d.submitter == nil {
		return models.Status{}, ErrNotStarted
	}
	res, err := d.system.Root.RequestFuture(d.submitter, messages.GetStatus{}, requestTimeout).Result()
	if err != nil {
		return models.Status{}, fmt.Errorf("submitter: %w", err)
	}
	st, ok := res.(models.Status)
	if !ok {
		return models.Status{}, fmt.Errorf("submitter: unexpected reply %T", res)
	}
	return st, nil
}
