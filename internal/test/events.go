package test

import (
	"context"
	"sync"

	"github.com/polkiloo/auctionhouse/internal/adapter/events"
)

// PublisherStub records published events.
type PublisherStub struct {
	Err error

	mu     sync.Mutex
	events []events.Event
}

// Publish stores the event and returns the configured error.
func (p *PublisherStub) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.Err
}

// Events returns a copy of everything published so far.
func (p *PublisherStub) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

var _ events.Publisher = (*PublisherStub)(nil)
