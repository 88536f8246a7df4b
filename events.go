package main

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
)

// entryEvent is the message published when a logged entry changes. Consumers
// (export jobs, notification workers) only need the identifiers; they fetch
// details through the API if they care.
type entryEvent struct {
	Kind       string    `json:"kind"`   // meal | activity | health | weight
	Action     string    `json:"action"` // created | deleted
	EntryID    int       `json:"entry_id,omitempty"`
	UserID     int       `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// eventPublisher pushes entry events to an AMQP queue. Publishing is
// best-effort: a broker outage is logged and the request proceeds — the
// database row is the source of truth, events are a convenience stream.
type eventPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *log.Logger
}

// newEventPublisher connects to the broker and declares the queue.
// Returns nil (and no error) when EVENTS_AMQP_URL is unset — the event stream
// is an optional feature.
func newEventPublisher() (*eventPublisher, error) {
	addr := os.Getenv("EVENTS_AMQP_URL")
	if addr == "" {
		return nil, nil
	}
	queue := os.Getenv("EVENTS_QUEUE")
	if queue == "" {
		queue = "vitalog.entry-events"
	}

	conn, err := amqp.Dial(addr)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &eventPublisher{
		conn:    conn,
		channel: ch,
		queue:   queue,
		logger:  log.New(os.Stdout, "[events] ", log.LstdFlags),
	}, nil
}

// publish sends one event. The channel isn't safe for concurrent use, so a
// mutex serializes publishers across request goroutines.
func (p *eventPublisher) publish(c *gin.Context, ev entryEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		p.logger.Printf("marshal event: %v", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(c, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		p.logger.Printf("publish %s/%s for user %d: %v", ev.Kind, ev.Action, ev.UserID, err)
	}
}

// close shuts the channel and connection down; called on server exit.
func (p *eventPublisher) close() {
	p.channel.Close()
	p.conn.Close()
}

// publishEntryEvent is the nil-safe hook the CRUD handlers call. A zero
// entryID (deletes) is omitted from the payload.
func (h *Handler) publishEntryEvent(c *gin.Context, kind, action string, entryID, userID int) {
	if h.events == nil {
		return
	}
	h.events.publish(c, entryEvent{
		Kind:       kind,
		Action:     action,
		EntryID:    entryID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	})
}
