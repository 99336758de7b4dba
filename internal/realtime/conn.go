package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/faceconnect/client/internal/logging"
)

// Handler reacts to one inbound or lifecycle event. Handlers run on the read
// loop goroutine, independently of any in-flight API request. Connect and
// connect_error handlers run on the caller of Connect and must not call
// Disconnect.
type Handler func(ctx context.Context, e Event)

// Conn keeps at most one subscription for the signed-in user. It never reconnects
// on its own.
type Conn struct {
	dialer Dialer

	mu        sync.Mutex
	transport Transport
	userID    int64
	dialing   bool
	epoch     uint64
	handlers  map[string][]Handler
	closing   map[Transport]bool
	wg        sync.WaitGroup
}

// NewConn returns a disconnected Conn that dials through d.
func NewConn(d Dialer) *Conn {
	return &Conn{
		dialer:   d,
		handlers: make(map[string][]Handler),
		closing:  make(map[Transport]bool),
	}
}

// On registers h for the named event.
func (c *Conn) On(name string, h Handler) {
	if h == nil {
		return
	}
	c.mu.Lock()
	c.handlers[name] = append(c.handlers[name], h)
	c.mu.Unlock()
}

// Connected reports whether a transport is open.
func (c *Conn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transport != nil
}

// Connect subscribes userID to its personal room. When a connection is
// already open only the join is re-sent. The dial runs without holding the
// connection lock; a Disconnect issued meanwhile discards the new transport.
// Connect handlers run before the join is sent and before any inbound frame
// is dispatched.
func (c *Conn) Connect(ctx context.Context, userID int64) error {
	c.mu.Lock()
	if c.transport != nil {
		t := c.transport
		c.userID = userID
		c.mu.Unlock()
		return c.emit(t, EventJoin, RoomPayload{UserID: userID})
	}
	if c.dialing {
		c.mu.Unlock()
		return ErrConnecting
	}
	c.dialing = true
	epoch := c.epoch
	c.mu.Unlock()

	logger := logging.FromContext(ctx)
	t, err := c.dialer.Dial(ctx)

	c.mu.Lock()
	c.dialing = false
	if err != nil {
		c.mu.Unlock()
		logger.Error("realtime connect failed", slog.String("error", err.Error()))
		ev, _ := NewEvent(EventConnectError, DisconnectPayload{Reason: err.Error()})
		c.dispatch(context.WithoutCancel(ctx), ev)
		return err
	}
	if c.epoch != epoch {
		c.mu.Unlock()
		_ = t.Close()
		return ErrDialAborted
	}
	c.transport = t
	c.userID = userID
	c.wg.Add(1)
	c.mu.Unlock()

	loopCtx := context.WithoutCancel(ctx)
	c.dispatch(loopCtx, Event{Name: EventConnect})
	go c.readLoop(loopCtx, t)

	logger.Info("realtime connected", slog.Int64("user_id", userID))
	return c.emit(t, EventJoin, RoomPayload{UserID: userID})
}

// Leave announces that userID is going offline.
func (c *Conn) Leave(userID int64) error {
	t := c.current()
	if t == nil {
		return ErrNotConnected
	}
	return c.emit(t, EventLeave, RoomPayload{UserID: userID})
}

// Typing tells receiverID whether the current user is typing.
func (c *Conn) Typing(receiverID int64, isTyping bool) error {
	c.mu.Lock()
	t, userID := c.transport, c.userID
	c.mu.Unlock()
	if t == nil {
		return ErrNotConnected
	}
	return c.emit(t, EventTyping, TypingPayload{UserID: userID, ReceiverID: receiverID, IsTyping: isTyping})
}

// Disconnect closes the open transport, if any, and waits for the read loop to
// exit. A dial still in flight is abandoned.
func (c *Conn) Disconnect() error {
	c.mu.Lock()
	t := c.transport
	c.transport = nil
	c.userID = 0
	c.epoch++
	if t != nil {
		c.closing[t] = true
	}
	c.mu.Unlock()

	if t == nil {
		return nil
	}
	err := t.Close()
	c.wg.Wait()
	return err
}

func (c *Conn) current() Transport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transport
}

func (c *Conn) emit(t Transport, name string, payload any) error {
	ev, err := NewEvent(name, payload)
	if err != nil {
		return err
	}
	return t.Send(ev)
}

func (c *Conn) readLoop(ctx context.Context, t Transport) {
	defer c.wg.Done()
	logger := logging.FromContext(ctx)

	for {
		ev, err := t.Receive()
		if err != nil {
			c.mu.Lock()
			deliberate := c.closing[t]
			delete(c.closing, t)
			if c.transport == t {
				c.transport = nil
			}
			c.mu.Unlock()

			reason := ReasonTransportClose
			if deliberate {
				reason = ReasonClientDisconnect
			} else {
				logger.Warn("realtime read failed", slog.String("error", err.Error()))
			}
			closed, _ := NewEvent(EventDisconnect, DisconnectPayload{Reason: reason})
			c.dispatch(ctx, closed)
			return
		}
		c.dispatch(ctx, ev)
	}
}

func (c *Conn) dispatch(ctx context.Context, ev Event) {
	c.mu.Lock()
	handlers := append([]Handler(nil), c.handlers[ev.Name]...)
	c.mu.Unlock()

	if len(handlers) == 0 {
		logging.FromContext(ctx).Debug("realtime event ignored", slog.String("event", ev.Name))
		return
	}
	for _, h := range handlers {
		h(ctx, ev)
	}
}
