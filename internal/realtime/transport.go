package realtime

import "context"

// Transport carries envelope frames over one live connection.
type Transport interface {
	Send(Event) error
	Receive() (Event, error)
	Close() error
}

// Dialer opens a Transport for the signed-in user.
type Dialer interface {
	Dial(ctx context.Context) (Transport, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context) (Transport, error)

// Dial implements Dialer.
func (f DialerFunc) Dial(ctx context.Context) (Transport, error) {
	return f(ctx)
}
