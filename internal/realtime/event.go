package realtime

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/faceconnect/client/internal/models"
)

// Event names exchanged with the server.
const (
	EventConnect         = "connect"
	EventDisconnect      = "disconnect"
	EventConnectError    = "connect_error"
	EventJoin            = "join"
	EventLeave           = "leave"
	EventTyping          = "typing"
	EventUserTyping      = "user_typing"
	EventNewNotification = "new_notification"
	EventNewMessage      = "new_message"
)

var (
	// ErrNotConnected is returned when emitting on a closed connection.
	ErrNotConnected = errors.New("realtime connection is not open")
	// ErrConnecting is returned by Connect while another dial is in flight.
	ErrConnecting = errors.New("realtime connection is being established")
	// ErrDialAborted is returned when Disconnect ran while the dial was in flight.
	ErrDialAborted = errors.New("realtime dial abandoned by disconnect")
)

// Event is one frame of the wire envelope {"event": name, "data": payload}.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent encodes payload into an Event.
func NewEvent(name string, payload any) (Event, error) {
	if payload == nil {
		return Event{Name: name}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", name, err)
	}
	return Event{Name: name, Data: data}, nil
}

// Decode unmarshals the event payload into v.
func (e Event) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("decode %s payload: empty", e.Name)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Name, err)
	}
	return nil
}

// RoomPayload is sent with join and leave.
type RoomPayload struct {
	UserID int64 `json:"user_id"`
}

// TypingPayload is sent with typing.
type TypingPayload struct {
	UserID     int64 `json:"user_id"`
	ReceiverID int64 `json:"receiver_id"`
	IsTyping   bool  `json:"is_typing"`
}

// UserTypingPayload arrives with user_typing.
type UserTypingPayload struct {
	UserID   int64 `json:"user_id"`
	IsTyping bool  `json:"is_typing"`
}

// NotificationPayload arrives with new_notification. Sender is a username.
type NotificationPayload struct {
	ID        int64            `json:"id"`
	Type      string           `json:"type"`
	Content   string           `json:"content"`
	Sender    string           `json:"sender,omitempty"`
	CreatedAt models.Timestamp `json:"created_at"`
}

// DisconnectPayload accompanies the synthetic disconnect and connect_error events.
type DisconnectPayload struct {
	Reason string `json:"reason"`
}

// Disconnect reasons.
const (
	ReasonClientDisconnect = "io client disconnect"
	ReasonTransportClose   = "transport close"
)
