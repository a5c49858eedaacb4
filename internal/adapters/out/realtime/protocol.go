package realtime

import (
	"encoding/json"

	"qrcafe/internal/core/ports"
)

// Event names used on the realtime channel.
type Event string

const (
	// Client to server.
	EventJoinStaff  Event = "join-staff"
	EventLeaveStaff Event = "leave-staff"

	// Server to client.
	EventJoined       Event = "joined"
	EventLeft         Event = "left"
	EventError        Event = "error"
	EventOrderCreated Event = Event(ports.OrderCreated)
	EventOrderUpdated Event = Event(ports.OrderUpdated)
)

// Envelope is the single frame format in both directions.
type Envelope struct {
	Event Event           `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinedData acknowledges a join-staff request.
type JoinedData struct {
	SessionID string `json:"sessionId"`
	Room      string `json:"room"`
}

// ErrorData describes a rejected client frame.
type ErrorData struct {
	Message string `json:"message"`
}

// StaffRoom is the only room; every joined session receives every order event.
const StaffRoom = "staff"

func encode(event Event, data any) ([]byte, error) {
	env := Envelope{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		env.Data = raw
	}
	return json.Marshal(env)
}
