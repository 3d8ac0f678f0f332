package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	// TypeChange announces one committed local mutation.
	TypeChange MessageType = "change"
	// TypeSyncReport summarizes a finished sync cycle.
	TypeSyncReport MessageType = "sync_report"
	TypePing       MessageType = "ping"
	TypePong       MessageType = "pong"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// ChangePayload mirrors the store's change notification: which entity changed
// and how. Clients refetch through the REST API; payloads never carry entity
// bodies.
type ChangePayload struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
	Op     string `json:"op"`
}

type SyncReportPayload struct {
	Pushed   int `json:"pushed"`
	Pulled   int `json:"pulled"`
	Skipped  int `json:"skipped"`
	Deferred int `json:"deferred"`
	Failures int `json:"failures"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		bytes, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = bytes
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   payloadBytes,
	}, nil
}

func (m *Message) UnmarshalPayload(v interface{}) error {
	if m.Payload == nil {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
