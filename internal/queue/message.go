package queue

import "encoding/json"

// Message is the payload sent to the deferred cleanup consumer. ObjectKey
// names the storage object to remove after the database row is gone.
type Message struct {
	FileID     int64  `json:"fileId"`
	ObjectKey  string `json:"objectKey"`
	RequestID  string `json:"requestId"`
	EnqueuedAt string `json:"enqueuedAt"`
	Version    int    `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
