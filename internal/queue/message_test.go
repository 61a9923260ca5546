package queue

import "testing"

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		FileID:     42,
		ObjectKey:  "athletes/7/2026/08/abc.mp4",
		RequestID:  "req-123",
		EnqueuedAt: "2026-08-27T10:00:00Z",
		Version:    1,
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != msg {
		t.Fatalf("round trip mismatch: %+v != %+v", decoded, msg)
	}
}

func TestDecodeMessageRejectsInvalidJSON(t *testing.T) {
	if _, err := DecodeMessage([]byte("{not json")); err == nil {
		t.Fatalf("expected error for invalid payload")
	}
}
