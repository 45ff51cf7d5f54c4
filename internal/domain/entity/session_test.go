package entity

import (
	"encoding/json"
	"testing"
)

func TestSessionTurnSerializedShape(t *testing.T) {
	turn := NewSessionTurn("What is RAG?", "Retrieval-augmented generation.")

	data, err := json.Marshal(turn)
	if err != nil {
		t.Fatalf("marshal turn: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal turn: %v", err)
	}
	for _, key := range []string{"message", "response", "timestamp"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("expected key %q in serialized turn, got %s", key, data)
		}
	}
}
