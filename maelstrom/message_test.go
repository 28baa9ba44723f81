package maelstrom_test

import (
	"encoding/json"
	"testing"

	maelstrom "github.com/polaris-labs/gossip-glomers/maelstrom"
)

func TestMessage_Type(t *testing.T) {
	msg := maelstrom.Message{
		Src:  "c1",
		Dest: "n0",
		Body: json.RawMessage(`{"type":"echo","msg_id":1,"echo":"hi"}`),
	}
	if got, want := msg.Type(), "echo"; got != want {
		t.Fatalf("Type() = %q, want %q", got, want)
	}
}

func TestMessage_TypeMalformedBody(t *testing.T) {
	msg := maelstrom.Message{Body: json.RawMessage(`not json`)}
	if got := msg.Type(); got != "" {
		t.Fatalf("Type() = %q, want empty string for malformed body", got)
	}
}

func TestInitPayload_Type(t *testing.T) {
	var p maelstrom.InitPayload
	if got, want := p.Type(), "init"; got != want {
		t.Fatalf("Type() = %q, want %q", got, want)
	}
}
