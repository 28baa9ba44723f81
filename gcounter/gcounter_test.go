package gcounter_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/polaris-labs/gossip-glomers/gcounter"
	maelstrom "github.com/polaris-labs/gossip-glomers/maelstrom"
)

func TestGCounter_AddsAccumulateOverInitialValue(t *testing.T) {
	input := strings.Join([]string{
		`{"src":"c1","dest":"n0","body":{"msg_id":1,"type":"init","node_id":"n0","node_ids":["n0"]}}`,
		`{"src":"c1","dest":"n0","body":{"msg_id":2,"type":"add","delta":5}}`,
		`{"src":"c1","dest":"n0","body":{"msg_id":3,"type":"add","delta":3}}`,
		`{"src":"c1","dest":"n0","body":{"msg_id":4,"type":"read"}}`,
	}, "\n") + "\n"

	var stdout bytes.Buffer
	if err := maelstrom.RunWith(strings.NewReader(input), &stdout, gcounter.New); err != nil {
		t.Fatalf("RunWith: %v", err)
	}

	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4: %v", len(lines), lines)
	}

	var msg maelstrom.Message
	if err := json.Unmarshal([]byte(lines[3]), &msg); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	var readOk struct {
		Value uint64 `json:"value"`
	}
	if err := json.Unmarshal(msg.Body, &readOk); err != nil {
		t.Fatalf("decode read_ok body: %v", err)
	}
	if readOk.Value != 9 {
		t.Fatalf("got value %d, want 9", readOk.Value)
	}
}

func TestGCounter_UnexpectedTypeIsAnError(t *testing.T) {
	input := strings.Join([]string{
		`{"src":"c1","dest":"n0","body":{"msg_id":1,"type":"init","node_id":"n0","node_ids":["n0"]}}`,
		`{"src":"c1","dest":"n0","body":{"msg_id":2,"type":"broadcast","message":1}}`,
	}, "\n") + "\n"

	var stdout bytes.Buffer
	if err := maelstrom.RunWith(strings.NewReader(input), &stdout, gcounter.New); err == nil {
		t.Fatal("expected an error for an unexpected message type")
	}
}
