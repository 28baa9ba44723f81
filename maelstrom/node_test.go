package maelstrom_test

import (
	"strings"
	"testing"

	maelstrom "github.com/polaris-labs/gossip-glomers/maelstrom"
)

func TestNode_ReplyCounterStrictlyIncreases(t *testing.T) {
	input := strings.Join([]string{
		`{"src":"c1","dest":"n0","body":{"msg_id":1,"type":"init","node_id":"n0","node_ids":["n0"]}}`,
		`{"src":"c1","dest":"n0","body":{"msg_id":2,"type":"echo","echo":"a"}}`,
		`{"src":"c1","dest":"n0","body":{"msg_id":3,"type":"echo","echo":"b"}}`,
	}, "\n") + "\n"

	out := run(t, input, echoFactory)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	// send flattens the body through a map[string]any, so
	// encoding/json emits these keys in sorted order, not send order.
	want1 := `{"src":"n0","dest":"c1","body":{"echo":"a","in_reply_to":2,"msg_id":1,"type":"echo_ok"}}`
	want2 := `{"src":"n0","dest":"c1","body":{"echo":"b","in_reply_to":3,"msg_id":2,"type":"echo_ok"}}`
	if lines[1] != want1 {
		t.Fatalf("line 1 = %q, want %q", lines[1], want1)
	}
	if lines[2] != want2 {
		t.Fatalf("line 2 = %q, want %q", lines[2], want2)
	}
}

type sharePayload struct {
	Messages []int `json:"messages"`
}

func (sharePayload) Type() string { return "share" }

type shareSender struct {
	node *maelstrom.Node
	sent bool
}

func (h *shareSender) Step(ev maelstrom.Event) error {
	if !h.sent {
		h.sent = true
		return h.node.Send("n1", sharePayload{Messages: []int{1, 2, 3}})
	}
	return nil
}

func TestNode_SendOmitsMsgIDAndInReplyTo(t *testing.T) {
	input := `{"src":"c1","dest":"n0","body":{"msg_id":1,"type":"init","node_id":"n0","node_ids":["n0","n1"]}}` + "\n"

	out := run(t, input, func(init maelstrom.InitPayload, node *maelstrom.Node, events maelstrom.EventSender) (maelstrom.Handler, error) {
		return &shareSender{node: node}, nil
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), out)
	}
	want := `{"src":"n0","dest":"n1","body":{"messages":[1,2,3],"type":"share"}}`
	if lines[1] != want {
		t.Fatalf("got %q, want %q", lines[1], want)
	}
}
