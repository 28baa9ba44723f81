// Package gcounter implements the grow-only-counter workload: "add"
// requests accumulate a delta into a single running total, and "read"
// returns the current total. This node keeps the counter entirely
// locally; it does not replicate it to peers (see the design notes for
// why that's in scope for a later iteration, not this one).
package gcounter

import (
	"encoding/json"
	"fmt"

	maelstrom "github.com/polaris-labs/gossip-glomers/maelstrom"
)

// AddPayload is the body of an incoming "add" request.
type AddPayload struct {
	Delta uint64 `json:"delta"`
}

// Type implements maelstrom.Payload.
func (AddPayload) Type() string { return "add" }

// AddOkPayload is the body of the "add_ok" reply.
type AddOkPayload struct{}

// Type implements maelstrom.Payload.
func (AddOkPayload) Type() string { return "add_ok" }

// ReadPayload is the body of an incoming "read" request.
type ReadPayload struct{}

// Type implements maelstrom.Payload.
func (ReadPayload) Type() string { return "read" }

// ReadOkPayload is the body of the "read_ok" reply.
type ReadOkPayload struct {
	Value uint64 `json:"value"`
}

// Type implements maelstrom.Payload.
func (ReadOkPayload) Type() string { return "read_ok" }

// Node is the g-counter workload's Handler. Its counter starts at 1,
// matching the reference scenario (init at 1, add 5, add 3, read 9).
type Node struct {
	node  *maelstrom.Node
	value uint64
}

// New is a maelstrom.Factory for the g-counter workload.
func New(_ maelstrom.InitPayload, node *maelstrom.Node, _ maelstrom.EventSender) (maelstrom.Handler, error) {
	return &Node{node: node, value: 1}, nil
}

// Step implements maelstrom.Handler.
func (n *Node) Step(ev maelstrom.Event) error {
	msgEv, ok := ev.(maelstrom.MessageEvent)
	if !ok {
		return nil
	}
	msg := msgEv.Msg

	switch msg.Type() {
	case "add":
		var p AddPayload
		if err := json.Unmarshal(msg.Body, &p); err != nil {
			return fmt.Errorf("decode add payload: %w", err)
		}
		n.value += p.Delta
		return n.node.Reply(msg, AddOkPayload{})
	case "read":
		return n.node.Reply(msg, ReadOkPayload{Value: n.value})
	case "add_ok", "read_ok":
		return nil
	default:
		return fmt.Errorf("g-counter: unexpected message type %q", msg.Type())
	}
}
