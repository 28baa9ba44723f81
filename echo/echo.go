// Package echo implements the trivial echo workload: reply to every
// "echo" request with the same text, tagged "echo_ok".
package echo

import (
	"encoding/json"
	"fmt"

	maelstrom "github.com/polaris-labs/gossip-glomers/maelstrom"
)

// Payload is the body of an incoming "echo" request.
type Payload struct {
	Echo string `json:"echo"`
}

// Type implements maelstrom.Payload.
func (Payload) Type() string { return "echo" }

// OkPayload is the body of the "echo_ok" reply.
type OkPayload struct {
	Echo string `json:"echo"`
}

// Type implements maelstrom.Payload.
func (OkPayload) Type() string { return "echo_ok" }

// Node is the echo workload's Handler. It keeps no state beyond the
// maelstrom.Node it replies through.
type Node struct {
	node *maelstrom.Node
}

// New is a maelstrom.Factory for the echo workload.
func New(_ maelstrom.InitPayload, node *maelstrom.Node, _ maelstrom.EventSender) (maelstrom.Handler, error) {
	return &Node{node: node}, nil
}

// Step implements maelstrom.Handler.
func (n *Node) Step(ev maelstrom.Event) error {
	msgEv, ok := ev.(maelstrom.MessageEvent)
	if !ok {
		return nil
	}
	msg := msgEv.Msg

	switch msg.Type() {
	case "echo":
		var p Payload
		if err := json.Unmarshal(msg.Body, &p); err != nil {
			return fmt.Errorf("decode echo payload: %w", err)
		}
		return n.node.Reply(msg, OkPayload{Echo: p.Echo})
	case "echo_ok":
		return nil
	default:
		return fmt.Errorf("echo: unexpected message type %q", msg.Type())
	}
}
