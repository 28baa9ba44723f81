// Package uniqueid implements the unique-id-generation workload: every
// "generate" request gets back a process-wide-unique id.
package uniqueid

import (
	"fmt"

	"github.com/google/uuid"

	maelstrom "github.com/polaris-labs/gossip-glomers/maelstrom"
)

// Payload is the (empty) body of a "generate" request.
type Payload struct{}

// Type implements maelstrom.Payload.
func (Payload) Type() string { return "generate" }

// OkPayload is the body of the "generate_ok" reply.
type OkPayload struct {
	ID string `json:"id"`
}

// Type implements maelstrom.Payload.
func (OkPayload) Type() string { return "generate_ok" }

// Node is the unique-ids workload's Handler.
type Node struct {
	node *maelstrom.Node

	// localID counts minted ids: it starts at 1 and is incremented
	// before each mint, and its value fills every byte of the minted
	// UUID's node-id field.
	localID uint8
}

// New is a maelstrom.Factory for the unique-ids workload.
func New(_ maelstrom.InitPayload, node *maelstrom.Node, _ maelstrom.EventSender) (maelstrom.Handler, error) {
	return &Node{node: node, localID: 1}, nil
}

// Step implements maelstrom.Handler.
func (n *Node) Step(ev maelstrom.Event) error {
	msgEv, ok := ev.(maelstrom.MessageEvent)
	if !ok {
		return nil
	}
	msg := msgEv.Msg

	switch msg.Type() {
	case "generate":
		id, err := n.mintID()
		if err != nil {
			return fmt.Errorf("mint uuid: %w", err)
		}
		return n.node.Reply(msg, OkPayload{ID: id})
	case "generate_ok":
		return nil
	default:
		return fmt.Errorf("unique_ids: unexpected message type %q", msg.Type())
	}
}

// mintID returns a version-1, time-based UUID. Its 6-byte node
// identifier is derived from this node's own outgoing counter byte,
// replicated across all six bytes, rather than a random or MAC-derived
// value.
//
// This preserves a known limitation from the reference behavior rather
// than silently fixing it: the guarantee is uniqueness "good enough" for
// the harness's checks under normal operation, not a cryptographic or
// registry-grade one. Two nodes whose counters happen to coincide on the
// low byte at the same 100ns timestamp tick could in principle collide;
// the spec calls this out explicitly as an accepted caveat, not a defect
// to engineer away.
func (n *Node) mintID() (string, error) {
	n.localID++

	var nodeID [6]byte
	for i := range nodeID {
		nodeID[i] = n.localID
	}
	uuid.SetNodeID(nodeID[:])

	id, err := uuid.NewUUID()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
