// Package broadcast implements the gossip-broadcast workload: every node
// accepts "broadcast" messages from clients, and propagates them to its
// neighbors until every node in the cluster has seen every message.
// Neighbors are not whatever the harness's "topology" message assigns;
// each node discards that and substitutes a Watts–Strogatz small-world
// graph it derives on its own, trading a little gossip redundancy for a
// much shorter worst-case propagation diameter.
package broadcast

import (
	"encoding/json"
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
	"golang.org/x/exp/maps"

	maelstrom "github.com/polaris-labs/gossip-glomers/maelstrom"
	"github.com/polaris-labs/gossip-glomers/topology"
)

// propagationInterval is how often a node resends whatever messages its
// neighbors don't yet know about. 450ms matches the reference workload's
// own propagation delay.
const propagationInterval = 450 * time.Millisecond

// localClusterCount is the L parameter handed to topology.WattsStrogatz:
// each node starts wired to 2*(numNodes/L) ring-lattice neighbors before
// rewiring.
const localClusterCount = 4

// rewireProbability is the beta parameter handed to topology.WattsStrogatz.
const rewireProbability = 0.3

// BroadcastPayload is the body of an incoming "broadcast" request.
type BroadcastPayload struct {
	Message uint64 `json:"message"`
}

// Type implements maelstrom.Payload.
func (BroadcastPayload) Type() string { return "broadcast" }

// BroadcastOkPayload is the body of the "broadcast_ok" reply.
type BroadcastOkPayload struct{}

// Type implements maelstrom.Payload.
func (BroadcastOkPayload) Type() string { return "broadcast_ok" }

// ReadPayload is the body of an incoming "read" request.
type ReadPayload struct{}

// Type implements maelstrom.Payload.
func (ReadPayload) Type() string { return "read" }

// ReadOkPayload is the body of the "read_ok" reply: every message this
// node has observed so far.
type ReadOkPayload struct {
	Messages []uint64 `json:"messages"`
}

// Type implements maelstrom.Payload.
func (ReadOkPayload) Type() string { return "read_ok" }

// TopologyPayload is the body of the harness's "topology" request. Only
// its node count is used; the neighbor lists it carries are ignored and
// replaced by this workload's own Watts–Strogatz graph.
type TopologyPayload struct {
	Topology map[string][]string `json:"topology"`
}

// Type implements maelstrom.Payload.
func (TopologyPayload) Type() string { return "topology" }

// TopologyOkPayload is the body of the "topology_ok" reply.
type TopologyOkPayload struct{}

// Type implements maelstrom.Payload.
func (TopologyOkPayload) Type() string { return "topology_ok" }

// SharePayload is peer-to-peer gossip traffic: the sender's belief about
// which messages the recipient might be missing.
type SharePayload struct {
	Messages []uint64 `json:"messages"`
}

// Type implements maelstrom.Payload.
func (SharePayload) Type() string { return "share" }

// ShareOkPayload acknowledges a SharePayload by echoing back the set of
// messages the sender offered, letting the sender update its own
// knownByNode accounting for that peer without a separate round trip.
type ShareOkPayload struct {
	Messages []uint64 `json:"messages"`
}

// Type implements maelstrom.Payload.
func (ShareOkPayload) Type() string { return "share_ok" }

// Node is the broadcast workload's Handler. Step is its only state-owning
// entry point; the propagate goroutine only ever talks to it indirectly,
// through GeneratedEvent values pushed over the event channel.
type Node struct {
	node *maelstrom.Node

	messages  mapset.Set[uint64]
	neighbors mapset.Set[string]

	// knownByNode tracks, per peer, which messages that peer is known to
	// already have — so propagation only ever sends the difference.
	knownByNode map[string]mapset.Set[uint64]
}

// New is a maelstrom.Factory for the broadcast workload. It seeds an
// initial (fully-connected) neighbor set from init.NodeIDs, which the
// first "topology" message immediately replaces, and starts the
// background propagation timer.
func New(init maelstrom.InitPayload, node *maelstrom.Node, events maelstrom.EventSender) (maelstrom.Handler, error) {
	n := &Node{
		node:        node,
		messages:    mapset.NewThreadUnsafeSet[uint64](),
		neighbors:   mapset.NewThreadUnsafeSet[string](),
		knownByNode: make(map[string]mapset.Set[uint64], len(init.NodeIDs)),
	}

	lo.ForEach(init.NodeIDs, func(id string, _ int) {
		if id == node.ID() {
			return
		}
		n.neighbors.Add(id)
		n.knownByNode[id] = mapset.NewThreadUnsafeSet[uint64]()
	})

	go n.propagate(events)

	return n, nil
}

// propagate ticks every propagationInterval and feeds a GeneratedEvent
// back into the handler's own event loop, which is the only goroutine
// allowed to touch Node's state. It exits once EventSender.Send reports
// the runtime is shutting down.
func (n *Node) propagate(events maelstrom.EventSender) {
	ticker := time.NewTicker(propagationInterval)
	defer ticker.Stop()

	for range ticker.C {
		if !events.Send(maelstrom.GeneratedEvent{Payload: SharePayload{}}) {
			return
		}
	}
}

// Step implements maelstrom.Handler.
func (n *Node) Step(ev maelstrom.Event) error {
	switch e := ev.(type) {
	case maelstrom.EndOfMessagesEvent:
		return nil
	case maelstrom.GeneratedEvent:
		if _, ok := e.Payload.(SharePayload); ok {
			return n.onTick()
		}
		return nil
	case maelstrom.MessageEvent:
		return n.onMessage(e.Msg)
	default:
		return nil
	}
}

// onTick sends every neighbor the messages this node believes they don't
// know about yet. A neighbor with nothing new owed to it is skipped
// entirely rather than sent an empty share.
func (n *Node) onTick() error {
	var sendErr error
	n.neighbors.Each(func(peer string) bool {
		known, ok := n.knownByNode[peer]
		if !ok {
			known = mapset.NewThreadUnsafeSet[uint64]()
			n.knownByNode[peer] = known
		}

		owed := n.messages.Difference(known)
		if owed.Cardinality() == 0 {
			return false
		}

		if err := n.node.Send(peer, SharePayload{Messages: owed.ToSlice()}); err != nil {
			sendErr = fmt.Errorf("send share to %s: %w", peer, err)
			return true
		}
		return false
	})
	return sendErr
}

// onMessage dispatches a single decoded Message by its wire type.
func (n *Node) onMessage(msg maelstrom.Message) error {
	switch msg.Type() {
	case "broadcast":
		var p BroadcastPayload
		if err := json.Unmarshal(msg.Body, &p); err != nil {
			return fmt.Errorf("decode broadcast payload: %w", err)
		}
		n.messages.Add(p.Message)
		return n.node.Reply(msg, BroadcastOkPayload{})

	case "read":
		return n.node.Reply(msg, ReadOkPayload{Messages: n.messages.ToSlice()})

	case "topology":
		var p TopologyPayload
		if err := json.Unmarshal(msg.Body, &p); err != nil {
			return fmt.Errorf("decode topology payload: %w", err)
		}
		n.adoptTopology(len(p.Topology))
		return n.node.Reply(msg, TopologyOkPayload{})

	case "share":
		var p SharePayload
		if err := json.Unmarshal(msg.Body, &p); err != nil {
			return fmt.Errorf("decode share payload: %w", err)
		}
		n.absorb(msg.Src, p.Messages)
		return n.node.Reply(msg, ShareOkPayload{Messages: p.Messages})

	case "share_ok":
		var p ShareOkPayload
		if err := json.Unmarshal(msg.Body, &p); err != nil {
			return fmt.Errorf("decode share_ok payload: %w", err)
		}
		n.markKnown(msg.Src, p.Messages)
		return nil

	case "broadcast_ok", "read_ok", "topology_ok", "echo_ok", "generate_ok":
		return nil

	default:
		return fmt.Errorf("broadcast: unexpected message type %q", msg.Type())
	}
}

// adoptTopology replaces whatever neighbor set this node started with by
// deriving a fresh Watts–Strogatz graph over numNodes nodes and keeping
// only this node's own row. The generator tolerates self-loops (see
// topology.WattsStrogatz); this is the point where that tolerance is
// resolved, by explicitly stripping self before the result becomes this
// node's neighbor set, so the "a node is never its own neighbor"
// invariant holds for everything Step ever sees.
func (n *Node) adoptTopology(numNodes int) {
	graph := topology.WattsStrogatz(numNodes, localClusterCount, rewireProbability)

	row, ok := graph[n.node.ID()]
	if !ok {
		return
	}
	row.Remove(n.node.ID())

	n.neighbors = row
	n.neighbors.Each(func(peer string) bool {
		if _, ok := n.knownByNode[peer]; !ok {
			n.knownByNode[peer] = mapset.NewThreadUnsafeSet[uint64]()
		}
		return false
	})
}

// absorb merges a peer's offered messages into both this node's own
// message set and that peer's known-to accounting: a peer that told us
// about a message obviously already has it.
func (n *Node) absorb(peer string, offered []uint64) {
	known, ok := n.knownByNode[peer]
	if !ok {
		known = mapset.NewThreadUnsafeSet[uint64]()
		n.knownByNode[peer] = known
	}
	for _, m := range offered {
		n.messages.Add(m)
		known.Add(m)
	}
}

// markKnown records that peer has confirmed receipt of the given
// messages, without touching this node's own message set.
func (n *Node) markKnown(peer string, confirmed []uint64) {
	known, ok := n.knownByNode[peer]
	if !ok {
		known = mapset.NewThreadUnsafeSet[uint64]()
		n.knownByNode[peer] = known
	}
	for _, m := range confirmed {
		known.Add(m)
	}
}

// Neighbors returns this node's current neighbor ids, letting tests
// assert on topology substitution without reaching into unexported
// fields directly.
func (n *Node) Neighbors() []string {
	return n.neighbors.ToSlice()
}

// Peers returns the peer ids this node currently tracks known-by state
// for, letting tests assert on gossip bookkeeping without reaching into
// unexported fields directly.
func (n *Node) Peers() []string {
	return maps.Keys(n.knownByNode)
}
