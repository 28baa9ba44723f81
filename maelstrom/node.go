package maelstrom

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Node is the handle a workload uses to learn its identity and to emit
// messages. It owns the single mutex around stdout; the event-loop
// goroutine is the only caller after init, so in practice the lock is
// uncontended, but it keeps the contract explicit the way the teacher's
// own Node.Send does.
type Node struct {
	mu      sync.Mutex
	stdout  io.Writer
	id      string
	nodeIDs []string
	replyID int64
}

// ID returns this node's identifier, as assigned by the init handshake.
func (n *Node) ID() string { return n.id }

// NodeIDs returns every node id in the cluster, init's own order,
// including this node.
func (n *Node) NodeIDs() []string { return n.nodeIDs }

// Reply answers req with payload, stamping a fresh, strictly-increasing
// msg_id and the in_reply_to of req's own msg_id.
func (n *Node) Reply(req Message, payload Payload) error {
	var h Header
	if err := json.Unmarshal(req.Body, &h); err != nil {
		return fmt.Errorf("decode request header: %w", err)
	}

	n.mu.Lock()
	n.replyID++
	id := n.replyID
	n.mu.Unlock()

	return n.send(req.Src, payload, id, h.MsgID)
}

// Send emits a fire-and-forget message to dest: no msg_id, no
// in_reply_to. Used for propagation traffic that expects no reply.
func (n *Node) Send(dest string, payload Payload) error {
	return n.send(dest, payload, 0, 0)
}

// send marshals payload, flattens it alongside type/msg_id/in_reply_to,
// and writes the resulting line to stdout. This is the teacher's own
// marshal-to-map-then-inject trick (see the original node.go's Reply and
// Send), generalized from an open `any` body to the closed Payload set
// every workload here uses.
func (n *Node) send(dest string, payload Payload, msgID, inReplyTo int64) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	body := make(map[string]any)
	if err := json.Unmarshal(raw, &body); err != nil {
		return fmt.Errorf("flatten payload: %w", err)
	}
	body["type"] = payload.Type()
	if msgID != 0 {
		body["msg_id"] = msgID
	}
	if inReplyTo != 0 {
		body["in_reply_to"] = inReplyTo
	}

	bodyBuf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	return n.emit(Message{Src: n.id, Dest: dest, Body: bodyBuf})
}

// emitInitOK sends the mandatory init_ok acknowledgment. Unlike every
// other outgoing message, its msg_id is a literal 0, never omitted, and
// it bypasses the normal reply counter entirely.
func (n *Node) emitInitOK(req Message, reqMsgID int64) error {
	body := map[string]any{
		"type":        "init_ok",
		"msg_id":      0,
		"in_reply_to": reqMsgID,
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal init_ok body: %w", err)
	}
	return n.emit(Message{Src: n.id, Dest: req.Src, Body: buf})
}

// emit serializes msg as a single JSON line and writes it to stdout.
// Writes are serialized so concurrent callers can never interleave
// partial frames.
func (n *Node) emit(msg Message) error {
	buf, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, err := n.stdout.Write(buf); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	_, err = n.stdout.Write([]byte{'\n'})
	return err
}
