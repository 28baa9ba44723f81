package maelstrom

import "encoding/json"

// Message is the envelope exchanged between nodes, and between a node and
// the client, over stdin/stdout. Body is kept as raw JSON: the header
// (type/msg_id/in_reply_to) is decoded first to route the message, and
// the payload-specific fields are decoded a second time by whichever
// handler owns that payload type.
type Message struct {
	Src  string          `json:"src,omitempty"`
	Dest string          `json:"dest,omitempty"`
	Body json.RawMessage `json:"body"`
}

// Header holds the fields common to every message body, regardless of
// payload. Unmarshal a Message.Body into a Header to learn what kind of
// payload follows and how to correlate it, before decoding the payload
// itself.
type Header struct {
	Type      string `json:"type"`
	MsgID     int64  `json:"msg_id,omitempty"`
	InReplyTo int64  `json:"in_reply_to,omitempty"`
}

// Type returns the "type" tag carried in the message body, or "" if the
// body is malformed.
func (m Message) Type() string {
	var h Header
	if err := json.Unmarshal(m.Body, &h); err != nil {
		return ""
	}
	return h.Type
}

// Payload is implemented by every message-body variant a node sends or
// receives. Type returns the wire "type" tag for that variant; the
// remaining fields are serialized as flattened siblings of type/msg_id/
// in_reply_to.
type Payload interface {
	Type() string
}

// InitPayload is the body of the handshake message every node receives
// as its very first input line.
type InitPayload struct {
	NodeID  string   `json:"node_id"`
	NodeIDs []string `json:"node_ids"`
}

// Type implements Payload.
func (InitPayload) Type() string { return "init" }
