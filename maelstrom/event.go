package maelstrom

// Event is implemented by every value that can flow through the event
// channel feeding a Handler. Go has no built-in sum type, so this
// follows the tagged-variant pattern of a private marker method over a
// closed set of concrete types, each carrying exactly the data its kind
// needs.
type Event interface {
	isEvent()
}

// MessageEvent wraps a decoded incoming Message: either a request from
// the client, or peer gossip traffic.
type MessageEvent struct {
	Msg Message
}

// GeneratedEvent wraps a payload fabricated internally, typically by a
// periodic timer goroutine a workload's constructor spawned.
type GeneratedEvent struct {
	Payload Payload
}

// EndOfMessagesEvent signals that the stdin reader has hit EOF and will
// never push another MessageEvent. Workloads are not required to stop
// any periodic work they started: RunWith returns as soon as the handler
// has stepped this event, which also stops timer goroutines through
// EventSender.Send.
type EndOfMessagesEvent struct{}

func (MessageEvent) isEvent()       {}
func (GeneratedEvent) isEvent()     {}
func (EndOfMessagesEvent) isEvent() {}

// Handler is implemented by each workload's node state machine. Step is
// called once per event, strictly sequentially: it is the single owner
// of whatever state the workload keeps, and never runs concurrently with
// itself. A returned error is fatal and aborts the whole process.
type Handler interface {
	Step(ev Event) error
}

// Factory constructs a Handler once the init handshake has completed.
// node is the caller's handle for Reply/Send; events lets the
// constructor spawn timer goroutines that feed GeneratedEvent values
// back into the same loop Step is called from.
type Factory func(init InitPayload, node *Node, events EventSender) (Handler, error)

// EventSender is the producer handle passed to a Factory so it can spawn
// timer goroutines that push GeneratedEvent values. Send blocks until
// either the event is delivered or the runtime is shutting down, at
// which point it returns false; a timer goroutine should treat false as
// its cue to exit.
type EventSender struct {
	events chan<- Event
	done   <-chan struct{}
}

// Send delivers ev to the handler's event loop. It returns false,
// without delivering ev, once the runtime has begun shutting down.
func (s EventSender) Send(ev Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}
