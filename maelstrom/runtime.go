package maelstrom

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/polaris-labs/gossip-glomers/internal/nodelog"
	"github.com/rs/zerolog"
)

const (
	maxLineSize    = 1 << 20
	eventQueueSize = 64
)

// Run performs the full node lifecycle against the process's real stdin
// and stdout: read the init handshake, build the workload's Handler via
// factory, acknowledge init, then drain events (stdin traffic
// interleaved with whatever a workload's timers generate) until either a
// Handler.Step call returns an error or stdin reaches EOF.
func Run(factory Factory) error {
	return RunWith(os.Stdin, os.Stdout, factory)
}

// RunWith is Run with the stdin/stdout streams supplied explicitly, so
// tests can drive a node end to end without touching the process's real
// file descriptors.
func RunWith(stdin io.Reader, stdout io.Writer, factory Factory) error {
	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read init message: %w", err)
		}
		return fmt.Errorf("no init message received")
	}

	var initMsg Message
	if err := json.Unmarshal(scanner.Bytes(), &initMsg); err != nil {
		return fmt.Errorf("decode init message: %w", err)
	}

	var header Header
	if err := json.Unmarshal(initMsg.Body, &header); err != nil {
		return fmt.Errorf("decode init header: %w", err)
	}
	if header.Type != "init" {
		return fmt.Errorf("protocol violation: first message must be init, got %q", header.Type)
	}

	var initBody InitPayload
	if err := json.Unmarshal(initMsg.Body, &initBody); err != nil {
		return fmt.Errorf("decode init body: %w", err)
	}

	node := &Node{stdout: stdout, id: initBody.NodeID, nodeIDs: initBody.NodeIDs}
	log := nodelog.WithNode(node.id)

	events := make(chan Event, eventQueueSize)
	done := make(chan struct{})
	sender := EventSender{events: events, done: done}
	// Closing done is what lets a workload's timer goroutines notice
	// shutdown and stop trying to send, per the cooperative-cancellation
	// contract on EventSender.Send.
	defer close(done)

	handler, err := factory(initBody, node, sender)
	if err != nil {
		return fmt.Errorf("construct handler: %w", err)
	}

	if err := node.emitInitOK(initMsg, header.MsgID); err != nil {
		return fmt.Errorf("emit init_ok: %w", err)
	}
	log.Info().Strs("node_ids", initBody.NodeIDs).Msg("node initialized")

	go readLoop(scanner, sender, log)

	for ev := range events {
		if err := handler.Step(ev); err != nil {
			return fmt.Errorf("handler step: %w", err)
		}
		// Stdin is exhausted and will never produce another
		// MessageEvent. The handler has already observed
		// EndOfMessagesEvent and had its chance to react; nothing
		// further will arrive from the client or peers, so the loop
		// (and any timer goroutines, via the deferred close(done))
		// winds down here rather than idling forever.
		if _, ok := ev.(EndOfMessagesEvent); ok {
			return nil
		}
	}
	return nil
}

// readLoop is the single stdin-reader task: it decodes one Message per
// line and pushes a MessageEvent, in arrival order. A malformed line is
// a framing error and is fatal for the whole process, per the error
// taxonomy. On EOF it pushes EndOfMessagesEvent and returns.
func readLoop(scanner *bufio.Scanner, sender EventSender, log zerolog.Logger) {
	for scanner.Scan() {
		line := append([]byte(nil), scanner.Bytes()...)

		var msg Message
		if err := json.Unmarshal(line, &msg); err != nil {
			log.Fatal().Err(err).Str("line", string(line)).Msg("malformed message on stdin")
		}

		if !sender.Send(MessageEvent{Msg: msg}) {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		log.Fatal().Err(err).Msg("reading stdin")
	}

	sender.Send(EndOfMessagesEvent{})
}
