// Package nodelog provides the diagnostic logger shared by every node
// binary. Protocol frames are the only thing allowed on stdout, so all
// logging here goes to stderr; the harness never parses it.
package nodelog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide diagnostic logger. It is never reassigned;
// WithNode derives a node-tagged child from it once a node's identity is
// known.
var Logger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.RFC3339,
}).With().Timestamp().Logger()

// WithNode returns a child logger tagged with the node's id, for use
// once the init handshake has completed.
func WithNode(nodeID string) zerolog.Logger {
	return Logger.With().Str("node_id", nodeID).Logger()
}
