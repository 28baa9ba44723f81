// Command broadcast runs the gossip-broadcast workload as a standalone
// Maelstrom node binary, speaking the protocol over stdin/stdout.
package main

import (
	"github.com/polaris-labs/gossip-glomers/broadcast"
	"github.com/polaris-labs/gossip-glomers/internal/nodelog"
	maelstrom "github.com/polaris-labs/gossip-glomers/maelstrom"
)

func main() {
	if err := maelstrom.Run(broadcast.New); err != nil {
		nodelog.Logger.Fatal().Err(err).Msg("node exited")
	}
}
