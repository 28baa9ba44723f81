// Command unique-ids runs the unique-id-generation workload as a
// standalone Maelstrom node binary, speaking the protocol over
// stdin/stdout.
package main

import (
	"github.com/polaris-labs/gossip-glomers/internal/nodelog"
	maelstrom "github.com/polaris-labs/gossip-glomers/maelstrom"
	"github.com/polaris-labs/gossip-glomers/uniqueid"
)

func main() {
	if err := maelstrom.Run(uniqueid.New); err != nil {
		nodelog.Logger.Fatal().Err(err).Msg("node exited")
	}
}
