// Command echo runs the echo workload as a standalone Maelstrom node
// binary, speaking the protocol over stdin/stdout.
package main

import (
	"github.com/polaris-labs/gossip-glomers/echo"
	"github.com/polaris-labs/gossip-glomers/internal/nodelog"
	maelstrom "github.com/polaris-labs/gossip-glomers/maelstrom"
)

func main() {
	if err := maelstrom.Run(echo.New); err != nil {
		nodelog.Logger.Fatal().Err(err).Msg("node exited")
	}
}
