// Package topology builds a deterministic Watts–Strogatz small-world
// neighbor graph for a cluster of n0..n{N-1} nodes. Every node derives
// the same graph independently from (N, L, beta) alone, which is what
// lets the broadcast workload discard whatever topology the harness
// handed it and substitute one with better gossip properties.
package topology

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/polaris-labs/gossip-glomers/internal/xoshiro256"
)

// Seed is the fixed PRNG seed every node must use so that independently
// computed topologies agree byte-for-byte (spec requirement: all nodes
// derive the same graph from the same inputs).
const Seed uint64 = 1

func nodeName(i int) string { return fmt.Sprintf("n%d", i) }

// WattsStrogatz returns a symmetric neighbor map for numNodes nodes,
// built from a ring lattice of localClusterCount clusters and then
// rewired with probability rewireProbability using a PRNG seeded with
// Seed. Self-loops produced by rewiring (a node "rewired" to itself) are
// tolerated, matching the reference behavior this generator is modeled
// on: they are absorbed harmlessly by set semantics rather than
// special-cased.
func WattsStrogatz(numNodes, localClusterCount int, rewireProbability float64) map[string]mapset.Set[string] {
	nodes := make(map[string]mapset.Set[string], numNodes)
	for i := 0; i < numNodes; i++ {
		nodes[nodeName(i)] = mapset.NewThreadUnsafeSet[string]()
	}

	if numNodes == 0 || localClusterCount <= 0 {
		return nodes
	}

	k := numNodes / localClusterCount

	// Ring lattice: each node connects to its k clockwise neighbors,
	// and the edge is added on both ends so the graph is symmetric.
	for i := 0; i < numNodes; i++ {
		for j := 1; j <= k; j++ {
			neighbor := (i + j) % numNodes
			a, b := nodeName(i), nodeName(neighbor)
			nodes[a].Add(b)
			nodes[b].Add(a)
		}
	}

	// Deterministic rewiring: every unordered pair (i, j), i < j, is
	// independently rewired with probability rewireProbability.
	rng := xoshiro256.New(Seed)
	for i := 0; i < numNodes; i++ {
		for j := i + 1; j < numNodes; j++ {
			if rng.Float64() >= rewireProbability {
				continue
			}
			a, b := nodeName(i), nodeName(j)
			nodes[a].Remove(b)
			nodes[b].Remove(a)

			newNeighbor := nodeName(rng.Intn(numNodes))
			nodes[a].Add(newNeighbor)
			nodes[newNeighbor].Add(a)
		}
	}

	return nodes
}
