// Package topology implements the inter-satellite link graph: a static,
// undirected adjacency between satellites with four named neighbor slots
// (next, prev, left, right) and shortest-hop resolution against a replica
// directory (spec.md §4.4).
//
// The original CosmicBeats Topology.get_ISL_dist memoizes per-source BFS
// results lazily behind a lock; here the graph is static for a run
// (spec.md §3's Lifecycle: "ISLGraph [is] created at topology construction
// ... [n]othing is destroyed until run end"), so all-pairs distances are
// precomputed once at construction instead — satisfying spec.md §5's
// "either protect with its own lock or pre-compute all-pairs BFS at graph
// load" without needing a lock on the hot read path at all.
package topology

import "math"

// Neighbor identifies one of the four fixed ISL slots. Iteration and
// tie-break order is always Next, Prev, Left, Right (spec.md §4.4).
type Neighbor int

const (
	Next Neighbor = iota
	Prev
	Left
	Right
	numNeighbors
)

// Unreachable represents "no path" for HopDistance and ShortestReplicaHop.
const Unreachable = math.MaxInt32

// ISLGraph is the undirected, static inter-satellite link graph.
type ISLGraph struct {
	// adjacency[sat][slot] is the neighbor satellite ID in that slot, or
	// -1 if the slot is absent for sat.
	adjacency map[int][4]int
	dist      map[int]map[int]int
}

// NewISLGraph builds an ISLGraph from an adjacency map keyed by satellite
// ID, each value a 4-element [next, prev, left, right] neighbor list
// (-1 for "no neighbor" in that slot), and precomputes all-pairs BFS
// distances immediately.
func NewISLGraph(adjacency map[int][4]int) *ISLGraph {
	g := &ISLGraph{
		adjacency: adjacency,
		dist:      make(map[int]map[int]int, len(adjacency)),
	}
	for sat := range adjacency {
		g.dist[sat] = g.bfs(sat)
	}
	return g
}

// bfs computes shortest hop distances from source to every reachable
// satellite, iterating each node's neighbors in the fixed
// Next, Prev, Left, Right order for determinism (spec.md §4.4).
func (g *ISLGraph) bfs(source int) map[int]int {
	dist := map[int]int{source: 0}
	queue := []int{source}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.adjacency[cur] {
			if n < 0 {
				continue
			}
			if _, seen := dist[n]; seen {
				continue
			}
			dist[n] = dist[cur] + 1
			queue = append(queue, n)
		}
	}
	return dist
}

// Neighbors returns the four neighbor slots for sat: next, prev, left,
// right. A slot value of -1 means that slot is absent.
func (g *ISLGraph) Neighbors(sat int) [4]int {
	return g.adjacency[sat]
}

// HopDistance returns the shortest-path hop count between from and to,
// or Unreachable if to cannot be reached from from. HopDistance(x, x) == 0.
func (g *ISLGraph) HopDistance(from, to int) int {
	d, ok := g.dist[from]
	if !ok {
		return Unreachable
	}
	hops, ok := d[to]
	if !ok {
		return Unreachable
	}
	return hops
}

// HolderSource supplies the current holder list for a ContentID; it is
// satisfied by *directory.Directory without topology importing directory,
// keeping this package dependency-free of the replica directory's
// concurrency concerns.
type HolderSource interface {
	Holders(id string) []int
}

// ShortestReplicaHop finds, among directory's current holders of
// contentID, the one nearest to from by ISL hop count. It returns the
// minimum hop count and, only when that minimum is <= 1, the neighbor
// slot that reaches it (ties broken in Next, Prev, Left, Right order, per
// spec.md §4.4). When the minimum exceeds 1, or there are no holders,
// viaNeighbor is -1 and ok is false.
func (g *ISLGraph) ShortestReplicaHop(from int, contentID string, holders HolderSource) (hops int, via Neighbor, ok bool) {
	minHops := Unreachable
	for _, h := range holders.Holders(contentID) {
		if d := g.HopDistance(from, h); d < minHops {
			minHops = d
		}
	}
	if minHops > 1 {
		return minHops, -1, false
	}
	neighbors := g.adjacency[from]
	for slot := Neighbor(0); int(slot) < int(numNeighbors); slot++ {
		n := neighbors[slot]
		if n < 0 {
			continue
		}
		if g.HopDistance(from, n) == minHops && contains(holders.Holders(contentID), n) {
			return minHops, slot, true
		}
	}
	return minHops, -1, false
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
