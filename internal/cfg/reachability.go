// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cfg

// ComputeReachability performs a forward traversal from the entry node and
// latches Reachable on every node it visits. It is idempotent and safe to
// call again after mutating the graph.
func ComputeReachability(g *Graph) {
	for _, n := range g.Nodes {
		n.Reachable = false
	}
	queue := []int{g.EntryID}
	g.Nodes[g.EntryID].Reachable = true
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, succ := range g.Nodes[id].Succs {
			if !g.Nodes[succ].Reachable {
				g.Nodes[succ].Reachable = true
				queue = append(queue, succ)
			}
		}
	}
}

// UnreachableNodes returns every node with Reachable == false, excluding the
// exit node (which may be structurally unreachable for an infinite loop
// without making the function itself ill-formed).
func UnreachableNodes(g *Graph) []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.ID == g.ExitID {
			continue
		}
		if !n.Reachable {
			out = append(out, n)
		}
	}
	return out
}

// AllPathsReachExit reports whether the exit node is reachable from entry.
func AllPathsReachExit(g *Graph) bool {
	return g.Exit().Reachable
}
