// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package scheduler

import (
	"github.com/hashicorp/nomad-batchsim/structs"
)

// ClusterSpec is the shape of the node pool for a run.
type ClusterSpec struct {
	NodeCount    int
	NodeCPU      int
	NodeMemoryGB int
}

// DefaultClusterSpec returns 128 nodes of 24 cores and 64 GB each.
func DefaultClusterSpec() ClusterSpec {
	return ClusterSpec{
		NodeCount:    structs.DefaultNodeCount,
		NodeCPU:      structs.DefaultNodeCPU,
		NodeMemoryGB: structs.DefaultNodeMemoryGB,
	}
}

// State owns the job list and the node pool of a single run. A new State is
// built for every run so independent runs never share nodes.
type State struct {
	jobs  []*structs.Job
	nodes []*structs.Node
}

// NewState creates a State with an empty job list and a pool of identical
// nodes at full capacity.
func NewState(spec ClusterSpec) *State {
	nodes := make([]*structs.Node, 0, spec.NodeCount)
	for i := 0; i < spec.NodeCount; i++ {
		nodes = append(nodes, structs.NewNode(i+1, spec.NodeCPU, spec.NodeMemoryGB))
	}
	return &State{
		jobs:  []*structs.Job{},
		nodes: nodes,
	}
}

// NewStateWithNodes creates a State over an existing node pool.
func NewStateWithNodes(nodes []*structs.Node) *State {
	return &State{
		jobs:  []*structs.Job{},
		nodes: nodes,
	}
}

// SetJobs replaces the job list. The slice is copied so ordering the queue
// does not reorder the caller's slice.
func (s *State) SetJobs(jobs []*structs.Job) {
	s.jobs = append(make([]*structs.Job, 0, len(jobs)), jobs...)
}

// Jobs returns the job list in its current order.
func (s *State) Jobs() []*structs.Job {
	return s.jobs
}

// Nodes returns the node pool in index order.
func (s *State) Nodes() []*structs.Node {
	return s.nodes
}

// NodeByIndex returns the node at the given 1-based position, or nil.
func (s *State) NodeByIndex(index int) *structs.Node {
	if index < 1 || index > len(s.nodes) {
		return nil
	}
	return s.nodes[index-1]
}
