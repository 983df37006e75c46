// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package mock provides jobs and nodes for tests.
package mock

import (
	"github.com/hashicorp/nomad-batchsim/structs"
)

// Node returns a node with the default capacity at position 1.
func Node() *structs.Node {
	return structs.NewNode(1, structs.DefaultNodeCPU, structs.DefaultNodeMemoryGB)
}

// Nodes returns n nodes with the default capacity, indexed from 1.
func Nodes(n int) []*structs.Node {
	return NodesWithCapacity(n, structs.DefaultNodeCPU, structs.DefaultNodeMemoryGB)
}

// NodesWithCapacity returns n identical nodes, indexed from 1.
func NodesWithCapacity(n, cpu, memoryGB int) []*structs.Node {
	nodes := make([]*structs.Node, 0, n)
	for i := 0; i < n; i++ {
		nodes = append(nodes, structs.NewNode(i+1, cpu, memoryGB))
	}
	return nodes
}

// JobWith returns a job with the given id and demand.
func JobWith(id, mem, cpu, exe int) *structs.Job {
	return structs.NewJob(id, 1, 0, mem, cpu, exe)
}
