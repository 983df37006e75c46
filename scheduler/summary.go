// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package scheduler

import (
	"github.com/hashicorp/go-set/v3"
	"github.com/hashicorp/nomad-batchsim/structs"
)

// Summary aggregates the outcome of a pass for human consumption.
type Summary struct {
	QueuePolicy      string
	AllocationPolicy string

	JobsTotal     int
	JobsAllocated int
	JobsRejected  int
	JobsReleased  int

	NodesTotal int
	NodesUsed  int

	Capacity  structs.Resources
	Available structs.Resources
}

// Summarize walks the final node state and the plan.
func Summarize(state *State, plan *Plan) *Summary {
	sum := &Summary{
		QueuePolicy:      plan.QueuePolicy.String(),
		AllocationPolicy: plan.AllocationPolicy.String(),
		JobsTotal:        len(plan.Placements),
		NodesTotal:       len(state.Nodes()),
	}

	used := set.New[int](len(plan.NodeAllocation))
	for _, placement := range plan.Placements {
		switch placement.Status {
		case structs.JobStatusAllocated:
			sum.JobsAllocated++
			used.Insert(placement.NodeIndex)
		case structs.JobStatusRejected:
			sum.JobsRejected++
		case structs.JobStatusReleased:
			sum.JobsReleased++
		}
	}
	sum.NodesUsed = used.Size()

	for _, node := range state.Nodes() {
		sum.Capacity.Add(&node.Capacity)
		sum.Available.Add(&node.Available)
	}
	return sum
}

// CPUUtilization is the fraction of cluster cores handed out.
func (s *Summary) CPUUtilization() float64 {
	return utilization(s.Capacity.CPU, s.Available.CPU)
}

// MemoryUtilization is the fraction of cluster memory handed out.
func (s *Summary) MemoryUtilization() float64 {
	return utilization(s.Capacity.MemoryGB, s.Available.MemoryGB)
}

func utilization(capacity, available int) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(capacity-available) / float64(capacity)
}
