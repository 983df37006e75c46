// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package scheduler

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hashicorp/nomad-batchsim/structs"
)

var (
	// ErrNotAllocated is returned when releasing a job that does not hold
	// resources on any node.
	ErrNotAllocated = errors.New("job is not allocated")
)

// Placement is the outcome of one job in a scheduling pass.
type Placement struct {
	Job *structs.Job

	// NodeIndex is the 1-based node the job was placed on, zero if the job
	// was rejected.
	NodeIndex int

	Status structs.JobStatus
}

func (p *Placement) GoString() string {
	return fmt.Sprintf("<Placement job=%d node=%d status=%s>", p.Job.ID, p.NodeIndex, p.Status)
}

// Plan is the result of a scheduling pass. Placements are kept in the order
// the jobs were processed.
type Plan struct {
	QueuePolicy      structs.QueuePolicy
	AllocationPolicy structs.AllocationPolicy

	Placements []*Placement

	// NodeAllocation maps a node index to the jobs currently holding
	// resources on it.
	NodeAllocation map[int][]*structs.Job

	// Rejected is the list of jobs no node could take.
	Rejected []*structs.Job
}

// NewPlan returns an empty plan for the given policies.
func NewPlan(queue structs.QueuePolicy, alloc structs.AllocationPolicy) *Plan {
	return &Plan{
		QueuePolicy:      queue,
		AllocationPolicy: alloc,
		Placements:       []*Placement{},
		NodeAllocation:   make(map[int][]*structs.Job),
		Rejected:         []*structs.Job{},
	}
}

// AppendPending queues the job in the plan and returns its placement. The
// placement stays pending until it is allocated or rejected.
func (p *Plan) AppendPending(job *structs.Job) *Placement {
	placement := &Placement{
		Job:    job,
		Status: structs.JobStatusPending,
	}
	p.Placements = append(p.Placements, placement)
	return placement
}

// Allocate records that a pending placement was placed on the node.
func (p *Plan) Allocate(placement *Placement, nodeIndex int) {
	placement.NodeIndex = nodeIndex
	placement.Status = structs.JobStatusAllocated
	p.NodeAllocation[nodeIndex] = append(p.NodeAllocation[nodeIndex], placement.Job)
}

// Reject records that no node could take a pending placement.
func (p *Plan) Reject(placement *Placement) {
	placement.Status = structs.JobStatusRejected
	p.Rejected = append(p.Rejected, placement.Job)
}

// Pending returns the placements not yet decided.
func (p *Plan) Pending() []*Placement {
	var out []*Placement
	for _, placement := range p.Placements {
		if placement.Status == structs.JobStatusPending {
			out = append(out, placement)
		}
	}
	return out
}

// PlacementFor returns the first placement for the job ID, or nil.
func (p *Plan) PlacementFor(jobID int) *Placement {
	for _, placement := range p.Placements {
		if placement.Job.ID == jobID {
			return placement
		}
	}
	return nil
}

// Allocated returns the number of placements currently holding resources.
func (p *Plan) Allocated() int {
	count := 0
	for _, placement := range p.Placements {
		if placement.Status == structs.JobStatusAllocated {
			count++
		}
	}
	return count
}

// Release moves an allocated placement to released and gives the job
// resources back to its node. The node refuses a release that would go
// above its capacity, in which case nothing changes.
func (p *Plan) Release(state *State, placement *Placement) error {
	if placement == nil || placement.Status != structs.JobStatusAllocated {
		return ErrNotAllocated
	}

	node := state.NodeByIndex(placement.NodeIndex)
	if node == nil {
		return fmt.Errorf("job %d: node %d not found", placement.Job.ID, placement.NodeIndex)
	}
	if err := node.Release(placement.Job); err != nil {
		return err
	}

	placement.Status = structs.JobStatusReleased
	p.NodeAllocation[node.Index] = slices.DeleteFunc(p.NodeAllocation[node.Index], func(j *structs.Job) bool {
		return j == placement.Job
	})
	if len(p.NodeAllocation[node.Index]) == 0 {
		delete(p.NodeAllocation, node.Index)
	}
	return nil
}
