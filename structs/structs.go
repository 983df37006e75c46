// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package structs

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

const (
	// DefaultNodeCPU is the number of cores a worker node starts with.
	DefaultNodeCPU = 24

	// DefaultNodeMemoryGB is the memory a worker node starts with, in GB.
	DefaultNodeMemoryGB = 64

	// DefaultNodeCount is the size of the simulated node pool.
	DefaultNodeCount = 128
)

var (
	// ErrReleaseExceedsCapacity is returned when releasing a job would push
	// a node above the capacity it was created with.
	ErrReleaseExceedsCapacity = errors.New("release exceeds node capacity")
)

// Resources is a two dimensional resource quantity. It is used both for
// what a job demands and for what a node has.
type Resources struct {
	CPU      int
	MemoryGB int
}

// Superset checks if one set of resources is a superset of another.
func (r *Resources) Superset(other *Resources) bool {
	return r.CPU >= other.CPU && r.MemoryGB >= other.MemoryGB
}

// Add adds the resources of the delta to this.
func (r *Resources) Add(delta *Resources) {
	if delta == nil {
		return
	}
	r.CPU += delta.CPU
	r.MemoryGB += delta.MemoryGB
}

// Subtract removes the resources of the delta from this.
func (r *Resources) Subtract(delta *Resources) {
	if delta == nil {
		return
	}
	r.CPU -= delta.CPU
	r.MemoryGB -= delta.MemoryGB
}

func (r *Resources) Copy() *Resources {
	if r == nil {
		return nil
	}
	nr := *r
	return &nr
}

func (r *Resources) GoString() string {
	return fmt.Sprintf("*%#v", *r)
}

// Job is the description of a unit of work read from the job source. Jobs
// are never mutated once loaded.
type Job struct {
	ID int

	// ArrivalDay and ArrivalHour are carried from the job source but no
	// allocation decision looks at them.
	ArrivalDay  int
	ArrivalHour int

	MemoryReq int
	CPUReq    int

	// ExecTime is only used to order the queue.
	ExecTime int
}

// NewJob stores the six fields of a job record as given. No validation is
// done here, see Validate.
func NewJob(id, day, hour, mem, cpu, exe int) *Job {
	return &Job{
		ID:          id,
		ArrivalDay:  day,
		ArrivalHour: hour,
		MemoryReq:   mem,
		CPUReq:      cpu,
		ExecTime:    exe,
	}
}

// Resources returns the demand of the job.
func (j *Job) Resources() *Resources {
	return &Resources{
		CPU:      j.CPUReq,
		MemoryGB: j.MemoryReq,
	}
}

// Volume is the composite size used by the smallest-job-first queue.
func (j *Job) Volume() int {
	return j.ExecTime * j.CPUReq * j.MemoryReq
}

// Validate reports requirements that are not positive. The scheduler accepts
// such jobs as-is; this is only used for linting job files.
func (j *Job) Validate() error {
	var mErr multierror.Error
	if j.MemoryReq <= 0 {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("job %d: memory requirement must be positive, got %d", j.ID, j.MemoryReq))
	}
	if j.CPUReq <= 0 {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("job %d: cpu requirement must be positive, got %d", j.ID, j.CPUReq))
	}
	if j.ExecTime <= 0 {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("job %d: execution time must be positive, got %d", j.ID, j.ExecTime))
	}
	return mErr.ErrorOrNil()
}

func (j *Job) GoString() string {
	return fmt.Sprintf("<Job %d: cpu=%d mem=%d exe=%d>", j.ID, j.CPUReq, j.MemoryReq, j.ExecTime)
}

// Node is a worker node in the simulated pool. It only tracks how much of
// its capacity is still available and holds no reference to the jobs it
// serves.
type Node struct {
	// Index is the 1-based position of the node in the pool.
	Index int

	// Capacity is fixed at creation time.
	Capacity Resources

	// Available is what is left after allocations.
	Available Resources
}

// NewNode returns a node with all of its capacity available.
func NewNode(index, cpu, memoryGB int) *Node {
	capacity := Resources{CPU: cpu, MemoryGB: memoryGB}
	return &Node{
		Index:     index,
		Capacity:  capacity,
		Available: capacity,
	}
}

// Fits returns whether the job demand fits in what the node has available.
func (n *Node) Fits(job *Job) bool {
	return job.MemoryReq <= n.Available.MemoryGB && job.CPUReq <= n.Available.CPU
}

// Slack is the capacity left over in both dimensions if the job were placed
// on this node. Memory and cores are summed without weighting.
func (n *Node) Slack(job *Job) int {
	return (n.Available.MemoryGB - job.MemoryReq) + (n.Available.CPU - job.CPUReq)
}

// Allocate subtracts the job demand from the node if it fits. The node is
// left untouched and false is returned otherwise.
func (n *Node) Allocate(job *Job) bool {
	if !n.Fits(job) {
		return false
	}
	n.Available.Subtract(job.Resources())
	return true
}

// Release gives the job demand back to the node. It refuses to go above the
// node capacity, which would mean the job was never allocated here.
func (n *Node) Release(job *Job) error {
	proposed := n.Available
	proposed.Add(job.Resources())
	if !n.Capacity.Superset(&proposed) {
		return fmt.Errorf("node %d, job %d: %w", n.Index, job.ID, ErrReleaseExceedsCapacity)
	}
	n.Available = proposed
	return nil
}

// Used returns the resources consumed on the node.
func (n *Node) Used() *Resources {
	used := n.Capacity
	used.Subtract(&n.Available)
	return &used
}

func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	nn := *n
	return &nn
}

func (n *Node) GoString() string {
	return fmt.Sprintf("<Node %d: cpu=%d/%d mem=%d/%d>", n.Index,
		n.Available.CPU, n.Capacity.CPU, n.Available.MemoryGB, n.Capacity.MemoryGB)
}
