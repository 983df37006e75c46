// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package scheduler

import (
	"time"

	log "github.com/hashicorp/go-hclog"
	metrics "github.com/hashicorp/go-metrics"
	"github.com/hashicorp/nomad-batchsim/structs"
)

// Scheduler runs a single scheduling pass over the jobs of a State.
type Scheduler interface {
	// Process orders the jobs with the queue policy and then attempts
	// each one exactly once with the allocation policy.
	Process(queue structs.QueuePolicy, alloc structs.AllocationPolicy) *Plan
}

// Option configures a BatchScheduler.
type Option func(*BatchScheduler)

// WithMetrics emits scheduler counters and timers to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *BatchScheduler) {
		s.metrics = m
	}
}

// BatchScheduler places a static list of jobs onto a fixed node pool in a
// single forward pass. A job either fits entirely on one node or is
// rejected; there is no retry and no rollback.
type BatchScheduler struct {
	logger  log.Logger
	state   *State
	metrics *metrics.Metrics

	ctx   *EvalContext
	stack Stack
	plan  *Plan
}

// NewBatchScheduler is a factory function to instantiate a new batch scheduler
func NewBatchScheduler(logger log.Logger, state *State, opts ...Option) *BatchScheduler {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	s := &BatchScheduler{
		logger: logger.Named("batch_sched"),
		state:  state,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process is used to run a scheduling pass over the current job list
func (s *BatchScheduler) Process(queue structs.QueuePolicy, alloc structs.AllocationPolicy) *Plan {
	defer s.measureSince([]string{"scheduler", "process"}, time.Now())

	s.logger.Debug("starting scheduling pass",
		"jobs", len(s.state.Jobs()), "nodes", len(s.state.Nodes()),
		"queue_policy", queue, "allocation_policy", alloc)

	s.plan = NewPlan(queue, alloc)
	s.ctx = NewEvalContext(s.state, s.logger)
	s.stack = NewGenericStack(s.ctx, alloc, s.state.Nodes())

	jobs := s.state.Jobs()
	OrderJobs(queue, jobs)
	for _, job := range jobs {
		s.plan.AppendPending(job)
	}
	s.computePlacements(s.plan.Pending())

	s.logger.Debug("scheduling pass complete",
		"allocated", s.plan.Allocated(),
		"rejected", len(s.plan.Rejected))
	return s.plan
}

// computePlacements attempts each pending job once in queue order
func (s *BatchScheduler) computePlacements(pending []*Placement) {
	for _, placement := range pending {
		job := placement.Job
		s.stack.SetJob(job)
		option := s.stack.Select()
		if option == nil {
			s.reject(placement)
			continue
		}

		// The bin packer only yields nodes the job fits on, so this
		// cannot fail unless the node changed underneath the stack.
		if !option.Node.Allocate(job) {
			s.logger.Error("selected node no longer fits job", "job_id", job.ID, "node", option.Node.Index)
			s.reject(placement)
			continue
		}

		s.logger.Trace("job allocated", "job_id", job.ID, "node", option.Node.Index, "slack", option.Slack)
		s.plan.Allocate(placement, option.Node.Index)
		s.incrCounter([]string{"scheduler", "jobs", "allocated"})
	}
}

func (s *BatchScheduler) reject(placement *Placement) {
	job := placement.Job
	s.logger.Warn("job could not be allocated", "job_id", job.ID, "cpu", job.CPUReq, "memory", job.MemoryReq)
	s.plan.Reject(placement)
	s.incrCounter([]string{"scheduler", "jobs", "rejected"})
}

func (s *BatchScheduler) incrCounter(key []string) {
	if s.metrics != nil {
		s.metrics.IncrCounter(key, 1)
	}
}

func (s *BatchScheduler) measureSince(key []string, start time.Time) {
	if s.metrics != nil {
		s.metrics.MeasureSince(key, start)
	}
}
