// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package scheduler

import (
	"github.com/hashicorp/nomad-batchsim/structs"
)

// Stack is a chained collection of iterators
type Stack interface {
	// SetJob is used to set the job for selection.
	// This must be called in between calls to Select.
	SetJob(job *structs.Job)

	// Select is used to select a node for the job, or nil when no node
	// can take it.
	Select() *RankedNode
}

// GenericStack is used to hold pointers to each of the
// iterators which are chained together to do selection.
// The source visits nodes in pool order, the bin packer drops
// nodes the job does not fit on and the selector on top picks
// according to the allocation policy.
type GenericStack struct {
	Context    Context
	BaseNodes  []*structs.Node
	Source     *StaticIterator
	RankSource *FeasibleRankIterator
	BinPack    *BinPackIterator

	// selector is either a LimitIterator (first fit) or a
	// MaxScoreIterator (best and worst fit)
	selector RankIterator
}

// NewGenericStack constructs a stack used for selecting placements with
// the given allocation policy. A RejectAll policy yields a stack that never
// selects a node.
func NewGenericStack(ctx Context, policy structs.AllocationPolicy, baseNodes []*structs.Node) Stack {
	if policy == structs.AllocationPolicyRejectAll {
		return &rejectStack{}
	}

	// Create a new stack
	stack := &GenericStack{
		Context:   ctx,
		BaseNodes: baseNodes,
	}

	// Nodes are always visited in index order, never randomized.
	stack.Source = NewStaticIterator(ctx, baseNodes)

	// Upgrade from feasible to rank iterator
	stack.RankSource = NewFeasibleRankIterator(ctx, stack.Source)

	// Apply the bin packing, this depends on the job being placed.
	switch policy {
	case structs.AllocationPolicyWorstFit:
		stack.BinPack = NewBinPackIterator(ctx, stack.RankSource, ScoreFitSpread)
	default:
		stack.BinPack = NewBinPackIterator(ctx, stack.RankSource, ScoreFitBinPack)
	}

	switch policy {
	case structs.AllocationPolicyFirstFit:
		// The first feasible node wins, so stop scanning there.
		stack.selector = NewLimitIterator(ctx, stack.BinPack, 1)
	default:
		// Select the node with the maximum score for placement
		stack.selector = NewMaxScoreIterator(ctx, stack.BinPack)
	}
	return stack
}

func (s *GenericStack) SetJob(job *structs.Job) {
	s.BinPack.SetJob(job)

	// Reset the selector, which resets the whole chain
	s.selector.Reset()
}

func (s *GenericStack) Select() *RankedNode {
	return s.selector.Next()
}

// rejectStack is the stack for an allocation policy that places nothing.
type rejectStack struct{}

func (*rejectStack) SetJob(*structs.Job) {}

func (*rejectStack) Select() *RankedNode { return nil }
