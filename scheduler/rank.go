// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package scheduler

import (
	"fmt"

	"github.com/hashicorp/nomad-batchsim/structs"
)

// RankedNode is used to provide a score and various ranking metadata
// along with a node when iterating. This state can be modified as
// various rank methods are applied.
type RankedNode struct {
	Node *structs.Node

	// Slack is the summed leftover memory and cores if the job is placed.
	Slack int

	// Score is what selectors compare. Higher is better.
	Score float64
}

func (r *RankedNode) GoString() string {
	return fmt.Sprintf("<Node: %d Slack: %d Score: %0.3f>", r.Node.Index, r.Slack, r.Score)
}

// RankIterator is used to iteratively yield nodes along
// with ranking metadata. The iterators may manage some state for
// performance optimizations.
type RankIterator interface {
	// Next yields a ranked option or nil if exhausted
	Next() *RankedNode

	// Reset is invoked when an allocation has been placed
	// to reset any stale state.
	Reset()
}

// FeasibleRankIterator is used to consume from a FeasibleIterator
// and return an unranked node with base ranking.
type FeasibleRankIterator struct {
	ctx    Context
	source FeasibleIterator
}

// NewFeasibleRankIterator is used to return a new FeasibleRankIterator
// from a FeasibleIterator source.
func NewFeasibleRankIterator(ctx Context, source FeasibleIterator) *FeasibleRankIterator {
	iter := &FeasibleRankIterator{
		ctx:    ctx,
		source: source,
	}
	return iter
}

func (iter *FeasibleRankIterator) Next() *RankedNode {
	option := iter.source.Next()
	if option == nil {
		return nil
	}
	ranked := &RankedNode{
		Node: option,
	}
	return ranked
}

func (iter *FeasibleRankIterator) Reset() {
	iter.source.Reset()
}

// StaticRankIterator is a RankIterator that returns a static set of results.
// This is largely only useful for testing.
type StaticRankIterator struct {
	ctx    Context
	nodes  []*RankedNode
	offset int
}

// NewStaticRankIterator returns a new static rank iterator over the given nodes
func NewStaticRankIterator(ctx Context, nodes []*RankedNode) *StaticRankIterator {
	iter := &StaticRankIterator{
		ctx:   ctx,
		nodes: nodes,
	}
	return iter
}

func (iter *StaticRankIterator) Next() *RankedNode {
	// Check if exhausted
	if iter.offset == len(iter.nodes) {
		return nil
	}

	// Return the next offset
	offset := iter.offset
	iter.offset += 1
	return iter.nodes[offset]
}

func (iter *StaticRankIterator) Reset() {
	iter.offset = 0
}

// ScoreFunc turns the slack a job would leave on a node into a score.
type ScoreFunc func(slack int) float64

// ScoreFitBinPack prefers the node left with the least slack.
func ScoreFitBinPack(slack int) float64 {
	return -float64(slack)
}

// ScoreFitSpread prefers the node left with the most slack.
func ScoreFitSpread(slack int) float64 {
	return float64(slack)
}

// BinPackIterator is a RankIterator that skips nodes the job does not fit
// on and scores the rest by the slack the placement would leave behind.
type BinPackIterator struct {
	ctx    Context
	source RankIterator
	job    *structs.Job
	score  ScoreFunc
}

// NewBinPackIterator returns a BinPackIterator which tries to fit the given
// job, scoring feasible nodes with the given function.
func NewBinPackIterator(ctx Context, source RankIterator, score ScoreFunc) *BinPackIterator {
	if score == nil {
		score = ScoreFitBinPack
	}
	iter := &BinPackIterator{
		ctx:    ctx,
		source: source,
		score:  score,
	}
	return iter
}

func (iter *BinPackIterator) SetJob(job *structs.Job) {
	iter.job = job
}

func (iter *BinPackIterator) Next() *RankedNode {
	if iter.job == nil {
		return nil
	}

	for {
		// Get the next potential option
		option := iter.source.Next()
		if option == nil {
			return nil
		}

		// Check if the job fits, if it does not, simply skip this node
		if !option.Node.Fits(iter.job) {
			continue
		}

		// Score the fit normally otherwise
		option.Slack = option.Node.Slack(iter.job)
		option.Score = iter.score(option.Slack)
		return option
	}
}

func (iter *BinPackIterator) Reset() {
	iter.source.Reset()
}
