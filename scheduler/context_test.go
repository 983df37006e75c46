// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package scheduler

import (
	"testing"

	"github.com/hashicorp/nomad-batchsim/helper/testlog"
	"github.com/hashicorp/nomad-batchsim/mock"
	"github.com/hashicorp/nomad-batchsim/structs"
)

func testContext(t testing.TB) (*State, *EvalContext) {
	state := NewStateWithNodes(mock.Nodes(4))
	ctx := NewEvalContext(state, testlog.HCLogger(t))
	return state, ctx
}

func collectFeasible(iter FeasibleIterator) (out []*structs.Node) {
	for {
		next := iter.Next()
		if next == nil {
			break
		}
		out = append(out, next)
	}
	return
}

func collectRanked(iter RankIterator) (out []*RankedNode) {
	for {
		next := iter.Next()
		if next == nil {
			break
		}
		out = append(out, next)
	}
	return
}

func nodeIndexes(nodes []*structs.Node) []int {
	out := make([]int, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Index)
	}
	return out
}
