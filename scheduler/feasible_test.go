// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package scheduler

import (
	"testing"

	"github.com/hashicorp/nomad-batchsim/ci"
	"github.com/hashicorp/nomad-batchsim/mock"
	"github.com/shoenig/test/must"
)

func TestStaticIterator_Reset(t *testing.T) {
	ci.Parallel(t)

	_, ctx := testContext(t)
	nodes := mock.Nodes(3)
	static := NewStaticIterator(ctx, nodes)

	for i := 0; i < 6; i++ {
		static.Reset()
		for j := 0; j < i; j++ {
			static.Next()
		}
		static.Reset()

		out := collectFeasible(static)
		must.Eq(t, []int{1, 2, 3}, nodeIndexes(out))
	}
}

func TestStaticIterator_SetNodes(t *testing.T) {
	ci.Parallel(t)

	_, ctx := testContext(t)
	static := NewStaticIterator(ctx, mock.Nodes(3))
	static.Next()

	newNodes := mock.Nodes(1)
	static.SetNodes(newNodes)

	out := collectFeasible(static)
	must.Len(t, 1, out)
	must.True(t, out[0] == newNodes[0])
}
