// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package scheduler

import (
	"cmp"
	"slices"

	"github.com/hashicorp/nomad-batchsim/structs"
)

// OrderJobs reorders jobs in place according to the queue policy. The sort
// is stable: jobs with equal keys keep their load order.
func OrderJobs(policy structs.QueuePolicy, jobs []*structs.Job) {
	switch policy {
	case structs.QueuePolicySmallestJobFirst:
		slices.SortStableFunc(jobs, compareVolume)
	case structs.QueuePolicyShortestDurationFirst:
		slices.SortStableFunc(jobs, compareExecTime)
	}
}

func compareVolume(a, b *structs.Job) int {
	return cmp.Compare(a.Volume(), b.Volume())
}

func compareExecTime(a, b *structs.Job) int {
	return cmp.Compare(a.ExecTime, b.ExecTime)
}
