// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package structs

// QueuePolicy decides the order in which pending jobs are offered to the
// allocator.
type QueuePolicy int

const (
	// QueuePolicyNone keeps jobs in load order. Unrecognized policy names
	// fall back to this.
	QueuePolicyNone QueuePolicy = iota
	QueuePolicySmallestJobFirst
	QueuePolicyShortestDurationFirst
)

const (
	QueuePolicyNameNone                  = "None"
	QueuePolicyNameSmallestJobFirst      = "SmallestJobFirst"
	QueuePolicyNameShortestDurationFirst = "ShortestDurationFirst"
)

func (q QueuePolicy) String() string {
	switch q {
	case QueuePolicySmallestJobFirst:
		return QueuePolicyNameSmallestJobFirst
	case QueuePolicyShortestDurationFirst:
		return QueuePolicyNameShortestDurationFirst
	default:
		return QueuePolicyNameNone
	}
}

// ParseQueuePolicy maps a policy name to its variant. Unknown names yield
// QueuePolicyNone and false so callers may warn or refuse.
func ParseQueuePolicy(name string) (QueuePolicy, bool) {
	switch name {
	case QueuePolicyNameSmallestJobFirst:
		return QueuePolicySmallestJobFirst, true
	case QueuePolicyNameShortestDurationFirst:
		return QueuePolicyShortestDurationFirst, true
	case QueuePolicyNameNone:
		return QueuePolicyNone, true
	}
	return QueuePolicyNone, false
}

// AllocationPolicy decides which worker node serves a job.
type AllocationPolicy int

const (
	// AllocationPolicyRejectAll never selects a node. Unrecognized policy
	// names fall back to this.
	AllocationPolicyRejectAll AllocationPolicy = iota
	AllocationPolicyFirstFit
	AllocationPolicyBestFit
	AllocationPolicyWorstFit
)

const (
	AllocationPolicyNameRejectAll = "RejectAll"
	AllocationPolicyNameFirstFit  = "FirstFit"
	AllocationPolicyNameBestFit   = "BestFit"
	AllocationPolicyNameWorstFit  = "WorstFit"
)

func (a AllocationPolicy) String() string {
	switch a {
	case AllocationPolicyFirstFit:
		return AllocationPolicyNameFirstFit
	case AllocationPolicyBestFit:
		return AllocationPolicyNameBestFit
	case AllocationPolicyWorstFit:
		return AllocationPolicyNameWorstFit
	default:
		return AllocationPolicyNameRejectAll
	}
}

// ParseAllocationPolicy maps a policy name to its variant. Unknown names
// yield AllocationPolicyRejectAll and false.
func ParseAllocationPolicy(name string) (AllocationPolicy, bool) {
	switch name {
	case AllocationPolicyNameFirstFit:
		return AllocationPolicyFirstFit, true
	case AllocationPolicyNameBestFit:
		return AllocationPolicyBestFit, true
	case AllocationPolicyNameWorstFit:
		return AllocationPolicyWorstFit, true
	case AllocationPolicyNameRejectAll:
		return AllocationPolicyRejectAll, true
	}
	return AllocationPolicyRejectAll, false
}

// QueuePolicyNames and AllocationPolicyNames list the recognized names, used
// for help text and autocompletion.
var (
	QueuePolicyNames = []string{
		QueuePolicyNameSmallestJobFirst,
		QueuePolicyNameShortestDurationFirst,
		QueuePolicyNameNone,
	}

	AllocationPolicyNames = []string{
		AllocationPolicyNameFirstFit,
		AllocationPolicyNameBestFit,
		AllocationPolicyNameWorstFit,
		AllocationPolicyNameRejectAll,
	}
)

// JobStatus is where a job is in its lifecycle within a run.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusAllocated JobStatus = "allocated"
	JobStatusRejected  JobStatus = "rejected"
	JobStatusReleased  JobStatus = "released"
)
