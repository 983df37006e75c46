// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package config holds the configuration of a simulation run.
package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/nomad-batchsim/report"
	"github.com/hashicorp/nomad-batchsim/scheduler"
	"github.com/hashicorp/nomad-batchsim/structs"
	"github.com/mitchellh/go-homedir"
)

const (
	DefaultJobsFile      = "JobArrival.txt"
	DefaultResultsFile   = "Results.csv"
	DefaultResultsFormat = string(report.FormatTable)
	DefaultLogLevel      = "INFO"

	// DefaultCollectionInterval is how often the in-memory metrics sink
	// rolls over.
	DefaultCollectionInterval = 10 * time.Second
)

// Config is the configuration of a run.
type Config struct {
	// JobsFile is the job source. An .hcl or .json extension selects the
	// HCL job format.
	JobsFile string `hcl:"jobs_file"`

	// ResultsFile is truncated and rewritten at the end of every run.
	ResultsFile   string `hcl:"results_file"`
	ResultsFormat string `hcl:"results_format"`

	LogLevel string `hcl:"log_level"`

	// Strict refuses unknown policy names instead of falling back.
	Strict bool `hcl:"strict"`

	Cluster   *ClusterConfig   `hcl:"cluster"`
	Scheduler *SchedulerConfig `hcl:"scheduler"`
	Telemetry *Telemetry       `hcl:"telemetry"`

	// ExtraKeysHCL is used by hcl to surface unexpected keys
	ExtraKeysHCL []string `hcl:",unusedKeys" json:"-"`
}

// ClusterConfig is the shape of the node pool. Every node is identical.
type ClusterConfig struct {
	NodeCount int `hcl:"node_count"`
	NodeCPU   int `hcl:"node_cpu"`

	// NodeMemory is in GB.
	NodeMemory int `hcl:"node_memory"`

	ExtraKeysHCL []string `hcl:",unusedKeys" json:"-"`
}

// SchedulerConfig names the policies of the pass.
type SchedulerConfig struct {
	QueuePolicy      string `hcl:"queue_policy"`
	AllocationPolicy string `hcl:"allocation_policy"`

	ExtraKeysHCL []string `hcl:",unusedKeys" json:"-"`
}

// Telemetry controls the metrics printed after a run.
type Telemetry struct {
	Enabled bool `hcl:"enabled"`

	CollectionInterval string        `hcl:"collection_interval"`
	collectionInterval time.Duration `hcl:"-"`

	ExtraKeysHCL []string `hcl:",unusedKeys" json:"-"`
}

// Interval returns the parsed collection interval.
func (t *Telemetry) Interval() time.Duration {
	if t == nil || t.collectionInterval == 0 {
		return DefaultCollectionInterval
	}
	return t.collectionInterval
}

// DefaultConfig is the configuration used when nothing is given.
func DefaultConfig() *Config {
	return &Config{
		JobsFile:      DefaultJobsFile,
		ResultsFile:   DefaultResultsFile,
		ResultsFormat: DefaultResultsFormat,
		LogLevel:      DefaultLogLevel,
		Cluster: &ClusterConfig{
			NodeCount:  structs.DefaultNodeCount,
			NodeCPU:    structs.DefaultNodeCPU,
			NodeMemory: structs.DefaultNodeMemoryGB,
		},
		Scheduler: &SchedulerConfig{
			QueuePolicy:      structs.QueuePolicyNameSmallestJobFirst,
			AllocationPolicy: structs.AllocationPolicyNameBestFit,
		},
		Telemetry: &Telemetry{
			CollectionInterval: DefaultCollectionInterval.String(),
			collectionInterval: DefaultCollectionInterval,
		},
	}
}

// Copy returns a deep copy of the config.
func (c *Config) Copy() *Config {
	if c == nil {
		return nil
	}
	nc := *c
	nc.ExtraKeysHCL = nil
	if c.Cluster != nil {
		cluster := *c.Cluster
		nc.Cluster = &cluster
	}
	if c.Scheduler != nil {
		sched := *c.Scheduler
		nc.Scheduler = &sched
	}
	if c.Telemetry != nil {
		telemetry := *c.Telemetry
		nc.Telemetry = &telemetry
	}
	return &nc
}

// Merge merges two configurations.
func (c *Config) Merge(b *Config) *Config {
	result := c.Copy()
	if b == nil {
		return result
	}

	if b.JobsFile != "" {
		result.JobsFile = b.JobsFile
	}
	if b.ResultsFile != "" {
		result.ResultsFile = b.ResultsFile
	}
	if b.ResultsFormat != "" {
		result.ResultsFormat = b.ResultsFormat
	}
	if b.LogLevel != "" {
		result.LogLevel = b.LogLevel
	}
	if b.Strict {
		result.Strict = true
	}

	// Apply the cluster config
	if result.Cluster == nil && b.Cluster != nil {
		cluster := *b.Cluster
		result.Cluster = &cluster
	} else if b.Cluster != nil {
		result.Cluster = result.Cluster.Merge(b.Cluster)
	}

	// Apply the scheduler config
	if result.Scheduler == nil && b.Scheduler != nil {
		sched := *b.Scheduler
		result.Scheduler = &sched
	} else if b.Scheduler != nil {
		result.Scheduler = result.Scheduler.Merge(b.Scheduler)
	}

	// Apply the telemetry config
	if result.Telemetry == nil && b.Telemetry != nil {
		telemetry := *b.Telemetry
		result.Telemetry = &telemetry
	} else if b.Telemetry != nil {
		result.Telemetry = result.Telemetry.Merge(b.Telemetry)
	}

	return result
}

// Merge is used to merge two cluster configs together
func (c *ClusterConfig) Merge(b *ClusterConfig) *ClusterConfig {
	result := *c

	if b.NodeCount != 0 {
		result.NodeCount = b.NodeCount
	}
	if b.NodeCPU != 0 {
		result.NodeCPU = b.NodeCPU
	}
	if b.NodeMemory != 0 {
		result.NodeMemory = b.NodeMemory
	}
	return &result
}

// Merge is used to merge two scheduler configs together
func (s *SchedulerConfig) Merge(b *SchedulerConfig) *SchedulerConfig {
	result := *s

	if b.QueuePolicy != "" {
		result.QueuePolicy = b.QueuePolicy
	}
	if b.AllocationPolicy != "" {
		result.AllocationPolicy = b.AllocationPolicy
	}
	return &result
}

// Merge is used to merge two telemetry configs together
func (t *Telemetry) Merge(b *Telemetry) *Telemetry {
	result := *t

	if b.Enabled {
		result.Enabled = true
	}
	if b.CollectionInterval != "" {
		result.CollectionInterval = b.CollectionInterval
	}
	if b.collectionInterval != 0 {
		result.collectionInterval = b.collectionInterval
	}
	return &result
}

// ClusterSpec returns the node pool shape for the scheduler.
func (c *Config) ClusterSpec() scheduler.ClusterSpec {
	return scheduler.ClusterSpec{
		NodeCount:    c.Cluster.NodeCount,
		NodeCPU:      c.Cluster.NodeCPU,
		NodeMemoryGB: c.Cluster.NodeMemory,
	}
}

// Policies resolves the policy names. Unknown names resolve to the fallback
// policies and are reported in the returned error, which callers may treat
// as a warning.
func (s *SchedulerConfig) Policies() (structs.QueuePolicy, structs.AllocationPolicy, error) {
	var mErr multierror.Error

	queue, ok := structs.ParseQueuePolicy(s.QueuePolicy)
	if !ok {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("unknown queue policy %q, jobs will not be reordered", s.QueuePolicy))
	}
	alloc, ok := structs.ParseAllocationPolicy(s.AllocationPolicy)
	if !ok {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("unknown allocation policy %q, all jobs will be rejected", s.AllocationPolicy))
	}
	return queue, alloc, mErr.ErrorOrNil()
}

// Validate checks the config for values no run can work with. In strict
// mode unknown policy names are errors too.
func (c *Config) Validate() error {
	var mErr multierror.Error

	if c.Cluster == nil {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("missing cluster block"))
	} else {
		if c.Cluster.NodeCount <= 0 {
			mErr.Errors = append(mErr.Errors, fmt.Errorf("cluster.node_count must be positive, got %d", c.Cluster.NodeCount))
		}
		if c.Cluster.NodeCPU <= 0 {
			mErr.Errors = append(mErr.Errors, fmt.Errorf("cluster.node_cpu must be positive, got %d", c.Cluster.NodeCPU))
		}
		if c.Cluster.NodeMemory <= 0 {
			mErr.Errors = append(mErr.Errors, fmt.Errorf("cluster.node_memory must be positive, got %d", c.Cluster.NodeMemory))
		}
	}

	if c.Scheduler == nil {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("missing scheduler block"))
	} else if c.Strict {
		if _, _, err := c.Scheduler.Policies(); err != nil {
			mErr.Errors = append(mErr.Errors, err)
		}
	}

	if c.ResultsFile == "" {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("results_file must not be empty"))
	}
	if _, err := report.ParseFormat(c.ResultsFormat); err != nil {
		mErr.Errors = append(mErr.Errors, err)
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		mErr.Errors = append(mErr.Errors, fmt.Errorf("invalid log level %q", c.LogLevel))
	}

	return mErr.ErrorOrNil()
}

// ExpandPaths resolves a leading ~ in the jobs and results paths.
func (c *Config) ExpandPaths() error {
	var err error
	if c.JobsFile, err = homedir.Expand(c.JobsFile); err != nil {
		return fmt.Errorf("jobs_file: %w", err)
	}
	if c.ResultsFile, err = homedir.Expand(c.ResultsFile); err != nil {
		return fmt.Errorf("results_file: %w", err)
	}
	return nil
}
