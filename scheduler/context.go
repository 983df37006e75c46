// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package scheduler

import (
	log "github.com/hashicorp/go-hclog"
)

// Context is used to track contextual information used for placement
type Context interface {
	// State is used to inspect the node pool of the current run
	State() *State

	// Logger provides a way to log
	Logger() log.Logger
}

// EvalContext is a Context used during a scheduling pass
type EvalContext struct {
	state  *State
	logger log.Logger
}

// NewEvalContext constructs a new EvalContext
func NewEvalContext(s *State, logger log.Logger) *EvalContext {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	return &EvalContext{
		state:  s,
		logger: logger,
	}
}

func (e *EvalContext) State() *State {
	return e.state
}

func (e *EvalContext) Logger() log.Logger {
	return e.logger
}
