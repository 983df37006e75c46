// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package jobspec reads job lists. The legacy format is one job per line,
// six whitespace separated integers:
//
//	id arrival_day arrival_hour memory cpu exec_time
//
// Files with an .hcl or .json extension are read as HCL job files instead.
package jobspec

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-set/v3"
	"github.com/hashicorp/nomad-batchsim/structs"
)

// recordFields is the number of integers in a job record.
const recordFields = 6

// ParseResult is the outcome of reading a job source.
type ParseResult struct {
	// Jobs are the records that parsed, in source order.
	Jobs []*structs.Job

	// Skipped has one error per line that did not yield a record. The run
	// command never prints these, the validate command does.
	Skipped *multierror.Error
}

// SkippedCount returns how many lines were dropped.
func (r *ParseResult) SkippedCount() int {
	if r.Skipped == nil {
		return 0
	}
	return len(r.Skipped.Errors)
}

// Duplicates returns the job IDs that appear more than once, in order of
// their second appearance.
func (r *ParseResult) Duplicates() []int {
	seen := set.New[int](len(r.Jobs))
	dups := set.New[int](0)
	var out []int
	for _, job := range r.Jobs {
		if seen.Insert(job.ID) {
			continue
		}
		if dups.Insert(job.ID) {
			out = append(out, job.ID)
		}
	}
	return out
}

// Parse reads the legacy line format from r. Lines that do not start with
// six integers are skipped; anything after the sixth integer is ignored.
// Blank lines and lines starting with '#' are ignored without being counted
// as skipped. An error is only returned if r itself fails.
func Parse(r io.Reader) (*ParseResult, error) {
	result := &ParseResult{
		Jobs: []*structs.Job{},
	}

	// Lines are read whole, whatever their length.
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("error reading jobs: %w", readErr)
		}
		if raw == "" && readErr == io.EOF {
			break
		}

		lineNo++
		line := strings.TrimSpace(raw)
		if line != "" && !strings.HasPrefix(line, "#") {
			job, err := parseLine(line)
			if err != nil {
				result.Skipped = multierror.Append(result.Skipped, fmt.Errorf("line %d: %w", lineNo, err))
			} else {
				result.Jobs = append(result.Jobs, job)
			}
		}

		if readErr == io.EOF {
			break
		}
	}

	return result, nil
}

func parseLine(line string) (*structs.Job, error) {
	fields := strings.Fields(line)
	if len(fields) < recordFields {
		return nil, fmt.Errorf("expected %d integer fields, found %d", recordFields, len(fields))
	}

	var v [recordFields]int
	for i := 0; i < recordFields; i++ {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, fmt.Errorf("field %d %q is not an integer", i+1, fields[i])
		}
		v[i] = n
	}
	return structs.NewJob(v[0], v[1], v[2], v[3], v[4], v[5]), nil
}

// ParseFile parses the given path as a job list. The format is picked from
// the file extension.
func ParseFile(path string) (*ParseResult, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	switch filepath.Ext(path) {
	case ".hcl", ".json":
		return parseHCLFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}
