// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package jobspec

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/hashicorp/nomad-batchsim/structs"
)

// jobFile is the HCL form of a job list:
//
//	job "1" {
//	  arrival_day  = 0
//	  arrival_hour = 8
//	  memory       = 40
//	  cpu          = 10
//	  exec_time    = 5
//	}
type jobFile struct {
	Jobs []*jobBlock `hcl:"job,block"`
}

type jobBlock struct {
	ID          string `hcl:"id,label"`
	ArrivalDay  int    `hcl:"arrival_day,optional"`
	ArrivalHour int    `hcl:"arrival_hour,optional"`
	Memory      int    `hcl:"memory"`
	CPU         int    `hcl:"cpu"`
	ExecTime    int    `hcl:"exec_time"`
}

// ParseHCL decodes an HCL (or HCL JSON) job list. The filename extension
// selects the syntax. Unlike the line format, a syntax error fails the whole
// file; a block whose label is not an integer is skipped.
func ParseHCL(filename string, src []byte) (*ParseResult, error) {
	var file jobFile
	if err := hclsimple.Decode(filename, src, nil, &file); err != nil {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, err)
	}

	result := &ParseResult{
		Jobs: make([]*structs.Job, 0, len(file.Jobs)),
	}
	for i, block := range file.Jobs {
		id, err := strconv.Atoi(block.ID)
		if err != nil {
			result.Skipped = multierror.Append(result.Skipped,
				fmt.Errorf("job block %d: label %q is not an integer", i+1, block.ID))
			continue
		}
		result.Jobs = append(result.Jobs, structs.NewJob(id,
			block.ArrivalDay, block.ArrivalHour, block.Memory, block.CPU, block.ExecTime))
	}
	return result, nil
}

func parseHCLFile(path string) (*ParseResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseHCL(path, src)
}
