// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/nomad-batchsim/jobspec"
	"github.com/hashicorp/nomad-batchsim/structs"
	"github.com/posener/complete"
)

type JobValidateCommand struct {
	Meta
}

func (c *JobValidateCommand) Help() string {
	helpText := `
Usage: batchsim job validate [options] <path>

  Checks a job file for records the run command would silently drop, job IDs
  used more than once and requirements that are not positive. Files ending in
  .hcl or .json are read as HCL job files, anything else as one job per line:

      id arrival_day arrival_hour memory cpu exec_time

  Jobs larger than a single node are reported as a warning.

General Options:

  ` + generalOptionsUsage() + `

Validate Options:

  -node-cpu=<cores>
    Cores of a worker node, used for the oversized job check. Defaults to 24.

  -node-memory=<gb>
    Memory of a worker node in GB, used for the oversized job check.
    Defaults to 64.
`
	return strings.TrimSpace(helpText)
}

func (c *JobValidateCommand) Synopsis() string {
	return "Checks if a job file is well formed"
}

func (c *JobValidateCommand) AutocompleteFlags() complete.Flags {
	return mergeAutocompleteFlags(c.Meta.AutocompleteFlags(),
		complete.Flags{
			"-node-cpu":    complete.PredictAnything,
			"-node-memory": complete.PredictAnything,
		})
}

func (c *JobValidateCommand) AutocompleteArgs() complete.Predictor {
	return complete.PredictOr(
		complete.PredictFiles("*.txt"),
		complete.PredictFiles("*.hcl"),
		complete.PredictFiles("*.json"),
	)
}

func (c *JobValidateCommand) Name() string { return "job validate" }

func (c *JobValidateCommand) Run(args []string) int {
	var nodeCPU, nodeMemory int

	flagSet := c.Meta.FlagSet(c.Name())
	flagSet.Usage = func() { c.Ui.Output(c.Help()) }
	flagSet.IntVar(&nodeCPU, "node-cpu", structs.DefaultNodeCPU, "")
	flagSet.IntVar(&nodeMemory, "node-memory", structs.DefaultNodeMemoryGB, "")

	if err := flagSet.Parse(args); err != nil {
		return 1
	}

	// Check that we got exactly one path
	args = flagSet.Args()
	if len(args) != 1 {
		c.Ui.Error("This command takes one argument: <path>")
		c.Ui.Error(commandErrorText(c))
		return 1
	}

	result, err := jobspec.ParseFile(args[0])
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error reading job file: %s", err))
		return 1
	}

	var invalid *multierror.Error
	var oversized []string
	node := structs.NewNode(1, nodeCPU, nodeMemory)
	for _, job := range result.Jobs {
		if err := job.Validate(); err != nil {
			invalid = multierror.Append(invalid, err)
		}
		if !node.Fits(job) {
			oversized = append(oversized, strconv.Itoa(job.ID))
		}
	}

	dups := result.Duplicates()
	dupIDs := make([]string, 0, len(dups))
	for _, id := range dups {
		dupIDs = append(dupIDs, strconv.Itoa(id))
	}

	out := []string{
		fmt.Sprintf("Jobs|%d", len(result.Jobs)),
		fmt.Sprintf("Skipped Records|%d", result.SkippedCount()),
		fmt.Sprintf("Duplicate IDs|%s", strings.Join(dupIDs, ", ")),
		fmt.Sprintf("Oversized Jobs|%s", strings.Join(oversized, ", ")),
	}
	c.Ui.Output(formatKV(out))

	if len(oversized) > 0 {
		c.Ui.Warn(wrapAtLength(fmt.Sprintf(
			"Warning: %d job(s) fit on no %d core / %d GB node and will be rejected",
			len(oversized), nodeCPU, nodeMemory)))
	}

	failed := false
	if result.Skipped != nil {
		failed = true
		c.Ui.Error(c.Colorize().Color("\n[bold][red]Skipped records:[reset]"))
		c.Ui.Error(result.Skipped.Error())
	}
	if len(dups) > 0 {
		failed = true
		c.Ui.Error(c.Colorize().Color("\n[bold][red]Job IDs are not unique[reset]"))
	}
	if invalid != nil {
		failed = true
		c.Ui.Error(c.Colorize().Color("\n[bold][red]Job validation errors:[reset]"))
		c.Ui.Error(invalid.Error())
	}
	if failed {
		return 1
	}

	c.Ui.Output(c.Colorize().Color("\n[bold][green]Job file validation successful[reset]"))
	return 0
}
