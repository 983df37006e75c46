// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/cli"
	"github.com/hashicorp/nomad-batchsim/ci"
	"github.com/shoenig/test/must"
)

const scenarioJobs = "1 0 0 40 10 5\n2 0 1 30 20 3\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	must.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	raw, err := os.ReadFile(path)
	must.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n")
}

func TestRunCommand_Implements(t *testing.T) {
	ci.Parallel(t)
	var _ cli.Command = &RunCommand{}
}

func TestRunCommand_Scenario(t *testing.T) {
	ci.Parallel(t)

	dir := t.TempDir()
	jobs := writeFile(t, dir, "JobArrival.txt", scenarioJobs)
	out := filepath.Join(dir, "Results.csv")

	ui := cli.NewMockUi()
	cmd := &RunCommand{Meta: Meta{Ui: ui}}
	code := cmd.Run([]string{
		"-nodes", "2",
		"-queue", "ShortestDurationFirst",
		"-alloc", "FirstFit",
		"-out", out,
		jobs,
	})
	must.Zero(t, code)
	must.Eq(t, "", ui.ErrorWriter.String())

	must.Eq(t, []string{
		"| Worker Node | Available Cores | Available Memory |",
		"|-------------|-----------------|------------------|",
		"| Worker Node 1 |               4 |               34 |",
		"| Worker Node 2 |              14 |               24 |",
	}, readLines(t, out))

	output := ui.OutputWriter.String()
	must.StrContains(t, output, "Scheduling complete")
	must.StrContains(t, output, "Run ID")
	must.StrContains(t, output, "2 allocated, 0 rejected (2 total)")
	must.StrContains(t, output, "2 of 2")
	must.StrContains(t, output, "18 of 48")
}

func TestRunCommand_MissingJobsFile(t *testing.T) {
	ci.Parallel(t)

	dir := t.TempDir()
	out := filepath.Join(dir, "Results.csv")

	ui := cli.NewMockUi()
	cmd := &RunCommand{Meta: Meta{Ui: ui}}
	code := cmd.Run([]string{"-nodes", "2", "-out", out, filepath.Join(dir, "missing.txt")})

	// the run still completes and reports untouched nodes
	must.Zero(t, code)
	must.StrContains(t, ui.ErrorWriter.String(), "Error opening jobs file")
	must.StrContains(t, ui.OutputWriter.String(), "0 allocated, 0 rejected (0 total)")

	lines := readLines(t, out)
	must.Len(t, 4, lines)
	must.Eq(t, "| Worker Node 2 |              24 |               64 |", lines[3])
}

func TestRunCommand_UnwritableResults(t *testing.T) {
	ci.Parallel(t)

	dir := t.TempDir()
	jobs := writeFile(t, dir, "jobs.txt", scenarioJobs)

	ui := cli.NewMockUi()
	cmd := &RunCommand{Meta: Meta{Ui: ui}}
	code := cmd.Run([]string{"-nodes", "2", "-out", filepath.Join(dir, "nope", "Results.csv"), jobs})
	must.One(t, code)
	must.StrContains(t, ui.ErrorWriter.String(), "Error saving results")
}

func TestRunCommand_UnknownPolicy(t *testing.T) {
	ci.Parallel(t)

	dir := t.TempDir()
	jobs := writeFile(t, dir, "jobs.txt", scenarioJobs)
	out := filepath.Join(dir, "Results.csv")

	ui := cli.NewMockUi()
	cmd := &RunCommand{Meta: Meta{Ui: ui}}
	code := cmd.Run([]string{"-nodes", "2", "-alloc", "NextFit", "-out", out, jobs})
	must.Zero(t, code)
	must.StrContains(t, ui.ErrorWriter.String(), `unknown allocation policy "NextFit"`)
	must.StrContains(t, ui.OutputWriter.String(), "0 allocated, 2 rejected (2 total)")
	must.StrContains(t, ui.OutputWriter.String(), "RejectAll")

	lines := readLines(t, out)
	must.Eq(t, "| Worker Node 1 |              24 |               64 |", lines[2])
	must.Eq(t, "| Worker Node 2 |              24 |               64 |", lines[3])
}

func TestRunCommand_UnknownPolicyStrict(t *testing.T) {
	ci.Parallel(t)

	dir := t.TempDir()
	jobs := writeFile(t, dir, "jobs.txt", scenarioJobs)
	out := filepath.Join(dir, "Results.csv")

	ui := cli.NewMockUi()
	cmd := &RunCommand{Meta: Meta{Ui: ui}}
	code := cmd.Run([]string{"-strict", "-queue", "Longest", "-out", out, jobs})
	must.One(t, code)
	must.StrContains(t, ui.ErrorWriter.String(), `unknown queue policy "Longest"`)

	_, err := os.Stat(out)
	must.True(t, os.IsNotExist(err))
}

func TestRunCommand_OversizedJob(t *testing.T) {
	ci.Parallel(t)

	dir := t.TempDir()
	jobs := writeFile(t, dir, "jobs.txt", "1 0 0 40 10 5\n9 0 0 100 4 1\n")
	out := filepath.Join(dir, "Results.csv")

	ui := cli.NewMockUi()
	cmd := &RunCommand{Meta: Meta{Ui: ui}}
	code := cmd.Run([]string{"-nodes", "2", "-out", out, jobs})
	must.Zero(t, code)

	errOut := ui.ErrorWriter.String()
	must.StrContains(t, errOut, "job could not be allocated")
	must.StrContains(t, errOut, "job_id=9")
	must.StrContains(t, ui.OutputWriter.String(), "1 allocated, 1 rejected (2 total)")
}

func TestRunCommand_MalformedLinesAreSilent(t *testing.T) {
	ci.Parallel(t)

	dir := t.TempDir()
	jobs := writeFile(t, dir, "jobs.txt", "1 0 0 40 10 5\ngarbage\n2 0 1 30 20\n")
	out := filepath.Join(dir, "Results.csv")

	ui := cli.NewMockUi()
	cmd := &RunCommand{Meta: Meta{Ui: ui}}
	code := cmd.Run([]string{"-nodes", "2", "-out", out, jobs})
	must.Zero(t, code)
	must.Eq(t, "", ui.ErrorWriter.String())
	must.StrContains(t, ui.OutputWriter.String(), "1 allocated, 0 rejected (1 total)")
}

func TestRunCommand_ConfigPrecedence(t *testing.T) {
	ci.Parallel(t)

	dir := t.TempDir()
	jobs := writeFile(t, dir, "jobs.txt", scenarioJobs)
	out := filepath.Join(dir, "Results.csv")
	cfg := writeFile(t, dir, "run.hcl", `
results_file = "`+filepath.ToSlash(out)+`"

cluster {
  node_count = 3
}

scheduler {
  queue_policy      = "ShortestDurationFirst"
  allocation_policy = "FirstFit"
}
`)

	cases := []struct {
		name     string
		args     []string
		expNodes int
	}{
		{
			name:     "config file",
			args:     []string{"-config", cfg, jobs},
			expNodes: 3,
		},
		{
			name:     "var over config",
			args:     []string{"-config", cfg, "-var", "cluster.node_count=5", jobs},
			expNodes: 5,
		},
		{
			name:     "flag over var",
			args:     []string{"-config", cfg, "-var", "cluster.node_count=5", "-nodes", "4", jobs},
			expNodes: 4,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ui := cli.NewMockUi()
			cmd := &RunCommand{Meta: Meta{Ui: ui}}
			must.Zero(t, cmd.Run(tc.args))
			must.Len(t, tc.expNodes+2, readLines(t, out))
			must.StrContains(t, ui.OutputWriter.String(), "ShortestDurationFirst")
		})
	}
}

func TestRunCommand_JSONResults(t *testing.T) {
	ci.Parallel(t)

	dir := t.TempDir()
	jobs := writeFile(t, dir, "jobs.txt", scenarioJobs)
	out := filepath.Join(dir, "results.json")

	ui := cli.NewMockUi()
	cmd := &RunCommand{Meta: Meta{Ui: ui}}
	code := cmd.Run([]string{
		"-nodes", "2", "-queue", "ShortestDurationFirst", "-alloc", "FirstFit",
		"-format", "json", "-out", out, jobs,
	})
	must.Zero(t, code)

	raw, err := os.ReadFile(out)
	must.NoError(t, err)

	var nodes []map[string]int
	must.NoError(t, json.Unmarshal(raw, &nodes))
	must.Len(t, 2, nodes)
	must.Eq(t, 4, nodes[0]["available_cores"])
	must.Eq(t, 24, nodes[1]["available_memory"])
}

func TestRunCommand_Metrics(t *testing.T) {
	ci.Parallel(t)

	dir := t.TempDir()
	jobs := writeFile(t, dir, "jobs.txt", scenarioJobs+"3 0 0 100 1 1\n")
	out := filepath.Join(dir, "Results.csv")

	ui := cli.NewMockUi()
	cmd := &RunCommand{Meta: Meta{Ui: ui}}
	code := cmd.Run([]string{"-nodes", "2", "-metrics", "-out", out, jobs})
	must.Zero(t, code)

	output := ui.OutputWriter.String()
	must.StrContains(t, output, "batchsim.scheduler.jobs.allocated")
	must.StrContains(t, output, "batchsim.scheduler.jobs.rejected")
	must.StrContains(t, output, "batchsim.scheduler.process")
}

func TestRunCommand_Fails(t *testing.T) {
	ci.Parallel(t)

	cases := []struct {
		name   string
		args   []string
		expErr string
	}{
		{
			name:   "too many args",
			args:   []string{"a.txt", "b.txt"},
			expErr: "at most one argument",
		},
		{
			name:   "bad flag",
			args:   []string{"-nodes", "many"},
			expErr: "invalid value",
		},
		{
			name:   "bad var",
			args:   []string{"-var", "cluster.node_count"},
			expErr: "invalid -var",
		},
		{
			name:   "unknown var key",
			args:   []string{"-var", "cluster.node_disk=1"},
			expErr: "node_disk",
		},
		{
			name:   "bad format",
			args:   []string{"-format", "xml"},
			expErr: `unknown results format "xml"`,
		},
		{
			name:   "missing config",
			args:   []string{"-config", "/does/not/exist.hcl"},
			expErr: "Error loading configuration",
		},
		{
			name:   "negative nodes",
			args:   []string{"-nodes", "-1"},
			expErr: "cluster.node_count must be positive",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ui := cli.NewMockUi()
			cmd := &RunCommand{Meta: Meta{Ui: ui}}
			must.One(t, cmd.Run(tc.args))
			must.StrContains(t, ui.ErrorWriter.String(), tc.expErr)
		})
	}
}
