// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package jobspec

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/nomad-batchsim/ci"
	"github.com/hashicorp/nomad-batchsim/structs"
	"github.com/shoenig/test/must"
)

func TestParse(t *testing.T) {
	ci.Parallel(t)

	cases := []struct {
		name       string
		input      string
		expJobs    []*structs.Job
		expSkipped int
	}{
		{
			name:  "well formed",
			input: "1 0 0 40 10 5\n2 0 1 30 20 3\n",
			expJobs: []*structs.Job{
				structs.NewJob(1, 0, 0, 40, 10, 5),
				structs.NewJob(2, 0, 1, 30, 20, 3),
			},
		},
		{
			name:  "tabs and trailing tokens",
			input: "7\t1\t2\t3\t4\t5\t99 comment\n",
			expJobs: []*structs.Job{
				structs.NewJob(7, 1, 2, 3, 4, 5),
			},
		},
		{
			name:  "short and non numeric lines",
			input: "1 2 3\nfoo bar baz qux quux corge\n8 0 0 1 1 1\n",
			expJobs: []*structs.Job{
				structs.NewJob(8, 0, 0, 1, 1, 1),
			},
			expSkipped: 2,
		},
		{
			name:  "no validation of values",
			input: "-1 0 0 0 -4 +2\n",
			expJobs: []*structs.Job{
				structs.NewJob(-1, 0, 0, 0, -4, 2),
			},
		},
		{
			name:    "empty",
			input:   "",
			expJobs: []*structs.Job{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := Parse(strings.NewReader(tc.input))
			must.NoError(t, err)
			must.Eq(t, tc.expJobs, result.Jobs)
			must.Eq(t, tc.expSkipped, result.SkippedCount())
		})
	}
}

func TestParse_LongLines(t *testing.T) {
	ci.Parallel(t)

	t.Run("trailing whitespace", func(t *testing.T) {
		src := "1 0 0 40 10 5\n2 0 1 30 20 3" + strings.Repeat(" ", 70000) + "\n3 0 2 8 4 7\n"
		result, err := Parse(strings.NewReader(src))
		must.NoError(t, err)
		must.Len(t, 3, result.Jobs)
		must.Zero(t, result.SkippedCount())
		must.Eq(t, 3, result.Jobs[1].ExecTime)
	})

	t.Run("malformed", func(t *testing.T) {
		src := "1 0 0 40 10 5\n" + strings.Repeat("x ", 40000) + "\n3 0 2 8 4 7"
		result, err := Parse(strings.NewReader(src))
		must.NoError(t, err)
		must.Len(t, 2, result.Jobs)
		must.Eq(t, 1, result.SkippedCount())
		must.ErrorContains(t, result.Skipped, "line 2")
		must.Eq(t, 3, result.Jobs[1].ID)
	})
}

func TestParseFile(t *testing.T) {
	ci.Parallel(t)

	result, err := ParseFile(filepath.Join("test-fixtures", "JobArrival.txt"))
	must.NoError(t, err)
	must.Len(t, 3, result.Jobs)
	must.Eq(t, structs.NewJob(3, 0, 2, 8, 4, 7), result.Jobs[2])
	must.Zero(t, result.SkippedCount())
}

func TestParseFile_Malformed(t *testing.T) {
	ci.Parallel(t)

	result, err := ParseFile(filepath.Join("test-fixtures", "malformed.txt"))
	must.NoError(t, err)

	ids := []int{}
	for _, job := range result.Jobs {
		ids = append(ids, job.ID)
	}
	must.Eq(t, []int{1, 2, 5}, ids)
	must.Eq(t, 3, result.SkippedCount())

	msg := result.Skipped.Error()
	must.StrContains(t, msg, "line 5")
	must.StrContains(t, msg, "line 6")
	must.StrContains(t, msg, `line 7: field 5 "x" is not an integer`)
}

func TestParseFile_Missing(t *testing.T) {
	ci.Parallel(t)

	result, err := ParseFile(filepath.Join("test-fixtures", "does-not-exist.txt"))
	must.Error(t, err)
	must.True(t, result == nil)
}

func TestParseFile_HCL(t *testing.T) {
	ci.Parallel(t)

	result, err := ParseFile(filepath.Join("test-fixtures", "jobs.hcl"))
	must.NoError(t, err)
	must.Eq(t, []*structs.Job{
		structs.NewJob(1, 0, 0, 40, 10, 5),
		structs.NewJob(2, 0, 1, 30, 20, 3),
	}, result.Jobs)
}

func TestParseHCL_Errors(t *testing.T) {
	ci.Parallel(t)

	_, err := ParseHCL("bad.hcl", []byte(`job "1" { memory = 4 }`))
	must.ErrorContains(t, err, "failed to decode HCL file")

	result, err := ParseHCL("label.hcl", []byte(`
job "web" {
  memory    = 4
  cpu       = 1
  exec_time = 1
}
job "2" {
  memory    = 4
  cpu       = 1
  exec_time = 1
}
`))
	must.NoError(t, err)
	must.Len(t, 1, result.Jobs)
	must.Eq(t, 1, result.SkippedCount())
	must.StrContains(t, result.Skipped.Error(), `label "web" is not an integer`)
}

func TestParseResult_Duplicates(t *testing.T) {
	ci.Parallel(t)

	result, err := Parse(strings.NewReader("1 0 0 1 1 1\n2 0 0 1 1 1\n1 0 0 1 1 1\n3 0 0 1 1 1\n1 0 0 1 1 1\n2 0 0 1 1 1\n"))
	must.NoError(t, err)
	must.Eq(t, []int{1, 2}, result.Duplicates())

	result, err = Parse(strings.NewReader("1 0 0 1 1 1\n"))
	must.NoError(t, err)
	must.SliceEmpty(t, result.Duplicates())
}
