// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package command

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-hclog"
	metrics "github.com/hashicorp/go-metrics"
	"github.com/hashicorp/go-uuid"
	"github.com/hashicorp/nomad-batchsim/config"
	flaghelper "github.com/hashicorp/nomad-batchsim/helper/flags"
	"github.com/hashicorp/nomad-batchsim/jobspec"
	"github.com/hashicorp/nomad-batchsim/report"
	"github.com/hashicorp/nomad-batchsim/scheduler"
	"github.com/hashicorp/nomad-batchsim/structs"
	"github.com/posener/complete"
)

type RunCommand struct {
	Meta
}

func (c *RunCommand) Help() string {
	helpText := `
Usage: batchsim run [options] [jobs-file]

  Loads the job file, places every job on the simulated node pool in a single
  pass and writes the remaining capacity of each node to the results file.

  The job file defaults to JobArrival.txt and the results file to
  Results.csv. If the job file cannot be read the run continues with no
  jobs. If the results file cannot be written the command exits with 1.

  Settings are applied in order: defaults, the -config file, -var overrides
  and finally the flags below.

General Options:

  ` + generalOptionsUsage() + `

Run Options:

  -config=<path>
    HCL configuration file for the run.

  -queue=<policy>
    Order in which jobs are offered to the allocator. One of
    SmallestJobFirst, ShortestDurationFirst or None.
    Defaults to SmallestJobFirst.

  -alloc=<policy>
    How a node is picked for a job. One of FirstFit, BestFit, WorstFit or
    RejectAll. Defaults to BestFit.

  -nodes=<count>
    Number of worker nodes. Defaults to 128.

  -node-cpu=<cores>
    Cores of every worker node. Defaults to 24.

  -node-memory=<gb>
    Memory of every worker node in GB. Defaults to 64.

  -out=<path>
    Results file. Defaults to Results.csv.

  -format=<format>
    Results format. One of table, csv, json or yaml. Defaults to table.

  -var 'key=value'
    Overrides a configuration value by its dotted key, for example
    -var cluster.node_count=4. Can be used multiple times.

  -strict
    Fail on unknown policy names instead of falling back to no reordering
    and rejecting every job.

  -metrics
    Print scheduler counters and timings after the run.

  -log-level=<level>
    One of TRACE, DEBUG, INFO, WARN or ERROR. Defaults to INFO.
`
	return strings.TrimSpace(helpText)
}

func (c *RunCommand) Synopsis() string {
	return "Run a scheduling simulation"
}

func (c *RunCommand) AutocompleteFlags() complete.Flags {
	return mergeAutocompleteFlags(c.Meta.AutocompleteFlags(),
		complete.Flags{
			"-config":      complete.PredictFiles("*.hcl"),
			"-queue":       complete.PredictSet(structs.QueuePolicyNames...),
			"-alloc":       complete.PredictSet(structs.AllocationPolicyNames...),
			"-nodes":       complete.PredictAnything,
			"-node-cpu":    complete.PredictAnything,
			"-node-memory": complete.PredictAnything,
			"-out":         complete.PredictFiles("*"),
			"-format":      complete.PredictSet("table", "csv", "json", "yaml"),
			"-var":         complete.PredictAnything,
			"-strict":      complete.PredictNothing,
			"-metrics":     complete.PredictNothing,
			"-log-level":   complete.PredictSet("TRACE", "DEBUG", "INFO", "WARN", "ERROR"),
		})
}

func (c *RunCommand) AutocompleteArgs() complete.Predictor {
	return complete.PredictOr(
		complete.PredictFiles("*.txt"),
		complete.PredictFiles("*.hcl"),
	)
}

func (c *RunCommand) Name() string { return "run" }

func (c *RunCommand) Run(args []string) int {
	var configPath string
	var vars flaghelper.StringFlag
	flagConfig := &config.Config{
		Cluster:   &config.ClusterConfig{},
		Scheduler: &config.SchedulerConfig{},
		Telemetry: &config.Telemetry{},
	}

	flags := c.Meta.FlagSet(c.Name())
	flags.Usage = func() { c.Ui.Output(c.Help()) }
	flags.StringVar(&configPath, "config", "", "")
	flags.StringVar(&flagConfig.Scheduler.QueuePolicy, "queue", "", "")
	flags.StringVar(&flagConfig.Scheduler.AllocationPolicy, "alloc", "", "")
	flags.IntVar(&flagConfig.Cluster.NodeCount, "nodes", 0, "")
	flags.IntVar(&flagConfig.Cluster.NodeCPU, "node-cpu", 0, "")
	flags.IntVar(&flagConfig.Cluster.NodeMemory, "node-memory", 0, "")
	flags.StringVar(&flagConfig.ResultsFile, "out", "", "")
	flags.StringVar(&flagConfig.ResultsFormat, "format", "", "")
	flags.Var(&vars, "var", "")
	flags.BoolVar(&flagConfig.Strict, "strict", false, "")
	flags.BoolVar(&flagConfig.Telemetry.Enabled, "metrics", false, "")
	flags.StringVar(&flagConfig.LogLevel, "log-level", "", "")

	if err := flags.Parse(args); err != nil {
		return 1
	}

	args = flags.Args()
	if len(args) > 1 {
		c.Ui.Error("This command takes at most one argument: [jobs-file]")
		c.Ui.Error(commandErrorText(c))
		return 1
	}
	if len(args) == 1 {
		flagConfig.JobsFile = args[0]
	}

	cfg, err := c.loadConfig(configPath, vars, flagConfig)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error loading configuration: %s", err))
		return 1
	}

	queue, alloc, err := cfg.Scheduler.Policies()
	if err != nil {
		// strict mode was already refused by Validate
		c.Ui.Warn(fmt.Sprintf("Warning: %s", err))
	}

	runID, err := uuid.GenerateUUID()
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error generating run ID: %s", err))
		return 1
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "batchsim",
		Level:  hclog.LevelFromString(cfg.LogLevel),
		Output: &uiErrorWriter{ui: c.Ui},
	}).With("run_id", runID)

	state := scheduler.NewState(cfg.ClusterSpec())

	result, err := jobspec.ParseFile(cfg.JobsFile)
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error opening jobs file: %s", err))
	} else {
		state.SetJobs(result.Jobs)
		logger.Named("jobspec").Debug("loaded jobs",
			"path", cfg.JobsFile, "jobs", len(result.Jobs), "skipped", result.SkippedCount())
	}

	var opts []scheduler.Option
	var sink *metrics.InmemSink
	if cfg.Telemetry.Enabled {
		sink = metrics.NewInmemSink(cfg.Telemetry.Interval(), time.Minute)
		metricsConf := metrics.DefaultConfig("batchsim")
		metricsConf.EnableHostname = false
		metricsConf.EnableRuntimeMetrics = false
		m, err := metrics.New(metricsConf, sink)
		if err != nil {
			c.Ui.Error(fmt.Sprintf("Error setting up metrics: %s", err))
			return 1
		}
		opts = append(opts, scheduler.WithMetrics(m))
	}

	plan := scheduler.NewBatchScheduler(logger, state, opts...).Process(queue, alloc)

	code := 0
	if err := report.SaveFile(cfg.ResultsFile, report.Format(cfg.ResultsFormat), state.Nodes()); err != nil {
		c.Ui.Error(fmt.Sprintf("Error saving results: %s", err))
		code = 1
	}

	c.Ui.Output(c.Colorize().Color("[bold]==> Scheduling complete[reset]"))
	c.Ui.Output(formatSummary(runID, scheduler.Summarize(state, plan), cfg))

	if sink != nil {
		c.Ui.Output(c.Colorize().Color("\n[bold]Metrics[reset]"))
		c.Ui.Output(formatMetrics(sink))
	}

	return code
}

// loadConfig layers the defaults, the config file, the -var overrides and
// the flags, then validates the result.
func (c *RunCommand) loadConfig(path string, vars flaghelper.StringFlag, flagConfig *config.Config) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if path != "" {
		fileConfig, err := config.ParseConfigFile(path)
		if err != nil {
			return nil, err
		}
		cfg = cfg.Merge(fileConfig)
	}

	kv, err := vars.KeyValues()
	if err != nil {
		return nil, fmt.Errorf("invalid -var: %w", err)
	}
	if err := cfg.ApplyVars(kv); err != nil {
		return nil, err
	}

	cfg = cfg.Merge(flagConfig)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ExpandPaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func formatSummary(runID string, sum *scheduler.Summary, cfg *config.Config) string {
	out := []string{
		fmt.Sprintf("Run ID|%s", runID),
		fmt.Sprintf("Queue Policy|%s", sum.QueuePolicy),
		fmt.Sprintf("Allocation Policy|%s", sum.AllocationPolicy),
		fmt.Sprintf("Jobs|%s allocated, %s rejected (%s total)",
			humanize.Comma(int64(sum.JobsAllocated)),
			humanize.Comma(int64(sum.JobsRejected)),
			humanize.Comma(int64(sum.JobsTotal))),
		fmt.Sprintf("Nodes Used|%d of %d", sum.NodesUsed, sum.NodesTotal),
		fmt.Sprintf("Free Cores|%d of %d (%s used)",
			sum.Available.CPU, sum.Capacity.CPU, formatPercent(sum.CPUUtilization())),
		fmt.Sprintf("Free Memory|%s of %s (%s used)",
			formatMemory(sum.Available.MemoryGB), formatMemory(sum.Capacity.MemoryGB),
			formatPercent(sum.MemoryUtilization())),
		fmt.Sprintf("Results|%s (%s)", cfg.ResultsFile, cfg.ResultsFormat),
	}
	return formatKV(out)
}

// formatMetrics lists the counters and timers the in-memory sink holds,
// summed over all of its intervals.
func formatMetrics(sink *metrics.InmemSink) string {
	type row struct {
		count int
		sum   float64
	}
	counters := map[string]*row{}
	timers := map[string]*row{}

	add := func(into map[string]*row, name string, v metrics.SampledValue) {
		if v.AggregateSample == nil {
			return
		}
		r, ok := into[name]
		if !ok {
			r = &row{}
			into[name] = r
		}
		r.count += v.Count
		r.sum += v.Sum
	}

	for _, interval := range sink.Data() {
		for name, v := range interval.Counters {
			add(counters, name, v)
		}
		for name, v := range interval.Samples {
			add(timers, name, v)
		}
	}

	out := []string{"Name|Type|Count|Value"}
	for _, name := range slices.Sorted(maps.Keys(counters)) {
		r := counters[name]
		out = append(out, fmt.Sprintf("%s|counter|%d|%s", name, r.count, humanize.Ftoa(r.sum)))
	}
	for _, name := range slices.Sorted(maps.Keys(timers)) {
		r := timers[name]
		mean := 0.0
		if r.count > 0 {
			mean = r.sum / float64(r.count)
		}
		out = append(out, fmt.Sprintf("%s|timer|%d|%sms mean", name, r.count, humanize.FtoaWithDigits(mean, 3)))
	}
	return formatList(out)
}
