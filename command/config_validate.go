// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package command

import (
	"fmt"
	"strings"

	"github.com/hashicorp/nomad-batchsim/config"
	"github.com/posener/complete"
)

type ConfigValidateCommand struct {
	Meta
}

func (c *ConfigValidateCommand) Help() string {
	helpText := `
Usage: batchsim config validate <config_file>

  Parses a run configuration file, applies it over the defaults and checks
  the result. Unknown keys, malformed durations and values no run can use
  are reported. Unknown policy names are warnings unless the file sets
  strict = true.

General Options:

  ` + generalOptionsUsage()

	return strings.TrimSpace(helpText)
}

func (c *ConfigValidateCommand) Synopsis() string {
	return "Checks the validity of a run configuration file"
}

func (c *ConfigValidateCommand) AutocompleteFlags() complete.Flags {
	return c.Meta.AutocompleteFlags()
}

func (c *ConfigValidateCommand) AutocompleteArgs() complete.Predictor {
	return complete.PredictOr(
		complete.PredictFiles("*.hcl"),
		complete.PredictFiles("*.json"),
	)
}

func (c *ConfigValidateCommand) Name() string { return "config validate" }

func (c *ConfigValidateCommand) Run(args []string) int {
	flags := c.Meta.FlagSet(c.Name())
	flags.Usage = func() { c.Ui.Output(c.Help()) }
	if err := flags.Parse(args); err != nil {
		return 1
	}

	args = flags.Args()
	if len(args) != 1 {
		c.Ui.Error("This command takes one argument: <config_file>")
		c.Ui.Error(commandErrorText(c))
		return 1
	}

	fileConfig, err := config.ParseConfigFile(args[0])
	if err != nil {
		c.Ui.Error(fmt.Sprintf("Error loading configuration from %s: %s", args[0], err))
		return 1
	}

	cfg := config.DefaultConfig().Merge(fileConfig)
	if err := cfg.Validate(); err != nil {
		c.Ui.Error(c.Colorize().Color("[bold][red]Configuration validation errors:[reset]"))
		c.Ui.Error(err.Error())
		return 1
	}

	if _, _, err := cfg.Scheduler.Policies(); err != nil {
		c.Ui.Warn(fmt.Sprintf("Warning: %s", err))
	}

	c.Ui.Output("Configuration is valid!")
	return 0
}
