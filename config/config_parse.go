// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl"
)

// ParseConfigFile returns a Config parsed from a file.
func ParseConfigFile(path string) (*Config, error) {
	// slurp
	var buf bytes.Buffer
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if _, err := io.Copy(&buf, f); err != nil {
		return nil, err
	}

	// parse
	c := &Config{
		Cluster:   &ClusterConfig{},
		Scheduler: &SchedulerConfig{},
		Telemetry: &Telemetry{},
	}

	err = hcl.Decode(c, buf.String())
	if err != nil {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, err)
	}

	// convert strings to time.Durations
	err = convertDurations([]durationConversionMap{
		{"telemetry.collection_interval", &c.Telemetry.collectionInterval, &c.Telemetry.CollectionInterval},
	})
	if err != nil {
		return nil, err
	}

	// report unexpected keys
	err = extraKeys(c)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// durationConversionMap holds args for one duration conversion
type durationConversionMap struct {
	targetFieldPath string
	targetField     *time.Duration
	sourceField     *string
}

// convertDurations parses the duration strings specified in the config files
// into time.Durations
func convertDurations(xs []durationConversionMap) error {
	for _, x := range xs {
		if x.targetField == nil || x.sourceField == nil || *x.sourceField == "" {
			continue
		}
		d, err := time.ParseDuration(*x.sourceField)
		if err != nil {
			return fmt.Errorf("%s can't parse time duration %s", x.targetFieldPath, *x.sourceField)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", x.targetFieldPath, *x.sourceField)
		}
		*x.targetField = d
	}
	return nil
}

func extraKeys(c *Config) error {
	// hcl leaves block names behind as extra keys when parsing JSON
	for _, k := range []string{"cluster", "scheduler", "telemetry"} {
		removeKey(&c.ExtraKeysHCL, k)
	}

	var mErr multierror.Error
	check := func(prefix string, keys []string) {
		for _, k := range keys {
			mErr.Errors = append(mErr.Errors, fmt.Errorf("unexpected key %q", prefix+k))
		}
	}
	check("", c.ExtraKeysHCL)
	check("cluster.", c.Cluster.ExtraKeysHCL)
	check("scheduler.", c.Scheduler.ExtraKeysHCL)
	check("telemetry.", c.Telemetry.ExtraKeysHCL)

	return mErr.ErrorOrNil()
}

func removeKey(keys *[]string, key string) {
	out := (*keys)[:0]
	for _, k := range *keys {
		if k != key {
			out = append(out, k)
		}
	}
	*keys = out
}
