// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ApplyVars sets config values from dotted keys, for example
// "cluster.node_count=4". Values are converted to the field type; unknown
// keys are errors. Durations are re-parsed afterwards.
func (c *Config) ApplyVars(vars map[string]string) error {
	if len(vars) == 0 {
		return nil
	}

	input, err := expandVars(vars)
	if err != nil {
		return err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "hcl",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           c,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("invalid -var: %w", err)
	}

	if c.Telemetry != nil {
		return convertDurations([]durationConversionMap{
			{"telemetry.collection_interval", &c.Telemetry.collectionInterval, &c.Telemetry.CollectionInterval},
		})
	}
	return nil
}

// expandVars turns dotted keys into nested maps.
func expandVars(vars map[string]string) (map[string]any, error) {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := map[string]any{}
	for _, key := range keys {
		parts := strings.Split(key, ".")
		m := out
		for i, part := range parts {
			if part == "" {
				return nil, fmt.Errorf("invalid -var key %q", key)
			}
			if i == len(parts)-1 {
				if _, ok := m[part]; ok {
					return nil, fmt.Errorf("-var key %q conflicts with another key", key)
				}
				m[part] = vars[key]
				break
			}
			next, ok := m[part]
			if !ok {
				nm := map[string]any{}
				m[part] = nm
				m = nm
				continue
			}
			nm, ok := next.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("-var key %q conflicts with another key", key)
			}
			m = nm
		}
	}
	return out, nil
}
