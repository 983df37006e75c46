// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package flags

import (
	"fmt"
	"strings"
)

// StringFlag implements the flag.Value interface and allows multiple
// calls to the same variable to append a list.
type StringFlag []string

func (s *StringFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *StringFlag) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// KeyValues splits every "key=value" entry at the first '='. A later entry
// for the same key wins.
func (s StringFlag) KeyValues() (map[string]string, error) {
	out := make(map[string]string, len(s))
	for _, raw := range s {
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", raw)
		}
		out[key] = value
	}
	return out, nil
}
