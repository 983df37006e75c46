// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package report writes the final state of the node pool.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/hashicorp/go-msgpack/v2/codec"
	"github.com/hashicorp/nomad-batchsim/structs"
	"gopkg.in/yaml.v3"
)

// Format is the layout of a results file.
type Format string

const (
	// FormatTable is the markdown style table the results file has always
	// used, even though the default file name ends in .csv.
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatTable, FormatCSV, FormatJSON, FormatYAML}

// ParseFormat returns the format with the given name.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown results format %q", name)
}

const (
	tableHeader    = "| Worker Node | Available Cores | Available Memory |\n"
	tableSeparator = "|-------------|-----------------|------------------|\n"
)

var jsonHandle = &codec.JsonHandle{
	HTMLCharsAsIs: true,
	Indent:        4,
}

// NodeState is the serialized view of one node.
type NodeState struct {
	Node            int `json:"node" yaml:"node"`
	AvailableCores  int `json:"available_cores" yaml:"available_cores"`
	AvailableMemory int `json:"available_memory" yaml:"available_memory"`
	CapacityCores   int `json:"capacity_cores" yaml:"capacity_cores"`
	CapacityMemory  int `json:"capacity_memory" yaml:"capacity_memory"`
}

func nodeStates(nodes []*structs.Node) []NodeState {
	out := make([]NodeState, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, NodeState{
			Node:            n.Index,
			AvailableCores:  n.Available.CPU,
			AvailableMemory: n.Available.MemoryGB,
			CapacityCores:   n.Capacity.CPU,
			CapacityMemory:  n.Capacity.MemoryGB,
		})
	}
	return out
}

// WriteTable writes one row per node in pool order. Rows are numbered by
// position in the pool starting at 1.
func WriteTable(w io.Writer, nodes []*structs.Node) error {
	if _, err := io.WriteString(w, tableHeader+tableSeparator); err != nil {
		return err
	}
	for i, n := range nodes {
		_, err := fmt.Fprintf(w, "| Worker Node %d | %15d | %16d |\n", i+1, n.Available.CPU, n.Available.MemoryGB)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes a header and one record per node.
func WriteCSV(w io.Writer, nodes []*structs.Node) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"node", "available_cores", "available_memory", "capacity_cores", "capacity_memory"}); err != nil {
		return err
	}
	for _, s := range nodeStates(nodes) {
		record := []string{
			strconv.Itoa(s.Node),
			strconv.Itoa(s.AvailableCores),
			strconv.Itoa(s.AvailableMemory),
			strconv.Itoa(s.CapacityCores),
			strconv.Itoa(s.CapacityMemory),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the nodes as an indented JSON array.
func WriteJSON(w io.Writer, nodes []*structs.Node) error {
	if err := codec.NewEncoder(w, jsonHandle).Encode(nodeStates(nodes)); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteYAML writes the nodes as a YAML sequence.
func WriteYAML(w io.Writer, nodes []*structs.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(nodeStates(nodes)); err != nil {
		return err
	}
	return enc.Close()
}

// Write dispatches on the format.
func Write(w io.Writer, format Format, nodes []*structs.Node) error {
	switch format {
	case FormatTable:
		return WriteTable(w, nodes)
	case FormatCSV:
		return WriteCSV(w, nodes)
	case FormatJSON:
		return WriteJSON(w, nodes)
	case FormatYAML:
		return WriteYAML(w, nodes)
	}
	return fmt.Errorf("unknown results format %q", format)
}

// SaveFile truncates or creates path and writes the nodes to it. Nodes are
// only read. If the file cannot be opened or written, no file is left behind.
func SaveFile(path string, format Format, nodes []*structs.Node) error {
	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}
	return saveFile(path, func(w io.Writer) error {
		return Write(w, format, nodes)
	})
}

func saveFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open results file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write results file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
