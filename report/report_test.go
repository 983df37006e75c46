// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package report

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-msgpack/v2/codec"
	"github.com/hashicorp/nomad-batchsim/ci"
	"github.com/hashicorp/nomad-batchsim/mock"
	"github.com/hashicorp/nomad-batchsim/structs"
	"github.com/shoenig/test/must"
	"gopkg.in/yaml.v3"
)

func scenarioNodes() []*structs.Node {
	nodes := mock.Nodes(2)
	nodes[0].Allocate(structs.NewJob(2, 0, 1, 30, 20, 3))
	nodes[1].Allocate(structs.NewJob(1, 0, 0, 40, 10, 5))
	return nodes
}

func TestWriteTable(t *testing.T) {
	ci.Parallel(t)

	var buf bytes.Buffer
	must.NoError(t, WriteTable(&buf, scenarioNodes()))

	exp := "| Worker Node | Available Cores | Available Memory |\n" +
		"|-------------|-----------------|------------------|\n" +
		"| Worker Node 1 |               4 |               34 |\n" +
		"| Worker Node 2 |              14 |               24 |\n"
	must.Eq(t, exp, buf.String())
}

func TestWriteTable_Empty(t *testing.T) {
	ci.Parallel(t)

	var buf bytes.Buffer
	must.NoError(t, WriteTable(&buf, nil))
	must.Eq(t, tableHeader+tableSeparator, buf.String())
}

func TestWriteTable_RowsByPosition(t *testing.T) {
	ci.Parallel(t)

	// rows are numbered by position, not by the node's own index
	nodes := []*structs.Node{structs.NewNode(7, 1, 2)}

	var buf bytes.Buffer
	must.NoError(t, WriteTable(&buf, nodes))
	must.StrContains(t, buf.String(), "| Worker Node 1 |")
}

func TestWriteCSV(t *testing.T) {
	ci.Parallel(t)

	var buf bytes.Buffer
	must.NoError(t, WriteCSV(&buf, scenarioNodes()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	must.Eq(t, []string{
		"node,available_cores,available_memory,capacity_cores,capacity_memory",
		"1,4,34,24,64",
		"2,14,24,24,64",
	}, lines)
}

func TestWriteJSON(t *testing.T) {
	ci.Parallel(t)

	var buf bytes.Buffer
	must.NoError(t, WriteJSON(&buf, scenarioNodes()))

	var out []NodeState
	must.NoError(t, codec.NewDecoderBytes(buf.Bytes(), jsonHandle).Decode(&out))
	must.Eq(t, nodeStates(scenarioNodes()), out)
	must.StrContains(t, buf.String(), `"available_memory": 34`)
}

func TestWriteYAML(t *testing.T) {
	ci.Parallel(t)

	var buf bytes.Buffer
	must.NoError(t, WriteYAML(&buf, scenarioNodes()))

	var out []NodeState
	must.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	must.Eq(t, nodeStates(scenarioNodes()), out)
}

func TestParseFormat(t *testing.T) {
	ci.Parallel(t)

	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		must.NoError(t, err)
		must.Eq(t, f, got)
	}

	_, err := ParseFormat("xml")
	must.ErrorContains(t, err, `unknown results format "xml"`)
}

func TestSaveFile(t *testing.T) {
	ci.Parallel(t)

	path := filepath.Join(t.TempDir(), "Results.csv")
	nodes := scenarioNodes()
	must.NoError(t, SaveFile(path, FormatTable, nodes))

	raw, err := os.ReadFile(path)
	must.NoError(t, err)
	must.StrContains(t, string(raw), "| Worker Node 2 |              14 |               24 |")

	// saving leaves the nodes alone
	must.Eq(t, nodeStates(scenarioNodes()), nodeStates(nodes))

	// overwritten, not appended
	must.NoError(t, SaveFile(path, FormatTable, nodes[:1]))
	raw, err = os.ReadFile(path)
	must.NoError(t, err)
	must.Eq(t, 3, strings.Count(string(raw), "\n"))
}

func TestSaveFile_Unwritable(t *testing.T) {
	ci.Parallel(t)

	path := filepath.Join(t.TempDir(), "missing", "Results.csv")
	err := SaveFile(path, FormatTable, scenarioNodes())
	must.ErrorContains(t, err, "failed to open results file")

	_, statErr := os.Stat(path)
	must.True(t, os.IsNotExist(statErr))
}

func TestSaveFile_UnknownFormat(t *testing.T) {
	ci.Parallel(t)

	path := filepath.Join(t.TempDir(), "Results.xml")
	must.Error(t, SaveFile(path, Format("xml"), scenarioNodes()))

	_, statErr := os.Stat(path)
	must.True(t, os.IsNotExist(statErr))
}

func TestSaveFile_WriteFailureRemovesFile(t *testing.T) {
	ci.Parallel(t)

	path := filepath.Join(t.TempDir(), "Results.csv")
	err := saveFile(path, func(w io.Writer) error {
		if _, err := io.WriteString(w, "| Worker Node |"); err != nil {
			return err
		}
		return errors.New("disk full")
	})
	must.ErrorContains(t, err, "failed to write results file: disk full")

	_, statErr := os.Stat(path)
	must.True(t, os.IsNotExist(statErr))
}
