package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/stormnet/pkg/inference"
)

const squareScenario = `
p1: 0.2
p2: 0.3
weather: {mild: 0.6, stormy: 0.3, extreme: 0.1}
vertices:
  - {id: "1", rate: 0.1}
  - {id: "2", rate: 0.1}
  - {id: "3", rate: 0.1}
  - {id: "4", rate: 0.1}
edges:
  - {from: "1", to: "2", weight: 1}
  - {from: "2", to: "3", weight: 1}
  - {from: "3", to: "4", weight: 1}
  - {from: "4", to: "1", weight: 1}
queries:
  - name: breakage-1
    query: ["Breakage(1)"]
  - name: weather-given-breakage
    query: [Weather]
    evidence: {"Breakage(1)": "true"}
`

func writeScenario(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

// execute runs the CLI and returns stdout and stderr
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "stormnet.log")
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--log-output", logPath))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNetworkCommand(t *testing.T) {
	path := writeScenario(t, squareScenario)

	out, _, err := execute(t, "network", "-s", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Breakage(1), Breakage(2), Breakage(4)")
	assert.Contains(t, out, "P(true)")
	assert.Contains(t, out, "0.6000")
}

func TestAskCommand(t *testing.T) {
	path := writeScenario(t, squareScenario)

	out, _, err := execute(t, "ask", "-s", path, "-q", "Weather", "-e", "Breakage(1)=true", "--places", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "P(Weather)")
	assert.Contains(t, out, "given Breakage(1)=true")
	assert.Contains(t, out, "0.40")
	assert.Contains(t, out, "0.20")
}

func TestAskCommandParallel(t *testing.T) {
	path := writeScenario(t, squareScenario)

	serial, _, err := execute(t, "ask", "-s", path, "-q", "Weather", "-q", "Evacuee(2)")
	require.NoError(t, err)
	parallel, _, err := execute(t, "ask", "-s", path, "-q", "Weather", "-q", "Evacuee(2)", "-w", "4")
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestAskCommandErrors(t *testing.T) {
	path := writeScenario(t, squareScenario)

	_, _, err := execute(t, "ask", "-s", path, "-q", "Flood")
	assert.Error(t, err)

	_, _, err = execute(t, "ask", "-s", path, "-q", "Weather", "-e", "Breakage(1)")
	assert.ErrorContains(t, err, "want Variable=state")

	_, _, err = execute(t, "ask", "-s", path)
	assert.Error(t, err, "query flag is required")

	_, _, err = execute(t, "ask", "-q", "Weather")
	assert.Error(t, err, "scenario flag is required")
}

func TestRunCommand(t *testing.T) {
	path := writeScenario(t, squareScenario)

	out, _, err := execute(t, "run", "-s", path)
	require.NoError(t, err)
	assert.Contains(t, out, "breakage-1")
	assert.Contains(t, out, "0.1500")
	assert.Contains(t, out, "weather-given-breakage")

	out, _, err = execute(t, "run", "-s", path, "-n", "weather-given-breakage")
	require.NoError(t, err)
	assert.NotContains(t, out, "breakage-1")

	_, _, err = execute(t, "run", "-s", path, "-n", "missing")
	assert.ErrorContains(t, err, "no query named")
}

func TestRunCommandReportsFailedQueries(t *testing.T) {
	doc := squareScenario + `
  - name: impossible
    query: [Weather]
    evidence: {"Breakage(1)": "false", "Breakage(2)": "false", "Breakage(4)": "false", "Evacuee(1)": "true"}
`
	path := writeScenario(t, doc)

	out, _, err := execute(t, "run", "-s", path)
	assert.ErrorContains(t, err, "1 of 3 queries failed")
	assert.Contains(t, out, "impossible: "+inference.ErrZeroEvidenceProbability.Error())
}

func TestRenderCommand(t *testing.T) {
	path := writeScenario(t, squareScenario)

	out, _, err := execute(t, "render", "-s", path, "--what", "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "graph \"grid\" {")
	assert.Contains(t, out, "\"1\" -- \"2\"")

	out, _, err = execute(t, "render", "-s", path)
	require.NoError(t, err)
	assert.Contains(t, out, "digraph \"network\" {")

	file := filepath.Join(t.TempDir(), "net.json")
	_, _, err = execute(t, "render", "-s", path, "-f", "json", "--layout", "force", "-o", file)
	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	dotFile := filepath.Join(t.TempDir(), "grid.dot")
	_, _, err = execute(t, "render", "-s", path, "--what", "graph", "-o", dotFile)
	require.NoError(t, err)
	data, err = os.ReadFile(dotFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "graph \"grid\" {"))

	badFile := filepath.Join(t.TempDir(), "grid.svg")
	_, _, err = execute(t, "render", "-s", path, "-f", "svg", "-o", badFile)
	assert.ErrorContains(t, err, "--format must be dot or json")
	assert.NoFileExists(t, badFile)

	_, _, err = execute(t, "render", "-s", path, "--what", "tree")
	assert.Error(t, err)
	_, _, err = execute(t, "render", "-s", path, "--layout", "spiral")
	assert.Error(t, err)
}

func TestMetricsFlag(t *testing.T) {
	path := writeScenario(t, squareScenario)

	_, stderr, err := execute(t, "ask", "-s", path, "-q", "Weather", "--metrics")
	require.NoError(t, err)

	assert.Contains(t, stderr, `stormnet_builds_total{status="success"} 1`)
	assert.Contains(t, stderr, `stormnet_queries_total{status="success"} 1`)
	assert.Contains(t, stderr, "stormnet_network_variables 9")
}

func TestInvalidScenario(t *testing.T) {
	path := writeScenario(t, "p1: 2\n")

	_, _, err := execute(t, "network", "-s", path)
	assert.ErrorContains(t, err, "invalid scenario")
}

func TestInvalidLogConfig(t *testing.T) {
	path := writeScenario(t, squareScenario)

	_, _, err := execute(t, "network", "-s", path, "--log-format", "xml")
	assert.ErrorContains(t, err, "must be one of")
}

func TestParseEvidence(t *testing.T) {
	ev, err := parseEvidence([]string{"Evacuee(1)=false", " Weather = mild "})
	require.NoError(t, err)
	assert.Equal(t, inference.Evidence{"Evacuee(1)": "false", "Weather": "mild"}, ev)

	_, err = parseEvidence([]string{"Weather=mild", "Weather=stormy"})
	assert.ErrorContains(t, err, "already observed")

	for _, bad := range []string{"Weather", "=mild", "Weather="} {
		_, err = parseEvidence([]string{bad})
		assert.Error(t, err, bad)
	}
}
