package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const game = `
log_level: error
environment:
  width: 5
  height: 5
  predators: [{x: 2, y: 1}]
  prey: [{x: 2, y: 2}]
  max_steps: 50
experiment:
  episodes: 5
  progress: false
`

func run(t *testing.T, args ...string) string {
	path := filepath.Join(t.TempDir(), "pursuit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(game), 0o644))

	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--config", path))
	require.NoError(t, root.Execute(), errOut.String())
	return out.String()
}

func TestPlan(t *testing.T) {
	t.Run("evaluate", func(t *testing.T) {
		out := run(t, "evaluate")
		require.Contains(t, out, "sweeps:")
		require.Contains(t, out, "Down   π=0.2000")
	})

	for _, use := range []string{"iterate-policy", "iterate-values"} {
		t.Run(use, func(t *testing.T) {
			out := run(t, use)
			require.Contains(t, out, "Down   π=1.0000")
			require.Contains(t, out, "Up     π=0.0000")
		})
	}

	t.Run("unconverged", func(t *testing.T) {
		root := NewRootCommand()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		t.Setenv("PURSUIT_PLANNING_MAX_SWEEPS", "1")
		t.Setenv("PURSUIT_LOG_LEVEL", "disabled")
		root.SetArgs([]string{"iterate-values"})
		require.Error(t, root.Execute())
	})
}

func TestLearn(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "report.html")
	data := filepath.Join(dir, "data")

	out := run(t, "learn", "--episodes", "3", "--report", report,
		"--data-dir", data)
	require.Contains(t, out, "episodes:  3")
	require.Contains(t, out, "states:")

	html, err := os.ReadFile(report)
	require.NoError(t, err)
	require.Contains(t, string(html), "QLearning on 5x5 pursuit")

	for _, name := range []string{"return.gob", "episode_length.gob"} {
		_, err := os.Stat(filepath.Join(data, name))
		require.NoError(t, err)
	}
}

func TestLogLevel(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"evaluate", "--log-level", "chatty"})
	require.Error(t, root.Execute())
}
