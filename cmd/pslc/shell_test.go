package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShell_Exec(t *testing.T) {
	a := newTestApp(t, defaultConfig(), testProperties)
	sh := &shell{ctx: context.Background(), app: a}

	run := func(line string) (string, error) {
		var buf bytes.Buffer
		err := sh.exec(&buf, line)
		return buf.String(), err
	}

	out, err := run("ltl req_ack")
	require.NoError(t, err)
	assert.Equal(t, "req_ack: [ltl] G (req -> F ack)\n", out)

	out, err = run("  show   req_ack ")
	require.NoError(t, err)
	assert.Contains(t, out, "req_ack: [ltl]")
	assert.Contains(t, out, "  G (req -> F ack)\n")
	assert.Contains(t, out, "  smv: G (req -> F ack)\n")

	out, err = run("show bounded")
	require.NoError(t, err)
	assert.Contains(t, out, "bounded: [ltl]")
	assert.NotContains(t, out, "smv:")

	out, err = run("psl req_ack")
	require.NoError(t, err)
	assert.Contains(t, out, "req_ack: [ltl] ")

	_, err = run("ctl req_ack")
	assert.EqualError(t, err, "req_ack is ltl, not ctl")

	_, err = run("ltl reset_reachable")
	assert.EqualError(t, err, "reset_reachable is ctl, not ltl")

	out, err = run("ctl reset_reachable")
	require.NoError(t, err)
	assert.Contains(t, out, "EF reset")

	out, err = run("")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = run("show")
	assert.EqualError(t, err, "usage: show <name>")

	_, err = run("list extra")
	assert.EqualError(t, err, "usage: list")

	_, err = run("frobnicate")
	assert.Contains(t, err.Error(), "unknown command")

	_, err = run("ltl bounded")
	assert.Contains(t, err.Error(), "within is not supported")

	out, err = run("help")
	require.NoError(t, err)
	for name := range shellCommands {
		assert.Contains(t, out, name)
	}

	assert.ErrorIs(t, sh.exec(&bytes.Buffer{}, "quit"), errQuit)
	assert.ErrorIs(t, sh.exec(&bytes.Buffer{}, "exit"), errQuit)
}

func TestShellCompleter(t *testing.T) {
	pc := shellCompleter(func() []string { return []string{"req_ack"} })
	names := make(map[string]bool)
	for _, child := range pc.GetChildren() {
		names[string(child.GetName())] = true
	}
	for name := range shellCommands {
		assert.True(t, names[name+" "], name)
	}
}

func TestWriteInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	never := func(string) bool { return false }
	always := func(string) bool { return true }

	written, err := writeInitFile(path, "# head\n", []byte("conv: psl2smv\n"), never)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = writeInitFile(path, "", []byte("changed\n"), never)
	require.NoError(t, err)
	assert.False(t, written)
	data, _ := os.ReadFile(path)
	assert.Equal(t, "# head\nconv: psl2smv\n", string(data))

	written, err = writeInitFile(path, "", []byte("changed\n"), always)
	require.NoError(t, err)
	assert.True(t, written)
	data, _ = os.ReadFile(path)
	assert.Equal(t, "changed\n", string(data))
}

func TestExampleLoads(t *testing.T) {
	a := newTestApp(t, defaultConfig(), string(exampleYAML))
	var out, errOut bytes.Buffer
	failed := a.translateAll(context.Background(), &out, &errOut, a.ws.props, a.ws.session.Options().Conv)
	assert.Zero(t, failed, errOut.String())
	assert.Equal(t, len(a.ws.props), bytes.Count(out.Bytes(), []byte("\n")))
}
