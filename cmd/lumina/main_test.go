package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const surfaceJSON = `{
	"nodes": [
		{"id": "base", "type": "color", "data": {"value": "#4488ff"}},
		{"id": "master", "type": "output"}
	],
	"connections": [
		{"id": "c1", "sourceNodeId": "base", "sourceSocketId": "out", "targetNodeId": "master", "targetSocketId": "color"}
	]
}`

const surfaceHCL = `
node "uv" "u1" {}
node "output" "master" {}

connect {
	from = "u1:out"
	to   = "master:color"
}
`

// execute runs the root command once with fresh flag state and captures
// its output. Tests share the package-level command tree, so they must
// not run in parallel.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	outDir, previewNode, previewFlat, nodesOut = ".", "", false, ""
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompileCommand(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFixture(t, dir, "scene.json", surfaceJSON)
	hclPath := writeFixture(t, dir, "card.hcl", surfaceHCL)

	_, err := execute(t, "compile", "-o", dir, jsonPath, hclPath)
	require.NoError(t, err)

	for _, base := range []string{"scene", "card"} {
		frag, err := os.ReadFile(filepath.Join(dir, base+".frag"))
		require.NoError(t, err)
		require.Contains(t, string(frag), "precision highp float;")
		require.Contains(t, string(frag), "gl_FragColor")

		vert, err := os.ReadFile(filepath.Join(dir, base+".vert"))
		require.NoError(t, err)
		require.Contains(t, string(vert), "gl_Position")
	}
}

func TestCompileCommandMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "compile", "-o", dir, filepath.Join(dir, "absent.json"))
	require.Error(t, err)
}

func TestPreviewCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "scene.json", surfaceJSON)

	out, err := execute(t, "preview", "--node", "base", path)
	require.NoError(t, err)
	require.Contains(t, out, "gl_FragColor")
	require.Contains(t, out, "lum_light", "default previews run the lighting rig")

	out, err = execute(t, "preview", "--node", "base", "--flat", path)
	require.NoError(t, err)
	require.NotContains(t, out, "lum_light")

	_, err = execute(t, "preview", "--node", "ghost", path)
	require.Error(t, err)
}

func TestLintCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "scene.json", surfaceJSON)

	// Missing vertex master is only a warning; the command succeeds.
	out, err := execute(t, "lint", path)
	require.NoError(t, err)
	require.Contains(t, out, "warning:")

	bad := writeFixture(t, dir, "bad.json", `{"nodes": [{"id": "x", "type": "mystery"}]}`)
	out, err = execute(t, "lint", bad)
	require.Error(t, err)
	require.Contains(t, out, "error:")
}

func TestNodesCommand(t *testing.T) {
	out, err := execute(t, "nodes")
	require.NoError(t, err)
	require.Contains(t, out, `"type": "color"`)
	require.Contains(t, out, `"type": "output"`)

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "defs.yaml")
	_, err = execute(t, "nodes", "-o", yamlPath)
	require.NoError(t, err)
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "type: color")
	require.Contains(t, string(data), "inputs:")
}
