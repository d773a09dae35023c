// Command lumina compiles visual shader graph documents into GLSL ES
// 1.00 program pairs from the command line, plus the supporting chores
// around that: single-node previews, document linting and exporting the
// node catalog for editors and agents.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/luminagl/lumina"
	"github.com/luminagl/lumina/compile"
	"github.com/luminagl/lumina/graph"
	"github.com/luminagl/lumina/hclgraph"
	"github.com/luminagl/lumina/lint"
)

var (
	verbose bool
	outDir  string

	previewNode string
	previewFlat bool

	nodesOut string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lumina",
	Short: "Compile visual shader graphs to GLSL ES 1.00",
	Long: `lumina turns node-graph documents into WebGL-ready shader pairs.

Graphs load from JSON (the editor wire format) or HCL (the hand-written
fixture format, by .hcl extension). Compilation never fails: documents
with missing masters, unknown node kinds or cycles still produce valid
fallback shaders. Run lint to see what a document papers over.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var compileCmd = &cobra.Command{
	Use:   "compile <graph.json|graph.hcl|-> ...",
	Short: "Compile graph documents to .frag/.vert shader pairs",
	Long: `Compiles each document to <name>.frag and <name>.vert in the output
directory. Multiple documents compile concurrently. Pass - to read one
JSON document from stdin and write both programs to stdout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

var previewCmd = &cobra.Command{
	Use:   "preview <graph.json|graph.hcl>",
	Short: "Print the preview shader for one node's output",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

var lintCmd = &cobra.Command{
	Use:   "lint <graph.json|graph.hcl>",
	Short: "Check a graph document against the node catalog",
	Long: `Prints findings one per line. Exits nonzero when any finding has
error severity, meaning the compiled shaders already degraded.`,
	Args: cobra.ExactArgs(1),
	RunE: runLint,
}

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Export the node catalog",
	Long: `Writes the built-in node catalog: every node kind with its sockets
and types, in palette order. YAML when the output path ends in .yaml or
.yml, JSON otherwise. Without -o the catalog prints to stdout as JSON.`,
	Args: cobra.NoArgs,
	RunE: runNodes,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	compileCmd.Flags().StringVarP(&outDir, "out-dir", "o", ".", "directory for compiled shaders")

	previewCmd.Flags().StringVar(&previewNode, "node", "", "id of the node to preview (required)")
	previewCmd.Flags().BoolVar(&previewFlat, "flat", false, "skip the lighting rig, show the raw value")
	_ = previewCmd.MarkFlagRequired("node")

	nodesCmd.Flags().StringVarP(&nodesOut, "out", "o", "", "output path (.yaml/.yml for YAML, else JSON)")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(nodesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadGraph reads one document, picking the decoder by extension. "-"
// reads a JSON document from stdin.
func loadGraph(path string) (*graph.Graph, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return graph.Parse(data)
	}
	if filepath.Ext(path) == ".hcl" {
		return hclgraph.Load(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	return graph.Parse(data)
}

func runCompile(cmd *cobra.Command, args []string) error {
	stdout := cmd.OutOrStdout()
	var eg errgroup.Group
	for _, path := range args {
		path := path
		eg.Go(func() error {
			return compileOne(path, stdout)
		})
	}
	return eg.Wait()
}

func compileOne(path string, stdout io.Writer) error {
	g, err := loadGraph(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	frag := lumina.CompileFragment(g)
	vert := lumina.CompileVertex(g)

	if path == "-" {
		fmt.Fprintln(stdout, frag)
		fmt.Fprintln(stdout, vert)
		return nil
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	fragPath := filepath.Join(outDir, base+".frag")
	vertPath := filepath.Join(outDir, base+".vert")
	if err := os.WriteFile(fragPath, []byte(frag), 0o644); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.WriteFile(vertPath, []byte(vert), 0o644); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("compiled graph",
		zap.String("graph", path),
		zap.String("fragment", fragPath),
		zap.String("vertex", vertPath),
		zap.Int("nodes", len(g.Nodes)))
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(args[0])
	if err != nil {
		return err
	}
	if g.NodeByID(previewNode) == nil {
		return fmt.Errorf("no node %q in %s", previewNode, args[0])
	}
	logger.Debug("previewing node",
		zap.String("node", previewNode),
		zap.Bool("flat", previewFlat))
	fmt.Fprintln(cmd.OutOrStdout(), lumina.CompilePreview(g, previewNode, compile.PreviewOptions{Flat2D: previewFlat}))
	return nil
}

func runLint(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(args[0])
	if err != nil {
		return err
	}
	findings := lint.Lint(g, lumina.DefaultRegistry())
	for _, f := range findings {
		fmt.Fprintln(cmd.OutOrStdout(), f.String())
	}
	logger.Debug("linted graph",
		zap.String("graph", args[0]),
		zap.Int("findings", len(findings)))
	if lint.HasErrors(findings) {
		return fmt.Errorf("%s: lint found errors", args[0])
	}
	return nil
}

func runNodes(cmd *cobra.Command, args []string) error {
	entries := lumina.Catalog(lumina.DefaultRegistry())

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(nodesOut)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(entries)
	default:
		data, err = json.MarshalIndent(entries, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	if nodesOut == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(nodesOut, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	logger.Info("exported catalog",
		zap.String("path", nodesOut),
		zap.Int("kinds", len(entries)))
	return nil
}
