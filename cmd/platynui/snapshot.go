package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/d-biehl/platynui/internal/config"
	"github.com/d-biehl/platynui/pkg/runtime"
	"github.com/d-biehl/platynui/pkg/snapshot"
	"github.com/d-biehl/platynui/pkg/uinode"
)

// snapshotFlags mirrors spec.md §4.8's CLI surface for tree dumps.
type snapshotFlags struct {
	output           string
	maxDepth         int
	attrs            string
	include          []string
	exclude          []string
	excludeDerived   bool
	includeRuntimeID bool
	pretty           bool
	format           string
	noAttrs          bool
}

func (f *snapshotFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.output, "output", "-", "output file path, or - for stdout")
	flags.IntVar(&f.maxDepth, "max-depth", 0, "maximum depth to descend, 0 for unlimited")
	flags.StringVar(&f.attrs, "attrs", "default", "attribute selection: all, default, or list")
	flags.StringSliceVar(&f.include, "include", nil, "attribute name globs to include when --attrs=list")
	flags.StringSliceVar(&f.exclude, "exclude", nil, "attribute name globs to exclude")
	flags.BoolVar(&f.excludeDerived, "exclude-derived", false, "suppress derived alias attributes (Bounds.X/Y/Width/Height, ActivationPoint.X/Y)")
	flags.BoolVar(&f.includeRuntimeID, "include-runtime-id", false, "include each node's runtime id")
	flags.BoolVar(&f.pretty, "pretty", true, "pretty-print XML output (the writer always indents; kept for CLI surface parity)")
	flags.StringVar(&f.format, "format", "text", "output format: text or xml")
	flags.BoolVar(&f.noAttrs, "no-attrs", false, "omit attributes entirely")
}

func (f *snapshotFlags) options() snapshot.Options {
	opts := snapshot.DefaultOptions()
	switch f.attrs {
	case "all":
		opts.AttributeMode = snapshot.AttributesAll
	case "list":
		opts.AttributeMode = snapshot.AttributesList
	default:
		opts.AttributeMode = snapshot.AttributesDefault
	}
	if f.noAttrs {
		opts.AttributeMode = snapshot.AttributesList
		opts.Include = nil
	} else {
		opts.Include = f.include
	}
	opts.Exclude = f.exclude
	opts.ExcludeDerived = f.excludeDerived
	opts.MaxDepth = f.maxDepth
	opts.IncludeRuntimeID = f.includeRuntimeID
	return opts
}

func newSnapshotCommand(getRuntime func() *runtime.Runtime, getConfig func() *config.Config) *cobra.Command {
	flags := &snapshotFlags{}

	cmd := &cobra.Command{
		Use:   "snapshot <xpath>",
		Short: "Evaluate an XPath expression and dump the resulting node(s) as text or XML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := getRuntime()
			cfg := getConfig()

			items, err := rt.Evaluate(args[0], nil)
			if err != nil {
				return fail(err)
			}

			out := os.Stdout
			if flags.output != "" && flags.output != "-" {
				f, err := os.Create(flags.output)
				if err != nil {
					return fmt.Errorf("opening --output: %w", err)
				}
				defer f.Close()
				out = f
			}

			opts := flags.options()
			noColor := cfg != nil && cfg.NoColor
			heading := colorOutput(noColor)

			for i, item := range items {
				if len(items) > 1 {
					fmt.Fprintf(out, "%s\n", heading.Sprintf("--- result %d ---", i+1))
				}
				if item.Kind != runtime.EvaluationItemNode {
					fmt.Fprintln(out, item.StringValue())
					continue
				}
				if err := writeNode(out, item.Node, opts, flags.format); err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// writeNode renders one node sub-tree per --format, mirroring spec.md
// §4.8's text/xml dump shapes.
func writeNode(out *os.File, node uinode.Node, opts snapshot.Options, format string) error {
	if format == "xml" {
		return snapshot.XML(out, node, opts)
	}
	lines, err := snapshot.Text(node, opts)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}
