// Command platynui is the reference CLI surface over the runtime façade
// (spec.md §6's CLI subset): a `pointer` command tree mirroring the
// pointer engine's operations and a `snapshot` command exporting a node
// subtree as text or XML. Grounded on _examples/kiosk404-echoryn's
// cobra/pflag/viper command-tree conventions (internal/echoctl/cmd/cmd.go,
// internal/echoctl/cmd/chat/chat.go), with colored tree output via
// github.com/fatih/color mirroring echoryn's --no-color flag.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/d-biehl/platynui/internal/config"
	"github.com/d-biehl/platynui/internal/platform/robotgo"
	"github.com/d-biehl/platynui/pkg/capability"
	"github.com/d-biehl/platynui/pkg/provider"
	"github.com/d-biehl/platynui/pkg/provider/memtree"
	"github.com/d-biehl/platynui/pkg/runtime"
)

// globalFlags holds the persistent flags every subcommand shares. At
// PersistentPreRunE time the config is loaded with config.Load, then a
// non-empty --provider and a set --no-color overwrite the loaded values.
type globalFlags struct {
	configPath string
	provider   string
	noColor    bool
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	var cfg *config.Config
	var rt *runtime.Runtime

	root := &cobra.Command{
		Use:           "platynui",
		Short:         "PlatynUI node graph and input orchestration CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if flags.provider != "" {
				loaded.Provider = flags.provider
			}
			if flags.noColor {
				loaded.NoColor = true
			}
			cfg = loaded

			built, err := buildRuntime(cfg)
			if err != nil {
				return fmt.Errorf("starting runtime: %w", err)
			}
			rt = built
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if rt == nil {
				return nil
			}
			return rt.Shutdown()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to a platynui config file (default: search ./platynui.yaml, $HOME/.config/platynui, /etc/platynui)")
	pf.StringVar(&flags.provider, "provider", "", "accessibility provider to mount (mock is the only one built into this CLI; real providers are external per the platform capability contract)")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newPointerCommand(func() *runtime.Runtime { return rt }))
	root.AddCommand(newKeyboardCommand(func() *runtime.Runtime { return rt }))
	root.AddCommand(newSnapshotCommand(func() *runtime.Runtime { return rt }, func() *config.Config { return cfg }))

	return root
}

// buildRuntime wires a Registry (mounting the in-memory demo tree when
// cfg.Provider is "mock" or empty — real AT-SPI/UIA/X11 providers are
// external collaborators per spec.md §1) and a robotgo-backed capability
// set, then applies cfg's pointer/keyboard settings and profiles.
func buildRuntime(cfg *config.Config) (*runtime.Runtime, error) {
	registry := provider.NewRegistry()
	if cfg.Provider == "" || cfg.Provider == "mock" {
		registry.Register(memtree.NewProvider("memtree", "In-Memory Demo Tree", buildDemoTree()))
	}

	platform, err := robotgo.New()
	if err != nil {
		return nil, err
	}

	rt, err := runtime.New(registry, platform.CapabilitySet())
	if err != nil {
		return nil, err
	}

	if rt.Pointer != nil {
		config.ApplyPointer(cfg, rt.Pointer)
	}
	if rt.Keyboard != nil {
		config.ApplyKeyboard(cfg, rt.Keyboard)
	}
	return rt, nil
}

func colorOutput(noColor bool) *color.Color {
	c := color.New(color.FgCyan)
	c.EnableColor()
	if noColor {
		c.DisableColor()
	}
	return c
}

func fail(err error) error {
	if err == nil {
		return nil
	}
	if perr, ok := err.(*capability.PlatformError); ok {
		return fmt.Errorf("platform error: %w", perr)
	}
	return err
}

// Main is the CLI entry point invoked by cmd/platynui/main.go.
func Main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
