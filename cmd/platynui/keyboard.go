package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/d-biehl/platynui/pkg/keyboard"
	"github.com/d-biehl/platynui/pkg/runtime"
)

// keyboardFlags holds the per-call override flags shared by every keyboard
// subcommand (spec.md §4.6's delay application table).
type keyboardFlags struct {
	betweenKeysDelay   int
	chordPressDelay    int
	chordReleaseDelay  int
	afterSequenceDelay int
	afterTextDelay     int
	profile            string
}

func (f *keyboardFlags) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.IntVar(&f.betweenKeysDelay, "between-keys-delay-ms", 0, "override BetweenKeysDelay in milliseconds")
	flags.IntVar(&f.chordPressDelay, "chord-press-delay-ms", 0, "override ChordPressDelay in milliseconds")
	flags.IntVar(&f.chordReleaseDelay, "chord-release-delay-ms", 0, "override ChordReleaseDelay in milliseconds")
	flags.IntVar(&f.afterSequenceDelay, "after-sequence-delay-ms", 0, "override AfterSequenceDelay in milliseconds")
	flags.IntVar(&f.afterTextDelay, "after-text-delay-ms", 0, "override AfterTextDelay in milliseconds")
	flags.StringVar(&f.profile, "profile", "", "named keyboard profile to activate before this call")
}

func (f *keyboardFlags) overrides() *keyboard.Overrides {
	ov := &keyboard.Overrides{}
	any := false
	if f.betweenKeysDelay > 0 {
		ov.BetweenKeysDelay = msPtr(f.betweenKeysDelay)
		any = true
	}
	if f.chordPressDelay > 0 {
		ov.ChordPressDelay = msPtr(f.chordPressDelay)
		any = true
	}
	if f.chordReleaseDelay > 0 {
		ov.ChordReleaseDelay = msPtr(f.chordReleaseDelay)
		any = true
	}
	if f.afterSequenceDelay > 0 {
		ov.AfterSequenceDelay = msPtr(f.afterSequenceDelay)
		any = true
	}
	if f.afterTextDelay > 0 {
		ov.AfterTextDelay = msPtr(f.afterTextDelay)
		any = true
	}
	if !any {
		return nil
	}
	return ov
}

func (f *keyboardFlags) call() keyboard.Call {
	return keyboard.Call{Overrides: f.overrides()}
}

func (f *keyboardFlags) activateProfile(rt *runtime.Runtime) {
	if f.profile != "" && rt.Keyboard != nil {
		rt.Keyboard.UseProfile(f.profile)
	}
}

func newKeyboardCommand(getRuntime func() *runtime.Runtime) *cobra.Command {
	flags := &keyboardFlags{}

	cmd := &cobra.Command{
		Use:   "keyboard",
		Short: "Drive the keyboard device (type, press, release, run a key sequence)",
	}
	flags.register(cmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "type <text>",
		Short: "Type text verbatim, bypassing the key-sequence DSL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := getRuntime()
			flags.activateProfile(rt)
			return fail(rt.KeyboardType(args[0], flags.call()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "press <sequence>",
		Short: "Run a key-sequence DSL string, holding any keys/chords pressed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := getRuntime()
			flags.activateProfile(rt)
			return fail(rt.KeyboardPress(args[0], flags.call()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "release <sequence>",
		Short: "Release keys/chords previously held by a press",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := getRuntime()
			flags.activateProfile(rt)
			return fail(rt.KeyboardRelease(args[0], flags.call()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "run <sequence>",
		Short: "Run a full key-sequence DSL string: press, release, chords and text runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := getRuntime()
			flags.activateProfile(rt)
			return fail(rt.KeyboardRun(args[0], flags.call()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "known-keys",
		Short: "List the key names the registered device recognizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := getRuntime().KeyboardKnownKeyNames()
			if err != nil {
				return fail(err)
			}
			fmt.Println(strings.Join(names, "\n"))
			return nil
		},
	})

	return cmd
}
