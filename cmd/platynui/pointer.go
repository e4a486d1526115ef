package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/d-biehl/platynui/pkg/capability"
	"github.com/d-biehl/platynui/pkg/pointer"
	"github.com/d-biehl/platynui/pkg/runtime"
	"github.com/d-biehl/platynui/pkg/uivalue"
)

// pointerFlags holds the per-call origin/overrides flags shared by every
// pointer subcommand (spec.md §4.4's "optional per-call overrides and an
// optional origin").
type pointerFlags struct {
	originX, originY         float64
	boundsX, boundsY         float64
	boundsW, boundsH         float64
	useBounds, useAnchor     bool
	motion                   string
	afterMoveDelay           int
	afterInputDelay          int
	pressReleaseDelay        int
	afterClickDelay          int
	multiClickDelay          int
	ensureThreshold          float64
	ensureTimeout            int
	scrollStepX, scrollStepY float64
	scrollDelay              int
	button                   string
	profile                  string
}

func (f *pointerFlags) register(flags *pflag.FlagSet) {
	flags.Float64Var(&f.originX, "origin-x", 0, "absolute anchor X, used when --anchor is set")
	flags.Float64Var(&f.originY, "origin-y", 0, "absolute anchor Y, used when --anchor is set")
	flags.Float64Var(&f.boundsX, "bounds-x", 0, "bounds origin X, used when --bounds is set")
	flags.Float64Var(&f.boundsY, "bounds-y", 0, "bounds origin Y, used when --bounds is set")
	flags.Float64Var(&f.boundsW, "bounds-width", 0, "bounds width, used when --bounds is set")
	flags.Float64Var(&f.boundsH, "bounds-height", 0, "bounds height, used when --bounds is set")
	flags.BoolVar(&f.useBounds, "bounds", false, "treat coordinates as relative to --bounds-x/y/width/height instead of the desktop")
	flags.BoolVar(&f.useAnchor, "anchor", false, "treat coordinates as an offset from --origin-x/--origin-y")
	flags.StringVar(&f.motion, "motion", "", "motion shaping override: direct, linear, bezier, overshoot, jitter")
	flags.IntVar(&f.afterMoveDelay, "after-move-delay-ms", 0, "override AfterMoveDelay in milliseconds")
	flags.IntVar(&f.afterInputDelay, "after-input-delay-ms", 0, "override AfterInputDelay in milliseconds")
	flags.IntVar(&f.pressReleaseDelay, "press-release-delay-ms", 0, "override PressReleaseDelay in milliseconds")
	flags.IntVar(&f.afterClickDelay, "after-click-delay-ms", 0, "override AfterClickDelay in milliseconds")
	flags.IntVar(&f.multiClickDelay, "multi-click-delay-ms", 0, "override MultiClickDelay in milliseconds")
	flags.Float64Var(&f.ensureThreshold, "ensure-threshold", 0, "override EnsureMoveThreshold in pixels")
	flags.IntVar(&f.ensureTimeout, "ensure-timeout-ms", 0, "override EnsureMoveTimeout in milliseconds")
	flags.Float64Var(&f.scrollStepX, "scroll-step-x", 0, "override ScrollStep.X")
	flags.Float64Var(&f.scrollStepY, "scroll-step-y", 0, "override ScrollStep.Y")
	flags.IntVar(&f.scrollDelay, "scroll-delay-ms", 0, "override ScrollDelay in milliseconds")
	flags.StringVar(&f.button, "button", "left", "mouse button: left, right, middle")
	flags.StringVar(&f.profile, "profile", "", "named pointer profile to activate before this call")
}

func (f *pointerFlags) origin() pointer.Origin {
	switch {
	case f.useBounds:
		return pointer.OriginBounds(uivalue.Rect{X: f.boundsX, Y: f.boundsY, Width: f.boundsW, Height: f.boundsH})
	case f.useAnchor:
		return pointer.OriginAbsolute(uivalue.Point{X: f.originX, Y: f.originY})
	default:
		return pointer.OriginDesktop()
	}
}

func msPtr(ms int) *time.Duration {
	d := time.Duration(ms) * time.Millisecond
	return &d
}

func (f *pointerFlags) overrides() *pointer.Overrides {
	ov := &pointer.Overrides{}
	any := false
	if f.motion != "" {
		m := parsePointerMode(f.motion)
		ov.Mode = &m
		any = true
	}
	if f.afterMoveDelay > 0 {
		ov.AfterMoveDelay = msPtr(f.afterMoveDelay)
		any = true
	}
	if f.afterInputDelay > 0 {
		ov.AfterInputDelay = msPtr(f.afterInputDelay)
		any = true
	}
	if f.pressReleaseDelay > 0 {
		ov.PressReleaseDelay = msPtr(f.pressReleaseDelay)
		any = true
	}
	if f.afterClickDelay > 0 {
		ov.AfterClickDelay = msPtr(f.afterClickDelay)
		any = true
	}
	if f.multiClickDelay > 0 {
		ov.MultiClickDelay = msPtr(f.multiClickDelay)
		any = true
	}
	if f.ensureThreshold > 0 {
		ov.EnsureMoveThreshold = &f.ensureThreshold
		any = true
	}
	if f.ensureTimeout > 0 {
		ov.EnsureMoveTimeout = msPtr(f.ensureTimeout)
		any = true
	}
	if f.scrollStepX != 0 || f.scrollStepY != 0 {
		step := uivalue.Point{X: f.scrollStepX, Y: f.scrollStepY}
		ov.ScrollStep = &step
		any = true
	}
	if f.scrollDelay > 0 {
		ov.ScrollDelay = msPtr(f.scrollDelay)
		any = true
	}
	if !any {
		return nil
	}
	return ov
}

func (f *pointerFlags) call() pointer.Call {
	return pointer.Call{Origin: f.origin(), Overrides: f.overrides()}
}

func (f *pointerFlags) mouseButton() capability.MouseButton {
	switch f.button {
	case "right":
		return capability.ButtonRight
	case "middle":
		return capability.ButtonMiddle
	default:
		return capability.ButtonLeft
	}
}

// activateProfile switches the engine's active profile before a call when
// --profile was given, so Call.Profile can stay nil and resolveCall falls
// back to the engine's active profile (spec.md glossary's narrowest-wins
// layering: per-call Overrides, then Profile, then Settings).
func (f *pointerFlags) activateProfile(rt *runtime.Runtime) {
	if f.profile != "" && rt.Pointer != nil {
		rt.Pointer.UseProfile(f.profile)
	}
}

func parsePoint(args []string, i int) (uivalue.Point, error) {
	var x, y float64
	if _, err := fmt.Sscanf(args[i], "%f", &x); err != nil {
		return uivalue.Point{}, fmt.Errorf("invalid x %q: %w", args[i], err)
	}
	if _, err := fmt.Sscanf(args[i+1], "%f", &y); err != nil {
		return uivalue.Point{}, fmt.Errorf("invalid y %q: %w", args[i+1], err)
	}
	return uivalue.Point{X: x, Y: y}, nil
}

func newPointerCommand(getRuntime func() *runtime.Runtime) *cobra.Command {
	flags := &pointerFlags{}

	cmd := &cobra.Command{
		Use:   "pointer",
		Short: "Drive the pointer device (move, click, press, release, scroll, drag)",
	}
	flags.register(cmd.PersistentFlags())

	cmd.AddCommand(&cobra.Command{
		Use:   "position",
		Short: "Print the pointer's current desktop-absolute position",
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := getRuntime().PointerPosition()
			if err != nil {
				return fail(err)
			}
			fmt.Printf("%g,%g\n", pt.X, pt.Y)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "move <x> <y>",
		Short: "Move the pointer to x,y (relative to --origin-x/y, --bounds-*, or the desktop)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := parsePoint(args, 0)
			if err != nil {
				return err
			}
			rt := getRuntime()
			flags.activateProfile(rt)
			return fail(rt.PointerMoveTo(pt, flags.call()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "click <x> <y>",
		Short: "Move to x,y and click --button (default left)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := parsePoint(args, 0)
			if err != nil {
				return err
			}
			rt := getRuntime()
			flags.activateProfile(rt)
			return fail(rt.PointerClick(pt, flags.mouseButton(), flags.call()))
		},
	})

	var multiClickCount int
	multiClickCmd := &cobra.Command{
		Use:   "multi-click <x> <y>",
		Short: "Move to x,y and click --button --count times",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := parsePoint(args, 0)
			if err != nil {
				return err
			}
			rt := getRuntime()
			flags.activateProfile(rt)
			return fail(rt.PointerMultiClick(pt, flags.mouseButton(), multiClickCount, flags.call()))
		},
	}
	multiClickCmd.Flags().IntVar(&multiClickCount, "count", 2, "number of clicks")
	cmd.AddCommand(multiClickCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "press <x> <y>",
		Short: "Move to x,y and press --button down without releasing it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := parsePoint(args, 0)
			if err != nil {
				return err
			}
			rt := getRuntime()
			flags.activateProfile(rt)
			return fail(rt.PointerPress(pt, flags.mouseButton(), flags.call()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "release",
		Short: "Release --button in place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(getRuntime().PointerRelease(flags.mouseButton()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "drag <startX> <startY> <endX> <endY>",
		Short: "Move to start, press --button, move to end, release",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parsePoint(args, 0)
			if err != nil {
				return err
			}
			end, err := parsePoint(args, 2)
			if err != nil {
				return err
			}
			rt := getRuntime()
			flags.activateProfile(rt)
			return fail(rt.PointerDrag(start, end, flags.mouseButton(), flags.call()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "scroll <deltaX> <deltaY>",
		Short: "Scroll by delta, split into --scroll-step-x/y increments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := parsePoint(args, 0)
			if err != nil {
				return err
			}
			rt := getRuntime()
			flags.activateProfile(rt)
			return fail(rt.PointerScroll(delta, flags.call()))
		},
	})

	return cmd
}

func parsePointerMode(name string) pointer.Mode {
	switch name {
	case "direct":
		return pointer.Direct
	case "bezier":
		return pointer.Bezier
	case "overshoot":
		return pointer.Overshoot
	case "jitter":
		return pointer.Jitter
	default:
		return pointer.Linear
	}
}
