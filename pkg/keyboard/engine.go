package keyboard

import "time"

// Run parses seq and emits the full press/release sequence for every
// event: a text run is typed via the device's TypeText, a single key is
// pressed then released, and a chord is pressed in order then released in
// reverse order — inserting delays exactly per spec.md §4.6's table.
func (e *Engine) Run(seq string, c Call) error {
	events, err := Parse(seq)
	if err != nil {
		return err
	}
	r := e.resolveCall(c)

	for idx, ev := range events {
		if idx > 0 && events[idx-1].Kind != EventText {
			e.sleepIf(r.BetweenKeysDelay)
		}

		switch ev.Kind {
		case EventText:
			if err := e.device.TypeText(ev.Text); err != nil {
				return err
			}
			e.sleepIf(r.AfterTextDelay)
		case EventKey:
			if err := e.validateKey(ev.Key); err != nil {
				return err
			}
			if err := e.device.Press(ev.Key); err != nil {
				return err
			}
			e.sleepIf(r.PressDelay)
			if err := e.device.Release(ev.Key); err != nil {
				return err
			}
			e.sleepIf(r.ReleaseDelay)
		case EventChord:
			if err := e.pressChord(ev.Chord, r); err != nil {
				return err
			}
			if err := e.releaseChord(ev.Chord, r); err != nil {
				return err
			}
		}
	}

	e.sleepIf(r.AfterSequenceDelay)
	return nil
}

// Press parses seq and emits only press events (text runs are typed in
// full, since TypeText has no separate press/release phase), leaving keys
// and chords held down for a matching Release call (spec.md §4.6).
func (e *Engine) Press(seq string, c Call) error {
	events, err := Parse(seq)
	if err != nil {
		return err
	}
	r := e.resolveCall(c)

	for idx, ev := range events {
		if idx > 0 && events[idx-1].Kind != EventText {
			e.sleepIf(r.BetweenKeysDelay)
		}
		switch ev.Kind {
		case EventText:
			if err := e.device.TypeText(ev.Text); err != nil {
				return err
			}
			e.sleepIf(r.AfterTextDelay)
		case EventKey:
			if err := e.validateKey(ev.Key); err != nil {
				return err
			}
			if err := e.device.Press(ev.Key); err != nil {
				return err
			}
			e.sleepIf(r.PressDelay)
		case EventChord:
			if err := e.pressChord(ev.Chord, r); err != nil {
				return err
			}
		}
	}
	e.sleepIf(r.AfterSequenceDelay)
	return nil
}

// Release parses seq and emits only release events, releasing chords in
// reverse order (spec.md §4.6).
func (e *Engine) Release(seq string, c Call) error {
	events, err := Parse(seq)
	if err != nil {
		return err
	}
	r := e.resolveCall(c)

	for idx, ev := range events {
		if idx > 0 && events[idx-1].Kind != EventText {
			e.sleepIf(r.BetweenKeysDelay)
		}
		switch ev.Kind {
		case EventKey:
			if err := e.validateKey(ev.Key); err != nil {
				return err
			}
			if err := e.device.Release(ev.Key); err != nil {
				return err
			}
			e.sleepIf(r.ReleaseDelay)
		case EventChord:
			if err := e.releaseChord(ev.Chord, r); err != nil {
				return err
			}
		}
	}
	e.sleepIf(r.AfterSequenceDelay)
	return nil
}

// Type is a convenience wrapper for typing a plain literal string with no
// DSL interpretation. Unlike Run on a single quoted text run, it sleeps
// only AfterTextDelay, not AfterSequenceDelay.
func (e *Engine) Type(text string, c Call) error {
	r := e.resolveCall(c)
	if err := e.device.TypeText(text); err != nil {
		return err
	}
	e.sleepIf(r.AfterTextDelay)
	return nil
}

func (e *Engine) pressChord(keys []string, r Settings) error {
	for i, k := range keys {
		if err := e.validateKey(k); err != nil {
			return err
		}
		if err := e.device.Press(k); err != nil {
			return err
		}
		if i < len(keys)-1 {
			e.sleepIf(r.ChordPressDelay)
		}
	}
	return nil
}

func (e *Engine) releaseChord(keys []string, r Settings) error {
	for i := len(keys) - 1; i >= 0; i-- {
		if err := e.validateKey(keys[i]); err != nil {
			return err
		}
		if err := e.device.Release(keys[i]); err != nil {
			return err
		}
		if i > 0 {
			e.sleepIf(r.ChordReleaseDelay)
		}
	}
	return nil
}

func (e *Engine) sleepIf(d time.Duration) {
	if d > 0 {
		e.sleep(d)
	}
}
