package action

import (
	"time"

	"github.com/deskauto/deskauto/internal/element"
	"github.com/deskauto/deskauto/internal/platform"
)

const (
	focusSettleDelay     = 200 * time.Millisecond
	valueReadbackSettle  = 50 * time.Millisecond
	interKeyDelayMin     = 30 * time.Millisecond
	interKeyDelayRange   = 50 * time.Millisecond
	clipboardSettleDelay = 60 * time.Millisecond
)

// TypeOptions tunes a single Type call.
type TypeOptions struct {
	App          string
	NoAutoScroll bool
	ResolvedAt   time.Time

	// UsePasteChannel routes the keystroke-fallback path through the system
	// pasteboard (Cmd+V) instead of one synthesized key event per rune, per
	// §5's paste-channel: a long or heavily-Unicode payload lands in one
	// paste rather than a chain of key-table lookups and TypeText calls.
	UsePasteChannel bool
}

// Type implements §4.7's Type: click to focus, try the value attribute
// directly, and fall back to keystroke injection when the attribute write
// doesn't stick (e.g. a custom-drawn text field with no settable value).
func (a *Actions) Type(target element.Element, text string, opts TypeOptions) error {
	target, err := a.refresh(target, opts.App, opts.ResolvedAt)
	if err != nil {
		return err
	}

	if err := a.Click(target, ClickOptions{App: opts.App, NoAutoScroll: opts.NoAutoScroll, ResolvedAt: opts.ResolvedAt}); err != nil {
		return err
	}
	if target.Handle != nil {
		_ = a.Accessibility.SetAttribute(target.Handle, "AXFocused", "true")
	}
	a.Sleep(focusSettleDelay)

	if target.Handle != nil {
		if err := a.Accessibility.SetAttribute(target.Handle, "AXValue", text); err == nil {
			a.Sleep(valueReadbackSettle)
			if a.readBackMatches(target, opts.App, text) {
				return nil
			}
		}
	}

	if opts.UsePasteChannel && a.Clipboard != nil {
		return a.pasteViaClipboard(text)
	}
	return a.typeKeystrokes(text)
}

// pasteViaClipboard implements §5's paste-channel contract: the pasteboard
// is process-wide shared state, so its prior contents are snapshotted
// before this call overwrites them and restored (or cleared, if there was
// nothing to restore) once the paste completes, regardless of outcome.
func (a *Actions) pasteViaClipboard(text string) error {
	prior, priorErr := a.Clipboard.GetText()

	if err := a.Clipboard.SetText(text); err != nil {
		return &element.ActionFailedError{Name: "paste-set-clipboard"}
	}
	defer func() {
		if priorErr == nil {
			_ = a.Clipboard.SetText(prior)
		} else {
			_ = a.Clipboard.Clear()
		}
	}()

	a.Sleep(clipboardSettleDelay)
	if err := a.Input.KeyCombo([]string{"cmd", "v"}); err != nil {
		return &element.ActionFailedError{Name: "paste-key-combo"}
	}
	a.Sleep(clipboardSettleDelay)
	return nil
}

// readBackMatches re-resolves target by its own reference and compares its
// live value attribute against want, per §4.7's "read back the value"
// direct-set check. A re-query failure is treated as a mismatch so the
// caller falls through to keystroke injection rather than erroring out.
func (a *Actions) readBackMatches(target element.Element, app, want string) bool {
	if target.Ref == "" {
		return false
	}
	fresh, err := a.Resolve(target.Ref, app)
	if err != nil {
		return false
	}
	return fresh.Value == want
}

// typeKeystrokes posts one key-down/key-up pair per character using
// charKeyTable, falling back to a Unicode-string event for any character
// the table has no keycode for, with the §4.7 inter-key delay between
// characters.
func (a *Actions) typeKeystrokes(text string) error {
	for i, ch := range text {
		if i > 0 {
			a.Sleep(interKeyDelayMin + jitterDuration(a.Rand, interKeyDelayRange))
		}
		entry, ok := charKeyTable[ch]
		if !ok {
			if err := a.Input.TypeText(string(ch), 0); err != nil {
				return &element.UnmappableCharacterError{Rune: ch}
			}
			continue
		}
		mods := platform.ModifierSet(0)
		if entry.shift {
			mods = mods.WithModifier(platform.ModShift)
		}
		if err := a.Input.KeyDown(entry.code, mods); err != nil {
			return err
		}
		a.Sleep(20 * time.Millisecond)
		if err := a.Input.KeyUp(entry.code, mods); err != nil {
			return err
		}
	}
	return nil
}
