package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/deskauto/deskauto/internal/output"
	"github.com/deskauto/deskauto/internal/platform"
	"github.com/spf13/cobra"
)

type ClipboardReadResult struct {
	OK     bool   `yaml:"ok"     json:"ok"`
	Action string `yaml:"action" json:"action"`
	Text   string `yaml:"text"   json:"text"`
}

type ClipboardWriteResult struct {
	OK     bool   `yaml:"ok"     json:"ok"`
	Action string `yaml:"action" json:"action"`
}

type ClipboardGrabResult struct {
	OK       bool   `yaml:"ok"       json:"ok"`
	Action   string `yaml:"action"   json:"action"`
	App      string `yaml:"app"      json:"app"`
	Text     string `yaml:"text"     json:"text"`
	Restored bool   `yaml:"restored" json:"restored"`
}

var clipboardCmd = &cobra.Command{
	Use:   "clipboard",
	Short: "Read, write, or clear the system clipboard",
	Long:  "Interact with the system clipboard: read its contents, write text to it, clear it, or grab selected text from an app.",
}

var clipboardReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the current clipboard text",
	RunE:  runClipboardRead,
}

var clipboardWriteCmd = &cobra.Command{
	Use:   "write [text]",
	Short: "Write text to the clipboard",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClipboardWrite,
}

var clipboardClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the clipboard",
	RunE:  runClipboardClear,
}

var clipboardGrabCmd = &cobra.Command{
	Use:   "grab",
	Short: "Select all + copy from an app, then read clipboard",
	Long:  "Focuses the target app, sends Cmd+A then Cmd+C, waits briefly, then reads the clipboard contents. The pasteboard's prior contents are snapshotted before the copy and restored afterward unless --no-restore is set.",
	RunE:  runClipboardGrab,
}

func init() {
	rootCmd.AddCommand(clipboardCmd)
	clipboardCmd.AddCommand(clipboardReadCmd)
	clipboardCmd.AddCommand(clipboardWriteCmd)
	clipboardCmd.AddCommand(clipboardClearCmd)
	clipboardCmd.AddCommand(clipboardGrabCmd)

	clipboardWriteCmd.Flags().String("text", "", "Text to write to the clipboard")
	clipboardGrabCmd.Flags().String("app", "", "Application to grab text from (one of --app, --window, --window-id, --pid is required)")
	clipboardGrabCmd.Flags().String("window", "", "Window title substring")
	clipboardGrabCmd.Flags().Int("window-id", 0, "Window by system ID")
	clipboardGrabCmd.Flags().Int("pid", 0, "Process by PID")
	clipboardGrabCmd.Flags().Bool("no-restore", false, "Leave the grabbed text on the clipboard instead of restoring what was there before")
}

func runClipboardRead(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if provider.ClipboardManager == nil {
		return fmt.Errorf("clipboard not supported on this platform")
	}

	text, err := provider.ClipboardManager.GetText()
	if err != nil {
		return err
	}

	return output.Print(ClipboardReadResult{OK: true, Action: "clipboard-read", Text: text})
}

func runClipboardWrite(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if provider.ClipboardManager == nil {
		return fmt.Errorf("clipboard not supported on this platform")
	}

	var text string
	if len(args) > 0 {
		text = args[0]
	}
	if flagText, _ := cmd.Flags().GetString("text"); flagText != "" {
		text = flagText
	}
	if text == "" {
		return fmt.Errorf("specify text as a positional argument or --text flag")
	}

	if err := provider.ClipboardManager.SetText(text); err != nil {
		return err
	}

	return output.Print(ClipboardWriteResult{OK: true, Action: "clipboard-write"})
}

func runClipboardClear(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if provider.ClipboardManager == nil {
		return fmt.Errorf("clipboard not supported on this platform")
	}

	if err := provider.ClipboardManager.Clear(); err != nil {
		return err
	}

	return output.Print(ClipboardWriteResult{OK: true, Action: "clipboard-clear"})
}

func runClipboardGrab(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if provider.ClipboardManager == nil {
		return fmt.Errorf("clipboard not supported on this platform")
	}
	if provider.WindowManager == nil {
		return fmt.Errorf("window management not supported on this platform")
	}
	if provider.Input == nil {
		return fmt.Errorf("input simulation not supported on this platform")
	}

	appName, _ := cmd.Flags().GetString("app")
	window, _ := cmd.Flags().GetString("window")
	windowID, _ := cmd.Flags().GetInt("window-id")
	pid, _ := cmd.Flags().GetInt("pid")
	noRestore, _ := cmd.Flags().GetBool("no-restore")

	if appName == "" && window == "" && windowID == 0 && pid == 0 {
		return fmt.Errorf("specify --app, --window, --window-id, or --pid")
	}

	if err := provider.WindowManager.FocusWindow(platform.FocusOptions{Scope: platform.Scope{
		App: appName, WindowTitle: window, WindowID: windowID, PID: pid,
	}}); err != nil {
		return fmt.Errorf("failed to focus app: %w", err)
	}
	time.Sleep(100 * time.Millisecond)

	// The pasteboard is process-wide shared state: snapshot what's on it
	// now, since Cmd+C is about to overwrite it, then restore (or clear)
	// once the grab is done.
	prior, priorErr := provider.ClipboardManager.GetText()

	if err := provider.Input.KeyCombo(strings.Split("cmd+a", "+")); err != nil {
		return fmt.Errorf("failed to select all: %w", err)
	}
	time.Sleep(50 * time.Millisecond)

	if err := provider.Input.KeyCombo(strings.Split("cmd+c", "+")); err != nil {
		return fmt.Errorf("failed to copy: %w", err)
	}
	time.Sleep(100 * time.Millisecond)

	text, err := provider.ClipboardManager.GetText()
	if err != nil {
		return err
	}

	restored := false
	if !noRestore {
		if priorErr == nil {
			restored = provider.ClipboardManager.SetText(prior) == nil
		} else {
			restored = provider.ClipboardManager.Clear() == nil
		}
	}

	return output.Print(ClipboardGrabResult{OK: true, Action: "clipboard-grab", App: appName, Text: text, Restored: restored})
}
