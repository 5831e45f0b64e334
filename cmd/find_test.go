package cmd

import (
	"testing"
)

func TestFindCommand_Registered(t *testing.T) {
	commands := rootCmd.Commands()
	found := false
	for _, c := range commands {
		if c.Name() == "find" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected 'find' subcommand to be registered")
	}
}

func TestFindCommand_HasExpectedFlags(t *testing.T) {
	expectedFlags := []string{"text", "role", "app", "limit", "exact"}
	for _, name := range expectedFlags {
		if findCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected flag --%s to exist on find command", name)
		}
	}
}

func TestFindCommand_RequiresText(t *testing.T) {
	val, _ := findCmd.Flags().GetString("text")
	if val != "" {
		t.Error("expected --text default to be empty")
	}
}

func TestFindCommand_DefaultLimit(t *testing.T) {
	val, _ := findCmd.Flags().GetInt("limit")
	if val != 10 {
		t.Errorf("expected default limit to be 10, got %d", val)
	}
}
