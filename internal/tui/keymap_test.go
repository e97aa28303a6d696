package tui

import (
	"slices"
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func TestDefaultKeyMap_AllBindingsDefined(t *testing.T) {
	km := DefaultKeyMap()
	bindings := map[string]key.Binding{
		"Quit":  km.Quit,
		"Pause": km.Pause,
		"Reset": km.Reset,
		"Help":  km.Help,
	}
	for name, b := range bindings {
		if !b.Enabled() || len(b.Keys()) == 0 {
			t.Errorf("%s binding is not usable", name)
		}
		if b.Help().Desc == "" {
			t.Errorf("%s binding has no help text", name)
		}
	}
}

func TestDefaultKeyMap_QuitKeys(t *testing.T) {
	keys := DefaultKeyMap().Quit.Keys()
	for _, want := range []string{"q", "ctrl+c"} {
		if !slices.Contains(keys, want) {
			t.Errorf("Quit binding should include %q, got %v", want, keys)
		}
	}
}

func TestKeyMap_Help(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) != 4 {
		t.Errorf("ShortHelp has %d bindings, want 4", len(km.ShortHelp()))
	}
	total := 0
	for _, col := range km.FullHelp() {
		total += len(col)
	}
	if total != 4 {
		t.Errorf("FullHelp has %d bindings, want 4", total)
	}
}
