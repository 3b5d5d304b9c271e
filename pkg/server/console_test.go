package server

import (
	"reflect"
	"testing"
)

func TestTokenizeConsoleSplitsOnWhitespace(t *testing.T) {
	got := tokenizeConsole("kick Notch")
	want := []string{"kick", "Notch"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenizeConsole = %v, want %v", got, want)
	}
}

func TestTokenizeConsoleGroupsQuotedRun(t *testing.T) {
	got := tokenizeConsole(`kick "Notch the Builder"`)
	want := []string{"kick", "Notch the Builder"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenizeConsole = %v, want %v", got, want)
	}
}

func TestTokenizeConsoleCollapsesRepeatedSpaces(t *testing.T) {
	got := tokenizeConsole("stop   now")
	want := []string{"stop", "now"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenizeConsole = %v, want %v", got, want)
	}
}

func TestTokenizeConsoleEmptyLine(t *testing.T) {
	if got := tokenizeConsole(""); len(got) != 0 {
		t.Errorf("tokenizeConsole(\"\") = %v, want empty", got)
	}
	if got := tokenizeConsole("   "); len(got) != 0 {
		t.Errorf("tokenizeConsole of all-whitespace = %v, want empty", got)
	}
}
