package config

import (
	"os"
	"testing"
)

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"styles", "styles"},
		{"x/y", "xy"},
		{"a:b", "ab"},
		{"  ..hidden ", "hidden"},
		{"tab\there", "tabhere"},
		{"app styles", "app styles"},
		{"", "_bad_file_name_"},
		{"/..", "_bad_file_name_"},
	}
	for _, tt := range tests {
		if got := CleanFileName(tt.in); got != tt.want {
			t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnableColorOutput_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if EnableColorOutput(os.Stdout) {
		t.Error("NO_COLOR must disable colors")
	}
}

func TestEnableColorOutput_NotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if EnableColorOutput(f) {
		t.Error("regular file is not a terminal")
	}
}
