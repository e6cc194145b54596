package sheet

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"atomcss/css"
)

// restricted mimics host sheet which refuses to disclose its size.
type restricted struct {
	Memory
}

func (s *restricted) RuleCount() (int, error) {
	return 0, errors.New("access denied")
}

func TestRegistry_New(t *testing.T) {
	r := New(zap.NewNop(), []string{"md", "lg"})

	if diff := cmp.Diff([]string{"md", "lg"}, r.Screens()); diff != "" {
		t.Errorf("Screens() mismatch (-want +got):\n%s", diff)
	}
	for _, screen := range []string{"", "md", "lg"} {
		if _, ok := r.Sheet(screen); !ok {
			t.Errorf("expected sheet for screen %q", screen)
		}
	}
	if r.Offset() != 0 {
		t.Errorf("Offset() = %d, want 0", r.Offset())
	}
}

func TestRegistry_InsertAndCount(t *testing.T) {
	r := New(nil, []string{"md"})

	r.Insert("", ".c_0{color:red;}")
	r.Insert("", ".c_1{color:blue;}")
	r.Insert("md", "@media (min-width: 768px){.md_c_2{color:red;}}")

	if n, err := r.RuleCount(""); err != nil || n != 2 {
		t.Errorf("RuleCount(\"\") = %d, %v; want 2, nil", n, err)
	}
	if n, err := r.RuleCount("md"); err != nil || n != 1 {
		t.Errorf("RuleCount(md) = %d, %v; want 1, nil", n, err)
	}
	if _, err := r.RuleCount("xl"); err == nil {
		t.Error("expected error for unknown screen")
	}
	if r.Offset() != 3 {
		t.Errorf("Offset() = %d, want 3", r.Offset())
	}
}

func TestRegistry_InsertUnknownScreen(t *testing.T) {
	r := New(nil, nil)

	r.Insert("print", ".print_c_0{color:black;}")

	if diff := cmp.Diff([]string{"print"}, r.Screens()); diff != "" {
		t.Errorf("Screens() mismatch (-want +got):\n%s", diff)
	}
	if n, _ := r.RuleCount("print"); n != 1 {
		t.Errorf("RuleCount(print) = %d, want 1", n)
	}
}

func TestRegistry_OffsetIgnoresUnreadableSheets(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	factory := func(screen string) Sheet {
		if screen == "md" {
			return &restricted{}
		}
		return &Memory{}
	}
	r := New(zap.New(core), []string{"md"}, WithFactory(factory))
	r.Insert("", ".c_0{color:red;}")
	r.Insert("md", "@media x{.md_c_1{color:red;}}")

	if r.Offset() != 1 {
		t.Errorf("Offset() = %d, want 1", r.Offset())
	}
	if logs.FilterMessage("Unable to read rule count, assuming empty sheet").Len() != 1 {
		t.Errorf("expected single debug entry for unreadable sheet, got %d", logs.Len())
	}
}

func TestRegistry_Styles(t *testing.T) {
	r := New(nil, []string{"md"})
	r.Insert("", ".c_0{color:red;}")
	r.Insert("md", "@media x{.md_c_1{color:red;}}")

	want := []string{
		"/* ATOMCSS */\n.c_0{color:red;}",
		"/* ATOMCSS:md */\n@media x{.md_c_1{color:red;}}",
	}
	if diff := cmp.Diff(want, r.Styles()); diff != "" {
		t.Errorf("Styles() mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if got, want := buf.String(), want[0]+"\n"+want[1]+"\n"; got != want {
		t.Errorf("WriteTo() mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Part
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "no markers",
			input: ".c_0{color:red;}\n",
			want:  []Part{{Screen: "", Text: ".c_0{color:red;}"}},
		},
		{
			name:  "markers",
			input: "/* ATOMCSS */\n.c_0{color:red;}\n/* ATOMCSS:md */\n@media x{.md_c_1{color:red;}}\n/* ATOMCSS:lg */\n",
			want: []Part{
				{Screen: "", Text: ".c_0{color:red;}"},
				{Screen: "md", Text: "@media x{.md_c_1{color:red;}}"},
				{Screen: "lg", Text: ""},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Split([]byte(tt.input))); diff != "" {
				t.Errorf("Split() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRegistry_LoadContinuesNumbering(t *testing.T) {
	first := New(nil, []string{"md"})
	first.Insert("", ".c_0{color:red;}")
	first.Insert("", ".bc_1:hover{background-color:blue;}")
	first.Insert("md", "@media (min-width: 768px){.md_c_2{color:red;}}")

	var buf bytes.Buffer
	if _, err := first.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}

	second := New(nil, []string{"md"})
	if err := second.Load(buf.Bytes(), css.NewParser(nil)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if second.Offset() != first.Offset() {
		t.Errorf("Offset() after load = %d, want %d", second.Offset(), first.Offset())
	}
	if diff := cmp.Diff(first.Styles(), second.Styles()); diff != "" {
		t.Errorf("Styles() after load mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_LoadRejectsForeignSheets(t *testing.T) {
	r := New(nil, nil, WithFactory(func(string) Sheet { return &restricted{} }))
	if err := r.Load([]byte("/* ATOMCSS */\n.c_0{color:red;}\n"), nil); err == nil {
		t.Error("expected error when seeding non memory sheet")
	}
}
