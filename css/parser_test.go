package css_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"atomcss/css"
)

func TestParser_SimpleRule(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`.c_0{color:red;}`))
	if sheet.RuleCount() != 1 {
		t.Fatalf("expected 1 rule, got %d", sheet.RuleCount())
	}

	rule := sheet.Items[0].Rule
	if rule == nil {
		t.Fatal("expected top-level rule")
	}
	if rule.Selector.Class != "c_0" {
		t.Errorf("expected class 'c_0', got '%s'", rule.Selector.Class)
	}
	if rule.Selector.Pseudo != "" {
		t.Errorf("expected no pseudo, got '%s'", rule.Selector.Pseudo)
	}
	if v, ok := rule.GetProperty("color"); !ok || v != "red" {
		t.Errorf("expected color 'red', got '%s' (found=%v)", v, ok)
	}
}

func TestParser_PseudoSelector(t *testing.T) {
	p := css.NewParser(nil)

	sheet := p.Parse([]byte(`.bc_3:hover{background-color:blue;}`))
	if sheet.RuleCount() != 1 {
		t.Fatalf("expected 1 rule, got %d", sheet.RuleCount())
	}

	sel := sheet.Items[0].Rule.Selector
	if sel.Class != "bc_3" {
		t.Errorf("expected class 'bc_3', got '%s'", sel.Class)
	}
	if sel.Pseudo != ":hover" {
		t.Errorf("expected pseudo ':hover', got '%s'", sel.Pseudo)
	}
}

func TestParser_MultiValueDeclaration(t *testing.T) {
	p := css.NewParser(nil)

	sheet := p.Parse([]byte(`.m_0{margin:1px 2px;}`))
	rules := sheet.RulesByClass("m_0")
	if len(rules) != 1 {
		t.Fatalf("expected 1 rule for m_0, got %d", len(rules))
	}
	if v, _ := rules[0].GetProperty("margin"); v != "1px 2px" {
		t.Errorf("expected margin '1px 2px', got '%s'", v)
	}
}

func TestParser_MediaBlockCountsAsOneRule(t *testing.T) {
	p := css.NewParser(nil)

	input := `.c_0{color:red;}@media (min-width: 768px){.md_c_1{color:blue;}}.bc_2{background-color:green;}`
	sheet := p.Parse([]byte(input))

	if sheet.RuleCount() != 3 {
		t.Fatalf("expected 3 top-level rules, got %d", sheet.RuleCount())
	}

	mb := sheet.Items[1].MediaBlock
	if mb == nil {
		t.Fatal("expected second item to be a media block")
	}
	if !strings.Contains(mb.Query, "min-width") {
		t.Errorf("expected media query to mention min-width, got '%s'", mb.Query)
	}
	if len(mb.Rules) != 1 {
		t.Fatalf("expected 1 nested rule, got %d", len(mb.Rules))
	}

	want := []string{"c_0", "md_c_1", "bc_2"}
	if diff := cmp.Diff(want, sheet.Classes()); diff != "" {
		t.Errorf("Classes() mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_SkipsUnsupportedAtRules(t *testing.T) {
	p := css.NewParser(nil)

	input := `@font-face{font-family:"x";src:url(x.woff);}.c_0{color:red;}`
	sheet := p.Parse([]byte(input))

	if sheet.RuleCount() != 1 {
		t.Fatalf("expected 1 rule, got %d", sheet.RuleCount())
	}
	if len(sheet.Warnings) == 0 {
		t.Error("expected warning for skipped @font-face")
	}
}

func TestParser_Empty(t *testing.T) {
	p := css.NewParser(nil)

	for _, input := range []string{"", "   \n", "/* comment only */"} {
		sheet := p.Parse([]byte(input))
		if sheet.RuleCount() != 0 {
			t.Errorf("input %q: expected 0 rules, got %d", input, sheet.RuleCount())
		}
	}

	var nilSheet *css.Stylesheet
	if nilSheet.RuleCount() != 0 {
		t.Error("nil stylesheet must have zero rules")
	}
}

func TestStylesheet_WriteTo(t *testing.T) {
	p := css.NewParser(nil)

	sheet := p.Parse([]byte(`.c_0{color:red;}.m_1{margin:0;}`))

	want := ".c_0 {\n  color: red;\n}\n\n.m_1 {\n  margin: 0;\n}\n"
	if got := sheet.String(); got != want {
		t.Errorf("String() mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}
