package css

import (
	"bytes"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser reads stylesheets produced by the atom engine back into structured
// rules. It is not a general purpose CSS validator: anything other than
// plain rulesets and @media blocks is skipped with a warning.
type Parser struct {
	log *zap.Logger
}

func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// walker holds state of a single Parse call.
type walker struct {
	log   *zap.Logger
	p     *css.Parser
	sheet *Stylesheet
}

// Parse parses CSS text into a Stylesheet. Optional source names input in
// debug log.
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	if len(source) > 0 && len(source[0]) > 0 {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	w := &walker{
		log:   p.log,
		p:     css.NewParser(parse.NewInput(bytes.NewReader(data)), false),
		sheet: &Stylesheet{Items: []StylesheetItem{}, Warnings: []string{}},
	}
	w.top()
	return w.sheet
}

func (w *walker) warn(format string, arg string) {
	w.sheet.Warnings = append(w.sheet.Warnings, format+arg)
}

// top consumes top level grammar until input is exhausted.
func (w *walker) top() {
	for {
		gt, _, data := w.p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := w.p.Err(); err != nil && !errors.Is(err, io.EOF) {
				w.log.Debug("CSS parse error", zap.Error(err))
				w.warn("parse error: ", err.Error())
			}
			return
		case css.BeginRulesetGrammar:
			r := w.ruleset(data)
			w.sheet.Items = append(w.sheet.Items, StylesheetItem{Rule: &r})
		case css.BeginAtRuleGrammar:
			name := strings.ToLower(string(data))
			if name == "@media" {
				w.media()
				continue
			}
			w.log.Debug("Skipping @-rule block", zap.String("rule", name))
			w.warn("unsupported at-rule: ", name)
			w.skip()
		case css.AtRuleGrammar:
			// blockless @-rules (@import, @charset) are never produced by engine
			w.log.Debug("Skipping @-rule", zap.String("rule", string(data)))
			w.warn("unsupported at-rule: ", string(data))
		}
	}
}

// media reads rules of @media block which just started.
func (w *walker) media() {
	mb := &MediaBlock{Query: tokensText(w.p.Values())}
	for done := false; !done; {
		gt, _, data := w.p.Next()
		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			done = true
		case css.BeginRulesetGrammar:
			mb.Rules = append(mb.Rules, w.ruleset(data))
		case css.BeginAtRuleGrammar:
			// screen wrappers never nest
			w.skip()
		}
	}
	w.log.Debug("Parsed @media block", zap.String("query", mb.Query), zap.Int("rules", len(mb.Rules)))
	w.sheet.Items = append(w.sheet.Items, StylesheetItem{MediaBlock: mb})
}

// ruleset reads selector and declarations of ruleset which just started.
func (w *walker) ruleset(first []byte) Rule {
	raw := string(first)
	for _, v := range w.p.Values() {
		raw += string(v.Data)
	}
	r := Rule{Selector: splitSelector(raw)}
	for {
		gt, _, data := w.p.Next()
		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return r
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			if vals := w.p.Values(); len(vals) > 0 {
				r.Declarations = append(r.Declarations, Declaration{Property: string(data), Value: tokensText(vals)})
			}
		}
	}
}

// skip drops everything up to the end of current block.
func (w *walker) skip() {
	for level := 1; level > 0; {
		switch gt, _, _ := w.p.Next(); gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			level++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			level--
		}
	}
}

// splitSelector splits ".class:pseudo" into its parts. Selectors which do
// not start with a class are kept raw.
func splitSelector(raw string) Selector {
	sel := Selector{Raw: strings.TrimSpace(raw)}
	name, ok := strings.CutPrefix(sel.Raw, ".")
	if !ok {
		return sel
	}
	sel.Class = name
	if i := strings.IndexByte(name, ':'); i >= 0 {
		sel.Class, sel.Pseudo = name[:i], name[i:]
	}
	return sel
}

// tokensText joins token data, any whitespace run becomes single space.
func tokensText(tokens []css.Token) string {
	var sb strings.Builder
	pending := false
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			pending = sb.Len() > 0
			continue
		}
		if pending {
			sb.WriteByte(' ')
			pending = false
		}
		sb.Write(t.Data)
	}
	return sb.String()
}
