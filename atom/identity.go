package atom

import (
	"sort"
	"strings"
	"unicode"
)

// canonicalPseudo normalizes pseudo selector text so that order of selectors
// never changes identity: pseudo-classes are sorted and joined with ':',
// pseudo-elements ("::x") are sorted and placed after them.
func canonicalPseudo(pseudo string) string {
	if pseudo == "" {
		return ""
	}

	var classes, elements []string
	for i := 0; i < len(pseudo); {
		if pseudo[i] != ':' {
			// text without leading colon is taken as pseudo-class name
			j := nextColon(pseudo, i)
			classes = append(classes, pseudo[i:j])
			i = j
			continue
		}
		if strings.HasPrefix(pseudo[i:], "::") {
			j := nextColon(pseudo, i+2)
			if j > i+2 {
				elements = append(elements, pseudo[i+2:j])
			}
			i = j
			continue
		}
		j := nextColon(pseudo, i+1)
		if j > i+1 {
			classes = append(classes, pseudo[i+1:j])
		}
		i = j
	}

	sort.Strings(classes)
	sort.Strings(elements)

	var sb strings.Builder
	for _, c := range classes {
		sb.WriteByte(':')
		sb.WriteString(c)
	}
	for _, e := range elements {
		sb.WriteString("::")
		sb.WriteString(e)
	}
	return sb.String()
}

// nextColon returns index of the next ':' at or after i which is not inside
// parentheses (":not(:hover)" is a single selector), or len(s).
func nextColon(s string, i int) int {
	depth := 0
	for ; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				return i
			}
		}
	}
	return len(s)
}

// splitProperty breaks camelCase property name at upper-case letters and
// lower-cases the parts: "backgroundColor" -> ["background", "color"].
func splitProperty(property string) []string {
	var (
		parts []string
		cur   strings.Builder
	)
	for _, r := range property {
		if unicode.IsUpper(r) && cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		cur.WriteRune(unicode.ToLower(r))
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

// identity is the override key of an atom, independent of its value.
func identity(property, pseudo, screen string) string {
	return strings.ToLower(property) + pseudo + screen
}

// initials returns first letter of every property part.
func initials(parts []string) string {
	var sb strings.Builder
	for _, p := range parts {
		for _, r := range p {
			sb.WriteRune(r)
			break
		}
	}
	return sb.String()
}
