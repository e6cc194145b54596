package atom

// Tokens maps token group (e.g. "colors") to aliases and their values.
type Tokens map[string]map[string]string

// PropertyTokens maps camelCase property name to token group its values are
// looked up in.
var PropertyTokens = map[string]string{
	"borderColor":             "colors",
	"borderTopColor":          "colors",
	"borderRightColor":        "colors",
	"borderBottomColor":       "colors",
	"borderLeftColor":         "colors",
	"borderRadius":            "radii",
	"borderTopLeftRadius":     "radii",
	"borderTopRightRadius":    "radii",
	"borderBottomLeftRadius":  "radii",
	"borderBottomRightRadius": "radii",
	"borderStyle":             "borderStyles",
	"borderWidth":             "borderWidths",
	"background":              "colors",
	"backgroundColor":         "colors",
	"boxShadow":               "shadows",
	"color":                   "colors",
	"caretColor":              "colors",
	"fill":                    "colors",
	"stroke":                  "colors",
	"outlineColor":            "colors",
	"fontFamily":              "fonts",
	"fontSize":                "fontSizes",
	"fontWeight":              "fontWeights",
	"letterSpacing":           "letterSpacings",
	"lineHeight":              "lineHeights",
	"gap":                     "space",
	"gridGap":                 "space",
	"columnGap":               "space",
	"rowGap":                  "space",
	"margin":                  "space",
	"marginTop":               "space",
	"marginRight":             "space",
	"marginBottom":            "space",
	"marginLeft":              "space",
	"padding":                 "space",
	"paddingTop":              "space",
	"paddingRight":            "space",
	"paddingBottom":           "space",
	"paddingLeft":             "space",
	"top":                     "space",
	"right":                   "space",
	"bottom":                  "space",
	"left":                    "space",
	"width":                   "sizes",
	"minWidth":                "sizes",
	"maxWidth":                "sizes",
	"height":                  "sizes",
	"minHeight":               "sizes",
	"maxHeight":               "sizes",
	"flexBasis":               "sizes",
	"transition":              "transitions",
	"zIndex":                  "zIndices",
}

// lookup substitutes token alias used as a value. Values which are not
// aliases in the property group are returned as is.
func (t Tokens) lookup(property, value string) string {
	group, ok := PropertyTokens[property]
	if !ok {
		return value
	}
	if v, ok := t[group][value]; ok {
		return v
	}
	return value
}
