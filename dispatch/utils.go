package dispatch

import (
	"atomcss/atom"
)

// pair returns utility setting two properties to the same value.
func pair(first, second string) Utility {
	return func(c Call, args ...any) (atom.Styler, error) {
		a, err := c.Style(first, args...)
		if err != nil {
			return nil, err
		}
		b, err := c.Style(second, args...)
		if err != nil {
			return nil, err
		}
		return atom.Compose(a, b), nil
	}
}

// DefaultUtils returns utilities every dispatcher starts with.
func DefaultUtils() map[string]Utility {
	return map[string]Utility{
		"marginX":  pair("marginLeft", "marginRight"),
		"marginY":  pair("marginTop", "marginBottom"),
		"paddingX": pair("paddingLeft", "paddingRight"),
		"paddingY": pair("paddingTop", "paddingBottom"),
		"size":     pair("width", "height"),
	}
}

// Reserved tells if name cannot be used for a screen: screens are looked up
// first and would hide utility or override selector of the same name.
func Reserved(name string) bool {
	if name == overrideName {
		return true
	}
	_, ok := DefaultUtils()[name]
	return ok
}
