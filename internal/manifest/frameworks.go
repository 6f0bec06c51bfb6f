package manifest

import (
	"github.com/shinji-kodama/manifestver/internal/jsonscan"
)

// ExtractFrameworks returns the property names of the root-level
// "frameworks" object in document order. Names found before a parse error
// are returned along with it.
func ExtractFrameworks(text string) ([]string, *jsonscan.ParseError) {
	var names []string
	v := jsonscan.NewVisitor(text, jsonscan.Handler{
		Property: func(path jsonscan.Path, start int, name string, ordinal int) bool {
			if path.Depth() == 1 && !path[0].InArray && path[0].Name == "frameworks" {
				names = append(names, name)
			}
			return true
		},
	})
	err := v.Run()
	return names, err
}

// DeclaredName returns the string value of the root "name" property.
// The traversal stops reporting as soon as the property is met.
func DeclaredName(text string) (string, bool) {
	var (
		name  string
		found bool
	)
	v := jsonscan.NewVisitor(text, jsonscan.Handler{
		Property: func(path jsonscan.Path, start int, prop string, ordinal int) bool {
			if path.Depth() != 0 || prop != "name" {
				return true
			}
			if s, e, ok := propertyValueSpan(text, start); ok && text[s] == '"' {
				name, found = jsonscan.DecodeString(text[s:e]), true
			}
			return false
		},
	})
	_ = v.Run()
	return name, found
}
