package store

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

// TableNamer provides a custom base table name for a host model.
type TableNamer interface {
	TableName() string
}

// MetaTable derives the companion table name for a host base name.
func MetaTable(base string) string {
	return base + "_meta"
}

// OwnerColumn derives the owner-id column name for a host base name.
func OwnerColumn(base string) string {
	return base + "_id"
}

// TableBaseFor derives a host base name from a model value: the singular,
// snake-case form of its struct name. Models implementing TableNamer win.
//
//	TableBaseFor(Product{})      // "product"
//	TableBaseFor(&UserProfile{}) // "user_profile"
func TableBaseFor(model any) (string, error) {
	if model == nil {
		return "", fmt.Errorf("derive table base: nil model")
	}
	if namer, ok := model.(TableNamer); ok {
		return namer.TableName(), nil
	}

	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t.Name() == "" {
		return "", fmt.Errorf("derive table base: %T is not a named struct", model)
	}
	return ResolveBase(t.Name())
}

// ResolveBase canonicalizes a user-supplied base name: CamelCase becomes
// snake_case and plural forms singularize, so "Products", "products" and
// "product" all address the product_meta table.
func ResolveBase(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("derive table base: empty name")
	}
	base := inflection.Singular(snakeCase(name))
	if !validBase(base) {
		return "", fmt.Errorf("derive table base: %q is not a usable table name", name)
	}
	return base, nil
}

// validBase reports whether a base name is a safe SQL identifier.
// Table and column names are interpolated into statements, so anything
// outside [a-z0-9_] (lowercased letters, digits, underscore, not starting
// with a digit) is rejected before it reaches SQL text.
func validBase(base string) bool {
	if base == "" {
		return false
	}
	for i, r := range base {
		switch {
		case r == '_':
		case unicode.IsLower(r):
		case unicode.IsDigit(r):
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// snakeCase converts a Go type name to snake_case.
func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
