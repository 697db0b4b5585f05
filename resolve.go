package tablekit

import (
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PathSeparator separates relation segments in a column path.
const PathSeparator = "."

// Computed is a record value (or column default) that is produced on access
// instead of being stored. How it is invoked depends on the table's Evaluation.
type Computed func(row *Row) any

// Getter is implemented by mapping-like records such as *ordereddict.Dict.
type Getter interface {
	Get(key string) (any, bool)
}

// Accessor looks up a single path segment inside obj.
type Accessor interface {
	Access(obj any, key string) (any, bool)
}

// AccessorFunc adapts a function to the Accessor interface.
type AccessorFunc func(obj any, key string) (any, bool)

// Access implements Accessor.
func (f AccessorFunc) Access(obj any, key string) (any, bool) { return f(obj, key) }

// DefaultAccessors are tried in order for every segment: mapping access
// first, then attribute access.
var DefaultAccessors = []Accessor{
	AccessorFunc(MappingAccess),
	AccessorFunc(AttributeAccess),
}

// Evaluation is the per-flavor policy for Computed values.
type Evaluation struct {
	// PassRow hands the enclosing Row to the Computed; otherwise it gets nil.
	PassRow bool
	// Memoize keeps the computed result for the rest of the Row's life.
	Memoize bool
}

var (
	// StaticEvaluation invokes Computed values once with the Row.
	StaticEvaluation = Evaluation{PassRow: true, Memoize: true}
	// LiveEvaluation invokes Computed values without a row on every access.
	LiveEvaluation = Evaluation{}
)

// SplitPath splits a path into segments, rejecting empty ones.
func SplitPath(path string) ([]string, error) {
	segments := strings.Split(path, PathSeparator)
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptyPathSegment, path)
		}
	}
	return segments, nil
}

// Resolve walks path through record. Missing data never fails: the default
// is used instead (invoked with bindTo when it is a Computed), and nil is the
// absence marker when there is no default. Only a malformed path errors.
func Resolve(record any, path string, def any, bindTo *Row, eval Evaluation) (any, error) {
	v, _, err := resolve(record, path, def, bindTo, eval)
	return v, err
}

// resolve also reports whether the value came from a Computed that must not
// be memoized under eval.
func resolve(record any, path string, def any, bindTo *Row, eval Evaluation) (any, bool, error) {
	segments, err := SplitPath(path)
	if err != nil {
		return nil, false, err
	}

	value, ok := lookup(record, segments, DefaultAccessors)
	if !ok || value == nil {
		return evalDefault(def, bindTo), false, nil
	}

	fn, isComputed := asComputed(value)
	if !isComputed {
		return value, false, nil
	}

	var arg *Row
	if eval.PassRow {
		arg = bindTo
	}
	value = fn(arg)
	if value == nil {
		value = evalDefault(def, bindTo)
	}
	return value, !eval.Memoize, nil
}

func lookup(record any, segments []string, accessors []Accessor) (any, bool) {
	current := record
	for _, seg := range segments {
		if isNil(current) {
			return nil, false
		}
		found := false
		for _, a := range accessors {
			if v, ok := a.Access(current, seg); ok {
				current, found = v, true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return current, true
}

func evalDefault(def any, bindTo *Row) any {
	if fn, ok := asComputed(def); ok {
		return fn(bindTo)
	}
	return def
}

func asComputed(v any) (Computed, bool) {
	switch fn := v.(type) {
	case Computed:
		return fn, fn != nil
	case func(*Row) any:
		return fn, fn != nil
	}
	return nil, false
}

// MappingAccess looks key up in a Getter or a string-keyed map.
func MappingAccess(obj any, key string) (any, bool) {
	switch m := obj.(type) {
	case map[string]any:
		v, ok := m[key]
		return v, ok
	case Getter:
		return m.Get(key)
	}

	rv := indirect(reflect.ValueOf(obj))
	if !rv.IsValid() || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

// AttributeAccess looks key up as an exported struct field (by `table` tag,
// name, CamelCase form of a snake_case key, or case-insensitively), then as
// an exported getter method taking no arguments. Mappings are left to
// MappingAccess, so a missing key never resolves to one of their methods.
func AttributeAccess(obj any, key string) (any, bool) {
	rv := reflect.ValueOf(obj)
	if !rv.IsValid() || isMapping(obj) {
		return nil, false
	}

	if base := indirect(rv); base.IsValid() && base.Kind() == reflect.Struct {
		if v, ok := structField(base, key); ok {
			return v, true
		}
	}
	return callGetter(rv, key)
}

func structField(base reflect.Value, key string) (any, bool) {
	t := base.Type()

	var sf reflect.StructField
	found := false
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() {
			continue
		}
		if tag, _, _ := strings.Cut(f.Tag.Get("table"), ","); tag == key {
			sf, found = f, true
			break
		}
	}
	if !found {
		for _, name := range []string{key, goName(key)} {
			if f, ok := t.FieldByName(name); ok && f.IsExported() {
				sf, found = f, true
				break
			}
		}
	}
	if !found {
		folded := strings.ReplaceAll(key, "_", "")
		sf, found = t.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, folded)
		})
		found = found && sf.IsExported()
	}
	if !found {
		return nil, false
	}

	fv, err := base.FieldByIndexErr(sf.Index)
	if err != nil {
		return nil, false
	}
	return fv.Interface(), true
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func callGetter(rv reflect.Value, key string) (any, bool) {
	folded := strings.ReplaceAll(key, "_", "")
	t := rv.Type()
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if m.Name != goName(key) && !strings.EqualFold(m.Name, folded) {
			continue
		}
		method := rv.Method(i)
		mt := method.Type()
		if mt.NumIn() != 0 {
			continue
		}
		switch {
		case mt.NumOut() == 1:
			return method.Call(nil)[0].Interface(), true
		case mt.NumOut() == 2 && mt.Out(1).Implements(errorType):
			out := method.Call(nil)
			if !out[1].IsNil() {
				return nil, false
			}
			return out[0].Interface(), true
		}
	}
	return nil, false
}

// goName converts "first_name" to "FirstName".
func goName(key string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	parts := strings.Split(key, "_")
	for i, p := range parts {
		parts[i] = caser.String(p)
	}
	return strings.Join(parts, "")
}

// isMapping reports whether obj is a Getter or a string-keyed map.
func isMapping(obj any) bool {
	if _, ok := obj.(Getter); ok {
		return true
	}
	rv := indirect(reflect.ValueOf(obj))
	return rv.IsValid() && rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}
