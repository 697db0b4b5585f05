package tablekit

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Value classes in sort order. Values of different classes never compare
// by content, so a column mixing 9, "9" and "n/a" still sorts consistently.
const (
	classNil = iota
	classNumber
	classString
	classBool
	classTime
	classOther
)

func valueClass(v any) int {
	switch v.(type) {
	case nil:
		return classNil
	case string:
		return classString
	case bool:
		return classBool
	case time.Time:
		return classTime
	}
	if _, ok := toFloat(reflect.ValueOf(v)); ok {
		return classNumber
	}
	return classOther
}

// compareValues orders two resolved cell values. Values rank by class first
// (nil, numbers, strings, bools, times, everything else) and then by content:
// numbers numerically across kinds, other values by their printed form.
func compareValues(a, b any) int {
	ac, bc := valueClass(a), valueClass(b)
	if ac != bc {
		return cmp.Compare(ac, bc)
	}

	switch ac {
	case classNil:
		return 0
	case classNumber:
		c, _ := compareNumbers(a, b)
		return c
	case classString:
		return strings.Compare(a.(string), b.(string))
	case classBool:
		return compareBools(a.(bool), b.(bool))
	case classTime:
		return a.(time.Time).Compare(b.(time.Time))
	}
	return strings.Compare(printed(a), printed(b))
}

func printed(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func compareNumbers(a, b any) (int, bool) {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case isInt(av) && isInt(bv):
		return cmp.Compare(av.Int(), bv.Int()), true
	case isUint(av) && isUint(bv):
		return cmp.Compare(av.Uint(), bv.Uint()), true
	}
	af, aok := toFloat(av)
	bf, bok := toFloat(bv)
	if !aok || !bok {
		return 0, false
	}
	return cmp.Compare(af, bf), true
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func toFloat(v reflect.Value) (float64, bool) {
	switch {
	case isInt(v):
		return float64(v.Int()), true
	case isUint(v):
		return float64(v.Uint()), true
	case v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}
