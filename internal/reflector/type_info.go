// Package reflector derives stable, human readable names from Go types.
// Results are cached per reflect.Type.
package reflector

import (
	"path"
	"reflect"
	"sync"
)

var cache sync.Map // reflect.Type -> TypeInfo

// TypeInfo holds naming metadata about a reflected type.
type TypeInfo struct {
	Name  string       // Fully qualified name: "pkg/path.TypeName"
	Short string       // Package-local name: "pkg.TypeName"
	Type  reflect.Type // Element type for pointers
}

// TypeInfoFor returns TypeInfo for type parameter T.
func TypeInfoFor[T any]() TypeInfo {
	return TypeInfoForType(reflect.TypeFor[T]())
}

// TypeInfoOf returns TypeInfo for the dynamic type of x.
func TypeInfoOf(x any) TypeInfo {
	return TypeInfoForType(reflect.TypeOf(x))
}

// TypeInfoForType returns TypeInfo for t. Pointer types are unwrapped, so
// T and *T share the same info. Unnamed types fall back to their string form.
func TypeInfoForType(t reflect.Type) TypeInfo {
	if t == nil {
		return TypeInfo{}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if ti, ok := cache.Load(t); ok {
		return ti.(TypeInfo)
	}

	ti := TypeInfo{Type: t}
	if t.Name() == "" || t.PkgPath() == "" {
		ti.Name = t.String()
		ti.Short = t.String()
	} else {
		ti.Name = t.PkgPath() + "." + t.Name()
		ti.Short = path.Base(t.PkgPath()) + "." + t.Name()
	}

	actual, _ := cache.LoadOrStore(t, ti)
	return actual.(TypeInfo)
}
