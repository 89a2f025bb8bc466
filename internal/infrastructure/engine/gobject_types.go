package engine

import (
	"sync"

	"github.com/jwijenbergh/purego"
	puregotkcore "github.com/jwijenbergh/puregotk/pkg/core"
)

var (
	loadTypeNameFnOnce   sync.Once
	typeNameFromInstance func(uintptr) string
)

// nativeTypeName resolves the GType name behind a GObject instance pointer.
// Returns "" when the GObject library or symbol cannot be loaded, which
// downgrades callers to their unknown-type path.
func nativeTypeName(instancePtr uintptr) string {
	if instancePtr == 0 {
		return ""
	}
	loadTypeNameFnOnce.Do(func() {
		libs := make([]uintptr, 0, 2)
		for _, libPath := range puregotkcore.GetPaths("GOBJECT") {
			lib, err := purego.Dlopen(libPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
			if err != nil {
				continue
			}
			libs = append(libs, lib)
		}
		if len(libs) == 0 {
			return
		}
		puregotkcore.PuregoSafeRegister(&typeNameFromInstance, libs, "g_type_name_from_instance")
	})
	if typeNameFromInstance == nil {
		return ""
	}
	return typeNameFromInstance(instancePtr)
}
