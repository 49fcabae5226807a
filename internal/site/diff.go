// SPDX-License-Identifier: MIT

package site

import (
	"reflect"
	"sort"
	"strings"
)

// Diff returns the configuration paths of the fields that differ between old
// and next, sorted. Sequences are compared as a whole.
func Diff(old, next *Descriptor) []string {
	var changed []string
	compareStruct("", reflect.ValueOf(*old), reflect.ValueOf(*next), &changed)
	sort.Strings(changed)
	return changed
}

func compareStruct(prefix string, oldVal, nextVal reflect.Value, changed *[]string) {
	t := oldVal.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "" {
			name = f.Name
		}
		fieldPath := name
		if prefix != "" {
			fieldPath = prefix + "." + name
		}

		ov := oldVal.Field(i)
		nv := nextVal.Field(i)
		if ov.Kind() == reflect.Struct {
			compareStruct(fieldPath, ov, nv, changed)
			continue
		}
		if !reflect.DeepEqual(ov.Interface(), nv.Interface()) {
			*changed = append(*changed, fieldPath)
		}
	}
}
