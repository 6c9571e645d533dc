package validation

import (
	"reflect"
	"strings"
)

// jsonFieldName reports fields by their JSON name so messages match the request body
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
