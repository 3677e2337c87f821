package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// bindToStruct copies values into the fields of v selected by tagName.
// Missing parameters leave fields at their zero value; conversion failures
// wrap bindErr with the field name.
func bindToStruct(v any, tagName string, values map[string]string, bindErr error) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: target must be a non-nil pointer", bindErr)
	}

	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a pointer to struct", bindErr)
	}

	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}

		name, skip := fieldTagName(rt.Field(i), tagName)
		if skip {
			continue
		}

		value, ok := values[name]
		if !ok {
			continue
		}

		if err := setFieldValue(field, rt.Field(i).Type, value); err != nil {
			return fmt.Errorf("%w: field %s: %v", bindErr, rt.Field(i).Name, err)
		}
	}
	return nil
}

// fieldTagName resolves the parameter name for a field: the tag's first
// segment, the lowercase field name when untagged, skip on "-".
func fieldTagName(field reflect.StructField, tagName string) (string, bool) {
	tag := field.Tag.Get(tagName)
	if tag == "" {
		return strings.ToLower(field.Name), false
	}
	if tag == "-" {
		return "", true
	}
	name, _, _ := strings.Cut(tag, ",")
	return name, false
}

func setFieldValue(field reflect.Value, fieldType reflect.Type, value string) error {
	if fieldType.Kind() == reflect.Pointer {
		if field.IsNil() {
			field.Set(reflect.New(fieldType.Elem()))
		}
		return setFieldValue(field.Elem(), fieldType.Elem(), value)
	}

	if fieldType.Kind() == reflect.Slice {
		return setSliceValue(field, fieldType, value)
	}

	switch fieldType.Kind() {
	case reflect.String:
		field.SetString(sanitizeParam(value))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, fieldType.Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			switch strings.ToLower(value) {
			case "on", "yes":
				b = true
			case "off", "no", "":
				b = false
			default:
				return fmt.Errorf("invalid bool value %q", value)
			}
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported type %s", fieldType.Kind())
	}

	return nil
}

// setSliceValue splits a comma-separated parameter into slice elements.
func setSliceValue(field reflect.Value, fieldType reflect.Type, value string) error {
	parts := strings.Split(value, ",")
	slice := reflect.MakeSlice(fieldType, len(parts), len(parts))

	for i, part := range parts {
		if err := setFieldValue(slice.Index(i), fieldType.Elem(), strings.TrimSpace(part)); err != nil {
			return err
		}
	}

	field.Set(slice)
	return nil
}

// sanitizeParam strips NUL bytes and line breaks from URL-decoded input so a
// bound value can never smuggle header or log line breaks.
func sanitizeParam(value string) string {
	if !strings.ContainsAny(value, "\x00\r\n") {
		return value
	}
	replacer := strings.NewReplacer("\x00", "", "\r", "", "\n", "")
	return replacer.Replace(value)
}
