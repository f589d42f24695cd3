// Package jsonutil decodes JSON embedded in generative model output.
//
// Model output is loosely typed: a field declared as text may arrive as a
// number, a list may arrive as a single string, a score may arrive as
// "85/100". Decoding goes through a generic value and mapstructure with weak
// typing so that one odd leaf never discards the rest of the response.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"

	"github.com/mitchellh/mapstructure"
)

var (
	fencedJSON   = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	firstInteger = regexp.MustCompile(`-?\d+`)
)

// ParseResponse decodes raw into out. When raw holds a fenced ```json block
// only the block is decoded; otherwise the whole text is. On failure it
// returns a MALFORMED_RESPONSE error carrying raw.
func ParseResponse(raw string, out interface{}) error {
	value, err := parseValue(raw)
	if err != nil {
		return err
	}
	if err := Decode(value, out); err != nil {
		return apperrors.NewMalformedResponseError(raw, err)
	}
	return nil
}

// ParseObject is ParseResponse into a generic JSON object.
func ParseObject(raw string) (map[string]interface{}, error) {
	value, err := parseValue(raw)
	if err != nil {
		return nil, err
	}
	obj, ok := value.(map[string]interface{})
	if !ok {
		return nil, apperrors.NewMalformedResponseError(raw, fmt.Errorf("response is not a JSON object"))
	}
	return obj, nil
}

// Decode maps a generic JSON value onto out using its json tags. Scalars are
// coerced to the field type: numbers and booleans become text, digits inside
// text become integers, single values become one-element lists and objects
// found where text is expected are kept as compact JSON.
func Decode(value interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			textHook,
			integerHook,
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(value)
}

// Int reads a loosely typed integer: a JSON number (rounded) or the first
// integer inside text such as "85/100". Anything else yields def.
func Int(v interface{}, def int) int {
	switch n := v.(type) {
	case float64:
		return int(math.Round(n))
	case int:
		return n
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return int(math.Round(f))
		}
		return def
	case string:
		m := firstInteger.FindString(n)
		if m == "" {
			return def
		}
		i, err := strconv.Atoi(m)
		if err != nil {
			return def
		}
		return i
	default:
		return def
	}
}

func parseValue(raw string) (interface{}, error) {
	body := strings.TrimSpace(raw)
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		body = m[1]
	}
	if body == "" {
		return nil, apperrors.NewMalformedResponseError(raw, fmt.Errorf("empty response"))
	}

	var value interface{}
	if err := json.Unmarshal([]byte(body), &value); err != nil {
		return nil, apperrors.NewMalformedResponseError(raw, err)
	}
	return value, nil
}

func textHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(data.(bool)), nil
	case reflect.Map, reflect.Slice:
		b, err := json.Marshal(data)
		if err != nil {
			return data, nil
		}
		return string(b), nil
	}
	return data, nil
}

func integerHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(data, 0), nil
	}
	return data, nil
}
