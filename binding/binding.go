// Package binding fills ${path} placeholders in field labels from JSON data.
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将 label 中的 ${path.to.value} 替换为 data 中的值。
// 无法解析的占位符保持原样，并按出现顺序返回其路径。
func Interpolate(label string, data any) (string, []string) {
	var missing []string
	out := exprPattern.ReplaceAllStringFunc(label, func(match string) string {
		path := strings.TrimSpace(exprPattern.FindStringSubmatch(match)[1])
		if val, ok := Lookup(data, path); ok {
			return format(val)
		}
		missing = append(missing, path)
		return match
	})
	return out, missing
}

// Lookup 解析形如 a.b[0].c 的路径。data 为 encoding/json 解出的通用结构。
func Lookup(data any, path string) (any, bool) {
	if data == nil || path == "" {
		return nil, false
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := parseSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			m, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			arr, isArr := current.([]any)
			if !isArr || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

// parseSegment 拆分 name[1][2]，下标必须是整数且括号成对。
func parseSegment(segment string) (string, []int, bool) {
	i := strings.IndexByte(segment, '[')
	if i == -1 {
		return segment, nil, segment != ""
	}
	name, rest := segment[:i], segment[i:]
	var indexes []int
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}

// format 输出数值时避免 JSON float64 带来的 "4e+00" 之类写法。
func format(val any) string {
	switch v := val.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
