package layout

import (
	"encoding/json"
	"io"
	"os"
)

// WriteDebugJSON 将布局结果输出为 JSON 文件，便于检查分组与偏移。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDebugJSON(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// EncodeDebugJSON 以缩进格式写出布局结果，保留制表符号原样。
func EncodeDebugJSON(w io.Writer, res *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(res)
}
