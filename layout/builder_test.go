package layout

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/bytefield/diagram"
	"github.com/ByLCY/bytefield/dsl"
)

// buildFromDSL 是测试辅助：用给定 DSL 文本构建布局结果。
func buildFromDSL(t *testing.T, dslText string, data any, opts BuildOptions) (*Result, error) {
	t.Helper()
	doc, err := dsl.Parse(strings.NewReader(dslText))
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	return Build(doc, data, opts)
}

const headerDSL = `
record Header {
  title: "Header of ${proto}"
  bytes-per-line: 2
  field "Version" 1
  field "Flags" 1
  field "Length" 2
}
`

// TestBuildGroupsAndBlocks 验证 record 设置生效，且分组覆盖全部字段。
func TestBuildGroupsAndBlocks(t *testing.T) {
	data := map[string]any{"proto": "demo"}
	res, err := buildFromDSL(t, headerDSL, data, BuildOptions{})
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("期望 1 个 record，实际 %d", len(res.Records))
	}
	rec := res.Records[0]
	if rec.Title != "Header of demo" || rec.Heading() != "Header of demo" {
		t.Fatalf("标题插值错误: %q", rec.Title)
	}
	if rec.BytesPerLine != 2 || rec.TotalLength != 4 {
		t.Fatalf("设置未生效: %+v", rec)
	}
	if len(rec.Groups) != 2 || len(rec.Blocks) != 2 {
		t.Fatalf("期望 2 个分组，实际 groups=%d blocks=%d", len(rec.Groups), len(rec.Blocks))
	}
	if rec.Groups[1].Offset != 2 {
		t.Fatalf("第二组偏移应为 2，实际 %d", rec.Groups[1].Offset)
	}
	if !strings.Contains(rec.Blocks[1], "│2│3│") {
		t.Fatalf("第二块标尺应从 2 开始:\n%s", rec.Blocks[1])
	}
	if len(rec.Unresolved) != 0 {
		t.Fatalf("不应有未解析占位符: %v", rec.Unresolved)
	}
}

// TestBuildOverridesWin 验证显式覆盖优先于 record 内设置。
func TestBuildOverridesWin(t *testing.T) {
	bpl, off := 8, 16
	res, err := buildFromDSL(t, headerDSL, nil, BuildOptions{
		Overrides: Overrides{BytesPerLine: &bpl, Offset: &off},
	})
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	rec := res.Records[0]
	if len(rec.Blocks) != 1 || rec.Offset != 16 {
		t.Fatalf("覆盖未生效: %+v", rec)
	}
	if !strings.Contains(rec.Blocks[0], "│6│7│8│9│") {
		t.Fatalf("标尺应从 16 开始:\n%s", rec.Blocks[0])
	}
	if len(rec.Unresolved) != 1 || rec.Unresolved[0] != "proto" {
		t.Fatalf("应记录未解析的 proto: %v", rec.Unresolved)
	}
}

// TestBuildDefaults 验证未设置时使用默认行宽。
func TestBuildDefaults(t *testing.T) {
	res, err := buildFromDSL(t, `record R { field "a" 20; field "b" 20 }`, nil, BuildOptions{})
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}
	rec := res.Records[0]
	if rec.BytesPerLine != DefaultBytesPerLine || len(rec.Blocks) != 2 {
		t.Fatalf("默认行宽未生效: %+v", rec.Groups)
	}
	if rec.Heading() != "R" {
		t.Fatalf("无 title 时应使用名称: %q", rec.Heading())
	}
}

// TestBuildErrors 覆盖各种配置错误。
func TestBuildErrors(t *testing.T) {
	cases := map[string]struct {
		src  string
		want error
		text string
	}{
		"zero size":     {src: `record R { field "a" 0 }`, want: diagram.ErrInvalidLength, text: "1:12"},
		"too wide":      {src: `record R { bytes-per-line: 2; field "a" 1; field "b" 3 }`, want: diagram.ErrFieldTooWide},
		"line width":    {src: `record R { bytes-per-line: 1000; field "a" 1 }`, want: diagram.ErrLineWidth},
		"unknown key":   {src: `record R { colour: red; field "a" 1 }`, text: "未知设置"},
		"bad int":       {src: `record R { offset: abc; field "a" 1 }`, text: "offset"},
		"duplicate rec": {src: "record R { field \"a\" 1 }\nrecord R { field \"b\" 1 }", text: "重复定义"},
	}
	for name, c := range cases {
		_, err := buildFromDSL(t, c.src, nil, BuildOptions{})
		if err == nil {
			t.Fatalf("%s: 期望出错", name)
		}
		if c.want != nil && !errors.Is(err, c.want) {
			t.Fatalf("%s: 期望 %v，实际 %v", name, c.want, err)
		}
		if c.text != "" && !strings.Contains(err.Error(), c.text) {
			t.Fatalf("%s: 错误信息应包含 %q，实际 %v", name, c.text, err)
		}
	}
}

func TestBuildRejectsEmptyDocument(t *testing.T) {
	if _, err := Build(nil, nil, BuildOptions{}); err == nil {
		t.Fatalf("nil 文档应当报错")
	}
	if _, err := Build(&dsl.Document{}, nil, BuildOptions{}); err == nil {
		t.Fatalf("空文档应当报错")
	}
}

// TestDebugJSON 验证调试 JSON 可回读且保留分组信息。
func TestDebugJSON(t *testing.T) {
	res, err := buildFromDSL(t, headerDSL, nil, BuildOptions{})
	if err != nil {
		t.Fatalf("布局计算失败: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeDebugJSON(&buf, res); err != nil {
		t.Fatalf("EncodeDebugJSON: %v", err)
	}
	if !strings.Contains(buf.String(), "┌─┬─┐") {
		t.Fatalf("JSON 中应保留制表符号原样")
	}

	path := filepath.Join(t.TempDir(), "debug.json")
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("WriteDebugJSON: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取调试文件失败: %v", err)
	}
	var back Result
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("调试 JSON 无法解析: %v", err)
	}
	if len(back.Records) != 1 || len(back.Records[0].Groups) != 2 {
		t.Fatalf("调试 JSON 内容不完整: %+v", back)
	}
}
