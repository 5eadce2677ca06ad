package layout

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ByLCY/bytefield/binding"
	"github.com/ByLCY/bytefield/diagram"
	"github.com/ByLCY/bytefield/dsl"
)

// record 内允许出现的设置项。
var knownSettings = map[string]bool{
	"title":          true,
	"bytes-per-line": true,
	"offset":         true,
}

// Build 根据 DSL AST 与绑定数据，为每个 record 计算分组并渲染文本块。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if len(doc.Records) == 0 {
		return nil, fmt.Errorf("文档中缺少 record 段落")
	}

	res := &Result{Records: make([]Record, 0, len(doc.Records))}
	seen := make(map[string]bool, len(doc.Records))
	for _, rec := range doc.Records {
		if seen[rec.Name] {
			return nil, fmt.Errorf("%s: record %s 重复定义", rec.Pos, rec.Name)
		}
		seen[rec.Name] = true

		out, err := buildRecord(rec, data, opts)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.Name, err)
		}
		res.Records = append(res.Records, out)
	}
	return res, nil
}

func buildRecord(rec *dsl.Record, data any, opts BuildOptions) (Record, error) {
	settings, err := resolveSettings(rec, opts)
	if err != nil {
		return Record{}, err
	}

	var unresolved []string
	title := ""
	if st, ok := rec.Setting("title"); ok {
		var missing []string
		title, missing = binding.Interpolate(st.Value.Text(), data)
		unresolved = append(unresolved, missing...)
	}

	// 逐个字段插值后加入 diagram；长度非法时带上字段所在位置。
	d := diagram.New()
	for _, fd := range rec.Fields() {
		label, missing := binding.Interpolate(string(fd.Label), data)
		unresolved = append(unresolved, missing...)
		if d.AddField(label, fd.Size).Err() != nil {
			return Record{}, fmt.Errorf("%s: %w", fd.Pos, d.Err())
		}
	}

	out, err := BuildDiagram(rec.Name, d, settings)
	if err != nil {
		return Record{}, err
	}
	out.Title = title
	out.Unresolved = unresolved
	if len(unresolved) > 0 {
		Logger().Warn("unresolved placeholders",
			zap.String("record", rec.Name),
			zap.Strings("paths", unresolved),
		)
	}
	return out, nil
}

// resolveSettings 合并默认值、record 内设置与显式覆盖。
func resolveSettings(rec *dsl.Record, opts BuildOptions) (Settings, error) {
	for _, st := range rec.Statements {
		if st.Setting != nil && !knownSettings[st.Setting.Key] {
			return Settings{}, fmt.Errorf("%s: 未知设置 %q", st.Setting.Pos, st.Setting.Key)
		}
	}

	s := opts.defaults()
	if st, ok := rec.Setting("bytes-per-line"); ok {
		n, err := st.Value.Int()
		if err != nil {
			return Settings{}, fmt.Errorf("%s: bytes-per-line: %w", st.Pos, err)
		}
		s.BytesPerLine = n
	}
	if st, ok := rec.Setting("offset"); ok {
		n, err := st.Value.Int()
		if err != nil {
			return Settings{}, fmt.Errorf("%s: offset: %w", st.Pos, err)
		}
		s.Offset = n
	}
	if v := opts.Overrides.BytesPerLine; v != nil {
		s.BytesPerLine = *v
	}
	if v := opts.Overrides.Offset; v != nil {
		s.Offset = *v
	}
	return s, nil
}

// BuildDiagram 对单个 diagram 计算分组并渲染，供 DSL 与命令行内联模式共用。
func BuildDiagram(name string, d *diagram.Diagram, s Settings) (Record, error) {
	groups, err := d.Plan(s.BytesPerLine, s.Offset)
	if err != nil {
		return Record{}, err
	}
	blocks, err := d.Render(s.BytesPerLine, s.Offset)
	if err != nil {
		return Record{}, err
	}
	Logger().Debug("record laid out",
		zap.String("record", name),
		zap.Int("bytes", d.TotalLength()),
		zap.Int("bytesPerLine", s.BytesPerLine),
		zap.Int("blocks", len(blocks)),
	)
	return Record{
		Name:         name,
		BytesPerLine: s.BytesPerLine,
		Offset:       s.Offset,
		TotalLength:  d.TotalLength(),
		Fields:       d.Fields(),
		Groups:       groups,
		Blocks:       blocks,
	}, nil
}
