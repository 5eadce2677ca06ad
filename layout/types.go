package layout

import "github.com/ByLCY/bytefield/diagram"

// 该文件定义布局结果，供文本/矢量渲染与调试 JSON 共用。

// Result 保存所有 record 的排版结果，顺序与 DSL 中一致。
type Result struct {
	Records []Record `json:"records"`
}

// Record 记录单个 record 的配置、分组与渲染出的文本块。
type Record struct {
	Name         string          `json:"name"`
	Title        string          `json:"title"`
	BytesPerLine int             `json:"bytesPerLine"`
	Offset       int             `json:"offset"`
	TotalLength  int             `json:"totalLength"`
	Fields       []diagram.Field `json:"fields"`
	Groups       []diagram.Group `json:"groups"`
	Blocks       []string        `json:"blocks"`
	Unresolved   []string        `json:"unresolved,omitempty"` // 未能绑定的 ${path}
}

// Heading 返回 record 的展示标题（无 title 时退回到名称）。
func (r Record) Heading() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}
