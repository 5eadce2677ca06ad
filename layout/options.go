package layout

// 默认排版参数。
const (
	DefaultBytesPerLine = 32
	DefaultOffset       = 0
)

// BuildOptions 配置布局阶段：默认值 < record 内设置 < Overrides。
type BuildOptions struct {
	Defaults  Settings
	Overrides Overrides
}

// Settings 是一个 record 的排版参数。
type Settings struct {
	BytesPerLine int
	Offset       int
}

// Overrides 为显式指定（例如命令行参数）的值，nil 表示未指定。
type Overrides struct {
	BytesPerLine *int
	Offset       *int
}

// DefaultSettings 返回内置默认值。
func DefaultSettings() Settings {
	return Settings{BytesPerLine: DefaultBytesPerLine, Offset: DefaultOffset}
}

func (o BuildOptions) defaults() Settings {
	s := o.Defaults
	if s.BytesPerLine == 0 {
		s.BytesPerLine = DefaultBytesPerLine
	}
	return s
}
