package logger

import (
	"go.uber.org/zap/zapcore"
)

// Supported console themes
const (
	ThemePlain = "plain"
	ThemeColor = "color"
)

// Current active theme (set from config or SKILLTREE_LOG_THEME)
var currentTheme = ThemePlain

// SetTheme configures the console level colouring. Unknown themes are ignored.
func SetTheme(theme string) {
	if theme == ThemePlain || theme == ThemeColor {
		currentTheme = theme
	}
}

// CurrentTheme returns the active console theme.
func CurrentTheme() string {
	return currentTheme
}

// newConsoleEncoder builds the human-readable encoder: short time, level,
// logger name, message, then key=value fields. No caller or stacktrace noise.
func newConsoleEncoder() zapcore.Encoder {
	levelEncoder := zapcore.CapitalLevelEncoder
	if currentTheme == ThemeColor {
		levelEncoder = zapcore.CapitalColorLevelEncoder
	}

	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      levelEncoder,
		EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05"),
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	})
}
