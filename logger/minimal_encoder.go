package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette holds the ANSI colors for one theme
type palette struct {
	time      string
	component string
	message   string
	path      string
	number    string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

var themes = map[string]palette{
	// Gruvbox Dark (warm, muted)
	"gruvbox": {
		time:      "\x1b[38;5;108m",
		component: "\x1b[38;5;208m",
		message:   "\x1b[38;5;223m",
		path:      "\x1b[38;5;109m",
		number:    "\x1b[38;5;175m",
		warn:      "\x1b[38;5;214m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;88m",
	},
	// Everforest Dark (forest greens)
	"everforest": {
		time:      "\x1b[38;5;107m",
		component: "\x1b[38;5;108m",
		message:   "\x1b[38;5;223m",
		path:      "\x1b[38;5;109m",
		number:    "\x1b[38;5;108m",
		warn:      "\x1b[38;5;179m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;52m",
	},
}

// Current active theme
var currentTheme = "everforest"

// SetTheme configures the color scheme for log output. Unknown themes are ignored.
func SetTheme(theme string) {
	if _, ok := themes[theme]; ok {
		currentTheme = theme
	}
}

func colors() palette {
	return themes[currentTheme]
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  f.manager  File added  src/models/pet.ts (3 files)"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	c := colors()
	final := buffer.NewPool().Get()

	final.AppendString(c.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only show for WARN/ERROR and above
	if lvl := levelColorString(ent.Level); lvl != "" {
		final.AppendString("  ")
		final.AppendString(lvl)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(c.component)
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(c.message)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	if values := extractFieldValues(fields); values != "" {
		final.AppendString("  ")
		final.AppendString(values)
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(level zapcore.Level) string {
	c := colors()

	switch level {
	case zapcore.WarnLevel:
		return colorBold + c.warnBg + c.warn + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + c.errBg + c.err + "ERROR" + colorReset
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + c.errBg + c.err + level.CapitalString() + colorReset
	default:
		return ""
	}
}

// abbreviateName shortens component names: filemanager.processor -> f.processor
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// getFieldValue extracts the value from a zap field, handling different field types
func getFieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.BoolType:
		return fmt.Sprintf("%t", field.Integer == 1)
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
	}

	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}

	return ""
}

// extractFieldValues pulls the values worth showing on a console line
// Input: {"path": "src/a.ts", "count": 3, "duration_ms": 12}
// Output: "src/a.ts (3 files) 12ms"
// Fields without a dedicated rendering are kept as key=value.
func extractFieldValues(fields []zapcore.Field) string {
	c := colors()
	var values []string

	for _, field := range fields {
		val := getFieldValue(field)
		if val == "" {
			continue
		}
		switch field.Key {
		case FieldPath, FieldFile, FieldPlugin, FieldParser, FieldEvent:
			values = append(values, c.path+val+colorReset)
		case FieldCount, FieldTotalCount:
			values = append(values, "("+c.number+val+colorReset+" files)")
		case FieldDurationMS:
			values = append(values, c.number+val+colorReset+"ms")
		case FieldError:
			values = append(values, c.err+val+colorReset)
		default:
			values = append(values, field.Key+"="+val)
		}
	}

	return strings.Join(values, " ")
}
