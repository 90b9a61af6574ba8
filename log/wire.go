package log

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/reglet-dev/labelbind/domain/entities"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MessageWire is the JSON wire format for a log record sent from a guest
// module to the host.
type MessageWire struct {
	Timestamp time.Time              `json:"timestamp"`
	Attrs     []entities.LogAttrWire `json:"attrs,omitempty"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
}

// ZapLevel returns the zap level for the record. Unknown levels map to info.
func (m MessageWire) ZapLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(m.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// Fields converts the record's attributes to zap fields. Values that do not
// parse as their declared type are kept as strings.
func (m MessageWire) Fields() []zap.Field {
	fields := make([]zap.Field, 0, len(m.Attrs)+1)
	if !m.Timestamp.IsZero() {
		fields = append(fields, zap.Time("guest_time", m.Timestamp))
	}
	for _, attr := range m.Attrs {
		fields = append(fields, attrField(attr))
	}
	return fields
}

func attrField(attr entities.LogAttrWire) zap.Field {
	switch attr.Type {
	case "int64":
		if n, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
			return zap.Int64(attr.Key, n)
		}
	case "bool":
		if b, err := strconv.ParseBool(attr.Value); err == nil {
			return zap.Bool(attr.Key, b)
		}
	case "float64":
		if f, err := strconv.ParseFloat(attr.Value, 64); err == nil {
			return zap.Float64(attr.Key, f)
		}
	case "json":
		if json.Valid([]byte(attr.Value)) {
			return zap.Any(attr.Key, json.RawMessage(attr.Value))
		}
	}
	return zap.String(attr.Key, attr.Value)
}

// Write logs the record to l at its own level.
func (m MessageWire) Write(l *zap.Logger) {
	if ce := l.Check(m.ZapLevel(), m.Message); ce != nil {
		ce.Write(m.Fields()...)
	}
}
