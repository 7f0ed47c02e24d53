package observe

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// LogrObserver implements Observer on top of a logr.Logger. Failure events
// are logged at error level, everything else at info.
type LogrObserver struct {
	logger logr.Logger
}

// NewLogrObserver wraps logger.
func NewLogrObserver(logger logr.Logger) *LogrObserver {
	return &LogrObserver{logger: logger}
}

// NewJSONLogger returns a funcr logger writing one JSON object per line to w.
func NewJSONLogger(w io.Writer, verbosity int) logr.Logger {
	return funcr.NewJSON(func(obj string) {
		fmt.Fprintln(w, obj)
	}, funcr.Options{LogTimestamp: true, Verbosity: verbosity})
}

// Printf implements Observer.
func (o *LogrObserver) Printf(format string, v ...interface{}) {
	o.logger.Info(fmt.Sprintf(format, v...))
}

// Event implements Observer.
func (o *LogrObserver) Event(event Event) {
	kv := []interface{}{"event", string(event.Type)}
	if event.Step != "" {
		kv = append(kv, "step", event.Step)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	for k, v := range event.Fields {
		kv = append(kv, k, v)
	}

	if isFailure(event.Type) {
		o.logger.Error(nil, event.Message, kv...)
		return
	}
	o.logger.Info(event.Message, kv...)
}

// WithFields implements Observer.
func (o *LogrObserver) WithFields(fields map[string]string) Observer {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &LogrObserver{logger: o.logger.WithValues(kv...)}
}

func isFailure(t EventType) bool {
	return strings.HasSuffix(string(t), ".failed") || strings.HasSuffix(string(t), "_failed")
}
