package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Observer emits one structured log line plus a counter and a duration
// histogram per operation.
type Observer struct {
	logger  Logger
	metrics MetricsRecorder
}

func NewObserver(logger Logger, metrics MetricsRecorder) *Observer {
	if metrics == nil {
		metrics = NopMetricsRecorder{}
	}
	return &Observer{logger: glog.Ensure(logger), metrics: metrics}
}

func (o *Observer) Logger() Logger {
	if o == nil {
		return glog.Nop()
	}
	return o.logger
}

func (o *Observer) ObserveOperation(
	ctx context.Context,
	startedAt time.Time,
	operation string,
	err error,
	fields map[string]any,
) {
	if o == nil {
		return
	}
	operation = normalizeOperation(operation)
	if operation == "" {
		operation = "unknown"
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	elapsed := time.Since(startedAt)

	contextFields := cloneFields(fields)
	contextFields["event_type"] = operation
	contextFields["status"] = status
	contextFields["duration_ms"] = elapsed.Milliseconds()
	if err != nil {
		enrichErrorFields(contextFields, err)
	}

	tags := map[string]string{
		"operation": operation,
		"status":    status,
	}
	for _, key := range []string{"error_kind", "strategy"} {
		if value := strings.TrimSpace(fmt.Sprint(contextFields[key])); value != "" && value != "<nil>" {
			tags[key] = value
		}
	}

	o.recordCounter(ctx, metricName(operation, "total"), 1, tags)
	o.recordHistogram(ctx, metricName(operation, "duration_ms"), float64(elapsed.Milliseconds()), tags)

	if err != nil {
		o.logWithLevel(ctx, "error", operation+" failed", contextFields)
		return
	}
	o.logWithLevel(ctx, "info", operation+" succeeded", contextFields)
}

func enrichErrorFields(fields map[string]any, err error) {
	fields["error"] = err.Error()
	fields["error_kind"] = string(KindOf(err))
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return
	}
	fields["error_category"] = fmt.Sprint(richErr.Category)
	if richErr.TextCode != "" {
		fields["error_text_code"] = richErr.TextCode
	}
	if len(richErr.Metadata) > 0 {
		fields["error_metadata"] = cloneFields(richErr.Metadata)
	}
}

func (o *Observer) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if o == nil || o.logger == nil {
		return
	}
	logger := o.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		logger.Error(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func (o *Observer) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.IncCounter(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func (o *Observer) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.ObserveHistogram(ctx, strings.TrimSpace(name), value, cloneTags(tags))
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

func normalizeOperation(operation string) string {
	operation = strings.TrimSpace(strings.ToLower(operation))
	operation = strings.ReplaceAll(operation, " ", "_")
	operation = strings.ReplaceAll(operation, "-", "_")
	return operation
}
