// Package log defines the logging interface the rest of the module
// depends on, keeping the concrete logging library at the edges.
package log

import "context"

// Logger is the structured logger consumed by services and handlers.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...map[string]interface{})
	Info(ctx context.Context, msg string, fields ...map[string]interface{})
	Warn(ctx context.Context, msg string, fields ...map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	// With returns a new logger carrying additional structured fields.
	With(fields map[string]interface{}) Logger
}
