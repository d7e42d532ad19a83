// Package logger wraps zap to provide:
//   - a global sugared logger with a console encoder,
//   - an optional rolling log file (lumberjack) teed with stdout,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and KV convenience functions (InfoKV, ErrorKV, ...).
//
// Services take a context and log through the logger stored in it.
package logger
