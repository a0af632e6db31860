// Package logger provides structured logging for rbackit using zerolog.
//
// It supports JSON and console output formats, log level configuration,
// and component-scoped loggers with structured fields.
//
// # Usage
//
//	log := logger.NewDefault("rbac")
//	log.Info("policy compiled", logger.Fields("rule_count", 42))
//
// Library packages accept a *Logger and default to logger.Nop() when the
// caller does not provide one.
package logger
