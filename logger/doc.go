// Package logger provides structured logging for jolt using zerolog.
//
// It supports JSON and console output, log level configuration, rotating
// file output and component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "/var/log/jolt/client.log"
//
// # Usage
//
//	log := logger.NewDefault("jolt").WithComponent("httpclient")
//	log.Info("request sent", logger.Fields("method", "GET"))
package logger
