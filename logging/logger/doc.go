// Package logger wraps logrus with context-aware helpers that stamp every
// entry with the request trace id and the build version.
package logger
