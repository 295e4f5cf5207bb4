package log

import (
	"gopkg.in/natefinch/lumberjack.v2"

	"firestige.xyz/netproc/internal/config"
)

// AddFileAppender appends a size-rotated log file.
func (m *MultiWriter) AddFileAppender(options config.FileLogConfig) *MultiWriter {
	writer := &lumberjack.Logger{
		Filename:   options.Path,
		MaxSize:    options.MaxSizeMB,  // megabytes
		MaxBackups: options.MaxBackups, // number of backups
		MaxAge:     options.MaxAgeDays, // days
		Compress:   options.Compress,
	}
	m.writers = append(m.writers, writer)
	return m
}
