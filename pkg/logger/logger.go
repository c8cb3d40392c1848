package logger

import (
	"log"
	"strings"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

// ParseLevel converts a config string to a level. Unknown strings fall back
// to INFO.
func ParseLevel(s string) int {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARNING", "WARN":
		return WARNING
	case "ERROR":
		return ERROR
	case "SILENCE":
		return SILENCE
	}

	return INFO
}

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level int
}

func NewLogger(level int) *defaultLogger {
	return &defaultLogger{level: level}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	if l.level <= DEBUG {
		log.Printf(msg+"\n", a...)
	}
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	if l.level <= INFO {
		log.Printf(msg+"\n", a...)
	}
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	if l.level <= WARNING {
		log.Printf(msg+"\n", a...)
	}
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	if l.level <= ERROR {
		log.Printf(msg+"\n", a...)
	}
}
