package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Service   string         `json:"service"`
	Action    string         `json:"action,omitempty"`
	Message   string         `json:"message"`
	Hostname  string         `json:"hostname"`
	Details   map[string]any `json:"details,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Logger is a value type so chained Action/With calls produce derived
// loggers without touching the parent.
type Logger struct {
	service  string
	hostname string
	action   string
	details  map[string]any
}

func New(service string) Logger {
	hostname, _ := os.Hostname()
	return Logger{
		service:  service,
		hostname: hostname,
	}
}

// Action returns a copy of the logger tagged with the given action name.
func (l Logger) Action(action string) Logger {
	l.action = action
	return l
}

// With attaches key/value pairs to every entry emitted by the returned logger.
func (l Logger) With(kv ...any) Logger {
	details := make(map[string]any, len(l.details)+len(kv)/2)
	for k, v := range l.details {
		details[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		details[key] = kv[i+1]
	}
	l.details = details
	return l
}

func (l Logger) Info(message string) {
	l.log("INFO", message, nil)
}

func (l Logger) Debug(message string, kv ...any) {
	if len(kv) > 0 {
		l = l.With(kv...)
	}
	l.log("DEBUG", message, nil)
}

func (l Logger) Warn(message string) {
	l.log("WARN", message, nil)
}

func (l Logger) Error(message string, err error) {
	l.log("ERROR", message, err)
}

func (l Logger) log(level, message string, err error) {
	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Service:   l.service,
		Action:    l.action,
		Message:   message,
		Hostname:  l.hostname,
		Details:   l.details,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	jsonData, _ := json.Marshal(entry)
	fmt.Println(string(jsonData))
}
