package ports

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug is for stage internals (browser calls, recorder state changes).
	LevelDebug LogLevel = iota
	// LevelInfo is for per-device progress reported by the orchestrator.
	LevelInfo
	// LevelWarn is for device failures that do not stop the run.
	LevelWarn
	// LevelError is for problems that stop the run.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

var logLevelNames = map[LogLevel]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelQuiet: "quiet",
}

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	if name, ok := logLevelNames[l]; ok {
		return name
	}
	return "unknown"
}

// ParseLogLevel parses a string into a LogLevel, defaulting to LevelInfo.
func ParseLogLevel(s string) LogLevel {
	for level, name := range logLevelNames {
		if name == s {
			return level
		}
	}
	return LevelInfo
}

// Logger abstracts logging. msg is a go-l10n message key; args fill its verbs.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that prefixes messages with the component name.
	WithComponent(component string) Logger
}
