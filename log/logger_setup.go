package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	errSubloggerConfigIsNil  = errors.New("sublogger config is nil")
	errUnhandledOutputWriter = errors.New("unhandled output writer")
	errSubLoggerNotFound     = errors.New("sub logger not found")
	errConfigIsNil           = errors.New("logger config is nil")
)

func getWriters(s *SubLoggerConfig) (io.Writer, error) {
	if s == nil {
		return nil, errSubloggerConfigIsNil
	}
	mw, err := MultiWriter()
	if err != nil {
		return nil, err
	}
	outputWriters := strings.Split(s.Output, "|")
	for x := range outputWriters {
		var writer io.Writer
		switch strings.ToLower(strings.TrimSpace(outputWriters[x])) {
		case "stdout", "console":
			writer = os.Stdout
		case "stderr":
			writer = os.Stderr
		case "discard", "none":
			writer = io.Discard
		default:
			return nil, fmt.Errorf("%w: %s", errUnhandledOutputWriter, outputWriters[x])
		}
		if err = mw.Add(writer); err != nil {
			return nil, err
		}
	}
	return mw, nil
}

// GenDefaultSettings return struct with known sane/working logger settings
func GenDefaultSettings() *Config {
	return &Config{
		Enabled: boolPtr(true),
		SubLoggerConfig: SubLoggerConfig{
			Level:  defaultLevels,
			Output: "stderr",
		},
		AdvancedSettings: advancedSettings{
			ShowLogSystemName: boolPtr(true),
			Spacer:            spacer,
			TimeStampFormat:   timestampFormat,
			Headers: headers{
				Info:  "[INFO]",
				Warn:  "[WARN]",
				Debug: "[DEBUG]",
				Error: "[ERROR]",
			},
		},
	}
}

func newLogger(c *Config) *Logger {
	return &Logger{
		enabled:           c.Enabled == nil || *c.Enabled,
		ShowLogSystemName: c.AdvancedSettings.ShowLogSystemName != nil && *c.AdvancedSettings.ShowLogSystemName,
		TimestampFormat:   c.AdvancedSettings.TimeStampFormat,
		Spacer:            c.AdvancedSettings.Spacer,
		ErrorHeader:       c.AdvancedSettings.Headers.Error,
		InfoHeader:        c.AdvancedSettings.Headers.Info,
		WarnHeader:        c.AdvancedSettings.Headers.Warn,
		DebugHeader:       c.AdvancedSettings.Headers.Debug,
	}
}

// SetupGlobalLogger applies the config to the logger and every registered
// sub logger, then applies any per sub logger overrides
func SetupGlobalLogger(c *Config) error {
	if c == nil {
		return errConfigIsNil
	}
	defaults := GenDefaultSettings()
	if c.AdvancedSettings.Headers == (headers{}) {
		c.AdvancedSettings.Headers = defaults.AdvancedSettings.Headers
	}
	if c.AdvancedSettings.Spacer == "" {
		c.AdvancedSettings.Spacer = spacer
	}
	if c.Level == "" {
		c.Level = defaultLevels
	}
	if c.Output == "" {
		c.Output = defaults.Output
	}

	output, err := getWriters(&c.SubLoggerConfig)
	if err != nil {
		return err
	}

	mu.Lock()
	for _, sl := range subLoggers {
		sl.levels = splitLevel(c.Level)
		sl.output = output
	}
	logger = newLogger(c)
	mu.Unlock()

	return SetupSubLoggers(c.SubLoggers)
}

// SetupSubLoggers configure all sub loggers with provided configuration values
func SetupSubLoggers(s []SubLoggerConfig) error {
	for x := range s {
		output, err := getWriters(&s[x])
		if err != nil {
			return err
		}
		if err := configureSubLogger(strings.ToUpper(s[x].Name), s[x].Level, output); err != nil {
			return err
		}
	}
	return nil
}

func configureSubLogger(name, levels string, output io.Writer) error {
	mu.Lock()
	defer mu.Unlock()
	sl, found := subLoggers[name]
	if !found {
		return fmt.Errorf("%w: %v", errSubLoggerNotFound, name)
	}
	sl.output = output
	sl.levels = splitLevel(levels)
	return nil
}

// SetLevel updates the enabled levels of a named sub logger
func SetLevel(name, level string) (Levels, error) {
	mu.Lock()
	defer mu.Unlock()
	sl, found := subLoggers[strings.ToUpper(name)]
	if !found {
		return Levels{}, fmt.Errorf("%w: %v", errSubLoggerNotFound, name)
	}
	sl.levels = splitLevel(level)
	return sl.levels, nil
}

// Level returns the enabled levels of a named sub logger
func Level(name string) (Levels, error) {
	mu.RLock()
	defer mu.RUnlock()
	sl, found := subLoggers[strings.ToUpper(name)]
	if !found {
		return Levels{}, fmt.Errorf("%w: %v", errSubLoggerNotFound, name)
	}
	return sl.levels, nil
}

func splitLevel(level string) (l Levels) {
	enabledLevels := strings.Split(level, "|")
	for x := range enabledLevels {
		switch strings.ToUpper(strings.TrimSpace(enabledLevels[x])) {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}

func registerNewSubLogger(name string) *SubLogger {
	temp := &SubLogger{
		name:   strings.ToUpper(name),
		output: os.Stderr,
		levels: splitLevel(defaultLevels),
	}
	subLoggers[temp.name] = temp
	return temp
}

func boolPtr(b bool) *bool { return &b }

// register all loggers at package init()
func init() {
	Global = registerNewSubLogger("LOG")
	WebsocketMgr = registerNewSubLogger("WEBSOCKET")
	SubscriptionMgr = registerNewSubLogger("SUBSCRIPTION")
	ConfigMgr = registerNewSubLogger("CONFIG")
	MetricsMgr = registerNewSubLogger("METRICS")
	CLI = registerNewSubLogger("CLI")
}
