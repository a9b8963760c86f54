package log

import (
	"fmt"
	"log"
	"time"
)

// Info takes a pointer subLogger struct and string sends to the output
func Info(sl *SubLogger, data string) {
	stage(sl, levelInfo, func() string { return data })
}

// Infoln takes a pointer subLogger struct and interface sends to the output
func Infoln(sl *SubLogger, v ...any) {
	stage(sl, levelInfo, func() string { return fmt.Sprintln(v...) })
}

// Infof takes a pointer subLogger struct, string and interface formats sends to the output
func Infof(sl *SubLogger, data string, v ...any) {
	stage(sl, levelInfo, func() string { return fmt.Sprintf(data, v...) })
}

// Debug takes a pointer subLogger struct and string sends to the output
func Debug(sl *SubLogger, data string) {
	stage(sl, levelDebug, func() string { return data })
}

// Debugln takes a pointer subLogger struct, string and interface sends to the output
func Debugln(sl *SubLogger, v ...any) {
	stage(sl, levelDebug, func() string { return fmt.Sprintln(v...) })
}

// Debugf takes a pointer subLogger struct, string and interface formats sends to the output
func Debugf(sl *SubLogger, data string, v ...any) {
	stage(sl, levelDebug, func() string { return fmt.Sprintf(data, v...) })
}

// Warn takes a pointer subLogger struct & string and sends to the output
func Warn(sl *SubLogger, data string) {
	stage(sl, levelWarn, func() string { return data })
}

// Warnln takes a pointer subLogger struct & interface formats and sends to the output
func Warnln(sl *SubLogger, v ...any) {
	stage(sl, levelWarn, func() string { return fmt.Sprintln(v...) })
}

// Warnf takes a pointer subLogger struct, string and interface formats sends to the output
func Warnf(sl *SubLogger, data string, v ...any) {
	stage(sl, levelWarn, func() string { return fmt.Sprintf(data, v...) })
}

// Error takes a pointer subLogger struct & interface formats and sends to the output
func Error(sl *SubLogger, data string) {
	stage(sl, levelError, func() string { return data })
}

// Errorln takes a pointer subLogger struct, string & interface formats and sends to the output
func Errorln(sl *SubLogger, v ...any) {
	stage(sl, levelError, func() string { return fmt.Sprintln(v...) })
}

// Errorf takes a pointer subLogger struct, string and interface formats sends to the output
func Errorf(sl *SubLogger, data string, v ...any) {
	stage(sl, levelError, func() string { return fmt.Sprintf(data, v...) })
}

type level uint8

const (
	levelInfo level = iota
	levelDebug
	levelWarn
	levelError
)

func (l *Logger) header(lvl level) string {
	switch lvl {
	case levelInfo:
		return l.InfoHeader
	case levelDebug:
		return l.DebugHeader
	case levelWarn:
		return l.WarnHeader
	default:
		return l.ErrorHeader
	}
}

func (l Levels) enabled(lvl level) bool {
	switch lvl {
	case levelInfo:
		return l.Info
	case levelDebug:
		return l.Debug
	case levelWarn:
		return l.Warn
	default:
		return l.Error
	}
}

// stage builds and writes a log event; data is only rendered when the level
// is enabled for the sub logger
func stage(sl *SubLogger, lvl level, data func() string) {
	if sl == nil {
		return
	}
	mu.RLock()
	defer mu.RUnlock()
	if !logger.enabled || !sl.levels.enabled(lvl) {
		return
	}
	e := Entry{
		Time:      time.Now(),
		Header:    logger.header(lvl),
		SubLogger: sl.name,
		Message:   data(),
	}
	if customLogHook != nil && customLogHook(&e) {
		return
	}
	if sl.output == nil {
		return
	}

	b := make([]byte, 0, len(e.Message)+64)
	b = append(b, e.Header...)
	b = append(b, logger.Spacer...)
	if logger.TimestampFormat != "" {
		b = e.Time.AppendFormat(b, logger.TimestampFormat)
		b = append(b, logger.Spacer...)
	}
	if logger.ShowLogSystemName {
		b = append(b, e.SubLogger...)
		b = append(b, logger.Spacer...)
	}
	b = append(b, e.Message...)
	if e.Message == "" || e.Message[len(e.Message)-1] != '\n' {
		b = append(b, '\n')
	}
	if _, err := sl.output.Write(b); err != nil {
		displayError(err)
	}
}

func displayError(err error) {
	if err != nil {
		log.Printf("Logger write error: %v\n", err)
	}
}
