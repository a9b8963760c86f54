package log

import "io"

// Global vars related to the logger package
var (
	subLoggers = map[string]*SubLogger{}

	Global          *SubLogger
	WebsocketMgr    *SubLogger
	SubscriptionMgr *SubLogger
	ConfigMgr       *SubLogger
	MetricsMgr      *SubLogger
	CLI             *SubLogger
)

// SubLogger defines a named logging output with its own levels
type SubLogger struct {
	name   string
	levels Levels
	output io.Writer
}

// Name returns the upper case name of the sub logger
func (sl *SubLogger) Name() string {
	if sl == nil {
		return ""
	}
	return sl.name
}
