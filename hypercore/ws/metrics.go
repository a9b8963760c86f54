package ws

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "hypersdk"
	metricsSubsystem = "websocket"
)

// Metrics holds the prometheus collectors of a Connection. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	connectionsTotal  prometheus.Counter
	connectionUp      prometheus.Gauge
	reconnectAttempts prometheus.Counter
	disconnects       *prometheus.CounterVec
	messagesReceived  *prometheus.CounterVec
	decodeErrors      prometheus.Counter
	directivesSent    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. Collectors
// that are already registered are reused so several connections can share
// one registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "connections_total",
			Help:      "Total number of established WebSocket sessions",
		}),
		connectionUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "connection_up",
			Help:      "Number of currently established WebSocket sessions",
		}),
		reconnectAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "reconnect_attempts_total",
			Help:      "Total number of failed connection attempts followed by a backoff delay",
		}),
		disconnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "disconnects_total",
			Help:      "Total number of lost sessions by cause",
		}, []string{"reason"}),
		messagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "messages_received_total",
			Help:      "Total number of decoded inbound messages by channel",
		}, []string{"channel"}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "decode_errors_total",
			Help:      "Total number of inbound frames that could not be decoded",
		}),
		directivesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "directives_sent_total",
			Help:      "Total number of outbound directives by method",
		}, []string{"method"}),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.connectionsTotal, err = register(reg, m.connectionsTotal); err != nil {
		return nil, err
	}
	if m.connectionUp, err = register(reg, m.connectionUp); err != nil {
		return nil, err
	}
	if m.reconnectAttempts, err = register(reg, m.reconnectAttempts); err != nil {
		return nil, err
	}
	if m.disconnects, err = register(reg, m.disconnects); err != nil {
		return nil, err
	}
	if m.messagesReceived, err = register(reg, m.messagesReceived); err != nil {
		return nil, err
	}
	if m.decodeErrors, err = register(reg, m.decodeErrors); err != nil {
		return nil, err
	}
	if m.directivesSent, err = register(reg, m.directivesSent); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) sessionUp() {
	if m == nil {
		return
	}
	m.connectionsTotal.Inc()
	m.connectionUp.Inc()
}

func (m *Metrics) sessionDown(reason string) {
	if m == nil {
		return
	}
	m.connectionUp.Dec()
	m.disconnects.WithLabelValues(reason).Inc()
}

func (m *Metrics) reconnectAttempt() {
	if m == nil {
		return
	}
	m.reconnectAttempts.Inc()
}

func (m *Metrics) messageReceived(channel string) {
	if m == nil {
		return
	}
	m.messagesReceived.WithLabelValues(channel).Inc()
}

func (m *Metrics) decodeError() {
	if m == nil {
		return
	}
	m.decodeErrors.Inc()
}

func (m *Metrics) directiveSent(method string) {
	if m == nil {
		return
	}
	m.directivesSent.WithLabelValues(method).Inc()
}
