package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "lightstream"
	subsystem = "stream"
)

var (
	frames = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem, Name: "frames_total",
		Help: "Inbound frames by kind (notification, control, invalid)",
	}, []string{"kind"})

	notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem, Name: "notifications_total",
		Help: "Channel notifications by resolved category",
	}, []string{"category"})

	unknownChannels = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem, Name: "unknown_channels_total",
		Help: "Notifications on channels that did not parse",
	})

	decodeErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem, Name: "decode_errors_total",
		Help: "Payloads that did not match the expected shape",
	}, []string{"category"})

	handlerFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem, Name: "handler_failures_total",
		Help: "Handler invocations that returned an error or panicked",
	}, []string{"slot"})

	subscribeFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem, Name: "subscribe_failures_total",
		Help: "Subscribe frames that could not be sent",
	})

	connects = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem, Name: "connects_total",
		Help: "Connection attempts by status",
	}, []string{"status"})

	closes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: subsystem, Name: "closes_total",
		Help: "Session ends by reason (stop, peer, pong_timeout, error)",
	}, []string{"reason"})
)

// Register adds all collectors to r. Collectors already registered on r
// are skipped; any other registration failure is returned.
func Register(r prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		frames, notifications, unknownChannels, decodeErrors,
		handlerFailures, subscribeFailures, connects, closes,
	}
	var errs []error
	for _, c := range collectors {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Increment helpers for the stream counters.
func IncFrame(kind string)            { frames.WithLabelValues(kind).Inc() }
func IncNotification(category string) { notifications.WithLabelValues(category).Inc() }
func IncUnknownChannel()              { unknownChannels.Inc() }
func IncDecodeError(category string)  { decodeErrors.WithLabelValues(category).Inc() }
func IncHandlerFailure(slot string)   { handlerFailures.WithLabelValues(slot).Inc() }
func IncSubscribeFailure()            { subscribeFailures.Inc() }
func IncConnect(status string)        { connects.WithLabelValues(status).Inc() }
func IncClose(reason string)          { closes.WithLabelValues(reason).Inc() }
