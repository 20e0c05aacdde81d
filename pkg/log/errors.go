package log

import "errors"

// Sink errors.
var (
	// ErrSinkClosed is returned when writing to a closed sink.
	ErrSinkClosed = errors.New("log: sink closed")

	// ErrQueueFull is returned when an asynchronous sink cannot accept
	// another record without blocking.
	ErrQueueFull = errors.New("log: queue full")

	// ErrInvalidBroker is returned when the MQTT sink has no broker URL.
	ErrInvalidBroker = errors.New("log: invalid broker")

	// ErrInvalidTopic is returned for an empty MQTT sink topic.
	ErrInvalidTopic = errors.New("log: invalid topic")

	// ErrInvalidQoS is returned for an MQTT sink QoS above 2.
	ErrInvalidQoS = errors.New("log: invalid QoS")

	// ErrConnectionFailed is returned when the MQTT sink cannot reach its broker.
	ErrConnectionFailed = errors.New("log: connection failed")

	// ErrPublishFailed is returned when a record could not be published.
	ErrPublishFailed = errors.New("log: publish failed")
)
