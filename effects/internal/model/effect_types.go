package effectmodel

import "errors"

type EffectEnum string

const (
	EffectLog         EffectEnum = "action_ive_go_effect_enum_log"
	EffectConcurrency EffectEnum = "action_ive_go_effect_enum_concurrency"
	EffectDispatch    EffectEnum = "action_ive_go_effect_enum_dispatch"
)

var ErrNoEffectHandler = errors.New("no effect handler registered for this effect")

// ErrHandlerClosed is returned when an effect is performed against a closed scope.
var ErrHandlerClosed = errors.New("effect handler is closed")

type EffectScopeConfig struct {
	BufferSize int // default: 1
	NumWorkers int // default: 1
}

func NewEffectScopeConfig(bufferSize int, numWorkers int) EffectScopeConfig {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return EffectScopeConfig{
		BufferSize: bufferSize,
		NumWorkers: numWorkers,
	}
}

// Partitionable payloads are routed to a worker by their partition key.
type Partitionable interface {
	PartitionKey() string
}
