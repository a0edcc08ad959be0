package config

const (
	delimiter = "_"

	KeyPrefix = "ACTION"

	KeyEnv        = KeyPrefix + delimiter + "ENV"
	KeyTypePrefix = KeyPrefix + delimiter + "PREFIX"

	KeyDispatchPrefix     = KeyPrefix + delimiter + "DISPATCH"
	KeyDispatchBufferSize = KeyDispatchPrefix + delimiter + "BUFFER_SIZE"
	KeyDispatchNumWorkers = KeyDispatchPrefix + delimiter + "NUM_WORKERS"

	KeyLogPrefix = KeyPrefix + delimiter + "LOG"
	KeyLogLevel  = KeyLogPrefix + delimiter + "LEVEL"
)
