package global

var (
	Version        = "0.0.1"
	BuildTime      = "none"
	Verbose        = false
	ConfigFilename = "sigcli.yaml"
	// DebugEnvVar raises the console level to debug when set to a non-empty value.
	DebugEnvVar = "SIGCLI_DEBUG"
	// LogLevelEnvVar sets the console level by name (debug, info, warn, error).
	LogLevelEnvVar = "SIGCLI_LOG_LEVEL"
)
