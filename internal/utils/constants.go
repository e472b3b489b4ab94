package utils

// ApplicationName is used in usage text and configuration paths.
const ApplicationName = "prj-overview"

// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
