package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable config, invalid paths)
	ExitDataError   = 3 // Data error (no input files, malformed store)
)
