// Package logging provides leveled logging with environment-based configuration.
//
// The log level is controlled by the LOG_LEVEL environment variable
// (debug, info, warn, error) or the DEBUG variable (true/1/yes/on forces
// debug). The default level is info.
package logging
