// Package utils carries the configuration, logging, and console plumbing shared
// by the gomono commands.
//
// ConfigurationLoader layers Viper configuration files, defaults, and GOMONO_*
// environment variables; LoggerFactory produces the zap loggers commands log
// through; ProgressWriter keeps merge progress visible on buffered destinations.
package utils
