// Package config manages user-level settings stored at ~/.stephelper/config.yaml.
// Values resolve in order: command flags, STEPHELPER_* environment variables,
// the config file, then built-in defaults such as the step author.
package config
