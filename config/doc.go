// Package config loads runtime settings from SIDES_* environment variables.
package config
