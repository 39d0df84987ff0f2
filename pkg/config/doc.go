// Package config loads service configuration from qlued.yml and the
// environment, tracking the source of each value.
package config
