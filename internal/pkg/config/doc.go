// Package config provides functionality for loading and managing application configuration.
//
// Settings are read from a YAML file and overridden by environment variables,
// then validated section by section before the application wires its
// dependencies. Both the REST API and the operator CLI share this package.
package config
