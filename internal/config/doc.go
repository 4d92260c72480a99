// Package config provides configuration structures and utilities for the
// brochure generator: defaults, the YAML configuration file, dotenv and
// environment loading, credential checks, and validation.
package config
