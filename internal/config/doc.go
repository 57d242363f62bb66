// Package config loads, normalizes, and validates chrononame configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CHRONONAME_EXIFTOOL
// environment override. Naming rules are deliberately absent: the target name
// format is fixed and cannot be configured.
package config
