// Package config provides the configuration system for gterm.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority (applied by cmd/gterm)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← GTERM_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← TOML or YAML, chosen by extension
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// A config file that does not exist is not an error; defaults are used.
//
// Example gterm.toml:
//
//	[screen]
//	width = 100
//	height = 75
//	square = true
//	background = "black"
//
//	[output]
//	backend = "ansi"
//	charset = "utf-8"
//
//	[logging]
//	level = "info"
package config
