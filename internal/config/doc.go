// Package config provides user configuration management for the air-Q tools.
//
// This package manages a YAML-based configuration file that stores
// user-defined metadata for air-Q devices, including nicknames, last
// known addresses, and application preferences. The configuration
// follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/airq/config.yaml or $HOME/.config/airq/config.yaml
//   - macOS: $HOME/.config/airq/config.yaml
//   - Windows: %LOCALAPPDATA%\airq\config.yaml
//
// # Security
//
// IMPORTANT: This package NEVER stores device passwords. They are always
// prompted from the user or taken from the environment when needed.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.SetDeviceNickname("a123f", "Bedroom")
//	registry.UpdateDeviceLastSeen("a123f", "192.168.1.50")
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across
// goroutines. File operations are protected by a mutex to ensure atomic
// writes.
package config
