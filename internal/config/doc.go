// Package config turns the CLI flags of spec §6 into a single validated
// Config, resolved once before any analysis begins. Validate returns a
// typed KindInit WotanError on the first violation, never a panic, mirroring
// the fail-fast discipline of lvlath's builderConfig option constructors.
package config
