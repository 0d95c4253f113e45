// Package cli defines the Cobra command tree for the stephelper CLI. Each file
// registers one top-level command with the root command. Commands delegate to
// internal packages for the work and only handle flags, config resolution and
// output formatting.
package cli
