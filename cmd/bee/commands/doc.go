// Package commands defines the bee CLI and wires dependencies for subcommands.
//
// Commands
//
//   - kg gen|pub|fp                          Generate and show key pairs
//   - cert root|issue|show|import|export     Manage certificates
//   - enc, dec, val, inspect                 Work with encrypted containers
//   - acc init|add|der|prove|verify|validate Maintain accumulators
//   - bake demo|listen|dial                  Run BMQV, BSTS or BPACE
//
// # Implementation
//
// The root command loads the configuration through viper, sets up logging and
// builds the dependency graph (stores, services) before any subcommand runs.
// Flags are bound to viper keys so that BEE_* environment variables and
// <home>/config.yaml supply the same settings.
package commands
