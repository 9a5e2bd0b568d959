// Package app wires application dependencies for the CLI.
//
// It loads Config through viper (flags, BEE_* environment variables and
// <home>/config.yaml), sets up jwalterweatherman logging, and builds the
// concrete stores and high-level services, exposing them via the Wire
// struct for commands to use.
package app
