// Package cli defines the Cobra command tree for the envhub CLI. Each file
// registers one top-level command (register, profile, env, install, doctor)
// with the root command. Commands are thin consumers of the registry: they
// parse flags, call one registry or installer operation, and format output;
// every call re-reads state, so there is nothing to refresh.
package cli
