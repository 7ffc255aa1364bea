// Package config manages CLI preferences stored next to the state document
// (cli.yaml): the state-path override, the default install mode, and the
// launcher-path override. Preferences only affect command-line defaults;
// the launcher itself never reads them.
package config
