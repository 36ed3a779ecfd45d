// Package config loads cdoc settings with viper.
//
// Values are layered, lowest first: defaults, the config file (.cdoc.yaml in
// the working directory, or the file given with --config), environment
// variables prefixed with CDOC_ (CDOC_EMIT, CDOC_INCLUDE_DIRS, ...) and
// command line flags bound by the caller.
package config
