// Package config loads and validates reel's TOML configuration.
//
// Configuration resolution order: an explicit --config path, then
// ~/.config/reel/config.toml, then ./reel.toml. Missing files are not an
// error; defaults apply and the resolved path is reported so `reel config
// init` can create it.
package config
