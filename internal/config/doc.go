// Package config handles YAML configuration loading for the streamer with
// environment variable substitution.
//
// Configuration files support ${VAR} syntax, which keeps API secrets out of
// the file itself. See configs/streamer.yaml for an example.
package config
