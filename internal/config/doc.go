// Package config loads the trainer's settings. Values come from built-in
// defaults, an optional config.yaml, an optional .env file and TRAINER_*
// environment variables, in increasing order of precedence, and are
// validated before use.
package config
