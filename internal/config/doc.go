// Package config parses fibseq's command-line flags and FIBSEQ_*
// environment variables into an AppConfig.
package config
