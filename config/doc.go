// Package config loads the scanpage server configuration using Viper, with
// environment overrides under the SCANPAGE_ prefix.
//
// Example YAML:
//
//	app_name: scanpage
//	run_mode: release
//	server:
//	  host: 127.0.0.1
//	  port: 8080
//	logger:
//	  level: 4
//	  format: text
//	  output: stderr
//	paging:
//	  default_limit: 5
//	  max_limit: 100
//	store:
//	  driver: sqlite
//	  source: file:scanpage.db?cache=shared
//	seed:
//	  count: 999
//	  start: 2020-07-13T17:35:00Z
//	  tie_every: 10
//
// Load it with:
//
//	cfg, err := config.LoadConfig("./config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
