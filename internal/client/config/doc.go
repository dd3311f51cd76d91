// Package config loads runtime configuration for the farmdash CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file: --config <file> (JSON or YAML), otherwise
//     .farmdash.yaml in the working or home directory if present.
//  3. FARMDASH_* environment variables (dashes become underscores, e.g.
//     FARMDASH_API_BASE_URL, FARMDASH_FARMERS_PAGE_SIZE).
//  4. Command-line flags that were set explicitly.
//
// Example file:
//
//	api-base-url: https://node-backend-pz3j.onrender.com/api
//	keep-unused-data-for: 5m
//	farmers-page-size: 10
//	log-level: debug
package config
