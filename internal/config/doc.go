// Package config provides centralized configuration management for the
// assessment report service. It handles loading configuration from multiple
// sources, validation, and the view definitions that map workbook sheets to
// report tabs.
//
// # Configuration Sources
//
// Configuration is assembled in layers, later layers winning:
//
//  1. Default values (Default)
//  2. YAML configuration file (config.yaml, configs/config.yaml or $SCOREPANEL_CONFIG)
//  3. Environment variables (highest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SCOREPANEL_<SECTION>_<FIELD>:
//
//	SCOREPANEL_SERVER_PORT=8080
//	SCOREPANEL_DATA_SOURCE_PATH=/srv/data/Dados_RJ.xlsx
//	SCOREPANEL_DATA_EXCLUDED_REGIONALS=REGIONAL A,REGIONAL B
//	SCOREPANEL_LOGGING_LEVEL=debug
//	SCOREPANEL_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Views
//
// Each report tab is a domain.View: a sheet, its column groups and its
// display rules. DefaultViews describes the standard workbook; the views key
// of the data section in a config file replaces the whole list.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	view, ok := cfg.View(domain.ViewRedacao)
package config
