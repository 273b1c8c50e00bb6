package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	converter "github.com/medal-daq/converter_go/pkg"
	"gopkg.in/yaml.v3"
)

// LoadConfiguration returns the defaults overridden by the JSON or YAML
// file at filename. An empty filename returns the defaults.
func LoadConfiguration(filename string) (converter.Configuration, error) {
	config := converter.DefaultConfiguration()
	if filename == "" {
		return config, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, fmt.Errorf("error parsing %s: %w", filename, err)
	}
	if config.NumWorkers < 1 {
		config.NumWorkers = 1
	}
	return config, nil
}

func printConfiguration(config converter.Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("Output dir: %s", config.OutputDir), "config")
	logger.Info(fmt.Sprintf("Log file: %s", config.LogFile), "config")
	logger.Info(fmt.Sprintf("Keep file: %t", config.KeepFile), "config")
	logger.Info(fmt.Sprintf("Gnuplot: %t", config.Gnuplot), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Shuffle: %t", config.Shuffle), "config")
	logger.Info(fmt.Sprintf("Checksum: %t", config.Checksum), "config")
	logger.Info(fmt.Sprintf("Chunk size: %d", config.ChunkSize), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Preview dir: %s", config.PreviewDir), "config")
	logger.Info(fmt.Sprintf("Metrics file: %s", config.MetricsFile), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	if !config.NoDB {
		logger.Info(fmt.Sprintf("DB driver: %s", config.DBDriver), "config")
		logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
		logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	}
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
}
