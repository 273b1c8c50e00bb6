package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	converter "github.com/medal-daq/converter_go/pkg"
	"github.com/medal-daq/converter_go/pkg/hdf5writer"
)

const usage = "usage: converter [flags] <input.bin>... <frequency> <device>"

// newContainerFactory is replaced in tests to avoid writing HDF5 files.
var newContainerFactory = func(config converter.Configuration) converter.ContainerFactory {
	return hdf5writer.Factory(hdf5writer.OptionsFromConfiguration(config))
}

type arguments struct {
	configFilename string
	keepFile       bool
	gnuplot        bool
	previewDir     string
	metricsFile    string

	device    converter.Device
	frequency uint64
	inputs    []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// parseArguments accepts flags anywhere on the command line, e.g.
// "converter unit.bin 50000 microcontroller --keep-file".
func parseArguments(args []string, stderr io.Writer) (arguments, error) {
	var a arguments
	flags := flag.NewFlagSet("converter", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(flags.Output(), usage)
		flags.PrintDefaults()
	}
	flags.StringVar(&a.configFilename, "config", "", "Configuration file path (JSON or YAML)")
	flags.BoolVar(&a.keepFile, "keep-file", false, "Keep the input file after a successful conversion")
	flags.BoolVar(&a.gnuplot, "gnuplot", false, "Print the converted samples as a gnuplot table")
	flags.StringVar(&a.previewDir, "preview-dir", "", "Directory for PNG previews of the converted captures")
	flags.StringVar(&a.metricsFile, "metrics-file", "", "Prometheus textfile written after the batch")

	var positional []string
	for {
		if err := flags.Parse(args); err != nil {
			return a, err
		}
		args = flags.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	if len(positional) < 3 {
		return a, errors.New("Invalid arguments. Expected filename, frequency, and device.")
	}
	n := len(positional)
	frequency, err := strconv.ParseUint(positional[n-2], 10, 64)
	if err != nil {
		return a, fmt.Errorf("invalid frequency %q: %w", positional[n-2], err)
	}
	device, err := converter.ParseDevice(positional[n-1])
	if err != nil {
		return a, err
	}
	a.device = device
	a.frequency = frequency
	a.inputs = positional[:n-2]
	return a, nil
}

// apply overrides the configuration with the flags given on the command
// line.
func (a arguments) apply(config *converter.Configuration) {
	if a.keepFile {
		config.KeepFile = true
	}
	if a.gnuplot {
		config.Gnuplot = true
	}
	if a.previewDir != "" {
		config.PreviewDir = a.previewDir
	}
	if a.metricsFile != "" {
		config.MetricsFile = a.metricsFile
	}
	// table lines of concurrent conversions would interleave
	if config.Gnuplot {
		config.NumWorkers = 1
	}
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	a, err := parseArguments(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
			fmt.Fprintln(stderr, usage)
		}
		return 2
	}

	configuration, err := LoadConfiguration(a.configFilename)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading configuration file: %v\n", err)
		return 1
	}
	a.apply(&configuration)

	out := stderr
	logFile, err := openLogFile(configuration.LogFile)
	if err != nil {
		fmt.Fprintln(stderr, err)
	} else {
		defer logFile.Close()
		out = io.MultiWriter(stderr, logFile)
	}
	logger := NewLogger(out)

	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Reading configuration file: %s", a.configFilename), "main")
		printConfiguration(configuration, logger)
	}

	conv := converter.NewConverter(configuration, a.device, a.frequency, newContainerFactory(configuration), logger)
	conv.Stdout = stdout
	if configuration.MetricsFile != "" {
		conv.Metrics = converter.NewMetrics()
	}
	if !configuration.NoDB {
		catalog, err := openCatalog(configuration)
		if err != nil {
			message := fmt.Errorf("Error connection to catalog, captures will not be recorded: %w", err)
			logger.Error(message.Error())
		} else {
			defer catalog.Close()
			conv.Catalog = catalog
		}
	}

	failures := 0
	for _, r := range convertAll(a.inputs, configuration.NumWorkers, conv.Convert) {
		if r.Err != nil {
			failures++
			logger.Error(fmt.Sprintf("Converting failed: %v", r.Err))
		}
	}
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Converted %d of %d files", len(a.inputs)-failures, len(a.inputs)), "main")
	}

	if err := conv.Metrics.WriteTextfile(configuration.MetricsFile); err != nil {
		message := fmt.Errorf("Error writing metrics: %w", err)
		logger.Error(message.Error())
	}

	if failures > 0 {
		return 1
	}
	return 0
}

func openCatalog(config converter.Configuration) (*converter.Catalog, error) {
	catalog, err := converter.ConnectToCatalog(config)
	if err != nil {
		return nil, err
	}
	if err := catalog.EnsureSchema(); err != nil {
		catalog.Close()
		return nil, err
	}
	return catalog, nil
}
