package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KilimcininKorOglu/tcpvalidator/internal/batch"
	"github.com/KilimcininKorOglu/tcpvalidator/internal/config"
	"github.com/KilimcininKorOglu/tcpvalidator/internal/logging"
	"github.com/KilimcininKorOglu/tcpvalidator/internal/output"
)

var (
	// Flags
	addrFile    string
	dataFile    string
	packetDir   string
	pcapFile    string
	ipPacket    string
	verbose     bool
	tableOutput bool
	jsonOutput  bool
	csvOutput   bool
	jsonCompact bool
	htmlOutput  string
	strict      bool
	workers     int
	noColor     bool
	logLevel    string
	showUsage   bool

	// Set when the format comes from the config file rather than a flag
	configFormat string

	// Config file
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tcpvalidator [flags]",
	Short: "TCP segment checksum validator",
	Long: `tcpvalidator - checks whether captured TCP segments carry a correct checksum

Each segment is validated against its IPv4 source and destination
addresses using the Internet checksum over the TCP pseudo-header and
the segment. Every segment yields PASS or FAIL.

Examples:
  tcpvalidator                                  Validate every pair in ./packets
  tcpvalidator -a tcp_addrs_0.txt -d tcp_data_0.dat
  tcpvalidator -v --dir captures                Verbose lines for another directory
  tcpvalidator --pcap trace.pcapng --table      Validate a capture file
  tcpvalidator --ip-packet datagram.bin         Validate a whole IPv4 datagram
  tcpvalidator --json --strict                  JSON report, stop at first error
  tcpvalidator config --init                    Create default config file`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runRoot,
}

func init() {
	addRootFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// addRootFlags binds the root command flags to their package variables,
// resetting each variable to its default.
func addRootFlags(cmd *cobra.Command) {
	// Config file flag
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.config/tcpvalidator/config.yaml)")

	// Input flags
	cmd.Flags().StringVarP(&addrFile, "addr-file", "a", "", "Path to the TCP addresses file")
	cmd.Flags().StringVarP(&dataFile, "data-file", "d", "", "Path to the TCP data file")
	cmd.Flags().StringVar(&packetDir, "dir", batch.DefaultDir, "Directory of tcp_addrs_N.txt / tcp_data_N.dat pairs")
	cmd.Flags().StringVar(&pcapFile, "pcap", "", "Validate every TCP/IPv4 packet in a pcap or pcapng file")
	cmd.Flags().StringVar(&ipPacket, "ip-packet", "", "Validate a file holding a whole IPv4 datagram")

	// Run flags
	cmd.Flags().BoolVar(&strict, "strict", false, "Stop at the first segment that cannot be validated")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of concurrent validations")

	// Output flags
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Display file names next to each result")
	cmd.Flags().BoolVarP(&tableOutput, "table", "t", false, "Show detailed table output")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	cmd.Flags().BoolVar(&jsonCompact, "json-compact", false, "Write JSON on a single line")
	cmd.Flags().BoolVar(&csvOutput, "csv", false, "Output in CSV format")
	cmd.Flags().StringVar(&htmlOutput, "html", "", "Generate HTML report to file")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Diagnostics level on stderr (error, warn, info, debug)")
	cmd.Flags().BoolVarP(&showUsage, "usage", "u", false, "Show usage information and exit")
}

// loadConfig loads configuration from file and applies defaults.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error

	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	applyConfigDefaults(cmd)

	return nil
}

// applyConfigDefaults applies config file values for unset flags.
func applyConfigDefaults(cmd *cobra.Command) {
	if cfg == nil {
		return
	}

	defaults := cfg.Defaults
	flags := cmd.Flags()

	if flags.Lookup("dir") == nil {
		// Subcommands carry only the persistent flags
		return
	}

	if !flags.Changed("dir") && defaults.Dir != "" {
		packetDir = defaults.Dir
	}
	if !flags.Changed("verbose") && defaults.Verbose {
		verbose = true
	}
	if !flags.Changed("no-color") && defaults.NoColor {
		noColor = true
	}
	if !flags.Changed("strict") && defaults.Strict {
		strict = true
	}
	if !flags.Changed("workers") {
		if defaults.Workers > 0 {
			workers = defaults.Workers
		} else {
			workers = batch.DefaultConfig().Workers
		}
	}
	if !flags.Changed("table") && !flags.Changed("json") && !flags.Changed("json-compact") && !flags.Changed("csv") {
		configFormat = defaults.Format
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "tcpvalidator %s\n", version)
		fmt.Fprintf(out, "  Commit: %s\n", commit)
		fmt.Fprintf(out, "  Built:  %s\n", date)
		fmt.Fprintf(out, "  Config: %s\n", config.GetConfigPath())
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage tcpvalidator configuration file.

Commands:
  tcpvalidator config --init     Create default config file
  tcpvalidator config --show     Show current configuration
  tcpvalidator config --path     Show config file path`,
	RunE: runConfig,
}

var (
	configInit bool
	configShow bool
	configPath bool
)

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Create default config file")
	configCmd.Flags().BoolVar(&configShow, "show", false, "Show current configuration")
	configCmd.Flags().BoolVar(&configPath, "path", false, "Show config file path")
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if configPath {
		fmt.Fprintln(out, config.GetConfigPath())
		return nil
	}

	if configInit {
		path := config.GetConfigPath()

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}

		if err := config.SaveExample(path); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}

		fmt.Fprintf(out, "Created config file: %s\n", path)
		fmt.Fprintln(out, "\nEdit this file to customize defaults.")
		return nil
	}

	if configShow {
		if cfg == nil {
			cfg = config.DefaultConfig()
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	// No flag specified, show help
	return cmd.Help()
}

// runOptions holds everything a validation run needs.
type runOptions struct {
	AddrFile string
	DataFile string
	Dir      string
	Pcap     string
	IPPacket string

	Format      output.Format
	CompactJSON bool
	Verbose     bool
	Colors      bool
	HTML        string

	Strict  bool
	Workers int
}

func runRoot(cmd *cobra.Command, args []string) error {
	if showUsage {
		fmt.Fprint(cmd.OutOrStdout(), usageText)
		return nil
	}

	log, closer, err := logging.New(cmd.ErrOrStderr(), logOptions())
	if err != nil {
		return err
	}
	defer closer.Close()

	format, err := selectFormat()
	if err != nil {
		return err
	}

	opts := runOptions{
		AddrFile:    addrFile,
		DataFile:    dataFile,
		Dir:         packetDir,
		Pcap:        pcapFile,
		IPPacket:    ipPacket,
		Format:      format,
		CompactJSON: jsonCompact,
		Verbose:     verbose,
		Colors:      !noColor && output.IsTerminal(os.Stdout),
		HTML:        htmlOutput,
		Strict:      strict,
		Workers:     workers,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return runValidation(ctx, opts, cmd.OutOrStdout(), log)
}

// selectFormat resolves the report format from flags, then config.
func selectFormat() (output.Format, error) {
	switch {
	case jsonOutput, jsonCompact:
		return output.FormatJSON, nil
	case csvOutput:
		return output.FormatCSV, nil
	case tableOutput:
		return output.FormatVerbose, nil
	default:
		return output.ParseFormat(configFormat)
	}
}

// selectSource picks the segment source from the input options.
func selectSource(opts runOptions, log logrus.FieldLogger) (batch.Source, error) {
	pairGiven := opts.AddrFile != "" || opts.DataFile != ""

	switch {
	case opts.Pcap != "" && (pairGiven || opts.IPPacket != ""):
		return nil, errors.New("--pcap cannot be combined with other input files")
	case opts.IPPacket != "" && pairGiven:
		return nil, errors.New("--ip-packet cannot be combined with --addr-file or --data-file")
	case opts.Pcap != "":
		return &batch.Pcap{Path: opts.Pcap, Logger: log}, nil
	case opts.IPPacket != "":
		return &batch.IPPacketFile{Path: opts.IPPacket}, nil
	case opts.AddrFile != "" && opts.DataFile != "":
		return &batch.FilePair{AddrFile: opts.AddrFile, DataFile: opts.DataFile}, nil
	case pairGiven:
		return nil, errors.New("both --addr-file and --data-file must be provided together; see --usage")
	default:
		return &batch.Dir{Path: opts.Dir, Logger: log}, nil
	}
}

// runValidation validates the selected source and writes the results to out.
func runValidation(ctx context.Context, opts runOptions, out io.Writer, log logrus.FieldLogger) error {
	src, err := selectSource(opts, log)
	if err != nil {
		return err
	}

	outputConfig := output.Config{
		Colors:  opts.Colors,
		Verbose: opts.Verbose,
	}

	runConfig := batch.DefaultConfig()
	runConfig.Strict = opts.Strict
	runConfig.Logger = log
	if opts.Workers != 0 {
		runConfig.Workers = opts.Workers
	}

	// Text output streams verdicts as they complete, in input order
	streaming := opts.Format == output.FormatText
	if streaming {
		textFormatter := output.NewTextFormatter(outputConfig)
		runConfig.OnOutcome = func(o *batch.Outcome) {
			fmt.Fprint(out, textFormatter.FormatOutcome(o))
		}
	}

	runner, err := batch.New(runConfig)
	if err != nil {
		return err
	}

	items, err := src.Items(ctx)
	if err != nil {
		return err
	}

	report, err := runner.RunItems(ctx, src.Name(), items)
	if err != nil {
		if opts.Strict && ctx.Err() == nil && !errors.Is(err, batch.ErrNoItems) {
			return fmt.Errorf("validation aborted: %w", err)
		}
		return err
	}

	log.WithFields(logrus.Fields{
		"source": report.Source,
		"total":  report.Summary.Total,
		"passed": report.Summary.Passed,
		"failed": report.Summary.Failed,
		"errors": report.Summary.Errors,
	}).Info("validation complete")

	if !streaming {
		formatter := output.NewFormatter(opts.Format, outputConfig)
		if opts.Format == output.FormatJSON && opts.CompactJSON {
			formatter = output.NewJSONFormatterCompact(outputConfig)
		}
		writer := output.NewWriterWithFormatter(formatter, out)
		if err := writer.Write(report); err != nil {
			return err
		}
	}

	if opts.HTML != "" {
		htmlFormatter := output.NewHTMLFormatter(outputConfig)
		if err := output.WriteToFile(report, opts.HTML, htmlFormatter); err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
		log.WithField("file", opts.HTML).Info("HTML report saved")
	}

	return nil
}

// logOptions merges the config file log section with --log-level.
func logOptions() logging.Options {
	var opts logging.Options
	if cfg != nil {
		opts = logging.Options{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			File:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		}
	}
	if logLevel != "" {
		opts.Level = logLevel
	}
	return opts
}

const usageText = `
TCP Packet Validator

Usage:
  tcpvalidator --help                              # Show help message and exit.
  tcpvalidator                                     # Validate all files in the 'packets' directory.
  tcpvalidator -a <addr_file> -d <data_file>       # Specify address and data files.
  tcpvalidator --verbose                           # Display file names next to each result.
  tcpvalidator --pcap <capture>                    # Validate the TCP/IPv4 packets of a capture.

Options:
  -a, --addr-file <file>  Specify the path to the TCP addresses file.
  -d, --data-file <file>  Specify the path to the TCP data file.
      --dir <dir>         Directory scanned when no files are given (default "packets").
      --pcap <file>       Validate every TCP/IPv4 packet in a pcap or pcapng file.
      --ip-packet <file>  Validate a file holding a whole IPv4 datagram.
  -v, --verbose           Display file names next to each result.
  -t, --table             Detailed table output.
  -j, --json              JSON output.
      --json-compact      JSON output on a single line.
      --csv               CSV output.
      --html <file>       Also write an HTML report.
      --strict            Stop at the first segment that cannot be validated.
  -w, --workers <n>       Number of concurrent validations.
  -u, --usage             Show this usage information and exit.
`

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets version information for the CLI.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}
