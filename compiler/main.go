package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xiaobogaga/ic/compiler/internal"
)

var (
	configPath  string
	libraryPath string
	dumpSymtab  bool
	stopOnError bool
	format      string
	color       string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "icc [file.ic]",
	Short: "icc checks IC programs",
	Long: `icc parses an IC program and runs the semantic checks on it:

  symbol tables, scope rules, type rules, the main entry point
  and break/continue/this placement.
`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Verbose {
			internal.SetLogOutput(os.Stderr)
		}
		report, err := internal.Compile(args[0], cfg, os.Stdout)
		if err != nil {
			return err
		}
		if report.HasErrors() {
			os.Exit(1)
		}
		return nil
	},
}

// loadConfig reads the config file when one is given, then applies the flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (*internal.Config, error) {
	cfg := internal.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = internal.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("library") {
		cfg.Library = libraryPath
	}
	if flags.Changed("dump-symtab") {
		cfg.DumpSymtab = dumpSymtab
	}
	if flags.Changed("stop-on-error") {
		cfg.StopAtFirstFailingPass = stopOnError
	}
	if flags.Changed("format") {
		cfg.Format = format
	}
	if flags.Changed("color") {
		cfg.Color = color
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	return cfg, cfg.Validate()
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path of an icc.yaml config file")
	flags.StringVarP(&libraryPath, "library", "L", "", "path of the library signature file")
	flags.BoolVar(&dumpSymtab, "dump-symtab", false, "print the symbol tables and the type table")
	flags.BoolVar(&stopOnError, "stop-on-error", false, "skip the remaining passes once a pass fails")
	flags.StringVar(&format, "format", internal.FormatText, "report format: text or yaml")
	flags.StringVar(&color, "color", internal.ColorAuto, "colour the text report: auto, always or never")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log each compiler pass to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("Error: %+v\n", err)
		os.Exit(1)
	}
}
