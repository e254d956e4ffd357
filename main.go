package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ztelliot/stest-cli/defs"
	"github.com/ztelliot/stest-cli/speedtest"
)

// init sets up the essential bits on start up
func init() {
	// set logrus formatter and default log level
	formatter := &defs.NoFormatter{}

	// debug level is for --debug messages
	// info level is for progress output
	// warn level is for --json mode
	// error level is for errors

	log.SetOutput(os.Stderr)
	log.SetFormatter(formatter)
	log.SetLevel(log.InfoLevel)
}

func main() {
	// define cli options
	app := &cli.App{
		Name:     "stest",
		Usage:    "Test your Internet speed against the nearest speedtest.net server",
		Action:   speedtest.SpeedTest,
		HideHelp: true,
		Flags: []cli.Flag{
			cli.HelpFlag,
			&cli.BoolFlag{
				Name:    defs.OptionVersion,
				Aliases: []string{defs.OptionVersionAlt},
				Usage:   "Show the version number and exit",
			},
			&cli.IntFlag{
				Name:    defs.OptionNumberTests,
				Aliases: []string{defs.OptionNumberTestsAlt},
				Usage:   "Number of download/upload trials to run",
				Value:   1,
			},
			&cli.StringFlag{
				Name:    defs.OptionCSV,
				Aliases: []string{defs.OptionCSVAlt},
				Usage:   "Write the results to CSV `FILE` (.csv is appended if missing)",
			},
			&cli.StringFlag{
				Name:  defs.OptionCSVDelimiter,
				Usage: "Single character delimiter to use in CSV output\n\t",
				Value: ",",
			},
			&cli.BoolFlag{
				Name: defs.OptionJSON,
				Usage: "Suppress verbose output and print the results as JSON\n" +
					"\ton stdout",
			},
			&cli.BoolFlag{
				Name:    defs.OptionUseCached,
				Aliases: []string{defs.OptionUseCachedAlt},
				Usage:   "Use the cached copy of the server list",
			},
			&cli.StringFlag{
				Name:  defs.OptionCache,
				Usage: "Server list cache `PATH` (default ~/.stest/servers.db)",
			},
			&cli.StringFlag{
				Name:    defs.OptionCountry,
				Aliases: []string{defs.OptionCountryAlt},
				Usage: "Only scan servers from the given `COUNTRY` name. Takes\n" +
					"\tprecedence over --server-country-code",
			},
			&cli.StringFlag{
				Name:    defs.OptionCountryCode,
				Aliases: []string{defs.OptionCountryCodeAlt},
				Usage:   "Only scan servers from the given country `CODE`",
			},
			&cli.IntFlag{
				Name:  defs.OptionMaxCandidates,
				Usage: "Number of nearest servers to probe for latency",
			},
			&cli.BoolFlag{
				Name:    defs.OptionList,
				Aliases: []string{defs.OptionListAlt},
				Usage:   "Display the selected servers and exit",
			},
			&cli.BoolFlag{
				Name: defs.OptionICMP,
				Usage: "Use ICMP echoes instead of HTTP requests for latency.\n" +
					"\tMay need privileges",
			},
			&cli.StringFlag{
				Name:  defs.OptionSource,
				Usage: "`SOURCE` IP address to bind to",
			},
			&cli.StringFlag{
				Name:    defs.OptionInterface,
				Aliases: []string{defs.OptionInterfaceAlt},
				Usage:   "Network `INTERFACE` to bind to, only available for linux",
			},
			&cli.IntFlag{
				Name:  defs.OptionTimeout,
				Usage: "HTTP `TIMEOUT` in seconds",
				Value: 30,
			},
			&cli.StringFlag{
				Name:  defs.OptionTuning,
				Usage: "YAML `FILE` overriding engine constants",
			},
			&cli.BoolFlag{
				Name:    defs.OptionDebug,
				Aliases: []string{"verbose"},
				Usage:   "Debug mode (verbose logging)",
				Hidden:  true,
			},
		},
	}

	// run main function with cli options
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal("Terminated due to error")
	}
}
