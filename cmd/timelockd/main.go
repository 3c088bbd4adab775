package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	weave "github.com/iov-one/timelock"
	timelockd "github.com/iov-one/timelock/cmd/timelockd/app"
	"github.com/iov-one/timelock/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome     = "home"
	flagLogLevel = "log_level"
	varHome      *string
	varLogLevel  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".timelock")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")
	varLogLevel = flag.String(flagLogLevel, "info", "lowest log level printed: debug, info, error or none")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("timelockd")
	fmt.Println("          Claimable balance escrow node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("validate  Load the app state of given genesis files")
	fmt.Println("keys      Generate a new key and print all its representations")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.timelock")
  -log_level string
        lowest log level printed: debug, info, error or none (default "info")`)
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "timelock")
	lvl, err := log.AllowLevel(*varLogLevel)
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		helpMessage()
		os.Exit(1)
	}
	logger = log.NewFilter(logger, lvl)

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(timelockd.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(timelockd.GenerateApp, logger, *varHome, rest)
	case "validate":
		paths := rest
		if len(paths) == 0 {
			paths = []string{server.GenesisPath(*varHome)}
		}
		err = server.ValidateGenesis(timelockd.Initializers(), paths)
	case "keys":
		var keys string
		if _, keys, err = timelockd.GenerateCoinKey(); err == nil {
			fmt.Println(keys)
		}
	case "version":
		fmt.Println(weave.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}
