package server

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/timelock/errors"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind      = "bind"
	flagTransport = "transport"
	flagDebug     = "debug"
)

type startArgs struct {
	addr      string
	transport string
	debug     bool
}

func parseFlags(args []string) (startArgs, error) {
	var res startArgs
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&res.addr, flagBind, "tcp://localhost:26658", "address server listens on")
	startFlags.StringVar(&res.transport, flagTransport, "socket", "abci transport, socket or grpc")
	startFlags.BoolVar(&res.debug, flagDebug, false, "call stack returned on error")
	if err := startFlags.Parse(args); err != nil {
		return res, errors.Wrap(errors.ErrInput, err.Error())
	}
	return res, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(string, log.Logger, bool) (abci.Application, error)

// StartCmd initializes the application and serves it over ABCI until the
// process receives an interrupt or termination signal.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)
	return serve(gen, logger, home, args, stop)
}

// serve runs the ABCI server until a value is received from done.
func serve(gen AppGenerator, logger log.Logger, home string, args []string, done <-chan os.Signal) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	// Generate the app in the proper dir
	app, err := gen(home, logger, opts.debug)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", opts.addr, "transport", opts.transport)

	svr, err := server.NewServer(opts.addr, opts.transport, app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrState, "cannot start server: %s", err)
	}

	sig := <-done
	logger.Info("Stopping ABCI app", "signal", sig)
	return svr.Stop()
}
