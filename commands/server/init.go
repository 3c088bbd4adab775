package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/iov-one/timelock/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// GenOptions can parse command-line and flag to
// generate default app_options for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// GenesisPath returns the location of the genesis file used by a node
// running in given home directory.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd will store the application options in the genesis file of the
// node. Usually the genesis file is created by `tendermint init` first.
// If it is missing, a minimal one with a random chain ID is written.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	genFile := GenesisPath(home)
	if !fileExists(genFile) {
		if err := writeMinimalGenesis(genFile); err != nil {
			return err
		}
		logger.Info("Generated genesis file", "path", genFile)
	} else {
		logger.Info("Found genesis file", "path", genFile)
	}

	// no app_options, leave like tendermint
	if gen == nil {
		return nil
	}

	options, err := gen(args)
	if err != nil {
		return err
	}
	if err := addGenesisOptions(genFile, options); err != nil {
		return err
	}
	logger.Info("App state initialized", "path", genFile)
	return nil
}

func writeMinimalGenesis(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	doc := map[string]interface{}{
		"genesis_time": time.Now().UTC().Format(time.RFC3339Nano),
		"chain_id":     fmt.Sprintf("timelock-%s", cmn.RandStr(6)),
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(filename, out, 0600); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// addGenesisOptions sets the app_state of the genesis file. Existing
// app_state is overwritten.
func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrap(errors.ErrInput, "cannot parse genesis file")
	}

	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, out, 0600)
}
