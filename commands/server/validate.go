package server

import (
	"encoding/json"
	"io/ioutil"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
)

// ValidateGenesis runs the initializer over the app_state of every genesis
// file, using a throw away in memory store. The first failure is returned.
func ValidateGenesis(ini weave.Initializer, paths []string) error {
	for _, p := range paths {
		state, err := readAppState(p)
		if err == nil {
			err = ini.FromGenesis(state, store.MemStore())
		}
		if err != nil {
			return errors.Wrapf(err, "genesis %s", p)
		}
	}
	return nil
}

func readAppState(path string) (weave.Options, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var genesis struct {
		AppState weave.Options `json:"app_state"`
	}
	if err := json.Unmarshal(raw, &genesis); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "genesis json: %s", err)
	}
	return genesis.AppState, nil
}
