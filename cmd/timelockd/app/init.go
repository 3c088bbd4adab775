package timelockd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/crypto/bech32"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/token"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// bech32Prefix is the human readable part of bech32 encoded addresses.
const bech32Prefix = "tlk"

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode.
//
// Optional arguments are the token symbol (XLM by default) and the
// address of the account owning all tokens. If no address is given, a new
// key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	symbol := "XLM"
	if len(args) > 0 {
		symbol = args[0]
		if !token.IsSymbol(symbol) {
			return nil, errors.Wrapf(errors.ErrInput, "invalid symbol %q", symbol)
		}
	}

	var addr weave.Address
	if len(args) > 1 {
		var err error
		if addr, err = weave.ParseAddress(args[1]); err != nil {
			return nil, errors.Wrap(err, "address")
		}
	} else {
		// if no address provided, auto-generate one
		// and print out the keys
		a, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	opts := map[string]interface{}{
		"conf": map[string]interface{}{
			"token": map[string]interface{}{
				"metadata": map[string]interface{}{"schema": 1},
				"owner":    addr,
			},
		},
		"tokens": []interface{}{
			map[string]interface{}{"admin": addr, "decimals": 7, "name": symbol, "symbol": symbol},
		},
		"balances": []interface{}{
			map[string]interface{}{"symbol": symbol, "holder": addr, "amount": coin.NewAmount(1000000000000000000)},
		},
		"escrows": []interface{}{},
	}
	return json.MarshalIndent(opts, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "timelock.db")
	}

	application, err := Application("timelockd", Stack(), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}

// Keys is a printable representation of a freshly generated key.
type Keys struct {
	Address weave.Address `json:"address"`
	Bech32  string        `json:"bech32"`
	Stellar string        `json:"stellar"`
	Pubkey  string        `json:"pub_key"`
	Secret  string        `json:"secret"`
}

// NewKeys returns all representations of given private key.
func NewKeys(priv *crypto.PrivateKey) (*Keys, error) {
	pub := priv.PublicKey()
	addr := pub.Address()

	b32, err := bech32.Encode(bech32Prefix, addr)
	if err != nil {
		return nil, errors.Wrap(err, "bech32")
	}
	stellar, err := pub.StellarAccountID()
	if err != nil {
		return nil, err
	}
	return &Keys{
		Address: addr,
		Bech32:  string(b32),
		Stellar: stellar,
		Pubkey:  hex.EncodeToString(pub.Ed25519),
		Secret:  hex.EncodeToString(priv.Ed25519),
	}, nil
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
// You can give tokens to this address and
// import the keys in a client to use them
func GenerateCoinKey() (weave.Address, string, error) {
	keys, err := NewKeys(crypto.GenPrivKeyEd25519())
	if err != nil {
		return nil, "", err
	}
	raw, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return keys.Address, string(raw), nil
}
