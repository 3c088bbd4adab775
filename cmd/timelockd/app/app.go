/*
Package timelockd links together all the various components
to construct the timelock escrow application.
*/
package timelockd

import (
	"context"
	"path/filepath"
	"strings"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/app"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store/iavl"
	"github.com/iov-one/timelock/x"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/sigs"
	"github.com/iov-one/timelock/x/token"
	"github.com/iov-one/timelock/x/utils"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		utils.NewActionTagger(),
		// on DeliverTx, bad tx will increment nonce even if the message
		// fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a default router dispatching token and escrow messages.
func Router(authFn x.Authenticator, ledger *token.Ledger, ctrl *escrow.Controller) *app.Router {
	r := app.NewRouter()
	token.RegisterRoutes(r, authFn, ledger)
	escrow.RegisterRoutes(r, authFn, ctrl)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/auth", "/tokens", "/balances", "/allowances" and
// "/escrows"
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		token.RegisterQuery,
		escrow.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() weave.Handler {
	authFn := Authenticator()
	ledger := token.NewLedger()
	ctrl := escrow.NewController(escrow.BlockClock{}, ledger)
	return Chain().WithHandler(Router(authFn, ledger, ctrl))
}

// Initializers returns the genesis loaders. Token balances are loaded
// before escrows, as funded escrow accounts must hold their tokens.
func Initializers() weave.Initializer {
	ledger := token.NewLedger()
	return weave.ChainInitializers(
		&token.Initializer{Ledger: ledger},
		&escrow.Initializer{Controller: escrow.NewController(escrow.BlockClock{}, ledger)},
	)
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h weave.Handler,
	tx weave.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, errors.Wrap(err, "cannot create database instance")
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	base := app.NewBaseApp(store, tx, h, debug)
	return base, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", path)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
