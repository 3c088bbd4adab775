package gconf

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
)

// ReadStore is the part of weave.ReadOnlyKVStore needed to load a
// configuration.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of weave.KVStore needed to save a configuration.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// ValidMarshaler is a configuration that can be validated and serialized.
type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

// Unmarshaler is a configuration that can be deserialized.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is implemented by every type stored with this package.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

// Each package has exactly one configuration entity, stored under a key
// outside of all bucket name spaces.
func key(pkg string) []byte {
	return append([]byte("_c:"), pkg...)
}

// Save validates the configuration and writes it as the configuration of
// given package, replacing the previous one.
func Save(db Store, pkg string, src ValidMarshaler) error {
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s configuration", pkg)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %s configuration", pkg)
	}
	return db.Set(key(pkg), raw)
}

// Load reads the configuration of given package into dst. ErrNotFound is
// returned if none was saved.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	raw, err := db.Get(key(pkg))
	switch {
	case err != nil:
		return errors.Wrapf(err, "read %s configuration", pkg)
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s configuration", pkg)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal %s configuration", pkg)
	}
	return nil
}

// InitConfig loads the genesis options["conf"][pkg] into conf and saves it.
// ErrNotFound is returned if the genesis declares no configuration for the
// package.
func InitConfig(db Store, opts weave.Options, pkg string, conf Configuration) error {
	var all weave.Options
	if err := opts.ReadOptions("conf", &all); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if _, ok := all[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "no %s configuration in genesis", pkg)
	}
	if err := all.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "read %s configuration", pkg)
	}
	return Save(db, pkg, conf)
}
