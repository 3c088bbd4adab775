package token

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/gconf"
)

const confPkg = "token"

// Configuration of the token extension.
type Configuration struct {
	Metadata *weave.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata"`
	// Owner is allowed to create new tokens and to update this
	// configuration.
	Owner weave.Address `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() weave.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return errors.Field("Owner", c.Owner.Validate(), "invalid owner")
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
