package sigs

import (
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// maxSequence is the greatest sequence a client can safely represent
// (Number.MAX_SAFE_INTEGER).
const maxSequence = 1<<53 - 1

// UserData is the state kept for every public key that signed at least one
// transaction.
type UserData struct {
	Metadata *weave.Metadata   `protobuf:"bytes,1,opt,name=metadata"`
	Pubkey   *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey"`
	Sequence int64             `protobuf:"varint,3,opt,name=sequence,proto3"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", u.Metadata.Validate())
	if u.Sequence < 0 {
		errs = errors.AppendField(errs, "Sequence", errors.Wrap(ErrInvalidSequence, "negative"))
	} else if u.Sequence > 0 && u.Pubkey == nil {
		errs = errors.Append(errs, errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey"))
	}
	return errs
}

func (u *UserData) Copy() orm.Model {
	c := &UserData{
		Metadata: u.Metadata.Copy(),
		Sequence: u.Sequence,
	}
	if u.Pubkey != nil {
		c.Pubkey = &crypto.PublicKey{Ed25519: append([]byte(nil), u.Pubkey.Ed25519...)}
	}
	return c
}

// CheckAndIncrementSequence increments the sequence if it is equal to the
// expected value.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequence {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// NewBucket returns the bucket storing user data by the signer address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("sigs", &UserData{})
}

// loadUser returns the stored user data of given key or a fresh instance
// with the sequence set to zero.
func loadUser(db weave.ReadOnlyKVStore, b orm.ModelBucket, pubkey *crypto.PublicKey) (*UserData, error) {
	var u UserData
	switch err := b.One(db, pubkey.Address(), &u); {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{
			Metadata: &weave.Metadata{Schema: 1},
			Pubkey:   pubkey,
		}, nil
	default:
		return nil, err
	}
}

// NextNonce returns the sequence that must be used by the next signature of
// given signer.
func NextNonce(db weave.ReadOnlyKVStore, signer weave.Address) (int64, error) {
	var u UserData
	switch err := NewBucket().One(db, signer, &u); {
	case err == nil:
		return u.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "bucket get")
	}
}
