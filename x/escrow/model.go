package escrow

import (
	"encoding/json"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

const (
	// MaxClaimants is the greatest number of claimants a deposit can name.
	MaxClaimants = 10

	maxInstanceIDLen = 32
)

// TimeBoundKind declares on which side of the timestamp a claim is allowed.
type TimeBoundKind uint32

const (
	// Before allows claims until the timestamp, inclusive.
	Before TimeBoundKind = iota
	// After allows claims from the timestamp on, inclusive.
	After
)

func (k TimeBoundKind) String() string {
	switch k {
	case Before:
		return "before"
	case After:
		return "after"
	default:
		return "unknown"
	}
}

func (k TimeBoundKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts "before" and "after".
func (k *TimeBoundKind) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, "time bound kind must be a string")
	}
	switch s {
	case "before":
		*k = Before
	case "after":
		*k = After
	default:
		return errors.Wrapf(errors.ErrInput, "unknown time bound kind %q", s)
	}
	return nil
}

// TimeBound restricts when a claim can happen.
type TimeBound struct {
	Kind      TimeBoundKind  `protobuf:"varint,1,opt,name=kind,proto3" json:"kind"`
	Timestamp weave.UnixTime `protobuf:"varint,2,opt,name=timestamp,proto3" json:"timestamp"`
}

func (tb TimeBound) Validate() error {
	var errs error
	if tb.Kind != Before && tb.Kind != After {
		errs = errors.AppendField(errs, "Kind", errors.Wrapf(errors.ErrInput, "unknown kind %d", tb.Kind))
	}
	errs = errors.AppendField(errs, "Timestamp", tb.Timestamp.Validate())
	return errs
}

// Contains returns true if a claim at given time satisfies the bound.
// Both boundaries are inclusive.
func (tb TimeBound) Contains(now weave.UnixTime) bool {
	switch tb.Kind {
	case Before:
		return now <= tb.Timestamp
	case After:
		return now >= tb.Timestamp
	default:
		return false
	}
}

// ClaimableBalance is the funded state of an escrow instance.
type ClaimableBalance struct {
	Metadata  *weave.Metadata `protobuf:"bytes,1,opt,name=metadata"`
	Token     weave.Address   `protobuf:"bytes,2,opt,name=token,proto3"`
	Amount    coin.Amount     `protobuf:"bytes,3,opt,name=amount,proto3,customtype=github.com/iov-one/timelock/coin.Amount"`
	Claimants []weave.Address `protobuf:"bytes,4,rep,name=claimants"`
	TimeBound TimeBound       `protobuf:"bytes,5,opt,name=time_bound"`
}

var _ orm.Model = (*ClaimableBalance)(nil)

func (cb *ClaimableBalance) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", cb.Metadata.Validate())
	errs = errors.AppendField(errs, "Token", cb.Token.Validate())
	if cb.Amount.IsNegative() {
		errs = errors.AppendField(errs, "Amount", errors.Wrapf(ErrNegativeAmount, "%s", cb.Amount))
	}
	errs = errors.AppendField(errs, "Claimants", validateClaimants(cb.Claimants))
	errs = errors.AppendField(errs, "TimeBound", cb.TimeBound.Validate())
	return errs
}

func (cb *ClaimableBalance) Copy() orm.Model {
	claimants := make([]weave.Address, len(cb.Claimants))
	for i, c := range cb.Claimants {
		claimants[i] = append(weave.Address(nil), c...)
	}
	return &ClaimableBalance{
		Metadata:  cb.Metadata.Copy(),
		Token:     append(weave.Address(nil), cb.Token...),
		Amount:    cb.Amount,
		Claimants: claimants,
		TimeBound: cb.TimeBound,
	}
}

// IsClaimant returns true if given address is listed as a claimant.
func (cb *ClaimableBalance) IsClaimant(addr weave.Address) bool {
	for _, c := range cb.Claimants {
		if c.Equals(addr) {
			return true
		}
	}
	return false
}

func validateClaimants(claimants []weave.Address) error {
	if len(claimants) > MaxClaimants {
		return errors.Wrapf(ErrTooManyClaimants, "%d, max %d", len(claimants), MaxClaimants)
	}
	seen := make(map[string]struct{}, len(claimants))
	for i, c := range claimants {
		if err := c.Validate(); err != nil {
			return errors.Wrapf(err, "claimant #%d", i)
		}
		if _, ok := seen[string(c)]; ok {
			return errors.Wrapf(ErrDuplicateClaimant, "%s", c)
		}
		seen[string(c)] = struct{}{}
	}
	return nil
}

// InitFlag marks an instance that holds a record. It exists only together
// with a ClaimableBalance.
type InitFlag struct {
	Metadata *weave.Metadata `protobuf:"bytes,1,opt,name=metadata"`
}

var _ orm.Model = (*InitFlag)(nil)

func (f *InitFlag) Validate() error {
	return f.Metadata.Validate()
}

func (f *InitFlag) Copy() orm.Model {
	return &InitFlag{Metadata: f.Metadata.Copy()}
}

// AccountIndex maps an escrow account back to its instance. Once written it
// is never removed, so that the account keeps refusing direct credits after
// the instance is claimed.
type AccountIndex struct {
	Metadata   *weave.Metadata `protobuf:"bytes,1,opt,name=metadata"`
	InstanceID []byte          `protobuf:"bytes,2,opt,name=instance_id,proto3"`
}

var _ orm.Model = (*AccountIndex)(nil)

func (a *AccountIndex) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "InstanceID", ValidateInstanceID(a.InstanceID))
	return errs
}

func (a *AccountIndex) Copy() orm.Model {
	return &AccountIndex{
		Metadata:   a.Metadata.Copy(),
		InstanceID: append([]byte(nil), a.InstanceID...),
	}
}

// Account returns the address of the escrow account of given instance. All
// escrowed funds of an instance are held by this address.
func Account(instanceID []byte) weave.Address {
	return weave.NewCondition("escrow", "instance", instanceID).Address()
}

// ValidateInstanceID returns an error if given value cannot identify an
// instance.
func ValidateInstanceID(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "instance id")
	}
	if len(id) > maxInstanceIDLen {
		return errors.Wrapf(errors.ErrInput, "instance id longer than %d", maxInstanceIDLen)
	}
	return nil
}

// NewRecordBucket returns the bucket storing the claimable balance of every
// funded instance.
func NewRecordBucket() orm.ModelBucket {
	return orm.NewModelBucket("escrow", &ClaimableBalance{})
}

// NewFlagBucket returns the bucket storing the initialization flags.
func NewFlagBucket() orm.ModelBucket {
	return orm.NewModelBucket("escinit", &InitFlag{})
}

// NewAccountBucket returns the bucket indexing escrow accounts by address.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket("escacct", &AccountIndex{})
}
