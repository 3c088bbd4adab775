package gconf

import (
	"reflect"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x"
)

// OwnedConfig is a configuration that declares its owner. Only the owner
// can update it.
type OwnedConfig interface {
	Configuration
	GetOwner() weave.Address
}

// UpdateConfigurationHandler applies configuration patches. The handled
// message must be a pointer to a struct with a Patch field of the same
// type as the configuration. Zero value fields of the patch are ignored.
type UpdateConfigurationHandler struct {
	pkg     string
	config  reflect.Type
	auth    x.Authenticator
	creator weave.Address
}

var _ weave.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a handler updating the
// configuration of given package. config is used only to learn the
// configuration type.
//
// An update must be signed by the current owner. If the configuration does
// not exist yet, it can only be created by the creator. A nil creator
// means that a missing configuration cannot be created with a message.
func NewUpdateConfigurationHandler(pkg string, config OwnedConfig, auth x.Authenticator, creator weave.Address) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:     pkg,
		config:  reflect.TypeOf(config).Elem(),
		auth:    auth,
		creator: creator,
	}
}

func (h UpdateConfigurationHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	if err := h.apply(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) apply(ctx weave.Context, db weave.KVStore, tx weave.Tx) error {
	current := reflect.New(h.config).Interface().(OwnedConfig)

	var signer weave.Address
	switch err := Load(db, h.pkg, current); {
	case err == nil:
		signer = current.GetOwner()
	case errors.ErrNotFound.Is(err):
		signer = h.creator
	default:
		return err
	}
	if signer == nil {
		return errors.Wrapf(errors.ErrUnauthorized, "%s configuration cannot be changed", h.pkg)
	}
	if !h.auth.HasAddress(ctx, signer) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s configuration change requires %s signature", h.pkg, signer)
	}

	patch, err := h.patchOf(tx)
	if err != nil {
		return err
	}
	merge(reflect.ValueOf(current).Elem(), reflect.ValueOf(patch).Elem())
	return Save(db, h.pkg, current)
}

// patchOf returns the validated Patch field of the transaction message.
func (h UpdateConfigurationHandler) patchOf(tx weave.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrMsg, "unsupported message %T", msg)
	}
	field := v.Elem().FieldByName("Patch")
	if !field.IsValid() || field.Type() != reflect.PtrTo(h.config) {
		return nil, errors.Wrapf(errors.ErrMsg, "%T has no %s patch", msg, h.config)
	}
	if field.IsNil() {
		return nil, errors.Wrap(errors.ErrEmpty, "patch")
	}
	return field.Interface().(OwnedConfig), nil
}

// merge copies all non zero fields of src into dst.
func merge(dst, src reflect.Value) {
	for i := 0; i < src.NumField(); i++ {
		f := src.Field(i)
		if reflect.DeepEqual(f.Interface(), reflect.Zero(f.Type()).Interface()) {
			continue
		}
		dst.Field(i).Set(f)
	}
}
