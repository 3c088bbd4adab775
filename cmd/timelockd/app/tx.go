package timelockd

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/x/escrow"
	"github.com/iov-one/timelock/x/sigs"
	"github.com/iov-one/timelock/x/token"
)

// Tx carries exactly one message together with the signatures of all
// parties authorizing it.
type Tx struct {
	Signatures []*sigs.StdSignature
	// Msg is one of the message types listed in txWire.
	Msg weave.Msg
}

var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// txWire is the serialized layout of Tx. Exactly one message field is set.
// Numbers below 50 are reserved for the transaction envelope.
type txWire struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures"`

	CreateTokenMsg         *token.CreateTokenMsg         `protobuf:"bytes,51,opt,name=create_token_msg"`
	MintMsg                *token.MintMsg                `protobuf:"bytes,52,opt,name=mint_msg"`
	ApproveMsg             *token.ApproveMsg             `protobuf:"bytes,53,opt,name=approve_msg"`
	TransferMsg            *token.TransferMsg            `protobuf:"bytes,54,opt,name=transfer_msg"`
	UpdateConfigurationMsg *token.UpdateConfigurationMsg `protobuf:"bytes,55,opt,name=update_configuration_msg"`
	DepositMsg             *escrow.DepositMsg            `protobuf:"bytes,61,opt,name=deposit_msg"`
	ClaimMsg               *escrow.ClaimMsg              `protobuf:"bytes,62,opt,name=claim_msg"`
}

func (m *txWire) Reset()         { *m = txWire{} }
func (m *txWire) String() string { return proto.CompactTextString(m) }
func (*txWire) ProtoMessage()    {}

// setMsg stores the message in its field.
func (w *txWire) setMsg(msg weave.Msg) error {
	switch msg := msg.(type) {
	case nil:
	case *token.CreateTokenMsg:
		w.CreateTokenMsg = msg
	case *token.MintMsg:
		w.MintMsg = msg
	case *token.ApproveMsg:
		w.ApproveMsg = msg
	case *token.TransferMsg:
		w.TransferMsg = msg
	case *token.UpdateConfigurationMsg:
		w.UpdateConfigurationMsg = msg
	case *escrow.DepositMsg:
		w.DepositMsg = msg
	case *escrow.ClaimMsg:
		w.ClaimMsg = msg
	default:
		return errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	return nil
}

// msg returns the only message set, or nil if there is none.
func (w *txWire) msg() (weave.Msg, error) {
	var found []weave.Msg
	if w.CreateTokenMsg != nil {
		found = append(found, w.CreateTokenMsg)
	}
	if w.MintMsg != nil {
		found = append(found, w.MintMsg)
	}
	if w.ApproveMsg != nil {
		found = append(found, w.ApproveMsg)
	}
	if w.TransferMsg != nil {
		found = append(found, w.TransferMsg)
	}
	if w.UpdateConfigurationMsg != nil {
		found = append(found, w.UpdateConfigurationMsg)
	}
	if w.DepositMsg != nil {
		found = append(found, w.DepositMsg)
	}
	if w.ClaimMsg != nil {
		found = append(found, w.ClaimMsg)
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, errors.Wrap(errors.ErrInput, "more than one message")
	}
}

// GetMsg returns a single message instance that is represented by this
// transaction.
func (tx *Tx) GetMsg() (weave.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrState, "message is missing")
	}
	return tx.Msg, nil
}

// GetSignatures returns the signatures of all signers.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign: the transaction serialized
// without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	w := txWire{Signatures: tx.Signatures}
	if err := w.setMsg(tx.Msg); err != nil {
		return nil, err
	}
	return codec.Marshal(&w)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	var w txWire
	if err := codec.Unmarshal(raw, &w); err != nil {
		return err
	}
	msg, err := w.msg()
	if err != nil {
		return err
	}
	tx.Signatures = w.Signatures
	tx.Msg = msg
	return nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}
