/*
Package crypto provides the ed25519 keys used to sign transactions. A public
key resolves to the "sigs/ed25519/<key>" condition, the address of which is
the identity of the signer. The same key can be presented as a stellar
account ID.
*/
package crypto

import (
	"github.com/gogo/protobuf/proto"
	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/codec"
	"github.com/iov-one/timelock/errors"
	"github.com/stellar/go/strkey"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the conditions we get from signatures
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3"`
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || sig == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	if len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a weave condition
func (p *PublicKey) Condition() weave.Condition {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return weave.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the address of the signature condition.
func (p *PublicKey) Address() weave.Address {
	return p.Condition().Address()
}

// StellarAccountID returns the "G..." representation of this key.
func (p *PublicKey) StellarAccountID() (string, error) {
	if len(p.Ed25519) != ed25519.PublicKeySize {
		return "", errors.Wrap(errors.ErrInput, "invalid public key")
	}
	id, err := strkey.Encode(strkey.VersionByteAccountID, p.Ed25519)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return id, nil
}

// PublicKeyFromStellar decodes a "G..." account ID.
func PublicKeyFromStellar(accountID string) (*PublicKey, error) {
	raw, err := strkey.Decode(strkey.VersionByteAccountID, accountID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &PublicKey{Ed25519: raw}, nil
}

type wirePublicKey PublicKey

func (m *wirePublicKey) Reset()         { *m = wirePublicKey{} }
func (m *wirePublicKey) String() string { return proto.CompactTextString(m) }
func (*wirePublicKey) ProtoMessage()    {}

func (p *PublicKey) Marshal() ([]byte, error) {
	return codec.Marshal((*wirePublicKey)(p))
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wirePublicKey)(p))
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3"`
}

type wireSignature Signature

func (m *wireSignature) Reset()         { *m = wireSignature{} }
func (m *wireSignature) String() string { return proto.CompactTextString(m) }
func (*wireSignature) ProtoMessage()    {}

func (s *Signature) Marshal() ([]byte, error) {
	return codec.Marshal((*wireSignature)(s))
}

func (s *Signature) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*wireSignature)(s))
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid private key")
	}
	bz := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
