package token

import (
	"testing"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/coin"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/weavetest"
	"github.com/iov-one/timelock/weavetest/assert"
)

func TestValidateMessages(t *testing.T) {
	meta := &weave.Metadata{Schema: 1}
	addr := weavetest.NewCondition().Address()
	xlm := TokenAddress("XLM")

	cases := map[string]struct {
		Msg       weave.Msg
		WantErrs  map[string]*errors.Error
		WantError *errors.Error
	}{
		"valid create": {
			Msg: &CreateTokenMsg{Metadata: meta, Admin: addr, Decimals: 7, Name: "Lumens", Symbol: "XLM"},
			WantErrs: map[string]*errors.Error{
				"Admin":    nil,
				"Decimals": nil,
				"Name":     nil,
				"Symbol":   nil,
			},
		},
		"invalid create": {
			Msg: &CreateTokenMsg{Metadata: meta, Decimals: 19, Name: "", Symbol: "xlm"},
			WantErrs: map[string]*errors.Error{
				"Admin":    errors.ErrInput,
				"Decimals": errors.ErrInput,
				"Name":     errors.ErrInput,
				"Symbol":   errors.ErrInput,
			},
		},
		"create without metadata": {
			Msg:       &CreateTokenMsg{Admin: addr, Name: "Lumens", Symbol: "XLM"},
			WantError: errors.ErrMetadata,
		},
		"valid zero mint": {
			Msg: &MintMsg{Metadata: meta, Token: xlm, Recipient: addr},
			WantErrs: map[string]*errors.Error{
				"Token":     nil,
				"Recipient": nil,
				"Amount":    nil,
			},
		},
		"invalid mint": {
			Msg: &MintMsg{Metadata: meta, Amount: coin.NewAmount(-5)},
			WantErrs: map[string]*errors.Error{
				"Token":     errors.ErrInput,
				"Recipient": errors.ErrInput,
				"Amount":    errors.ErrAmount,
			},
		},
		"invalid approve": {
			Msg: &ApproveMsg{Metadata: meta, Token: xlm, Owner: addr, Amount: coin.NewAmount(-5)},
			WantErrs: map[string]*errors.Error{
				"Token":   nil,
				"Owner":   nil,
				"Spender": errors.ErrInput,
				"Amount":  errors.ErrAmount,
			},
		},
		"invalid transfer": {
			Msg: &TransferMsg{Metadata: meta, Token: xlm, Destination: addr, Amount: coin.MaxAmount},
			WantErrs: map[string]*errors.Error{
				"Token":       nil,
				"Source":      errors.ErrInput,
				"Destination": nil,
				"Amount":      nil,
			},
		},
		"configuration patch is required": {
			Msg: &UpdateConfigurationMsg{Metadata: meta},
			WantErrs: map[string]*errors.Error{
				"Patch": errors.ErrEmpty,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.Msg.Validate()
			if tc.WantError != nil {
				assert.IsErr(t, tc.WantError, err)
				return
			}
			for field, want := range tc.WantErrs {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestMessageEncoding(t *testing.T) {
	msg := &ApproveMsg{
		Metadata: &weave.Metadata{Schema: 1},
		Token:    TokenAddress("XLM"),
		Owner:    weavetest.NewCondition().Address(),
		Spender:  weavetest.NewCondition().Address(),
		Amount:   coin.MaxAmount,
	}
	raw, err := msg.Marshal()
	assert.Nil(t, err)

	var got ApproveMsg
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, msg, &got)

	// A different message type cannot be loaded from the same bytes.
	var other CreateTokenMsg
	if err := other.Unmarshal(raw); err == nil {
		t.Fatal("want decoding error")
	}
}
