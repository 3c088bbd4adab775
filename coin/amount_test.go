package coin

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/weavetest/assert"
)

func TestAmountAdd(t *testing.T) {
	cases := map[string]struct {
		a, b    Amount
		want    Amount
		wantErr *errors.Error
	}{
		"small values": {
			a:    NewAmount(4000000),
			b:    NewAmount(6000000),
			want: NewAmount(10000000),
		},
		"carry into the high word": {
			a:    NewAmount(math.MaxInt64),
			b:    NewAmount(math.MaxInt64),
			want: MustParseAmount("18446744073709551614"),
		},
		"negative and positive": {
			a:    NewAmount(-5),
			b:    NewAmount(3),
			want: NewAmount(-2),
		},
		"max plus zero": {
			a:    MaxAmount,
			b:    Amount{},
			want: MaxAmount,
		},
		"max plus one overflows": {
			a:       MaxAmount,
			b:       NewAmount(1),
			wantErr: errors.ErrOverflow,
		},
		"half plus half overflows": {
			a:       MustParseAmount("85070591730234615865843651857942052864"),
			b:       MustParseAmount("85070591730234615865843651857942052864"),
			wantErr: errors.ErrOverflow,
		},
		"min plus minus one overflows": {
			a:       MinAmount,
			b:       NewAmount(-1),
			wantErr: errors.ErrOverflow,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.a.Add(tc.b)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestAmountSub(t *testing.T) {
	cases := map[string]struct {
		a, b    Amount
		want    Amount
		wantErr *errors.Error
	}{
		"positive result": {
			a:    NewAmount(10000000),
			b:    NewAmount(4000000),
			want: NewAmount(6000000),
		},
		"borrow from the high word": {
			a:    MustParseAmount("18446744073709551616"),
			b:    NewAmount(1),
			want: MustParseAmount("18446744073709551615"),
		},
		"negative result": {
			a:    NewAmount(1),
			b:    NewAmount(3),
			want: NewAmount(-2),
		},
		"min minus one overflows": {
			a:       MinAmount,
			b:       NewAmount(1),
			wantErr: errors.ErrOverflow,
		},
		"zero minus min overflows": {
			a:       Amount{},
			b:       MinAmount,
			wantErr: errors.ErrOverflow,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.a.Sub(tc.b)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestAmountCompare(t *testing.T) {
	ordered := []Amount{
		MinAmount,
		NewAmount(math.MinInt64),
		NewAmount(-1),
		{},
		NewAmount(1),
		NewAmount(math.MaxInt64),
		MustParseAmount("18446744073709551616"),
		MaxAmount,
	}
	for i := range ordered {
		for j := range ordered {
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			if got := ordered[i].Cmp(ordered[j]); got != want {
				t.Errorf("%s cmp %s: want %d, got %d", ordered[i], ordered[j], want, got)
			}
		}
	}

	assert.Equal(t, -1, NewAmount(-7).Sign())
	assert.Equal(t, 0, Amount{}.Sign())
	assert.Equal(t, 1, MaxAmount.Sign())
}

func TestAmountString(t *testing.T) {
	cases := map[string]Amount{
		"0":    {},
		"-1":   NewAmount(-1),
		"1234": NewAmount(1234),
		"170141183460469231731687303715884105727":  MaxAmount,
		"-170141183460469231731687303715884105728": MinAmount,
	}
	for want, a := range cases {
		if got := a.String(); got != want {
			t.Errorf("want %q, got %q", want, got)
		}
		parsed, err := ParseAmount(want)
		assert.Nil(t, err)
		assert.Equal(t, a, parsed)
	}

	_, err := ParseAmount("170141183460469231731687303715884105728")
	assert.IsErr(t, errors.ErrOverflow, err)
	_, err = ParseAmount("12a")
	assert.IsErr(t, errors.ErrAmount, err)
}

func TestAmountBinary(t *testing.T) {
	for _, a := range []Amount{{}, NewAmount(-2), NewAmount(99), MaxAmount, MinAmount} {
		raw := a.Bytes()
		assert.Equal(t, 16, len(raw))
		got, err := AmountFromBytes(raw)
		assert.Nil(t, err)
		assert.Equal(t, a, got)
	}
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0}, NewAmount(256).Bytes())

	_, err := AmountFromBytes([]byte{1, 2, 3})
	assert.IsErr(t, errors.ErrAmount, err)
}

func TestAmountCustomType(t *testing.T) {
	a := NewAmount(-1234567)
	raw, err := a.Marshal()
	assert.Nil(t, err)
	assert.Equal(t, a.Size(), len(raw))

	var got Amount
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, a, got)

	assert.IsErr(t, errors.ErrAmount, got.Unmarshal([]byte{1}))
	assert.Equal(t, a, got)
}

func TestAmountJSON(t *testing.T) {
	raw, err := json.Marshal(MaxAmount)
	assert.Nil(t, err)
	assert.Equal(t, `"170141183460469231731687303715884105727"`, string(raw))

	var a Amount
	assert.Nil(t, json.Unmarshal([]byte(`"-42"`), &a))
	assert.Equal(t, NewAmount(-42), a)
	assert.Nil(t, json.Unmarshal([]byte(`10000000`), &a))
	assert.Equal(t, NewAmount(10000000), a)

	err = json.Unmarshal([]byte(`1.5`), &a)
	assert.IsErr(t, errors.ErrAmount, err)
	err = json.Unmarshal([]byte(`true`), &a)
	assert.IsErr(t, errors.ErrAmount, err)
}

func TestAmountInt64(t *testing.T) {
	v, ok := NewAmount(math.MinInt64).Int64()
	assert.Equal(t, true, ok)
	assert.Equal(t, int64(math.MinInt64), v)

	_, ok = MaxAmount.Int64()
	assert.Equal(t, false, ok)
}
