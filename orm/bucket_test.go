package orm

import (
	"testing"

	weave "github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/weavetest/assert"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBucketName(t *testing.T) {
	obj := NewSimpleObj(nil, &counter{})

	assert.Panics(t, func() {
		// An invalid bucket name must crash.
		NewBucket("l33t", obj)
	})
}

func TestBucketNameCollision(t *testing.T) {
	objkey := []byte("collision-key")

	b1 := NewBucket("mybucket", NewSimpleObj(nil, &counter{}))
	b2 := NewBucket("mybucket", NewSimpleObj(nil, &label{}))

	db := store.MemStore()
	assert.Nil(t, b2.Save(db, NewSimpleObj(objkey, &label{Text: "foobar"})))

	// Buckets do not know about each other. Loading an object using the
	// wrong bucket must fail because its wire format does not match.
	if _, err := b1.Get(db, objkey); !ErrInvalidBucket.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestBucketCannotSaveInvalid(t *testing.T) {
	o := NewSimpleObj([]byte("mykey"), &counter{Count: -999})
	b := NewBucket("mybucket", o)

	db := store.MemStore()
	if err := b.Save(db, o); !errors.ErrState.Is(err) {
		t.Fatalf("invalid object must not save: %s", err)
	}
	if ok, err := b.Has(db, []byte("mykey")); err != nil || ok {
		t.Fatalf("unexpected state: %v, %v", ok, err)
	}
}

func TestBucketStore(t *testing.T) {
	Convey("Given a counter bucket", t, func() {
		db := store.MemStore()
		b := NewBucket("cnts", NewSimpleObj(nil, &counter{}))

		Convey("a missing key returns nil", func() {
			obj, err := b.Get(db, []byte("missing"))
			So(err, ShouldBeNil)
			So(obj, ShouldBeNil)
		})

		Convey("saved objects can be loaded", func() {
			So(b.Save(db, NewSimpleObj([]byte("a"), &counter{Count: 5})), ShouldBeNil)
			obj, err := b.Get(db, []byte("a"))
			So(err, ShouldBeNil)
			So(obj.Key(), ShouldResemble, []byte("a"))
			So(obj.Value(), ShouldResemble, &counter{Count: 5})

			Convey("and deleted", func() {
				So(b.Delete(db, []byte("a")), ShouldBeNil)
				obj, err := b.Get(db, []byte("a"))
				So(err, ShouldBeNil)
				So(obj, ShouldBeNil)
			})
		})

		Convey("an empty model is stored as an empty value", func() {
			So(b.Save(db, NewSimpleObj([]byte("zero"), &counter{})), ShouldBeNil)
			ok, err := b.Has(db, []byte("zero"))
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
		})
	})
}

func TestBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, &counter{}))
	other := NewBucket("cntsx", NewSimpleObj(nil, &counter{}))

	for i, key := range []string{"aa", "ab", "b"} {
		assert.Nil(t, b.Save(db, NewSimpleObj([]byte(key), &counter{Count: int64(i + 1)})))
	}
	assert.Nil(t, other.Save(db, NewSimpleObj([]byte("aa"), &counter{Count: 99})))

	qr := weave.NewQueryRouter()
	b.Register("counters", qr)
	h := qr.Handler("/counters")
	if h == nil {
		t.Fatal("query handler not registered")
	}

	res, err := h.Query(db, weave.KeyQueryMod, []byte("ab"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, []byte("cnts:ab"), res[0].Key)

	res, err = h.Query(db, weave.KeyQueryMod, []byte("zz"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	res, err = h.Query(db, weave.PrefixQueryMod, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	assert.Equal(t, []byte("cnts:aa"), res[0].Key)
	assert.Equal(t, []byte("cnts:ab"), res[1].Key)

	// An empty prefix returns the whole bucket but nothing of the
	// bucket sharing the name prefix.
	res, err = h.Query(db, weave.PrefixQueryMod, nil)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(res))

	_, err = h.Query(db, "unknown", nil)
	assert.IsErr(t, errors.ErrInput, err)
}
