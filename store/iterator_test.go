package store

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func collect(it Iterator) []Model {
	var res []Model
	for ; it.Valid(); it.Next() {
		res = append(res, Pair(it.Key(), it.Value()))
	}
	it.Close()
	return res
}

func TestLayeredIterator(t *testing.T) {
	Convey("Given a base store with committed data", t, func() {
		base := MemStore()
		for _, m := range []Model{Pair([]byte("a"), []byte("1")), Pair([]byte("c"), []byte("3")), Pair([]byte("e"), []byte("5"))} {
			So(base.Set(m.Key, m.Value), ShouldBeNil)
		}

		Convey("A cache wrap merges its changes with the parent", func() {
			cache := base.CacheWrap()
			So(cache.Set([]byte("b"), []byte("2")), ShouldBeNil)
			So(cache.Set([]byte("c"), []byte("33")), ShouldBeNil)
			So(cache.Delete([]byte("e")), ShouldBeNil)
			So(cache.Delete([]byte("x")), ShouldBeNil)

			it, err := cache.Iterator(nil, nil)
			So(err, ShouldBeNil)
			So(collect(it), ShouldResemble, []Model{
				Pair([]byte("a"), []byte("1")),
				Pair([]byte("b"), []byte("2")),
				Pair([]byte("c"), []byte("33")),
			})

			Convey("Reverse iteration returns the same items backwards", func() {
				it, err := cache.ReverseIterator([]byte("a"), []byte("d"))
				So(err, ShouldBeNil)
				So(collect(it), ShouldResemble, []Model{
					Pair([]byte("c"), []byte("33")),
					Pair([]byte("b"), []byte("2")),
					Pair([]byte("a"), []byte("1")),
				})
			})

			Convey("The parent is untouched until the cache is written", func() {
				it, err := base.Iterator(nil, nil)
				So(err, ShouldBeNil)
				So(len(collect(it)), ShouldEqual, 3)

				So(cache.Write(), ShouldBeNil)
				it, err = base.Iterator(nil, nil)
				So(err, ShouldBeNil)
				So(collect(it), ShouldResemble, []Model{
					Pair([]byte("a"), []byte("1")),
					Pair([]byte("b"), []byte("2")),
					Pair([]byte("c"), []byte("33")),
				})
			})
		})

		Convey("Deleting everything leaves an empty iterator", func() {
			cache := base.CacheWrap()
			for _, k := range []string{"a", "c", "e"} {
				So(cache.Delete([]byte(k)), ShouldBeNil)
			}
			it, err := cache.Iterator(nil, nil)
			So(err, ShouldBeNil)
			So(it.Valid(), ShouldBeFalse)
			it.Close()
		})
	})
}
