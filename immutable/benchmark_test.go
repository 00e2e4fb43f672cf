package immutable_test

import (
	"testing"

	"github.com/sghaida/immutable-base/immutable"
)

/*
   Shared helpers (NOT counted in benchmarks)
*/

func newBenchBase() *immutable.Class {
	return immutable.Create(immutable.NewDefaults().
		Prop("attr1", 1).
		Prop("attr2", 2),
		immutable.WithName("Bench"))
}

func newBenchDerived() *immutable.Class {
	return newBenchBase().Extend(immutable.NewDefaults().
		Prop("attr3", 3).
		Lazy("attr4", func() any { return new(int) }))
}

/*
   Benchmarks
*/

func BenchmarkNew_Defaults(b *testing.B) {
	c := newBenchBase()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.New()
	}
}

func BenchmarkNew_Positional(b *testing.B) {
	c := newBenchBase()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.New(3, 4)
	}
}

func BenchmarkNew_ExtendedObjectForm(b *testing.B) {
	c := newBenchDerived()
	args := immutable.Values{"attr1": 10, "attr3": 30}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.New(args)
	}
}

func BenchmarkMerge(b *testing.B) {
	rec := newBenchDerived().MustNew()
	partial := immutable.Values{"attr2": 20}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = rec.Merge(partial)
	}
}

func BenchmarkCall_Setter(b *testing.B) {
	rec := newBenchBase().MustNew()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = rec.Call("SetAttr1", i)
	}
}

func BenchmarkTryGetAs(b *testing.B) {
	rec := newBenchBase().MustNew(3, 4)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = immutable.TryGetAs[int](rec, "attr2")
	}
}
