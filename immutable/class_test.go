package immutable_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/sghaida/immutable-base/immutable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoAttrs(a, b any) *immutable.Defaults {
	return immutable.NewDefaults().Prop("attr1", a).Prop("attr2", b)
}

func requireValue(t *testing.T, rec *immutable.Record, name string, want any) {
	t.Helper()
	got, ok := rec.Get(name)
	require.True(t, ok, "property %q not declared", name)
	assert.Equal(t, want, got, "property %q", name)
}

// Create / New
func TestCreate_ObjectFormWithUndefinedDefaults(t *testing.T) {
	t.Parallel()

	testClass := immutable.Create(immutable.NewDefaults().
		Prop("attr1", 1).
		Prop("attr2", nil).
		Prop("attr3", nil))

	rec, err := testClass.New(immutable.Values{"attr2": 2})
	require.NoError(t, err)

	requireValue(t, rec, "attr1", 1)
	requireValue(t, rec, "attr2", 2)
	requireValue(t, rec, "attr3", nil)
}

func TestNew_PositionalInDeclaredOrder(t *testing.T) {
	t.Parallel()

	rec := immutable.Create(twoAttrs(1, 2)).MustNew(3, 4)

	requireValue(t, rec, "attr1", 3)
	requireValue(t, rec, "attr2", 4)
}

func TestNew_NoArgsKeepsDefaults(t *testing.T) {
	t.Parallel()

	rec := immutable.Create(twoAttrs(1, 2)).MustNew()

	requireValue(t, rec, "attr1", 1)
	requireValue(t, rec, "attr2", 2)
	assert.Equal(t, immutable.Values{"attr1": 1, "attr2": 2}, rec.Values())
}

func TestNew_ObjectFormFromRecord(t *testing.T) {
	t.Parallel()

	cls := immutable.Create(twoAttrs(1, 2))
	src := cls.MustNew(5, 6)

	cp := cls.MustNew(src)
	assert.Equal(t, src.Values(), cp.Values())
	assert.NotSame(t, src, cp)
}

func TestNew_NilClass(t *testing.T) {
	t.Parallel()

	var cls *immutable.Class
	rec, err := cls.New()
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, immutable.ErrNilClass)
}

func TestCreate_NilDefaultsIsEmptyClass(t *testing.T) {
	t.Parallel()

	cls := immutable.Create(nil)
	assert.Empty(t, cls.PropertyNames())
	assert.Empty(t, cls.MustNew(1, 2).Values())
}

func TestCreate_CapturesDefaultsByCopy(t *testing.T) {
	t.Parallel()

	defs := immutable.NewDefaults().Prop("a", 1)
	cls := immutable.Create(defs)

	defs.Prop("a", 2).Prop("b", 3)

	assert.Equal(t, []string{"a"}, cls.PropertyNames())
	requireValue(t, cls.MustNew(), "a", 1)
}

func TestDefine_RejectsBadNames(t *testing.T) {
	t.Parallel()

	for _, bad := range []string{"", "9lives", "has-dash"} {
		_, err := immutable.Define(immutable.NewDefaults().Prop(bad, 1))
		var nameErr immutable.InvalidPropertyNameError
		require.True(t, errors.As(err, &nameErr), bad)
		assert.Equal(t, bad, nameErr.Name)
	}

	assert.Panics(t, func() { immutable.Create(immutable.NewDefaults().Prop("", 1)) })
}

func TestDefine_RejectsSetterConflicts(t *testing.T) {
	t.Parallel()

	_, err := immutable.Define(immutable.NewDefaults().Prop("attr", 1).Prop("Attr", 2))

	var conflict immutable.SetterConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "SetAttr", conflict.Setter)
	assert.Equal(t, "attr", conflict.First)
	assert.Equal(t, "Attr", conflict.Second)
}

// PropertyNames / setters
func TestPropertyNames_StableCopies(t *testing.T) {
	t.Parallel()

	cls := immutable.Create(twoAttrs(1, 2), immutable.WithName("Pair"))

	names := cls.PropertyNames()
	names[0] = "mutated"

	assert.Equal(t, []string{"attr1", "attr2"}, cls.PropertyNames())
	assert.Equal(t, cls.PropertyNames(), cls.PropertyNames())
	assert.Equal(t, []string{"SetAttr1", "SetAttr2"}, cls.SetterNames())
	assert.Equal(t, "Pair", cls.Name())
	assert.Equal(t, "Pair", cls.String())
	assert.Nil(t, cls.Parent())
}

// Dynamic defaults
func TestLazyDefaults_ProduceTime(t *testing.T) {
	t.Parallel()

	cls := immutable.Create(immutable.NewDefaults().Lazy("attr1", func() any { return time.Now() }))

	got, ok := immutable.GetAs[time.Time](cls.MustNew(), "attr1")
	require.True(t, ok)
	assert.False(t, got.IsZero())
}

func TestLazyDefaults_ReevaluatedPerRecord(t *testing.T) {
	t.Parallel()

	var clock int64 = 1000
	cls := immutable.Create(immutable.NewDefaults().
		Prop("attr1", func() int64 { return clock }))

	first := cls.MustNew()
	clock = 2000
	second := cls.MustNew()

	requireValue(t, first, "attr1", int64(1000))
	requireValue(t, second, "attr1", int64(2000))
}

func TestLazyDefaults_FreshValuesAreNotShared(t *testing.T) {
	t.Parallel()

	cls := immutable.Create(immutable.NewDefaults().
		Lazy("tags", func() any { return &[]string{} }))

	a := immutable.MustGetAs[*[]string](cls.MustNew(), "tags")
	b := immutable.MustGetAs[*[]string](cls.MustNew(), "tags")
	assert.NotSame(t, a, b)
}

func TestLiteralDefaults_SharedByReference(t *testing.T) {
	t.Parallel()

	shared := &[]string{"x"}
	cls := immutable.Create(immutable.NewDefaults().Prop("tags", shared))

	a := immutable.MustGetAs[*[]string](cls.MustNew(), "tags")
	b := immutable.MustGetAs[*[]string](cls.MustNew(), "tags")
	assert.Same(t, a, b)
}

// Extend
func TestExtend_AddsPropertiesAfterParent(t *testing.T) {
	t.Parallel()

	class1 := immutable.Create(twoAttrs(1, 2))
	class2 := class1.Extend(immutable.NewDefaults().Prop("attr3", 3))

	assert.Equal(t, []string{"attr1", "attr2", "attr3"}, class2.PropertyNames())
	assert.Equal(t, []string{"attr3"}, class2.OwnPropertyNames())
	assert.Same(t, class1, class2.Parent())

	rec := class2.MustNew(4, 5, 6)
	requireValue(t, rec, "attr1", 4)
	requireValue(t, rec, "attr2", 5)
	requireValue(t, rec, "attr3", 6)
}

func TestExtend_ParentDefaultsApply(t *testing.T) {
	t.Parallel()

	base := immutable.Create(immutable.NewDefaults().Prop("a", 1))
	derived := base.Extend(immutable.NewDefaults().Prop("b", 2))

	requireValue(t, derived.MustNew(), "a", 1)
	requireValue(t, derived.MustNew(), "b", 2)

	rec := derived.MustNew(immutable.Values{"b": 20})
	requireValue(t, rec, "a", 1)
	requireValue(t, rec, "b", 20)

	rec = derived.MustNew(3, 4)
	assert.Equal(t, immutable.Values{"a": 3, "b": 4}, rec.Values())
}

func TestExtend_ParentLazyDefaultsApply(t *testing.T) {
	t.Parallel()

	calls := 0
	base := immutable.Create(immutable.NewDefaults().
		Lazy("id", func() any { calls++; return calls }))
	derived := base.Extend(immutable.NewDefaults().Prop("label", "x"))

	requireValue(t, derived.MustNew(), "id", 1)
	requireValue(t, derived.MustNew(), "id", 2)
}

func TestExtend_RedeclaredNameIsNotAddedButDefaultApplies(t *testing.T) {
	t.Parallel()

	base := immutable.Create(immutable.NewDefaults().Prop("a", 1))
	derived := base.Extend(immutable.NewDefaults().Prop("a", 10).Prop("b", 2))

	assert.Equal(t, []string{"a", "b"}, derived.PropertyNames())
	assert.Equal(t, []string{"b"}, derived.OwnPropertyNames())
	assert.Equal(t, []string{"SetA", "SetB"}, derived.SetterNames())

	requireValue(t, derived.MustNew(), "a", 10)
	requireValue(t, base.MustNew(), "a", 1)
	requireValue(t, derived.MustNew(7), "a", 7)
}

func TestExtend_Chain(t *testing.T) {
	t.Parallel()

	a := immutable.Create(immutable.NewDefaults().Prop("a", 1), immutable.WithName("A"))
	b := a.Extend(immutable.NewDefaults().Prop("b", 2), immutable.WithName("B"))
	c := b.Extend(immutable.NewDefaults().Prop("c", 3), immutable.WithName("C"))

	assert.Equal(t, []string{"a", "b", "c"}, c.PropertyNames())

	rec := c.MustNew(7, 8, 9)
	assert.Equal(t, immutable.Values{"a": 7, "b": 8, "c": 9}, rec.Values())
	assert.True(t, rec.InstanceOf(a))
	assert.True(t, rec.InstanceOf(b))
	assert.True(t, rec.InstanceOf(c))

	next, err := rec.Call("SetA", 70)
	require.NoError(t, err)
	assert.Same(t, c, next.Class())
	assert.Equal(t, immutable.Values{"a": 70, "b": 8, "c": 9}, next.Values())

	assert.False(t, a.MustNew().InstanceOf(c))
}

func TestExtend_DefaultName(t *testing.T) {
	t.Parallel()

	base := immutable.Create(nil, immutable.WithName("Base"))
	assert.Equal(t, "BaseExtended", base.Extend(nil).Name())
	assert.Equal(t, "Immutable", immutable.Create(nil).Name())
}

func TestExtend_Errors(t *testing.T) {
	t.Parallel()

	var nilClass *immutable.Class
	_, err := nilClass.TryExtend(nil)
	assert.ErrorIs(t, err, immutable.ErrNilClass)

	base := immutable.Create(immutable.NewDefaults().Prop("attr", 1))
	_, err = base.TryExtend(immutable.NewDefaults().Prop("Attr", 2))
	var conflict immutable.SetterConflictError
	assert.True(t, errors.As(err, &conflict))

	assert.Panics(t, func() { base.Extend(immutable.NewDefaults().Prop("bad name", 1)) })
}

// Subclasses with initializers
func TestSubclass_TransientSurvivesSetters(t *testing.T) {
	t.Parallel()

	base := immutable.Create(twoAttrs(1, 3))
	newclass := base.Extend(nil,
		immutable.WithName("newclass"),
		immutable.WithInit(func(r *immutable.Record) error {
			return r.SetTransient("transient", 77)
		}))

	assert.Len(t, newclass.PropertyNames(), 2)

	i := newclass.MustNew(2)
	requireValue(t, i, "attr1", 2)
	requireValue(t, i, "attr2", 3)
	tr, ok := i.Transient("transient")
	require.True(t, ok)
	assert.Equal(t, 77, tr)

	j, err := i.Call("SetAttr1", 4)
	require.NoError(t, err)
	assert.True(t, j.InstanceOf(newclass))
	assert.Same(t, newclass, j.Class())
	requireValue(t, j, "attr1", 4)
	requireValue(t, j, "attr2", 3)
	tr, ok = j.Transient("transient")
	require.True(t, ok)
	assert.Equal(t, 77, tr)

	_, isDeclared := i.Values()["transient"]
	assert.False(t, isDeclared)
}

func TestSubclass_InitializersRunRootFirst(t *testing.T) {
	t.Parallel()

	appendTrace := func(step string) immutable.Initializer {
		return func(r *immutable.Record) error {
			prev, _ := r.Transient("trace")
			trace, _ := prev.([]string)
			return r.SetTransient("trace", append(append([]string(nil), trace...), step))
		}
	}

	base := immutable.Create(nil, immutable.WithInit(appendTrace("base")))
	sub := base.Extend(nil, immutable.WithInit(appendTrace("sub")))

	trace, ok := sub.MustNew().Transient("trace")
	require.True(t, ok)
	assert.Equal(t, []string{"base", "sub"}, trace)
}

func TestSubclass_InitErrorReturnsNoRecord(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	cls := immutable.Create(nil, immutable.WithName("Failing"),
		immutable.WithInit(func(*immutable.Record) error { return boom }))

	rec, err := cls.New()
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, boom)

	var initErr immutable.InitError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, "Failing", initErr.Class)

	assert.Panics(t, func() { cls.MustNew() })
}

func TestSubclass_InitCannotShadowDeclaredProperty(t *testing.T) {
	t.Parallel()

	cls := immutable.Create(immutable.NewDefaults().Prop("a", 1),
		immutable.WithInit(func(r *immutable.Record) error {
			return r.SetTransient("a", 2)
		}))

	_, err := cls.New()
	var ro immutable.ReadOnlyPropertyError
	require.True(t, errors.As(err, &ro))
	assert.Equal(t, "a", ro.Name)
}

// Logging
func TestWithLogger_DebugEvents(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	base := immutable.Create(immutable.NewDefaults().Prop("a", 1),
		immutable.WithName("Logged"), immutable.WithLogger(logger))
	derived := base.Extend(immutable.NewDefaults().Prop("a", 2))

	_, err := derived.MustNew().Set("a", 3)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "class defined")
	assert.Contains(t, out, "re-declared property ignored")
	assert.Contains(t, out, "record constructed")
	assert.Contains(t, out, "merge")
	assert.Contains(t, out, "class=LoggedExtended")
}

func TestWithLogger_NilKeepsDefault(t *testing.T) {
	t.Parallel()

	cls := immutable.Create(immutable.NewDefaults().Prop("a", 1), immutable.WithLogger(nil))
	assert.NotPanics(t, func() { cls.MustNew() })
}
