package component

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/go-drift/affix/pkg/dispatch"
	"github.com/go-drift/affix/pkg/errors"
	"github.com/go-drift/affix/pkg/frame"
	"github.com/go-drift/affix/pkg/registry"
	"github.com/go-drift/affix/pkg/scene"
	affixtest "github.com/go-drift/affix/pkg/testing"
)

type fixture struct {
	node       *scene.Node
	comp       *Component
	manager    *registry.Manager
	dispatcher *dispatch.Dispatcher
	clock      *frame.Clock
	time       *affixtest.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := affixtest.NewFakeClock()
	prev := frame.SetTimeSource(fake)
	t.Cleanup(func() { frame.SetTimeSource(prev) })

	d := dispatch.New()
	node := scene.NewNode("hud", "Frame")
	f := &fixture{
		node:       node,
		manager:    registry.New(d),
		dispatcher: d,
		clock:      frame.NewClock(),
		time:       fake,
	}
	f.comp = New(node, f.manager, f.dispatcher, f.clock)
	return f
}

// step advances fake time by one 16ms frame, ticks the clock, and flushes
// the dispatcher, mirroring one iteration of a render loop.
func (f *fixture) step() {
	f.time.Advance(16 * time.Millisecond)
	f.clock.Step()
	f.dispatcher.Flush()
}

func TestConstructIdempotent(t *testing.T) {
	f := newFixture(t)
	again := New(f.node, f.manager, f.dispatcher, f.clock)

	if f.comp.Store() != again.Store() {
		t.Error("two components around one element must share the attribute store")
	}
	if _, ok := f.node.FindStore(scene.StoreNameFor("hud")); !ok {
		t.Error("construction must attach a store under the derived name")
	}
}

func TestSetThenGet(t *testing.T) {
	f := newFixture(t)
	if got := f.comp.Set("score", 42); got != 42 {
		t.Errorf("Set returned %v; want 42", got)
	}
	if got := f.comp.Get("score"); got != 42 {
		t.Errorf("Get(score) = %v; want 42", got)
	}
	if got := f.comp.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v; want nil", got)
	}
}

func TestSetPrefersExistingHolder(t *testing.T) {
	f := newFixture(t)
	holder := f.comp.Store().AttachHolder("health", 100)

	f.comp.Set("health", 75)
	if v := holder.Value(); v != 75 {
		t.Errorf("holder value = %v; want 75", v)
	}
	if got := f.comp.Get("health"); got != 75 {
		t.Errorf("Get(health) = %v; want 75", got)
	}
}

func TestUpdateUnsetAttributeFails(t *testing.T) {
	f := newFixture(t)
	_, err := f.comp.Update("never_set", 1)
	if err == nil {
		t.Fatal("Update on an unset attribute must fail")
	}
	var affixErr *errors.Error
	if !stderrors.As(err, &affixErr) || affixErr.Kind != errors.KindAttribute {
		t.Errorf("expected KindAttribute error, got %v", err)
	}
	if !strings.Contains(err.Error(), "never_set") {
		t.Errorf("error should name the attribute: %v", err)
	}
}

func TestUpdateNumericAccumulates(t *testing.T) {
	tests := []struct {
		name    string
		initial any
		delta   any
		want    any
	}{
		{"int plus int", 5, 3, 8},
		{"int plus negative", 5, -7, -2},
		{"float plus float", 1.5, 0.25, 1.75},
		{"int plus float", 2, 0.5, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.comp.Set("n", tt.initial)
			got, err := f.comp.Update("n", tt.delta)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Update returned %v; want %v", got, tt.want)
			}
			if v := f.comp.Get("n"); v != tt.want {
				t.Errorf("Get after Update = %v; want %v", v, tt.want)
			}
		})
	}
}

func TestUpdateNonNumericReplaces(t *testing.T) {
	tests := []struct {
		name    string
		initial any
		delta   any
	}{
		{"string current", "hello", 5},
		{"string delta", 5, "hello"},
		{"both strings", "a", "b"},
		{"bool delta", 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.comp.Set("v", tt.initial)
			got, err := f.comp.Update("v", tt.delta)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.delta {
				t.Errorf("Update returned %v; want replacement %v", got, tt.delta)
			}
		})
	}
}

func TestAttributeUnsetFails(t *testing.T) {
	f := newFixture(t)
	_, err := f.comp.Attribute("never_set", func(any, any) {})
	if err == nil {
		t.Fatal("Attribute on an unset name must fail")
	}
}

func TestAttributeBaselineThenChanges(t *testing.T) {
	f := newFixture(t)
	f.comp.Set("score", 10)

	type call struct{ newV, oldV any }
	var calls []call
	if _, err := f.comp.Attribute("score", func(newV, oldV any) {
		calls = append(calls, call{newV, oldV})
	}); err != nil {
		t.Fatal(err)
	}

	f.comp.Set("score", 25)
	f.dispatcher.Flush()

	if len(calls) != 2 {
		t.Fatalf("observer called %d times; want 2", len(calls))
	}
	if calls[0] != (call{10, 10}) {
		t.Errorf("baseline call = %v; want (10, 10)", calls[0])
	}
	if calls[1] != (call{25, 10}) {
		t.Errorf("change call = %v; want (25, 10)", calls[1])
	}
}

func TestAttributeTracksPrevious(t *testing.T) {
	f := newFixture(t)
	f.comp.Set("score", 0)

	var olds []any
	if _, err := f.comp.Attribute("score", func(_, oldV any) {
		olds = append(olds, oldV)
	}); err != nil {
		t.Fatal(err)
	}

	f.comp.Set("score", 1)
	f.comp.Set("score", 2)
	f.dispatcher.Flush()

	want := []any{0, 0, 1}
	if len(olds) != len(want) {
		t.Fatalf("observer called %d times; want %d", len(olds), len(want))
	}
	for i := range want {
		if olds[i] != want[i] {
			t.Errorf("old value %d = %v; want %v", i, olds[i], want[i])
		}
	}
}

// Inline-backed attributes notify on every write, equal value or not;
// holder-backed attributes notify only on distinct values.
func TestAttributeBackingChangeSemantics(t *testing.T) {
	t.Run("inline always notifies", func(t *testing.T) {
		f := newFixture(t)
		f.comp.Set("score", 1)
		calls := 0
		if _, err := f.comp.Attribute("score", func(any, any) { calls++ }); err != nil {
			t.Fatal(err)
		}
		f.comp.Set("score", 1)
		f.comp.Set("score", 1)
		f.dispatcher.Flush()
		if calls != 3 { // baseline + two equal writes
			t.Errorf("observer called %d times; want 3", calls)
		}
	})

	t.Run("holder notifies on distinct values only", func(t *testing.T) {
		f := newFixture(t)
		f.comp.Store().AttachHolder("health", 100)
		calls := 0
		if _, err := f.comp.Attribute("health", func(any, any) { calls++ }); err != nil {
			t.Fatal(err)
		}
		f.comp.Set("health", 100) // unchanged
		f.comp.Set("health", 50)
		f.dispatcher.Flush()
		if calls != 2 { // baseline + one real change
			t.Errorf("observer called %d times; want 2", calls)
		}
	})
}

func TestAttributeReplacesPriorSubscription(t *testing.T) {
	f := newFixture(t)
	f.comp.Set("score", 0)

	firstCalls := 0
	if _, err := f.comp.Attribute("score", func(any, any) { firstCalls++ }); err != nil {
		t.Fatal(err)
	}
	f.dispatcher.Flush() // baseline for the first observer
	if firstCalls != 1 {
		t.Fatalf("first observer baseline calls = %d; want 1", firstCalls)
	}

	secondCalls := 0
	if _, err := f.comp.Attribute("score", func(any, any) { secondCalls++ }); err != nil {
		t.Fatal(err)
	}

	f.comp.Set("score", 5)
	f.dispatcher.Flush()

	if firstCalls != 1 {
		t.Errorf("replaced observer was still invoked: %d calls", firstCalls)
	}
	if secondCalls != 2 { // baseline + change
		t.Errorf("second observer calls = %d; want 2", secondCalls)
	}
}

func TestConnectDeliversEventArgs(t *testing.T) {
	f := newFixture(t)
	target := scene.NewNode("button", "Button")

	var got []any
	f.comp.Connect(target, "activated", func(args []any) { got = args })

	target.Event("activated").Emit([]any{"left", 2})

	if len(got) != 2 || got[0] != "left" || got[1] != 2 {
		t.Errorf("event args = %v; want [left 2]", got)
	}
	if !f.manager.Subscribed(registry.ConnectionKey("button")) {
		t.Error("connection not registered under connection_<element name>")
	}
}

func TestLifecycleGatedOnVisibility(t *testing.T) {
	f := newFixture(t)

	ticks := 0
	f.comp.Lifecycle("spin", func(time.Duration) { ticks++ })

	f.step()
	f.step()
	if ticks != 2 {
		t.Fatalf("ticks = %d while visible; want 2", ticks)
	}

	f.node.SetVisible(false)
	f.step()
	if ticks != 2 {
		t.Fatalf("ticked while invisible: %d", ticks)
	}

	// Resumes when visibility flips back mid-run.
	f.node.SetVisible(true)
	f.step()
	if ticks != 3 {
		t.Errorf("ticks = %d after becoming visible again; want 3", ticks)
	}
}

func TestLifecycleElapsedTime(t *testing.T) {
	f := newFixture(t)
	var elapsed time.Duration
	f.comp.Lifecycle("spin", func(d time.Duration) { elapsed = d })
	f.step()
	if elapsed != 16*time.Millisecond {
		t.Errorf("elapsed = %v; want 16ms", elapsed)
	}
}

func TestDestroyRemovesAllCategories(t *testing.T) {
	f := newFixture(t)
	f.comp.Set("foo", 1)

	attrCalls, eventCalls, tickCalls := 0, 0, 0

	if _, err := f.comp.Attribute("foo", func(any, any) { attrCalls++ }); err != nil {
		t.Fatal(err)
	}
	target := scene.NewNode("foo", "Button")
	f.comp.Connect(target, "activated", func([]any) { eventCalls++ })
	f.comp.Lifecycle("foo", func(time.Duration) { tickCalls++ })

	f.dispatcher.Flush() // consume the baseline call
	attrCalls = 0

	f.comp.Destroy("foo")

	f.comp.Set("foo", 2)
	target.Event("activated").Emit(nil)
	f.step()

	if attrCalls != 0 {
		t.Errorf("attribute observer invoked after Destroy: %d", attrCalls)
	}
	if eventCalls != 0 {
		t.Errorf("event callback invoked after Destroy: %d", eventCalls)
	}
	if tickCalls != 0 {
		t.Errorf("lifecycle callback invoked after Destroy: %d", tickCalls)
	}
}

func TestDestroyWithNothingRegistered(t *testing.T) {
	f := newFixture(t)
	f.comp.Destroy("nothing") // no-op for all three categories
}

func TestMemberResolution(t *testing.T) {
	f := newFixture(t)
	child := f.node.AddChild(scene.NewNode("healthbar", "Bar"))

	// The element's own name is a self-referential alias.
	v, err := f.comp.Member("hud")
	if err != nil || v != any(f.node) {
		t.Errorf("Member(hud) = %v, %v; want the element", v, err)
	}

	v, err = f.comp.Member("healthbar")
	if err != nil || v != any(child) {
		t.Errorf("Member(healthbar) = %v, %v; want the child", v, err)
	}

	_, err = f.comp.Member("bogus")
	if err == nil {
		t.Fatal("unknown member must fail")
	}
	msg := err.Error()
	if !strings.Contains(msg, "not a valid member") ||
		!strings.Contains(msg, "Frame") || !strings.Contains(msg, "hud") {
		t.Errorf("member error should name the path and type: %v", msg)
	}
}

func TestCallShorthand(t *testing.T) {
	f := newFixture(t)
	if got := f.comp.Call("score", 7); got != 7 {
		t.Errorf("Call with value = %v; want 7 (Set)", got)
	}
	if got := f.comp.Call("score"); got != 7 {
		t.Errorf("Call without value = %v; want 7 (Get)", got)
	}
}
