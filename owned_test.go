package nbt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ownedCmpOpts lets cmp.Diff walk the unexported fields of a boxed
// OwnedValue tree; without it cmp refuses to compare unexported fields.
var ownedCmpOpts = cmp.AllowUnexported(OwnedValue{}, OwnedCompound{}, OwnedList{}, compoundEntry{})

func TestOwnedCompoundInsertGetRemove(t *testing.T) {
	c := NewOwnedCompoundNode()
	defer c.Release()

	if prev := c.Insert("a", NewOwnedInt(1)); prev != nil {
		t.Errorf("expected no previous value on first insert")
	}
	if prev := c.Insert("a", NewOwnedInt(2)); prev == nil {
		t.Errorf("expected previous value to be returned on replace")
	} else if n, _ := prev.AsInt(); n != 1 {
		t.Errorf("previous value = %d, want 1", n)
	}

	v, ok := c.Get("a")
	if !ok {
		t.Fatalf("key %q not found", "a")
	}
	if n, _ := v.AsInt(); n != 2 {
		t.Errorf("a = %d, want 2", n)
	}

	removed, ok := c.Remove("a")
	if !ok {
		t.Fatalf("expected remove to find key %q", "a")
	}
	if n, _ := removed.AsInt(); n != 2 {
		t.Errorf("removed value = %d, want 2", n)
	}
	if _, ok := c.Get("a"); ok {
		t.Errorf("expected key %q to be gone after remove", "a")
	}
}

func TestOwnedCompoundIterOrder(t *testing.T) {
	c := NewOwnedCompoundNode()
	defer c.Release()

	order := []string{"z", "a", "m"}
	for _, key := range order {
		c.Insert(key, NewOwnedByte(0))
	}

	var seen []string
	c.Iter(func(name string, value *OwnedValue) bool {
		seen = append(seen, name)
		return true
	})

	if len(seen) != len(order) {
		t.Fatalf("iterated %d entries, want %d", len(seen), len(order))
	}
	for i := range order {
		if seen[i] != order[i] {
			t.Errorf("iteration order[%d] = %q, want %q (insertion order)", i, seen[i], order[i])
		}
	}
}

func TestOwnedCompoundRemoveShiftsIndex(t *testing.T) {
	c := NewOwnedCompoundNode()
	defer c.Release()

	for _, key := range []string{"a", "b", "c", "d"} {
		c.Insert(key, NewOwnedByte(0))
	}

	if _, ok := c.Remove("b"); !ok {
		t.Fatalf("expected remove to find key %q", "b")
	}

	// c and d shifted down one slot; Get must still resolve them through
	// the index rather than a stale position.
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("key %q not found after removing %q", key, "b")
		}
	}
	if _, ok := c.Get("b"); ok {
		t.Errorf("expected key %q to be gone", "b")
	}

	if removed, ok := c.Remove("d"); !ok {
		t.Fatalf("expected remove to find key %q", "d")
	} else if removed == nil {
		t.Errorf("expected removed value for key %q", "d")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestOwnedListPushPopInsertRemove(t *testing.T) {
	l := NewOwnedListNode()
	defer l.Release()

	l.Push(NewOwnedInt(1))
	l.Push(NewOwnedInt(2))
	l.Push(NewOwnedInt(3))
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}

	l.Insert(1, NewOwnedInt(99))
	if n, _ := l.Get(1).AsInt(); n != 99 {
		t.Errorf("Get(1) = %d, want 99", n)
	}
	if l.Len() != 4 {
		t.Fatalf("Len() after insert = %d, want 4", l.Len())
	}

	removed := l.RemoveAt(1)
	if n, _ := removed.AsInt(); n != 99 {
		t.Errorf("RemoveAt(1) = %d, want 99", n)
	}

	last, ok := l.Pop()
	if !ok {
		t.Fatalf("expected Pop to succeed")
	}
	if n, _ := last.AsInt(); n != 3 {
		t.Errorf("Pop() = %d, want 3", n)
	}
}

// pushing a value whose tag doesn't match an already-typed list is
// silently dropped.
func TestOwnedListPushMismatchedTagDropped(t *testing.T) {
	l := NewOwnedListNode()
	defer l.Release()

	l.Push(NewOwnedInt(1))
	l.Push(NewOwnedString("nope"))

	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (mismatched push should be dropped)", l.Len())
	}
	if l.ElementTag() != TagInt {
		t.Errorf("ElementTag() = %s, want Int", l.ElementTag())
	}
}

func TestOwnedListInsertOutOfRangePanics(t *testing.T) {
	l := NewOwnedListNode()
	defer l.Release()

	defer func() {
		if recover() == nil {
			t.Errorf("expected Insert beyond Len() to panic")
		}
	}()
	l.Insert(5, NewOwnedInt(1))
}

func TestOwnedValueClone(t *testing.T) {
	c := NewOwnedCompoundNode()
	c.Insert("a", NewOwnedInt(1))
	l := NewOwnedListNode()
	l.Push(NewOwnedByte(9))
	c.Insert("l", NewOwnedList(l))
	original := NewOwnedCompound(c)
	defer original.Release()

	clone := original.Clone()
	defer clone.Release()

	compnd, _ := clone.AsCompound()
	v, ok := compnd.Get("a")
	if !ok {
		t.Fatalf("clone missing key %q", "a")
	}
	if n, _ := v.AsInt(); n != 1 {
		t.Errorf("cloned a = %d, want 1", n)
	}

	// Mutating the original after cloning must not affect the clone.
	origCompnd, _ := original.AsCompound()
	origCompnd.Insert("a", NewOwnedInt(42))
	v, _ = compnd.Get("a")
	if n, _ := v.AsInt(); n != 1 {
		t.Errorf("clone observed mutation of original: a = %d, want 1", n)
	}
}

func buildItemCompound() *OwnedValue {
	c := NewOwnedCompoundNode()
	c.Insert("name", NewOwnedString("stick"))
	c.Insert("count", NewOwnedInt(3))
	l := NewOwnedListNode()
	l.Push(NewOwnedInt(1))
	l.Push(NewOwnedInt(2))
	c.Insert("tags", NewOwnedList(l))
	return NewOwnedCompound(c)
}

func TestOwnedValueStructuralEquality(t *testing.T) {
	a := buildItemCompound()
	b := buildItemCompound()
	defer a.Release()
	defer b.Release()

	if diff := cmp.Diff(a, b, ownedCmpOpts); diff != "" {
		t.Errorf("independently built trees should be structurally equal (-a +b):\n%s", diff)
	}

	compnd, _ := b.AsCompound()
	compnd.Insert("count", NewOwnedInt(4))
	if diff := cmp.Diff(a, b, ownedCmpOpts); diff == "" {
		t.Errorf("expected a diff after mutating b's count")
	}
}

func TestOwnedFromViewRoundTrip(t *testing.T) {
	src := []byte{0x0A, 0x00, 0x00, 0x03, 0x00, 0x01, 'a', 0x00, 0x00, 0x00, 0x01, 0x00}
	owned, err := ReadOwned(BigEndian, BigEndian, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer owned.Release()

	out := WriteOwnedTo(BigEndian, owned)
	if !bytesEqual(out, src) {
		t.Errorf("round trip mismatch: got %x, want %x", out, src)
	}
}
