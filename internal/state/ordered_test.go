package state

import (
	"reflect"
	"testing"
)

func TestOrderedMapInsertionOrder(t *testing.T) {
	m := NewOrderedMap[string]()
	m.Set("work", "1")
	m.Set("default", "2")
	m.Set("staging", "3")

	if got := m.Keys(); !reflect.DeepEqual(got, []string{"work", "default", "staging"}) {
		t.Errorf("Keys() = %v", got)
	}
	if first, _ := m.First(); first != "work" {
		t.Errorf("First() = %q, want work", first)
	}
}

func TestOrderedMapOverwriteKeepsPosition(t *testing.T) {
	m := NewOrderedMap[string]()
	m.Set("a", "1")
	m.Set("b", "2")
	m.Set("a", "updated")

	if got := m.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Keys() after overwrite = %v", got)
	}
	if v, _ := m.Get("a"); v != "updated" {
		t.Errorf("Get(a) = %q", v)
	}
}

func TestOrderedMapDelete(t *testing.T) {
	m := NewOrderedMap[int]()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	if !m.Delete("b") {
		t.Fatal("Delete(b) should report presence")
	}
	if m.Delete("b") {
		t.Error("second Delete(b) should report absence")
	}
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Keys() after delete = %v", got)
	}
	if m.Has("b") {
		t.Error("Has(b) should be false after delete")
	}
}

func TestOrderedMapEmpty(t *testing.T) {
	m := NewOrderedMap[string]()
	if m.Len() != 0 {
		t.Errorf("Len() = %d", m.Len())
	}
	if _, ok := m.First(); ok {
		t.Error("First() on empty map should report absence")
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Get(missing) should report absence")
	}
}
