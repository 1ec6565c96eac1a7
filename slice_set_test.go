package turnip

import (
	"testing"
)

func TestSliceSetOrder(t *testing.T) {
	nums := newSliceSet[int]()
	for _, n := range []int{3, 1, 2, 1, 3} {
		nums.Add(n)
	}
	got := nums.Items()
	want := []int{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("wrong items: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("wrong items: %v, expected %v", got, want)
		}
	}
}

func TestSliceSetRemoveWhileIterating(t *testing.T) {
	nums := newSliceSet[int]()
	for i := 0; i < 10; i++ {
		nums.Add(i)
	}

	visited := 0
	for _, n := range nums.Items() {
		visited++
		if n%2 == 0 {
			nums.Remove(n)
		}
	}

	if visited != 10 {
		t.Error("removal should not skip items", visited)
	}
	if nums.Len() != 5 {
		t.Error("wrong length", nums.Len())
	}

	nums.Clear()
	if nums.Len() != 0 {
		t.Error("set should be empty", nums.Len())
	}
}
