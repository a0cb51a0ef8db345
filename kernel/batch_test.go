package kernel

import "testing"

func TestTriangleBatchMapsToWindow(t *testing.T) {
	var b triangleBatch
	b.setTarget(100)
	b.setViewport(0, 0, 200, 100)

	b.begin()
	b.setColor(1, 0, 0)
	b.vertex(0, -1)
	b.setColor(0, 1, 0)
	b.vertex(-1, 1)
	b.setColor(0, 0, 1)
	b.vertex(1, 1)
	b.end()

	got := b.take()
	want := []batchVertex{
		{X: 100, Y: 100, R: 1},
		{X: 0, Y: 0, G: 1},
		{X: 200, Y: 0, B: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("len(take()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("vertex %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if len(b.take()) != 0 {
		t.Fatalf("take() after take() is not empty")
	}
}

func TestTriangleBatchDropsPartial(t *testing.T) {
	var b triangleBatch
	b.setTarget(10)
	b.setViewport(0, 0, 10, 10)

	b.vertex(0, 0) // outside begin/end
	b.begin()
	for i := 0; i < 5; i++ {
		b.vertex(0, 0)
	}
	b.end()
	if n := len(b.take()); n != 3 {
		t.Fatalf("len(take()) = %d, want 3", n)
	}
}
