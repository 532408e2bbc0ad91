package math

import "testing"

func TestIsPowerOfTwo(t *testing.T) {
	for n, want := range map[int]bool{
		-4: false, 0: false, 1: true, 2: true, 3: false, 256: true, 300: false, 16384: true,
	} {
		if got := IsPowerOfTwo(n); got != want {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestPowerOfTwoAtLeast(t *testing.T) {
	tests := []struct {
		start, need, limit int
		want               int
	}{
		{start: 256, need: 0, limit: 16384, want: 256},
		{start: 256, need: 256, limit: 16384, want: 256},
		{start: 256, need: 257, limit: 16384, want: 512},
		{start: 256, need: 3000, limit: 16384, want: 4096},
		{start: 256, need: 20000, limit: 16384, want: 16384},
		{start: 512, need: 600, limit: 512, want: 512},
	}
	for _, tt := range tests {
		if got := PowerOfTwoAtLeast(tt.start, tt.need, tt.limit); got != tt.want {
			t.Errorf("PowerOfTwoAtLeast(%d, %d, %d) = %d, want %d", tt.start, tt.need, tt.limit, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5, 0, 3) = %d", got)
	}
	if got := Clamp(-1.5, 0.0, 1.0); got != 0 {
		t.Errorf("Clamp(-1.5, 0, 1) = %v", got)
	}
}

func TestRect_Intersects(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{name: "overlapping", b: NewRect(5, 5, 10, 10), want: true},
		{name: "contained", b: NewRect(2, 2, 2, 2), want: true},
		{name: "touching right edge", b: NewRect(10, 0, 5, 5), want: false},
		{name: "touching bottom edge", b: NewRect(0, 10, 5, 5), want: false},
		{name: "empty", b: NewRect(3, 3, 0, 4), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("%v.Intersects(%v) = %v, want %v", a, tt.b, got, tt.want)
			}
			if got := tt.b.Intersects(a); got != tt.want {
				t.Errorf("intersection is not symmetric for %v", tt.b)
			}
		})
	}
}

func TestRect_Intersect(t *testing.T) {
	atlas := NewRect(0, 0, 256, 64)
	tests := []struct {
		name     string
		r        Rect
		want     Rect
		wantArea int
	}{
		{name: "inside", r: NewRect(16, 8, 32, 32), want: NewRect(16, 8, 32, 32), wantArea: 1024},
		{name: "overflowing row", r: NewRect(0, 10, 300, 20), want: NewRect(0, 10, 256, 20), wantArea: 5120},
		{name: "below", r: NewRect(0, 64, 8, 8), want: Rect{}, wantArea: 0},
		{name: "empty", r: NewRect(3, 3, 0, 4), want: Rect{}, wantArea: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.Intersect(atlas)
			if got != tt.want {
				t.Errorf("%v.Intersect(%v) = %v, want %v", tt.r, atlas, got, tt.want)
			}
			if got.Area() != tt.wantArea {
				t.Errorf("area = %d, want %d", got.Area(), tt.wantArea)
			}
			if back := atlas.Intersect(tt.r); back != got {
				t.Errorf("intersection is not symmetric for %v", tt.r)
			}
		})
	}
}
