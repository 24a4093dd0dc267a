package page

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		content   []int
		number    int
		size      int
		total     int64
		wantPages int
		wantFirst bool
		wantLast  bool
		wantEmpty bool
	}{
		{name: "empty", content: nil, number: 0, size: 20, total: 0, wantPages: 0, wantFirst: true, wantLast: true, wantEmpty: true},
		{name: "single partial page", content: []int{1, 2}, number: 0, size: 20, total: 2, wantPages: 1, wantFirst: true, wantLast: true},
		{name: "middle page", content: []int{3, 4}, number: 1, size: 2, total: 6, wantPages: 3, wantFirst: false, wantLast: false},
		{name: "last page exact", content: []int{5, 6}, number: 2, size: 2, total: 6, wantPages: 3, wantFirst: false, wantLast: true},
		{name: "past the end", content: nil, number: 9, size: 2, total: 6, wantPages: 3, wantLast: true, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.content, tt.number, tt.size, tt.total)

			if p.TotalPages != tt.wantPages {
				t.Fatalf("totalPages = %d, want %d", p.TotalPages, tt.wantPages)
			}
			if p.First != tt.wantFirst || p.Last != tt.wantLast || p.Empty != tt.wantEmpty {
				t.Fatalf("flags first=%v last=%v empty=%v, want %v %v %v", p.First, p.Last, p.Empty, tt.wantFirst, tt.wantLast, tt.wantEmpty)
			}
			if p.Content == nil {
				t.Fatalf("content must never be nil")
			}
			if p.NumberOfElements != len(tt.content) {
				t.Fatalf("numberOfElements = %d, want %d", p.NumberOfElements, len(tt.content))
			}
		})
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(3, 20); got != 60 {
		t.Fatalf("Offset(3,20) = %d", got)
	}
	if got := Offset(-1, 20); got != 0 {
		t.Fatalf("Offset(-1,20) = %d", got)
	}
	if got := Offset(math.MaxInt, 100); got != math.MaxInt {
		t.Fatalf("Offset(MaxInt,100) = %d, want saturation", got)
	}
}

func TestInRange(t *testing.T) {
	tests := []struct {
		number, size int
		want         bool
	}{
		{number: 0, size: 20, want: true},
		{number: math.MaxInt / 100, size: 100, want: true},
		{number: math.MaxInt/100 + 1, size: 100, want: false},
		{number: math.MaxInt, size: 100, want: false},
		{number: -1, size: 20, want: false},
		{number: 1, size: 0, want: false},
	}
	for _, tt := range tests {
		if got := InRange(tt.number, tt.size); got != tt.want {
			t.Fatalf("InRange(%d,%d) = %v, want %v", tt.number, tt.size, got, tt.want)
		}
	}
}
