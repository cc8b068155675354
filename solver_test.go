package canvas

import "testing"

func free(minimum, maximum int) Constraint {
	return Constraint{Minimum: minimum, Maximum: maximum}
}

func fixed(v int) Constraint {
	return Constraint{Minimum: v, Maximum: v, Preferred: v, HasPreferred: true}
}

func preferred(v int) Constraint {
	return Constraint{Maximum: Unbounded, Preferred: v, HasPreferred: true}
}

func TestSolve(t *testing.T) {
	tests := []struct {
		name        string
		origin      int
		available   int
		constraints []Constraint
		spacing     int
		wantOrigins []int
		wantSizes   []int
	}{
		{
			name:        "EvenDistribution",
			available:   90,
			constraints: []Constraint{free(10, 100), free(10, 100), free(10, 100)},
			wantOrigins: []int{0, 30, 60},
			wantSizes:   []int{30, 30, 30},
		},
		{
			name:        "FixedAndFree",
			available:   100,
			constraints: []Constraint{fixed(20), free(0, Unbounded), free(0, Unbounded)},
			wantOrigins: []int{0, 20, 60},
			wantSizes:   []int{20, 40, 40},
		},
		{
			name:        "OversizedPreferredsShrink",
			available:   100,
			constraints: []Constraint{preferred(80), preferred(80)},
			wantOrigins: []int{0, 50},
			wantSizes:   []int{50, 50},
		},
		{
			name:        "SpacingAccumulatesInOrigins",
			available:   90,
			constraints: []Constraint{free(0, Unbounded), free(0, Unbounded)},
			spacing:     10,
			wantOrigins: []int{0, 55},
			wantSizes:   []int{45, 45},
		},
		{
			name:        "MinimumWinsOverAvailable",
			available:   30,
			constraints: []Constraint{free(50, Unbounded)},
			wantOrigins: []int{0},
			wantSizes:   []int{50},
		},
		{
			name:        "MaximumLeavesSpaceUnused",
			available:   100,
			constraints: []Constraint{free(0, 30), free(0, 30)},
			wantOrigins: []int{0, 30},
			wantSizes:   []int{30, 30},
		},
		{
			name:        "OriginOffset",
			origin:      25,
			available:   40,
			constraints: []Constraint{free(0, Unbounded), free(0, Unbounded)},
			wantOrigins: []int{25, 45},
			wantSizes:   []int{20, 20},
		},
		{
			name:        "ResidualGoesToLastUnconstrained",
			available:   100,
			constraints: []Constraint{free(0, Unbounded), free(0, Unbounded), free(0, Unbounded)},
			wantOrigins: []int{0, 33, 66},
			wantSizes:   []int{33, 33, 34},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origins, sizes := Solve(tt.origin, tt.available, tt.constraints, tt.spacing)
			if len(origins) != len(tt.wantOrigins) || len(sizes) != len(tt.wantSizes) {
				t.Fatalf("got %d origins, %d sizes, want %d, %d",
					len(origins), len(sizes), len(tt.wantOrigins), len(tt.wantSizes))
			}
			for i := range origins {
				if origins[i] != tt.wantOrigins[i] {
					t.Errorf("origins[%d] = %d, want %d", i, origins[i], tt.wantOrigins[i])
				}
				if sizes[i] != tt.wantSizes[i] {
					t.Errorf("sizes[%d] = %d, want %d", i, sizes[i], tt.wantSizes[i])
				}
			}
		})
	}
}

func TestSolveEmpty(t *testing.T) {
	origins, sizes := Solve(0, 100, nil, 0)
	if origins != nil || sizes != nil {
		t.Errorf("Solve with no constraints = %v, %v, want nil, nil", origins, sizes)
	}
}

func TestSolveSizesNeverViolateBounds(t *testing.T) {
	constraints := []Constraint{
		free(10, 20),
		preferred(500),
		fixed(35),
		free(0, Unbounded),
	}
	for _, available := range []int{0, 50, 100, 500, 1000} {
		_, sizes := Solve(0, available, constraints, 0)
		for i, size := range sizes {
			c := constraints[i]
			if size < c.Minimum || size > c.Maximum {
				t.Errorf("available=%d: sizes[%d] = %d outside [%d, %d]",
					available, i, size, c.Minimum, c.Maximum)
			}
		}
	}
}

func BenchmarkSolve(b *testing.B) {
	constraints := make([]Constraint, 20)
	for i := range constraints {
		switch i % 3 {
		case 0:
			constraints[i] = free(10, 200)
		case 1:
			constraints[i] = preferred(50)
		default:
			constraints[i] = fixed(30)
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Solve(0, 1000, constraints, 4)
	}
}
