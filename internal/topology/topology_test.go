package topology

import "testing"

func TestPStatesAscendingByCapacity(t *testing.T) {
	for _, class := range []Class{Little, Middle, Big} {
		table := PStates(class)
		if len(table) < 2 {
			t.Fatalf("class %s: expected multiple pstates, got %d", class, len(table))
		}
		for i := 1; i < len(table); i++ {
			if table[i].Capacity <= table[i-1].Capacity {
				t.Fatalf("class %s: pstates not ascending at index %d: %+v", class, i, table)
			}
		}
	}
}

func TestBuildProducesOneCPUPerCount(t *testing.T) {
	d := Descriptor{Counts: map[Class]int{Little: 2, Middle: 1, Big: 3}}
	cpus := Build(d, nil)
	if len(cpus) != 6 {
		t.Fatalf("len(cpus) = %d, want 6", len(cpus))
	}
}

func TestLabelDerivesFromCounts(t *testing.T) {
	d := Descriptor{Counts: map[Class]int{Little: 4, Middle: 0, Big: 2}}
	if got, want := d.Label(), "4little-0middle-2big"; got != want {
		t.Fatalf("Label() = %q, want %q", got, want)
	}
	named := Descriptor{Name: "c7g.xlarge"}
	if got := named.Label(); got != "c7g.xlarge" {
		t.Fatalf("Label() = %q, want the explicit Name", got)
	}
}
