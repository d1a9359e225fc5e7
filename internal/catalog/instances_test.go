package catalog

import (
	"testing"

	"github.com/guimove/eas-sim/internal/topology"
)

func TestParseInstanceType(t *testing.T) {
	cases := []struct {
		in       string
		family   string
		gen      int
		size     string
	}{
		{"m5.xlarge", "m5", 5, "xlarge"},
		{"m7g.large", "m7g", 7, "large"},
		{"c6i.2xlarge", "c6i", 6, "2xlarge"},
		{"weird", "weird", 0, ""},
	}
	for _, c := range cases {
		family, gen, size := parseInstanceType(c.in)
		if family != c.family || gen != c.gen || size != c.size {
			t.Errorf("parseInstanceType(%q) = (%q, %d, %q), want (%q, %d, %q)",
				c.in, family, gen, size, c.family, c.gen, c.size)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		ghz  float64
		want topology.Class
	}{
		{0.8, topology.Little},
		{2.0, topology.Little},
		{2.5, topology.Middle},
		{3.0, topology.Middle},
		{3.5, topology.Big},
	}
	for _, c := range cases {
		if got := classify(c.ghz); got != c.want {
			t.Errorf("classify(%v) = %v, want %v", c.ghz, got, c.want)
		}
	}
}

func TestInstanceTopologyBucketsAllVCPUsIntoOneClass(t *testing.T) {
	inst := Instance{InstanceType: "c7g.2xlarge", VCPUs: 8, SustainedClockGHz: 2.6}
	d := inst.Topology()
	if d.Name != "c7g.2xlarge" {
		t.Fatalf("Name = %q", d.Name)
	}
	if d.Counts[topology.Middle] != 8 {
		t.Fatalf("Counts[Middle] = %d, want 8", d.Counts[topology.Middle])
	}
	if d.Total() != 8 {
		t.Fatalf("Total() = %d, want 8", d.Total())
	}
}

func TestToSet(t *testing.T) {
	s := toSet([]string{"m5", "c6i"})
	if !s["m5"] || !s["c6i"] || s["m6g"] {
		t.Fatalf("toSet produced wrong membership: %+v", s)
	}
}
