package system

import "testing"

func TestDefaultDashPolicyAllowsEverything(t *testing.T) {
	p := DefaultDashPolicy()
	for b := 0; b < Buckets; b++ {
		if got := p.Decide(b); got != DashAllowed {
			t.Fatalf("bucket %d: got %v", b, got)
		}
	}
	if got := DefaultTuning().Policy; got != p {
		t.Fatalf("embedded policy should be all dash, got %v", got)
	}
}

func TestParseDashPolicy(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		wantErr bool
		check   func(t *testing.T, p DashPolicy)
	}{
		{
			name: "mixed",
			in:   []string{"dash", "hiccup", "no_dash", "DASH", "dash", "dash", " no_dash ", "dash"},
			check: func(t *testing.T, p DashPolicy) {
				if p.Decide(BucketUpLeft) != DashHiccup || p.Decide(BucketUp) != DashDenied || p.Decide(BucketDown) != DashDenied {
					t.Fatalf("unexpected policy %v", p)
				}
			},
		},
		{name: "short", in: []string{"dash"}, wantErr: true},
		{name: "unknown", in: []string{"dash", "dash", "dash", "dash", "dash", "dash", "dash", "warp"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParseDashPolicy(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.check != nil {
				tc.check(t, p)
			}
		})
	}
}

func TestDecideIsPureAndFolds(t *testing.T) {
	var p DashPolicy
	p[BucketDownLeft] = DashHiccup
	for i := 0; i < 3; i++ {
		if p.Decide(-1) != DashHiccup || p.Decide(15) != DashHiccup {
			t.Fatalf("out of range buckets must fold onto the table")
		}
	}
}
