package system

import (
	"fmt"
	"strings"
)

type DashResult int

const (
	DashAllowed DashResult = iota
	DashHiccup
	DashDenied
)

func (r DashResult) String() string {
	switch r {
	case DashHiccup:
		return "hiccup"
	case DashDenied:
		return "no_dash"
	}
	return "dash"
}

func parseDashResult(s string) (DashResult, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dash":
		return DashAllowed, nil
	case "hiccup":
		return DashHiccup, nil
	case "no_dash":
		return DashDenied, nil
	}
	return 0, fmt.Errorf("unknown dash result %q", s)
}

// DashPolicy holds one outcome per compass bucket, starting at left and
// going clockwise.
type DashPolicy [Buckets]DashResult

// DefaultDashPolicy allows every direction.
func DefaultDashPolicy() DashPolicy {
	return DashPolicy{}
}

func ParseDashPolicy(entries []string) (DashPolicy, error) {
	var p DashPolicy
	if len(entries) != Buckets {
		return p, fmt.Errorf("dash policy: want %d entries, got %d", Buckets, len(entries))
	}
	for i, entry := range entries {
		r, err := parseDashResult(entry)
		if err != nil {
			return p, fmt.Errorf("dash policy bucket %s: %w", BucketName(i), err)
		}
		p[i] = r
	}
	return p, nil
}

func (p DashPolicy) Decide(bucket int) DashResult {
	return p[foldBucket(bucket)]
}
