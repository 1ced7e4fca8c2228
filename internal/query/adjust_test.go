package query

import "testing"

func memberFor(t *testing.T, path string) Member {
	t.Helper()
	resolved, ok := Resolve(productType, path)
	if !ok {
		t.Fatalf("fixture path %q did not resolve", path)
	}
	return resolved.Terminal
}

func TestAdjustOperation_TextPassesThrough(t *testing.T) {
	name := memberFor(t, "name")
	for _, op := range []Operation{Contains, NotContains, StartsWith, EndsWith, Equal, GreaterThan} {
		if got := AdjustOperation(name, op); got != op {
			t.Fatalf("text member changed %v to %v", op, got)
		}
	}
}

func TestAdjustOperation_DegradesForNonText(t *testing.T) {
	cases := []struct {
		path string
		op   Operation
		want Operation
	}{
		{"stockQuantity", Contains, Equal},
		{"stockQuantity", NotContains, NotEqual},
		{"stockQuantity", StartsWith, Equal},
		{"stockQuantity", EndsWith, Equal},
		{"price", Contains, Equal},
		{"isActive", Contains, Equal},
		{"createdAt", StartsWith, Equal},
		{"status", Contains, Equal},
		{"status", NotContains, NotEqual},
		{"priority", EndsWith, Equal},
		{"id", Contains, Equal},
	}
	for _, tc := range cases {
		if got := AdjustOperation(memberFor(t, tc.path), tc.op); got != tc.want {
			t.Fatalf("Adjust(%s, %v) = %v, want %v", tc.path, tc.op, got, tc.want)
		}
	}
}

func TestAdjustOperation_ComparisonsNeverAltered(t *testing.T) {
	ops := []Operation{Equal, NotEqual, GreaterThan, GreaterThanOrEqual, LessThan, LessThanOrEqual, In, NotIn}
	for _, path := range []string{"stockQuantity", "price", "isActive", "status", "createdAt"} {
		member := memberFor(t, path)
		for _, op := range ops {
			if got := AdjustOperation(member, op); got != op {
				t.Fatalf("Adjust(%s, %v) altered comparison to %v", path, op, got)
			}
		}
	}
}

func TestAdjustOperation_UnknownMemberPassesThrough(t *testing.T) {
	if got := AdjustOperation(Member{}, Contains); got != Contains {
		t.Fatalf("unknown member should pass through, got %v", got)
	}
}
