package query

import "testing"

func TestIsValidEnumValue_NonEnumAlwaysValid(t *testing.T) {
	price := memberFor(t, "price")
	if !IsValidEnumValue(price, "anything") {
		t.Fatalf("non-enum member must accept any value")
	}
	if !IsValidEnumValue(Member{}, "anything") {
		t.Fatalf("unknown member must accept any value")
	}
}

func TestIsValidEnumValue_StringNames(t *testing.T) {
	status := memberFor(t, "status")

	for _, name := range []string{"Active", "active", "ACTIVE"} {
		if !IsValidEnumValue(status, name) {
			t.Fatalf("expected %q to be a valid status", name)
		}
	}
	if IsValidEnumValue(status, "NotARealStatus") {
		t.Fatalf("expected undeclared name to be invalid")
	}
}

func TestIsValidEnumValue_EnumInstances(t *testing.T) {
	status := memberFor(t, "status")

	if !IsValidEnumValue(status, fixtureStatusDiscontinued) {
		t.Fatalf("declared member instance must be valid")
	}
	if IsValidEnumValue(status, fixtureStatus("BOGUS")) {
		t.Fatalf("undeclared instance must be invalid")
	}
}

func TestIsValidEnumValue_NumericUnderlyingValues(t *testing.T) {
	priority := memberFor(t, "priority")

	if !IsValidEnumValue(priority, 5) {
		t.Fatalf("5 is Medium's underlying value and must be valid")
	}
	if !IsValidEnumValue(priority, float64(9)) {
		t.Fatalf("9.0 is High's underlying value and must be valid")
	}
	if IsValidEnumValue(priority, 3) {
		t.Fatalf("3 matches no member and must be invalid, not just any integer")
	}
}

func TestIsValidEnumValue_NilRequiresNullableSite(t *testing.T) {
	status := memberFor(t, "status")
	if IsValidEnumValue(status, nil) {
		t.Fatalf("nil must be invalid for a non-nullable enum site")
	}

	type nullableHolder struct {
		Status *fixtureStatus
	}
	resolved, ok := Resolve(typeOf[nullableHolder](), "status")
	if !ok {
		t.Fatalf("nullable status did not resolve")
	}
	if !IsValidEnumValue(resolved.Terminal, nil) {
		t.Fatalf("nil must be valid for a nullable enum site")
	}
}

func TestCanonicalEnumValue_MapsNamesToMembers(t *testing.T) {
	status := memberFor(t, "status")

	if got := CanonicalEnumValue(status, "active"); got != fixtureStatusActive {
		t.Fatalf("expected canonical member, got %#v", got)
	}
	if got := CanonicalEnumValue(status, fixtureStatusDraft); got != fixtureStatusDraft {
		t.Fatalf("instances must pass through, got %#v", got)
	}
	if got := CanonicalEnumValue(memberFor(t, "price"), "active"); got != "active" {
		t.Fatalf("non-enum members must pass values through, got %#v", got)
	}
}
