package contracttest

import (
	"encoding/json"
	"reflect"
	"testing"
)

// jsonEqual compares two JSON documents semantically. Backends such as Postgres jsonb
// normalize whitespace and key order, so byte equality is too strict.
func jsonEqual(t *testing.T, a, b []byte) bool {
	t.Helper()
	var va, vb any
	if err := json.Unmarshal(a, &va); err != nil {
		t.Fatalf("unmarshal %s: %v", a, err)
	}
	if err := json.Unmarshal(b, &vb); err != nil {
		t.Fatalf("unmarshal %s: %v", b, err)
	}
	return reflect.DeepEqual(va, vb)
}
