package stage

import (
	"reflect"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestLuaValues_RoundTrip(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	cases := []struct {
		name string
		in   any
	}{
		{"nil", nil},
		{"string", "hello"},
		{"bool", true},
		{"number", float64(42)},
		{"array", []any{"a", "b"}},
		{"object", map[string]any{"k": "v", "n": float64(3)}},
		{"nested", map[string]any{"list": []any{float64(1), float64(2)}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := fromLValue(toLValue(L, tc.in))
			if !reflect.DeepEqual(got, tc.in) {
				t.Fatalf("round trip = %#v, want %#v", got, tc.in)
			}
		})
	}
}

func TestToLValue_IntBecomesNumber(t *testing.T) {
	L := lua.NewState()
	defer L.Close()
	if got := fromLValue(toLValue(L, 7)); got != float64(7) {
		t.Fatalf("int round trip = %#v, want 7", got)
	}
}
