package nullcheck

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jonwraymond/callwatch/callsite"
)

func TestCompile(t *testing.T) {
	method := callsite.NewMethod("example.Repo", "Find", "string", "int", "string", "bool")
	void := callsite.NewMethod("example.Repo", "Save", callsite.Void, "string")

	tests := []struct {
		name string
		sig  callsite.Signature
		rule Rule
		want Plan
	}{
		{"zero rule", method, Rule{}, Plan{}},
		{"positions sorted and deduplicated", method, Params(2, 0, 2), Plan{Positions: []int{0, 2}}},
		{"out of range positions dropped", method, Params(-1, 1, 3), Plan{Positions: []int{1}}},
		{"all params", method, Rule{AllParams: true}, Plan{Positions: []int{0, 1, 2}}},
		{"return checked", method, Rule{NotNullReturn: true}, Plan{Return: true}},
		{"void return never checked", void, Rule{NotNullReturn: true}, Plan{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compile(tt.sig, tt.rule)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
			}
			if got.Empty() != (len(tt.want.Positions) == 0 && !tt.want.Return) {
				t.Errorf("Empty() = %v", got.Empty())
			}
		})
	}
}

func TestCallRule(t *testing.T) {
	ctor := callsite.NewConstructor("example.Repo", "NewRepo", "string")
	method := callsite.NewMethod("example.Repo", "Find", "string", "int")

	if r := CallRule(ctor); !r.AllParams || r.NotNullReturn {
		t.Errorf("CallRule(constructor) = %+v, want all params", r)
	}
	if r := CallRule(method); r.AllParams || !r.NotNullReturn {
		t.Errorf("CallRule(method) = %+v, want return check", r)
	}
	if !(Rule{}).IsZero() || Params(0).IsZero() {
		t.Error("IsZero() mismatch")
	}
}
