package api

import (
	"encoding/json"
	"strings"
	"testing"
)

const kernel = `
for (i, 0, 16) {
    for (j, 0, 16) {
        C[i, j] = C[i, j] + A[i, k] * B[k, j];
    }
}
`

func TestRewriteScoped(t *testing.T) {
	result := Rewrite(kernel, RewriteOptions{
		Substitutions: []Substitution{{Var: "i", With: "io * 4 + ii", Tensor: "A"}},
		Strict:        true,
	})

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	want := "for (i, 0, 16) {\n" +
		"    for (j, 0, 16) {\n" +
		"        C[i, j] = C[i, j] + A[io * 4 + ii, k] * B[k, j];\n" +
		"    }\n" +
		"}\n"
	if result.Code != want {
		t.Errorf("Code =\n%s\nwant\n%s", result.Code, want)
	}
	if result.Substitutions != 1 {
		t.Errorf("Substitutions = %d, want 1", result.Substitutions)
	}
	if result.OriginalSize != len(kernel) || result.OutputSize != len(result.Code) {
		t.Errorf("sizes %d/%d do not match input/output", result.OriginalSize, result.OutputSize)
	}
}

func TestSubstituteEverywhere(t *testing.T) {
	result := Substitute(kernel, "j", "jj", "")

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if !strings.Contains(result.Code, "for (jj, 0, 16)") {
		t.Errorf("loop over j should be renamed:\n%s", result.Code)
	}
	if strings.Contains(result.Code, ", j]") {
		t.Errorf("a use of j survived:\n%s", result.Code)
	}
}

func TestRewriteStmtForm(t *testing.T) {
	source := "for (i, 0, 4) {\n    let t = i;\n}\n"

	strict := Rewrite(source, RewriteOptions{
		Form:          "stmt",
		Substitutions: []Substitution{{Var: "i", With: "j"}},
		Strict:        true,
	})
	if len(strict.Errors) != 1 || !strings.Contains(strict.Errors[0], "Let statements") {
		t.Fatalf("Errors = %v, want one unsupported Let error", strict.Errors)
	}
	if strict.Code != source {
		t.Errorf("failed rewrite should return the source unchanged")
	}

	lenient := Rewrite(source, RewriteOptions{
		Form:          "stmt",
		Substitutions: []Substitution{{Var: "i", With: "j"}},
	})
	if len(lenient.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", lenient.Errors)
	}
	if lenient.Code != "for (j, 0, 4) {\n    let t = i;\n}\n" {
		t.Errorf("Code =\n%s", lenient.Code)
	}
	if len(lenient.Warnings) != 1 || !strings.Contains(lenient.Warnings[0], "Let statement passed through") {
		t.Errorf("Warnings = %q, want one for the let", lenient.Warnings)
	}
	if strict.Warnings != nil {
		t.Errorf("a failed rewrite has no warnings, got %q", strict.Warnings)
	}
}

func TestRewriteErrors(t *testing.T) {
	result := Rewrite("A[i] = ;", RewriteOptions{Strict: true})
	if len(result.Errors) != 1 || result.Errors[0] != "1:8: expected expression" {
		t.Errorf("Errors = %q", result.Errors)
	}

	result = Rewrite("A[i] = 0;", RewriteOptions{Form: "tree"})
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], `unknown form "tree"`) {
		t.Errorf("Errors = %q", result.Errors)
	}
	if result.Code != "A[i] = 0;" {
		t.Errorf("Code = %q, want the source", result.Code)
	}
}

func TestRewriteMinify(t *testing.T) {
	result := Rewrite("for (i, 0, n) { A[i] = B[i] + 1; }", RewriteOptions{
		Substitutions:    []Substitution{{Var: "n", With: "8"}},
		MinifyWhitespace: true,
		Strict:           true,
	})
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Code != "for(i,0,8){A[i]=B[i]+1;}" {
		t.Errorf("Code = %q", result.Code)
	}
}

func TestCollect(t *testing.T) {
	result := Collect(kernel, CollectOptions{Tensor: "C"})
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	// The store target is not a load; only the load on the right is collected.
	if len(result.Indices) != 1 || result.Indices[0] != "[i, j]" {
		t.Errorf("Indices = %q", result.Indices)
	}

	result = Collect(kernel, CollectOptions{Tensor: "B", Form: "stmt"})
	if len(result.Indices) != 1 || result.Indices[0] != "[k, j]" {
		t.Errorf("Indices = %q", result.Indices)
	}

	result = Collect(kernel, CollectOptions{Tensor: "C", Form: "tree"})
	if len(result.Errors) != 1 || result.Indices == nil {
		t.Errorf("bad form should give one error and an empty list, got %+v", result)
	}
}

func TestJSONShape(t *testing.T) {
	var opts RewriteOptions
	input := `{"form":"stmt","strict":true,"substitutions":[{"var":"i","with":"0","tensor":"A"}]}`
	if err := json.Unmarshal([]byte(input), &opts); err != nil {
		t.Fatal(err)
	}
	if opts.Form != "stmt" || !opts.Strict || len(opts.Substitutions) != 1 || opts.Substitutions[0].Tensor != "A" {
		t.Errorf("decoded %+v", opts)
	}

	out, err := json.Marshal(Collect("A[x] = B[y];", CollectOptions{Tensor: "B"}))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"indices":["[y]"],"errors":[]}` {
		t.Errorf("marshaled %s", out)
	}
}
