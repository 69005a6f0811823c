package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testContract = `
name: users
fields:
  - {name: id, type: lenient_int, required: true}
  - {name: name, type: string, required: true}
  - {name: age, type: int, required: true}
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestValidate(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"c.yaml":  testContract,
		"ok.csv":  "id,name,age\n1,A,2\n2,B,3\n",
		"bad.csv": "id,name,age\n1,A,x\n2,B,3\n3,C,y\n",
	})
	var out, errOut bytes.Buffer
	c := filepath.Join(dir, "c.yaml")

	code := run(context.Background(), []string{"validate", "-contract", c, filepath.Join(dir, "ok.csv")}, &out, &errOut)
	if code != 0 || out.Len() != 0 {
		t.Fatalf("expected clean run, code=%d out=%q err=%q", code, out.String(), errOut.String())
	}

	code = run(context.Background(), []string{"validate", "-contract", c, filepath.Join(dir, "ok.csv"), filepath.Join(dir, "bad.csv")}, &out, &errOut)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two issue lines, got %q", out.String())
	}
	if !strings.Contains(lines[0], `"line":2`) || !strings.Contains(lines[0], `"path":"/age"`) {
		t.Fatalf("unexpected first issue: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"line":4`) {
		t.Fatalf("unexpected second issue: %s", lines[1])
	}

	out.Reset()
	code = run(context.Background(), []string{"validate", "-contract", c, "-fail-fast", filepath.Join(dir, "bad.csv")}, &out, &errOut)
	if code != 1 || strings.Count(out.String(), "\n") != 1 {
		t.Fatalf("fail-fast should stop at the first row, code=%d out=%q", code, out.String())
	}
}

func TestValidate_UnreadableFileKeepsOtherIssues(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"c.yaml":    testContract,
		"bad.csv":   "id,name,age\n1,A,x\n",
		"quote.csv": "id,name,age\n1,A,y\n2,\"B\"x,3\n",
	})
	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"validate", "-contract", filepath.Join(dir, "c.yaml"),
		filepath.Join(dir, "missing.csv"), filepath.Join(dir, "bad.csv"), filepath.Join(dir, "quote.csv")}, &out, &errOut)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "bad.csv") || !strings.Contains(lines[1], "quote.csv") {
		t.Fatalf("issues of readable rows must be printed, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "missing.csv") || !strings.Contains(errOut.String(), "quote.csv") {
		t.Fatalf("file errors must be logged, got %q", errOut.String())
	}
}

func TestConvertAndSchema(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"c.yaml": testContract,
		"in.csv": "id,name,age\n1,A,2\n",
	})
	var out, errOut bytes.Buffer
	c := filepath.Join(dir, "c.yaml")

	code := run(context.Background(), []string{"convert", "-contract", c, "-in", filepath.Join(dir, "in.csv")}, &out, &errOut)
	if code != 0 {
		t.Fatalf("convert failed: %s", errOut.String())
	}
	if got := strings.TrimSpace(out.String()); got != `{"age":2,"id":1,"name":"A"}` {
		t.Fatalf("unexpected convert output: %s", got)
	}

	out.Reset()
	code = run(context.Background(), []string{"schema", "-contract", c}, &out, &errOut)
	if code != 0 || !strings.Contains(out.String(), `"required"`) {
		t.Fatalf("unexpected schema output: code=%d %s", code, out.String())
	}
}

func TestUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run(context.Background(), nil, &out, &errOut); code != 2 {
		t.Fatalf("expected usage exit 2, got %d", code)
	}
	if code := run(context.Background(), []string{"validate"}, &out, &errOut); code != 2 {
		t.Fatalf("expected exit 2 without -contract, got %d", code)
	}
}
