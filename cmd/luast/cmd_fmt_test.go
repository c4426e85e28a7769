package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFmtWriteRewritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.lua")
	if err := os.WriteFile(path, []byte("local   x=1"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newFmtCmd()
	cmd.SetArgs([]string{"-w", path})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "local x = 1\n" {
		t.Errorf("rewritten file = %q", got)
	}
}

func TestFmtWriteRefusesComments(t *testing.T) {
	src := "-- keep me\nlocal   x=1 --[==[ and me ]==]\n"
	path := filepath.Join(t.TempDir(), "b.lua")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newFmtCmd()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs([]string{"-w", path})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "would drop its comments") {
		t.Fatalf("err = %v, want a refusal", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != src {
		t.Errorf("file changed to %q", got)
	}
}
