package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/rbackit/role"
)

const sampleDocument = `
mode: whitelist
roles:
  - name: everyone
  - name: logged_user
    parents: [everyone]
  - name: staff
    parents: [logged_user]
rules:
  allow:
    - roles: [logged_user]
      methods: [GET]
      resource: articles
  deny:
    - roles: [everyone]
      methods: [POST]
      resource: articles
exempt: [static]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	doc, err := Load(writeFile(t, "policy.yml", sampleDocument))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Mode != "whitelist" {
		t.Errorf("expected whitelist mode, got %q", doc.Mode)
	}
	if len(doc.Roles) != 3 {
		t.Errorf("expected 3 roles, got %d", len(doc.Roles))
	}
	if len(doc.Rules.Allow) != 1 || len(doc.Rules.Deny) != 1 {
		t.Errorf("unexpected rule counts: %+v", doc.Rules)
	}
	if len(doc.Exempt) != 1 || doc.Exempt[0] != "static" {
		t.Errorf("unexpected exempt list: %v", doc.Exempt)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidMode(t *testing.T) {
	path := writeFile(t, "policy.yml", "mode: graylist\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for unknown mode")
	}
}

func TestLoadRejectsIncompleteRule(t *testing.T) {
	path := writeFile(t, "policy.yml", `
roles:
  - name: a
rules:
  allow:
    - roles: [a]
      resource: x
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for rule without methods")
	}
}

func TestModeEnvOverride(t *testing.T) {
	t.Setenv(ModeEnvVar, "blacklist")
	doc, err := Load(writeFile(t, "policy.yml", sampleDocument))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Mode != "blacklist" {
		t.Errorf("expected env override to blacklist, got %q", doc.Mode)
	}
}

func TestEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte(ModeEnvVar+"=blacklist\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	docPath := filepath.Join(dir, "policy.yml")
	if err := os.WriteFile(docPath, []byte(sampleDocument), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ModeEnvVar, "") // godotenv does not override existing vars
	os.Unsetenv(ModeEnvVar)

	doc, err := Load(docPath, WithEnvFile(envPath))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Mode != "blacklist" {
		t.Errorf("expected .env override to blacklist, got %q", doc.Mode)
	}
}

func TestBuild(t *testing.T) {
	doc, err := Load(writeFile(t, "policy.yml", sampleDocument))
	if err != nil {
		t.Fatal(err)
	}
	graph, p, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	staff, err := graph.Get("staff")
	if err != nil {
		t.Fatal(err)
	}
	everyone, err := graph.Get("everyone")
	if err != nil {
		t.Fatal(err)
	}

	// staff inherits the logged_user grant through its family.
	if !p.Permitted([]*role.Role{staff}, "GET", "articles") {
		t.Error("expected staff permitted GET articles")
	}
	if p.Permitted([]*role.Role{everyone}, "GET", "articles") {
		t.Error("everyone has no GET grant in whitelist mode")
	}
	if !p.Permitted([]*role.Role{everyone}, "GET", "static") {
		t.Error("exempt resource must bypass checking")
	}
	if p.Permitted([]*role.Role{staff}, "POST", "articles") {
		t.Error("POST deny on everyone reaches staff through its family")
	}
}

func TestBuildUnknownParent(t *testing.T) {
	doc := &Document{
		Roles: []RoleDef{{Name: "a", Parents: []string{"missing"}}},
	}
	if _, _, err := Build(doc); err == nil {
		t.Fatal("expected error for unknown parent role")
	}
}

func TestBuildCycle(t *testing.T) {
	doc := &Document{
		Roles: []RoleDef{
			{Name: "a", Parents: []string{"b"}},
			{Name: "b", Parents: []string{"a"}},
		},
	}
	if _, _, err := Build(doc); err == nil {
		t.Fatal("expected cycle error")
	}
}
