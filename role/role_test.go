package role

import (
	"errors"
	"testing"
)

func names(roles []*Role) map[string]bool {
	m := make(map[string]bool, len(roles))
	for _, r := range roles {
		m[r.Name()] = true
	}
	return m
}

// fixture builds the reference hierarchy:
// everyone ← logged_role ← staff_role (arrows point parent → child).
func fixture(t *testing.T) (*Graph, *Role, *Role, *Role) {
	t.Helper()
	g := NewGraph()
	everyone := g.Define("everyone")
	logged := g.Define("logged_role")
	staff := g.Define("staff_role")
	if err := logged.AddParent(everyone); err != nil {
		t.Fatalf("AddParent: %v", err)
	}
	if err := staff.AddParents(everyone, logged); err != nil {
		t.Fatalf("AddParents: %v", err)
	}
	return g, everyone, logged, staff
}

func TestAddParent(t *testing.T) {
	g := NewGraph()
	child := g.Define("child")
	parent := g.Define("parent")
	if err := child.AddParent(parent); err != nil {
		t.Fatalf("AddParent: %v", err)
	}
	if !names(child.Parents())["parent"] {
		t.Error("expected parent in child's parents")
	}
	if !names(parent.Children())["child"] {
		t.Error("expected child in parent's children (inverse edge)")
	}
}

func TestFamilyReflexive(t *testing.T) {
	g, everyone, logged, staff := fixture(t)
	_ = g
	for _, r := range []*Role{everyone, logged, staff} {
		if !names(r.Family())[r.Name()] {
			t.Errorf("expected %s in its own family", r.Name())
		}
	}
}

func TestFamily(t *testing.T) {
	_, everyone, logged, staff := fixture(t)
	tests := []struct {
		role *Role
		want []string
	}{
		{everyone, []string{"everyone"}},
		{logged, []string{"everyone", "logged_role"}},
		{staff, []string{"everyone", "logged_role", "staff_role"}},
	}
	for _, tc := range tests {
		t.Run(tc.role.Name(), func(t *testing.T) {
			got := names(tc.role.Family())
			if len(got) != len(tc.want) {
				t.Fatalf("family of %s = %v, want %v", tc.role.Name(), got, tc.want)
			}
			for _, w := range tc.want {
				if !got[w] {
					t.Errorf("expected %s in family of %s", w, tc.role.Name())
				}
			}
		})
	}
}

func TestAncestorsExcludeSelf(t *testing.T) {
	_, _, logged, _ := fixture(t)
	got := names(logged.Ancestors())
	if got["logged_role"] {
		t.Error("ancestors must not include the role itself")
	}
	if !got["everyone"] {
		t.Error("expected everyone in ancestors of logged_role")
	}
}

func TestDescendants(t *testing.T) {
	_, everyone, logged, _ := fixture(t)
	got := names(everyone.Descendants())
	if !got["logged_role"] || !got["staff_role"] {
		t.Errorf("descendants of everyone = %v, want logged_role and staff_role", got)
	}
	if got["everyone"] {
		t.Error("descendants must not include the role itself")
	}
	if !names(logged.Descendants())["staff_role"] {
		t.Error("expected staff_role in descendants of logged_role")
	}
}

func TestDiamondTraversal(t *testing.T) {
	g := NewGraph()
	base := g.Define("base")
	left := g.Define("left")
	right := g.Define("right")
	tip := g.Define("tip")
	for _, err := range []error{
		left.AddParent(base),
		right.AddParent(base),
		tip.AddParents(left, right),
	} {
		if err != nil {
			t.Fatalf("edge insertion: %v", err)
		}
	}
	fam := tip.Family()
	if len(fam) != 4 {
		t.Fatalf("expected 4 roles in family through diamond, got %d", len(fam))
	}
}

func TestAddParentRejectsSelf(t *testing.T) {
	g := NewGraph()
	r := g.Define("solo")
	if err := r.AddParent(r); !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle for self edge, got %v", err)
	}
}

func TestAddParentRejectsCycle(t *testing.T) {
	_, everyone, _, staff := fixture(t)
	// staff_role is a descendant of everyone, so this edge would loop.
	if err := everyone.AddParent(staff); !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
	// Graph must be unchanged after the rejected insertion.
	if names(everyone.Parents())["staff_role"] {
		t.Error("rejected edge must not be inserted")
	}
}

func TestGraphGet(t *testing.T) {
	g, _, _, _ := fixture(t)
	if _, err := g.Get("staff_role"); err != nil {
		t.Fatalf("Get(staff_role): %v", err)
	}
	if _, err := g.Get("missing"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestGraphAnonymous(t *testing.T) {
	g := NewGraph()
	anon, err := g.Get(AnonymousName)
	if err != nil {
		t.Fatalf("Get(anonymous): %v", err)
	}
	if anon != g.Anonymous() {
		t.Error("reserved name must resolve to the built-in anonymous role")
	}
	if len(anon.Parents()) != 0 {
		t.Error("anonymous role must have no parents")
	}
	// Anonymous is not part of the enumerable role universe.
	if names(g.All())[AnonymousName] {
		t.Error("All() must not include anonymous")
	}
}

func TestDefineIdempotent(t *testing.T) {
	g := NewGraph()
	a := g.Define("dup")
	b := g.Define("dup")
	if a != b {
		t.Error("Define must return the existing role for a known name")
	}
	if len(g.All()) != 1 {
		t.Errorf("expected 1 role, got %d", len(g.All()))
	}
}

func TestStaticUser(t *testing.T) {
	g, _, logged, _ := fixture(t)
	_ = g
	u := NewStaticUser(logged)
	got := names(u.Roles())
	if !got["logged_role"] || len(got) != 1 {
		t.Errorf("unexpected user roles: %v", got)
	}
}

func TestUserFunc(t *testing.T) {
	_, _, _, staff := fixture(t)
	u := UserFunc(func() []*Role { return []*Role{staff} })
	if !names(u.Roles())["staff_role"] {
		t.Error("expected staff_role from UserFunc")
	}
}
