package session

import "testing"

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleTeacher, RoleStudent} {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	for _, r := range []Role{"", "root", "Admin", "students"} {
		if r.Valid() {
			t.Errorf("%q should be invalid", r)
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := New()
	if s.Authenticated() || s.Current() != nil {
		t.Fatal("new session must be anonymous")
	}

	alice := &Identity{ID: 1, Username: "alice", Role: RoleStudent}
	s.Login(alice)
	if !s.Authenticated() || s.Current() != alice {
		t.Fatal("login did not take effect")
	}

	s.Logout()
	if s.Authenticated() || s.Current() != nil {
		t.Fatal("logout did not return the session to anonymous")
	}
}
