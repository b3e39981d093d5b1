package dispatch

import (
	"context"
	"testing"

	"studentms/internal/protocol"
	"studentms/internal/session"
)

func echoHandler(ctx context.Context, caller *session.Identity, params Params) *protocol.Response {
	return protocol.OKMessage("ok")
}

func newTestTable() *Table {
	t := NewTable()
	t.RegisterOpen("login", echoHandler)
	t.RegisterOpen("register", echoHandler)
	t.Register("logout", echoHandler)
	t.Register("get_all_users", echoHandler, session.RoleAdmin)
	t.Register("get_my_scores", echoHandler, session.RoleStudent)
	return t
}

func TestDispatchAnonymous(t *testing.T) {
	table := newTestTable()
	ctx := context.Background()

	tests := []struct {
		name        string
		action      string
		wantSuccess bool
		wantMessage string
	}{
		{name: "login is open", action: "login", wantSuccess: true},
		{name: "register is open", action: "register", wantSuccess: true},
		{name: "authenticated action rejected", action: "get_all_users", wantSuccess: false, wantMessage: MsgNotAuthenticated},
		{name: "unknown action rejected the same way", action: "no_such_action", wantSuccess: false, wantMessage: MsgNotAuthenticated},
		{name: "logout needs a session", action: "logout", wantSuccess: false, wantMessage: MsgNotAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := table.Dispatch(ctx, nil, &protocol.Request{Action: tt.action})
			if resp.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", resp.Success, tt.wantSuccess)
			}
			if tt.wantMessage != "" && resp.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", resp.Message, tt.wantMessage)
			}
		})
	}
}

func TestDispatchRoleGateIndistinguishable(t *testing.T) {
	table := newTestTable()
	ctx := context.Background()
	student := &session.Identity{ID: 1, Username: "s1", Role: session.RoleStudent}

	forbidden := table.Dispatch(ctx, student, &protocol.Request{Action: "get_all_users"})
	unknown := table.Dispatch(ctx, student, &protocol.Request{Action: "no_such_action"})

	if forbidden.Success || unknown.Success {
		t.Fatalf("forbidden/unknown actions must fail")
	}
	if forbidden.Message != unknown.Message {
		t.Errorf("role mismatch %q and unknown action %q must be indistinguishable",
			forbidden.Message, unknown.Message)
	}
	if forbidden.Message != MsgUnknownAction {
		t.Errorf("Message = %q, want %q", forbidden.Message, MsgUnknownAction)
	}
}

func TestDispatchAllowsMatchingRole(t *testing.T) {
	table := newTestTable()
	ctx := context.Background()

	admin := &session.Identity{ID: 1, Role: session.RoleAdmin}
	if resp := table.Dispatch(ctx, admin, &protocol.Request{Action: "get_all_users"}); !resp.Success {
		t.Errorf("admin calling admin action failed: %q", resp.Message)
	}

	// Role-free actions admit any authenticated caller.
	student := &session.Identity{ID: 2, Role: session.RoleStudent}
	if resp := table.Dispatch(ctx, student, &protocol.Request{Action: "logout"}); !resp.Success {
		t.Errorf("student calling role-free action failed: %q", resp.Message)
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	table := NewTable()
	table.RegisterOpen("boom", func(ctx context.Context, caller *session.Identity, params Params) *protocol.Response {
		panic("handler bug")
	})
	table.RegisterOpen("nil_response", func(ctx context.Context, caller *session.Identity, params Params) *protocol.Response {
		return nil
	})

	for _, action := range []string{"boom", "nil_response"} {
		resp := table.Dispatch(context.Background(), nil, &protocol.Request{Action: action})
		if resp == nil || resp.Success {
			t.Fatalf("%s: expected a failure response, got %+v", action, resp)
		}
		if resp.Message != MsgInternalError {
			t.Errorf("%s: Message = %q, want %q", action, resp.Message, MsgInternalError)
		}
	}
}

func TestParamsAccessors(t *testing.T) {
	p := Params{
		"user_id": float64(42),
		"name":    "Li Lei",
		"email":   nil,
	}

	if id, ok := p.Int64("user_id"); !ok || id != 42 {
		t.Errorf("Int64(user_id) = %d, %v", id, ok)
	}
	if _, ok := p.Int64("missing"); ok {
		t.Errorf("Int64(missing) reported ok")
	}
	if p.String("name") != "Li Lei" {
		t.Errorf("String(name) = %q", p.String("name"))
	}
	if p.Has("email") {
		t.Errorf("null value must not count as present")
	}
	if p.OptString("name") == nil {
		t.Errorf("OptString(name) = nil for present key")
	}
	if p.OptString("missing") != nil {
		t.Errorf("OptString(missing) != nil")
	}
}
