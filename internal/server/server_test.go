package server

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"studentms/internal/client"
	"studentms/internal/dispatch"
	"studentms/internal/log_service"
	"studentms/internal/protocol"
	"studentms/internal/session"
	"studentms/internal/store"
	"studentms/internal/store/inmemory"
)

type testEnv struct {
	srv *Server
	st  *inmemory.InMemoryStore
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	st := inmemory.NewInMemoryStore()
	seedTestData(t, st)

	srv := New("127.0.0.1:0", st, log_service.NewZapLogService("test", "ERROR"))
	if err := srv.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })
	return &testEnv{srv: srv, st: st}
}

func seedTestData(t *testing.T, st *inmemory.InMemoryStore) {
	t.Helper()
	ctx := context.Background()

	admin := &store.User{Username: "admin", PasswordHash: HashPassword("admin123"), Role: "admin", Name: "Admin"}
	if err := st.CreateUser(ctx, admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	aliceUser := &store.User{Username: "alice", PasswordHash: HashPassword("alice123"), Role: "student", Name: "Alice"}
	if err := st.CreateUser(ctx, aliceUser); err != nil {
		t.Fatalf("seed alice user: %v", err)
	}
	alice := &store.Student{StudentNo: "S001", Name: "Alice", Major: "CS", UserID: aliceUser.ID}
	if err := st.CreateStudent(ctx, alice); err != nil {
		t.Fatalf("seed alice: %v", err)
	}

	bobUser := &store.User{Username: "bob", PasswordHash: HashPassword("bob123"), Role: "teacher", Name: "Bob"}
	if err := st.CreateUser(ctx, bobUser); err != nil {
		t.Fatalf("seed bob user: %v", err)
	}
	bob := &store.Teacher{TeacherNo: "T001", Name: "Bob", UserID: bobUser.ID}
	if err := st.CreateTeacher(ctx, bob); err != nil {
		t.Fatalf("seed bob: %v", err)
	}

	courses := []*store.Course{
		{Code: "CS101", Name: "Algorithms", Credits: 4, TeacherID: bob.ID, Semester: "2026S", ClassTime: "Mon 10:00-11:40"},
		{Code: "CS102", Name: "Databases", Credits: 3, TeacherID: bob.ID, Semester: "2026S", ClassTime: "Mon 11:00-12:40"},
		{Code: "CS103", Name: "Networks", Credits: 3, TeacherID: bob.ID, Semester: "2026S", ClassTime: "Tue 08:00-09:40"},
	}
	for _, c := range courses {
		if err := st.CreateCourse(ctx, c); err != nil {
			t.Fatalf("seed course %s: %v", c.Code, err)
		}
	}

	st.AddScore(store.Score{StudentID: alice.ID, CourseID: courses[0].ID, Score: 92, Semester: "2025F"})
	st.AddScore(store.Score{StudentID: alice.ID, CourseID: courses[2].ID, Score: 78, Semester: "2025F"})
}

func dial(t *testing.T, env *testEnv) *client.Client {
	t.Helper()
	c := client.New(env.srv.Addr())
	if err := c.Connect(); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func login(t *testing.T, c *client.Client, username, password string) {
	t.Helper()
	resp := c.Login(username, password)
	if !resp.Success {
		t.Fatalf("login %s failed: %s", username, resp.Message)
	}
}

func TestLoginSecrecy(t *testing.T) {
	env := setupTestServer(t)
	c := dial(t, env)

	unknownUser := c.Login("nobody", "whatever")
	wrongPassword := c.Login("alice", "wrong")
	if unknownUser.Success || wrongPassword.Success {
		t.Fatal("bad credentials accepted")
	}
	if unknownUser.Message != wrongPassword.Message {
		t.Errorf("unknown user and wrong password must be indistinguishable: %q vs %q",
			unknownUser.Message, wrongPassword.Message)
	}
}

func TestLoginLogoutFlow(t *testing.T) {
	env := setupTestServer(t)
	c := dial(t, env)

	login(t, c, "alice", "alice123")
	user := c.CurrentUser()
	if user == nil || user["role"] != "student" {
		t.Fatalf("unexpected current user: %v", user)
	}

	if resp := c.GetEnrolledCourses(""); !resp.Success {
		t.Fatalf("student action after login failed: %s", resp.Message)
	}

	if resp := c.Logout(); !resp.Success {
		t.Fatalf("logout failed: %s", resp.Message)
	}
	if resp := c.GetEnrolledCourses(""); resp.Success || resp.Message != dispatch.MsgNotAuthenticated {
		t.Errorf("after logout expected %q, got success=%v message=%q",
			dispatch.MsgNotAuthenticated, resp.Success, resp.Message)
	}
}

func TestAnonymousGating(t *testing.T) {
	env := setupTestServer(t)
	c := dial(t, env)

	for _, action := range []string{ActionGetAllUsers, ActionGetMyScores, "no_such_action"} {
		resp := c.Do(action, nil)
		if resp.Success || resp.Message != dispatch.MsgNotAuthenticated {
			t.Errorf("anonymous %s: expected %q, got success=%v message=%q",
				action, dispatch.MsgNotAuthenticated, resp.Success, resp.Message)
		}
	}
}

func TestRoleGateIndistinguishable(t *testing.T) {
	env := setupTestServer(t)
	c := dial(t, env)
	login(t, c, "alice", "alice123")

	adminOnly := c.GetAllUsers()
	unknown := c.Do("no_such_action", nil)
	if adminOnly.Success || unknown.Success {
		t.Fatal("gated actions must not succeed")
	}
	if adminOnly.Message != unknown.Message {
		t.Errorf("role mismatch and unknown action must be indistinguishable: %q vs %q",
			adminOnly.Message, unknown.Message)
	}
	if adminOnly.Message != dispatch.MsgUnknownAction {
		t.Errorf("expected %q, got %q", dispatch.MsgUnknownAction, adminOnly.Message)
	}
}

func TestSessionIsolation(t *testing.T) {
	env := setupTestServer(t)
	c1 := dial(t, env)
	c2 := dial(t, env)

	login(t, c1, "alice", "alice123")

	// c2 never logged in; c1's session must not leak to it.
	if resp := c2.GetMyScores(""); resp.Success || resp.Message != dispatch.MsgNotAuthenticated {
		t.Errorf("second connection inherited a session: success=%v message=%q", resp.Success, resp.Message)
	}
	if resp := c1.GetMyScores(""); !resp.Success {
		t.Errorf("first connection lost its session: %s", resp.Message)
	}
}

func TestEnrollmentConflicts(t *testing.T) {
	env := setupTestServer(t)
	c := dial(t, env)
	login(t, c, "alice", "alice123")

	courses, err := env.st.AllCourses(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	byCode := map[string]store.Course{}
	for _, course := range courses {
		byCode[course.Code] = course
	}

	if resp := c.EnrollCourse(byCode["CS101"].ID, ""); !resp.Success {
		t.Fatalf("first enrollment failed: %s", resp.Message)
	}

	// CS102 overlaps CS101 on Monday.
	resp := c.EnrollCourse(byCode["CS102"].ID, "")
	if resp.Success {
		t.Fatal("conflicting enrollment accepted")
	}
	if !strings.Contains(resp.Message, "time conflict with Algorithms") {
		t.Errorf("conflict reason should name the course: %q", resp.Message)
	}

	// CS103 is on Tuesday, no conflict.
	if resp := c.EnrollCourse(byCode["CS103"].ID, ""); !resp.Success {
		t.Fatalf("non-conflicting enrollment failed: %s", resp.Message)
	}

	if resp := c.EnrollCourse(byCode["CS101"].ID, ""); resp.Success {
		t.Fatal("duplicate enrollment accepted")
	}

	if resp := c.DropCourse(byCode["CS101"].ID, ""); !resp.Success {
		t.Fatalf("drop failed: %s", resp.Message)
	}
	if resp := c.DropCourse(byCode["CS101"].ID, ""); resp.Success {
		t.Fatal("dropping a course twice succeeded")
	}

	// With CS101 gone, CS102 fits.
	if resp := c.EnrollCourse(byCode["CS102"].ID, ""); !resp.Success {
		t.Fatalf("enrollment after drop failed: %s", resp.Message)
	}
}

func TestStudentScoresAndGPA(t *testing.T) {
	env := setupTestServer(t)
	c := dial(t, env)
	login(t, c, "alice", "alice123")

	resp := c.GetMyScores("")
	if !resp.Success {
		t.Fatalf("get_my_scores failed: %s", resp.Message)
	}
	scores, ok := resp.Data["scores"].([]any)
	if !ok || len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %v", resp.Data["scores"])
	}
	if _, ok := resp.Data["gpa"].(float64); !ok {
		t.Errorf("expected numeric gpa, got %v", resp.Data["gpa"])
	}
}

func TestTeacherCourseOwnership(t *testing.T) {
	env := setupTestServer(t)
	c := dial(t, env)
	login(t, c, "bob", "bob123")

	resp := c.GetMyCourses()
	if !resp.Success {
		t.Fatalf("get_my_courses failed: %s", resp.Message)
	}
	courses, ok := resp.Data["courses"].([]any)
	if !ok || len(courses) != 3 {
		t.Fatalf("expected 3 courses, got %v", resp.Data["courses"])
	}

	first := courses[0].(map[string]any)
	courseID := int64(first["id"].(float64))
	if resp := c.GetCourseScores(courseID, "2025F"); !resp.Success {
		t.Fatalf("get_course_scores failed: %s", resp.Message)
	}

	// A course id that exists but belongs to nobody else doesn't apply
	// here, so check against a missing one.
	if resp := c.GetCourseScores(9999, ""); resp.Success {
		t.Error("scores for a missing course reported success")
	}
}

func TestAdminUserManagement(t *testing.T) {
	env := setupTestServer(t)
	c := dial(t, env)
	login(t, c, "admin", "admin123")

	resp := c.GetAllUsers()
	if !resp.Success {
		t.Fatalf("get_all_users failed: %s", resp.Message)
	}
	users, ok := resp.Data["users"].([]any)
	if !ok || len(users) != 3 {
		t.Fatalf("expected 3 users, got %v", resp.Data["users"])
	}
	for _, u := range users {
		m := u.(map[string]any)
		for key := range m {
			if strings.Contains(strings.ToLower(key), "password") {
				t.Errorf("user listing leaks %q", key)
			}
		}
	}
}

func TestRequestOrdering(t *testing.T) {
	st := inmemory.NewInMemoryStore()
	srv := New("127.0.0.1:0", st, log_service.NewZapLogService("test", "ERROR"))

	release := make(chan struct{})
	srv.Table().RegisterOpen("slow", func(ctx context.Context, _ *session.Identity, _ dispatch.Params) *protocol.Response {
		<-release
		return protocol.OKMessage("slow done")
	})
	srv.Table().RegisterOpen("fast", func(ctx context.Context, _ *session.Identity, _ dispatch.Params) *protocol.Response {
		return protocol.OKMessage("fast done")
	})

	if err := srv.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	defer srv.Stop()

	conn, err := net.Dial("tcp", srv.Addr())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	// Pipeline both requests, then unblock the slow one. Responses must
	// come back in request order.
	if err := protocol.Write(conn, protocol.Request{Action: "slow"}); err != nil {
		t.Fatal(err)
	}
	if err := protocol.Write(conn, protocol.Request{Action: "fast"}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)

	var first, second protocol.Response
	if err := protocol.Decode(conn, &first); err != nil {
		t.Fatalf("first response: %v", err)
	}
	if err := protocol.Decode(conn, &second); err != nil {
		t.Fatalf("second response: %v", err)
	}
	if first.Message != "slow done" || second.Message != "fast done" {
		t.Errorf("responses out of order: %q then %q", first.Message, second.Message)
	}
}

func TestPanicRecovery(t *testing.T) {
	st := inmemory.NewInMemoryStore()
	srv := New("127.0.0.1:0", st, log_service.NewZapLogService("test", "ERROR"))
	srv.Table().RegisterOpen("boom", func(ctx context.Context, _ *session.Identity, _ dispatch.Params) *protocol.Response {
		panic("handler exploded")
	})
	if err := srv.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	defer srv.Stop()

	c := client.New(srv.Addr())
	if err := c.Connect(); err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	resp := c.Do("boom", nil)
	if resp.Success || resp.Message != dispatch.MsgInternalError {
		t.Errorf("expected %q, got success=%v message=%q", dispatch.MsgInternalError, resp.Success, resp.Message)
	}

	// The connection survives a handler panic.
	if resp := c.Do("boom", nil); resp.Success {
		t.Error("second request on same connection did not fail as expected")
	}
}

func TestMalformedPayloadDropsConnection(t *testing.T) {
	env := setupTestServer(t)

	conn, err := net.Dial("tcp", env.srv.Addr())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	// A well-framed but non-JSON payload is a framing fault: the server
	// closes the connection without answering.
	payload := []byte("not json at all")
	frame := append([]byte{0, 0, 0, byte(len(payload))}, payload...)
	if _, err := conn.Write(frame); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp protocol.Response
	if err := protocol.Decode(conn, &resp); err == nil {
		t.Fatalf("expected dropped connection, got response %+v", resp)
	}
}

func TestRegisterAndChangePassword(t *testing.T) {
	env := setupTestServer(t)
	c := dial(t, env)

	if resp := c.Register("carol", "short", "student", "Carol", ""); resp.Success {
		t.Error("short password accepted")
	}
	if resp := c.Register("carol", "carol123", "student", "Carol", "carol@example.com"); !resp.Success {
		t.Fatalf("register failed: %s", resp.Message)
	}
	if resp := c.Register("carol", "carol123", "student", "Carol", ""); resp.Success {
		t.Error("duplicate username accepted")
	}

	// Registration does not log in.
	if resp := c.GetMyScores(""); resp.Success || resp.Message != dispatch.MsgNotAuthenticated {
		t.Errorf("register should not authenticate: success=%v message=%q", resp.Success, resp.Message)
	}

	login(t, c, "carol", "carol123")
	if resp := c.ChangePassword("wrong", "newpass123"); resp.Success {
		t.Error("change_password accepted a wrong old password")
	}
	if resp := c.ChangePassword("carol123", "newpass123"); !resp.Success {
		t.Fatalf("change_password failed: %s", resp.Message)
	}

	if resp := c.Logout(); !resp.Success {
		t.Fatalf("logout failed: %s", resp.Message)
	}
	if resp := c.Login("carol", "carol123"); resp.Success {
		t.Error("old password still valid after change")
	}
	login(t, c, "carol", "newpass123")
}
