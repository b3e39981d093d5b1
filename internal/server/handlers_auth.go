package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"studentms/internal/dispatch"
	"studentms/internal/protocol"
	"studentms/internal/session"
	"studentms/internal/store"
)

const minPasswordLen = 6

// Fixed handler messages. Login failure is one message for both
// unknown username and wrong password.
const (
	msgBadCredentials   = "invalid username or password"
	msgPasswordTooShort = "password must be at least 6 characters"
	msgUsernameTaken    = "username already exists"
)

// HashPassword is the stored form of a password: hex sha256.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (s *Server) registerActions() {
	t := s.table

	t.RegisterOpen(ActionLogin, s.handleLogin)
	t.RegisterOpen(ActionRegister, s.handleRegister)
	t.Register(ActionLogout, s.handleLogout)
	t.Register(ActionChangePassword, s.handleChangePassword)

	t.Register(ActionGetAllUsers, s.handleGetAllUsers, session.RoleAdmin)
	t.Register(ActionSearchUsers, s.handleSearchUsers, session.RoleAdmin)
	t.Register(ActionGetUserByID, s.handleGetUserByID, session.RoleAdmin)
	t.Register(ActionUpdateUser, s.handleUpdateUser, session.RoleAdmin)
	t.Register(ActionDeleteUser, s.handleDeleteUser, session.RoleAdmin)

	t.Register(ActionGetStudentInfo, s.handleGetStudentInfo, session.RoleAdmin, session.RoleStudent)
	t.Register(ActionUpdateStudentInfo, s.handleUpdateStudentInfo, session.RoleAdmin, session.RoleStudent)
	t.Register(ActionGetMyScores, s.handleGetMyScores, session.RoleStudent)

	t.Register(ActionGetMyCourses, s.handleGetMyCourses, session.RoleTeacher)
	t.Register(ActionGetCourseScores, s.handleGetCourseScores, session.RoleTeacher)
	t.Register(ActionGetCourseStudents, s.handleGetCourseStudents, session.RoleTeacher)

	t.Register(ActionGetAllStudents, s.handleGetAllStudents, session.RoleAdmin)
	t.Register(ActionSearchStudents, s.handleSearchStudents, session.RoleAdmin)
	t.Register(ActionAddStudent, s.handleAddStudent, session.RoleAdmin)
	t.Register(ActionUpdateStudent, s.handleUpdateStudent, session.RoleAdmin)
	t.Register(ActionDeleteStudent, s.handleDeleteStudent, session.RoleAdmin)

	t.Register(ActionGetAllTeachers, s.handleGetAllTeachers, session.RoleAdmin)
	t.Register(ActionSearchTeachers, s.handleSearchTeachers, session.RoleAdmin)
	t.Register(ActionAddTeacher, s.handleAddTeacher, session.RoleAdmin)
	t.Register(ActionUpdateTeacher, s.handleUpdateTeacher, session.RoleAdmin)
	t.Register(ActionDeleteTeacher, s.handleDeleteTeacher, session.RoleAdmin)

	t.Register(ActionGetAllCourses, s.handleGetAllCourses, session.RoleAdmin)
	t.Register(ActionSearchCourses, s.handleSearchCourses, session.RoleAdmin)
	t.Register(ActionAddCourse, s.handleAddCourse, session.RoleAdmin)
	t.Register(ActionUpdateCourse, s.handleUpdateCourse, session.RoleAdmin)
	t.Register(ActionDeleteCourse, s.handleDeleteCourse, session.RoleAdmin)

	t.Register(ActionEnrollCourse, s.handleEnrollCourse, session.RoleStudent)
	t.Register(ActionDropCourse, s.handleDropCourse, session.RoleStudent)
	t.Register(ActionGetEnrolledCourses, s.handleGetEnrolledCourses, session.RoleStudent)
}

func (s *Server) handleLogin(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	username := params.String("username")
	password := params.String("password")

	u, err := s.st.UserByUsername(ctx, username)
	if err != nil {
		// Unknown username gets the exact same answer as a wrong
		// password; the caller learns nothing about which it was.
		return protocol.Fail(msgBadCredentials)
	}
	if u.PasswordHash != HashPassword(password) {
		return protocol.Fail(msgBadCredentials)
	}

	user := &session.Identity{
		ID:       u.ID,
		Username: u.Username,
		Role:     session.Role(u.Role),
		Name:     u.Name,
		Email:    u.Email,
	}
	return protocol.OK(map[string]any{"user": user})
}

func (s *Server) handleRegister(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	username := params.String("username")
	password := params.String("password")
	role := session.Role(params.String("role"))
	name := params.String("name")

	if username == "" || name == "" {
		return protocol.Fail("username and name are required")
	}
	if !role.Valid() {
		return protocol.Fail("invalid role")
	}
	if len(password) < minPasswordLen {
		return protocol.Fail(msgPasswordTooShort)
	}

	u := &store.User{
		Username:     username,
		PasswordHash: HashPassword(password),
		Role:         string(role),
		Name:         name,
		Email:        params.String("email"),
	}
	if err := s.st.CreateUser(ctx, u); err != nil {
		if err == store.ErrDuplicate {
			return protocol.Fail(msgUsernameTaken)
		}
		return protocol.Fail("registration failed")
	}
	// Registration does not log the caller in.
	return protocol.OKMessage("registration successful")
}

func (s *Server) handleLogout(ctx context.Context, _ *session.Identity, _ dispatch.Params) *protocol.Response {
	return protocol.OKMessage("logged out")
}

func (s *Server) handleChangePassword(ctx context.Context, caller *session.Identity, params dispatch.Params) *protocol.Response {
	newPassword := params.String("new_password")
	if len(newPassword) < minPasswordLen {
		return protocol.Fail(msgPasswordTooShort)
	}

	u, err := s.st.UserByID(ctx, caller.ID)
	if err != nil {
		return protocol.Fail("user not found")
	}
	if u.PasswordHash != HashPassword(params.String("old_password")) {
		return protocol.Fail("old password is incorrect")
	}

	hash := HashPassword(newPassword)
	result, err := s.st.UpdateUser(ctx, caller.ID, store.UserUpdate{PasswordHash: &hash})
	if err != nil {
		return protocol.Fail("failed to update password")
	}
	if result == store.NotFound {
		return protocol.Fail("user not found")
	}
	return protocol.OKMessage("password updated")
}
