package server

import (
	"context"

	"studentms/internal/dispatch"
	"studentms/internal/protocol"
	"studentms/internal/session"
	"studentms/internal/store"
)

// userView is the wire shape of a user record; the password hash never
// leaves the store layer.
func userView(u store.User) map[string]any {
	return map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"role":     u.Role,
		"name":     u.Name,
		"email":    u.Email,
	}
}

func userViews(users []store.User) []any {
	out := make([]any, len(users))
	for i, u := range users {
		out[i] = userView(u)
	}
	return out
}

func (s *Server) handleGetAllUsers(ctx context.Context, _ *session.Identity, _ dispatch.Params) *protocol.Response {
	users, err := s.st.AllUsers(ctx)
	if err != nil {
		return protocol.Fail("failed to get users")
	}
	return protocol.OK(map[string]any{"users": userViews(users)})
}

func (s *Server) handleSearchUsers(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	users, err := s.st.SearchUsers(ctx, params.String("keyword"))
	if err != nil {
		return protocol.Fail("failed to search users")
	}
	return protocol.OK(map[string]any{"users": userViews(users)})
}

func (s *Server) handleGetUserByID(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	id, ok := params.Int64("user_id")
	if !ok {
		return protocol.Fail("user_id is required")
	}
	u, err := s.st.UserByID(ctx, id)
	if err != nil {
		return protocol.Fail("user not found")
	}
	return protocol.OK(map[string]any{"user": userView(*u)})
}

func (s *Server) handleUpdateUser(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	id, ok := params.Int64("user_id")
	if !ok {
		return protocol.Fail("user_id is required")
	}

	upd := store.UserUpdate{
		Name:  params.OptString("name"),
		Email: params.OptString("email"),
	}
	if role := params.OptString("role"); role != nil {
		if !session.Role(*role).Valid() {
			return protocol.Fail("invalid role")
		}
		upd.Role = role
	}
	if password := params.OptString("password"); password != nil {
		if len(*password) < minPasswordLen {
			return protocol.Fail(msgPasswordTooShort)
		}
		hash := HashPassword(*password)
		upd.PasswordHash = &hash
	}

	result, err := s.st.UpdateUser(ctx, id, upd)
	if err != nil {
		return protocol.Fail("failed to update user")
	}
	if result == store.NotFound {
		return protocol.Fail("user not found")
	}
	return protocol.OKMessage("user updated")
}

func (s *Server) handleDeleteUser(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	id, ok := params.Int64("user_id")
	if !ok {
		return protocol.Fail("user_id is required")
	}
	result, err := s.st.DeleteUser(ctx, id)
	if err != nil {
		return protocol.Fail("failed to delete user")
	}
	if result == store.NotFound {
		return protocol.Fail("user not found")
	}
	return protocol.OKMessage("user deleted")
}
