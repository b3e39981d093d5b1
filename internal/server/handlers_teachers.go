package server

import (
	"context"

	"studentms/internal/dispatch"
	"studentms/internal/protocol"
	"studentms/internal/session"
	"studentms/internal/store"
)

func (s *Server) handleGetAllTeachers(ctx context.Context, _ *session.Identity, _ dispatch.Params) *protocol.Response {
	teachers, err := s.st.AllTeachers(ctx)
	if err != nil {
		return protocol.Fail("failed to get teachers")
	}
	return protocol.OK(map[string]any{"teachers": teachers})
}

func (s *Server) handleSearchTeachers(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	teachers, err := s.st.SearchTeachers(ctx, params.String("keyword"))
	if err != nil {
		return protocol.Fail("failed to search teachers")
	}
	return protocol.OK(map[string]any{"teachers": teachers})
}

func applyTeacherParams(t *store.Teacher, params dispatch.Params) {
	if v := params.OptString("name"); v != nil {
		t.Name = *v
	}
	if v := params.OptString("gender"); v != nil {
		t.Gender = *v
	}
	if v := params.OptString("title"); v != nil {
		t.Title = *v
	}
	if v := params.OptString("department"); v != nil {
		t.Department = *v
	}
}

func (s *Server) handleAddTeacher(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	t := &store.Teacher{
		TeacherNo:  params.String("teacher_id"),
		Name:       params.String("name"),
		Gender:     params.String("gender"),
		Title:      params.String("title"),
		Department: params.String("department"),
	}
	if t.TeacherNo == "" || t.Name == "" {
		return protocol.Fail("teacher_id and name are required")
	}
	if userID, ok := params.Int64("user_id"); ok {
		t.UserID = userID
	}

	if err := s.st.CreateTeacher(ctx, t); err != nil {
		if err == store.ErrDuplicate {
			return protocol.Fail("teacher already exists")
		}
		return protocol.Fail("failed to add teacher")
	}
	return protocol.OK(map[string]any{"teacher": t})
}

func (s *Server) handleUpdateTeacher(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	t, err := s.st.TeacherByNo(ctx, params.String("teacher_id"))
	if err != nil {
		return protocol.Fail("teacher not found")
	}

	applyTeacherParams(t, params)
	result, err := s.st.UpdateTeacher(ctx, t)
	if err != nil {
		return protocol.Fail("failed to update teacher")
	}
	if result == store.NotFound {
		return protocol.Fail("teacher not found")
	}
	return protocol.OKMessage("teacher updated")
}

func (s *Server) handleDeleteTeacher(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	result, err := s.st.DeleteTeacher(ctx, params.String("teacher_id"))
	if err != nil {
		return protocol.Fail("failed to delete teacher")
	}
	if result == store.NotFound {
		return protocol.Fail("teacher not found")
	}
	return protocol.OKMessage("teacher deleted")
}
