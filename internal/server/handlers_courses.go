package server

import (
	"context"

	"studentms/internal/dispatch"
	"studentms/internal/protocol"
	"studentms/internal/session"
	"studentms/internal/store"
)

func (s *Server) handleGetAllCourses(ctx context.Context, _ *session.Identity, _ dispatch.Params) *protocol.Response {
	courses, err := s.st.AllCourses(ctx)
	if err != nil {
		return protocol.Fail("failed to get courses")
	}
	return protocol.OK(map[string]any{"courses": courses})
}

func (s *Server) handleSearchCourses(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	courses, err := s.st.SearchCourses(ctx, params.String("keyword"))
	if err != nil {
		return protocol.Fail("failed to search courses")
	}
	return protocol.OK(map[string]any{"courses": courses})
}

func (s *Server) handleAddCourse(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	c := &store.Course{
		Code:      params.String("code"),
		Name:      params.String("name"),
		Semester:  params.String("semester"),
		ClassTime: params.String("time"),
	}
	if c.Code == "" || c.Name == "" {
		return protocol.Fail("code and name are required")
	}
	if credits, ok := params.Float64("credit"); ok {
		c.Credits = credits
	}
	if teacherID, ok := params.Int64("teacher_id"); ok {
		c.TeacherID = teacherID
	}

	if err := s.st.CreateCourse(ctx, c); err != nil {
		if err == store.ErrDuplicate {
			return protocol.Fail("course already exists")
		}
		return protocol.Fail("failed to add course")
	}
	return protocol.OK(map[string]any{"course": c})
}

func (s *Server) handleUpdateCourse(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	courseID, ok := params.Int64("course_id")
	if !ok {
		return protocol.Fail("course_id is required")
	}
	c, err := s.st.CourseByID(ctx, courseID)
	if err != nil {
		return protocol.Fail("course not found")
	}

	if v := params.OptString("code"); v != nil {
		c.Code = *v
	}
	if v := params.OptString("name"); v != nil {
		c.Name = *v
	}
	if v := params.OptString("semester"); v != nil {
		c.Semester = *v
	}
	if v := params.OptString("time"); v != nil {
		c.ClassTime = *v
	}
	if credits, ok := params.Float64("credit"); ok {
		c.Credits = credits
	}
	if teacherID, ok := params.Int64("teacher_id"); ok {
		c.TeacherID = teacherID
	}

	result, err := s.st.UpdateCourse(ctx, c)
	if err != nil {
		return protocol.Fail("failed to update course")
	}
	if result == store.NotFound {
		return protocol.Fail("course not found")
	}
	return protocol.OKMessage("course updated")
}

func (s *Server) handleDeleteCourse(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	courseID, ok := params.Int64("course_id")
	if !ok {
		return protocol.Fail("course_id is required")
	}
	result, err := s.st.DeleteCourse(ctx, courseID)
	if err != nil {
		return protocol.Fail("failed to delete course")
	}
	if result == store.NotFound {
		return protocol.Fail("course not found")
	}
	return protocol.OKMessage("course deleted")
}
