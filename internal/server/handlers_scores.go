package server

import (
	"context"

	"studentms/internal/dispatch"
	"studentms/internal/protocol"
	"studentms/internal/session"
	"studentms/internal/store"
)

func (s *Server) handleGetMyScores(ctx context.Context, caller *session.Identity, params dispatch.Params) *protocol.Response {
	st, fail := s.callerStudent(ctx, caller)
	if fail != nil {
		return fail
	}
	scores, err := s.st.ScoresByStudentID(ctx, st.ID)
	if err != nil {
		return protocol.Fail("failed to get scores")
	}
	if sem := params.String("semester"); sem != "" {
		filtered := scores[:0]
		for _, sc := range scores {
			if sc.Semester == sem {
				filtered = append(filtered, sc)
			}
		}
		scores = filtered
	}
	return protocol.OK(map[string]any{
		"scores": scores,
		"gpa":    store.GPA(scores),
	})
}

// callerTeacher resolves the calling teacher's own record.
func (s *Server) callerTeacher(ctx context.Context, caller *session.Identity) (*store.Teacher, *protocol.Response) {
	t, err := s.st.TeacherByUserID(ctx, caller.ID)
	if err != nil {
		return nil, protocol.Fail("no teacher record for this account")
	}
	return t, nil
}

// teacherCourse loads a course and verifies it belongs to the caller.
// Teachers can only inspect offerings they teach.
func (s *Server) teacherCourse(ctx context.Context, caller *session.Identity, params dispatch.Params) (*store.Course, *protocol.Response) {
	t, fail := s.callerTeacher(ctx, caller)
	if fail != nil {
		return nil, fail
	}
	courseID, ok := params.Int64("course_id")
	if !ok {
		return nil, protocol.Fail("course_id is required")
	}
	c, err := s.st.CourseByID(ctx, courseID)
	if err != nil {
		return nil, protocol.Fail("course not found")
	}
	if c.TeacherID != t.ID {
		return nil, protocol.Fail("not your course")
	}
	return c, nil
}

func (s *Server) handleGetMyCourses(ctx context.Context, caller *session.Identity, _ dispatch.Params) *protocol.Response {
	t, fail := s.callerTeacher(ctx, caller)
	if fail != nil {
		return fail
	}
	courses, err := s.st.CoursesByTeacherID(ctx, t.ID)
	if err != nil {
		return protocol.Fail("failed to get courses")
	}
	return protocol.OK(map[string]any{"courses": courses})
}

func (s *Server) handleGetCourseScores(ctx context.Context, caller *session.Identity, params dispatch.Params) *protocol.Response {
	c, fail := s.teacherCourse(ctx, caller, params)
	if fail != nil {
		return fail
	}
	semester := params.String("semester")
	if semester == "" {
		semester = c.Semester
	}
	scores, err := s.st.ScoresByCourseAndSemester(ctx, c.ID, semester)
	if err != nil {
		return protocol.Fail("failed to get scores")
	}
	stats := store.Summarize(scores)
	return protocol.OK(map[string]any{
		"scores":     scores,
		"statistics": stats,
	})
}

func (s *Server) handleGetCourseStudents(ctx context.Context, caller *session.Identity, params dispatch.Params) *protocol.Response {
	c, fail := s.teacherCourse(ctx, caller, params)
	if fail != nil {
		return fail
	}
	semester := params.String("semester")
	if semester == "" {
		semester = c.Semester
	}
	students, err := s.st.StudentsByCourse(ctx, c.ID, semester)
	if err != nil {
		return protocol.Fail("failed to get students")
	}
	return protocol.OK(map[string]any{"students": students})
}
