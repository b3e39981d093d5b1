package server

import (
	"context"

	"studentms/internal/dispatch"
	"studentms/internal/protocol"
	"studentms/internal/schedule"
	"studentms/internal/session"
	"studentms/internal/store"
)

func (s *Server) handleEnrollCourse(ctx context.Context, caller *session.Identity, params dispatch.Params) *protocol.Response {
	st, fail := s.callerStudent(ctx, caller)
	if fail != nil {
		return fail
	}
	courseID, ok := params.Int64("course_id")
	if !ok {
		return protocol.Fail("course_id is required")
	}
	c, err := s.st.CourseByID(ctx, courseID)
	if err != nil {
		return protocol.Fail("course not found")
	}
	semester := params.String("semester")
	if semester == "" {
		semester = c.Semester
	}

	existing, err := s.st.EnrollmentsByStudent(ctx, st.ID, semester)
	if err != nil {
		return protocol.Fail("failed to check enrollments")
	}
	enrollments := make([]schedule.Enrollment, 0, len(existing))
	for _, e := range existing {
		if e.CourseID == c.ID {
			return protocol.Fail("already enrolled in this course")
		}
		enrollments = append(enrollments, schedule.Enrollment{
			CourseName: e.CourseName,
			ClassTime:  e.ClassTime,
		})
	}
	if conflict, reason := schedule.HasConflict(c.ClassTime, enrollments); conflict {
		return protocol.Fail(reason)
	}

	if err := s.st.Enroll(ctx, st.ID, c.ID, semester); err != nil {
		if err == store.ErrDuplicate {
			return protocol.Fail("already enrolled in this course")
		}
		return protocol.Fail("failed to enroll")
	}
	return protocol.OKMessage("enrolled in " + c.Name)
}

func (s *Server) handleDropCourse(ctx context.Context, caller *session.Identity, params dispatch.Params) *protocol.Response {
	st, fail := s.callerStudent(ctx, caller)
	if fail != nil {
		return fail
	}
	courseID, ok := params.Int64("course_id")
	if !ok {
		return protocol.Fail("course_id is required")
	}
	semester := params.String("semester")
	if semester == "" {
		if c, err := s.st.CourseByID(ctx, courseID); err == nil {
			semester = c.Semester
		}
	}

	result, err := s.st.Unenroll(ctx, st.ID, courseID, semester)
	if err != nil {
		return protocol.Fail("failed to drop course")
	}
	if result == store.NotFound {
		return protocol.Fail("not enrolled in this course")
	}
	return protocol.OKMessage("course dropped")
}

func (s *Server) handleGetEnrolledCourses(ctx context.Context, caller *session.Identity, params dispatch.Params) *protocol.Response {
	st, fail := s.callerStudent(ctx, caller)
	if fail != nil {
		return fail
	}
	courses, err := s.st.EnrollmentsByStudent(ctx, st.ID, params.String("semester"))
	if err != nil {
		return protocol.Fail("failed to get enrolled courses")
	}
	return protocol.OK(map[string]any{"courses": courses})
}
