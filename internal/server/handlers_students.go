package server

import (
	"context"

	"studentms/internal/dispatch"
	"studentms/internal/protocol"
	"studentms/internal/session"
	"studentms/internal/store"
)

// callerStudent resolves the calling student's own record. Student
// callers are always scoped to themselves regardless of parameters.
func (s *Server) callerStudent(ctx context.Context, caller *session.Identity) (*store.Student, *protocol.Response) {
	st, err := s.st.StudentByUserID(ctx, caller.ID)
	if err != nil {
		return nil, protocol.Fail("no student record for this account")
	}
	return st, nil
}

func (s *Server) handleGetStudentInfo(ctx context.Context, caller *session.Identity, params dispatch.Params) *protocol.Response {
	var st *store.Student
	if caller.Role == session.RoleStudent {
		var fail *protocol.Response
		st, fail = s.callerStudent(ctx, caller)
		if fail != nil {
			return fail
		}
	} else {
		var err error
		st, err = s.st.StudentByNo(ctx, params.String("student_id"))
		if err != nil {
			return protocol.Fail("student not found")
		}
	}
	return protocol.OK(map[string]any{"student": st})
}

// applyStudentParams overlays the updatable fields onto an existing
// record.
func applyStudentParams(st *store.Student, params dispatch.Params) {
	if v := params.OptString("name"); v != nil {
		st.Name = *v
	}
	if v := params.OptString("gender"); v != nil {
		st.Gender = *v
	}
	if v := params.OptString("birth"); v != nil {
		st.Birth = *v
	}
	if v := params.OptString("class"); v != nil {
		st.Class = *v
	}
	if v := params.OptString("major"); v != nil {
		st.Major = *v
	}
}

func (s *Server) handleUpdateStudentInfo(ctx context.Context, caller *session.Identity, params dispatch.Params) *protocol.Response {
	var st *store.Student
	if caller.Role == session.RoleStudent {
		var fail *protocol.Response
		st, fail = s.callerStudent(ctx, caller)
		if fail != nil {
			return fail
		}
	} else {
		var err error
		st, err = s.st.StudentByNo(ctx, params.String("student_id"))
		if err != nil {
			return protocol.Fail("student not found")
		}
	}

	applyStudentParams(st, params)
	result, err := s.st.UpdateStudent(ctx, st)
	if err != nil {
		return protocol.Fail("failed to update student")
	}
	if result == store.NotFound {
		return protocol.Fail("student not found")
	}
	return protocol.OKMessage("student updated")
}

// --- admin student management ---

func (s *Server) handleGetAllStudents(ctx context.Context, _ *session.Identity, _ dispatch.Params) *protocol.Response {
	students, err := s.st.AllStudents(ctx)
	if err != nil {
		return protocol.Fail("failed to get students")
	}
	return protocol.OK(map[string]any{"students": students})
}

func (s *Server) handleSearchStudents(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	students, err := s.st.SearchStudents(ctx, params.String("keyword"))
	if err != nil {
		return protocol.Fail("failed to search students")
	}
	return protocol.OK(map[string]any{"students": students})
}

func (s *Server) handleAddStudent(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	st := &store.Student{
		StudentNo: params.String("student_id"),
		Name:      params.String("name"),
		Gender:    params.String("gender"),
		Birth:     params.String("birth"),
		Class:     params.String("class"),
		Major:     params.String("major"),
	}
	if st.StudentNo == "" || st.Name == "" {
		return protocol.Fail("student_id and name are required")
	}
	if userID, ok := params.Int64("user_id"); ok {
		st.UserID = userID
	}

	if err := s.st.CreateStudent(ctx, st); err != nil {
		if err == store.ErrDuplicate {
			return protocol.Fail("student already exists")
		}
		return protocol.Fail("failed to add student")
	}
	return protocol.OK(map[string]any{"student": st})
}

func (s *Server) handleUpdateStudent(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	st, err := s.st.StudentByNo(ctx, params.String("student_id"))
	if err != nil {
		return protocol.Fail("student not found")
	}

	applyStudentParams(st, params)
	result, err := s.st.UpdateStudent(ctx, st)
	if err != nil {
		return protocol.Fail("failed to update student")
	}
	if result == store.NotFound {
		return protocol.Fail("student not found")
	}
	return protocol.OKMessage("student updated")
}

func (s *Server) handleDeleteStudent(ctx context.Context, _ *session.Identity, params dispatch.Params) *protocol.Response {
	result, err := s.st.DeleteStudent(ctx, params.String("student_id"))
	if err != nil {
		return protocol.Fail("failed to delete student")
	}
	if result == store.NotFound {
		return protocol.Fail("student not found")
	}
	return protocol.OKMessage("student deleted")
}
