package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"studentms/internal/store"
)

func (s *SQLiteStore) Enroll(ctx context.Context, studentID, courseID int64, semester string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO enrollments (student_id, course_id, semester) VALUES (?, ?, ?)`,
		studentID, courseID, semester)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to enroll: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Unenroll(ctx context.Context, studentID, courseID int64, semester string) (store.UpdateResult, error) {
	query := `DELETE FROM enrollments WHERE student_id = ? AND course_id = ?`
	args := []any{studentID, courseID}
	if semester != "" {
		query += ` AND semester = ?`
		args = append(args, semester)
	}
	n, err := s.execExpectRow(ctx, query, args...)
	if err != nil {
		return store.NotFound, err
	}
	if n == 0 {
		return store.NotFound, nil
	}
	return store.Updated, nil
}

func (s *SQLiteStore) EnrollmentsByStudent(ctx context.Context, studentID int64, semester string) ([]store.EnrolledCourse, error) {
	query := `SELECT c.id, c.course_name, c.course_code, c.credits, e.semester, c.class_time
		 FROM enrollments e JOIN courses c ON e.course_id = c.id
		 WHERE e.student_id = ?`
	args := []any{studentID}
	if semester != "" {
		query += ` AND e.semester = ?`
		args = append(args, semester)
	}
	rows, err := s.db.QueryContext(ctx, query+` ORDER BY c.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var out []store.EnrolledCourse
	for rows.Next() {
		var ec store.EnrolledCourse
		var sem, classTime sql.NullString
		if err := rows.Scan(&ec.CourseID, &ec.CourseName, &ec.Code, &ec.Credits, &sem, &classTime); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		ec.Semester = sem.String
		ec.ClassTime = classTime.String
		out = append(out, ec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) StudentsByCourse(ctx context.Context, courseID int64, semester string) ([]store.Student, error) {
	query := `SELECT st.id, st.student_no, st.name, st.gender, st.birth, st.class, st.major, st.user_id
		 FROM enrollments e JOIN students st ON e.student_id = st.id
		 WHERE e.course_id = ?`
	args := []any{courseID}
	if semester != "" {
		query += ` AND e.semester = ?`
		args = append(args, semester)
	}
	return s.queryStudents(ctx, query+` ORDER BY st.id`, args...)
}
