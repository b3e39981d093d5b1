package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"studentms/internal/store"
)

const courseColumns = `id, course_code, course_name, credits, teacher_id, semester, class_time`

func scanCourse(row interface{ Scan(...any) error }) (*store.Course, error) {
	var c store.Course
	var teacherID sql.NullInt64
	var semester, classTime sql.NullString
	if err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Credits, &teacherID, &semester, &classTime); err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}
	c.TeacherID = teacherID.Int64
	c.Semester = semester.String
	c.ClassTime = classTime.String
	return &c, nil
}

func (s *SQLiteStore) CreateCourse(ctx context.Context, c *store.Course) error {
	var teacherID any
	if c.TeacherID != 0 {
		teacherID = c.TeacherID
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO courses (course_code, course_name, credits, teacher_id, semester, class_time)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.Code, c.Name, c.Credits, teacherID, c.Semester, c.ClassTime)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to create course: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new course id: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CourseByID(ctx context.Context, id int64) (*store.Course, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	return scanCourse(row)
}

func (s *SQLiteStore) queryCourses(ctx context.Context, query string, args ...any) ([]store.Course, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var out []store.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AllCourses(ctx context.Context) ([]store.Course, error) {
	return s.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY id`)
}

func (s *SQLiteStore) SearchCourses(ctx context.Context, keyword string) ([]store.Course, error) {
	pattern := "%" + keyword + "%"
	return s.queryCourses(ctx,
		`SELECT `+courseColumns+` FROM courses
		 WHERE course_code LIKE ? OR course_name LIKE ? ORDER BY id`, pattern, pattern)
}

func (s *SQLiteStore) CoursesByTeacherID(ctx context.Context, teacherID int64) ([]store.Course, error) {
	return s.queryCourses(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE teacher_id = ? ORDER BY id`, teacherID)
}

func (s *SQLiteStore) UpdateCourse(ctx context.Context, c *store.Course) (store.UpdateResult, error) {
	var teacherID any
	if c.TeacherID != 0 {
		teacherID = c.TeacherID
	}
	n, err := s.execExpectRow(ctx,
		`UPDATE courses SET course_code = ?, course_name = ?, credits = ?, teacher_id = ?,
		 semester = ?, class_time = ? WHERE id = ?`,
		c.Code, c.Name, c.Credits, teacherID, c.Semester, c.ClassTime, c.ID)
	if err != nil {
		return store.NotFound, err
	}
	if n == 0 {
		return store.NotFound, nil
	}
	return store.Updated, nil
}

func (s *SQLiteStore) DeleteCourse(ctx context.Context, id int64) (store.UpdateResult, error) {
	n, err := s.execExpectRow(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return store.NotFound, err
	}
	if n == 0 {
		return store.NotFound, nil
	}
	return store.Updated, nil
}
