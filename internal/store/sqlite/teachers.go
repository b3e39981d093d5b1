package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"studentms/internal/store"
)

const teacherColumns = `id, teacher_no, name, gender, title, department, user_id`

func scanTeacher(row interface{ Scan(...any) error }) (*store.Teacher, error) {
	var t store.Teacher
	var gender, title, department sql.NullString
	var userID sql.NullInt64
	if err := row.Scan(&t.ID, &t.TeacherNo, &t.Name, &gender, &title, &department, &userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan teacher: %w", err)
	}
	t.Gender = gender.String
	t.Title = title.String
	t.Department = department.String
	t.UserID = userID.Int64
	return &t, nil
}

func (s *SQLiteStore) CreateTeacher(ctx context.Context, t *store.Teacher) error {
	var userID any
	if t.UserID != 0 {
		userID = t.UserID
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO teachers (teacher_no, name, gender, title, department, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.TeacherNo, t.Name, t.Gender, t.Title, t.Department, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to create teacher: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new teacher id: %w", err)
	}
	return nil
}

func (s *SQLiteStore) TeacherByNo(ctx context.Context, teacherNo string) (*store.Teacher, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+teacherColumns+` FROM teachers WHERE teacher_no = ?`, teacherNo)
	return scanTeacher(row)
}

func (s *SQLiteStore) TeacherByUserID(ctx context.Context, userID int64) (*store.Teacher, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+teacherColumns+` FROM teachers WHERE user_id = ?`, userID)
	return scanTeacher(row)
}

func (s *SQLiteStore) queryTeachers(ctx context.Context, query string, args ...any) ([]store.Teacher, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query teachers: %w", err)
	}
	defer rows.Close()

	var out []store.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AllTeachers(ctx context.Context) ([]store.Teacher, error) {
	return s.queryTeachers(ctx, `SELECT `+teacherColumns+` FROM teachers ORDER BY id`)
}

func (s *SQLiteStore) SearchTeachers(ctx context.Context, keyword string) ([]store.Teacher, error) {
	pattern := "%" + keyword + "%"
	return s.queryTeachers(ctx,
		`SELECT `+teacherColumns+` FROM teachers
		 WHERE teacher_no LIKE ? OR name LIKE ? ORDER BY id`, pattern, pattern)
}

func (s *SQLiteStore) UpdateTeacher(ctx context.Context, t *store.Teacher) (store.UpdateResult, error) {
	n, err := s.execExpectRow(ctx,
		`UPDATE teachers SET name = ?, gender = ?, title = ?, department = ?
		 WHERE teacher_no = ?`,
		t.Name, t.Gender, t.Title, t.Department, t.TeacherNo)
	if err != nil {
		return store.NotFound, err
	}
	if n == 0 {
		return store.NotFound, nil
	}
	return store.Updated, nil
}

func (s *SQLiteStore) DeleteTeacher(ctx context.Context, teacherNo string) (store.UpdateResult, error) {
	n, err := s.execExpectRow(ctx, `DELETE FROM teachers WHERE teacher_no = ?`, teacherNo)
	if err != nil {
		return store.NotFound, err
	}
	if n == 0 {
		return store.NotFound, nil
	}
	return store.Updated, nil
}
