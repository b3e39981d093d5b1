package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"studentms/internal/store"
)

const studentColumns = `id, student_no, name, gender, birth, class, major, user_id`

func scanStudent(row interface{ Scan(...any) error }) (*store.Student, error) {
	var s store.Student
	var gender, birth, class, major sql.NullString
	var userID sql.NullInt64
	if err := row.Scan(&s.ID, &s.StudentNo, &s.Name, &gender, &birth, &class, &major, &userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}
	s.Gender = gender.String
	s.Birth = birth.String
	s.Class = class.String
	s.Major = major.String
	s.UserID = userID.Int64
	return &s, nil
}

func (s *SQLiteStore) CreateStudent(ctx context.Context, st *store.Student) error {
	var userID any
	if st.UserID != 0 {
		userID = st.UserID
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO students (student_no, name, gender, birth, class, major, user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		st.StudentNo, st.Name, st.Gender, st.Birth, st.Class, st.Major, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	st.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new student id: %w", err)
	}
	return nil
}

func (s *SQLiteStore) StudentByNo(ctx context.Context, studentNo string) (*store.Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE student_no = ?`, studentNo)
	return scanStudent(row)
}

func (s *SQLiteStore) StudentByUserID(ctx context.Context, userID int64) (*store.Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE user_id = ?`, userID)
	return scanStudent(row)
}

func (s *SQLiteStore) queryStudents(ctx context.Context, query string, args ...any) ([]store.Student, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	var out []store.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AllStudents(ctx context.Context) ([]store.Student, error) {
	return s.queryStudents(ctx, `SELECT `+studentColumns+` FROM students ORDER BY id`)
}

func (s *SQLiteStore) SearchStudents(ctx context.Context, keyword string) ([]store.Student, error) {
	pattern := "%" + keyword + "%"
	return s.queryStudents(ctx,
		`SELECT `+studentColumns+` FROM students
		 WHERE student_no LIKE ? OR name LIKE ? ORDER BY id`, pattern, pattern)
}

func (s *SQLiteStore) UpdateStudent(ctx context.Context, st *store.Student) (store.UpdateResult, error) {
	n, err := s.execExpectRow(ctx,
		`UPDATE students SET name = ?, gender = ?, birth = ?, class = ?, major = ?
		 WHERE student_no = ?`,
		st.Name, st.Gender, st.Birth, st.Class, st.Major, st.StudentNo)
	if err != nil {
		return store.NotFound, err
	}
	if n == 0 {
		return store.NotFound, nil
	}
	return store.Updated, nil
}

func (s *SQLiteStore) DeleteStudent(ctx context.Context, studentNo string) (store.UpdateResult, error) {
	n, err := s.execExpectRow(ctx, `DELETE FROM students WHERE student_no = ?`, studentNo)
	if err != nil {
		return store.NotFound, err
	}
	if n == 0 {
		return store.NotFound, nil
	}
	return store.Updated, nil
}
