package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"studentms/internal/store"
)

// AddScore loads one grade row; used by the seeder and tests.
func (s *SQLiteStore) AddScore(ctx context.Context, sc *store.Score) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (student_id, course_id, score, semester, exam_time)
		 VALUES (?, ?, ?, ?, ?)`,
		sc.StudentID, sc.CourseID, sc.Score, sc.Semester, sc.ExamTime)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("failed to add score: %w", err)
	}
	sc.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new score id: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ScoresByStudentID(ctx context.Context, studentID int64) ([]store.Score, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.student_id, s.course_id, c.course_name, c.credits, s.score, s.semester, s.exam_time
		 FROM scores s JOIN courses c ON s.course_id = c.id
		 WHERE s.student_id = ? ORDER BY s.id`, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var out []store.Score
	for rows.Next() {
		var sc store.Score
		var semester, examTime sql.NullString
		if err := rows.Scan(&sc.ID, &sc.StudentID, &sc.CourseID, &sc.CourseName,
			&sc.Credits, &sc.Score, &semester, &examTime); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		sc.Semester = semester.String
		sc.ExamTime = examTime.String
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ScoresByCourseAndSemester(ctx context.Context, courseID int64, semester string) ([]store.Score, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, student_id, course_id, score, semester, exam_time
		 FROM scores WHERE course_id = ? AND semester = ? ORDER BY id`, courseID, semester)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var out []store.Score
	for rows.Next() {
		var sc store.Score
		var sem, examTime sql.NullString
		if err := rows.Scan(&sc.ID, &sc.StudentID, &sc.CourseID, &sc.Score, &sem, &examTime); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		sc.Semester = sem.String
		sc.ExamTime = examTime.String
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ScoreStatistics(ctx context.Context, courseID int64, semester string) (*store.ScoreStats, error) {
	scores, err := s.ScoresByCourseAndSemester(ctx, courseID, semester)
	if err != nil {
		return nil, err
	}
	return store.Summarize(scores), nil
}
