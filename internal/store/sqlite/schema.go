package sqlite

import "fmt"

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	role TEXT NOT NULL,
	name TEXT NOT NULL,
	email TEXT
);

CREATE TABLE IF NOT EXISTS students (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	student_no TEXT UNIQUE NOT NULL,
	name TEXT NOT NULL,
	gender TEXT,
	birth TEXT,
	class TEXT,
	major TEXT,
	user_id INTEGER UNIQUE,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS teachers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	teacher_no TEXT UNIQUE NOT NULL,
	name TEXT NOT NULL,
	gender TEXT,
	title TEXT,
	department TEXT,
	user_id INTEGER UNIQUE,
	FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS courses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	course_code TEXT UNIQUE NOT NULL,
	course_name TEXT NOT NULL,
	credits REAL NOT NULL,
	teacher_id INTEGER,
	semester TEXT,
	class_time TEXT,
	FOREIGN KEY (teacher_id) REFERENCES teachers(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS scores (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	student_id INTEGER NOT NULL,
	course_id INTEGER NOT NULL,
	score REAL NOT NULL,
	semester TEXT,
	exam_time TEXT,
	UNIQUE (student_id, course_id, semester),
	FOREIGN KEY (student_id) REFERENCES students(id) ON DELETE CASCADE,
	FOREIGN KEY (course_id) REFERENCES courses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS enrollments (
	student_id INTEGER NOT NULL,
	course_id INTEGER NOT NULL,
	semester TEXT NOT NULL DEFAULT '',
	UNIQUE (student_id, course_id, semester),
	FOREIGN KEY (student_id) REFERENCES students(id) ON DELETE CASCADE,
	FOREIGN KEY (course_id) REFERENCES courses(id) ON DELETE CASCADE
);
`

func (s *SQLiteStore) ensureSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
