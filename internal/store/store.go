// Package store defines the persistence collaborator consumed by the
// request handlers. Implementations live in subpackages; handlers only
// see these interfaces.
package store

import "context"

// UpdateResult is the outcome of a write that targets one existing row.
// Hard failures travel separately as an error, so "zero rows affected"
// is always distinguishable from a broken store.
type UpdateResult int

const (
	Updated UpdateResult = iota
	NotFound
)

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
}

// UserUpdate carries the subset of user fields an update touches.
// Nil means leave the column alone.
type UserUpdate struct {
	Name         *string
	PasswordHash *string
	Role         *string
	Email        *string
}

type Student struct {
	ID        int64  `json:"id"`
	StudentNo string `json:"student_id"`
	Name      string `json:"name"`
	Gender    string `json:"gender,omitempty"`
	Birth     string `json:"birth,omitempty"`
	Class     string `json:"class,omitempty"`
	Major     string `json:"major,omitempty"`
	UserID    int64  `json:"user_id,omitempty"`
}

type Teacher struct {
	ID         int64  `json:"id"`
	TeacherNo  string `json:"teacher_id"`
	Name       string `json:"name"`
	Gender     string `json:"gender,omitempty"`
	Title      string `json:"title,omitempty"`
	Department string `json:"department,omitempty"`
	UserID     int64  `json:"user_id,omitempty"`
}

type Course struct {
	ID        int64   `json:"id"`
	Code      string  `json:"course_code"`
	Name      string  `json:"course_name"`
	Credits   float64 `json:"credits"`
	TeacherID int64   `json:"teacher_id,omitempty"`
	Semester  string  `json:"semester,omitempty"`
	ClassTime string  `json:"class_time,omitempty"`
}

// Score is a grade row joined with its course for display.
type Score struct {
	ID         int64   `json:"id"`
	StudentID  int64   `json:"student_id"`
	CourseID   int64   `json:"course_id"`
	CourseName string  `json:"course_name,omitempty"`
	Credits    float64 `json:"credits,omitempty"`
	Score      float64 `json:"score"`
	Semester   string  `json:"semester,omitempty"`
	ExamTime   string  `json:"exam_time,omitempty"`
}

// ScoreStats summarizes one course offering's grades.
type ScoreStats struct {
	Count     int     `json:"count"`
	Average   float64 `json:"average"`
	Max       float64 `json:"max"`
	Min       float64 `json:"min"`
	Excellent int     `json:"excellent"`
	Good      int     `json:"good"`
	Medium    int     `json:"medium"`
	Pass      int     `json:"pass"`
	Fail      int     `json:"fail"`
}

// EnrolledCourse is an enrollment joined with its course, the shape the
// conflict checker and the student's course list both need.
type EnrolledCourse struct {
	CourseID   int64   `json:"course_id"`
	CourseName string  `json:"course_name"`
	Code       string  `json:"course_code,omitempty"`
	Credits    float64 `json:"credits,omitempty"`
	Semester   string  `json:"semester,omitempty"`
	ClassTime  string  `json:"class_time,omitempty"`
}

type UserStore interface {
	CreateUser(ctx context.Context, u *User) error
	UserByUsername(ctx context.Context, username string) (*User, error)
	UserByID(ctx context.Context, id int64) (*User, error)
	AllUsers(ctx context.Context) ([]User, error)
	SearchUsers(ctx context.Context, keyword string) ([]User, error)
	UpdateUser(ctx context.Context, id int64, upd UserUpdate) (UpdateResult, error)
	DeleteUser(ctx context.Context, id int64) (UpdateResult, error)
}

type StudentStore interface {
	CreateStudent(ctx context.Context, s *Student) error
	StudentByNo(ctx context.Context, studentNo string) (*Student, error)
	StudentByUserID(ctx context.Context, userID int64) (*Student, error)
	AllStudents(ctx context.Context) ([]Student, error)
	SearchStudents(ctx context.Context, keyword string) ([]Student, error)
	UpdateStudent(ctx context.Context, s *Student) (UpdateResult, error)
	DeleteStudent(ctx context.Context, studentNo string) (UpdateResult, error)
}

type TeacherStore interface {
	CreateTeacher(ctx context.Context, t *Teacher) error
	TeacherByNo(ctx context.Context, teacherNo string) (*Teacher, error)
	TeacherByUserID(ctx context.Context, userID int64) (*Teacher, error)
	AllTeachers(ctx context.Context) ([]Teacher, error)
	SearchTeachers(ctx context.Context, keyword string) ([]Teacher, error)
	UpdateTeacher(ctx context.Context, t *Teacher) (UpdateResult, error)
	DeleteTeacher(ctx context.Context, teacherNo string) (UpdateResult, error)
}

type CourseStore interface {
	CreateCourse(ctx context.Context, c *Course) error
	CourseByID(ctx context.Context, id int64) (*Course, error)
	AllCourses(ctx context.Context) ([]Course, error)
	SearchCourses(ctx context.Context, keyword string) ([]Course, error)
	CoursesByTeacherID(ctx context.Context, teacherID int64) ([]Course, error)
	UpdateCourse(ctx context.Context, c *Course) (UpdateResult, error)
	DeleteCourse(ctx context.Context, id int64) (UpdateResult, error)
}

type ScoreStore interface {
	ScoresByStudentID(ctx context.Context, studentID int64) ([]Score, error)
	ScoresByCourseAndSemester(ctx context.Context, courseID int64, semester string) ([]Score, error)
	ScoreStatistics(ctx context.Context, courseID int64, semester string) (*ScoreStats, error)
}

type EnrollmentStore interface {
	Enroll(ctx context.Context, studentID, courseID int64, semester string) error
	Unenroll(ctx context.Context, studentID, courseID int64, semester string) (UpdateResult, error)
	EnrollmentsByStudent(ctx context.Context, studentID int64, semester string) ([]EnrolledCourse, error)
	StudentsByCourse(ctx context.Context, courseID int64, semester string) ([]Student, error)
}

// Store is everything the dispatcher's handlers need from persistence.
type Store interface {
	UserStore
	StudentStore
	TeacherStore
	CourseStore
	ScoreStore
	EnrollmentStore
}
