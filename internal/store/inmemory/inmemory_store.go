// Package inmemory is a map-backed Store used by tests and by the
// server when no database is configured.
package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"studentms/internal/store"
)

type InMemoryStore struct {
	mu sync.RWMutex

	nextUserID    int64
	nextStudentID int64
	nextTeacherID int64
	nextCourseID  int64
	nextScoreID   int64

	users       map[int64]store.User
	students    map[int64]store.Student
	teachers    map[int64]store.Teacher
	courses     map[int64]store.Course
	scores      map[int64]store.Score
	enrollments []enrollment
}

type enrollment struct {
	studentID int64
	courseID  int64
	semester  string
}

var _ store.Store = (*InMemoryStore)(nil)

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:    make(map[int64]store.User),
		students: make(map[int64]store.Student),
		teachers: make(map[int64]store.Teacher),
		courses:  make(map[int64]store.Course),
		scores:   make(map[int64]store.Score),
	}
}

func containsFold(s, keyword string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(keyword))
}

// --- users ---

func (m *InMemoryStore) CreateUser(ctx context.Context, u *store.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return store.ErrDuplicate
		}
	}
	m.nextUserID++
	u.ID = m.nextUserID
	m.users[u.ID] = *u
	return nil
}

func (m *InMemoryStore) UserByUsername(ctx context.Context, username string) (*store.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *InMemoryStore) UserByID(ctx context.Context, id int64) (*store.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := u
	return &out, nil
}

func (m *InMemoryStore) AllUsers(ctx context.Context) ([]store.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]store.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *InMemoryStore) SearchUsers(ctx context.Context, keyword string) ([]store.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []store.User
	for _, u := range m.users {
		if containsFold(u.Username, keyword) || containsFold(u.Name, keyword) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *InMemoryStore) UpdateUser(ctx context.Context, id int64, upd store.UserUpdate) (store.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.NotFound, nil
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	m.users[id] = u
	return store.Updated, nil
}

func (m *InMemoryStore) DeleteUser(ctx context.Context, id int64) (store.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return store.NotFound, nil
	}
	delete(m.users, id)
	return store.Updated, nil
}

// --- students ---

func (m *InMemoryStore) CreateStudent(ctx context.Context, s *store.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.students {
		if existing.StudentNo == s.StudentNo {
			return store.ErrDuplicate
		}
	}
	m.nextStudentID++
	s.ID = m.nextStudentID
	m.students[s.ID] = *s
	return nil
}

func (m *InMemoryStore) StudentByNo(ctx context.Context, studentNo string) (*store.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.students {
		if s.StudentNo == studentNo {
			out := s
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *InMemoryStore) StudentByUserID(ctx context.Context, userID int64) (*store.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.students {
		if s.UserID == userID {
			out := s
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *InMemoryStore) AllStudents(ctx context.Context) ([]store.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]store.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *InMemoryStore) SearchStudents(ctx context.Context, keyword string) ([]store.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []store.Student
	for _, s := range m.students {
		if containsFold(s.StudentNo, keyword) || containsFold(s.Name, keyword) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *InMemoryStore) UpdateStudent(ctx context.Context, s *store.Student) (store.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.students {
		if existing.StudentNo == s.StudentNo {
			updated := *s
			updated.ID = id
			if updated.UserID == 0 {
				updated.UserID = existing.UserID
			}
			m.students[id] = updated
			return store.Updated, nil
		}
	}
	return store.NotFound, nil
}

func (m *InMemoryStore) DeleteStudent(ctx context.Context, studentNo string) (store.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.students {
		if existing.StudentNo == studentNo {
			delete(m.students, id)
			return store.Updated, nil
		}
	}
	return store.NotFound, nil
}

// --- teachers ---

func (m *InMemoryStore) CreateTeacher(ctx context.Context, t *store.Teacher) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.teachers {
		if existing.TeacherNo == t.TeacherNo {
			return store.ErrDuplicate
		}
	}
	m.nextTeacherID++
	t.ID = m.nextTeacherID
	m.teachers[t.ID] = *t
	return nil
}

func (m *InMemoryStore) TeacherByNo(ctx context.Context, teacherNo string) (*store.Teacher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.teachers {
		if t.TeacherNo == teacherNo {
			out := t
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *InMemoryStore) TeacherByUserID(ctx context.Context, userID int64) (*store.Teacher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.teachers {
		if t.UserID == userID {
			out := t
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *InMemoryStore) AllTeachers(ctx context.Context) ([]store.Teacher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]store.Teacher, 0, len(m.teachers))
	for _, t := range m.teachers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *InMemoryStore) SearchTeachers(ctx context.Context, keyword string) ([]store.Teacher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []store.Teacher
	for _, t := range m.teachers {
		if containsFold(t.TeacherNo, keyword) || containsFold(t.Name, keyword) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *InMemoryStore) UpdateTeacher(ctx context.Context, t *store.Teacher) (store.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.teachers {
		if existing.TeacherNo == t.TeacherNo {
			updated := *t
			updated.ID = id
			if updated.UserID == 0 {
				updated.UserID = existing.UserID
			}
			m.teachers[id] = updated
			return store.Updated, nil
		}
	}
	return store.NotFound, nil
}

func (m *InMemoryStore) DeleteTeacher(ctx context.Context, teacherNo string) (store.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.teachers {
		if existing.TeacherNo == teacherNo {
			delete(m.teachers, id)
			return store.Updated, nil
		}
	}
	return store.NotFound, nil
}

// --- courses ---

func (m *InMemoryStore) CreateCourse(ctx context.Context, c *store.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.courses {
		if existing.Code == c.Code {
			return store.ErrDuplicate
		}
	}
	m.nextCourseID++
	c.ID = m.nextCourseID
	m.courses[c.ID] = *c
	return nil
}

func (m *InMemoryStore) CourseByID(ctx context.Context, id int64) (*store.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.courses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := c
	return &out, nil
}

func (m *InMemoryStore) AllCourses(ctx context.Context) ([]store.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]store.Course, 0, len(m.courses))
	for _, c := range m.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *InMemoryStore) SearchCourses(ctx context.Context, keyword string) ([]store.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []store.Course
	for _, c := range m.courses {
		if containsFold(c.Code, keyword) || containsFold(c.Name, keyword) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *InMemoryStore) CoursesByTeacherID(ctx context.Context, teacherID int64) ([]store.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []store.Course
	for _, c := range m.courses {
		if c.TeacherID == teacherID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *InMemoryStore) UpdateCourse(ctx context.Context, c *store.Course) (store.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[c.ID]; !ok {
		return store.NotFound, nil
	}
	m.courses[c.ID] = *c
	return store.Updated, nil
}

func (m *InMemoryStore) DeleteCourse(ctx context.Context, id int64) (store.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return store.NotFound, nil
	}
	delete(m.courses, id)
	return store.Updated, nil
}

// --- scores ---

// AddScore is not part of the wire action catalog but tests and the
// seeder need a way to load grades.
func (m *InMemoryStore) AddScore(s store.Score) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextScoreID++
	s.ID = m.nextScoreID
	m.scores[s.ID] = s
}

func (m *InMemoryStore) ScoresByStudentID(ctx context.Context, studentID int64) ([]store.Score, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []store.Score
	for _, s := range m.scores {
		if s.StudentID == studentID {
			joined := s
			if c, ok := m.courses[s.CourseID]; ok {
				joined.CourseName = c.Name
				joined.Credits = c.Credits
			}
			out = append(out, joined)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *InMemoryStore) ScoresByCourseAndSemester(ctx context.Context, courseID int64, semester string) ([]store.Score, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []store.Score
	for _, s := range m.scores {
		if s.CourseID == courseID && s.Semester == semester {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *InMemoryStore) ScoreStatistics(ctx context.Context, courseID int64, semester string) (*store.ScoreStats, error) {
	scores, err := m.ScoresByCourseAndSemester(ctx, courseID, semester)
	if err != nil {
		return nil, err
	}
	return store.Summarize(scores), nil
}

// --- enrollments ---

func (m *InMemoryStore) Enroll(ctx context.Context, studentID, courseID int64, semester string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.enrollments {
		if e.studentID == studentID && e.courseID == courseID && e.semester == semester {
			return store.ErrDuplicate
		}
	}
	m.enrollments = append(m.enrollments, enrollment{studentID, courseID, semester})
	return nil
}

func (m *InMemoryStore) Unenroll(ctx context.Context, studentID, courseID int64, semester string) (store.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.enrollments {
		if e.studentID == studentID && e.courseID == courseID && (semester == "" || e.semester == semester) {
			m.enrollments = append(m.enrollments[:i], m.enrollments[i+1:]...)
			return store.Updated, nil
		}
	}
	return store.NotFound, nil
}

func (m *InMemoryStore) EnrollmentsByStudent(ctx context.Context, studentID int64, semester string) ([]store.EnrolledCourse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []store.EnrolledCourse
	for _, e := range m.enrollments {
		if e.studentID != studentID {
			continue
		}
		if semester != "" && e.semester != semester {
			continue
		}
		c, ok := m.courses[e.courseID]
		if !ok {
			continue
		}
		out = append(out, store.EnrolledCourse{
			CourseID:   c.ID,
			CourseName: c.Name,
			Code:       c.Code,
			Credits:    c.Credits,
			Semester:   e.semester,
			ClassTime:  c.ClassTime,
		})
	}
	return out, nil
}

func (m *InMemoryStore) StudentsByCourse(ctx context.Context, courseID int64, semester string) ([]store.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []store.Student
	for _, e := range m.enrollments {
		if e.courseID != courseID {
			continue
		}
		if semester != "" && e.semester != semester {
			continue
		}
		if s, ok := m.students[e.studentID]; ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
