// Package client is the synchronous wire client used by the console
// frontend and the end-to-end tests. One Client owns one connection and
// issues one request at a time; it is not safe for concurrent use.
package client

import (
	"fmt"
	"net"
	"time"

	"studentms/internal/protocol"
)

const dialTimeout = 10 * time.Second

// Client speaks the framed JSON protocol over a single TCP connection.
// It mirrors the server's session: after a successful Login the current
// user is tracked locally until Logout or disconnect.
type Client struct {
	addr string
	conn net.Conn
	user map[string]any
}

func New(addr string) *Client {
	return &Client{addr: addr}
}

// Connect dials the server. Reconnecting after a transport failure
// starts a fresh anonymous session.
func (c *Client) Connect() error {
	if c.conn != nil {
		return nil
	}
	conn, err := net.DialTimeout("tcp", c.addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", c.addr, err)
	}
	c.conn = conn
	c.user = nil
	return nil
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.user = nil
	return err
}

func (c *Client) Connected() bool {
	return c.conn != nil
}

// CurrentUser is the identity returned by the last successful login,
// nil while anonymous.
func (c *Client) CurrentUser() map[string]any {
	return c.user
}

// Do sends one request and blocks for its response. Transport failures
// close the connection and come back as an ordinary failed response, so
// callers only ever deal in responses.
func (c *Client) Do(action string, params map[string]any) *protocol.Response {
	if c.conn == nil {
		return protocol.Fail("not connected to server")
	}
	if err := protocol.Write(c.conn, protocol.Request{Action: action, Params: params}); err != nil {
		c.Close()
		return protocol.Failf("connection lost: %v", err)
	}
	var resp protocol.Response
	if err := protocol.Decode(c.conn, &resp); err != nil {
		c.Close()
		return protocol.Failf("connection lost: %v", err)
	}
	return &resp
}

// --- authentication ---

func (c *Client) Login(username, password string) *protocol.Response {
	resp := c.Do("login", map[string]any{"username": username, "password": password})
	if resp.Success {
		if user, ok := resp.Data["user"].(map[string]any); ok {
			c.user = user
		}
	}
	return resp
}

func (c *Client) Register(username, password, role, name, email string) *protocol.Response {
	return c.Do("register", map[string]any{
		"username": username,
		"password": password,
		"role":     role,
		"name":     name,
		"email":    email,
	})
}

func (c *Client) Logout() *protocol.Response {
	resp := c.Do("logout", nil)
	if resp.Success {
		c.user = nil
	}
	return resp
}

func (c *Client) ChangePassword(oldPassword, newPassword string) *protocol.Response {
	return c.Do("change_password", map[string]any{
		"old_password": oldPassword,
		"new_password": newPassword,
	})
}

// --- admin: users ---

func (c *Client) GetAllUsers() *protocol.Response {
	return c.Do("get_all_users", nil)
}

func (c *Client) SearchUsers(keyword string) *protocol.Response {
	return c.Do("search_users", map[string]any{"keyword": keyword})
}

func (c *Client) GetUserByID(id int64) *protocol.Response {
	return c.Do("get_user_by_id", map[string]any{"user_id": id})
}

func (c *Client) UpdateUser(id int64, fields map[string]any) *protocol.Response {
	params := map[string]any{"user_id": id}
	for k, v := range fields {
		params[k] = v
	}
	return c.Do("update_user", params)
}

func (c *Client) DeleteUser(id int64) *protocol.Response {
	return c.Do("delete_user", map[string]any{"user_id": id})
}

// --- admin: students ---

func (c *Client) GetAllStudents() *protocol.Response {
	return c.Do("get_all_students", nil)
}

func (c *Client) SearchStudents(keyword string) *protocol.Response {
	return c.Do("search_students", map[string]any{"keyword": keyword})
}

func (c *Client) AddStudent(fields map[string]any) *protocol.Response {
	return c.Do("add_student", fields)
}

func (c *Client) UpdateStudent(studentNo string, fields map[string]any) *protocol.Response {
	params := map[string]any{"student_id": studentNo}
	for k, v := range fields {
		params[k] = v
	}
	return c.Do("update_student", params)
}

func (c *Client) DeleteStudent(studentNo string) *protocol.Response {
	return c.Do("delete_student", map[string]any{"student_id": studentNo})
}

// --- admin: teachers ---

func (c *Client) GetAllTeachers() *protocol.Response {
	return c.Do("get_all_teachers", nil)
}

func (c *Client) SearchTeachers(keyword string) *protocol.Response {
	return c.Do("search_teachers", map[string]any{"keyword": keyword})
}

func (c *Client) AddTeacher(fields map[string]any) *protocol.Response {
	return c.Do("add_teacher", fields)
}

func (c *Client) UpdateTeacher(teacherNo string, fields map[string]any) *protocol.Response {
	params := map[string]any{"teacher_id": teacherNo}
	for k, v := range fields {
		params[k] = v
	}
	return c.Do("update_teacher", params)
}

func (c *Client) DeleteTeacher(teacherNo string) *protocol.Response {
	return c.Do("delete_teacher", map[string]any{"teacher_id": teacherNo})
}

// --- admin: courses ---

func (c *Client) GetAllCourses() *protocol.Response {
	return c.Do("get_all_courses", nil)
}

func (c *Client) SearchCourses(keyword string) *protocol.Response {
	return c.Do("search_courses", map[string]any{"keyword": keyword})
}

func (c *Client) AddCourse(fields map[string]any) *protocol.Response {
	return c.Do("add_course", fields)
}

func (c *Client) UpdateCourse(courseID int64, fields map[string]any) *protocol.Response {
	params := map[string]any{"course_id": courseID}
	for k, v := range fields {
		params[k] = v
	}
	return c.Do("update_course", params)
}

func (c *Client) DeleteCourse(courseID int64) *protocol.Response {
	return c.Do("delete_course", map[string]any{"course_id": courseID})
}

// --- student ---

func (c *Client) GetStudentInfo(studentNo string) *protocol.Response {
	params := map[string]any{}
	if studentNo != "" {
		params["student_id"] = studentNo
	}
	return c.Do("get_student_info", params)
}

func (c *Client) UpdateStudentInfo(fields map[string]any) *protocol.Response {
	return c.Do("update_student_info", fields)
}

func (c *Client) GetMyScores(semester string) *protocol.Response {
	params := map[string]any{}
	if semester != "" {
		params["semester"] = semester
	}
	return c.Do("get_my_scores", params)
}

func (c *Client) EnrollCourse(courseID int64, semester string) *protocol.Response {
	params := map[string]any{"course_id": courseID}
	if semester != "" {
		params["semester"] = semester
	}
	return c.Do("enroll_course", params)
}

func (c *Client) DropCourse(courseID int64, semester string) *protocol.Response {
	params := map[string]any{"course_id": courseID}
	if semester != "" {
		params["semester"] = semester
	}
	return c.Do("drop_course", params)
}

func (c *Client) GetEnrolledCourses(semester string) *protocol.Response {
	params := map[string]any{}
	if semester != "" {
		params["semester"] = semester
	}
	return c.Do("get_enrolled_courses", params)
}

// --- teacher ---

func (c *Client) GetMyCourses() *protocol.Response {
	return c.Do("get_my_courses", nil)
}

func (c *Client) GetCourseScores(courseID int64, semester string) *protocol.Response {
	params := map[string]any{"course_id": courseID}
	if semester != "" {
		params["semester"] = semester
	}
	return c.Do("get_course_scores", params)
}

func (c *Client) GetCourseStudents(courseID int64, semester string) *protocol.Response {
	params := map[string]any{"course_id": courseID}
	if semester != "" {
		params["semester"] = semester
	}
	return c.Do("get_course_students", params)
}
