package render

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"studentms/internal/client"
	"studentms/internal/protocol"
)

// ConsoleRenderer is a line-oriented frontend over the client stub:
// one command per line, one response printed per command.
type ConsoleRenderer struct {
	c   *client.Client
	in  *bufio.Scanner
	out io.Writer
}

func NewConsoleRenderer(c *client.Client, in io.Reader, out io.Writer) *ConsoleRenderer {
	return &ConsoleRenderer{c: c, in: bufio.NewScanner(in), out: out}
}

func (r *ConsoleRenderer) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "studentms console. Type 'help' for commands, 'quit' to exit.")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.prompt()
		if !r.in.Scan() {
			return r.in.Err()
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return nil
		case "help":
			r.printHelp()
		default:
			r.print(r.dispatch(cmd, args))
		}
	}
}

func (r *ConsoleRenderer) prompt() {
	if user := r.c.CurrentUser(); user != nil {
		fmt.Fprintf(r.out, "%v> ", user["username"])
		return
	}
	fmt.Fprint(r.out, "> ")
}

func (r *ConsoleRenderer) dispatch(cmd string, args []string) *protocol.Response {
	switch cmd {
	case "login":
		if len(args) != 2 {
			return protocol.Fail("usage: login <username> <password>")
		}
		return r.c.Login(args[0], args[1])
	case "register":
		if len(args) < 4 {
			return protocol.Fail("usage: register <username> <password> <role> <name> [email]")
		}
		email := ""
		if len(args) > 4 {
			email = args[4]
		}
		return r.c.Register(args[0], args[1], args[2], args[3], email)
	case "logout":
		return r.c.Logout()
	case "passwd":
		if len(args) != 2 {
			return protocol.Fail("usage: passwd <old> <new>")
		}
		return r.c.ChangePassword(args[0], args[1])
	case "whoami":
		user := r.c.CurrentUser()
		if user == nil {
			return protocol.Fail("not logged in")
		}
		return protocol.OK(map[string]any{"user": user})

	case "users":
		return r.c.GetAllUsers()
	case "students":
		return r.c.GetAllStudents()
	case "teachers":
		return r.c.GetAllTeachers()
	case "courses":
		return r.c.GetAllCourses()
	case "search":
		if len(args) != 2 {
			return protocol.Fail("usage: search <users|students|teachers|courses> <keyword>")
		}
		switch args[0] {
		case "users":
			return r.c.SearchUsers(args[1])
		case "students":
			return r.c.SearchStudents(args[1])
		case "teachers":
			return r.c.SearchTeachers(args[1])
		case "courses":
			return r.c.SearchCourses(args[1])
		}
		return protocol.Fail("usage: search <users|students|teachers|courses> <keyword>")

	case "me":
		return r.c.GetStudentInfo("")
	case "scores":
		return r.c.GetMyScores(optArg(args, 0))
	case "enrolled":
		return r.c.GetEnrolledCourses(optArg(args, 0))
	case "enroll":
		courseID, ok := intArg(args, 0)
		if !ok {
			return protocol.Fail("usage: enroll <course_id> [semester]")
		}
		return r.c.EnrollCourse(courseID, optArg(args, 1))
	case "drop":
		courseID, ok := intArg(args, 0)
		if !ok {
			return protocol.Fail("usage: drop <course_id> [semester]")
		}
		return r.c.DropCourse(courseID, optArg(args, 1))

	case "mycourses":
		return r.c.GetMyCourses()
	case "coursescores":
		courseID, ok := intArg(args, 0)
		if !ok {
			return protocol.Fail("usage: coursescores <course_id> [semester]")
		}
		return r.c.GetCourseScores(courseID, optArg(args, 1))
	case "coursestudents":
		courseID, ok := intArg(args, 0)
		if !ok {
			return protocol.Fail("usage: coursestudents <course_id> [semester]")
		}
		return r.c.GetCourseStudents(courseID, optArg(args, 1))
	}
	return protocol.Fail("unknown command, type 'help'")
}

func (r *ConsoleRenderer) print(resp *protocol.Response) {
	status := "ok"
	if !resp.Success {
		status = "error"
	}
	if resp.Message != "" {
		fmt.Fprintf(r.out, "[%s] %s\n", status, resp.Message)
	} else {
		fmt.Fprintf(r.out, "[%s]\n", status)
	}
	if len(resp.Data) > 0 {
		pretty, err := json.MarshalIndent(resp.Data, "", "  ")
		if err == nil {
			fmt.Fprintln(r.out, string(pretty))
		}
	}
}

func (r *ConsoleRenderer) printHelp() {
	fmt.Fprint(r.out, `commands:
  login <username> <password>        log in
  register <user> <pass> <role> <name> [email]
  logout                             end the session
  passwd <old> <new>                 change password
  whoami                             show the current user
  users|students|teachers|courses    list (admin)
  search <kind> <keyword>            search (admin)
  me                                 own student record
  scores [semester]                  own scores and GPA
  enrolled [semester]                own enrollments
  enroll <course_id> [semester]      enroll in a course
  drop <course_id> [semester]        drop a course
  mycourses                          courses taught (teacher)
  coursescores <course_id> [semester]
  coursestudents <course_id> [semester]
  quit
`)
}

func optArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func intArg(args []string, i int) (int64, bool) {
	if i >= len(args) {
		return 0, false
	}
	n, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
