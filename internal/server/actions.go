package server

// Wire action names.
const (
	ActionLogin          = "login"
	ActionRegister       = "register"
	ActionLogout         = "logout"
	ActionChangePassword = "change_password"

	ActionGetAllUsers = "get_all_users"
	ActionSearchUsers = "search_users"
	ActionGetUserByID = "get_user_by_id"
	ActionUpdateUser  = "update_user"
	ActionDeleteUser  = "delete_user"

	ActionGetStudentInfo    = "get_student_info"
	ActionUpdateStudentInfo = "update_student_info"
	ActionGetMyScores       = "get_my_scores"

	ActionGetMyCourses      = "get_my_courses"
	ActionGetCourseScores   = "get_course_scores"
	ActionGetCourseStudents = "get_course_students"

	ActionGetAllStudents = "get_all_students"
	ActionSearchStudents = "search_students"
	ActionAddStudent     = "add_student"
	ActionUpdateStudent  = "update_student"
	ActionDeleteStudent  = "delete_student"

	ActionGetAllTeachers = "get_all_teachers"
	ActionSearchTeachers = "search_teachers"
	ActionAddTeacher     = "add_teacher"
	ActionUpdateTeacher  = "update_teacher"
	ActionDeleteTeacher  = "delete_teacher"

	ActionGetAllCourses = "get_all_courses"
	ActionSearchCourses = "search_courses"
	ActionAddCourse     = "add_course"
	ActionUpdateCourse  = "update_course"
	ActionDeleteCourse  = "delete_course"

	ActionEnrollCourse       = "enroll_course"
	ActionDropCourse         = "drop_course"
	ActionGetEnrolledCourses = "get_enrolled_courses"
)
