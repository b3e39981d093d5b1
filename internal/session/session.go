package session

// Role is the authorization level attached to a user account.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTeacher || r == RoleStudent
}

// Identity is the public profile of an authenticated caller. It never
// carries the password hash.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
}

// Session is the per-connection authentication state. Exactly one
// session exists per live connection, owned by the goroutine handling
// that connection; it is never shared and never persisted, so it needs
// no locking.
type Session struct {
	user *Identity
}

func New() *Session {
	return &Session{}
}

// Current returns the authenticated identity, or nil when anonymous.
func (s *Session) Current() *Identity {
	return s.user
}

func (s *Session) Authenticated() bool {
	return s.user != nil
}

// Login records a successful authentication. Only the connection loop
// calls this, immediately after a successful login response.
func (s *Session) Login(user *Identity) {
	s.user = user
}

// Logout returns the session to the anonymous state.
func (s *Session) Logout() {
	s.user = nil
}
