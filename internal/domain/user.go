package domain

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User represents the signed-in supporter. Role never changes after the user
// is created; IsPrivate is toggled by the user at any time.
type User struct {
	ID        int64    `json:"id"`
	Email     string   `json:"email"`
	RealName  string   `json:"real_name"`
	DummyName string   `json:"dummy_name"`
	IsPrivate bool     `json:"is_private"`
	Role      UserRole `json:"role"`
}

// IsAdmin reports whether the user may reach the admin dashboard.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// DisplayName resolves the live public identity of the user.
func (u User) DisplayName() string {
	if u.IsPrivate {
		return u.DummyName
	}
	return u.RealName
}

// Snapshot freezes the current identity choice of the user.
func (u User) Snapshot() PrivacySnapshot {
	return PrivacySnapshot{
		RealName:  u.RealName,
		DummyName: u.DummyName,
		IsPrivate: u.IsPrivate,
	}
}
