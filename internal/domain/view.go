package domain

import "fmt"

// View identifies one screen of the client. The set is closed; adding a view
// means adding a constant here and a case everywhere Views are switched on.
type View int

const (
	ViewHome View = iota
	ViewDonate
	ViewLeaderboard
	ViewCertificates
	ViewCommunity
	ViewAdmin
)

// Views lists every view in navigation order.
var Views = []View{ViewHome, ViewDonate, ViewLeaderboard, ViewCertificates, ViewCommunity, ViewAdmin}

func (v View) String() string {
	switch v {
	case ViewHome:
		return "home"
	case ViewDonate:
		return "donate"
	case ViewLeaderboard:
		return "leaderboard"
	case ViewCertificates:
		return "certificates"
	case ViewCommunity:
		return "community"
	case ViewAdmin:
		return "admin"
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// MarshalText renders the view by name.
func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText accepts the names MarshalText produces.
func (v *View) UnmarshalText(b []byte) error {
	parsed, err := ParseView(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseView maps a view name to its constant.
func ParseView(name string) (View, error) {
	for _, v := range Views {
		if v.String() == name {
			return v, nil
		}
	}
	return ViewHome, fmt.Errorf("%w: %q", ErrInvalidView, name)
}

// ResolveView applies the role gate: admin is only reachable by admins and
// anyone else lands on home.
func ResolveView(v View, u User) View {
	if v == ViewAdmin && !u.IsAdmin() {
		return ViewHome
	}
	return v
}
