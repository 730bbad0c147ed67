package session

// Phase is the session lifecycle state. A Snapshot pairs the phase with the
// fields valid in it, so consumers never see a "logged in but tokenless"
// combination.
type Phase string

const (
	PhaseAnonymous      Phase = "anonymous"
	PhaseAuthenticating Phase = "authenticating"
	PhaseAuthenticated  Phase = "authenticated"
	PhaseRefreshing     Phase = "refreshing"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
	RoleUser  Role = "user"
)

// Snapshot is a point-in-time copy of the session. Identity and token
// fields are populated only in the authenticated and refreshing phases.
type Snapshot struct {
	Phase        Phase
	UserID       string
	UserName     string
	UserEmail    string
	Role         Role
	AccessToken  string
	RefreshToken string
	LastError    string
}

// LoggedIn reports whether the session holds a usable token pair.
func (s Snapshot) LoggedIn() bool {
	return s.Phase == PhaseAuthenticated || s.Phase == PhaseRefreshing
}

// LandingRoute maps a role to its post-login landing route. Unknown roles
// land on the login screen. This is a pure lookup: guards call it from
// already-resolved session state, never from a network round trip.
func LandingRoute(role Role) string {
	switch role {
	case RoleAdmin:
		return "/admin"
	case RoleStaff:
		return "/staff"
	case RoleUser:
		return "/account"
	default:
		return "/login"
	}
}
