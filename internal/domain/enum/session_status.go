package enum

// SessionStatus is the state of a branch cash register session.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// String returns the string representation of the session status
func (s SessionStatus) String() string {
	return string(s)
}
