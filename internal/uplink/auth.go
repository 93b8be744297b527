package uplink

// TokenProvider supplies the opaque hashed identity token attached to
// telemetry uploads. An absent token makes the scheduler decline, not fail.
type TokenProvider interface {
	Token() (string, bool)
}

// StaticToken is a fixed token, mainly for tests and headless agents.
type StaticToken string

// Token implements TokenProvider. The empty string counts as signed out.
func (t StaticToken) Token() (string, bool) {
	return string(t), t != ""
}
