package ports

// TokenService issues and verifies signed, time-limited bearer tokens.
type TokenService interface {
	// Issue signs a token identifying the given username.
	Issue(username string) (string, error)

	// Verify resolves a token back to its username. Bad signature, malformed
	// structure and expiry all collapse into ok=false.
	Verify(token string) (username string, ok bool)
}
