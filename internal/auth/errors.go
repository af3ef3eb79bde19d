package auth

// AuthError reports rejected credentials or a token that could not be
// decoded into a valid identity.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// ValidationError reports registration input rejected either locally or by
// the backend (e.g. the username is already taken).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
