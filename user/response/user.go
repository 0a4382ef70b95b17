package response

// Identity is the client-trusted claim established at login time. The
// username is derived from the email local-part and never re-validated.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
