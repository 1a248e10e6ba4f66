package entity

// Identity is the authenticated caller as asserted by a validated bearer token.
// Subject is the identity token stored on User.TokenIdentifier.
type Identity struct {
	Subject string
	Name    string
	Email   string
}
