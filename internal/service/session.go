package service

// Actor is the explicit session context: who is performing the operation.
// Populated by the auth middleware and passed into services as an argument,
// never read from globals. Used for event attribution.
type Actor struct {
	ID    string
	Name  string
	Email string
}
