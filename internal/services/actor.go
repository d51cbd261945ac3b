package services

// Actor identifies who is performing an operation. Built once per request
// by the auth middleware and passed explicitly into services; there is no
// ambient current-user state.
type Actor struct {
	MemberID uint
	UID      string
	Email    string
	IsAdmin  bool
}
