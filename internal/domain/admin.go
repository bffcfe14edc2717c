package domain

// Admin manages a school's participants. Records are immutable once created.
type Admin struct {
	ID     AdminID `json:"id"`
	School string  `json:"school"`
}

// Token returns the identity token for the admin.
func (a Admin) Token() Token { return AdminToken(a.ID) }
