package domain

// ActorRole identifies which side of a booking the authenticated caller is
// acting as. Identity itself is issued by an external provider; this service
// trusts the id and role it receives on each call.
type ActorRole string

const (
	RoleBorrower ActorRole = "BORROWER"
	RoleLender   ActorRole = "LENDER"
)

type User struct {
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
