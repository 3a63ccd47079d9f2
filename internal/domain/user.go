package domain

// Role is attached to an authenticated user and is immutable for the
// lifetime of a session. Changing it requires re-authentication.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleStaff    Role = "STAFF"
	RoleCustomer Role = "CUSTOMER"
)

type User struct {
	ID           int32  `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
	CreatedOn    string `json:"created_on,omitempty"`
	UpdatedOn    string `json:"updated_on,omitempty"`
}

// CustomerProfile holds contact details collected at registration.
type CustomerProfile struct {
	UserID  int32  `json:"user_id"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}
