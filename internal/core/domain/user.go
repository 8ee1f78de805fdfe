package domain

// Gender of a user profile. Zero is never stored.
type Gender int

const (
	GenderMale   Gender = 1
	GenderFemale Gender = 2
)

// Valid reports whether g is an accepted profile value.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// User represents a registered account in the domain.
type User struct {
	ID          string  `json:"id"` // store-assigned document key
	UserID      string  `json:"userID"`
	DisplayID   string  `json:"displayID"`
	Email       string  `json:"email"`
	Nickname    string  `json:"nickname"`
	HeadFileURL string  `json:"headFileURL"`
	Gender      Gender  `json:"gender"`
	Birthday    string  `json:"birthday"` // YYYY-MM-DD
	RoleID      *string `json:"roleID,omitempty"`
	CreateIP    *string `json:"createIP,omitempty"`

	PasswordHash string  `json:"-"`
	AccessToken  *string `json:"-"` // fingerprint of the live access token, nil when logged out
	RefreshToken *string `json:"-"` // fingerprint of the live refresh token, nil when logged out

	IsActive  bool `json:"isActive"`
	IsDeleted bool `json:"isDeleted"`
	AuditFields
}

// Identity returns the subset of the user that is embedded in tokens.
func (u User) Identity() Identity {
	return Identity{UserID: u.UserID, Nickname: u.Nickname}
}

// UserPage is one page of a user listing.
type UserPage struct {
	Users    []User
	Total    int64
	Page     int
	PageSize int
}
