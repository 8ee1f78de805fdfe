package models

// UserCollection is the document collection and table name for users.
const UserCollection = "user"

// User is the stored shape of a user record.
// AccessToken and RefreshToken hold token fingerprints, never raw tokens.
type User struct {
	ID           string  `bson:"_id" db:"id"`
	UserID       string  `bson:"user_id" db:"user_id"`
	DisplayID    string  `bson:"display_id" db:"display_id"`
	Email        string  `bson:"email" db:"email"`
	Nickname     string  `bson:"nickname" db:"nickname"`
	HeadFileURL  string  `bson:"head_file_url" db:"head_file_url"`
	Gender       int     `bson:"gender" db:"gender"`
	Birthday     string  `bson:"birthday" db:"birthday"`
	Password     string  `bson:"password" db:"password"`
	CreateIP     *string `bson:"create_ip" db:"create_ip"`
	RoleID       *string `bson:"role_id" db:"role_id"`
	AccessToken  *string `bson:"access_token" db:"access_token"`
	RefreshToken *string `bson:"refresh_token" db:"refresh_token"`
	IsActive     bool    `bson:"is_active" db:"is_active"`
	IsDeleted    bool    `bson:"is_deleted" db:"is_deleted"`
	AuditFields  `bson:",inline"`
}
