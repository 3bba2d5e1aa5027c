package models

import (
	"time"

	"github.com/lib/pq"
)

const UserTable = "ll_users"

// User is a library member or librarian. Passkeys use the UUID bytes as the
// WebAuthn user handle.
type User struct {
	ID           string  `gorm:"primaryKey;type:uuid" json:"id"`
	Username     string  `gorm:"uniqueIndex;size:255;not null" json:"username"`
	DisplayName  string  `gorm:"size:255;not null" json:"displayName"`
	PasswordHash *string `gorm:"size:100" json:"-"`

	IsAdmin     bool           `gorm:"not null;default:false" json:"isAdmin"`
	Permissions pq.StringArray `gorm:"type:text[]" json:"permissions"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"loginCount"`
	LastLoginIP string     `gorm:"size:45" json:"-"`
	LastLoginUA string     `gorm:"size:255" json:"-"`

	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Credentials []Credential `json:"-"`
}

func (User) TableName() string { return UserTable }

// HasPerm reports whether the permission codename was granted to the user
// directly. Admin status is handled by the access policy, not here.
func (u *User) HasPerm(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Credential is one registered passkey. CredentialID, PublicKey and AAGUID
// are stored as bytea.
type Credential struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          string    `gorm:"type:uuid;index" json:"userId"`
	CredentialID    []byte    `gorm:"uniqueIndex" json:"credentialId"`
	PublicKey       []byte    `json:"-"`
	AttestationType string    `gorm:"size:64" json:"attestationType"`
	AAGUID          []byte    `gorm:"type:bytea" json:"aaguid"`
	SignCount       uint32    `json:"signCount"`
	CloneWarning    bool      `json:"cloneWarning"`
	BackupEligible  bool      `json:"backupEligible"`
	BackupState     bool      `json:"backupState"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	LastUsedAt *time.Time `gorm:"index" json:"lastUsedAt,omitempty"`
}

func (Credential) TableName() string { return "ll_credentials" }
