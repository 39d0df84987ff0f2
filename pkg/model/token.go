package model

import (
	"fmt"
	"time"

	"github.com/alqor-ug/qlued-go/pkg/schemes"
)

// Token is an API credential. For signing users the key is the base64url
// x coordinate of their Ed25519 public JWK, and uuid_hex identifies the
// user on the storage provider.
type Token struct {
	ID uint `gorm:"primaryKey"`

	Key string `gorm:"uniqueIndex;size:64"`

	UserID uint  `gorm:"column:user_id"`
	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at"`
	IsActive  bool      `gorm:"column:is_active;default:false"`

	StorageProviderID *uint            `gorm:"column:storage_provider_id"`
	StorageProvider   *StorageProvider `gorm:"foreignKey:StorageProviderID;constraint:OnDelete:CASCADE"`

	// UUIDHex is a 24-character hex identifier associated with the user.
	UUIDHex *string `gorm:"column:uuid_hex;uniqueIndex;size:24"`
}

func (Token) TableName() string {
	return "tokens"
}

// Clean validates the token before it is persisted.
func (t *Token) Clean() error {
	if t.Key == "" {
		return fmt.Errorf("token key is required")
	}
	if t.UUIDHex != nil && !schemes.ValidUUIDHex(*t.UUIDHex) {
		return fmt.Errorf("%s is not a valid UUID hex[:24]", *t.UUIDHex)
	}
	return nil
}
