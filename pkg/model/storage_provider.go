package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alqor-ug/qlued-go/pkg/schemes"
)

var providerNameRgx = regexp.MustCompile(`^[a-z0-9]+$`)

// StorageProvider is a registered storage provider: it carries everything
// needed to open a connection to the system that holds backend configs and
// job documents.
type StorageProvider struct {
	ID uint `gorm:"primaryKey"`

	// StorageType is one of local, mongodb or dropbox.
	StorageType schemes.StorageType `gorm:"column:storage_type;type:varchar(20)"`

	// Name is unique and becomes the first part of full backend names,
	// so it must not contain the underscore separator.
	Name string `gorm:"uniqueIndex;size:50"`

	IsActive bool `gorm:"column:is_active;default:true"`

	OwnerID uint  `gorm:"column:owner_id"`
	Owner   *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`

	Description string `gorm:"size:500"`

	// Login is the provider login information as a JSON document.
	Login string `gorm:"type:jsonb"`
}

func (StorageProvider) TableName() string {
	return "storage_providers"
}

// Clean validates and normalizes the entry before it is persisted.
func (s *StorageProvider) Clean() error {
	if !s.StorageType.IsAStorageType() {
		return fmt.Errorf("value %q is not a valid storage type choice", s.StorageType)
	}

	if strings.Contains(s.Name, " ") || strings.Contains(s.Name, "_") {
		return fmt.Errorf("the name of the storage provider cannot contain spaces or underscores")
	}

	s.Name = strings.ToLower(s.Name)

	if !providerNameRgx.MatchString(s.Name) {
		return fmt.Errorf("the name of the storage provider can only contain lowercase alphanumeric characters")
	}

	if err := schemes.ValidateLogin(s.StorageType, []byte(s.Login)); err != nil {
		return err
	}

	return nil
}
