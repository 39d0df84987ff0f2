// Package store defines the storage interfaces the HTTP endpoints depend
// on. Concrete implementations live in the gorm subpackage.
package store
