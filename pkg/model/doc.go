// Package model contains the database models: users, API tokens and
// storage provider registrations.
package model
