// Package domain defines the global settings singleton.
package domain

import (
	"time"
)

// SettingsKey is the fixed key of the singleton settings record.
const SettingsKey = "global"

// GlobalSettings is the singleton configuration record. It is created at most
// once with defaults on first read and updated in place thereafter.
type GlobalSettings struct {
	Key                           string
	AllowSelfServiceRegistration  bool
	DefaultSelfServicePermissions []string
	CreatedAt                     time.Time
	UpdatedAt                     time.Time
}

// NewDefaultSettings returns the settings record materialized on first read:
// self-service registration disabled with an empty permission set.
func NewDefaultSettings() *GlobalSettings {
	now := time.Now().UTC()
	return &GlobalSettings{
		Key:                           SettingsKey,
		AllowSelfServiceRegistration:  false,
		DefaultSelfServicePermissions: []string{},
		CreatedAt:                     now,
		UpdatedAt:                     now,
	}
}
