package source

import (
	"fmt"

	"roster-sync/feature/roster/models"
)

// Config holds configuration for the personnel API.
type Config struct {
	// BaseURL is the API root, including the trailing slash.
	BaseURL string `mapstructure:"base_url" default:""`
	// User is the API login.
	User string `mapstructure:"user" default:""`
	// Password is the API password.
	Password string `mapstructure:"password" default:""`
	// RutTRN is the tax id the API knows the TRN company by.
	RutTRN string `mapstructure:"rut_trn" default:""`
	// RutTIR is the tax id the API knows the TIR company by.
	RutTIR string `mapstructure:"rut_tir" default:""`
	// RoleFilter keeps employees whose position contains any keyword.
	RoleFilter []string `mapstructure:"role_filter" default:"driver,conductor"`
	// TimeoutSeconds bounds every HTTP round trip.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
}

// CompanyRUT resolves the tax id configured for company.
func (c Config) CompanyRUT(company models.Company) (string, error) {
	var rut string
	switch company {
	case models.CompanyTRN:
		rut = c.RutTRN
	case models.CompanyTIR:
		rut = c.RutTIR
	default:
		return "", fmt.Errorf("unknown company %q", company)
	}

	if rut == "" {
		return "", fmt.Errorf("no tax id configured for company %s", company)
	}
	return rut, nil
}
