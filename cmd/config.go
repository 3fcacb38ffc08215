package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"
)

const (
	defaultAllocationTriggerVolume = 500
	defaultChargeBaseRate          = 100
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// AllocationTriggerVolume is the backlog volume of a route at which a
	// truck is allocated.
	AllocationTriggerVolume float64
	// ChargeBaseRate is the charge per unit of volume.
	ChargeBaseRate       float64
	TruckSelectionPolicy services.TruckSelectionPolicy
}

// LoadConfig reads the configuration through getenv. Unset engine settings
// take their defaults; malformed ones are an error.
func LoadConfig(getenv func(string) string) (Config, error) {
	config := Config{
		HTTPPort:   getenv("HTTP_PORT"),
		DBHost:     getenv("DB_HOST"),
		DBPort:     getenv("DB_PORT"),
		DBUser:     getenv("DB_USER"),
		DBPassword: getenv("DB_PASSWORD"),
		DBName:     getenv("DB_NAME"),
		DBSslMode:  getenv("DB_SSLMODE"),
	}

	var policyErr error
	config.TruckSelectionPolicy, policyErr = services.ParseTruckSelectionPolicy(getenv("TRUCK_SELECTION_POLICY"))

	var triggerErr, rateErr error
	config.AllocationTriggerVolume, triggerErr = positiveFloat(
		"ALLOCATION_TRIGGER_VOLUME", getenv("ALLOCATION_TRIGGER_VOLUME"), defaultAllocationTriggerVolume,
	)
	config.ChargeBaseRate, rateErr = positiveFloat(
		"CHARGE_BASE_RATE", getenv("CHARGE_BASE_RATE"), defaultChargeBaseRate,
	)

	if err := errors.Join(policyErr, triggerErr, rateErr); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return config, nil
}

// DSN is the PostgreSQL connection string for the configured database.
func (c Config) DSN() string {
	sslMode := c.DBSslMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode,
	)
}

func positiveFloat(name, value string, fallback float64) (float64, error) {
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	if f <= 0 {
		return 0, errs.NewValueIsOutOfRangeError(name, f, "> 0", "+Inf")
	}
	return f, nil
}
