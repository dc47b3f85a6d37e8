package config

import (
	"log"
	"strings"
)

// Missing lists the required env keys left empty in c.
func (c Config) Missing() []string {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(c.JWTAccessSecret) == 0 {
		missing = append(missing, "JWT_SECRET")
	}
	return missing
}

// MustRequire stops the process when a required key is empty.
func (c Config) MustRequire() {
	if missing := c.Missing(); len(missing) > 0 {
		log.Fatalf("missing required env %s", strings.Join(missing, ", "))
	}
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}
