package utils

import (
	"time"
)

// Import pipeline constants
const (
	// ImportLockTTL bounds how long a per-document import lock may be held
	// before it expires on its own (crashed importer recovery)
	ImportLockTTL = 5 * time.Minute

	// ImportLockKeyPrefix prefixes the redis key used to serialize imports
	// of the same source document
	ImportLockKeyPrefix = "kura:import-lock:"
)

// Listing limits matching the roster round sizes (low thousands of records)
const (
	// DefaultListLimit caps full roster listings
	DefaultListLimit = 500

	// VacantListLimit caps vacant position listings
	VacantListLimit = 100
)

// NationalIDLength is the fixed length of a Turkish national identity number
const NationalIDLength = 11
