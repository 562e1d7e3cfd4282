package services

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// NewTxHash returns an opaque unique identifier in the 0x-hex shape the
// frontend displays as a "transaction hash". It proves nothing; this is a
// simulation.
func NewTxHash() string {
	u := uuid.New()
	return "0x" + hex.EncodeToString(u[:])
}
