package utils

import "github.com/google/uuid"

// UUIDGenerator issues time-ordered ids for new documents. Kept as a struct
// so repositories can take id generation as an injected dependency.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
