// internal/types/ids.go
package types

import (
	"github.com/google/uuid"
)

type PetID string
type FeedingID string
type ExpressionID string

func NewPetID() PetID {
	return PetID(uuid.New().String())
}

func NewFeedingID() FeedingID {
	return FeedingID(uuid.New().String())
}

func NewExpressionID() ExpressionID {
	return ExpressionID(uuid.New().String())
}
