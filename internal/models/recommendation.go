package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tiendarec-tf/internal/engine"
)

// Recommendation es una entrada del historial: qué pidió el usuario de la
// app y qué devolvió el motor.
type Recommendation struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID    int                    `bson:"userId" json:"userId"`
	Params    map[string]string      `bson:"params" json:"params"`
	Items     []engine.DisplayRecord `bson:"items" json:"items"`
	CreatedAt time.Time              `bson:"createdAt" json:"createdAt"`
}
