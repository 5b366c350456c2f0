package models

// UserDoc es el usuario de la aplicación (no confundir con los user_id
// del dataset de entrenamiento: esos solo viven en el artefacto).
type UserDoc struct {
	UserID       int    `json:"userId" bson:"userId"`
	Username     string `json:"username" bson:"username"`
	PasswordHash string `json:"-" bson:"passwordHash"`
	Role         string `json:"role" bson:"role"`
	CreatedAt    string `json:"createdAt" bson:"createdAt"`
}
