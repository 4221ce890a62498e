package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 9
)

// GenerateID gera um identificador curto para clientes e registros de notificação
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, idLength)
}
