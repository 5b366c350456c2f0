package engine

import (
	"errors"
	"log"
)

// ErrUserUnknown: el userId no figura en las etiquetas del índice CF.
var ErrUserUnknown = errors.New("user not present in collaborative index")

// Neighbors consulta el índice colaborativo para un usuario conocido.
// Devuelve hasta min(k, len(productIds)) ids de producto: cada índice de
// fila que entrega el KNN se traduce vía ProductIDs, y los índices fuera
// de rango se descartan con un warning (problema de integridad de datos,
// no un error fatal).
func (a *Artifact) Neighbors(userID, k int) ([]int, error) {
	row, ok := a.userRow[userID]
	if !ok {
		return nil, ErrUserUnknown
	}

	n := k
	if len(a.ProductIDs) < n {
		n = len(a.ProductIDs)
	}

	var out []int
	for _, idx := range a.cf.Kneighbors(a.UserItemRows[row], n) {
		if idx < 0 || idx >= len(a.ProductIDs) {
			log.Printf("[engine] índice de producto inválido en CF: %d", idx)
			continue
		}
		out = append(out, a.ProductIDs[idx])
	}
	return out, nil
}
