package engine

import (
	"errors"
	"log"
	"sort"
)

// ErrProductUnknown: el productId no figura en las etiquetas del modelo.
var ErrProductUnknown = errors.New("product not present in model labels")

// SimilarTo devuelve hasta k productos parecidos por contenido.
// Toma la fila de similitud de la primera aparición del producto en el
// catálogo, la ordena descendente (orden estable: a igual score gana el
// índice menor) y descarta el rango 0, que es el producto consigo mismo.
// Los índices que caen fuera del catálogo se saltean con warning.
func (a *Artifact) SimilarTo(productID, k int) ([]int, error) {
	if _, ok := a.productSet[productID]; !ok {
		return nil, ErrProductUnknown
	}
	row, ok := a.RowIndexOf(productID)
	if !ok {
		return nil, ErrProductUnknown
	}

	scores := a.ContentSimilarity[row]
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	// rangos [1, k+1): se excluye el rango 0 (auto-similitud)
	var out []int
	for rank := 1; rank < len(order) && rank < k+1; rank++ {
		id, ok := a.ProductAtRow(order[rank])
		if !ok {
			log.Printf("[engine] índice fuera del catálogo en similitud de contenido: %d", order[rank])
			continue
		}
		// filas duplicadas del mismo producto también cuentan como "sí mismo"
		if id == productID {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}
