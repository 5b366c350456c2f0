package engine

import (
	"math"
	"sort"
)

// KNNIndex es un índice de vecinos más cercanos por fuerza bruta con
// distancia coseno. Con matrices de este tamaño (usuarios x productos en
// memoria) no hace falta nada más sofisticado.
type KNNIndex struct {
	rows  [][]float64
	norms []float64
}

func NewKNNIndex(rows [][]float64) *KNNIndex {
	ix := &KNNIndex{rows: rows, norms: make([]float64, len(rows))}
	for i, r := range rows {
		ix.norms[i] = norm(r)
	}
	return ix
}

func norm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// cosineDistance = 1 - cos(a, b). Vectores nulos quedan a distancia
// máxima (1) en vez de NaN.
func cosineDistance(a []float64, normA float64, b []float64, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot(a, b)/(normA*normB)
}

// Kneighbors devuelve los índices de las k filas más cercanas al vector,
// ordenados por distancia ascendente. El orden es estable: a igual
// distancia gana el índice menor.
func (ix *KNNIndex) Kneighbors(vec []float64, k int) []int {
	if k <= 0 || len(ix.rows) == 0 {
		return nil
	}
	if k > len(ix.rows) {
		k = len(ix.rows)
	}

	nv := norm(vec)
	dists := make([]float64, len(ix.rows))
	order := make([]int, len(ix.rows))
	for i, row := range ix.rows {
		dists[i] = cosineDistance(vec, nv, row, ix.norms[i])
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		return dists[order[i]] < dists[order[j]]
	})

	return order[:k]
}
