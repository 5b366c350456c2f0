package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeighborsReturnsKnownProducts(t *testing.T) {
	a := newTestArtifact(t)

	for _, uid := range a.UserIDs {
		ids, err := a.Neighbors(uid, 5)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(ids), 5)
		for _, id := range ids {
			assert.Contains(t, a.ProductIDs, id)
		}
	}
}

func TestNeighborsUnknownUser(t *testing.T) {
	a := newTestArtifact(t)

	_, err := a.Neighbors(99, 5)
	assert.ErrorIs(t, err, ErrUserUnknown)
}

// Índices de fila fuera del rango de productIds se descartan en vez de
// reventar (warning de integridad de datos).
func TestNeighborsSkipsOutOfRangeIndices(t *testing.T) {
	a := &Artifact{
		ContentSimilarity: [][]float64{{1, 0}, {0, 1}},
		// 3 filas de usuarios pero solo 1 producto etiquetado: los índices
		// de fila 1 y 2 caen fuera de productIds
		UserItemRows: [][]float64{{5}, {3}, {1}},
		PopularItems: []int{7},
		ProductIDs:   []int{7},
		UserIDs:      []int{10, 20, 30},
		Catalog: []Item{
			{ProductID: 7, Category: "toys", Price: 1, Rating: 5, PurchaseCount: 1, UserID: 10, CustomerName: "A"},
			{ProductID: 7, Category: "toys", Price: 2, Rating: 4, PurchaseCount: 1, UserID: 20, CustomerName: "B"},
		},
	}
	require.NoError(t, a.Init())

	ids, err := a.Neighbors(10, 5)
	require.NoError(t, err)
	// pide min(5, 1) = 1 vecino; si el índice es válido mapea a 7
	for _, id := range ids {
		assert.Equal(t, 7, id)
	}
	assert.LessOrEqual(t, len(ids), 1)
}
