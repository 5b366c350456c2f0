package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestPriority(t *testing.T) {
	assert.Equal(t, KindUser, ParseRequest("10", "1", "alice", "toys").Kind)
	assert.Equal(t, KindProduct, ParseRequest("", "1", "alice", "toys").Kind)
	assert.Equal(t, KindName, ParseRequest("", "", "alice", "toys").Kind)
	assert.Equal(t, KindCategory, ParseRequest("", "", "", "toys").Kind)
	assert.Equal(t, KindNone, ParseRequest("", "", "", "").Kind)
}

// Quirk heredado: un id con formato inválido anula LOS DOS ids, no solo
// el inválido. user_id numérico + product_id no numérico tiene que dar
// lo mismo que no mandar ningún id.
func TestParseRequestInvalidIDClearsBoth(t *testing.T) {
	req := ParseRequest("10", "abc", "", "")
	assert.Equal(t, KindNone, req.Kind)

	req = ParseRequest("xyz", "7", "", "")
	assert.Equal(t, KindNone, req.Kind)

	// con nombre presente cae a la rama por nombre
	req = ParseRequest("10", "abc", "alice", "")
	assert.Equal(t, KindName, req.Kind)
}

func TestRecommendInvalidProductIDSameAsNoIDs(t *testing.T) {
	eng := NewWithArtifact(newTestArtifact(t))

	withBadID, _, err := eng.Recommend(ParseRequest("10", "abc", "", ""))
	require.NoError(t, err)

	withNoIDs, _, err := eng.Recommend(ParseRequest("", "", "", ""))
	require.NoError(t, err)

	assert.Equal(t, withNoIDs, withBadID)
	assert.Equal(t, []int{3, 1}, productIDs(withBadID))
}

func TestRecommendByCategory(t *testing.T) {
	eng := NewWithArtifact(newTestArtifact(t))

	// "toys": producto 2 (9 compras) antes que producto 1 (5 compras)
	recs, summary, err := eng.Recommend(ParseRequest("", "", "", "toys"))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, productIDs(recs))
	assert.Len(t, summary.Points, 2)
	assert.Empty(t, summary.Message)

	// categoría desconocida degrada a populares [3,1]
	recs, _, err = eng.Recommend(ParseRequest("", "", "", "unknown"))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, productIDs(recs))
}

func TestRecommendByUser(t *testing.T) {
	eng := NewWithArtifact(newTestArtifact(t))

	// usuario 10: CF aporta {1,2} (dos filas de usuarios, mapeadas a
	// productIds); contenido aporta el 2 ("toys" preferida, no lo tiene).
	// La unión es un conjunto: el orden no está garantizado.
	recs, _, err := eng.Recommend(ParseRequest("10", "", "", ""))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2}, productIDs(recs))
}

func TestRecommendUnknownUserFallsBack(t *testing.T) {
	eng := NewWithArtifact(newTestArtifact(t))

	recs, _, err := eng.Recommend(ParseRequest("99", "", "", ""))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, productIDs(recs))
}

func TestRecommendByProduct(t *testing.T) {
	eng := NewWithArtifact(newTestArtifact(t))

	recs, _, err := eng.Recommend(ParseRequest("", "1", "", ""))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, productIDs(recs))
	assert.NotContains(t, productIDs(recs), 1)

	// id de producto fuera del modelo degrada a populares
	recs, _, err = eng.Recommend(ParseRequest("", "42", "", ""))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, productIDs(recs))
}

func TestRecommendByProductIdempotent(t *testing.T) {
	eng := NewWithArtifact(newTestArtifact(t))

	first, _, err := eng.Recommend(ParseRequest("", "2", "", ""))
	require.NoError(t, err)
	second, _, err := eng.Recommend(ParseRequest("", "2", "", ""))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecommendByName(t *testing.T) {
	eng := NewWithArtifact(newTestArtifact(t))

	// "ali" matchea "Alice Smith" (substring, case-insensitive) y recursa
	// en la rama del usuario 10
	recs, _, err := eng.Recommend(ParseRequest("", "", "ali", ""))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2}, productIDs(recs))

	// sin match degrada a populares
	recs, _, err = eng.Recommend(ParseRequest("", "", "zzz", ""))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, productIDs(recs))
}

func TestRecommendNoInput(t *testing.T) {
	eng := NewWithArtifact(newTestArtifact(t))

	recs, summary, err := eng.Recommend(Request{Kind: KindNone})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, productIDs(recs))
	assert.Len(t, summary.Points, 2)
}

// Dos filas idénticas en (productId, category, price, rating) pero con
// distinto cliente colapsan a un solo DisplayRecord.
func TestPresentDeduplicatesCatalogRows(t *testing.T) {
	a := &Artifact{
		ContentSimilarity: [][]float64{
			{1, 0, 0, 0},
			{0, 1, 0, 0},
			{0, 0, 1, 0},
			{0, 0, 0, 1},
		},
		UserItemRows: [][]float64{{4.0, 3.0}},
		PopularItems: []int{1, 2},
		ProductIDs:   []int{1, 2},
		UserIDs:      []int{10},
		Catalog: []Item{
			{ProductID: 1, Category: "toys", Price: 10, Rating: 4.0, PurchaseCount: 2, UserID: 10, CustomerName: "Alice"},
			{ProductID: 1, Category: "toys", Price: 10, Rating: 4.0, PurchaseCount: 3, UserID: 10, CustomerName: "Bob"},
			{ProductID: 2, Category: "toys", Price: 12, Rating: 3.0, PurchaseCount: 1, UserID: 10, CustomerName: "Alice"},
			{ProductID: 2, Category: "toys", Price: 12, Rating: 3.0, PurchaseCount: 1, UserID: 10, CustomerName: "Carol"},
		},
	}
	require.NoError(t, a.Init())

	recs, summary := a.present([]int{1, 2})
	assert.Equal(t, []int{1, 2}, productIDs(recs))
	assert.Len(t, recs, 2)
	assert.Len(t, summary.Points, 2)
}

func TestPresentEmptyExpansion(t *testing.T) {
	a := newTestArtifact(t)

	recs, summary := a.present(nil)
	assert.Empty(t, recs)
	assert.Equal(t, "No recommendations available", summary.Message)
}
