package train

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"tiendarec-tf/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRows() []Row {
	return []Row{
		{UserID: 10, ProductID: 1, CustomerName: "Alice Smith", Category: "toys", Price: 10, Rating: 4.0, PurchaseCount: 5, UserAge: 25, UserGender: "female"},
		{UserID: 20, ProductID: 2, CustomerName: "Bob Jones", Category: "toys", Price: 20, Rating: 4.5, PurchaseCount: 9, UserAge: 30, UserGender: "male"},
		{UserID: 10, ProductID: 3, CustomerName: "Alice Smith", Category: "books", Price: 15, Rating: 3.5, PurchaseCount: 20, UserAge: 25, UserGender: "female"},
	}
}

func TestTokenize(t *testing.T) {
	// minúsculas, tokens de al menos dos caracteres, sin stopwords
	assert.Equal(t, []string{"toys", "25", "female"}, tokenize("Toys 25 a female"))
	assert.Empty(t, tokenize("a b c"))
	// el punto corta el token y el "5" suelto no llega al mínimo de 2
	assert.Equal(t, []string{"10"}, tokenize("10.5"))
}

func TestTfidfVectorsAreL2Normalized(t *testing.T) {
	vecs := tfidfVectors([]string{
		"toys 10 25 female",
		"books 15 25 female",
	})
	require.Len(t, vecs, 2)

	for _, v := range vecs {
		var sq float64
		for _, x := range v {
			sq += x * x
		}
		assert.InDelta(t, 1.0, math.Sqrt(sq), 1e-9)
	}
}

func TestLinearKernelSelfSimilarityIsMax(t *testing.T) {
	sim := linearKernel(tfidfVectors([]string{
		"toys 10 25 female",
		"toys 20 30 male",
		"books 15 25 female",
	}))

	for i := range sim {
		for j := range sim[i] {
			assert.LessOrEqual(t, sim[i][j], sim[i][i]+1e-9,
				"la auto-similitud tiene que ser máxima en su fila")
		}
		assert.InDelta(t, 1.0, sim[i][i], 1e-9)
	}
	// simétrica
	assert.InDelta(t, sim[0][2], sim[2][0], 1e-12)
}

func TestLabelAxesSorted(t *testing.T) {
	users, products := labelAxes(testRows())
	assert.Equal(t, []int{10, 20}, users)
	assert.Equal(t, []int{1, 2, 3}, products)
}

func TestPivotRatings(t *testing.T) {
	rows := testRows()
	users, products := labelAxes(rows)
	m := pivotRatings(rows, users, products)

	require.Len(t, m, 2)
	assert.Equal(t, []float64{4.0, 0, 3.5}, m[0])
	assert.Equal(t, []float64{0, 4.5, 0}, m[1])
}

func TestPivotRatingsAveragesDuplicates(t *testing.T) {
	rows := []Row{
		{UserID: 1, ProductID: 7, Rating: 2},
		{UserID: 1, ProductID: 7, Rating: 4},
	}
	m := pivotRatings(rows, []int{1}, []int{7})
	assert.Equal(t, []float64{3}, m[0])
}

func TestPopularItems(t *testing.T) {
	// el 3 suma 20 compras, el 2 suma 9, el 1 suma 5
	assert.Equal(t, []int{3, 2, 1}, popularItems(testRows(), 10))
	assert.Equal(t, []int{3}, popularItems(testRows(), 1))

	// empate: queda el productId menor primero (orden de agrupamiento)
	tied := []Row{
		{ProductID: 5, PurchaseCount: 3},
		{ProductID: 2, PurchaseCount: 3},
	}
	assert.Equal(t, []int{2, 5}, popularItems(tied, 10))
}

func TestTrainProducesValidArtifact(t *testing.T) {
	art, err := Train(testRows())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, art.ProductIDs)
	assert.Equal(t, []int{10, 20}, art.UserIDs)
	assert.Len(t, art.Catalog, 3)
	assert.Len(t, art.ContentSimilarity, 3)
	assert.Equal(t, []int{3, 2, 1}, art.PopularItems)
	require.NoError(t, art.Validate())

	// el artefacto entrenado sirve directo al motor
	eng := engine.NewWithArtifact(art)
	recs, _, err := eng.Recommend(engine.ParseRequest("", "", "", "toys"))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 2, recs[0].ProductID)
	assert.Equal(t, 1, recs[1].ProductID)
}

func TestSaveArtifactRoundtrip(t *testing.T) {
	art, err := Train(testRows())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "data", "model.json")
	require.NoError(t, SaveArtifact(art, path))

	loaded, err := engine.LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, art.ProductIDs, loaded.ProductIDs)
	assert.Equal(t, art.PopularItems, loaded.PopularItems)
}

func TestLoadDataset(t *testing.T) {
	csv := "user_id,product_id,customer_name,category,price,rating,purchase_count,user_age,user_gender\n" +
		"10,1,Alice Smith,toys,10.5,4.0,5,25,female\n" +
		"bad,2,Bob Jones,toys,20,4.5,9,30,male\n" +
		"20,2,Bob Jones,toys,20,4.5,9,30,male\n"

	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	rows, err := LoadDataset(path)
	require.NoError(t, err)
	// la fila con user_id no numérico se saltea
	require.Len(t, rows, 2)
	assert.Equal(t, 10, rows[0].UserID)
	assert.Equal(t, 10.5, rows[0].Price)
	assert.Equal(t, "Bob Jones", rows[1].CustomerName)
}

func TestLoadDatasetMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte("user_id,product_id\n1,2\n"), 0o644))

	_, err := LoadDataset(path)
	assert.Error(t, err)
}
