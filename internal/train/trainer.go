package train

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"tiendarec-tf/internal/engine"
)

// Row es una fila del CSV de entrada del job de entrenamiento.
type Row struct {
	UserID        int
	ProductID     int
	CustomerName  string
	Category      string
	Price         float64
	Rating        float64
	PurchaseCount int
	UserAge       int
	UserGender    string
}

var requiredColumns = []string{
	"user_id", "product_id", "customer_name", "category",
	"price", "rating", "purchase_count", "user_age", "user_gender",
}

// LoadDataset lee el CSV resolviendo columnas por nombre de header.
// Las filas con valores numéricos rotos se saltean con warning.
func LoadDataset(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("leyendo header de %s: %w", path, err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("columna requerida %q ausente en %s", name, path)
		}
	}

	var rows []Row
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Printf("[train] fila %d ilegible, se saltea: %v", line, err)
			continue
		}

		uid, err1 := strconv.Atoi(rec[col["user_id"]])
		pid, err2 := strconv.Atoi(rec[col["product_id"]])
		price, err3 := strconv.ParseFloat(rec[col["price"]], 64)
		rating, err4 := strconv.ParseFloat(rec[col["rating"]], 64)
		purchases, err5 := strconv.Atoi(rec[col["purchase_count"]])
		age, err6 := strconv.Atoi(rec[col["user_age"]])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil || err6 != nil {
			log.Printf("[train] fila %d con valores inválidos, se saltea", line)
			continue
		}

		rows = append(rows, Row{
			UserID:        uid,
			ProductID:     pid,
			CustomerName:  rec[col["customer_name"]],
			Category:      rec[col["category"]],
			Price:         price,
			Rating:        rating,
			PurchaseCount: purchases,
			UserAge:       age,
			UserGender:    rec[col["user_gender"]],
		})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s sin filas válidas", path)
	}
	return rows, nil
}

// featureString sintetiza el texto de features de una fila:
// categoría, precio y demografía del usuario.
func featureString(r Row) string {
	return fmt.Sprintf("%s %s %d %s",
		r.Category, strconv.FormatFloat(r.Price, 'f', -1, 64), r.UserAge, r.UserGender)
}

// Train arma el artefacto completo a partir del dataset:
// similitud de contenido (TF-IDF + kernel lineal), matriz user-item
// (pivot con promedio en duplicados, ausentes = 0), populares top-10.
func Train(rows []Row) (*engine.Artifact, error) {
	catalog := make([]engine.Item, len(rows))
	docs := make([]string, len(rows))
	for i, r := range rows {
		catalog[i] = engine.Item{
			ProductID:     r.ProductID,
			Category:      r.Category,
			Price:         r.Price,
			Rating:        r.Rating,
			PurchaseCount: r.PurchaseCount,
			UserID:        r.UserID,
			CustomerName:  r.CustomerName,
		}
		docs[i] = featureString(r)
	}

	contentSim := linearKernel(tfidfVectors(docs))

	userIDs, productIDs := labelAxes(rows)
	matrix := pivotRatings(rows, userIDs, productIDs)

	art := &engine.Artifact{
		ContentSimilarity: contentSim,
		UserItemRows:      matrix,
		PopularItems:      popularItems(rows, 10),
		ProductIDs:        productIDs,
		UserIDs:           userIDs,
		Catalog:           catalog,
	}
	if err := art.Init(); err != nil {
		return nil, err
	}
	return art, nil
}

// labelAxes: ids únicos ordenados ascendente, como los ejes de un pivot.
func labelAxes(rows []Row) (userIDs, productIDs []int) {
	us := make(map[int]struct{})
	ps := make(map[int]struct{})
	for _, r := range rows {
		us[r.UserID] = struct{}{}
		ps[r.ProductID] = struct{}{}
	}
	for u := range us {
		userIDs = append(userIDs, u)
	}
	for p := range ps {
		productIDs = append(productIDs, p)
	}
	sort.Ints(userIDs)
	sort.Ints(productIDs)
	return userIDs, productIDs
}

// pivotRatings construye la matriz densa usuario x producto. Ratings
// repetidos del mismo par se promedian; celdas sin rating quedan en 0.
func pivotRatings(rows []Row, userIDs, productIDs []int) [][]float64 {
	uIdx := make(map[int]int, len(userIDs))
	for i, id := range userIDs {
		uIdx[id] = i
	}
	pIdx := make(map[int]int, len(productIDs))
	for i, id := range productIDs {
		pIdx[id] = i
	}

	sums := make([][]float64, len(userIDs))
	counts := make([][]int, len(userIDs))
	for i := range sums {
		sums[i] = make([]float64, len(productIDs))
		counts[i] = make([]int, len(productIDs))
	}
	for _, r := range rows {
		i, j := uIdx[r.UserID], pIdx[r.ProductID]
		sums[i][j] += r.Rating
		counts[i][j]++
	}

	for i := range sums {
		for j := range sums[i] {
			if counts[i][j] > 1 {
				sums[i][j] /= float64(counts[i][j])
			}
		}
	}
	return sums
}

// popularItems: top n por suma de compras, descendente. El agrupamiento
// va por productId ascendente, así los empates quedan deterministas.
func popularItems(rows []Row, n int) []int {
	sums := make(map[int]int)
	for _, r := range rows {
		sums[r.ProductID] += r.PurchaseCount
	}
	ids := make([]int, 0, len(sums))
	for id := range sums {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	sort.SliceStable(ids, func(i, j int) bool { return sums[ids[i]] > sums[ids[j]] })
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

// SaveArtifact persiste el artefacto con swap atómico a nivel de archivo:
// se escribe a un temporal en el mismo directorio y se renombra encima.
// Un retrain reemplaza el modelo entero, nunca lo actualiza en partes.
func SaveArtifact(art *engine.Artifact, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "model-*.json.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := writeArtifactJSON(tmp, art); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func writeArtifactJSON(f *os.File, art *engine.Artifact) error {
	return json.NewEncoder(f).Encode(art)
}
