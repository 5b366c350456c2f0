package engine

import (
	"errors"
	"log"
	"sort"
	"strconv"
)

const (
	cfNeighbors   = 5 // vecinos pedidos al índice colaborativo
	contentPicks  = 3 // productos por categoría preferida en la rama usuario
	similarPicks  = 5 // similares por contenido en la rama producto
	categoryPicks = 5 // top por categoría
	popularPicks  = 10
)

// Razones de degradación de cada estrategia. El orquestador las matchea
// para decidir el fallback; nunca llegan al caller.
var (
	ErrNoNameMatch = errors.New("no catalog row matches customer name")
	ErrEmptyResult = errors.New("strategy produced no recommendations")
)

// Kind identifica la estrategia elegida para un request. Se decide una
// sola vez al construir el Request, en orden de prioridad:
// usuario > producto > nombre > categoría > ninguno.
type Kind int

const (
	KindNone Kind = iota
	KindUser
	KindProduct
	KindName
	KindCategory
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindProduct:
		return "product"
	case KindName:
		return "name"
	case KindCategory:
		return "category"
	default:
		return "none"
	}
}

type Request struct {
	Kind         Kind
	UserID       int
	ProductID    int
	CustomerName string
	Category     string
}

// ParseRequest normaliza los cuatro campos opcionales del request.
//
// Ojo con el quirk heredado (y pineado por test): si CUALQUIERA de los dos
// ids viene con formato inválido, se descartan LOS DOS ids, no solo el
// malo, y el request cae hacia nombre/categoría/populares.
func ParseRequest(userID, productID, customerName, category string) Request {
	var uid, pid int
	hasUID, hasPID := false, false
	badID := false

	if userID != "" {
		v, err := strconv.Atoi(userID)
		if err != nil {
			badID = true
		} else {
			uid, hasUID = v, true
		}
	}
	if productID != "" {
		v, err := strconv.Atoi(productID)
		if err != nil {
			badID = true
		} else {
			pid, hasPID = v, true
		}
	}
	if badID {
		log.Printf("[engine] formato de id inválido (user_id=%q product_id=%q), se ignoran ambos ids",
			userID, productID)
		hasUID, hasPID = false, false
	}

	switch {
	case hasUID:
		return Request{Kind: KindUser, UserID: uid}
	case hasPID:
		return Request{Kind: KindProduct, ProductID: pid}
	case customerName != "":
		return Request{Kind: KindName, CustomerName: customerName}
	case category != "":
		return Request{Kind: KindCategory, Category: category}
	default:
		return Request{Kind: KindNone}
	}
}

type DisplayRecord struct {
	ProductID int     `json:"productId"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Rating    float64 `json:"rating"`
}

// ChartPoint es un punto del resumen para graficar: uno por tripla
// distinta (productId, rating, price).
type ChartPoint struct {
	ProductID int     `json:"productId"`
	Rating    float64 `json:"rating"`
	Price     float64 `json:"price"`
}

type Summary struct {
	Points  []ChartPoint `json:"points"`
	Message string       `json:"message,omitempty"`
}

// Recommend ejecuta exactamente una estrategia según el Kind del request,
// degrada a populares ante cualquier razón de fallback, y expande el
// resultado a registros presentables. El único error que puede devolver
// es ErrUnavailable (artefacto no cargable).
func (e *Engine) Recommend(req Request) ([]DisplayRecord, Summary, error) {
	art, err := e.Artifact()
	if err != nil {
		return nil, Summary{}, err
	}

	ids := art.resolve(req)
	recs, summary := art.present(ids)
	return recs, summary, nil
}

// resolve corre la rama de estrategia y aplica la cadena de fallback.
func (a *Artifact) resolve(req Request) []int {
	var ids []int
	var err error

	switch req.Kind {
	case KindUser:
		ids, err = a.recommendForUser(req.UserID)
	case KindProduct:
		ids, err = a.recommendForProduct(req.ProductID)
	case KindName:
		ids, err = a.recommendForName(req.CustomerName)
	case KindCategory:
		ids, err = a.topInCategory(req.Category, categoryPicks)
	case KindNone:
		return a.Top(popularPicks)
	}

	if err != nil {
		log.Printf("[engine] estrategia %s degradó a populares: %v", req.Kind, err)
		return a.Top(popularPicks)
	}
	if len(ids) == 0 {
		log.Printf("[engine] estrategia %s sin resultados, usando populares", req.Kind)
		return a.Top(popularPicks)
	}
	return ids
}

// recommendForUser: unión de conjuntos entre vecinos CF y hasta 3
// productos de la categoría preferida que el usuario todavía no tiene,
// rankeados por rating descendente (empates en orden de catálogo).
// El orden de la unión NO está garantizado: es una simplificación
// asumida, no un ranking.
func (a *Artifact) recommendForUser(userID int) ([]int, error) {
	cf, err := a.Neighbors(userID, cfNeighbors)
	if err != nil {
		return nil, err
	}

	union := make(map[int]struct{}, len(cf))
	for _, id := range cf {
		union[id] = struct{}{}
	}

	if preferred, ok := a.PreferredCategory(userID); ok {
		for _, id := range a.contentPicksFor(userID, preferred, contentPicks) {
			union[id] = struct{}{}
		}
	}

	if len(union) == 0 {
		return nil, ErrEmptyResult
	}

	ids := make([]int, 0, len(union))
	for id := range union {
		ids = append(ids, id)
	}
	return ids, nil
}

// contentPicksFor: productos de la categoría dada que el usuario no tiene,
// por rating descendente, hasta n ids distintos.
func (a *Artifact) contentPicksFor(userID int, category string, n int) []int {
	owned := make(map[int]struct{})
	for _, it := range a.ItemsForUser(userID) {
		owned[it.ProductID] = struct{}{}
	}

	var rows []Item
	for _, it := range a.cat.rows {
		if it.Category != category {
			continue
		}
		if _, has := owned[it.ProductID]; has {
			continue
		}
		rows = append(rows, it)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rating > rows[j].Rating })

	seen := make(map[int]struct{})
	var out []int
	for _, it := range rows {
		if _, dup := seen[it.ProductID]; dup {
			continue
		}
		seen[it.ProductID] = struct{}{}
		out = append(out, it.ProductID)
		if len(out) == n {
			break
		}
	}
	return out
}

func (a *Artifact) recommendForProduct(productID int) ([]int, error) {
	ids, err := a.SimilarTo(productID, similarPicks)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrEmptyResult
	}
	return ids, nil
}

// recommendForName: primer match (en orden de catálogo) por substring del
// nombre del cliente, y se recursa en la rama usuario con ese userId.
func (a *Artifact) recommendForName(name string) ([]int, error) {
	uid, ok := a.FirstUserByName(name)
	if !ok {
		return nil, ErrNoNameMatch
	}
	return a.recommendForUser(uid)
}

// topInCategory agrupa el catálogo por producto dentro de la categoría
// (match exacto), suma compras y devuelve el top n descendente. Empates
// quedan en orden de agrupamiento (productId ascendente).
func (a *Artifact) topInCategory(category string, n int) ([]int, error) {
	sums := make(map[int]int)
	for _, it := range a.cat.rows {
		if it.Category == category {
			sums[it.ProductID] += it.PurchaseCount
		}
	}
	if len(sums) == 0 {
		return nil, ErrEmptyResult
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
	return ids, nil
}

// present expande los ids a registros presentables y arma el resumen.
// Cualquier falla acá se convierte en un resumen de error explícito:
// jamás se propaga como pánico al caller.
func (a *Artifact) present(ids []int) (recs []DisplayRecord, summary Summary) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[engine] error de presentación: %v", r)
			recs = []DisplayRecord{}
			summary = Summary{Message: "Error generating recommendations"}
		}
	}()

	items := a.LookupByIDs(ids)
	if len(items) == 0 {
		return []DisplayRecord{}, Summary{Message: "No recommendations available"}
	}

	recs = make([]DisplayRecord, 0, len(items))
	seen := make(map[ChartPoint]struct{})
	for _, it := range items {
		recs = append(recs, DisplayRecord{
			ProductID: it.ProductID,
			Category:  it.Category,
			Price:     it.Price,
			Rating:    it.Rating,
		})
		p := ChartPoint{ProductID: it.ProductID, Rating: it.Rating, Price: it.Price}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		summary.Points = append(summary.Points, p)
	}
	return recs, summary
}
