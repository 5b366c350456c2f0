package engine

import (
	"sort"
	"strings"
)

// catalogIndex son los índices derivados sobre las filas del catálogo.
// Las filas conservan el orden del archivo de entrada; ese orden es parte
// del contrato (ej. "primer cliente que matchea" depende de él).
type catalogIndex struct {
	rows      []Item
	firstRow  map[int]int   // productId -> primera fila donde aparece
	byProduct map[int][]int // productId -> todas sus filas
	byUser    map[int][]int // userId -> filas de ese usuario
}

func newCatalogIndex(rows []Item) *catalogIndex {
	idx := &catalogIndex{
		rows:      rows,
		firstRow:  make(map[int]int),
		byProduct: make(map[int][]int),
		byUser:    make(map[int][]int),
	}
	for i, it := range rows {
		if _, ok := idx.firstRow[it.ProductID]; !ok {
			idx.firstRow[it.ProductID] = i
		}
		idx.byProduct[it.ProductID] = append(idx.byProduct[it.ProductID], i)
		idx.byUser[it.UserID] = append(idx.byUser[it.UserID], i)
	}
	return idx
}

// dedupKey es la tupla sobre la que se deduplican los resultados.
type dedupKey struct {
	productID int
	category  string
	price     float64
	rating    float64
}

// LookupByIDs expande ids de producto a filas de catálogo, respetando el
// orden de los ids (para no perder el ranking de la estrategia) y, dentro
// de cada producto, el orden de catálogo. Deduplica por
// (productId, category, price, rating): un producto con dos precios da
// dos registros, dos eventos idénticos salvo el cliente dan uno.
func (a *Artifact) LookupByIDs(ids []int) []Item {
	seen := make(map[dedupKey]struct{})
	seenID := make(map[int]struct{})
	var out []Item
	for _, id := range ids {
		if _, dup := seenID[id]; dup {
			continue
		}
		seenID[id] = struct{}{}
		for _, row := range a.cat.byProduct[id] {
			it := a.cat.rows[row]
			k := dedupKey{it.ProductID, it.Category, it.Price, it.Rating}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, it)
		}
	}
	return out
}

// ItemsForUser devuelve las filas del catálogo asociadas a un usuario,
// en orden de catálogo.
func (a *Artifact) ItemsForUser(userID int) []Item {
	rows := a.cat.byUser[userID]
	out := make([]Item, 0, len(rows))
	for _, i := range rows {
		out = append(out, a.cat.rows[i])
	}
	return out
}

// PreferredCategory es la moda de `category` sobre las filas del usuario.
// Empates se resuelven a favor de la categoría vista primero.
func (a *Artifact) PreferredCategory(userID int) (string, bool) {
	items := a.ItemsForUser(userID)
	if len(items) == 0 {
		return "", false
	}

	counts := make(map[string]int)
	var order []string
	for _, it := range items {
		if _, ok := counts[it.Category]; !ok {
			order = append(order, it.Category)
		}
		counts[it.Category]++
	}

	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best, true
}

// FirstUserByName busca la primera fila (en orden de catálogo) cuyo
// customerName contiene el substring, sin distinguir mayúsculas.
func (a *Artifact) FirstUserByName(name string) (int, bool) {
	needle := strings.ToLower(name)
	for _, it := range a.cat.rows {
		if strings.Contains(strings.ToLower(it.CustomerName), needle) {
			return it.UserID, true
		}
	}
	return 0, false
}

// RowIndexOf devuelve la primera fila del catálogo para un producto.
func (a *Artifact) RowIndexOf(productID int) (int, bool) {
	i, ok := a.cat.firstRow[productID]
	return i, ok
}

// ProductAtRow devuelve el productId de una fila del catálogo.
func (a *Artifact) ProductAtRow(i int) (int, bool) {
	if i < 0 || i >= len(a.cat.rows) {
		return 0, false
	}
	return a.cat.rows[i].ProductID, true
}

// Categories lista las categorías distintas del catálogo, ordenadas.
func (a *Artifact) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range a.cat.rows {
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	sort.Strings(out)
	return out
}
