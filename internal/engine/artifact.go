package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

// ErrUnavailable es el único error que el motor expone hacia afuera:
// el artefacto no existe o está corrupto. Todo lo demás degrada a populares.
var ErrUnavailable = errors.New("recommendation engine not available")

// Item es una fila del catálogo. El catálogo puede tener filas repetidas
// por producto (una por evento de compra); la deduplicación se hace recién
// al armar los DisplayRecord.
type Item struct {
	ProductID     int     `json:"productId"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	Rating        float64 `json:"rating"`
	PurchaseCount int     `json:"purchaseCount"`
	UserID        int     `json:"userId"`
	CustomerName  string  `json:"customerName"`
}

// Artifact es el bundle que produce el job de entrenamiento.
// Se carga una vez por proceso y es de solo lectura: los requests
// concurrentes leen el mismo snapshot sin locks.
//
// Invariantes (ver Validate):
//   - len(UserIDs) == len(UserItemRows)
//   - cada fila de UserItemRows tiene len(ProductIDs) columnas
//   - ContentSimilarity es cuadrada, indexada por fila de catálogo
type Artifact struct {
	ContentSimilarity [][]float64 `json:"contentSimilarity"`
	UserItemRows      [][]float64 `json:"userItemRows"`
	PopularItems      []int       `json:"popularItems"`
	ProductIDs        []int       `json:"productIds"`
	UserIDs           []int       `json:"userIds"`
	Catalog           []Item      `json:"catalog"`

	// derivados, se reconstruyen en Init()
	cf         *KNNIndex
	userRow    map[int]int
	productSet map[int]struct{}
	cat        *catalogIndex
}

// Init valida los invariantes y reconstruye los índices derivados.
// Hay que llamarlo después de deserializar (LoadArtifact lo hace solo).
func (a *Artifact) Init() error {
	if err := a.Validate(); err != nil {
		return err
	}

	a.cf = NewKNNIndex(a.UserItemRows)

	a.userRow = make(map[int]int, len(a.UserIDs))
	for i, id := range a.UserIDs {
		a.userRow[id] = i
	}

	a.productSet = make(map[int]struct{}, len(a.ProductIDs))
	for _, id := range a.ProductIDs {
		a.productSet[id] = struct{}{}
	}

	a.cat = newCatalogIndex(a.Catalog)
	return nil
}

// Validate chequea la forma del artefacto sin tocar los derivados.
func (a *Artifact) Validate() error {
	if len(a.UserIDs) != len(a.UserItemRows) {
		return fmt.Errorf("userIds (%d) no coincide con filas de la matriz user-item (%d)",
			len(a.UserIDs), len(a.UserItemRows))
	}
	for i, row := range a.UserItemRows {
		if len(row) != len(a.ProductIDs) {
			return fmt.Errorf("fila %d de la matriz user-item tiene %d columnas, esperaba %d",
				i, len(row), len(a.ProductIDs))
		}
	}
	// La matriz de similitud de contenido va indexada por fila de catálogo
	// (solo coincide con len(productIds) cuando no hay filas repetidas).
	if len(a.ContentSimilarity) != len(a.Catalog) {
		return fmt.Errorf("contentSimilarity tiene %d filas, el catálogo %d",
			len(a.ContentSimilarity), len(a.Catalog))
	}
	for i, row := range a.ContentSimilarity {
		if len(row) != len(a.ContentSimilarity) {
			return fmt.Errorf("contentSimilarity no es cuadrada (fila %d: %d columnas)", i, len(row))
		}
	}
	return nil
}

// LoadArtifact lee y deserializa el artefacto desde disco.
// Cualquier fallo (archivo ausente, JSON roto, invariantes violados)
// se reporta como ErrUnavailable: nunca se sustituye por un artefacto vacío.
func LoadArtifact(path string) (*Artifact, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[engine] no se pudo leer el modelo %s: %v", path, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var a Artifact
	if err := json.Unmarshal(b, &a); err != nil {
		log.Printf("[engine] modelo corrupto en %s: %v", path, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := a.Init(); err != nil {
		log.Printf("[engine] modelo inválido en %s: %v", path, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &a, nil
}

// Engine mantiene el artefacto detrás de un puntero atómico:
// carga perezosa en el primer request, y Reload() hace el swap atómico
// (los requests en vuelo siguen con el snapshot anterior).
type Engine struct {
	path string
	art  atomic.Pointer[Artifact]
	mu   sync.Mutex // serializa cargas, no lecturas
}

func New(path string) *Engine {
	return &Engine{path: path}
}

// NewWithArtifact arma un motor ya cargado. El artefacto tiene que
// estar inicializado (Init).
func NewWithArtifact(a *Artifact) *Engine {
	e := &Engine{}
	e.art.Store(a)
	return e
}

// Artifact devuelve el snapshot vigente, cargándolo si es la primera vez.
func (e *Engine) Artifact() (*Artifact, error) {
	if a := e.art.Load(); a != nil {
		return a, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if a := e.art.Load(); a != nil {
		return a, nil
	}

	a, err := LoadArtifact(e.path)
	if err != nil {
		return nil, err
	}
	e.art.Store(a)
	log.Printf("[engine] modelo cargado: %d productos, %d usuarios, %d filas de catálogo",
		len(a.ProductIDs), len(a.UserIDs), len(a.Catalog))
	return a, nil
}

// Reload relee el artefacto desde disco y hace el swap. Si la carga
// falla se mantiene el snapshot anterior.
func (e *Engine) Reload() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := LoadArtifact(e.path)
	if err != nil {
		return err
	}
	e.art.Store(a)
	log.Printf("[engine] modelo recargado: %d productos, %d usuarios",
		len(a.ProductIDs), len(a.UserIDs))
	return nil
}

// Loaded dice si ya hay un snapshot en memoria (sin disparar la carga).
func (e *Engine) Loaded() bool {
	return e.art.Load() != nil
}
