package service

import (
	"fmt"

	"tiendarec-tf/internal/engine"
)

// ProductService: consultas de catálogo directas sobre el snapshot del
// motor (el catálogo vive en el artefacto, no en Mongo).
type ProductService struct {
	engine *engine.Engine
}

func NewProductService(eng *engine.Engine) *ProductService {
	return &ProductService{engine: eng}
}

// GetProduct devuelve la primera fila de catálogo del producto.
func (s *ProductService) GetProduct(productID int) (*engine.Item, error) {
	art, err := s.engine.Artifact()
	if err != nil {
		return nil, err
	}
	items := art.LookupByIDs([]int{productID})
	if len(items) == 0 {
		return nil, fmt.Errorf("product %d not found", productID)
	}
	return &items[0], nil
}

// Top expande los n productos más populares a filas de catálogo.
func (s *ProductService) Top(n int) ([]engine.Item, error) {
	art, err := s.engine.Artifact()
	if err != nil {
		return nil, err
	}
	if n <= 0 || n > 50 {
		n = 10
	}
	return art.LookupByIDs(art.Top(n)), nil
}

// Categories lista las categorías del catálogo.
func (s *ProductService) Categories() ([]string, error) {
	art, err := s.engine.Artifact()
	if err != nil {
		return nil, err
	}
	return art.Categories(), nil
}
