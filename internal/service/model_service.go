package service

import (
	"tiendarec-tf/internal/engine"
)

// ModelService expone el mantenimiento del artefacto: resumen y
// recarga (swap atómico tras un retrain).
type ModelService struct {
	engine *engine.Engine
}

func NewModelService(eng *engine.Engine) *ModelService {
	return &ModelService{engine: eng}
}

type ModelSummary struct {
	Loaded       bool  `json:"loaded"`
	Products     int   `json:"products"`
	Users        int   `json:"users"`
	CatalogRows  int   `json:"catalogRows"`
	PopularItems []int `json:"popularItems"`
}

// Summary describe el snapshot vigente. Si el modelo nunca se cargó,
// intenta cargarlo; un modelo ausente devuelve el error de motor.
func (s *ModelService) Summary() (*ModelSummary, error) {
	art, err := s.engine.Artifact()
	if err != nil {
		return nil, err
	}
	return &ModelSummary{
		Loaded:       true,
		Products:     len(art.ProductIDs),
		Users:        len(art.UserIDs),
		CatalogRows:  len(art.Catalog),
		PopularItems: art.Top(10),
	}, nil
}

// Reload relee el artefacto de disco y hace el swap. Los requests en
// vuelo terminan contra el snapshot anterior.
func (s *ModelService) Reload() error {
	return s.engine.Reload()
}
