package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"tiendarec-tf/internal/cache"
	"tiendarec-tf/internal/engine"
	"tiendarec-tf/internal/models"
	"tiendarec-tf/internal/repository"
)

const recCacheTTLSeconds = 60 * 60 // 1 hora

type RecommendService struct {
	engine  *engine.Engine
	recRepo *repository.RecommendationRepository
}

func NewRecommendService(eng *engine.Engine, recRepo *repository.RecommendationRepository) *RecommendService {
	return &RecommendService{engine: eng, recRepo: recRepo}
}

// RecRequest son los cuatro campos opcionales tal como llegan del caller
// (strings crudos: la normalización la hace el motor).
type RecRequest struct {
	UserID       string `json:"user_id"`
	ProductID    string `json:"product_id"`
	CustomerName string `json:"customer_name"`
	Category     string `json:"category"`
}

type RecResult struct {
	Records []engine.DisplayRecord `json:"records"`
	Summary engine.Summary         `json:"summary"`
}

func cacheKey(req RecRequest) string {
	return fmt.Sprintf("rec:u:%s:p:%s:n:%s:c:%s",
		req.UserID, req.ProductID, req.CustomerName, req.Category)
}

// Recommend consulta el motor, con cache Redis por combinación de
// parámetros e historial best-effort en Mongo. El único error que
// devuelve es "motor no disponible".
func (s *RecommendService) Recommend(ctx context.Context, appUserID int, req RecRequest) (*RecResult, error) {
	var cached RecResult
	if ok, err := cache.GetJSON(ctx, cacheKey(req), &cached); err == nil && ok {
		return &cached, nil
	}

	parsed := engine.ParseRequest(req.UserID, req.ProductID, req.CustomerName, req.Category)
	records, summary, err := s.engine.Recommend(parsed)
	if err != nil {
		return nil, err
	}

	res := &RecResult{Records: records, Summary: summary}

	// guardar historial: si falla no rompemos la respuesta
	if s.recRepo != nil {
		hist := &models.Recommendation{
			UserID: appUserID,
			Params: map[string]string{
				"user_id":       req.UserID,
				"product_id":    req.ProductID,
				"customer_name": req.CustomerName,
				"category":      req.Category,
			},
			Items:     records,
			CreatedAt: time.Now(),
		}
		if err := s.recRepo.Insert(ctx, hist); err != nil {
			log.Printf("[recommend] error guardando historial en Mongo: %v", err)
		}
	}

	if err := cache.SetJSON(ctx, cacheKey(req), res, recCacheTTLSeconds); err != nil {
		log.Printf("[recommend] error cacheando en Redis: %v", err)
	}

	return res, nil
}

// History lista las últimas recomendaciones pedidas por un usuario de la app.
func (s *RecommendService) History(ctx context.Context, appUserID int, limit int) ([]models.Recommendation, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.recRepo.ListByUser(ctx, appUserID, limit)
}
