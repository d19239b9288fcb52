package dtos

import "github.com/grandguard/budget-service/internal/domain/models"

type AwardDTO struct {
	Title     string           `json:"title"`
	Amount    string           `json:"amount"`
	Breakdown models.Breakdown `json:"breakdown"`
}
