package dtos

type TransactionDTO struct {
	Category      string `json:"category"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	DateSubmitted string `json:"date_submitted"`
}
