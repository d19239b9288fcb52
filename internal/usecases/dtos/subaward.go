package dtos

type SubawardDTO struct {
	RecipientName    string `json:"recipient_name"`
	RecipientContact string `json:"recipient_contact"`
	RecipientEmail   string `json:"recipient_email"`
	Amount           string `json:"amount"`
	Description      string `json:"description"`
}
