package dto

// DeliveryInfo carries the checkout form fields, card data included. Card
// fields are optional; the gateway adapter falls back to the sandbox card.
type DeliveryInfo struct {
	Name          string `json:"name" binding:"required"`
	Address       string `json:"address" binding:"required"`
	City          string `json:"city" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	CustomerEmail string `json:"customerEmail"`
	CardNumber    string `json:"cardNumber"`
	CVC           string `json:"cvc"`
	ExpMonth      string `json:"expMonth"`
	ExpYear       string `json:"expYear"`
}

// CreateTransactionRequest describes the payment initiation payload.
type CreateTransactionRequest struct {
	ProductID    string       `json:"productId" binding:"required"`
	DeliveryInfo DeliveryInfo `json:"deliveryInfo" binding:"required"`
}

// CreateTransactionResponse reports the created gateway transaction.
type CreateTransactionResponse struct {
	Message            string `json:"message"`
	RedirectURLBase    string `json:"redirect_url_base"`
	WompiTransactionID string `json:"wompi_transaction_id"`
}
