package response_models

type ContactMessageResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt int64  `json:"created_at"`
}

type ContactPage struct {
	Items    []ContactMessageResponse `json:"items"`
	Total    int64                    `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"page_size"`
}

type SubscriptionInfoResponse struct {
	ProductName           string `json:"product_name"`
	PriceCents            int64  `json:"price_cents"`
	Currency              string `json:"currency"`
	Interval              string `json:"interval"`
	HasActiveSubscription bool   `json:"has_active_subscription"`
}
