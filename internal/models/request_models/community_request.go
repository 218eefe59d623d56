package request_models

type SubscribeRequest struct {
	Email  string  `json:"email" form:"email" binding:"required,email,max=120"`
	Name   *string `json:"name" form:"name" binding:"omitempty,max=100"`
	Source string  `json:"source" form:"source" binding:"omitempty,max=50"`
}

type UnsubscribeRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

type ContactRequest struct {
	Name    string `json:"name" form:"name" binding:"required,min=2,max=100"`
	Email   string `json:"email" form:"email" binding:"required,email,max=120"`
	Subject string `json:"subject" form:"subject" binding:"required,min=5,max=200"`
	Message string `json:"message" form:"message" binding:"required,min=10,max=1000"`
}

type ListContactsQuery struct {
	Page       int  `form:"page,default=1" binding:"min=1"`
	PageSize   int  `form:"page_size,default=20" binding:"min=1,max=100"`
	UnreadOnly bool `form:"unread_only"`
}

type UpdateSettingRequest struct {
	Name  string `json:"name" form:"name" binding:"required,max=100"`
	Value string `json:"value" form:"value"`
}
