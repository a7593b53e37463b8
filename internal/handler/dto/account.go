package dto

// RegisterFormView backs the register page. Passwords are never echoed.
type RegisterFormView struct {
	PersonName string         `json:"personName"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	UserType   string         `json:"userType"`
	UserTypes  []SelectOption `json:"userTypes"`
	Errors     []FormError    `json:"errors,omitempty"`
}

// LoginFormView backs the login page.
type LoginFormView struct {
	Email     string      `json:"email"`
	ReturnURL string      `json:"returnUrl,omitempty"`
	Errors    []FormError `json:"errors,omitempty"`
}
