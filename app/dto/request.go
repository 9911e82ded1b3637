package dto

// SignupRequest carries the signup form fields.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,username_format"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// SigninRequest carries the signin form fields.
type SigninRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}
