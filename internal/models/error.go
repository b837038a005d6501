package models

// ErrorResponse is the error envelope returned by the burger API
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error messages shared by the API server and the client
const (
	// MsgTokenExpired is sent when a well-formed access token is past its expiry.
	// Clients react to it by refreshing the token pair once.
	MsgTokenExpired = "jwt expired"

	MsgUnauthorized       = "You should be authorised"
	MsgInvalidToken       = "invalid token"
	MsgInvalidCredentials = "email or password are incorrect"
	MsgUserExists         = "User already exists"
	MsgBadRequest         = "Invalid request body"
	MsgIngredientsMissing = "Ingredient ids must be provided"
	MsgBunRequired        = "Order must contain a bun"
	MsgUnknownIngredient  = "One or more ids provided are incorrect"
	MsgOrderNotFound      = "Order not found"
	MsgInvalidRefresh     = "Token is invalid"
	MsgInvalidResetCode   = "Incorrect reset token"
	MsgInternal           = "Internal server error"
)

// NewErrorResponse creates a failed envelope with the given message
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: message,
	}
}
