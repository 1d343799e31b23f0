package handler

import (
	"time"

	"github.com/almasbek/pinpoint/internal/domain"
	"github.com/gin-gonic/gin"
)

// Every endpoint answers with the same envelope so clients can switch on
// status.status without caring which route they hit. token is null except
// on login.
type responseStatus struct {
	StatusCode int    `json:"statusCode"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

type envelope struct {
	Status responseStatus `json:"status"`
	Data   any            `json:"data"`
	Token  *string        `json:"token"`
}

func respond(c *gin.Context, code int, message string, data any) {
	c.JSON(code, envelope{
		Status: responseStatus{StatusCode: code, Status: "success", Message: message},
		Data:   data,
	})
}

func respondWithToken(c *gin.Context, code int, message string, data any, token string) {
	c.JSON(code, envelope{
		Status: responseStatus{StatusCode: code, Status: "success", Message: message},
		Data:   data,
		Token:  &token,
	})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, envelope{
		Status: responseStatus{StatusCode: code, Status: "error", Message: message},
	})
}

// userResponse is the user record as exposed over the wire — never the
// password hash or reset-token fields.
type userResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	IsVerified     bool      `json:"isVerified"`
	ProfilePicture *string   `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Email:          u.Email,
		Username:       u.Username,
		IsVerified:     u.IsVerified,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
