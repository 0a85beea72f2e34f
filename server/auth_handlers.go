package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/primepulse/pkg/service"
)

type userSignupRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	UserType    string `json:"user_type" binding:"required,oneof=Customer Manufacturer Agent"`
	AgreeToTerm bool   `json:"agree_to_term" binding:"required"`
}

func (s *Server) userSignup(c *gin.Context) {
	var req userSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.auth.RegisterUser(c.Request.Context(), service.RegisterUserInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Password:    req.Password,
		UserType:    req.UserType,
		AgreeToTerm: req.AgreeToTerm,
	})
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "User Successfully Registered", user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) userLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := s.auth.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccessWithToken(c, http.StatusOK, "User Successfully Logged In", user, token)
}

type changePasswordRequest struct {
	OldPassword        string `json:"old_password" binding:"required"`
	NewPassword        string `json:"new_password" binding:"required,min=8"`
	ConfirmNewPassword string `json:"confirm_new_password" binding:"required"`
}

func (s *Server) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	err := s.auth.ChangePassword(c.Request.Context(), currentSubject(c),
		req.OldPassword, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Password changed successfully", nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (s *Server) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK,
		"If you have an account with us, you will receive an email with a 6 digit code to reset your password", nil)
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (s *Server) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.auth.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Password changed successfully", nil)
}

type adminSignupRequest struct {
	FirstName string   `json:"first_name" binding:"required"`
	LastName  string   `json:"last_name" binding:"required"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=8"`
	Roles     []string `json:"roles" binding:"omitempty,dive,oneof=Admin SuperAdmin"`
}

func (s *Server) adminSignup(c *gin.Context) {
	var req adminSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	admin, err := s.auth.RegisterAdmin(c.Request.Context(), service.RegisterAdminInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Roles:     req.Roles,
	})
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Admin Successfully Registered", admin)
}

func (s *Server) adminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	admin, token, err := s.auth.LoginAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondServiceError(c, err)
		return
	}
	respondSuccessWithToken(c, http.StatusOK, "Admin Successfully Logged In", admin, token)
}
