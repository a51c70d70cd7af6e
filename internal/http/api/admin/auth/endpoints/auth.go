package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/phcfinder/internal/http/api"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/http/api/admin/auth/packets"
	"github.com/Nixie-Tech-LLC/phcfinder/internal/http/middleware"
)

// AuthPublicModule mounts the public login endpoint (/auth/login)
func AuthPublicModule(jwtSecret, adminUsername, adminPasswordHash string) api.Module {
	ctl := newAccountManager(jwtSecret, adminUsername, adminPasswordHash)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/auth/login", ctl.adminLogin)
	})
}

// AuthSessionModule mounts endpoints that need a valid admin JWT
func AuthSessionModule() api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/auth/current_admin", currentAdmin)
	})
}

type AccountManager struct {
	jwtSecret    string
	username     string
	passwordHash string
}

func newAccountManager(secret, username, passwordHash string) *AccountManager {
	return &AccountManager{jwtSecret: secret, username: username, passwordHash: passwordHash}
}

// POST /api/admin/auth/login
func (a *AccountManager) adminLogin(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := middleware.CheckAdmin(a.username, a.passwordHash, request.Username, request.Password); err != nil {
		log.Warn().Str("username", request.Username).Str("client_ip", ctx.ClientIP()).Msg("admin login rejected")
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: "invalid credentials"}
	}

	token, err := middleware.GenerateJWT(request.Username, a.jwtSecret)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}

	return packets.LoginResponse{Token: token, ExpiresIn: int(middleware.TokenTTL.Seconds())}, nil
}

// GET /api/admin/auth/current_admin
func currentAdmin(ctx *gin.Context) (any, *api.APIError) {
	admin, ok := middleware.GetCurrentAdmin(ctx)
	if !ok {
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: "unauthorized"}
	}
	return admin, nil
}
