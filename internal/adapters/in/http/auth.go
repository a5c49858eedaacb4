package http

import (
	"net/http"
	"strings"
	"time"

	"qrcafe/internal/adapters/out/auth"
	"qrcafe/internal/core/application/usecases/commands"

	"github.com/labstack/echo/v4"
)

const principalKey = "staff_principal"

// TokenVerifier checks staff bearer tokens.
type TokenVerifier interface {
	Verify(token string) (auth.Principal, error)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type staffView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Staff     staffView `json:"staff"`
}

// Login handles POST /api/auth/login.
func (s *Server) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}

	cmd, err := commands.NewAuthenticateStaffCommand(req.Username, req.Password)
	if err != nil {
		return err
	}

	result, err := s.handlers.AuthenticateStaff.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Staff: staffView{
			ID:       result.Member.ID().String(),
			Username: result.Member.Username(),
			Role:     result.Member.Role(),
		},
	})
}

// RequireStaff rejects requests without a valid staff token. Browsers cannot
// set headers on a WebSocket upgrade, so the token query parameter is accepted too.
func RequireStaff(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				token = c.QueryParam("token")
			}
			if token == "" {
				return writeError(c, http.StatusUnauthorized, "staff token required")
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				return writeError(c, http.StatusUnauthorized, "invalid or expired token")
			}
			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// PrincipalFrom returns the staff principal set by RequireStaff.
func PrincipalFrom(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(principalKey).(auth.Principal)
	return p, ok
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
