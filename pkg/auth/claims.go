package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/team-fruitee/fruitee-backend/pkg/enums"
)

// AccessTokenPayload captures the identity data available when minting a JWT.
// Tokens are normally issued by the external auth collaborator; minting lives
// here for dev tooling and tests.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   enums.UserRole
	Status enums.UserStatus
	JTI    string
}

// AccessTokenClaims represents the typed JWT presented by clients.
type AccessTokenClaims struct {
	UserID uuid.UUID        `json:"user_id"`
	Role   enums.UserRole   `json:"role"`
	Status enums.UserStatus `json:"status"`
	jwt.RegisteredClaims
}
