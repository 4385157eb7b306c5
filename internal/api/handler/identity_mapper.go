package handler

import (
	"github.com/hasandag/auth-service/internal/core/domain"
	"github.com/hasandag/auth-service/internal/core/ports"
	"github.com/hasandag/auth-service/pkg/principal"
)

// --- Request → Service input ---

func toRegisterInput(req signupRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		RequestedRoles: req.Roles,
	}
}

// --- Domain → Response ---

func toJWTResponse(res *ports.AuthResult) jwtResponse {
	return jwtResponse{
		Token:     res.Token,
		Type:      "Bearer",
		ID:        res.Identity.ID,
		Username:  res.Identity.Username,
		Email:     res.Identity.Email,
		Roles:     res.Identity.RoleNames(),
		ExpiresAt: res.ExpiresAt,
	}
}

func toIdentityResponse(i *domain.Identity) identityResponse {
	return identityResponse{
		ID:        i.ID,
		Username:  i.Username,
		Email:     i.Email,
		FirstName: i.FirstName,
		LastName:  i.LastName,
		Roles:     i.RoleNames(),
		CreatedAt: i.CreatedAt,
	}
}

func toPrincipalResponse(p *principal.Principal) principalResponse {
	return principalResponse{
		Username:    p.Subject,
		Authorities: p.Authorities,
		TokenID:     p.TokenID,
		IssuedAt:    p.IssuedAt,
		ExpiresAt:   p.ExpiresAt,
	}
}
