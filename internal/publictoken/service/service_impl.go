package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taller/internal/orgcontext"
	"github.com/smallbiznis/taller/internal/publictoken/domain"
	serviceorderdomain "github.com/smallbiznis/taller/internal/serviceorder/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// tokenBytes is the entropy of a minted token. 32 random bytes is far
// beyond the guessability bar for an unauthenticated URL capability.
const tokenBytes = 32

type Params struct {
	fx.In

	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	log  *zap.Logger
	repo domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		log:  p.Log.Named("publictoken.service"),
		repo: p.Repo,
	}
}

// IssueOrReuse returns the order's tracking token, minting one on the
// first share. Concurrent first shares race on a write-once column:
// exactly one mint wins, and losers return the winner's token.
func (s *Service) IssueOrReuse(ctx context.Context, orderID string) (string, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return "", domain.ErrInvalidOrder
	}
	id, err := snowflakeID(orderID)
	if err != nil {
		return "", domain.ErrInvalidOrder
	}

	existing, err := s.repo.TokenByOrder(ctx, orgID, id)
	if err != nil {
		return "", err
	}
	if existing != "" {
		return existing, nil
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}

	attached, err := s.repo.Attach(ctx, orgID, id, token)
	if err != nil {
		return "", err
	}
	if attached {
		s.log.Info("public token issued",
			zap.String("org_id", orgID.String()),
			zap.String("order_id", id.String()),
		)
		return token, nil
	}

	// Lost the race; the winner's token is now on the row.
	winner, err := s.repo.TokenByOrder(ctx, orgID, id)
	if err != nil {
		return "", err
	}
	if winner == "" {
		return "", fmt.Errorf("token attach race left no token on order %s", id)
	}
	return winner, nil
}

// Resolve maps a token to its order. Every failure mode is collapsed
// into ErrNotFound.
func (s *Service) Resolve(ctx context.Context, token string) (*serviceorderdomain.ServiceOrder, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrNotFound
	}

	order, err := s.repo.OrderByToken(ctx, token)
	if err != nil {
		s.log.Warn("token lookup failed", zap.Error(err))
		return nil, domain.ErrNotFound
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func snowflakeID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
