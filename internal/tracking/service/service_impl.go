package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/smallbiznis/taller/internal/config"
	"github.com/smallbiznis/taller/internal/document"
	publictokendomain "github.com/smallbiznis/taller/internal/publictoken/domain"
	"github.com/smallbiznis/taller/internal/tracking/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const qrSizePx = 256

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	Tokens publictokendomain.Service
}

type Service struct {
	cfg    config.Config
	log    *zap.Logger
	tokens publictokendomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		cfg:    p.Config,
		log:    p.Log.Named("tracking.service"),
		tokens: p.Tokens,
	}
}

// Track resolves the token and projects the order through the public
// document builder. Any resolution failure collapses to ErrNotFound.
func (s *Service) Track(ctx context.Context, token string) (*domain.View, error) {
	order, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, publictokendomain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		s.log.Error("token resolution failed", zap.Error(err))
		return nil, domain.ErrNotFound
	}

	in, err := order.ProjectionInput()
	if err != nil {
		s.log.Error("projection failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return nil, domain.ErrNotFound
	}

	return &domain.View{
		PublicDocument: document.BuildPublic(in),
		DeviceLabel:    order.Reference(),
	}, nil
}

// Share mints or reuses the order's token and packages it as a
// tracking URL plus QR code for the printed ticket.
func (s *Service) Share(ctx context.Context, orderID string) (*domain.ShareResult, error) {
	token, err := s.tokens.IssueOrReuse(ctx, orderID)
	if err != nil {
		return nil, err
	}

	url := s.TrackingURL(token)
	qrPNG, err := encodeQR(url)
	if err != nil {
		return nil, err
	}

	return &domain.ShareResult{
		Token:    token,
		URL:      url,
		QRBase64: qrPNG,
	}, nil
}

// TrackingURL builds the public link for a token.
func (s *Service) TrackingURL(token string) string {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	return fmt.Sprintf("%s/public/track/%s", base, token)
}

func encodeQR(content string) (string, error) {
	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	code, err = barcode.Scale(code, qrSizePx, qrSizePx)
	if err != nil {
		return "", fmt.Errorf("scale qr: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return "", fmt.Errorf("render qr: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
