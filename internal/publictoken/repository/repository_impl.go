package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taller/internal/publictoken/domain"
	serviceorderdomain "github.com/smallbiznis/taller/internal/serviceorder/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

type Params struct {
	fx.In

	DB *gorm.DB
}

func NewRepository(p Params) domain.Repository {
	return &repository{db: p.DB}
}

func (r *repository) TokenByOrder(ctx context.Context, orgID, orderID snowflake.ID) (string, error) {
	var row struct {
		ID          snowflake.ID
		PublicToken *string
	}
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, public_token
		 FROM service_orders
		 WHERE org_id = ? AND id = ?`,
		orgID, orderID,
	).Scan(&row).Error
	if err != nil {
		return "", err
	}
	if row.ID == 0 {
		return "", domain.ErrInvalidOrder
	}
	if row.PublicToken == nil {
		return "", nil
	}
	return *row.PublicToken, nil
}

// Attach claims the token slot with a conditional write. The slot is
// write-once: a zero-row result means a concurrent caller already
// attached a token, and the caller should re-read the winner.
func (r *repository) Attach(ctx context.Context, orgID, orderID snowflake.ID, token string) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE service_orders
		 SET public_token = ?, updated_at = ?
		 WHERE org_id = ? AND id = ? AND public_token IS NULL`,
		token, time.Now().UTC(), orgID, orderID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) OrderByToken(ctx context.Context, token string) (*serviceorderdomain.ServiceOrder, error) {
	var order serviceorderdomain.ServiceOrder
	err := r.db.WithContext(ctx).
		Preload("Parts").
		Where("public_token = ?", token).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}
