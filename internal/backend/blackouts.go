package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Freeeeeet/agenda/internal/model"
	"go.uber.org/zap"
)

const blackoutsPath = "/indisponibilidade-empresa"

// ListBlackouts возвращает окна блокировки компании.
// 404 и отсутствие токена дают пустой список; неразборчивые записи пропускаются.
func (c *Client) ListBlackouts(ctx context.Context, companyID int64) ([]model.BlackoutWindow, error) {
	var dtos []blackoutDTO
	if ok, err := c.getList(ctx, "list blackouts", blackoutsPath, companyQuery(companyID), &dtos, true); err != nil || !ok {
		return nil, err
	}

	windows := make([]model.BlackoutWindow, 0, len(dtos))
	for _, d := range dtos {
		window, err := d.toModel(companyID)
		if err != nil {
			c.logger.Warn("Skipping malformed blackout", zap.Int64("company_id", companyID), zap.Error(err))
			continue
		}
		windows = append(windows, window)
	}
	return windows, nil
}

// CreateBlackout создаёт окно блокировки. Изменения на месте нет: удалить и создать заново.
func (c *Client) CreateBlackout(ctx context.Context, window *model.BlackoutWindow) (*model.BlackoutWindow, error) {
	var created blackoutDTO
	if err := c.mutate(ctx, "create blackout", http.MethodPost, blackoutsPath, blackoutFromModel(window), &created); err != nil {
		return nil, err
	}

	saved := *window
	if created.ID != 0 {
		converted, err := created.toModel(window.CompanyID)
		if err != nil {
			c.logger.Warn("Created blackout echoed in unexpected format", zap.Error(err))
			saved.ID = created.ID
		} else {
			saved = converted
		}
	}
	return &saved, nil
}

// DeleteBlackout удаляет окно блокировки
func (c *Client) DeleteBlackout(ctx context.Context, windowID int64) error {
	return c.mutate(ctx, "delete blackout", http.MethodDelete, fmt.Sprintf("%s/%d", blackoutsPath, windowID), nil, nil)
}
