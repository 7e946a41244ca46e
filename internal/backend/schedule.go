package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Freeeeeet/agenda/internal/model"
)

const rulesPath = "/grade-horarios"

// ListRules возвращает недельную сетку компании. 404 считается ошибкой.
func (c *Client) ListRules(ctx context.Context, companyID int64) ([]model.WeeklyScheduleRule, error) {
	var dtos []ruleDTO
	if _, err := c.getList(ctx, "list rules", rulesPath, companyQuery(companyID), &dtos, false); err != nil {
		return nil, err
	}

	rules := make([]model.WeeklyScheduleRule, 0, len(dtos))
	for _, d := range dtos {
		rules = append(rules, d.toModel(companyID))
	}
	return rules, nil
}

// CreateRule создаёт правило на день недели
func (c *Client) CreateRule(ctx context.Context, rule *model.WeeklyScheduleRule) (*model.WeeklyScheduleRule, error) {
	var created ruleDTO
	if err := c.mutate(ctx, "create rule", http.MethodPost, rulesPath, ruleFromModel(rule), &created); err != nil {
		return nil, err
	}
	return mergeSavedRule(rule, created), nil
}

// UpdateRule обновляет существующее правило
func (c *Client) UpdateRule(ctx context.Context, rule *model.WeeklyScheduleRule) (*model.WeeklyScheduleRule, error) {
	var updated ruleDTO
	path := fmt.Sprintf("%s/%d", rulesPath, rule.ID)
	if err := c.mutate(ctx, "update rule", http.MethodPut, path, ruleFromModel(rule), &updated); err != nil {
		return nil, err
	}
	return mergeSavedRule(rule, updated), nil
}

// DeleteRule удаляет правило; день становится выходным
func (c *Client) DeleteRule(ctx context.Context, ruleID int64) error {
	return c.mutate(ctx, "delete rule", http.MethodDelete, fmt.Sprintf("%s/%d", rulesPath, ruleID), nil, nil)
}

// mergeSavedRule берёт ответ сервера, если он есть, иначе отправленные данные
func mergeSavedRule(sent *model.WeeklyScheduleRule, got ruleDTO) *model.WeeklyScheduleRule {
	saved := *sent
	if got.ID != 0 {
		saved = got.toModel(sent.CompanyID)
	}
	return &saved
}
