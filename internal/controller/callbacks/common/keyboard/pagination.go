package keyboard

import (
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-telegram/bot/models"
)

// PrefixPage - страница слотов дня: page:2026-03-10|1
const PrefixPage = "page:"

// PaginationButtons создаёт ряд кнопок пагинации
// prefix - префикс для callback (например "page:2026-03-10|")
// currentPage - текущая страница (0-based)
// totalPages - всего страниц
func PaginationButtons(prefix string, currentPage, totalPages int) []models.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	var buttons []models.InlineKeyboardButton

	if currentPage > 0 {
		buttons = append(buttons, Button("⬅️", fmt.Sprintf("%s%d", prefix, currentPage-1)))
	}

	buttons = append(buttons, Button(
		fmt.Sprintf("📄 %d/%d", currentPage+1, totalPages),
		Noop,
	))

	if currentPage < totalPages-1 {
		buttons = append(buttons, Button("➡️", fmt.Sprintf("%s%d", prefix, currentPage+1)))
	}

	return buttons
}

// AddPagination добавляет пагинацию к builder
func (b *Builder) AddPagination(prefix string, currentPage, totalPages int) *Builder {
	buttons := PaginationButtons(prefix, currentPage, totalPages)
	if len(buttons) > 0 {
		b.Row(buttons...)
	}
	return b
}

// PagePrefix - префикс кнопок пагинации слотов даты
func PagePrefix(date civil.Date) string {
	return PrefixPage + date.String() + "|"
}

// ParsePageData извлекает дату и номер страницы
func ParsePageData(data string) (civil.Date, int, bool) {
	rest, ok := strings.CutPrefix(data, PrefixPage)
	if !ok {
		return civil.Date{}, 0, false
	}
	datePart, pagePart, ok := strings.Cut(rest, "|")
	if !ok {
		return civil.Date{}, 0, false
	}
	date, err := civil.ParseDate(datePart)
	if err != nil {
		return civil.Date{}, 0, false
	}
	page, err := strconv.Atoi(pagePart)
	if err != nil || page < 0 {
		return civil.Date{}, 0, false
	}
	return date, page, true
}

// PageCount - число страниц для total элементов по perPage на странице
func PageCount(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}
