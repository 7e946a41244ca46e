// Package dayimage рисует сетку слотов одного дня в PNG.
package dayimage

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/Freeeeeet/agenda/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth       = 520
	headerHeight     = 64
	legendHeight     = 48
	rowHeight        = 30
	rowGap           = 6
	paddingX         = 20
	slotBorderRadius = 6.0
	shadowOffset     = 2.0
	timeColumnWidth  = 70
	emptyBodyHeight  = 80

	// длинные дни раскладываются в колонки, размер картинки ограничен
	rowsPerColumn = 24
	maxColumns    = 4
	columnWidth   = 230
	columnGap     = 12
	MaxSlots      = rowsPerColumn * maxColumns
)

// SlotKind - как слот показан на картинке
type SlotKind int

const (
	KindBookable SlotKind = iota
	KindTooLate           // свободен, но услуга не помещается или время прошло
	KindOccupied
	KindUnavailable
)

// Цветовая схема
var (
	bgColor         = color.RGBA{245, 246, 248, 255}
	textColor       = color.RGBA{80, 85, 90, 220}
	slotShadowColor = color.RGBA{0, 0, 0, 20}
	legendTextColor = color.RGBA{90, 95, 100, 220}

	kindColors = map[SlotKind]color.RGBA{
		KindBookable:    {133, 193, 85, 220},
		KindTooLate:     {220, 220, 220, 200},
		KindOccupied:    {255, 182, 193, 255},
		KindUnavailable: {158, 158, 158, 200},
	}
	kindTextColors = map[SlotKind]color.RGBA{
		KindBookable:    {20, 24, 28, 230},
		KindTooLate:     {110, 115, 120, 200},
		KindOccupied:    {120, 40, 50, 255},
		KindUnavailable: {40, 40, 40, 230},
	}
	kindLabels = map[SlotKind]string{
		KindBookable:    "livre",
		KindTooLate:     "fora do prazo",
		KindOccupied:    "ocupado",
		KindUnavailable: "bloqueado",
	}
)

// Classify определяет вид слота: bookable - итоговый список фильтра
func Classify(slot model.TimeSlot, bookable map[int]bool) SlotKind {
	switch {
	case slot.Unavailable:
		return KindUnavailable
	case slot.Occupied:
		return KindOccupied
	case bookable[slot.Minute]:
		return KindBookable
	default:
		return KindTooLate
	}
}

// Render рисует сетку дня: одна строка на каждый слот из slots.
// Больше rowsPerColumn слотов раскладываются в колонки, после MaxSlots слоты не рисуются.
func Render(title string, slots, bookable []model.TimeSlot) ([]byte, error) {
	shown := slots
	if len(shown) > MaxSlots {
		shown = shown[:MaxSlots]
	}

	columns := max((len(shown)+rowsPerColumn-1)/rowsPerColumn, 1)
	rows := min(len(shown), rowsPerColumn)

	width := imageWidth
	slotWidth := float64(imageWidth - 2*paddingX)
	if columns > 1 {
		width = 2*paddingX + columns*columnWidth + (columns-1)*columnGap
		slotWidth = columnWidth
	}

	bodyHeight := rows * (rowHeight + rowGap)
	if len(shown) == 0 {
		bodyHeight = emptyBodyHeight
	}
	height := headerHeight + bodyHeight + legendHeight

	dc := gg.NewContext(width, height)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	drawHeader(dc, title, len(bookable), len(slots), len(slots)-len(shown))

	if len(shown) == 0 {
		dc.SetColor(textColor)
		dc.DrawStringAnchored("Sem horarios neste dia", float64(width)/2, headerHeight+emptyBodyHeight/2, 0.5, 0.5)
	} else {
		free := make(map[int]bool, len(bookable))
		for _, s := range bookable {
			free[s.Minute] = true
		}
		for i, slot := range shown {
			col, row := i/rowsPerColumn, i%rowsPerColumn
			x := float64(paddingX + col*(columnWidth+columnGap))
			y := float64(headerHeight + row*(rowHeight+rowGap))
			drawSlot(dc, slot, Classify(slot, free), x, y, slotWidth)
		}
	}

	drawLegend(dc, float64(height-legendHeight))

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawHeader рисует заголовок и счётчик свободных слотов
func drawHeader(dc *gg.Context, title string, free, total, hidden int) {
	summary := fmt.Sprintf("%d de %d livres", free, total)
	if hidden > 0 {
		summary += fmt.Sprintf(", %d horarios nao exibidos", hidden)
	}

	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, paddingX, headerHeight/3, 0, 0.5)
	dc.DrawStringAnchored(summary, paddingX, headerHeight*2/3, 0, 0.5)
}

// drawSlot рисует одну строку слота
func drawSlot(dc *gg.Context, slot model.TimeSlot, kind SlotKind, x, y, w float64) {

	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+shadowOffset, y+shadowOffset, w, rowHeight, slotBorderRadius)
	dc.Fill()

	fill := kindColors[kind]
	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x, y, w, rowHeight, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y, w, rowHeight, slotBorderRadius)
	dc.Stroke()

	dc.SetColor(kindTextColors[kind])
	dc.DrawStringAnchored(slot.Time, x+10, y+rowHeight/2, 0, 0.5)
	dc.DrawStringAnchored(kindLabels[kind], x+timeColumnWidth+10, y+rowHeight/2, 0, 0.5)
}

// drawLegend рисует легенду цветов внизу
func drawLegend(dc *gg.Context, y float64) {
	x := float64(paddingX)
	for _, kind := range []SlotKind{KindBookable, KindOccupied, KindUnavailable, KindTooLate} {
		dc.SetColor(kindColors[kind])
		dc.DrawRoundedRectangle(x, y+legendHeight/2-6, 12, 12, 3)
		dc.Fill()

		label := kindLabels[kind]
		dc.SetColor(legendTextColor)
		dc.DrawStringAnchored(label, x+18, y+legendHeight/2, 0, 0.5)
		lw, _ := dc.MeasureString(label)
		x += 18 + lw + 20
	}
}

// darkenColor затемняет цвет
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}
