// daygrid рисует сетку дня в PNG по JSON файлу без обращения к API.
//
//	go run ./cmd/daygrid -in cmd/daygrid/example.json -out day.png
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"cloud.google.com/go/civil"
	"github.com/Freeeeeet/agenda/internal/availability"
	"github.com/Freeeeeet/agenda/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/agenda/internal/dayimage"
	"github.com/Freeeeeet/agenda/internal/model"
)

// fixture - входные данные одного дня
type fixture struct {
	Date            civil.Date                `json:"date"`
	Now             string                    `json:"now"` // HH:MM на дату Date, пусто - начало дня
	ServiceDuration int                       `json:"service_duration"`
	Rule            *model.WeeklyScheduleRule `json:"rule"`
	Blackouts       []model.BlackoutWindow    `json:"blackouts"`
	Appointments    []model.Appointment       `json:"appointments"`
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if !fx.Date.IsValid() {
		return nil, fmt.Errorf("fixture date is missing or invalid")
	}
	if fx.ServiceDuration <= 0 {
		fx.ServiceDuration = 30
	}
	return &fx, nil
}

func compute(fx *fixture) (*availability.DayResult, error) {
	now := availability.BusinessTime{Date: fx.Date}
	if fx.Now != "" {
		minute, err := availability.ParseClock(fx.Now)
		if err != nil {
			return nil, fmt.Errorf("parse now: %w", err)
		}
		now.Minute = minute
	}

	return availability.ComputeDay(availability.DayInput{
		Date:            fx.Date,
		Rule:            fx.Rule,
		Appointments:    fx.Appointments,
		Blackouts:       fx.Blackouts,
		ServiceDuration: fx.ServiceDuration,
		Now:             now,
	})
}

func main() {
	in := flag.String("in", "cmd/daygrid/example.json", "JSON file with the day data")
	out := flag.String("out", "day.png", "output PNG file")
	flag.Parse()

	fx, err := loadFixture(*in)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	result, err := compute(fx)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	for _, skipped := range result.Skipped {
		fmt.Printf("⚠️  skipped: %v\n", skipped)
	}

	imageData, err := dayimage.Render(formatting.FormatDateWithWeekday(fx.Date), result.Slots, result.Bookable)
	if err != nil {
		fmt.Printf("❌ render: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, imageData, 0644); err != nil {
		fmt.Printf("❌ write: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ %s saved\n", *out)
	fmt.Printf("📅 %s: %s\n", formatting.FormatLongDate(fx.Date), result.Status)
	fmt.Printf("📊 %d slots, %d bookable\n", len(result.Slots), len(result.Bookable))
}
