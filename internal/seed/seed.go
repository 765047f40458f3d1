// Package seed loads demo schedules, holiday overrides and the starter menu.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/codr1/bagelshop/internal/availability"
	"github.com/codr1/bagelshop/internal/menu"
	"github.com/codr1/bagelshop/internal/timerange"
)

type holiday struct {
	month     time.Month
	day       int
	name      string
	isOpen    bool
	openTime  string
	closeTime string
}

var holidays = []holiday{
	{month: time.December, day: 25, name: "Christmas Day"},
	{month: time.January, day: 1, name: "New Year's Day"},
	{month: time.July, day: 4, name: "Independence Day", isOpen: true, openTime: "08:00", closeTime: "13:00"},
	{month: time.November, day: 29, name: "Black Friday", isOpen: true, openTime: "06:00", closeTime: "18:00"},
}

func week(sunday, weekday, friday, saturday *availability.DaySchedule) []availability.DaySchedule {
	days := []availability.DaySchedule{*sunday}
	for d := 1; d <= 4; d++ {
		day := *weekday
		day.DayOfWeek = d
		days = append(days, day)
	}
	fri := *friday
	fri.DayOfWeek = 5
	sat := *saturday
	sat.DayOfWeek = 6
	return append(days, fri, sat)
}

func open(from, to string) *availability.DaySchedule {
	return &availability.DaySchedule{IsOpen: true, OpenTime: from, CloseTime: to}
}

func closedSunday() *availability.DaySchedule {
	return &availability.DaySchedule{DayOfWeek: 0, IsOpen: false, OpenTime: "09:00", CloseTime: "17:00"}
}

func schedules() []availability.ScheduleInput {
	sundayBrunch := open("08:00", "14:00")
	sundayBrunch.DayOfWeek = 0
	return []availability.ScheduleInput{
		{
			Name:        "Regular Business Hours",
			IsActive:    true,
			WeeklyHours: week(closedSunday(), open("07:00", "15:00"), open("07:00", "15:00"), open("08:00", "16:00")),
		},
		{
			Name:        "Weekend Extended Hours",
			WeeklyHours: week(sundayBrunch, open("07:00", "15:00"), open("07:00", "18:00"), open("07:00", "18:00")),
		},
		{
			Name:        "Summer Hours",
			WeeklyHours: week(closedSunday(), open("06:30", "14:30"), open("06:30", "14:30"), open("07:30", "15:30")),
		},
	}
}

// Schedules seeds three weekly schedules, the first active, and the holiday
// overrides dated at their next occurrence on or after now. It does nothing
// and returns false when any schedule exists.
func Schedules(ctx context.Context, svc *availability.Service, logger zerolog.Logger) (bool, error) {
	existing, err := svc.ListSchedules(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		logger.Info().Msg("Schedules already seeded")
		return false, nil
	}

	for _, in := range schedules() {
		if _, err := svc.CreateSchedule(ctx, in); err != nil {
			return false, fmt.Errorf("seed schedule %q: %w", in.Name, err)
		}
	}

	now := svc.Now()
	for _, h := range holidays {
		_, err := svc.CreateOverride(ctx, availability.OverrideInput{
			Date:      nextOccurrence(now, h.month, h.day),
			Name:      h.name,
			IsOpen:    h.isOpen,
			OpenTime:  h.openTime,
			CloseTime: h.closeTime,
		})
		if err != nil {
			return false, fmt.Errorf("seed override %q: %w", h.name, err)
		}
	}

	logger.Info().Int("schedules", 3).Int("overrides", len(holidays)).Msg("Seeded weekly schedules and date overrides")
	return true, nil
}

func nextOccurrence(now time.Time, month time.Month, day int) string {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	date := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		date = date.AddDate(1, 0, 0)
	}
	return date.Format(timerange.DateLayout)
}

type product struct {
	name        string
	cents       int64
	description string
}

var (
	drinks = []product{
		{"Coffee", 200, "Fresh brewed coffee"},
		{"Espresso", 250, "Rich espresso shot"},
		{"Cappuccino", 350, "Espresso with steamed milk foam"},
		{"Orange Juice", 300, "Fresh squeezed orange juice"},
		{"Water", 150, "Bottled water"},
	}
	sides = []product{
		{"Cream Cheese", 150, "Plain cream cheese"},
		{"Butter", 100, "Fresh butter"},
		{"Jam", 125, "Strawberry jam"},
		{"Lox", 400, "Smoked salmon"},
	}
	bagels = []product{
		{"Plain Bagel", 250, "Classic plain bagel"},
		{"Everything Bagel", 275, "Topped with sesame seeds, poppy seeds, garlic, and onion"},
		{"Sesame Bagel", 275, "Topped with sesame seeds"},
		{"Poppy Seed Bagel", 275, "Topped with poppy seeds"},
		{"Cinnamon Raisin Bagel", 300, "Sweet bagel with cinnamon and raisins"},
		{"Blueberry Bagel", 300, "Fresh blueberries baked in"},
	}
	batches = []menu.BatchOption{
		{Name: "4-Pack", Size: 4, DiscountPercent: 5},
		{Name: "Half Dozen", Size: 6, DiscountPercent: 10},
		{Name: "Dozen", Size: 12, DiscountPercent: 15},
	}
)

// Menu seeds drinks, sides, bagels and batch options. It does nothing and
// returns false when any product exists.
func Menu(ctx context.Context, svc *menu.Service, logger zerolog.Logger) (bool, error) {
	existing, err := svc.ListAll(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		logger.Info().Msg("Menu already seeded")
		return false, nil
	}

	groups := []struct {
		category menu.Category
		products []product
	}{
		{menu.CategoryDrinks, drinks},
		{menu.CategorySides, sides},
		{menu.CategoryBagels, bagels},
	}
	count := 0
	for _, g := range groups {
		for _, p := range g.products {
			_, err := svc.AddProduct(ctx, menu.ProductInput{
				Name:        p.name,
				Category:    g.category,
				PriceCents:  p.cents,
				Description: p.description,
			})
			if err != nil {
				return false, fmt.Errorf("seed product %q: %w", p.name, err)
			}
			count++
		}
	}
	for _, b := range batches {
		if _, err := svc.AddBatchOption(ctx, b.Name, b.Size, b.DiscountPercent); err != nil {
			return false, fmt.Errorf("seed batch option %q: %w", b.Name, err)
		}
	}

	logger.Info().Int("products", count).Int("batch_options", len(batches)).Msg("Seeded menu")
	return true, nil
}
