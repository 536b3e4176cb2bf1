//go:build ignore
// +build ignore

package main

import (
	"fmt"
	"os"
	"time"

	"gitlab.com/napatw/pantry-bot/internal/bot"
	"gitlab.com/napatw/pantry-bot/internal/models"
)

func main() {
	today := time.Now()
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)
	nextMonth := today.AddDate(0, 1, 0)

	items := []models.Ingredient{
		{Name: "นมสด", ExpiresAt: &yesterday},
		{Name: "ไข่ไก่", ExpiresAt: &tomorrow},
		{Name: "ข้าวหอมมะลิ", ExpiresAt: &nextMonth},
		{Name: "ผักบุ้ง", ExpiresAt: &tomorrow},
		{Name: "เกลือ"},
	}

	chartData, err := bot.GenerateFreshnessChart(items, 3, today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile("graph.png", chartData, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Created graph.png - Example pantry freshness chart")
}
