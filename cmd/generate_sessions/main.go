package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"shuttleclub/internal/services"
	"shuttleclub/internal/tasks"
)

func main() {
	// defined flags
	yearFlag := flag.Int("year", 0, "Year to generate sessions for (default: next month's year)")
	monthFlag := flag.Int("month", 0, "Month to generate sessions for, 1-12 (default: next month)")
	schedule := flag.Bool("schedule", false, "Instead of generating now, enqueue the recurring monthly generation task")

	flag.Parse()

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	// Init DB
	db, err := services.InitDB(dsn)
	if err != nil {
		log.Fatalf("Failed to connect DB: %v", err)
	}

	if *schedule {
		// First run on the 25th of this month, then monthly.
		now := time.Now()
		firstDue := time.Date(now.Year(), now.Month(), 25, 9, 0, 0, 0, time.Local)
		if !firstDue.After(now) {
			firstDue = firstDue.AddDate(0, 1, 0)
		}

		task, err := tasks.GenerateSessionsTask.CreateTask(firstDue)
		if err != nil {
			log.Fatalf("Failed to build task: %v", err)
		}
		if err := db.Create(task).Error; err != nil {
			log.Fatalf("Failed to create task: %v", err)
		}

		fmt.Printf("Successfully created recurring task ID: %d, first due %s\n", task.ID, task.Due)
		return
	}

	year, month := *yearFlag, time.Month(*monthFlag)
	if year == 0 || *monthFlag < 1 || *monthFlag > 12 {
		next := time.Now().AddDate(0, 1, 0)
		year, month = next.Year(), next.Month()
	}

	rosterService := services.NewRosterService(db, nil)
	scheduleService := services.NewScheduleService(db, rosterService)

	created, err := scheduleService.GenerateMonth(context.Background(), year, month)
	if err != nil {
		log.Fatalf("Failed to generate sessions: %v", err)
	}

	fmt.Printf("Created %d sessions for %d-%02d\n", created, year, month)
}
