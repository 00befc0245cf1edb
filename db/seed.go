package db

import (
	"context"
	"fmt"
	"log"

	"coursehub-server-go/models"
)

// SeedIfEmpty adds sample weeks, assignments and a topic when the store holds
// none of them. It reports whether anything was written.
func SeedIfEmpty(ctx context.Context, s Store) (bool, error) {
	weeks, err := s.ListWeeks(ctx, models.ListQuery{})
	if err != nil {
		return false, fmt.Errorf("failed to check weeks: %w", err)
	}
	assignments, err := s.ListAssignments(ctx, models.ListQuery{})
	if err != nil {
		return false, fmt.Errorf("failed to check assignments: %w", err)
	}
	topics, err := s.ListTopics(ctx, models.ListQuery{})
	if err != nil {
		return false, fmt.Errorf("failed to check topics: %w", err)
	}
	if len(weeks)+len(assignments)+len(topics) > 0 {
		log.Printf("Found existing data (%d weeks, %d assignments, %d topics). Skipping seed.",
			len(weeks), len(assignments), len(topics))
		return false, nil
	}

	log.Println("No existing course data found. Seeding initial data...")
	SeedData(ctx, s)
	return true, nil
}

// SeedData writes the sample records, logging failures without stopping.
func SeedData(ctx context.Context, s Store) {
	sampleWeeks := []models.Week{
		{ID: "week_1", Title: "Week 1: Introduction", StartDate: "2024-09-02",
			Description: "Course overview and tooling setup.", Links: []string{"https://go.dev/doc/"}},
		{ID: "week_2", Title: "Week 2: HTTP basics", StartDate: "2024-09-09",
			Description: "Requests, responses and status codes.", Links: []string{}},
	}
	for i := range sampleWeeks {
		if err := s.CreateWeek(ctx, &sampleWeeks[i]); err != nil {
			log.Printf("Error seeding week %s: %v", sampleWeeks[i].ID, err)
		}
	}

	sampleAssignments := []models.Assignment{
		{Title: "Assignment 1: Hello server", Description: "Build a server that answers ping.",
			DueDate: "2024-09-13", Files: []string{"starter.zip"}},
		{Title: "Assignment 2: CRUD API", Description: "Expose a resource over JSON.",
			DueDate: "2024-09-27", Files: []string{}},
	}
	for i := range sampleAssignments {
		if err := s.CreateAssignment(ctx, &sampleAssignments[i]); err != nil {
			log.Printf("Error seeding assignment %q: %v", sampleAssignments[i].Title, err)
		}
	}

	topic := models.Topic{ID: "topic_welcome", Subject: "Welcome", Message: "Introduce yourself here.", Author: "Instructor"}
	if err := s.CreateTopic(ctx, &topic); err != nil {
		log.Printf("Error seeding topic %s: %v", topic.ID, err)
	}

	log.Println("Seeding complete.")
}
