// Package db provides integration tests for the SurrealDB audit store.
package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ideaforge/ideaforge/internal/models"
	"github.com/ideaforge/ideaforge/internal/safety"
)

var testDB *Client
var testContainer testcontainers.Container

// TestMain sets up and tears down the SurrealDB container for all tests.
func TestMain(m *testing.M) {
	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	testDB, err = NewClient(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
		AuthLevel: "root",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := testDB.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	code := m.Run()

	_ = testDB.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

func TestSaveSessionUpsert(t *testing.T) {
	ctx := context.Background()
	sessionID := models.NewID()

	if err := testDB.SaveSession(ctx, sessionID, "running", "ideation"); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}
	if err := testDB.SaveSession(ctx, sessionID, "killed", "feasibility"); err != nil {
		t.Fatalf("Second SaveSession failed: %v", err)
	}

	sessions, err := testDB.RecentSessions(ctx, 50)
	if err != nil {
		t.Fatalf("RecentSessions failed: %v", err)
	}

	var found *SessionRecord
	for i := range sessions {
		if sessions[i].SessionID() == sessionID {
			found = &sessions[i]
			break
		}
	}
	if found == nil {
		t.Fatalf("session %s not in RecentSessions", sessionID)
	}
	if found.Status != "killed" {
		t.Errorf("Status = %q, want killed (upsert should replace)", found.Status)
	}
	if found.Phase != "feasibility" {
		t.Errorf("Phase = %q, want feasibility", found.Phase)
	}
	if found.StartedAt.IsZero() {
		t.Error("StartedAt should be set by the schema default")
	}
}

func TestCostEntriesRoundTrip(t *testing.T) {
	ctx := context.Background()
	sessionID := models.NewID()
	base := time.Now().UTC().Truncate(time.Second)

	entries := []safety.CostEntry{
		{AgentName: "Visionary", Model: "claude-sonnet-4-20250514", InputTokens: 1000, OutputTokens: 500, CostUSD: 0.0105, Phase: "ideation", Timestamp: base},
		{AgentName: "Judge", Model: "gpt-4o", InputTokens: 2000, OutputTokens: 300, CostUSD: 0.008, Phase: "ideation", Timestamp: base.Add(time.Second)},
	}
	for _, entry := range entries {
		if err := testDB.SaveCostEntry(ctx, sessionID, entry); err != nil {
			t.Fatalf("SaveCostEntry failed: %v", err)
		}
	}

	got, err := testDB.SessionCosts(ctx, sessionID)
	if err != nil {
		t.Fatalf("SessionCosts failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 cost entries, got %d", len(got))
	}
	if got[0].AgentName != "Visionary" || got[1].AgentName != "Judge" {
		t.Errorf("Entries out of chronological order: %s, %s", got[0].AgentName, got[1].AgentName)
	}
	if got[0].CostUSD != 0.0105 {
		t.Errorf("CostUSD = %v, want 0.0105", got[0].CostUSD)
	}
	if got[0].InputTokens != 1000 || got[0].OutputTokens != 500 {
		t.Errorf("Tokens = %d/%d, want 1000/500", got[0].InputTokens, got[0].OutputTokens)
	}

	// Another session's ledger stays empty.
	other, err := testDB.SessionCosts(ctx, models.NewID())
	if err != nil {
		t.Fatalf("SessionCosts for empty session failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("Expected no entries for unrelated session, got %d", len(other))
	}
}

func TestSafetyEventsRoundTrip(t *testing.T) {
	ctx := context.Background()
	sessionID := models.NewID()
	base := time.Now().UTC().Truncate(time.Second)

	events := []safety.SafetyEvent{
		{EventType: "loop_detected:skip_turn", AgentName: "Visionary", Message: "Loop detected — action: skip_turn", Timestamp: base},
		{EventType: "killed", AgentName: "system", Message: "KILL SWITCH: budget exceeded", Timestamp: base.Add(time.Second)},
	}
	for _, event := range events {
		if err := testDB.SaveSafetyEvent(ctx, sessionID, event); err != nil {
			t.Fatalf("SaveSafetyEvent failed: %v", err)
		}
	}

	got, err := testDB.SessionEvents(ctx, sessionID)
	if err != nil {
		t.Fatalf("SessionEvents failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(got))
	}
	if got[0].EventType != "loop_detected:skip_turn" {
		t.Errorf("First EventType = %q, want loop_detected:skip_turn", got[0].EventType)
	}
	if got[1].Message != "KILL SWITCH: budget exceeded" {
		t.Errorf("Message = %q", got[1].Message)
	}
}

func TestSaveIdeaReplacesStatus(t *testing.T) {
	ctx := context.Background()
	sessionID := models.NewID()

	idea := &models.ProductIdea{
		ID:            models.NewID(),
		Name:          "FormPilot",
		ElevatorPitch: "AI form filling for enterprise intake",
		Confidence:    0.8,
		Status:        models.IdeaDraft,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
	if err := testDB.SaveIdea(ctx, sessionID, idea); err != nil {
		t.Fatalf("SaveIdea failed: %v", err)
	}

	// Gate decision applied: same ID, new status.
	idea.Status = models.IdeaFailed
	if err := testDB.SaveIdea(ctx, sessionID, idea); err != nil {
		t.Fatalf("Second SaveIdea failed: %v", err)
	}

	ideas, err := testDB.SessionIdeas(ctx, sessionID)
	if err != nil {
		t.Fatalf("SessionIdeas failed: %v", err)
	}
	if len(ideas) != 1 {
		t.Fatalf("Expected 1 idea after upsert, got %d", len(ideas))
	}
	if ideas[0].ID != idea.ID {
		t.Errorf("ID = %q, want %q", ideas[0].ID, idea.ID)
	}
	if ideas[0].Status != models.IdeaFailed {
		t.Errorf("Status = %q, want failed", ideas[0].Status)
	}
	if ideas[0].Name != "FormPilot" {
		t.Errorf("Name = %q, want FormPilot", ideas[0].Name)
	}
}

func TestLessonsRoundTrip(t *testing.T) {
	ctx := context.Background()

	lesson := models.Lesson{
		ID:               models.NewID(),
		SessionID:        models.NewID(),
		AgentName:        "Analyst",
		Phase:            "market_research",
		Category:         models.LessonMarketInsight,
		Observation:      "B2B tools with compliance angles score higher",
		Evidence:         "3 of 4 passing ideas had a compliance component",
		Confidence:       0.7,
		ValidationStatus: models.ValidationUnvalidated,
		CreatedAt:        time.Now().UTC().Truncate(time.Second),
	}
	if err := testDB.SaveLesson(ctx, lesson); err != nil {
		t.Fatalf("SaveLesson failed: %v", err)
	}

	lessons, err := testDB.Lessons(ctx, 100)
	if err != nil {
		t.Fatalf("Lessons failed: %v", err)
	}

	var found *models.Lesson
	for i := range lessons {
		if lessons[i].ID == lesson.ID {
			found = &lessons[i]
			break
		}
	}
	if found == nil {
		t.Fatalf("lesson %s not returned", lesson.ID)
	}
	if found.Category != models.LessonMarketInsight {
		t.Errorf("Category = %q, want market_insight", found.Category)
	}
	if found.Confidence != 0.7 {
		t.Errorf("Confidence = %v, want 0.7", found.Confidence)
	}
	if found.ValidationStatus != models.ValidationUnvalidated {
		t.Errorf("ValidationStatus = %q, want unvalidated", found.ValidationStatus)
	}
}

func TestGraveyardNewestFirst(t *testing.T) {
	ctx := context.Background()
	sessionID := models.NewID()
	base := time.Now().UTC().Truncate(time.Second)

	older := models.GraveyardEntry{
		ID:            models.NewID(),
		SessionID:     sessionID,
		ConceptName:   "PetChain",
		ElevatorPitch: "blockchain for pet ownership records",
		FailurePhase:  "market_research",
		FailureReason: models.FailInsufficientMarket,
		FailureDetail: "judge score 3 below gate threshold 7",
		JudgeScore:    3,
		ArchivedAt:    base,
	}
	newer := models.GraveyardEntry{
		ID:                 models.NewID(),
		SessionID:          sessionID,
		ConceptName:        "MailSage",
		ElevatorPitch:      "inbox triage for executives",
		FailurePhase:       "feasibility",
		FailureReason:      models.FailTechnicalBlocker,
		FailureDetail:      "judge score 5 below gate threshold 7",
		SalvagedComponents: []string{"priority model"},
		JudgeScore:         5,
		ArchivedAt:         base.Add(time.Hour),
	}
	for _, entry := range []models.GraveyardEntry{older, newer} {
		if err := testDB.SaveGraveyardEntry(ctx, entry); err != nil {
			t.Fatalf("SaveGraveyardEntry failed: %v", err)
		}
	}

	entries, err := testDB.Graveyard(ctx, 100)
	if err != nil {
		t.Fatalf("Graveyard failed: %v", err)
	}

	var newerIdx, olderIdx = -1, -1
	for i, e := range entries {
		switch e.ID {
		case newer.ID:
			newerIdx = i
		case older.ID:
			olderIdx = i
		}
	}
	if newerIdx == -1 || olderIdx == -1 {
		t.Fatalf("both entries should be returned, got indexes %d/%d", newerIdx, olderIdx)
	}
	if newerIdx > olderIdx {
		t.Errorf("newest entry at %d after older at %d, want newest first", newerIdx, olderIdx)
	}
	if entries[newerIdx].FailureReason != models.FailTechnicalBlocker {
		t.Errorf("FailureReason = %q, want technical_blocker", entries[newerIdx].FailureReason)
	}
	if len(entries[newerIdx].SalvagedComponents) != 1 {
		t.Errorf("SalvagedComponents = %v, want 1 element", entries[newerIdx].SalvagedComponents)
	}
}
