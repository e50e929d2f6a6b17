package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"pulse/internal/analysis"
	"pulse/internal/domain"
	"pulse/internal/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSource struct {
	messages []domain.Message
	name     string
	members  []string
	fetchErr error
}

func (f *fakeSource) FetchRecent(ctx context.Context, channelID string, windowDays int) ([]domain.Message, error) {
	return f.messages, f.fetchErr
}

func (f *fakeSource) ChannelName(ctx context.Context, channelID string) (string, error) {
	return f.name, nil
}

func (f *fakeSource) ChannelMembers(ctx context.Context, channelID string) ([]string, error) {
	return f.members, nil
}

type fakeStore struct {
	stored          []domain.Message
	savedCount      int
	baselines       map[string]*domain.Baseline
	channelBaseline *domain.Baseline
	reports         []domain.AnalysisReport
}

func (f *fakeStore) Messages(ctx context.Context, channelID string, windowDays int) ([]domain.Message, error) {
	return f.stored, nil
}

func (f *fakeStore) SaveBatch(ctx context.Context, channelID string, messages []domain.Message) (int, error) {
	return f.savedCount, nil
}

func (f *fakeStore) UserBaseline(ctx context.Context, userID, channelID string, windowDays int) (*domain.Baseline, error) {
	return f.baselines[userID], nil
}

func (f *fakeStore) ChannelBaseline(ctx context.Context, channelID string, windowDays int) (*domain.Baseline, error) {
	return f.channelBaseline, nil
}

func (f *fakeStore) SaveReport(ctx context.Context, report domain.AnalysisReport) error {
	f.reports = append(f.reports, report)
	return nil
}

type fakeDirectory struct {
	profiles map[string]domain.UserProfile
	calls    map[string]int
}

func (f *fakeDirectory) ResolveUser(ctx context.Context, userID string) (domain.UserProfile, error) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[userID]++
	profile, ok := f.profiles[userID]
	if !ok {
		return domain.UserProfile{}, errors.New("user not found")
	}
	return profile, nil
}

type fakeModel struct {
	responses []ports.ModelResponse
	requests  []ports.ModelRequest
	err       error
}

func (f *fakeModel) Generate(ctx context.Context, req ports.ModelRequest) (ports.ModelResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return ports.ModelResponse{}, f.err
	}
	if len(f.responses) == 0 {
		return ports.ModelResponse{Kind: ports.KindFinal, Text: "empty"}, nil
	}
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return resp, nil
}

type fakeNotifier struct {
	userID string
	text   string
	calls  int
	err    error
}

func (f *fakeNotifier) SendDirectMessage(ctx context.Context, userID, text string) error {
	f.calls++
	f.userID = userID
	f.text = text
	return f.err
}

func testConfig() PipelineConfig {
	return PipelineConfig{
		ChannelID:    "C123",
		LeadUserID:   "U900",
		WindowDays:   10,
		BaselineDays: 30,
		MaxTokens:    2048,
	}
}

func channelMessages() []domain.Message {
	ts := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return []domain.Message{
		{ID: "1", UserID: "U1", Text: "update: finished the payments migration", Timestamp: ts},
		{ID: "2", UserID: "U2", Text: "great work, shipping it this afternoon", Timestamp: ts.Add(time.Minute)},
		{ID: "3", UserID: "U2", Text: "ok", Timestamp: ts.Add(2 * time.Minute)},
		{ID: "4", UserID: "U3", Text: "Carla has joined the channel", Timestamp: ts.Add(3 * time.Minute)},
	}
}

func testProfiles() map[string]domain.UserProfile {
	return map[string]domain.UserProfile{
		"U1": {ID: "U1", RealName: "Ana García", Username: "ana"},
		"U2": {ID: "U2", RealName: "Bruno Díaz", Username: "bruno"},
		"U3": {ID: "U3", RealName: "Carla Ruiz", Username: "carla"},
	}
}

func TestPipelineRunDeliversReport(t *testing.T) {
	t.Parallel()

	source := &fakeSource{name: "proj-apollo", members: []string{"U1", "U2", "U3"}}
	store := &fakeStore{
		stored: channelMessages(),
		baselines: map[string]*domain.Baseline{
			"U1": {TotalMessages: 60, DaysActive: 20, AvgMessagesPerDay: 2, ParticipationRate: 66.7},
		},
		channelBaseline: &domain.Baseline{AvgMessagesPerDay: 5, DaysActive: 25},
	}
	directory := &fakeDirectory{profiles: testProfiles()}
	model := &fakeModel{responses: []ports.ModelResponse{{Kind: ports.KindFinal, Text: "**PROJECT STATE**: on track"}}}
	notifier := &fakeNotifier{}

	pipeline := NewPipeline(PipelineDeps{
		Source:    source,
		Store:     store,
		Directory: directory,
		Model:     model,
		Notifier:  notifier,
		Analyzer:  analysis.New(nil),
		Logger:    testLogger(),
	}, testConfig())

	if err := pipeline.Run(context.Background(), time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if notifier.calls != 1 {
		t.Fatalf("notifier calls = %d, want 1", notifier.calls)
	}
	if notifier.userID != "U900" {
		t.Fatalf("report sent to %q, want lead U900", notifier.userID)
	}
	if strings.Contains(notifier.text, "**") {
		t.Fatal("delivered report still carries double markers")
	}
	for _, want := range []string{
		"DAILY REPORT - #proj-apollo",
		"*PROJECT STATE*: on track",
		"KEY METRICS (last 10 business days)",
	} {
		if !strings.Contains(notifier.text, want) {
			t.Fatalf("delivered report missing %q", want)
		}
	}

	if len(model.requests) != 1 {
		t.Fatalf("model calls = %d, want exactly 1 in direct mode", len(model.requests))
	}
	prompt := model.requests[0].Prompt
	for _, want := range []string{
		"Ana García (@ana)",
		"CAPACITY PER PERSON",
		"CHANNEL BASELINE (last 30 days)",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "has joined the channel") {
		t.Fatal("join notice leaked into the prompt")
	}

	if len(store.reports) != 1 {
		t.Fatalf("persisted reports = %d, want 1", len(store.reports))
	}
	row := store.reports[0]
	if !row.Sent || row.RunID == "" || row.ChannelID != "C123" {
		t.Fatalf("persisted report malformed: %+v", row)
	}
	if row.TotalMessages != 2 {
		t.Fatalf("TotalMessages = %d, want 2 real messages", row.TotalMessages)
	}
}

func TestPipelineRunSkipsWhenNothingNew(t *testing.T) {
	t.Parallel()

	source := &fakeSource{messages: channelMessages(), name: "proj"}
	store := &fakeStore{savedCount: 0}
	model := &fakeModel{}
	notifier := &fakeNotifier{}

	pipeline := NewPipeline(PipelineDeps{
		Source:    source,
		Store:     store,
		Directory: &fakeDirectory{profiles: testProfiles()},
		Model:     model,
		Notifier:  notifier,
		Analyzer:  analysis.New(nil),
		Logger:    testLogger(),
	}, testConfig())

	if err := pipeline.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(model.requests) != 0 {
		t.Fatal("model must not be called when no new activity was saved")
	}
	if notifier.calls != 0 {
		t.Fatal("no report must be sent when no new activity was saved")
	}
}

func TestPipelineRunSkipsOnEmptyWindow(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{
		Source:    &fakeSource{},
		Store:     &fakeStore{},
		Directory: &fakeDirectory{},
		Model:     &fakeModel{},
		Notifier:  &fakeNotifier{},
		Analyzer:  analysis.New(nil),
		Logger:    testLogger(),
	}, testConfig())

	if err := pipeline.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("empty window must not be an error, got %v", err)
	}
}

func TestPipelineRunFailsWhenModelFails(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{
		Source:    &fakeSource{name: "proj", members: []string{"U1", "U2"}},
		Store:     &fakeStore{stored: channelMessages()},
		Directory: &fakeDirectory{profiles: testProfiles()},
		Model:     &fakeModel{err: errors.New("api unavailable")},
		Notifier:  &fakeNotifier{},
		Analyzer:  analysis.New(nil),
		Logger:    testLogger(),
	}, testConfig())

	err := pipeline.Run(context.Background(), time.Now())
	if err == nil || !strings.Contains(err.Error(), "generate report") {
		t.Fatalf("want generate report error, got %v", err)
	}
}

func TestPipelineRunFailsWhenSendFails(t *testing.T) {
	t.Parallel()

	pipeline := NewPipeline(PipelineDeps{
		Source:    &fakeSource{name: "proj", members: []string{"U1", "U2"}},
		Store:     &fakeStore{stored: channelMessages()},
		Directory: &fakeDirectory{profiles: testProfiles()},
		Model:     &fakeModel{responses: []ports.ModelResponse{{Kind: ports.KindFinal, Text: "report"}}},
		Notifier:  &fakeNotifier{err: errors.New("dm failed")},
		Analyzer:  analysis.New(nil),
		Logger:    testLogger(),
	}, testConfig())

	err := pipeline.Run(context.Background(), time.Now())
	if err == nil || !strings.Contains(err.Error(), "send report") {
		t.Fatalf("want send report error, got %v", err)
	}
}

func TestFilterRealDropsSystemNoise(t *testing.T) {
	t.Parallel()

	messages := []domain.Message{
		{Text: ""},
		{Text: "Carla se ha unido al canal de pagos"},
		{Text: "<@U1> can you take a look please"},
		{Text: "short one"},
		{Text: "this one carries an actual status update"},
	}

	real := filterReal(messages)
	if len(real) != 1 {
		t.Fatalf("real messages = %d, want 1", len(real))
	}
	if real[0].Text != "this one carries an actual status update" {
		t.Fatalf("kept wrong message: %q", real[0].Text)
	}
}
