package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pulse/internal/domain"
	"pulse/internal/ports"
)

const (
	defaultBaseURL = "https://slack.com/api"
	historyLimit   = 200
)

// SlackClient talks to the Slack Web API. It implements the message source,
// the user directory and the report notifier.
type SlackClient struct {
	baseURL    string
	botToken   string
	httpClient *http.Client
}

var (
	_ ports.MessageSource = (*SlackClient)(nil)
	_ ports.UserDirectory = (*SlackClient)(nil)
	_ ports.Notifier      = (*SlackClient)(nil)
)

// NewSlackClient registers the bot token. baseURL is overridable for tests;
// empty means the public API.
func NewSlackClient(baseURL, botToken string) *SlackClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &SlackClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		botToken:   botToken,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type apiEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type historyMessage struct {
	Type       string `json:"type"`
	Subtype    string `json:"subtype"`
	User       string `json:"user"`
	Text       string `json:"text"`
	TS         string `json:"ts"`
	ThreadTS   string `json:"thread_ts"`
	ReplyCount int    `json:"reply_count"`
}

// FetchRecent pulls channel history back to the start of the trailing
// business-day window. Weekends do not count toward the window.
func (c *SlackClient) FetchRecent(ctx context.Context, channelID string, windowDays int) ([]domain.Message, error) {
	oldest := domain.BusinessWindowStart(time.Now(), windowDays)

	query := url.Values{}
	query.Set("channel", channelID)
	query.Set("oldest", fmt.Sprintf("%d.000000", oldest.Unix()))
	query.Set("limit", strconv.Itoa(historyLimit))

	var payload struct {
		apiEnvelope
		Messages []historyMessage `json:"messages"`
	}
	if err := c.get(ctx, "conversations.history", query, &payload); err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(payload.Messages))
	for _, raw := range payload.Messages {
		if raw.Type != "message" || raw.User == "" {
			continue
		}
		messages = append(messages, domain.Message{
			ID:         raw.TS,
			UserID:     raw.User,
			Text:       raw.Text,
			Timestamp:  parseTS(raw.TS),
			ThreadID:   raw.ThreadTS,
			ReplyCount: raw.ReplyCount,
		})
	}

	// History arrives newest first; the pipeline wants chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// ChannelName resolves the human channel name.
func (c *SlackClient) ChannelName(ctx context.Context, channelID string) (string, error) {
	query := url.Values{}
	query.Set("channel", channelID)

	var payload struct {
		apiEnvelope
		Channel struct {
			Name string `json:"name"`
		} `json:"channel"`
	}
	if err := c.get(ctx, "conversations.info", query, &payload); err != nil {
		return "", err
	}
	return payload.Channel.Name, nil
}

// ChannelMembers lists every member id of the channel.
func (c *SlackClient) ChannelMembers(ctx context.Context, channelID string) ([]string, error) {
	query := url.Values{}
	query.Set("channel", channelID)

	var payload struct {
		apiEnvelope
		Members []string `json:"members"`
	}
	if err := c.get(ctx, "conversations.members", query, &payload); err != nil {
		return nil, err
	}
	return payload.Members, nil
}

// ResolveUser fetches one user profile.
func (c *SlackClient) ResolveUser(ctx context.Context, userID string) (domain.UserProfile, error) {
	query := url.Values{}
	query.Set("user", userID)

	var payload struct {
		apiEnvelope
		User struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			RealName string `json:"real_name"`
			IsBot    bool   `json:"is_bot"`
			Deleted  bool   `json:"deleted"`
			Profile  struct {
				DisplayName string `json:"display_name"`
				RealName    string `json:"real_name"`
			} `json:"profile"`
		} `json:"user"`
	}
	if err := c.get(ctx, "users.info", query, &payload); err != nil {
		return domain.UserProfile{}, err
	}

	realName := payload.User.RealName
	if realName == "" {
		realName = payload.User.Profile.RealName
	}
	return domain.UserProfile{
		ID:          payload.User.ID,
		RealName:    realName,
		Username:    payload.User.Name,
		DisplayName: payload.User.Profile.DisplayName,
		IsBot:       payload.User.IsBot,
		Deleted:     payload.User.Deleted,
	}, nil
}

// SendDirectMessage opens a DM conversation with the user and posts the
// report text into it.
func (c *SlackClient) SendDirectMessage(ctx context.Context, userID, text string) error {
	var opened struct {
		apiEnvelope
		Channel struct {
			ID string `json:"id"`
		} `json:"channel"`
	}
	if err := c.post(ctx, "conversations.open", map[string]any{"users": userID}, &opened); err != nil {
		return fmt.Errorf("open dm: %w", err)
	}

	var posted apiEnvelope
	err := c.post(ctx, "chat.postMessage", map[string]any{
		"channel": opened.Channel.ID,
		"text":    text,
		"mrkdwn":  true,
	}, &posted)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	return nil
}

type envelope interface{ status() (bool, string) }

func (e *apiEnvelope) status() (bool, string) { return e.OK, e.Error }

func (c *SlackClient) get(ctx context.Context, method string, query url.Values, out envelope) error {
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, method, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	return c.do(req, method, out)
}

func (c *SlackClient) post(ctx context.Context, method string, body map[string]any, out envelope) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/%s", c.baseURL, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	return c.do(req, method, out)
}

func (c *SlackClient) do(req *http.Request, method string, out envelope) error {
	req.Header.Set("Authorization", "Bearer "+c.botToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s status %s: %s", method, resp.Status, strings.TrimSpace(string(raw)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if ok, apiErr := out.status(); !ok {
		return fmt.Errorf("%s failed: %s", method, apiErr)
	}
	return nil
}

func parseTS(ts string) time.Time {
	parts := strings.SplitN(ts, ".", 2)
	secs, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}
	}
	var micros int64
	if len(parts) == 2 {
		padded := parts[1] + strings.Repeat("0", 6-min(len(parts[1]), 6))
		micros, _ = strconv.ParseInt(padded[:6], 10, 64)
	}
	return time.Unix(secs, micros*1000).UTC()
}
