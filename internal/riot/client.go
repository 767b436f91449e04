// Package riot wraps the Riot account-v1 and match-v5 APIs behind a
// rate-limited HTTP client.
package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/riftrewind/rewind-server/config"
	"github.com/riftrewind/rewind-server/internal/model"
)

// Development key limits, kept under the documented 20/s and 100/2min.
const (
	requestsPerSecond = 15
	requestsPer2Min   = 90
)

// ErrPlayerNotFound maps the account endpoint's 404.
var ErrPlayerNotFound = errors.New("riot: player not found")

// regionalRouting maps a platform (na1, euw1, ...) to its regional routing
// host used by account-v1 and match-v5.
var regionalRouting = map[string]string{
	"na1": "americas", "br1": "americas", "la1": "americas", "la2": "americas",
	"euw1": "europe", "eun1": "europe", "tr1": "europe", "ru": "europe",
	"kr": "asia", "jp1": "asia",
	"oc1": "sea", "ph2": "sea", "sg2": "sea", "th2": "sea", "tw2": "sea", "vn2": "sea",
}

// Client is a rate-limited Riot API client. Safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string // overrides the routing hosts when set, for tests
	httpClient *http.Client

	mu          sync.Mutex
	shortWindow []time.Time
	longWindow  []time.Time
}

func NewClient(cfg *config.RiotConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) routingHost(region string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	routing, ok := regionalRouting[region]
	if !ok {
		routing = "americas"
	}
	return fmt.Sprintf("https://%s.api.riotgames.com", routing)
}

// waitForRateLimit blocks until a request slot is free in both sliding
// windows, then claims it.
func (c *Client) waitForRateLimit(ctx context.Context) error {
	for {
		c.mu.Lock()
		now := time.Now()
		c.shortWindow = pruneWindow(c.shortWindow, now.Add(-time.Second))
		c.longWindow = pruneWindow(c.longWindow, now.Add(-2*time.Minute))

		var wait time.Duration
		if len(c.shortWindow) >= requestsPerSecond {
			wait = c.shortWindow[0].Add(time.Second).Sub(now) + 100*time.Millisecond
		} else if len(c.longWindow) >= requestsPer2Min {
			wait = c.longWindow[0].Add(2*time.Minute).Sub(now) + 100*time.Millisecond
		}

		if wait <= 0 {
			c.shortWindow = append(c.shortWindow, now)
			c.longWindow = append(c.longWindow, now)
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func pruneWindow(window []time.Time, cutoff time.Time) []time.Time {
	kept := window[:0]
	for _, t := range window {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

func (c *Client) doRequest(ctx context.Context, requestURL string, result interface{}) error {
	if err := c.waitForRateLimit(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(result)
	case http.StatusTooManyRequests:
		wait := 10
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if parsed, err := strconv.Atoi(retryAfter); err == nil {
				wait = parsed
			}
		}
		log.Warn().Int("wait_seconds", wait).Msg("riot api rate limited, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(wait) * time.Second):
		}
		return c.doRequest(ctx, requestURL, result)
	case http.StatusNotFound:
		return ErrPlayerNotFound
	case http.StatusForbidden:
		return errors.New("riot: api key rejected")
	default:
		return fmt.Errorf("riot: unexpected status %d", resp.StatusCode)
	}
}

// ResolveAccount looks up a player's PUUID by Riot ID.
func (c *Client) ResolveAccount(ctx context.Context, gameName, tagLine, region string) (*model.PlayerInfo, error) {
	requestURL := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.routingHost(region), url.PathEscape(gameName), url.PathEscape(tagLine))

	var account AccountResponse
	if err := c.doRequest(ctx, requestURL, &account); err != nil {
		if errors.Is(err, ErrPlayerNotFound) {
			return nil, fmt.Errorf("%w: %s#%s", ErrPlayerNotFound, gameName, tagLine)
		}
		return nil, err
	}

	return &model.PlayerInfo{
		PUUID:    account.PUUID,
		GameName: account.GameName,
		TagLine:  account.TagLine,
		Region:   region,
	}, nil
}

// ListMatchIDs returns ranked match ids created inside [start, end).
func (c *Client) ListMatchIDs(ctx context.Context, puuid, region string, start, end time.Time, count int) ([]string, error) {
	requestURL := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?type=ranked&startTime=%d&endTime=%d&count=%d",
		c.routingHost(region), url.PathEscape(puuid), start.Unix(), end.Unix(), count)

	var ids []string
	if err := c.doRequest(ctx, requestURL, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetMatch fetches one match and projects it onto the given player's view.
func (c *Client) GetMatch(ctx context.Context, matchID, puuid, region string) (*model.MatchSummary, error) {
	requestURL := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.routingHost(region), url.PathEscape(matchID))

	var match MatchResponse
	if err := c.doRequest(ctx, requestURL, &match); err != nil {
		return nil, err
	}

	var participant *Participant
	for i := range match.Info.Participants {
		if match.Info.Participants[i].PUUID == puuid {
			participant = &match.Info.Participants[i]
			break
		}
	}
	if participant == nil {
		return nil, fmt.Errorf("riot: puuid not in match %s", matchID)
	}

	return summarize(&match, participant), nil
}

func summarize(match *MatchResponse, p *Participant) *model.MatchSummary {
	cs := p.TotalMinionsKilled + p.NeutralMinionsKilled

	kda := float64(p.Kills + p.Assists)
	if p.Deaths > 0 {
		kda = float64(p.Kills+p.Assists) / float64(p.Deaths)
	}

	var csPerMin float64
	if match.Info.GameDuration > 0 {
		csPerMin = float64(cs) / (float64(match.Info.GameDuration) / 60)
	}

	return &model.MatchSummary{
		MatchID:      match.Metadata.MatchID,
		GameCreation: match.Info.GameCreation,
		GameDuration: match.Info.GameDuration,
		GameMode:     match.Info.GameMode,
		ChampionID:   p.ChampionID,
		ChampionName: p.ChampionName,
		Win:          p.Win,
		Kills:        p.Kills,
		Deaths:       p.Deaths,
		Assists:      p.Assists,
		KDA:          kda,
		CS:           cs,
		CSPerMin:     csPerMin,
		VisionScore:  p.VisionScore,
		GoldEarned:   p.GoldEarned,
		DamageDealt:  p.TotalDamageDealtToChampions,
		Role:         p.Role,
		Lane:         p.Lane,
		TeamPosition: p.TeamPosition,
	}
}
