// Package steam retrieves partial player profiles from the Steam Web API.
package steam

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/squadgate/gatekeeper/internal/domain/model"
	"github.com/squadgate/gatekeeper/pkg/logger"
)

// Default client configuration constants.
const (
	defaultBaseURL = "http://api.steampowered.com"
	defaultAppID   = 393380
	defaultTimeout = 10 * time.Second
)

// API endpoint paths.
const (
	ownedGamesPath      = "/IPlayerService/GetOwnedGames/v0001/"
	playerSummariesPath = "/ISteamUser/GetPlayerSummaries/v0002/"
	friendListPath      = "/ISteamUser/GetFriendList/v0001/"
	badgesPath          = "/IPlayerService/GetBadges/v1/"
)

const minutesPerHour = 60

// Client performs single attribute fetches against the Steam Web API.
// Every method returns explicit fetch outcomes; no method returns an error
// to the caller.
type Client struct {
	baseURL    string
	apiKey     string
	appID      int
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a Steam Web API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		appID:      defaultAppID,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logger.Get().Named("steam")
	}

	return c
}

type ownedGame struct {
	AppID           int     `json:"appid"`
	PlaytimeForever float64 `json:"playtime_forever"`
}

type ownedGamesResponse struct {
	Response *struct {
		Games *[]ownedGame `json:"games"`
	} `json:"response"`
}

// OwnedGames fetches the owned-games list and derives playtime of the
// watched title (in hours) and the owned-title count. Playtime is absent
// when the title is not in the list, even if the list itself succeeded.
func (c *Client) OwnedGames(ctx context.Context, id model.Identifier) (hours model.Field[float64], count model.Field[int]) {
	var out ownedGamesResponse
	err := c.getJSON(ctx, ownedGamesPath, url.Values{
		"key":     {c.apiKey},
		"steamid": {string(id)},
		"format":  {"json"},
	}, &out)
	if err != nil {
		return model.Fail[float64](err), model.Fail[int](err)
	}

	if out.Response == nil || out.Response.Games == nil {
		err := fmt.Errorf("owned games: %w", ErrMissingStructure)
		return model.Fail[float64](err), model.Fail[int](err)
	}

	games := *out.Response.Games
	count = model.Ok(len(games))

	hours = model.Fail[float64](fmt.Errorf("app %d: %w", c.appID, ErrTitleNotOwned))
	for _, g := range games {
		if g.AppID == c.appID {
			hours = model.Ok(g.PlaytimeForever / minutesPerHour)
		}
	}
	return hours, count
}

type playerSummariesResponse struct {
	Response *struct {
		Players []struct {
			PersonaName              string `json:"personaname"`
			CommunityVisibilityState *int   `json:"communityvisibilitystate"`
		} `json:"players"`
	} `json:"response"`
}

// PlayerSummary fetches the public profile: display name and the
// profile-visibility value. The visibility field can be absent from an
// otherwise valid player entry; the name still succeeds in that case.
func (c *Client) PlayerSummary(ctx context.Context, id model.Identifier) (name model.Field[string], level model.Field[int]) {
	var out playerSummariesResponse
	err := c.getJSON(ctx, playerSummariesPath, url.Values{
		"key":      {c.apiKey},
		"steamids": {string(id)},
	}, &out)
	if err != nil {
		return model.Fail[string](err), model.Fail[int](err)
	}

	if out.Response == nil || len(out.Response.Players) == 0 {
		err := fmt.Errorf("player summary: %w", ErrMissingStructure)
		return model.Fail[string](err), model.Fail[int](err)
	}

	player := out.Response.Players[0]
	if player.PersonaName != "" {
		name = model.Ok(player.PersonaName)
	} else {
		name = model.Ok(model.DefaultName)
	}

	if player.CommunityVisibilityState == nil {
		return name, model.Fail[int](fmt.Errorf("visibility state: %w", ErrMissingStructure))
	}
	return name, model.Ok(*player.CommunityVisibilityState)
}

type friendListResponse struct {
	FriendsList *struct {
		Friends *[]struct {
			SteamID string `json:"steamid"`
		} `json:"friends"`
	} `json:"friendslist"`
}

// FriendCount fetches the number of friends.
func (c *Client) FriendCount(ctx context.Context, id model.Identifier) model.Field[int] {
	var out friendListResponse
	err := c.getJSON(ctx, friendListPath, url.Values{
		"key":          {c.apiKey},
		"steamid":      {string(id)},
		"relationship": {"friend"},
	}, &out)
	if err != nil {
		return model.Fail[int](err)
	}

	if out.FriendsList == nil || out.FriendsList.Friends == nil {
		return model.Fail[int](fmt.Errorf("friend list: %w", ErrMissingStructure))
	}
	return model.Ok(len(*out.FriendsList.Friends))
}

type badgesResponse struct {
	Response *struct {
		Badges *[]struct {
			BadgeID int `json:"badgeid"`
		} `json:"badges"`
	} `json:"response"`
}

// BadgeCount fetches the number of badges.
func (c *Client) BadgeCount(ctx context.Context, id model.Identifier) model.Field[int] {
	var out badgesResponse
	err := c.getJSON(ctx, badgesPath, url.Values{
		"key":     {c.apiKey},
		"steamid": {string(id)},
	}, &out)
	if err != nil {
		return model.Fail[int](err)
	}

	if out.Response == nil || out.Response.Badges == nil {
		return model.Fail[int](fmt.Errorf("badges: %w", ErrMissingStructure))
	}
	return model.Ok(len(*out.Response.Badges))
}

// getJSON issues a GET and decodes the JSON body into v. Non-2xx statuses
// and malformed bodies are errors; the per-request timeout is enforced by
// the underlying http.Client.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status %d", ErrBadStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
