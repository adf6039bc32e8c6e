package gamehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"rtladder/pkg/config"
	"rtladder/pkg/messages"
)

const (
	createGameEndpoint    = "/CreateGame"
	deleteGameEndpoint    = "/DeleteLobbyGame"
	queryGameEndpoint     = "/GameFeed"
	validateTokenEndpoint = "/ValidateInviteToken"

	gameLinkBase = "https://www.warzone.com/MultiPlayer?GameID="

	// Timestamp format the game host uses on its feed.
	createdTimeLayout = "01/02/2006 15:04:05"

	// Game ID returned when running in dryrun mode instead of hitting the API.
	dryrunGameID = 25876586
)

var (
	ErrGameCreation = errors.New("game creation rejected by the game host")
	ErrGameDeletion = errors.New("game deletion rejected by the game host")
)

// Game is the snapshot of a remote game as reported by the host.
type Game struct {
	ID       int64
	State    GameState
	RawState string
	Link     string
	Created  time.Time
	Turns    int
	Players  []GamePlayer
}

// GamePlayer is the per-player slice of a game snapshot.
type GamePlayer struct {
	ID       int64
	Name     string
	Team     string
	State    PlayerState
	RawState string
}

// PlayerByID finds a participant on the snapshot.
func (g *Game) PlayerByID(id int64) (*GamePlayer, bool) {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i], true
		}
	}
	return nil, false
}

// NewGamePlayer is one invite slot on a game creation request.
type NewGamePlayer struct {
	Token string
	Team  string
}

// TokenValidation is the result of an invite token check.
type TokenValidation struct {
	// Allowed is false when the host rejects the token outright,
	// which usually means the player blacklisted the host account.
	Allowed         bool
	HasAllTemplates bool
	TemplateAccess  map[int64]bool
}

// API is the contract the ladder engine has with the game host.
type API interface {
	QueryGame(ctx context.Context, gameID int64) (*Game, error)
	CreateGame(ctx context.Context, players []NewGamePlayer, templateID int64, name string, description string) (int64, error)
	DeleteGame(ctx context.Context, gameID int64) error
	ValidateInviteToken(ctx context.Context, token string, templateIDs []int64) (*TokenValidation, error)
}

// Client is the HTTP implementation of the game host API.
type Client struct {
	cfg  config.GameHostConfig
	http *http.Client
}

// NewClient creates a game host client from the loaded configuration.
func NewClient(cfg config.GameHostConfig) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type feedPlayer struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	State string      `json:"state"`
	Team  string      `json:"team"`
}

type gameFeedResponse struct {
	Error         string       `json:"error"`
	ID            json.Number  `json:"id"`
	State         string       `json:"state"`
	Created       string       `json:"created"`
	NumberOfTurns json.Number  `json:"numberOfTurns"`
	Players       []feedPlayer `json:"players"`
}

// QueryGame checks the progress and results of a game on the host.
// Unrecognized state strings are mapped to the Unknown values and kept raw so
// the caller can flag the anomaly.
func (c *Client) QueryGame(ctx context.Context, gameID int64) (*Game, error) {
	endpoint := fmt.Sprintf("%s%s?GameID=%d", c.cfg.BaseURL, queryGameEndpoint, gameID)

	var feed gameFeedResponse
	if err := c.postForm(ctx, endpoint, &feed); err != nil {
		return nil, err
	}

	if feed.Error != "" {
		return nil, fmt.Errorf("game host error on game %d: %s", gameID, feed.Error)
	}

	state, _ := ParseGameState(feed.State)

	created, err := time.ParseInLocation(createdTimeLayout, feed.Created, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse the creation time %q of game %d: %v", feed.Created, gameID, err)
	}

	game := &Game{
		ID:       gameID,
		State:    state,
		RawState: feed.State,
		Link:     GameLink(gameID),
		Created:  created,
		Players:  make([]GamePlayer, 0, len(feed.Players)),
	}

	if turns, err := feed.NumberOfTurns.Int64(); err == nil {
		game.Turns = int(turns)
	}

	for _, player := range feed.Players {
		id, err := player.ID.Int64()
		if err != nil {
			return nil, fmt.Errorf("couldn't parse the player id %q on game %d: %v", player.ID.String(), gameID, err)
		}

		playerState, _ := ParsePlayerState(player.State)
		game.Players = append(game.Players, GamePlayer{
			ID:       id,
			Name:     player.Name,
			Team:     player.Team,
			State:    playerState,
			RawState: player.State,
		})
	}

	return game, nil
}

type createGameRequest struct {
	HostEmail       string             `json:"hostEmail"`
	HostAPIToken    string             `json:"hostAPIToken"`
	TemplateID      int64              `json:"templateID"`
	GameName        string             `json:"gameName"`
	PersonalMessage string             `json:"personalMessage"`
	Players         []createGamePlayer `json:"players"`
}

type createGamePlayer struct {
	Token string `json:"token"`
	Team  string `json:"team"`
}

type createGameResponse struct {
	Error  string      `json:"error"`
	GameID json.Number `json:"gameID"`
}

// CreateGame creates a game on the host with the given players and template.
// Returns the remote game ID; no game exists when an error is returned.
func (c *Client) CreateGame(ctx context.Context, players []NewGamePlayer, templateID int64, name string, description string) (int64, error) {
	if c.cfg.Dryrun {
		return dryrunGameID, nil
	}

	payload := createGameRequest{
		HostEmail:       c.cfg.Email,
		HostAPIToken:    c.cfg.Token,
		TemplateID:      templateID,
		GameName:        name,
		PersonalMessage: description,
		Players:         make([]createGamePlayer, 0, len(players)),
	}
	for _, player := range players {
		payload.Players = append(payload.Players, createGamePlayer{
			Token: player.Token,
			Team:  player.Team,
		})
	}

	var created createGameResponse
	if err := c.postJSON(ctx, c.cfg.BaseURL+createGameEndpoint, payload, &created); err != nil {
		return 0, err
	}

	if created.Error != "" {
		return 0, fmt.Errorf("%w: %s", ErrGameCreation, created.Error)
	}

	gameID, err := created.GameID.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: invalid game id %q", ErrGameCreation, created.GameID.String())
	}

	return gameID, nil
}

type deleteGameRequest struct {
	Email    string `json:"Email"`
	APIToken string `json:"APIToken"`
	GameID   int64  `json:"gameID"`
}

type deleteGameResponse struct {
	Error string `json:"error"`
}

// DeleteGame deletes a lobby game that never filled up.
func (c *Client) DeleteGame(ctx context.Context, gameID int64) error {
	if c.cfg.Dryrun {
		return nil
	}

	payload := deleteGameRequest{
		Email:    c.cfg.Email,
		APIToken: c.cfg.Token,
		GameID:   gameID,
	}

	var deleted deleteGameResponse
	if err := c.postJSON(ctx, c.cfg.BaseURL+deleteGameEndpoint, payload, &deleted); err != nil {
		return err
	}

	if deleted.Error != "" {
		return fmt.Errorf("%w: unable to delete game %d: %s", ErrGameDeletion, gameID, deleted.Error)
	}

	return nil
}

// ValidateInviteToken checks whether a player can be invited and which of the
// given templates they can play on.
func (c *Client) ValidateInviteToken(ctx context.Context, token string, templateIDs []int64) (*TokenValidation, error) {
	ids := make([]string, 0, len(templateIDs))
	for _, id := range templateIDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}

	endpoint := fmt.Sprintf(
		"%s%s?Token=%s&TemplateIDs=%s",
		c.cfg.BaseURL, validateTokenEndpoint, url.QueryEscape(token), strings.Join(ids, ","),
	)

	var raw map[string]json.RawMessage
	if err := c.postForm(ctx, endpoint, &raw); err != nil {
		return nil, err
	}

	// The host reports an error for blacklisted or invalid tokens.
	if _, rejected := raw["error"]; rejected {
		return &TokenValidation{Allowed: false}, nil
	}

	validation := &TokenValidation{
		Allowed:         true,
		HasAllTemplates: true,
		TemplateAccess:  make(map[int64]bool, len(templateIDs)),
	}

	for _, id := range templateIDs {
		var entry struct {
			Result string `json:"result"`
		}

		canUse := false
		if rawEntry, exists := raw[fmt.Sprintf("template%d", id)]; exists {
			if err := json.Unmarshal(rawEntry, &entry); err == nil {
				canUse = strings.Contains(entry.Result, "CanUseTemplate")
			}
		}

		validation.TemplateAccess[id] = canUse
		validation.HasAllTemplates = validation.HasAllTemplates && canUse
	}

	return validation, nil
}

// GameLink builds the public URL of a game.
func GameLink(gameID int64) string {
	return fmt.Sprintf("%s%d", gameLinkBase, gameID)
}

// postForm sends the credentials as form data and decodes the JSON response.
func (c *Client) postForm(ctx context.Context, endpoint string, out any) error {
	form := url.Values{}
	form.Set("Email", c.cfg.Email)
	form.Set("APIToken", c.cfg.Token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf(messages.RequestFailedMsg+": %v", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, out)
}

// postJSON sends a JSON payload and decodes the JSON response.
func (c *Client) postJSON(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("couldn't encode the request for %s: %v", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf(messages.RequestFailedMsg+": %v", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf(messages.RequestFailedMsg+": %v", req.URL.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf(messages.BadStatusCodeMsg, resp.StatusCode, req.URL.String())
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf(messages.FailedToParseMsg+": %v", err)
	}

	return nil
}
