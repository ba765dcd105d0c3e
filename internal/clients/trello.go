package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spec-kit/report-tracker/internal/domain"
)

// TrelloClient reads the public JSON export of a board.
type TrelloClient struct {
	boardURL string
	http     *http.Client
}

// NewTrelloClient builds a client for the given board export URL.
func NewTrelloClient(boardURL string, timeout time.Duration) *TrelloClient {
	return &TrelloClient{boardURL: boardURL, http: &http.Client{Timeout: timeout}}
}

type trelloBoard struct {
	Lists []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Closed bool   `json:"closed"`
	} `json:"lists"`
	Cards []struct {
		IDList string `json:"idList"`
	} `json:"cards"`
}

// FetchListStats returns, in board order, the card count of every open list.
// Cards on closed lists are ignored.
func (c *TrelloClient) FetchListStats(ctx context.Context) ([]domain.TrelloListStat, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.boardURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build trello request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch trello board: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch trello board: unexpected status %d", resp.StatusCode)
	}

	var board trelloBoard
	if err := json.NewDecoder(resp.Body).Decode(&board); err != nil {
		return nil, fmt.Errorf("decode trello board: %w", err)
	}

	perList := make(map[string]int, len(board.Lists))
	for _, card := range board.Cards {
		perList[card.IDList]++
	}
	stats := []domain.TrelloListStat{}
	for _, list := range board.Lists {
		if list.Closed {
			continue
		}
		stats = append(stats, domain.TrelloListStat{List: list.Name, Cards: perList[list.ID]})
	}
	return stats, nil
}
