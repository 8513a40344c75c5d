package game

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var walletLogger = log.With().Str("logger_name", "game::wallet").Logger()

// Wallet is the platform's coin balance capability. Debit funds a buy-in
// or rebuy and must be called before any seat or chip change; a failure
// aborts seating with no partial state.
type Wallet interface {
	Debit(ctx context.Context, playerID uint64, amount int64) error
	Credit(ctx context.Context, playerID uint64, amount int64) error
}

// APIServerWallet calls the platform API server's wallet endpoints.
type APIServerWallet struct {
	apiServerURL string
	client       *http.Client
}

func NewAPIServerWallet(apiServerURL string) *APIServerWallet {
	return &APIServerWallet{
		apiServerURL: apiServerURL,
		client:       &http.Client{Timeout: 5 * time.Second},
	}
}

type walletRequest struct {
	PlayerID uint64 `json:"playerId"`
	Amount   int64  `json:"amount"`
}

func (w *APIServerWallet) post(ctx context.Context, op string, playerID uint64, amount int64) error {
	data, err := json.Marshal(walletRequest{PlayerID: playerID, Amount: amount})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/internal/wallet/%s", w.apiServerURL, op)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "wallet %s failed for player %d", op, playerID)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := ioutil.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusConflict {
		return FundingError{PlayerID: playerID, Amount: amount, Msg: string(body)}
	}
	walletLogger.Error().
		Uint64("player", playerID).
		Int("status", resp.StatusCode).
		Msgf("Wallet %s returned %s", op, body)
	return fmt.Errorf("wallet %s returned %d", op, resp.StatusCode)
}

func (w *APIServerWallet) Debit(ctx context.Context, playerID uint64, amount int64) error {
	return w.post(ctx, "debit", playerID, amount)
}

func (w *APIServerWallet) Credit(ctx context.Context, playerID uint64, amount int64) error {
	return w.post(ctx, "credit", playerID, amount)
}
