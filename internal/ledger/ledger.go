package ledger

import (
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ksred/auction-api/pkg/response"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Oracle is the balance interface the bidding engine depends on. The engine
// only queries balances for ordinary bids; full debits happen on Buy It Now.
type Oracle interface {
	GetBalance(userID string) (float64, error)
	DebitBalance(userID string, amount float64) error
}

// Service is the gorm-backed Oracle implementation. Balance mutations for a
// given user are serialized through a per-user lock so that a debit decision
// always sees the balance it was made against.
type Service struct {
	db *Database

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(gormDB *gorm.DB) *Service {
	return &Service{
		db:    NewDatabase(gormDB),
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// GetBalance returns the user's available balance.
func (s *Service) GetBalance(userID string) (float64, error) {
	account, err := s.db.GetAccount(userID)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// DebitBalance removes the full amount from the user's balance, failing with
// ErrInsufficientFunds when the balance does not cover it.
func (s *Service) DebitBalance(userID string, amount float64) error {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	account, err := s.db.GetAccount(userID)
	if err != nil {
		return err
	}
	if account.Balance < amount {
		return ErrInsufficientFunds
	}

	_, err = s.db.ApplyEntry(userID, -amount, "debit")
	return err
}

// CreditBalance adds the amount to the user's balance, creating the account
// on first credit.
func (s *Service) CreditBalance(userID string, amount float64, currency string) (*Account, error) {
	l := s.userLock(userID)
	l.Lock()
	defer l.Unlock()

	_, err := s.db.GetAccount(userID)
	if errors.Is(err, ErrAccountNotFound) {
		account := &Account{
			UserID:    userID,
			Balance:   0,
			Currency:  currency,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := s.db.CreateAccount(account); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return s.db.ApplyEntry(userID, amount, "credit")
}

// GinHandlers contains HTTP handlers for ledger endpoints
type GinHandlers struct {
	service *Service
}

func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

// GetBalanceHandler handles GET requests for the caller's balance
func (h *GinHandlers) GetBalanceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("clientID")
		if userID == "" {
			response.Unauthorized(c, "Missing authenticated user")
			return
		}

		account, err := h.service.db.GetAccount(userID)
		if err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				response.NotFound(c, "Account not found")
				return
			}
			response.InternalError(c, err.Error())
			return
		}

		response.Success(c, BalanceResponse{
			UserID:    account.UserID,
			Balance:   account.Balance,
			Currency:  account.Currency,
			Timestamp: time.Now(),
		})
	}
}

// CreditHandler handles POST requests to credit an account. Internal only;
// in production this would sit behind a payment provider callback.
func (h *GinHandlers) CreditHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID   string  `json:"user_id" binding:"required"`
			Amount   float64 `json:"amount" binding:"required"`
			Currency string  `json:"currency"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		if req.Amount <= 0 {
			response.BadRequest(c, "Credit amount must be positive")
			return
		}
		if req.Currency == "" {
			req.Currency = "NGN"
		}

		account, err := h.service.CreditBalance(req.UserID, req.Amount, req.Currency)
		if err != nil {
			log.Error().Err(err).Str("user_id", req.UserID).Msg("failed to credit account")
			response.InternalError(c, err.Error())
			return
		}

		response.Success(c, account)
	}
}
