package sweeper

import (
	"context"
	"time"

	"github.com/ksred/auction-api/internal/bidding"
	"github.com/ksred/auction-api/internal/types"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Processor periodically finds active auctions whose end time has passed and
// submits an expire intent for each through the bidding engine. Expiry runs
// in the auction's serialization domain like any other intent, so a sweep
// can never interleave with an in-flight bid cascade.
type Processor struct {
	db           *gorm.DB
	engine       *bidding.Engine
	sweepInterval time.Duration
}

func NewProcessor(db *gorm.DB, engine *bidding.Engine, interval time.Duration) *Processor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Processor{
		db:            db,
		engine:        engine,
		sweepInterval: interval,
	}
}

// Start begins the sweep loop. It returns when the context is cancelled.
func (p *Processor) Start(ctx context.Context) {
	logger := log.With().Str("component", "lifecycle_sweeper").Logger()
	logger.Info().Dur("interval", p.sweepInterval).Msg("starting lifecycle sweeper")

	ticker := time.NewTicker(p.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down lifecycle sweeper")
			return
		case <-ticker.C:
			if err := p.SweepOnce(); err != nil {
				logger.Error().Err(err).Msg("sweep failed")
			}
		}
	}
}

// SweepOnce expires every auction that is currently due. Failures on one
// auction do not stop the sweep; each expiry is an independent intent.
func (p *Processor) SweepOnce() error {
	logger := log.With().Str("component", "lifecycle_sweeper").Logger()

	due, err := p.findDue(time.Now())
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	logger.Info().Int("due_count", len(due)).Msg("expiring due auctions")

	for _, auctionID := range due {
		resp, err := p.engine.ExpireIfDue(auctionID)
		if err != nil {
			logger.Error().Err(err).Str("auction_id", auctionID).Msg("failed to expire auction")
			continue
		}
		if resp.Expired {
			logger.Info().
				Str("auction_id", auctionID).
				Bool("reserve_met", resp.ReserveMet).
				Float64("final_price", resp.FinalPrice).
				Msg("auction expired")
		}
	}
	return nil
}

// findDue returns ids of active auctions whose end time has passed. The
// status re-check happens inside the engine; this is only a candidate scan.
func (p *Processor) findDue(now time.Time) ([]string, error) {
	var ids []string
	err := p.db.Model(&types.Auction{}).
		Where("status = ? AND end_time <= ?", types.StatusActive, now).
		Pluck("auction_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
