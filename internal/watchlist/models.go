package watchlist

import (
	"time"

	"gorm.io/gorm"
)

// Notification kinds a watcher can opt out of.
const (
	NotifyBidUpdates   = "bid_updates"
	NotifyPriceChanges = "price_changes"
	NotifyEndingSoon   = "ending_soon"
	NotifyAuctionEnded = "auction_ended"
)

// WatchItem ties a user to an auction they are following. Removal is a soft
// deactivation so re-adding the same auction reuses the row, keeping the
// user/auction pair unique.
type WatchItem struct {
	gorm.Model           `json:"-"`
	WatchID              string     `gorm:"uniqueIndex" json:"watch_id"`
	UserID               string     `gorm:"uniqueIndex:idx_watch_user_auction" json:"user_id"`
	AuctionID            string     `gorm:"uniqueIndex:idx_watch_user_auction" json:"auction_id"`
	IsActive             bool       `gorm:"index" json:"is_active"`
	NotifyBidUpdates     bool       `json:"notify_bid_updates"`
	NotifyPriceChanges   bool       `json:"notify_price_changes"`
	NotifyEndingSoon     bool       `json:"notify_ending_soon"`
	NotifyAuctionEnded   bool       `json:"notify_auction_ended"`
	LastNotificationSent *time.Time `json:"last_notification_sent,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// ShouldNotify reports whether the watcher wants notifications of the given
// kind. Deactivated watches never notify.
func (w *WatchItem) ShouldNotify(kind string) bool {
	if !w.IsActive {
		return false
	}
	switch kind {
	case NotifyBidUpdates:
		return w.NotifyBidUpdates
	case NotifyPriceChanges:
		return w.NotifyPriceChanges
	case NotifyEndingSoon:
		return w.NotifyEndingSoon
	case NotifyAuctionEnded:
		return w.NotifyAuctionEnded
	default:
		return false
	}
}

type AddRequest struct {
	AuctionID string `json:"auction_id" binding:"required"`
}

// NotificationPreferences carries partial preference updates. Pointer fields
// so an omitted key leaves the stored preference untouched.
type NotificationPreferences struct {
	BidUpdates   *bool `json:"bid_updates,omitempty"`
	PriceChanges *bool `json:"price_changes,omitempty"`
	EndingSoon   *bool `json:"ending_soon,omitempty"`
	AuctionEnded *bool `json:"auction_ended,omitempty"`
}
