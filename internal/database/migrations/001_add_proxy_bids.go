package migrations

import (
	"github.com/ksred/auction-api/internal/types"
	"gorm.io/gorm"
)

// AddProxyBids creates the proxy-bid registry tables. Kept separate from the
// general automigrate because the bid log index layout changed when proxy
// bidding was introduced.
func AddProxyBids(db *gorm.DB) error {
	if err := db.AutoMigrate(&types.ProxyBid{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&types.Bid{}); err != nil {
		return err
	}

	return nil
}
