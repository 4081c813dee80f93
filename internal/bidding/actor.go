package bidding

import "sync"

// ActorRegistry provides one serialization domain per auction id. Every
// intent that mutates an auction's state (bid, proxy set or cancel, buy-now,
// expire, lifecycle transition) runs to completion inside Do before the next
// intent for the same auction starts. Intents for different auctions run in
// parallel.
type ActorRegistry struct {
	mu     sync.Mutex
	actors map[string]*sync.Mutex
}

func NewActorRegistry() *ActorRegistry {
	return &ActorRegistry{
		actors: make(map[string]*sync.Mutex),
	}
}

func (r *ActorRegistry) lock(auctionID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.actors[auctionID]
	if !ok {
		l = &sync.Mutex{}
		r.actors[auctionID] = l
	}
	return l
}

// Do runs fn while holding the auction's serialization token. fn must do its
// own read of current state; a snapshot taken outside Do can be stale by the
// time the token is acquired.
func (r *ActorRegistry) Do(auctionID string, fn func() error) error {
	l := r.lock(auctionID)
	l.Lock()
	defer l.Unlock()
	return fn()
}
