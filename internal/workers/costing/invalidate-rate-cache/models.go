package invalidateratecache

type Input struct {
	Reason      string `json:"reason,omitempty"`
	RequestedBy string `json:"requestedBy,omitempty"`
}

type Output struct {
	RateCacheInvalidated bool  `json:"rateCacheInvalidated"`
	RateCacheGeneration  int64 `json:"rateCacheGeneration"`
}
