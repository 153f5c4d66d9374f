package publisher

import "errors"

// Sentinel kinds for publisher errors.
var (
	ErrNoBrokers   = errors.New("kafka publisher requires at least one broker")
	ErrNoTopic     = errors.New("kafka publisher requires a topic")
	ErrPublish     = errors.New("publish registration event failed")
	ErrEncodeEvent = errors.New("encode registration event failed")
)
