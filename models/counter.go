package models

// Counter holds the structure for the counters collection in mongo. There is
// one document per code namespace (e.g. "team_codes"); Current is the last
// issued sequence number.
type Counter struct {
	ID      string `json:"_id" bson:"_id"`
	Current int64  `json:"current" bson:"current"`
}
