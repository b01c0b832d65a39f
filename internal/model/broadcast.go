package model

import "time"

// Broadcast represents a live stream run by an animal store.  Status is
// ONAIR while streaming and OFFAIR once finished.
//
// Fields:
//  ID          – primary key identifier.
//  StoreID     – broadcasting animal store.
//  SessionID   – media-server session identifier for the stream.
//  Title       – broadcast title.
//  Description – broadcast description.
//  Thumbnail   – thumbnail image URL.
//  Status      – ONAIR or OFFAIR.
//  StartedAt   – when the stream went live.
//  EndedAt     – when the stream ended (nil while on air).
type Broadcast struct {
    ID          uint64     // broadcasts.id
    StoreID     uint64     // broadcasts.store_id
    SessionID   string     // broadcasts.session_id
    Title       string     // broadcasts.title
    Description string     // broadcasts.description
    Thumbnail   string     // broadcasts.thumbnail
    Status      string     // broadcasts.status
    StartedAt   time.Time  // broadcasts.started_at
    EndedAt     *time.Time // broadcasts.ended_at (nullable)
}

// Animal membership in a broadcast (broadcast_animals) and feed-vote
// tallies (feed_votes) are read exclusively through BroadcastRepo's
// join queries and have no standalone model types.
