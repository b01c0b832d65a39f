package model

import "time"

// Play represents a scheduled, capacity-limited experience program run by
// an animal store.  Users book a number of visitor slots against a play; the
// booking core guarantees the total of reserved visitors never exceeds
// MaxVisitors.  Plays are created and edited by the store-management
// workflow; the booking core only reads them.
//
// Fields:
//  ID           – primary key identifier.
//  StoreID      – animal store running the program.
//  Title        – program title shown to users.
//  Description  – free-text description.
//  PlayDateTime – scheduled start; bookings close at this instant.
//  MaxVisitors  – maximum number of visitors (always > 0).
//  RunningTime  – duration of the program in minutes.
//  Notice       – free-text notice for participants.
//  Img          – program image URL.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Play struct {
    ID           uint64    // plays.id
    StoreID      uint64    // plays.store_id
    Title        string    // plays.title
    Description  string    // plays.description
    PlayDateTime time.Time // plays.play_datetime
    MaxVisitors  uint32    // plays.max_visitors
    RunningTime  uint32    // plays.running_time (minutes)
    Notice       string    // plays.notice
    Img          string    // plays.img
    CreatedAt    time.Time // plays.created_at
    UpdatedAt    time.Time // plays.updated_at
}
