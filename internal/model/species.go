package model

// Species describes a kind of animal carried by the platform's catalog.
//
// Fields:
//  ID                – primary key identifier.
//  Classification    – common classification name (e.g. "leopard gecko").
//  ClassificationImg – representative image for the classification.
//  Habitat           – natural habitat description.
//  LifeSpan          – typical life span description.
//  Info              – general information text.
type Species struct {
    ID                uint64 // species.id
    Classification    string // species.classification
    ClassificationImg string // species.classification_img
    Habitat           string // species.habitat
    LifeSpan          string // species.life_span
    Info              string // species.info
}

// Feed is a food item that can be fed to animals, voted on by broadcast
// viewers.
//
// Fields:
//  ID   – primary key identifier.
//  Name – feed name.
//  Img  – feed image URL.
type Feed struct {
    ID   uint64 // feeds.id
    Name string // feeds.name
    Img  string // feeds.img
}
