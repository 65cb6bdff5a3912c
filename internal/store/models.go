package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ComplaintStatus is the review state of a customer complaint.
type ComplaintStatus string

const (
	ComplaintNotReviewed     ComplaintStatus = "Not Reviewed"
	ComplaintCompleted       ComplaintStatus = "Completed"
	ComplaintWillNotResolved ComplaintStatus = "Will not be resolved"
)

// IsValid reports whether s is one of the known complaint statuses.
func (s ComplaintStatus) IsValid() bool {
	switch s {
	case ComplaintNotReviewed, ComplaintCompleted, ComplaintWillNotResolved:
		return true
	}
	return false
}

// TweetRef is an opaque reference to a post on the social network.
type TweetRef struct {
	ID  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	URI string             `bson:"uri" json:"uri"`
	CID string             `bson:"cid" json:"cid"`
}

// Product is an advertising campaign embedded under a company account.
// Every product carries a stable id assigned at creation so mutations can be
// addressed by id rather than by transient array position.
type Product struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	TargetedAudience string             `bson:"targetedAudience,omitempty" json:"targetedAudience,omitempty"`
	Category         []string           `bson:"category,omitempty" json:"category,omitempty"`
	IsActive         bool               `bson:"isActive" json:"isActive"`
	Tweets           []TweetRef         `bson:"tweets,omitempty" json:"tweets,omitempty"`
}

// Complaint is a customer-service item derived from a social-media post.
// Complaints are inserted by an external ingestion process; this service only
// transitions their status.
type Complaint struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	TweetUser    string             `bson:"tweetUser" json:"tweetUser"`
	TweetID      string             `bson:"tweetId" json:"tweetId"`
	Query        string             `bson:"query" json:"query"`
	QueryTitle   string             `bson:"queryTitle,omitempty" json:"queryTitle,omitempty"`
	QuerySummary string             `bson:"querySummary,omitempty" json:"querySummary,omitempty"`
	Status       ComplaintStatus    `bson:"status" json:"status"`
	Score        int                `bson:"score" json:"score"`
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`
}

// CompanyAccount is the root persisted aggregate representing one company.
// Products and complaints exist only as children of exactly one account.
// Version is an optimistic-concurrency counter incremented on every write so
// concurrent read-modify-write sequences cannot silently overwrite each other.
type CompanyAccount struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyEmail string             `bson:"companyEmail" json:"companyEmail"`
	Password     string             `bson:"password" json:"-"`
	CompanyName  string             `bson:"companyName" json:"companyName"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Industry     string             `bson:"industry" json:"industry"`
	Website      string             `bson:"website,omitempty" json:"website,omitempty"`
	Products     []Product          `bson:"products" json:"products"`
	Complaints   []Complaint        `bson:"complaints" json:"complaints"`
	Version      int64              `bson:"version" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
