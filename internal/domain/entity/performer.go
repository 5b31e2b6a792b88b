package entity

import (
	"time"
)

const (
	TierFree     = "free"
	TierPro      = "pro"
	TierFeatured = "featured"
)

const (
	PerformerStatusPending   = "pending"
	PerformerStatusApproved  = "approved"
	PerformerStatusSuspended = "suspended"
)

// Performer is the supply-side profile. Never hard-deleted; suspension
// only flips the status so historical bookings keep their reference.
type Performer struct {
	ID     string `json:"id" firestore:"id"`
	UserID string `json:"user_id" firestore:"userId"`

	StageName    string   `json:"stage_name" firestore:"stageName"`
	Category     string   `json:"category" firestore:"category"` // musician, magician, speaker, ...
	Bio          string   `json:"bio,omitempty" firestore:"bio,omitempty"`
	ServiceAreas []string `json:"service_areas,omitempty" firestore:"serviceAreas,omitempty"`
	GalleryURLs  []string `json:"gallery_urls,omitempty" firestore:"galleryUrls,omitempty"`
	VideoLinks   []string `json:"video_links,omitempty" firestore:"videoLinks,omitempty"`

	HourlyRate        float64 `json:"hourly_rate" firestore:"hourlyRate"`
	DepositPercentage float64 `json:"deposit_percentage" firestore:"depositPercentage"`

	Tier     string `json:"tier" firestore:"tier"`
	Status   string `json:"status" firestore:"status"`
	Verified bool   `json:"verified" firestore:"verified"`
	Featured bool   `json:"featured" firestore:"featured"`

	CompletedBookings int     `json:"completed_bookings" firestore:"completedBookings"`
	AverageRating     float64 `json:"average_rating" firestore:"averageRating"`
	ReviewCount       int     `json:"review_count" firestore:"reviewCount"`

	AchievementScore int    `json:"achievement_score" firestore:"achievementScore"`
	AchievementLevel string `json:"achievement_level" firestore:"achievementLevel"` // bronze, silver, gold, platinum

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ProfileCompleteness is the share of profile fields that are filled,
// in percent. Feeds the achievement score.
func (p *Performer) ProfileCompleteness() float64 {
	fields := []bool{
		p.StageName != "",
		p.Category != "",
		p.Bio != "",
		len(p.ServiceAreas) > 0,
		len(p.GalleryURLs) > 0,
		len(p.VideoLinks) > 0,
		p.HourlyRate > 0,
		p.DepositPercentage > 0,
	}

	filled := 0
	for _, ok := range fields {
		if ok {
			filled++
		}
	}

	return float64(filled) / float64(len(fields)) * 100
}
