package dto

import (
	"time"

	"github.com/spec-kit/homeservice/internal/domain"
	"github.com/spec-kit/homeservice/internal/repository"
)

// FeedbackRequest payload.
type FeedbackRequest struct {
	BookingID string  `json:"booking_id" validate:"required,uuid"`
	Rating    float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Comments  *string `json:"comments" validate:"omitempty,max=2000"`
}

// FeedbackResponse shape.
type FeedbackResponse struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	ServiceID string    `json:"service_id"`
	Rating    float64   `json:"rating"`
	Comments  *string   `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackEntryResponse adds the authoring customer.
type FeedbackEntryResponse struct {
	FeedbackResponse
	CustomerName   string  `json:"customer_name"`
	CustomerAvatar *string `json:"customer_avatar"`
}

// NewFeedbackResponse maps domain feedback.
func NewFeedbackResponse(feedback *domain.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:        feedback.ID,
		BookingID: feedback.BookingID,
		ServiceID: feedback.ServiceID,
		Rating:    feedback.Rating,
		Comments:  feedback.Comments,
		CreatedAt: feedback.CreatedAt,
	}
}

// NewFeedbackEntryResponses maps joined review entries.
func NewFeedbackEntryResponses(entries []repository.FeedbackEntry) []FeedbackEntryResponse {
	result := make([]FeedbackEntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, FeedbackEntryResponse{
			FeedbackResponse: NewFeedbackResponse(&entries[i].Feedback),
			CustomerName:     entries[i].CustomerName,
			CustomerAvatar:   entries[i].CustomerAvatar,
		})
	}
	return result
}
