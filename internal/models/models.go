package models

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar,omitempty"`
	Role       Role   `json:"role"`
	TasteScore int    `json:"tasteScore"`
	Region     string `json:"region"`
}

type ReportStatus string

const (
	ReportPending  ReportStatus = "PENDING"
	ReportResolved ReportStatus = "RESOLVED"
	ReportRejected ReportStatus = "REJECTED"
)

func (s ReportStatus) Label() string {
	switch s {
	case ReportPending:
		return "Pending"
	case ReportResolved:
		return "Resolved"
	case ReportRejected:
		return "Rejected"
	}
	return string(s)
}

type ReportReason string

const (
	ReasonSpam          ReportReason = "SPAM"
	ReasonInappropriate ReportReason = "INAPPROPRIATE"
	ReasonFakeReview    ReportReason = "FAKE_REVIEW"
	ReasonNoReceipt     ReportReason = "NO_RECEIPT"
	ReasonHarassment    ReportReason = "HARASSMENT"
	ReasonCopyright     ReportReason = "COPYRIGHT"
	ReasonOther         ReportReason = "OTHER"
)

var reportReasonLabels = map[ReportReason]string{
	ReasonSpam:          "Spam / advertising",
	ReasonInappropriate: "Inappropriate content",
	ReasonFakeReview:    "Fake review",
	ReasonNoReceipt:     "Missing receipt",
	ReasonHarassment:    "Harassment / abuse",
	ReasonCopyright:     "Copyright violation",
	ReasonOther:         "Other",
}

func (r ReportReason) Label() string {
	if v, ok := reportReasonLabels[r]; ok {
		return v
	}
	return string(r)
}

// Report is a user-filed complaint against a restaurant review. The backend
// owns the full lifecycle; this client only reads reports and submits a
// single process action.
type Report struct {
	ID              int64        `json:"id"`
	ReviewID        int64        `json:"reviewId"`
	ReviewContent   string       `json:"reviewContent"`
	ReviewerName    string       `json:"reviewerName"`
	ReviewerEmail   string       `json:"reviewerEmail"`
	RestaurantName  string       `json:"restaurantName"`
	ReporterName    string       `json:"reporterName"`
	ReporterEmail   string       `json:"reporterEmail"`
	Reason          ReportReason `json:"reason"`
	Description     string       `json:"description,omitempty"`
	Status          ReportStatus `json:"status"`
	AdminNote       string       `json:"adminNote,omitempty"`
	ProcessedByName string       `json:"processedByName,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	ProcessedAt     *time.Time   `json:"processedAt,omitempty"`
}

type ChatReportReason string

const (
	ChatReasonHarassment       ChatReportReason = "HARASSMENT"
	ChatReasonSpam             ChatReportReason = "SPAM"
	ChatReasonSexualHarassment ChatReportReason = "SEXUAL_HARASSMENT"
	ChatReasonFraud            ChatReportReason = "FRAUD"
	ChatReasonInappropriate    ChatReportReason = "INAPPROPRIATE"
	ChatReasonOther            ChatReportReason = "OTHER"
)

var chatReportReasonLabels = map[ChatReportReason]string{
	ChatReasonHarassment:       "Harassment / abuse",
	ChatReasonSpam:             "Spam",
	ChatReasonSexualHarassment: "Sexual harassment",
	ChatReasonFraud:            "Fraud",
	ChatReasonInappropriate:    "Inappropriate content",
	ChatReasonOther:            "Other",
}

func (r ChatReportReason) Label() string {
	if v, ok := chatReportReasonLabels[r]; ok {
		return v
	}
	return string(r)
}

type ChatReport struct {
	ID                int64            `json:"id"`
	ReporterID        int64            `json:"reporterId"`
	ReporterName      string           `json:"reporterName"`
	ReporterEmail     string           `json:"reporterEmail"`
	ReportedUserID    int64            `json:"reportedUserId"`
	ReportedUserName  string           `json:"reportedUserName"`
	ReportedUserEmail string           `json:"reportedUserEmail"`
	ChatRoomID        int64            `json:"chatRoomId"`
	ChatRoomUUID      string           `json:"chatRoomUuid"`
	MessageID         *int64           `json:"messageId,omitempty"`
	MessageContent    string           `json:"messageContent,omitempty"`
	Reason            ChatReportReason `json:"reason"`
	ReasonDescription string           `json:"reasonDescription,omitempty"`
	Description       string           `json:"description,omitempty"`
	Status            ReportStatus     `json:"status"`
	StatusDescription string           `json:"statusDescription,omitempty"`
	AdminNote         string           `json:"adminNote,omitempty"`
	ProcessedByName   string           `json:"processedByName,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// ReceiptReview is a restaurant review whose attached receipt failed
// automatic OCR verification and needs a manual decision.
type ReceiptReview struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"userId"`
	UserName           string    `json:"userName"`
	UserEmail          string    `json:"userEmail"`
	RestaurantID       int64     `json:"restaurantId"`
	RestaurantName     string    `json:"restaurantName"`
	Content            string    `json:"content"`
	ReceiptImageURL    string    `json:"receiptImageUrl"`
	VerificationStatus string    `json:"verificationStatus"`
	VerificationScore  *int      `json:"verificationScore,omitempty"`
	OCRText            string    `json:"ocrText,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

type PendingRestaurant struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Address           string    `json:"address"`
	Region            string    `json:"region"`
	District          string    `json:"district"`
	Neighborhood      string    `json:"neighborhood"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	CategoryDisplay   string    `json:"categoryDisplay"`
	SignboardImageURL string    `json:"signboardImageUrl,omitempty"`
	RegisteredByName  string    `json:"registeredByName"`
	CreatedAt         time.Time `json:"createdAt"`
}

type GatheringStatus string

const (
	GatheringRecruiting GatheringStatus = "RECRUITING"
	GatheringConfirmed  GatheringStatus = "CONFIRMED"
	GatheringInProgress GatheringStatus = "IN_PROGRESS"
	GatheringCompleted  GatheringStatus = "COMPLETED"
	GatheringCancelled  GatheringStatus = "CANCELLED"
)

func (s GatheringStatus) Label() string {
	switch s {
	case GatheringRecruiting:
		return "Recruiting"
	case GatheringConfirmed:
		return "Confirmed"
	case GatheringInProgress:
		return "In progress"
	case GatheringCompleted:
		return "Completed"
	case GatheringCancelled:
		return "Cancelled"
	}
	return string(s)
}

type GatheringRestaurant struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Category string `json:"category"`
}

type GatheringCreator struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// Gathering is a deposit-backed meetup. Read-only in this console.
type Gathering struct {
	ID                  int64               `json:"id"`
	UUID                string              `json:"uuid"`
	Title               string              `json:"title"`
	Description         string              `json:"description,omitempty"`
	Status              GatheringStatus     `json:"status"`
	StatusDisplay       string              `json:"statusDisplay,omitempty"`
	RefundType          string              `json:"refundType"`
	RefundTypeDisplay   string              `json:"refundTypeDisplay,omitempty"`
	TargetTime          time.Time           `json:"targetTime"`
	MaxParticipants     int                 `json:"maxParticipants"`
	CurrentParticipants int                 `json:"currentParticipants"`
	DepositAmount       int64               `json:"depositAmount"`
	ChatRoomUUID        string              `json:"chatRoomUuid,omitempty"`
	Restaurant          GatheringRestaurant `json:"restaurant"`
	Creator             GatheringCreator    `json:"creator"`
	CreatedAt           time.Time           `json:"createdAt"`
}

// FailedRefund is a gathering deposit the payment gateway could not return
// automatically. The ID is the participant record awaiting manual
// reconciliation.
type FailedRefund struct {
	ID                  int64     `json:"id"`
	GatheringID         int64     `json:"gatheringId"`
	GatheringUUID       string    `json:"gatheringUuid"`
	GatheringTitle      string    `json:"gatheringTitle"`
	RestaurantName      string    `json:"restaurantName"`
	UserID              int64     `json:"userId"`
	UserName            string    `json:"userName"`
	UserEmail           string    `json:"userEmail"`
	DepositAmount       int64     `json:"depositAmount"`
	ImpUID              string    `json:"impUid"`
	MerchantUID         string    `json:"merchantUid"`
	RefundReason        string    `json:"refundReason,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	GatheringTargetTime time.Time `json:"gatheringTargetTime"`
}

type AdminStats struct {
	TotalUsers            int64 `json:"totalUsers"`
	TotalReviews          int64 `json:"totalReviews"`
	TotalRestaurants      int64 `json:"totalRestaurants"`
	PendingReports        int64 `json:"pendingReports"`
	PendingChatReports    int64 `json:"pendingChatReports"`
	PendingReceiptReviews int64 `json:"pendingReceiptReviews"`
	PendingRestaurants    int64 `json:"pendingRestaurants"`
	FailedRefunds         int64 `json:"failedRefunds"`
}

// Page mirrors the backend's Spring-style page projection.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// Envelope is the uniform backend response wrapper.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}
