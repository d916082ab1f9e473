package dto

// ChannelProfileResponse is the public view of a channel plus the derived
// subscription counts, computed per request.
type ChannelProfileResponse struct {
	Username          string `json:"username"`
	Fullname          string `json:"fullname"`
	Email             string `json:"email"`
	Avatar            string `json:"avatar"`
	CoverImage        string `json:"coverImage,omitempty"`
	SubscribersCount  int64  `json:"subscribersCount"`
	SubscribedToCount int64  `json:"subscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}
