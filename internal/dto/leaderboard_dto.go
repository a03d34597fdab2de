package dto

type LeaderboardEntry struct {
	Position  int    `json:"position"`
	UserID    string `json:"user_id"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Points    int    `json:"points"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}
