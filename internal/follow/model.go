package follow

// Edge is a directed follow relationship: follower follows following.
// It is an independent record referencing both users by id; at most one
// edge exists per ordered pair.
type Edge struct {
	FollowerID  string `json:"follower_id"`
	FollowingID string `json:"following_id"`
}
