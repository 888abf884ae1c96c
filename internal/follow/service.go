package follow

import "context"

// Service handles follow graph business logic.
//
// A false result from Follow or Unfollow is an expected no-op outcome
// (unknown user, duplicate follow, missing edge), not an error; errors
// are reserved for infrastructure failure.
type Service struct {
	repo Repository
}

// NewService creates a new follow service with repository dependency injected
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Follow creates the edge follower -> following. It returns false when
// either user is unknown or the edge already exists; under concurrent
// duplicate calls exactly one caller observes true.
//
// Self-referential edges are not rejected here: the API layer owns
// that rule and must check follower == following before calling.
func (s *Service) Follow(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.repo.CreateEdge(ctx, followerID, followingID)
}

// Unfollow removes the edge follower -> following, returning false when
// either user is unknown or the edge does not exist.
func (s *Service) Unfollow(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.repo.DeleteEdge(ctx, followerID, followingID)
}

// FollowersCount returns how many users follow userID; 0 for unknown users
func (s *Service) FollowersCount(ctx context.Context, userID string) (int, error) {
	return s.repo.CountFollowers(ctx, userID)
}

// FollowingCount returns how many users userID follows; 0 for unknown users
func (s *Service) FollowingCount(ctx context.Context, userID string) (int, error) {
	return s.repo.CountFollowing(ctx, userID)
}
