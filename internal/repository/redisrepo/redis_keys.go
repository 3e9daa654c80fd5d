package redisrepo

import "fmt"

const (
	POST_KEY         = "post:%d"                 // <postID>
	IMPROVEMENTS_KEY = "post:%d-improvements:%s" // <postID>:<commentsDigest>
	USER_CACHE_KEY   = "user-cache:%s"           // <userID>
)

func PostKey(postID int64) string {
	return fmt.Sprintf(POST_KEY, postID)
}

func ImprovementsKey(postID int64, commentsDigest string) string {
	return fmt.Sprintf(IMPROVEMENTS_KEY, postID, commentsDigest)
}

func UserCacheKey(userID string) string {
	return fmt.Sprintf(USER_CACHE_KEY, userID)
}
