package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentSessionKey returns the cache key pinning a student's active login JTI.
func (r *CacheKeyStruct) StudentSessionKey(studentID int) string {
	return fmt.Sprintf("login:%d", studentID)
}

// QuizPayloadKey returns the cache key for a quiz's sanitized student payload.
func (r *CacheKeyStruct) QuizPayloadKey(quizID string) string {
	return fmt.Sprintf("dpp:%s:payload", quizID)
}

// AttemptAnswersKey returns the cache key for a student's autosaved answer buffer.
func (r *CacheKeyStruct) AttemptAnswersKey(quizID string, studentID int) string {
	return fmt.Sprintf("student:%d:dpp:%s:answers", studentID, quizID)
}

// NotificationChannel returns the Redis PubSub channel for a student's
// live notification stream.
func (r *CacheKeyStruct) NotificationChannel(studentID int) string {
	return fmt.Sprintf("student:%d:notifications", studentID)
}

var CacheKey = NewCacheKeyStruct()
